// Package api exposes the farm service and the fishing bot over REST and
// a WebSocket event stream.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"farmbot-backend/lib/scrapers/farmrpg"
	"farmbot-backend/services/farm"
	"farmbot-backend/services/fishingbot"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// FarmService is the domain surface the REST controllers expose.
type FarmService interface {
	GetPlayerStats(ctx context.Context) (farmrpg.PlayerCoins, error)
	GetItemDetails(ctx context.Context, itemID int) (farmrpg.ItemDetails, error)
	GetInventory(ctx context.Context, categories ...farmrpg.InventoryCategory) (farmrpg.InventoryData, error)
	GetBaitInfo(ctx context.Context, locationID int) (farmrpg.BaitInfo, error)
	CatchFish(ctx context.Context, locationID, baitAmount int) (farmrpg.FishCatchData, error)
	BuyItem(ctx context.Context, itemID, quantity int) (farm.BuyItemResult, error)
	SellItem(ctx context.Context, itemID, quantity int) (int, error)
	SellAllItems(ctx context.Context, categories ...farmrpg.InventoryCategory) (farm.SellAllItemsResult, error)
}

// BotService is the bot control surface.
type BotService interface {
	State() fishingbot.State
	Start() error
	Stop()
	Pause() error
	Resume() error
	UpdateConfig(patch fishingbot.ConfigPatch)
	Subscribe() (<-chan fishingbot.Event, func())
}

type handler struct {
	farm FarmService
	bot  BotService
}

func NewRouter(farmService FarmService, botService BotService) http.Handler {
	h := &handler{farm: farmService, bot: botService}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.health)
		r.Get("/health/live", h.healthLive)
		r.Get("/health/ready", h.healthReady)

		r.Get("/player/stats", h.playerStats)
		r.Get("/item/{id}", h.itemDetails)
		r.Post("/item/buy", h.buyItem)
		r.Post("/item/sell", h.sellItem)
		r.Post("/item/sell-all", h.sellAllItems)
		r.Get("/inventory", h.inventory)
		r.Post("/fish/catch", h.catchFish)
		r.Get("/fish/bait", h.baitInfo)

		r.Route("/bot", func(r chi.Router) {
			r.Get("/status", h.botStatus)
			r.Post("/start", h.botStart)
			r.Post("/stop", h.botStop)
			r.Post("/pause", h.botPause)
			r.Post("/resume", h.botResume)
			r.Post("/config", h.botConfig)
			r.Get("/ws", h.botEvents)
		})
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.InfoContext(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).String(),
		)
	})
}
