package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"farmbot-backend/lib/scrapers/farmrpg"

	"github.com/go-chi/chi/v5"
)

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	respondData(w, map[string]any{
		"status": "ok",
		"bot":    h.bot.State().Status,
	})
}

func (h *handler) healthLive(w http.ResponseWriter, r *http.Request) {
	respondData(w, map[string]any{"status": "ok"})
}

func (h *handler) healthReady(w http.ResponseWriter, r *http.Request) {
	respondData(w, map[string]any{"status": "ok"})
}

func (h *handler) playerStats(w http.ResponseWriter, r *http.Request) {
	coins, err := h.farm.GetPlayerStats(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, coins)
}

func (h *handler) itemDetails(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondValidation(w, "item id must be a positive integer")
		return
	}
	details, err := h.farm.GetItemDetails(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, details)
}

func (h *handler) inventory(w http.ResponseWriter, r *http.Request) {
	var categories []farmrpg.InventoryCategory
	if c := r.URL.Query().Get("category"); c != "" {
		categories = append(categories, farmrpg.InventoryCategory(c))
	}
	data, err := h.farm.GetInventory(r.Context(), categories...)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, data)
}

func (h *handler) baitInfo(w http.ResponseWriter, r *http.Request) {
	locationID := 1
	if raw := r.URL.Query().Get("locationId"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondValidation(w, "locationId must be a positive integer")
			return
		}
		locationID = parsed
	}
	info, err := h.farm.GetBaitInfo(r.Context(), locationID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, info)
}

type catchFishRequest struct {
	LocationID int `json:"locationId"`
	BaitAmount int `json:"baitAmount"`
}

func (h *handler) catchFish(w http.ResponseWriter, r *http.Request) {
	req := catchFishRequest{LocationID: 1, BaitAmount: 1}
	if err := decodeBody(r, &req); err != nil {
		respondValidation(w, err.Error())
		return
	}
	if req.LocationID <= 0 || req.BaitAmount <= 0 {
		respondValidation(w, "locationId and baitAmount must be positive integers")
		return
	}
	data, err := h.farm.CatchFish(r.Context(), req.LocationID, req.BaitAmount)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, data)
}

type tradeRequest struct {
	ItemID   int `json:"itemId"`
	Quantity int `json:"quantity"`
}

func (h *handler) buyItem(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := decodeBody(r, &req); err != nil {
		respondValidation(w, err.Error())
		return
	}
	result, err := h.farm.BuyItem(r.Context(), req.ItemID, req.Quantity)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, result)
}

func (h *handler) sellItem(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := decodeBody(r, &req); err != nil {
		respondValidation(w, err.Error())
		return
	}
	total, err := h.farm.SellItem(r.Context(), req.ItemID, req.Quantity)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, map[string]int{"totalSilver": total})
}

type sellAllRequest struct {
	Category string `json:"category"`
}

func (h *handler) sellAllItems(w http.ResponseWriter, r *http.Request) {
	var req sellAllRequest
	if err := decodeBody(r, &req); err != nil {
		respondValidation(w, err.Error())
		return
	}
	var categories []farmrpg.InventoryCategory
	if req.Category != "" {
		categories = append(categories, farmrpg.InventoryCategory(req.Category))
	}
	result, err := h.farm.SellAllItems(r.Context(), categories...)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, result)
}

// decodeBody parses an optional JSON body. An empty body leaves the
// destination's preset defaults in place.
func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
