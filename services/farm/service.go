// Package farm exposes the game's capabilities as typed operations over
// the scraped pages: player stats, item details, inventory, buying,
// selling and catching fish.
package farm

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"farmbot-backend/lib/scrapers/farmrpg"
	"farmbot-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("services/farm")

type Service struct {
	client *farmrpg.Client
	// pause between sequential sale requests, to keep upstream load civil
	sellThrottle time.Duration
}

func NewService(client *farmrpg.Client) *Service {
	return &Service{
		client:       client,
		sellThrottle: 100 * time.Millisecond,
	}
}

// document classifies a raw upstream reply and parses it. Transport
// failures are internal (500), non-200 upstream statuses become 502.
func document(res farmrpg.Response, err error) (*goquery.Document, *Error) {
	if err != nil {
		return nil, internal(err)
	}
	if !res.OK() {
		return nil, upstream(res.StatusCode)
	}
	doc, err := farmrpg.ParseDocument(res.Body)
	if err != nil {
		return nil, internal(err)
	}
	return doc, nil
}

// token classifies a raw upstream reply from a transactional endpoint and
// returns its trimmed text token.
func token(res farmrpg.Response, err error) (string, *Error) {
	if err != nil {
		return "", internal(err)
	}
	if !res.OK() {
		return "", upstream(res.StatusCode)
	}
	return strings.TrimSpace(res.Body), nil
}

func (s *Service) GetPlayerStats(ctx context.Context) (farmrpg.PlayerCoins, error) {
	ctx, span := tracer.Start(ctx, "GetPlayerStats")
	defer span.End()

	doc, ferr := document(s.client.FetchStatsPage(ctx))
	if ferr != nil {
		return farmrpg.PlayerCoins{}, ferr
	}
	return farmrpg.ParseCoins(doc), nil
}

func (s *Service) GetItemDetails(ctx context.Context, itemID int) (farmrpg.ItemDetails, error) {
	ctx, span := tracer.Start(ctx, "GetItemDetails")
	defer span.End()

	if itemID <= 0 {
		return farmrpg.ItemDetails{}, validation("item id must be a positive integer")
	}

	doc, ferr := document(s.client.FetchItemPage(ctx, itemID))
	if ferr != nil {
		return farmrpg.ItemDetails{}, ferr
	}
	return farmrpg.ParseItemDetails(doc, itemID), nil
}

// GetInventory returns the full inventory, optionally narrowed to the
// given categories.
func (s *Service) GetInventory(ctx context.Context, categories ...farmrpg.InventoryCategory) (farmrpg.InventoryData, error) {
	ctx, span := tracer.Start(ctx, "GetInventory")
	defer span.End()

	doc, ferr := document(s.client.FetchInventoryPage(ctx))
	if ferr != nil {
		return farmrpg.InventoryData{}, ferr
	}

	data := farmrpg.ParseInventory(doc)
	if len(categories) == 0 {
		return data, nil
	}

	wanted := make(map[farmrpg.InventoryCategory]bool, len(categories))
	for _, c := range categories {
		wanted[c] = true
	}
	var filtered []farmrpg.InventoryCategoryData
	for _, categoryData := range data.Categories {
		if wanted[categoryData.Category] {
			filtered = append(filtered, categoryData)
		}
	}
	data.Categories = filtered
	return data, nil
}

func (s *Service) GetBaitInfo(ctx context.Context, locationID int) (farmrpg.BaitInfo, error) {
	ctx, span := tracer.Start(ctx, "GetBaitInfo")
	defer span.End()

	if locationID <= 0 {
		return farmrpg.BaitInfo{}, validation("location id must be a positive integer")
	}

	doc, ferr := document(s.client.FetchBaitPage(ctx, locationID))
	if ferr != nil {
		return farmrpg.BaitInfo{}, ferr
	}
	return farmrpg.ParseBaitInfo(doc), nil
}

// CatchFish attempts one catch. A reply without the catch image marker
// means the attempt had no bait behind it, reported as a NO_BAIT error
// rather than a parse failure.
func (s *Service) CatchFish(ctx context.Context, locationID, baitAmount int) (farmrpg.FishCatchData, error) {
	ctx, span := tracer.Start(ctx, "CatchFish")
	defer span.End()

	if locationID <= 0 {
		return farmrpg.FishCatchData{}, validation("location id must be a positive integer")
	}
	if baitAmount <= 0 {
		return farmrpg.FishCatchData{}, validation("bait amount must be a positive integer")
	}

	doc, ferr := document(s.client.PostCatch(ctx, locationID, baitAmount))
	if ferr != nil {
		return farmrpg.FishCatchData{}, ferr
	}

	data, ok := farmrpg.ParseCatch(doc)
	if !ok {
		return farmrpg.FishCatchData{}, noBait("Failed to catch fish - no fish data returned")
	}
	return data, nil
}

var numericTokenRegex = regexp.MustCompile(`^\d+$`)

// BuyItem purchases up to `quantity` units of an item. A quantity of -1
// buys as many as the current balance affords. The purchase is clamped to
// the remaining inventory capacity; the game itself may fulfill fewer
// units than requested, in which case its reply overrides the request.
func (s *Service) BuyItem(ctx context.Context, itemID, quantity int) (BuyItemResult, error) {
	ctx, span := tracer.Start(ctx, "BuyItem")
	defer span.End()

	if itemID <= 0 {
		return BuyItemResult{}, validation("item id must be a positive integer")
	}
	if quantity == 0 || quantity < -1 {
		return BuyItemResult{}, validation("quantity must be a positive integer or -1 for max affordable")
	}

	// the item page and the stats page are independent reads
	var details farmrpg.ItemDetails
	var coins farmrpg.PlayerCoins
	var detailsErr, coinsErr error
	wg := sync.WaitGroup{}
	wg.Add(2)
	go func() {
		defer wg.Done()
		details, detailsErr = s.GetItemDetails(ctx, itemID)
	}()
	go func() {
		defer wg.Done()
		coins, coinsErr = s.GetPlayerStats(ctx)
	}()
	wg.Wait()

	if detailsErr != nil {
		return BuyItemResult{}, detailsErr
	}
	if coinsErr != nil {
		return BuyItemResult{}, coinsErr
	}

	// a scraped price of 0 means the page carried no usable price markup
	if details.BuyPrice == nil || details.BuyPrice.Amount <= 0 {
		return BuyItemResult{}, validation("Item is not available for purchase")
	}

	price := details.BuyPrice.Amount
	currency := details.BuyPrice.Currency
	balance := coins.Balance(currency)
	currentInventory := 0
	if details.Inventory != nil {
		currentInventory = details.Inventory.Quantity
	}

	quantityToBuy := quantity
	if quantity == -1 {
		quantityToBuy = balance / price
		if quantityToBuy == 0 {
			return BuyItemResult{}, validation(
				"Insufficient %s. Need %d %s, have %d", currency, price, currency, balance)
		}
	} else if price*quantityToBuy > balance {
		return BuyItemResult{}, validation(
			"Insufficient %s. Need %d %s, have %d", currency, price*quantityToBuy, currency, balance)
	}

	spaceAvailable := farmrpg.DefaultInventoryCap - currentInventory
	if spaceAvailable <= 0 {
		return BuyItemResult{}, validation(
			"Inventory full. You have %d/%d items.", currentInventory, farmrpg.DefaultInventoryCap)
	}
	if quantityToBuy > spaceAvailable {
		quantityToBuy = spaceAvailable
	}

	body, ferr := token(s.client.PostBuyItem(ctx, itemID, quantityToBuy))
	if ferr != nil {
		return BuyItemResult{}, ferr
	}

	isSuccess := strings.EqualFold(body, "success")
	isNumeric := numericTokenRegex.MatchString(body)
	if !isSuccess && !isNumeric {
		return BuyItemResult{}, validation("Purchase failed: %s", body)
	}
	if isNumeric {
		// the game reports the quantity it actually fulfilled
		quantityToBuy = textutil.ParseInt(body)
	}

	totalCost := price * quantityToBuy
	remaining := coins
	if currency == farmrpg.CurrencyGold {
		remaining.Gold -= totalCost
	} else {
		remaining.Silver -= totalCost
	}

	// the purchase reply does not include the resulting inventory count,
	// re-fetch the item page for an authoritative number
	finalInventory := currentInventory + quantityToBuy
	updated, err := s.GetItemDetails(ctx, itemID)
	if err == nil && updated.Inventory != nil {
		finalInventory = updated.Inventory.Quantity
	} else if err != nil {
		slog.WarnContext(ctx, "failed to re-fetch item after purchase", "item_id", itemID, "err", err)
	}

	return BuyItemResult{
		ItemID:            itemID,
		ItemName:          details.Name,
		QuantityPurchased: quantityToBuy,
		CurrentInventory:  finalInventory,
		TotalCost:         Cost{Amount: totalCost, Currency: currency},
		RemainingCoins:    remaining,
	}, nil
}

// SellItem sells a quantity of one item. The endpoint answers with a bare
// token: empty for an unknown item, "error" when the quantity exceeds the
// holdings, or the total sale proceeds as an integer.
func (s *Service) SellItem(ctx context.Context, itemID, quantity int) (int, error) {
	ctx, span := tracer.Start(ctx, "SellItem")
	defer span.End()

	body, ferr := token(s.client.PostSellItem(ctx, itemID, quantity))
	if ferr != nil {
		return 0, ferr
	}

	if body == "" {
		return 0, notFound("Item not found or invalid item ID")
	}
	if strings.EqualFold(body, "error") {
		return 0, validation("Insufficient quantity in inventory")
	}

	totalSellValue := textutil.ParseInt(body)
	if totalSellValue == 0 {
		return 0, validation("Unexpected response: %s", body)
	}
	return totalSellValue, nil
}

// SellAllItems sells every held item, optionally restricted to the given
// categories. Earned silver is reported as the balance difference around
// the batch rather than a sum of sale tokens, since individual sales may
// fail silently.
func (s *Service) SellAllItems(ctx context.Context, categories ...farmrpg.InventoryCategory) (SellAllItemsResult, error) {
	ctx, span := tracer.Start(ctx, "SellAllItems")
	defer span.End()

	inventory, err := s.GetInventory(ctx, categories...)
	if err != nil {
		return SellAllItemsResult{}, err
	}

	var itemsToSell []farmrpg.InventoryItem
	for _, categoryData := range inventory.Categories {
		itemsToSell = append(itemsToSell, categoryData.Items...)
	}
	if len(itemsToSell) == 0 {
		return SellAllItemsResult{}, nil
	}

	silverBefore := 0
	if coins, err := s.GetPlayerStats(ctx); err == nil {
		silverBefore = coins.Silver
	}

	itemsSold := 0
	for _, item := range itemsToSell {
		_, err := s.SellItem(ctx, item.ID, item.Quantity)
		if err != nil {
			slog.WarnContext(ctx, "skipping failed sale",
				"item_id", item.ID, "quantity", item.Quantity, "err", err)
		} else {
			itemsSold += item.Quantity
		}
		time.Sleep(s.sellThrottle)
	}

	silverAfter := 0
	if coins, err := s.GetPlayerStats(ctx); err == nil {
		silverAfter = coins.Silver
	}

	return SellAllItemsResult{
		TotalSilver: silverAfter - silverBefore,
		ItemsSold:   itemsSold,
		ItemTypes:   len(itemsToSell),
	}, nil
}
