package farm

import "farmbot-backend/lib/scrapers/farmrpg"

type Cost struct {
	Amount   int              `json:"amount"`
	Currency farmrpg.Currency `json:"currency"`
}

// BuyItemResult is a transaction receipt. It combines pre-transaction
// state with the raw purchase reply, since the purchase endpoint itself
// answers with nothing but a success token or a fulfilled quantity.
type BuyItemResult struct {
	ItemID            int                 `json:"itemId"`
	ItemName          string              `json:"itemName"`
	QuantityPurchased int                 `json:"quantityPurchased"`
	CurrentInventory  int                 `json:"currentInventory"`
	TotalCost         Cost                `json:"totalCost"`
	RemainingCoins    farmrpg.PlayerCoins `json:"remainingCoins"`
}

type SellAllItemsResult struct {
	TotalSilver int `json:"totalSilver"`
	ItemsSold   int `json:"itemsSold"`
	ItemTypes   int `json:"itemTypes"`
}
