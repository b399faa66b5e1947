package farmrpg

type Currency string

const (
	CurrencySilver Currency = "Silver"
	CurrencyGold   Currency = "Gold"
)

// PlayerCoins is a read-only snapshot, recomputed on every stats fetch.
type PlayerCoins struct {
	Silver int `json:"silver"`
	Gold   int `json:"gold"`
}

func (c PlayerCoins) Balance(currency Currency) int {
	if currency == CurrencyGold {
		return c.Gold
	}
	return c.Silver
}

type BuyPrice struct {
	Amount   int      `json:"amount"`
	Currency Currency `json:"currency"`
	Location string   `json:"location"`
}

type CraftingUse struct {
	ItemName      string   `json:"itemName"`
	ItemID        int      `json:"itemId"`
	Requirements  []string `json:"requirements"`
	RequiredLevel int      `json:"requiredLevel"`
}

type ItemInventory struct {
	Quantity int `json:"quantity"`
}

type ItemDetails struct {
	ID           int            `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Image        string         `json:"image"`
	Inventory    *ItemInventory `json:"inventory,omitempty"`
	BuyPrice     *BuyPrice      `json:"buyPrice,omitempty"`
	Givable      bool           `json:"givable"`
	HelpRequests int            `json:"helpRequests,omitempty"`
	CraftingUse  []CraftingUse  `json:"craftingUse,omitempty"`
}

type InventoryCategory string

const (
	CategoryItems      InventoryCategory = "items"
	CategoryFish       InventoryCategory = "fish"
	CategoryCrops      InventoryCategory = "crops"
	CategorySeeds      InventoryCategory = "seeds"
	CategoryLoot       InventoryCategory = "loot"
	CategoryRunestones InventoryCategory = "runestones"
	CategoryBooks      InventoryCategory = "books"
	CategoryCards      InventoryCategory = "cards"
	CategoryRares      InventoryCategory = "rares"
)

type InventoryItem struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	ImageURL    string `json:"imageUrl"`
}

type InventoryCategoryData struct {
	Category InventoryCategory `json:"category"`
	Items    []InventoryItem   `json:"items"`
}

// InventoryStats reflects what the inventory page reports about itself,
// it is never recomputed locally.
type InventoryStats struct {
	UniqueItems int `json:"uniqueItems"`
	TotalItems  int `json:"totalItems"`
	MaxCapacity int `json:"maxCapacity"`
}

type InventoryData struct {
	Categories []InventoryCategoryData `json:"categories"`
	Stats      InventoryStats          `json:"stats"`
}

type FishCatch struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

type CatchStats struct {
	TotalFishCaught  int     `json:"totalFishCaught"`
	FishingXpPercent float64 `json:"fishingXpPercent"`
}

type CatchResources struct {
	Stamina int `json:"stamina"`
	Bait    int `json:"bait"`
}

type FishCatchData struct {
	Catch     FishCatch      `json:"catch"`
	Stats     CatchStats     `json:"stats"`
	Resources CatchResources `json:"resources"`
}

type BaitInfo struct {
	BaitName   string `json:"baitName"`
	BaitCount  int    `json:"baitCount"`
	Streak     int    `json:"streak"`
	BestStreak int    `json:"bestStreak"`
}
