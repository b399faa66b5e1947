package farm

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"farmbot-backend/lib/scrapers/farmrpg"
	"farmbot-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

// fakeGame serves just enough of the game's pages and worker.php tokens to
// exercise the service. All mutable state is behind the mutex because
// BuyItem fetches the item page and the stats page concurrently.
type fakeGame struct {
	mu        sync.Mutex
	silver    int
	gold      int
	items     map[int]string
	inventory string
	bait      string
	catch     string
	buy       func(itemID, qty int) string
	sell      func(itemID, qty int) string
	sellCalls []string
}

func (g *fakeGame) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()

	q := r.URL.Query()
	switch {
	case r.URL.Path == "/item.php":
		id, _ := strconv.Atoi(q.Get("id"))
		fmt.Fprint(w, g.items[id])
	case r.URL.Path == "/inventory.php":
		fmt.Fprint(w, g.inventory)
	case q.Get("go") == "getstats":
		fmt.Fprint(w, statsPage(strconv.Itoa(g.silver), strconv.Itoa(g.gold)))
	case q.Get("go") == "baitarea":
		fmt.Fprint(w, g.bait)
	case q.Get("go") == "fishcaught":
		fmt.Fprint(w, g.catch)
	case q.Get("go") == "buyitem":
		id, _ := strconv.Atoi(q.Get("id"))
		qty, _ := strconv.Atoi(q.Get("qty"))
		fmt.Fprint(w, g.buy(id, qty))
	case q.Get("go") == "sellitem":
		id, _ := strconv.Atoi(q.Get("id"))
		qty, _ := strconv.Atoi(q.Get("qty"))
		g.sellCalls = append(g.sellCalls, fmt.Sprintf("%d:%d", id, qty))
		fmt.Fprint(w, g.sell(id, qty))
	default:
		http.NotFound(w, r)
	}
}

func statsPage(silver, gold string) string {
	return fmt.Sprintf(
		`<div><img alt="Silver"/><strong>%s</strong><img alt="Gold"/><strong>%s</strong></div>`,
		silver, gold,
	)
}

func itemPage(name string, inventory int, buyPrice string) string {
	page := fmt.Sprintf(`
		<div class="navbar-inner"><div class="center"><a>%s</a></div></div>
		<div id="img"><img src="/img/items/18.png"/>
A test item</div>`, name)
	if inventory > 0 {
		page += fmt.Sprintf(
			`<div><div class="item-title">My Inventory</div><div class="item-after">%d</div></div>`,
			inventory,
		)
	}
	if buyPrice != "" {
		page += fmt.Sprintf(
			`<div><div class="item-title">Buy Price <span>Country Store</span></div><div class="item-after">%s</div></div>`,
			buyPrice,
		)
	}
	return page
}

const inventoryFixture = `
	<div class="list-group"><ul>
		<li class="list-group-title">Fish &amp; Bait</li>
		<li><a href="item.php?id=91">
			<div class="item-media"><img src="/img/items/91.png"/></div>
			<div class="item-title"><strong>Drum</strong><span>A common fish</span></div>
			<div class="item-after">179</div>
		</a></li>
	</ul></div>
	<div class="list-group"><ul>
		<li class="list-group-title">Items</li>
		<li><a href="item.php?id=18">
			<div class="item-media"><img src="/img/items/18.png"/></div>
			<div class="item-title"><strong>Worms</strong><span>Fishing bait</span></div>
			<div class="item-after">10</div>
		</a></li>
	</ul></div>
	<div class="card-content-inner">Your inventory contains <strong>2</strong> unique items and <strong>189</strong> items in total.</div>
	<div class="card-content-inner">You cannot have more than <strong>200</strong> of any item.</div>
`

const catchFixture = `
	<img class="itemimg" alt="Yellow Perch" src="/img/items/7718.png"/>
	<span id="fishcnt">12,345</span>
	<span id="fishingpb">42.53</span>
	<span id="staminacnt">198</span>
	<span id="baitcnt">37</span>
`

func newTestService(t *testing.T, game http.Handler) *Service {
	t.Helper()
	cleanup := telemetry.SetupForTesting("test:services/farm")
	t.Cleanup(cleanup)

	srv := httptest.NewServer(game)
	t.Cleanup(srv.Close)

	client, err := farmrpg.NewClient(farmrpg.ClientOptions{
		BaseUrl: srv.URL,
		Cookie:  "farmrpg_token=test",
	})
	require.NoError(t, err)

	svc := NewService(client)
	svc.sellThrottle = 0
	return svc
}

func TestGetPlayerStats(t *testing.T) {
	svc := newTestService(t, &fakeGame{silver: 5267, gold: 12})

	coins, err := svc.GetPlayerStats(context.Background())
	require.NoError(t, err)
	require.Equal(t, farmrpg.PlayerCoins{Silver: 5267, Gold: 12}, coins)
}

func TestGetPlayerStatsThousandsSeparators(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, statsPage("1,234,567", "1,002"))
	}))

	coins, err := svc.GetPlayerStats(context.Background())
	require.NoError(t, err)
	require.Equal(t, farmrpg.PlayerCoins{Silver: 1234567, Gold: 1002}, coins)
}

func TestUpstreamStatusBecomesBadGateway(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := svc.GetPlayerStats(context.Background())
	require.Error(t, err)
	require.Equal(t, http.StatusBadGateway, StatusOf(err))
	require.Equal(t, CodeUpstream, CodeOf(err))
}

func TestTransportFailureBecomesInternal(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/farm")
	t.Cleanup(cleanup)

	client, err := farmrpg.NewClient(farmrpg.ClientOptions{
		BaseUrl: "http://127.0.0.1:1",
		Cookie:  "farmrpg_token=test",
	})
	require.NoError(t, err)

	_, err = NewService(client).GetPlayerStats(context.Background())
	require.Error(t, err)
	require.Equal(t, http.StatusInternalServerError, StatusOf(err))
	require.Equal(t, CodeInternal, CodeOf(err))
}

func TestGetItemDetailsRejectsBadID(t *testing.T) {
	svc := newTestService(t, &fakeGame{})

	_, err := svc.GetItemDetails(context.Background(), 0)
	require.Error(t, err)
	require.Equal(t, CodeValidation, CodeOf(err))
}

func TestGetInventoryCategoryFilter(t *testing.T) {
	svc := newTestService(t, &fakeGame{inventory: inventoryFixture})

	data, err := svc.GetInventory(context.Background(), farmrpg.CategoryFish)
	require.NoError(t, err)
	require.Len(t, data.Categories, 1)
	require.Equal(t, farmrpg.CategoryFish, data.Categories[0].Category)
	require.Len(t, data.Categories[0].Items, 1)
	require.Equal(t, "Drum", data.Categories[0].Items[0].Name)
	require.Equal(t, 179, data.Categories[0].Items[0].Quantity)
	// stats reflect the whole page, not the filtered slice
	require.Equal(t, 189, data.Stats.TotalItems)
}

func TestGetBaitInfo(t *testing.T) {
	svc := newTestService(t, &fakeGame{bait: `
		<span id="baitleft">14</span>
		<span id="last_bait">Worms</span>
		<div class="col-55">Streak: <strong>5</strong><br/>Best: <strong>25</strong></div>
	`})

	info, err := svc.GetBaitInfo(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, farmrpg.BaitInfo{
		BaitName:   "Worms",
		BaitCount:  14,
		Streak:     5,
		BestStreak: 25,
	}, info)
}

func TestCatchFish(t *testing.T) {
	svc := newTestService(t, &fakeGame{catch: catchFixture})

	data, err := svc.CatchFish(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Equal(t, "Yellow Perch", data.Catch.Name)
	require.Equal(t, 7718, data.Catch.ID)
	require.Equal(t, 12345, data.Stats.TotalFishCaught)
	require.Equal(t, 37, data.Resources.Bait)
}

func TestCatchFishNoBait(t *testing.T) {
	// without bait the worker answers with a fragment that has no catch image
	svc := newTestService(t, &fakeGame{catch: `<div class="content-block">You need bait!</div>`})

	_, err := svc.CatchFish(context.Background(), 1, 1)
	require.Error(t, err)
	require.Equal(t, CodeNoBait, CodeOf(err))
	require.Equal(t, http.StatusBadRequest, StatusOf(err))
}

func TestCatchFishRejectsBadBaitAmount(t *testing.T) {
	svc := newTestService(t, &fakeGame{})

	_, err := svc.CatchFish(context.Background(), 1, 0)
	require.Error(t, err)
	require.Equal(t, CodeValidation, CodeOf(err))
}

func TestBuyItem(t *testing.T) {
	game := &fakeGame{
		silver: 1000,
		items:  map[int]string{18: itemPage("Worms", 0, "15 Silver")},
	}
	var boughtQty int
	game.buy = func(itemID, qty int) string {
		boughtQty = qty
		game.items[18] = itemPage("Worms", qty, "15 Silver")
		return "success"
	}
	svc := newTestService(t, game)

	result, err := svc.BuyItem(context.Background(), 18, 10)
	require.NoError(t, err)
	require.Equal(t, 10, boughtQty)
	require.Equal(t, BuyItemResult{
		ItemID:            18,
		ItemName:          "Worms",
		QuantityPurchased: 10,
		CurrentInventory:  10,
		TotalCost:         Cost{Amount: 150, Currency: farmrpg.CurrencySilver},
		RemainingCoins:    farmrpg.PlayerCoins{Silver: 850},
	}, result)
}

func TestBuyItemMaxAffordable(t *testing.T) {
	game := &fakeGame{
		silver: 100,
		items:  map[int]string{18: itemPage("Worms", 0, "15 Silver")},
	}
	game.buy = func(itemID, qty int) string { return "success" }
	svc := newTestService(t, game)

	result, err := svc.BuyItem(context.Background(), 18, -1)
	require.NoError(t, err)
	require.Equal(t, 6, result.QuantityPurchased)
	require.Equal(t, 90, result.TotalCost.Amount)
	require.Equal(t, 10, result.RemainingCoins.Silver)
}

func TestBuyItemClampsToCapacity(t *testing.T) {
	game := &fakeGame{
		silver: 100000,
		items:  map[int]string{18: itemPage("Worms", 150, "15 Silver")},
	}
	var boughtQty int
	game.buy = func(itemID, qty int) string {
		boughtQty = qty
		game.items[18] = itemPage("Worms", 150+qty, "15 Silver")
		return "success"
	}
	svc := newTestService(t, game)

	result, err := svc.BuyItem(context.Background(), 18, 100)
	require.NoError(t, err)
	require.Equal(t, 50, boughtQty)
	require.Equal(t, 50, result.QuantityPurchased)
	require.Equal(t, 200, result.CurrentInventory)
}

func TestBuyItemPartialFulfillment(t *testing.T) {
	game := &fakeGame{
		silver: 1000,
		items:  map[int]string{18: itemPage("Worms", 0, "15 Silver")},
	}
	game.buy = func(itemID, qty int) string { return "4" }
	svc := newTestService(t, game)

	result, err := svc.BuyItem(context.Background(), 18, 10)
	require.NoError(t, err)
	require.Equal(t, 4, result.QuantityPurchased)
	require.Equal(t, 60, result.TotalCost.Amount)
}

func TestBuyItemInsufficientFunds(t *testing.T) {
	game := &fakeGame{
		silver: 10,
		items:  map[int]string{18: itemPage("Worms", 0, "15 Silver")},
	}
	svc := newTestService(t, game)

	_, err := svc.BuyItem(context.Background(), 18, 2)
	require.Error(t, err)
	require.Equal(t, CodeValidation, CodeOf(err))
	require.Contains(t, err.Error(), "Insufficient Silver")

	_, err = svc.BuyItem(context.Background(), 18, -1)
	require.Error(t, err)
	require.Equal(t, CodeValidation, CodeOf(err))
}

func TestBuyItemInventoryFull(t *testing.T) {
	game := &fakeGame{
		silver: 100000,
		items:  map[int]string{18: itemPage("Worms", 200, "15 Silver")},
	}
	svc := newTestService(t, game)

	_, err := svc.BuyItem(context.Background(), 18, 1)
	require.Error(t, err)
	require.Equal(t, CodeValidation, CodeOf(err))
	require.Contains(t, err.Error(), "Inventory full. You have 200/200 items.")
}

func TestBuyItemNotPurchasable(t *testing.T) {
	game := &fakeGame{
		silver: 1000,
		items:  map[int]string{91: itemPage("Drum", 5, "")},
	}
	svc := newTestService(t, game)

	_, err := svc.BuyItem(context.Background(), 91, 1)
	require.Error(t, err)
	require.Equal(t, CodeValidation, CodeOf(err))
	require.Contains(t, err.Error(), "not available for purchase")
}

func TestBuyItemZeroPriceNotPurchasable(t *testing.T) {
	// mangled price markup parses to 0, which must not reach the
	// max-affordable division
	game := &fakeGame{
		silver: 1000,
		items:  map[int]string{18: itemPage("Worms", 0, "0 Silver")},
	}
	svc := newTestService(t, game)

	var err error
	require.NotPanics(t, func() {
		_, err = svc.BuyItem(context.Background(), 18, -1)
	})
	require.Error(t, err)
	require.Equal(t, CodeValidation, CodeOf(err))
	require.Contains(t, err.Error(), "not available for purchase")
}

func TestBuyItemRejectsBadQuantity(t *testing.T) {
	svc := newTestService(t, &fakeGame{})

	_, err := svc.BuyItem(context.Background(), 18, 0)
	require.Error(t, err)
	require.Equal(t, CodeValidation, CodeOf(err))

	_, err = svc.BuyItem(context.Background(), 18, -2)
	require.Error(t, err)
	require.Equal(t, CodeValidation, CodeOf(err))
}

func TestSellItem(t *testing.T) {
	game := &fakeGame{}
	game.sell = func(itemID, qty int) string { return "895" }
	svc := newTestService(t, game)

	total, err := svc.SellItem(context.Background(), 91, 179)
	require.NoError(t, err)
	require.Equal(t, 895, total)
}

func TestSellItemUnknownItem(t *testing.T) {
	game := &fakeGame{}
	game.sell = func(itemID, qty int) string { return "" }
	svc := newTestService(t, game)

	_, err := svc.SellItem(context.Background(), 99999, 1)
	require.Error(t, err)
	require.Equal(t, CodeNotFound, CodeOf(err))
	require.Equal(t, http.StatusNotFound, StatusOf(err))
	require.Equal(t, "Item not found or invalid item ID", err.Error())
}

func TestSellItemInsufficientQuantity(t *testing.T) {
	game := &fakeGame{}
	game.sell = func(itemID, qty int) string { return "error" }
	svc := newTestService(t, game)

	_, err := svc.SellItem(context.Background(), 91, 9999)
	require.Error(t, err)
	require.Equal(t, CodeValidation, CodeOf(err))
	require.Equal(t, "Insufficient quantity in inventory", err.Error())
}

func TestSellAllItems(t *testing.T) {
	game := &fakeGame{silver: 1000, inventory: inventoryFixture}
	game.sell = func(itemID, qty int) string {
		proceeds := map[int]int{91: 895, 18: 150}[itemID]
		game.silver += proceeds
		return strconv.Itoa(proceeds)
	}
	svc := newTestService(t, game)

	result, err := svc.SellAllItems(context.Background())
	require.NoError(t, err)
	require.Equal(t, SellAllItemsResult{
		TotalSilver: 1045,
		ItemsSold:   189,
		ItemTypes:   2,
	}, result)
	require.Equal(t, []string{"91:179", "18:10"}, game.sellCalls)
}

func TestSellAllItemsCategoryFilter(t *testing.T) {
	game := &fakeGame{silver: 1000, inventory: inventoryFixture}
	game.sell = func(itemID, qty int) string {
		game.silver += 895
		return "895"
	}
	svc := newTestService(t, game)

	result, err := svc.SellAllItems(context.Background(), farmrpg.CategoryFish)
	require.NoError(t, err)
	require.Equal(t, []string{"91:179"}, game.sellCalls)
	require.Equal(t, 895, result.TotalSilver)
	require.Equal(t, 179, result.ItemsSold)
	require.Equal(t, 1, result.ItemTypes)
}

func TestSellAllItemsEmptyInventory(t *testing.T) {
	game := &fakeGame{silver: 1000, inventory: `<div class="card-content-inner">Your inventory contains <strong>0</strong> unique items and <strong>0</strong> items in total.</div>`}
	svc := newTestService(t, game)

	result, err := svc.SellAllItems(context.Background())
	require.NoError(t, err)
	require.Equal(t, SellAllItemsResult{}, result)
	require.Empty(t, game.sellCalls)
}

func TestSellAllItemsSkipsFailedSales(t *testing.T) {
	game := &fakeGame{silver: 1000, inventory: inventoryFixture}
	game.sell = func(itemID, qty int) string {
		if itemID == 91 {
			return "error"
		}
		game.silver += 150
		return "150"
	}
	svc := newTestService(t, game)

	result, err := svc.SellAllItems(context.Background())
	require.NoError(t, err)
	require.Equal(t, 150, result.TotalSilver)
	require.Equal(t, 10, result.ItemsSold)
	require.Equal(t, 2, result.ItemTypes)
}
