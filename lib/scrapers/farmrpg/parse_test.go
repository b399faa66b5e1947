package farmrpg

import (
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := ParseDocument(body)
	require.NoError(t, err)
	return doc
}

func TestParseCoins(t *testing.T) {
	doc := mustParse(t, `
		<div>
			<img alt="Silver" /><strong>1,234</strong>
			<img alt="Gold" /><strong>56</strong>
		</div>
	`)

	coins := ParseCoins(doc)
	require.Equal(t, PlayerCoins{Silver: 1234, Gold: 56}, coins)
}

func TestParseCoinsMissingMarkup(t *testing.T) {
	doc := mustParse(t, `<div><p>maintenance page</p></div>`)
	require.Equal(t, PlayerCoins{}, ParseCoins(doc))
}

func TestParseItemDetails(t *testing.T) {
	doc := mustParse(t, `
		<div class="navbar-inner"><div class="center"><a>Worms</a></div></div>
		<div id="img"><img src="/img/items/18.png"/>
Tasty worms for fishing</div>
		<div><div class="item-title">My Inventory</div><div class="item-after">143</div></div>
		<div><div class="item-title">Buy Price <span>Country Store</span></div><div class="item-after">15 Silver</div></div>
		<div><div class="item-title">Givable</div><div class="item-after">Yes</div></div>
		<div><div class="item-title">Help Requests</div><div class="item-after">3 open</div></div>
	`)

	details := ParseItemDetails(doc, 18)

	expected := ItemDetails{
		ID:          18,
		Name:        "Worms",
		Description: "Tasty worms for fishing",
		Image:       "https://farmrpg.com/img/items/18.png",
		Inventory:   &ItemInventory{Quantity: 143},
		BuyPrice: &BuyPrice{
			Amount:   15,
			Currency: CurrencySilver,
			Location: "Country Store",
		},
		Givable:      true,
		HelpRequests: 3,
	}
	if diff := cmp.Diff(expected, details); diff != "" {
		t.Fatalf("item details mismatch (-want +got):\n%s", diff)
	}
}

func TestParseItemDetailsNoBuyPrice(t *testing.T) {
	doc := mustParse(t, `
		<div class="navbar-inner"><div class="center"><a>Mystic Fish</a></div></div>
		<div><div class="item-title">Givable</div><div class="item-after">No</div></div>
	`)

	details := ParseItemDetails(doc, 42)
	require.Nil(t, details.BuyPrice)
	require.Nil(t, details.Inventory)
	require.False(t, details.Givable)
}

func TestParseItemDetailsCraftingUse(t *testing.T) {
	doc := mustParse(t, `
		<div class="list-block"><ul>
			<li><a href="item.php?id=271">
				<div class="item-title"><strong>Fishing Net</strong><span>Twine x2<br/>Wood x5</span></div>
				<div class="item-after">Level 12</div>
			</a></li>
		</ul></div>
	`)

	details := ParseItemDetails(doc, 7)
	require.Len(t, details.CraftingUse, 1)
	use := details.CraftingUse[0]
	require.Equal(t, "Fishing Net", use.ItemName)
	require.Equal(t, 271, use.ItemID)
	require.Equal(t, []string{"Twine x2", "Wood x5"}, use.Requirements)
	require.Equal(t, 12, use.RequiredLevel)
}

func TestParseItemDetailsCleansScrapedText(t *testing.T) {
	// the game pages sometimes embed zero-width characters and ragged
	// whitespace inside text runs
	doc := mustParse(t, "<div class=\"navbar-inner\"><div class=\"center\"><a>\n\tYellow ​  Perch\n</a></div></div>")

	details := ParseItemDetails(doc, 7718)
	require.Equal(t, "Yellow Perch", details.Name)
}

const inventoryFixture = `
	<div class="list-group">
		<li class="list-group-title">Fish &amp; Bait</li>
		<li>
			<a href="item.php?id=17">
				<div class="item-content">
					<div class="item-media"><img src="/img/items/7718.PNG" class="itemimg"></div>
					<div class="item-inner">
						<div class="item-title"><strong>Drum</strong><br/><span>Not an instrument</span></div>
						<div class="item-after">179</div>
					</div>
				</div>
			</a>
		</li>
	</div>
	<div class="list-group">
		<li class="list-group-title">Cool Rares</li>
		<li><a href="item.php?id=99"><div class="item-title"><strong>Amethyst</strong></div><div class="item-after">2</div></a></li>
	</div>
	<div class="list-group">
		<li class="list-group-title">Empty Loot</li>
		<li>None</li>
	</div>
	<div class="card-content-inner">
		Your inventory contains <strong>8</strong> unique items and <strong>407</strong> items in total.
	</div>
	<div class="card-content-inner">
		Currently, you cannot have more than <strong>200</strong> of any single thing.
	</div>
`

func TestParseInventory(t *testing.T) {
	doc := mustParse(t, inventoryFixture)

	data := ParseInventory(doc)

	require.Len(t, data.Categories, 2)
	require.Equal(t, CategoryFish, data.Categories[0].Category)
	require.Len(t, data.Categories[0].Items, 1)

	item := data.Categories[0].Items[0]
	require.Equal(t, 17, item.ID)
	require.Equal(t, "Drum", item.Name)
	require.Equal(t, "Not an instrument", item.Description)
	require.Equal(t, 179, item.Quantity)
	require.Equal(t, "https://farmrpg.com/img/items/7718.PNG", item.ImageURL)

	require.Equal(t, CategoryRares, data.Categories[1].Category)

	require.Equal(t, InventoryStats{
		UniqueItems: 8,
		TotalItems:  407,
		MaxCapacity: 200,
	}, data.Stats)
}

func TestParseInventoryCapacityDefault(t *testing.T) {
	doc := mustParse(t, `<div class="list-group"></div>`)
	data := ParseInventory(doc)
	require.Equal(t, DefaultInventoryCap, data.Stats.MaxCapacity)
	require.Empty(t, data.Categories)
}

func TestParseCatch(t *testing.T) {
	doc := mustParse(t, `
		<img class="itemimg" alt="Yellow Perch" src="/img/items/7718.PNG"/>
		<span id="fishcnt">12,345</span>
		<span id="fishingpb">42.53</span>
		<span id="staminacnt">198</span>
		<span id="baitcnt">37</span>
	`)

	data, ok := ParseCatch(doc)
	require.True(t, ok)
	require.Equal(t, FishCatchData{
		Catch: FishCatch{
			ID:    7718,
			Name:  "Yellow Perch",
			Image: "https://farmrpg.com/img/items/7718.PNG",
		},
		Stats: CatchStats{
			TotalFishCaught:  12345,
			FishingXpPercent: 42.53,
		},
		Resources: CatchResources{
			Stamina: 198,
			Bait:    37,
		},
	}, data)
}

func TestParseCatchNoBaitMarker(t *testing.T) {
	doc := mustParse(t, `<div class="content">You need bait to fish!</div>`)
	_, ok := ParseCatch(doc)
	require.False(t, ok)
}

func TestParseBaitInfo(t *testing.T) {
	doc := mustParse(t, `
		<div>Worms: <strong id="baitleft">25</strong></div>
		<div id="last_bait" style="display:none">Worms</div>
		<div class="col-55">Streak: <strong>5,267</strong> &nbsp; Best: <strong>5,301</strong></div>
	`)

	info := ParseBaitInfo(doc)
	require.Equal(t, BaitInfo{
		BaitName:   "Worms",
		BaitCount:  25,
		Streak:     5267,
		BestStreak: 5301,
	}, info)
}

func TestParseBaitInfoDefaults(t *testing.T) {
	doc := mustParse(t, `<div></div>`)
	info := ParseBaitInfo(doc)
	require.Equal(t, "Unknown", info.BaitName)
	require.Equal(t, 0, info.BaitCount)
}
