package farmrpg

import (
	"regexp"
	"strings"

	"farmbot-backend/lib/htmlutil"
	"farmbot-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// Parsing is best-effort and non-atomic: the game's markup is an external,
// unversioned data source, so missing elements default individual fields
// (0, "", nil) instead of failing the whole extraction. The one exception
// is the catch-result image, whose absence is the documented "no bait"
// marker and is reported through ParseCatch's second return value.

func ParseDocument(body string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(body))
}

func absoluteImage(src string) string {
	if src == "" {
		return ""
	}
	return DefaultBaseURL + src
}

func ParseCoins(doc *goquery.Document) PlayerCoins {
	return PlayerCoins{
		Silver: textutil.ParseInt(doc.Find(`img[alt="Silver"]`).NextFiltered("strong").Text()),
		Gold:   textutil.ParseInt(doc.Find(`img[alt="Gold"]`).NextFiltered("strong").Text()),
	}
}

var buyPriceRegex = regexp.MustCompile(`(\d+)\s+(Silver|Gold)`)
var digitsRegex = regexp.MustCompile(`(\d+)`)
var itemIdRegex = regexp.MustCompile(`id=(\d+)`)

func ParseItemDetails(doc *goquery.Document, itemID int) ItemDetails {
	name := htmlutil.CleanSelectionText(doc.Find(".navbar-inner .center a"))

	// the item blurb is the last text line inside the #img block
	var description string
	imgLines := strings.Split(strings.TrimSpace(doc.Find("#img").Text()), "\n")
	if len(imgLines) > 0 {
		description = strings.TrimSpace(imgLines[len(imgLines)-1])
	}

	image := absoluteImage(doc.Find("#img img").AttrOr("src", ""))

	details := ItemDetails{
		ID:          itemID,
		Name:        name,
		Description: description,
		Image:       image,
	}

	inventoryQuantity := textutil.ParseInt(
		htmlutil.FindByText(doc.Selection, ".item-title", "My Inventory").
			Parent().
			Find(".item-after").
			Text(),
	)
	if inventoryQuantity > 0 {
		details.Inventory = &ItemInventory{Quantity: inventoryQuantity}
	}

	buyTitle := htmlutil.FindByText(doc.Selection, ".item-title", "Buy Price")
	buyPriceText := htmlutil.CleanSelectionText(buyTitle.Parent().Find(".item-after"))
	if groups := buyPriceRegex.FindStringSubmatch(buyPriceText); groups != nil {
		details.BuyPrice = &BuyPrice{
			Amount:   textutil.ParseInt(groups[1]),
			Currency: Currency(groups[2]),
			Location: htmlutil.CleanSelectionText(buyTitle.Find("span")),
		}
	}

	givableText := htmlutil.CleanSelectionText(
		htmlutil.FindByText(doc.Selection, ".item-title", "Givable").
			Parent().
			Find(".item-after"),
	)
	details.Givable = strings.EqualFold(givableText, "yes")

	helpText := htmlutil.FindByText(doc.Selection, ".item-title", "Help Requests").
		Parent().
		Find(".item-after").
		Text()
	if groups := digitsRegex.FindStringSubmatch(helpText); groups != nil {
		details.HelpRequests = textutil.ParseInt(groups[1])
	}

	doc.Find(".list-block ul li a[href^='item.php']").Each(func(_ int, sel *goquery.Selection) {
		craftName := htmlutil.CleanSelectionText(sel.Find(".item-title strong"))
		craftID := 0
		if groups := itemIdRegex.FindStringSubmatch(sel.AttrOr("href", "")); groups != nil {
			craftID = textutil.ParseInt(groups[1])
		}
		if craftName == "" || craftID == 0 {
			return
		}

		var requirements []string
		if requirementsHtml, err := sel.Find(".item-title span").Html(); err == nil && requirementsHtml != "" {
			for _, r := range strings.Split(requirementsHtml, "<br/>") {
				requirements = append(requirements, strings.TrimSpace(r))
			}
		}

		requiredLevel := 0
		if groups := digitsRegex.FindStringSubmatch(sel.Find(".item-after").Text()); groups != nil {
			requiredLevel = textutil.ParseInt(groups[1])
		}

		details.CraftingUse = append(details.CraftingUse, CraftingUse{
			ItemName:      craftName,
			ItemID:        craftID,
			Requirements:  requirements,
			RequiredLevel: requiredLevel,
		})
	})

	return details
}

var categoryOrder = []InventoryCategory{
	CategoryItems,
	CategoryFish,
	CategoryCrops,
	CategorySeeds,
	CategoryLoot,
	CategoryRunestones,
	CategoryBooks,
	CategoryCards,
	CategoryRares,
}

func categoryFromTitle(title string) (InventoryCategory, bool) {
	lower := strings.ToLower(title)
	for _, category := range categoryOrder {
		if strings.Contains(lower, string(category)) {
			return category, true
		}
	}
	return "", false
}

var uniqueItemsRegex = regexp.MustCompile(`contains\s+<strong>(\d+)</strong>\s+unique items`)
var totalItemsRegex = regexp.MustCompile(`and\s+<strong>(\d+)</strong>\s+items in total`)
var maxCapacityRegex = regexp.MustCompile(`more than\s+<strong>(\d+)</strong>`)
var spanTextRegex = regexp.MustCompile(`<span[^>]*>([^<]+)</span>`)

// DefaultInventoryCap is assumed when the capacity prose is missing.
const DefaultInventoryCap = 200

func ParseInventory(doc *goquery.Document) InventoryData {
	var categories []InventoryCategoryData

	doc.Find(".list-group").Each(func(_ int, group *goquery.Selection) {
		title := htmlutil.CleanSelectionText(group.Find(".list-group-title"))
		category, ok := categoryFromTitle(title)
		if !ok {
			return
		}

		var items []InventoryItem
		group.Find("li").Not(".list-group-title").Each(func(_ int, row *goquery.Selection) {
			link := row.Find("a[href^='item.php']")
			// "None" placeholder rows have no item link
			if link.Length() == 0 {
				return
			}

			id := 0
			if groups := itemIdRegex.FindStringSubmatch(link.AttrOr("href", "")); groups != nil {
				id = textutil.ParseInt(groups[1])
			}

			name := htmlutil.CleanSelectionText(row.Find(".item-title strong"))

			description := ""
			if titleHtml, err := row.Find(".item-title").Html(); err == nil {
				if groups := spanTextRegex.FindStringSubmatch(titleHtml); groups != nil {
					description = textutil.CleanText(groups[1])
				}
			}

			quantity := textutil.ParseInt(row.Find(".item-after").Text())
			imageUrl := absoluteImage(row.Find(".item-media img").AttrOr("src", ""))

			if id != 0 && name != "" && quantity > 0 {
				items = append(items, InventoryItem{
					ID:          id,
					Name:        name,
					Description: description,
					Quantity:    quantity,
					ImageURL:    imageUrl,
				})
			}
		})

		if len(items) > 0 {
			categories = append(categories, InventoryCategoryData{
				Category: category,
				Items:    items,
			})
		}
	})

	stats := InventoryStats{MaxCapacity: DefaultInventoryCap}
	if statsHtml, err := htmlutil.FindByText(doc.Selection, ".card-content-inner", "Your inventory contains").Html(); err == nil {
		if groups := uniqueItemsRegex.FindStringSubmatch(statsHtml); groups != nil {
			stats.UniqueItems = textutil.ParseInt(groups[1])
		}
		if groups := totalItemsRegex.FindStringSubmatch(statsHtml); groups != nil {
			stats.TotalItems = textutil.ParseInt(groups[1])
		}
	}
	if capacityHtml, err := htmlutil.FindByText(doc.Selection, ".card-content-inner", "cannot have more than").Html(); err == nil {
		if groups := maxCapacityRegex.FindStringSubmatch(capacityHtml); groups != nil {
			stats.MaxCapacity = textutil.ParseInt(groups[1])
		}
	}

	return InventoryData{Categories: categories, Stats: stats}
}

var imageIdRegex = regexp.MustCompile(`/(\d+)\.`)

// ParseCatch extracts a catch result. The second return value is false when
// the catch image marker is absent, which is how the game signals that no
// bait remained for the attempt.
func ParseCatch(doc *goquery.Document) (FishCatchData, bool) {
	img := doc.Find("img.itemimg").First()
	name := strings.TrimSpace(img.AttrOr("alt", ""))
	src := strings.TrimSpace(img.AttrOr("src", ""))
	if name == "" || src == "" {
		return FishCatchData{}, false
	}

	id := 0
	if groups := imageIdRegex.FindStringSubmatch(src); groups != nil {
		id = textutil.ParseInt(groups[1])
	}

	return FishCatchData{
		Catch: FishCatch{
			ID:    id,
			Name:  name,
			Image: absoluteImage(src),
		},
		Stats: CatchStats{
			TotalFishCaught:  textutil.ParseInt(doc.Find("#fishcnt").Text()),
			FishingXpPercent: textutil.ParseFloat(doc.Find("#fishingpb").Text()),
		},
		Resources: CatchResources{
			Stamina: textutil.ParseInt(doc.Find("#staminacnt").Text()),
			Bait:    textutil.ParseInt(doc.Find("#baitcnt").Text()),
		},
	}, true
}

var streakRegex = regexp.MustCompile(`Streak:\s*<strong>([\d,]+)</strong>`)
var bestStreakRegex = regexp.MustCompile(`Best:\s*<strong>([\d,]+)</strong>`)

func ParseBaitInfo(doc *goquery.Document) BaitInfo {
	info := BaitInfo{
		BaitCount: textutil.ParseInt(doc.Find("#baitleft").Text()),
		BaitName:  htmlutil.CleanSelectionText(doc.Find("#last_bait")),
	}
	if info.BaitName == "" {
		info.BaitName = "Unknown"
	}

	if streakHtml, err := htmlutil.FindByText(doc.Selection, ".col-55", "Streak:").Html(); err == nil {
		if groups := streakRegex.FindStringSubmatch(streakHtml); groups != nil {
			info.Streak = textutil.ParseInt(groups[1])
		}
		if groups := bestStreakRegex.FindStringSubmatch(streakHtml); groups != nil {
			info.BestStreak = textutil.ParseInt(groups[1])
		}
	}

	return info
}
