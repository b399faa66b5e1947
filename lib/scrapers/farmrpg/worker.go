package farmrpg

import (
	"context"
	"fmt"
	"time"

	"github.com/mazen160/go-random"
)

// The game triggers every mutation through worker.php with query-string
// encoded action identifiers. Responses are either HTML fragments to be
// scraped or bare text tokens ("success", an integer, or an error word).

func nonce(max int) int {
	n, err := random.IntRange(0, max)
	if err != nil {
		return 0
	}
	return n
}

func cachebuster() int64 {
	return time.Now().UnixMilli()
}

func (c *Client) FetchStatsPage(ctx context.Context) (Response, error) {
	return c.Get(ctx, fmt.Sprintf("/worker.php?cachebuster=%d&go=getstats", cachebuster()))
}

func (c *Client) FetchItemPage(ctx context.Context, itemID int) (Response, error) {
	return c.Get(ctx, fmt.Sprintf("/item.php?id=%d", itemID))
}

func (c *Client) FetchInventoryPage(ctx context.Context) (Response, error) {
	return c.Get(ctx, "/inventory.php")
}

func (c *Client) FetchBaitPage(ctx context.Context, locationID int) (Response, error) {
	return c.Get(ctx, fmt.Sprintf(
		"/worker.php?cachebuster=%d&go=baitarea&id=%d",
		cachebuster(), locationID,
	))
}

// PostCatch fires a single catch attempt. The r/p/q parameters are
// anti-replay nonces the page script normally generates.
func (c *Client) PostCatch(ctx context.Context, locationID, baitAmount int) (Response, error) {
	return c.Post(ctx, fmt.Sprintf(
		"/worker.php?go=fishcaught&id=%d&r=%d&bamt=%d&p=%d&q=%d",
		locationID, nonce(1000000), baitAmount, nonce(1000), nonce(1000),
	))
}

func (c *Client) PostBuyItem(ctx context.Context, itemID, quantity int) (Response, error) {
	return c.Post(ctx, fmt.Sprintf("/worker.php?go=buyitem&id=%d&qty=%d", itemID, quantity))
}

func (c *Client) PostSellItem(ctx context.Context, itemID, quantity int) (Response, error) {
	return c.Post(ctx, fmt.Sprintf("/worker.php?go=sellitem&id=%d&qty=%d", itemID, quantity))
}
