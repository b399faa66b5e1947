package fishingbot

// Delay bounds are milliseconds between casts.
type DelayConfig struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type AutoBuyBaitConfig struct {
	Enabled      bool `json:"enabled"`
	BaitItemID   int  `json:"baitItemId"`
	MinBaitCount int  `json:"minBaitCount"`
	BuyQuantity  int  `json:"buyQuantity"`
}

type AutoStopConfig struct {
	Enabled    bool `json:"enabled"`
	MaxCatches int  `json:"maxCatches,omitempty"`
	NoBait     bool `json:"noBait"`
	NoStamina  bool `json:"noStamina"`
}

type Config struct {
	LocationID  int               `json:"locationId"`
	BaitID      int               `json:"baitId"`
	AutoBuyBait AutoBuyBaitConfig `json:"autoBuyBait"`
	AutoStop    AutoStopConfig    `json:"autoStop"`
	Delay       DelayConfig       `json:"delay"`
}

func DefaultConfig() Config {
	return Config{
		LocationID: 1,
		BaitID:     1,
		AutoBuyBait: AutoBuyBaitConfig{
			Enabled:      false,
			BaitItemID:   18, // Worms
			MinBaitCount: 10,
			BuyQuantity:  100,
		},
		AutoStop: AutoStopConfig{
			Enabled:   true,
			NoBait:    true,
			NoStamina: true,
		},
		Delay: DelayConfig{Min: 1000, Max: 3000},
	}
}

// ConfigPatch is a partial update. Pointer fields distinguish "leave as is"
// from an explicit zero value, which a plain struct merge cannot. Each
// subsection is merged independently.
type ConfigPatch struct {
	LocationID  *int              `json:"locationId,omitempty"`
	BaitID      *int              `json:"baitId,omitempty"`
	AutoBuyBait *AutoBuyBaitPatch `json:"autoBuyBait,omitempty"`
	AutoStop    *AutoStopPatch    `json:"autoStop,omitempty"`
	Delay       *DelayPatch       `json:"delay,omitempty"`
}

type AutoBuyBaitPatch struct {
	Enabled      *bool `json:"enabled,omitempty"`
	BaitItemID   *int  `json:"baitItemId,omitempty"`
	MinBaitCount *int  `json:"minBaitCount,omitempty"`
	BuyQuantity  *int  `json:"buyQuantity,omitempty"`
}

type AutoStopPatch struct {
	Enabled    *bool `json:"enabled,omitempty"`
	MaxCatches *int  `json:"maxCatches,omitempty"`
	NoBait     *bool `json:"noBait,omitempty"`
	NoStamina  *bool `json:"noStamina,omitempty"`
}

type DelayPatch struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

func (p ConfigPatch) applyTo(c *Config) {
	setInt(&c.LocationID, p.LocationID)
	setInt(&c.BaitID, p.BaitID)
	if p.AutoBuyBait != nil {
		setBool(&c.AutoBuyBait.Enabled, p.AutoBuyBait.Enabled)
		setInt(&c.AutoBuyBait.BaitItemID, p.AutoBuyBait.BaitItemID)
		setInt(&c.AutoBuyBait.MinBaitCount, p.AutoBuyBait.MinBaitCount)
		setInt(&c.AutoBuyBait.BuyQuantity, p.AutoBuyBait.BuyQuantity)
	}
	if p.AutoStop != nil {
		setBool(&c.AutoStop.Enabled, p.AutoStop.Enabled)
		setInt(&c.AutoStop.MaxCatches, p.AutoStop.MaxCatches)
		setBool(&c.AutoStop.NoBait, p.AutoStop.NoBait)
		setBool(&c.AutoStop.NoStamina, p.AutoStop.NoStamina)
	}
	if p.Delay != nil {
		setInt(&c.Delay.Min, p.Delay.Min)
		setInt(&c.Delay.Max, p.Delay.Max)
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
