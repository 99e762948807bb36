package coinrun

import (
	"github.com/vovakirdan/tui-coinrun/internal/config"
	"github.com/vovakirdan/tui-coinrun/internal/registry"
)

// Variant is a named configuration overlay registered as its own game.
type Variant struct {
	ID    string
	Title string
	// Hazard overrides the configured hazard when non-empty.
	Hazard string
	// Random draws new sections for every episode seed.
	Random bool
	Easy   bool
}

// Variants lists every registered level variant.
func Variants() []Variant {
	return []Variant{
		{ID: "coinrun", Title: "CoinRun"},
		{ID: "coinrun_lava", Title: "CoinRun: Lava Pits", Hazard: "lava", Random: true},
		{ID: "coinrun_saws", Title: "CoinRun: Saw Pits", Hazard: "saw", Random: true},
		{ID: "coinrun_enemies", Title: "CoinRun: Enemy Pits", Hazard: "enemy", Random: true},
		{ID: "coinrun_easy", Title: "CoinRun: Easy", Random: true, Easy: true},
	}
}

// LookupVariant finds a variant by ID.
func LookupVariant(id string) (Variant, bool) {
	for _, v := range Variants() {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// Apply overlays the variant onto cfg.
func (v Variant) Apply(cfg *config.CoinrunConfig) {
	if v.Hazard != "" {
		cfg.Level.Hazard = v.Hazard
	}
	if v.Random {
		cfg.Level.RandomSections = true
	}
	if v.Easy {
		cfg.Mode.Distribution = DistributionEasy.String()
	}
}

// Register adds every variant to r.
func Register(r *registry.Registry) error {
	for _, v := range Variants() {
		if err := r.Register(v.ID, func() registry.Game { return NewGame(v) }); err != nil {
			return err
		}
	}
	return nil
}
