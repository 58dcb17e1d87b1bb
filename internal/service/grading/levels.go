package grading

const (
	LevelBasic        = "Basic"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
)

// LevelPolicy maps a percentage to a proficiency level. It is a named,
// versioned policy so the classification table has exactly one source of
// truth, injected wherever placement decisions are made.
type LevelPolicy struct {
	Name string
	// Bands are checked in order; the first band whose Max is >= the
	// percentage wins. The last band acts as the catch-all.
	Bands []LevelBand
}

type LevelBand struct {
	Max   float64
	Level string
}

// DefaultLevelPolicy is the canonical three-tier table.
var DefaultLevelPolicy = LevelPolicy{
	Name: "three-tier/v1",
	Bands: []LevelBand{
		{Max: 49, Level: LevelBasic},
		{Max: 75, Level: LevelIntermediate},
		{Max: 100, Level: LevelAdvanced},
	},
}

func (p LevelPolicy) Classify(percentage float64) string {
	for _, band := range p.Bands {
		if percentage <= band.Max {
			return band.Level
		}
	}
	return p.Bands[len(p.Bands)-1].Level
}
