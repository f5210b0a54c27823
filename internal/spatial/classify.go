package spatial

// Interpretation is the categorical reading of a clustering index.
type Interpretation string

const (
	Clustered     Interpretation = "Clustered"
	Random        Interpretation = "Random"
	Dispersed     Interpretation = "Dispersed"
	NotApplicable Interpretation = "N/A"
)

// Default clustering index cutoffs. These are heuristics, not significance
// levels; override them with WithThresholds.
const (
	DefaultClusteredBelow = 0.8
	DefaultDispersedAbove = 1.2
)

// Thresholds bound the Random band of the clustering index. An index below
// Clustered reads as clustered, one above Dispersed as dispersed.
type Thresholds struct {
	Clustered float64 `json:"clustered" yaml:"clustered"`
	Dispersed float64 `json:"dispersed" yaml:"dispersed"`
}

var DefaultThresholds = Thresholds{
	Clustered: DefaultClusteredBelow,
	Dispersed: DefaultDispersedAbove,
}

func (t Thresholds) Validate() error {
	if t.Clustered <= 0 || t.Clustered > t.Dispersed {
		return ErrInvalidThresholds
	}
	return nil
}

// Classify maps a clustering index onto an interpretation. Both band edges
// count as Random.
func Classify(index float64, t Thresholds) Interpretation {
	switch {
	case index < t.Clustered:
		return Clustered
	case index > t.Dispersed:
		return Dispersed
	default:
		return Random
	}
}
