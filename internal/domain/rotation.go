package domain

type RotationMember struct {
	Name          string
	DividendYield float64
	BaseUnits     int
	StepUnits     int
}

type RotationInput struct {
	Members            []RotationMember
	TotalBaseUnits     int
	MinWeight          float64
	MaxWeight          float64
	RebalanceThreshold float64
}

type RotationAllocation struct {
	Name          string  `json:"name"`
	CurrentUnits  int     `json:"currentUnits"`
	TargetUnits   int     `json:"targetUnits"`
	CurrentWeight float64 `json:"currentWeight"`
	TargetWeight  float64 `json:"targetWeight"`
}

// RotationSuggestion moves Units from the relatively expensive member
// to the relatively cheap one.
type RotationSuggestion struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Units int    `json:"units"`
}

// RotationPlan is recomputed every cycle and never persisted. When the
// engine abstains, Suggestion is nil and AbstainReason says why.
type RotationPlan struct {
	Allocations   []RotationAllocation `json:"allocations"`
	Suggestion    *RotationSuggestion  `json:"suggestion,omitempty"`
	AbstainReason string               `json:"abstainReason,omitempty"`
}

func (p RotationPlan) Allocation(name string) (RotationAllocation, bool) {
	for _, a := range p.Allocations {
		if a.Name == name {
			return a, true
		}
	}
	return RotationAllocation{}, false
}
