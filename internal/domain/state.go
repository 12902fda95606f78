package domain

import (
	"encoding/json"
	"fmt"
	"sort"
)

// MetaKey is the reserved key holding GlobalMeta in the state document.
const MetaKey = "_meta"

type AssetState struct {
	LastPrice *float64 `json:"last_price"`
	Tick      int      `json:"tick"`

	// only tracked when the trend variant is enabled
	Position *int     `json:"position,omitempty"`
	AvgCost  *float64 `json:"avg_cost,omitempty"`
	Trend    string   `json:"trend,omitempty"`
}

func NewAssetState() AssetState {
	return AssetState{LastPrice: nil, Tick: 0}
}

func (a AssetState) DeepCopy() AssetState {
	out := AssetState{Tick: a.Tick, Trend: a.Trend}
	if a.LastPrice != nil {
		p := *a.LastPrice
		out.LastPrice = &p
	}
	if a.Position != nil {
		p := *a.Position
		out.Position = &p
	}
	if a.AvgCost != nil {
		c := *a.AvgCost
		out.AvgCost = &c
	}
	return out
}

type GlobalMeta struct {
	LastDailyPushDate *string `json:"last_daily_push_date"`
}

// State is the persisted document. On disk the assets sit at the top
// level next to the reserved "_meta" key.
type State struct {
	Assets map[string]AssetState
	Meta   GlobalMeta
}

func NewState(names []string) *State {
	s := &State{Assets: map[string]AssetState{}}
	s.Merge(names)
	return s
}

// Merge adds a fresh entry for every name not yet tracked and returns
// the names that were added. Existing entries are never touched.
func (s *State) Merge(names []string) []string {
	if s.Assets == nil {
		s.Assets = map[string]AssetState{}
	}
	added := []string{}
	for _, name := range names {
		if _, ok := s.Assets[name]; !ok {
			s.Assets[name] = NewAssetState()
			added = append(added, name)
		}
	}
	return added
}

func (s State) DeepCopy() *State {
	out := &State{Assets: make(map[string]AssetState, len(s.Assets))}
	for name, a := range s.Assets {
		out.Assets[name] = a.DeepCopy()
	}
	if s.Meta.LastDailyPushDate != nil {
		d := *s.Meta.LastDailyPushDate
		out.Meta.LastDailyPushDate = &d
	}
	return out
}

func (s State) AssetNames() []string {
	names := make([]string, 0, len(s.Assets))
	for name := range s.Assets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s State) MarshalJSON() ([]byte, error) {
	doc := make(map[string]interface{}, len(s.Assets)+1)
	for name, a := range s.Assets {
		doc[name] = a
	}
	doc[MetaKey] = s.Meta
	return json.Marshal(doc)
}

func (s *State) UnmarshalJSON(b []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	s.Assets = make(map[string]AssetState, len(raw))
	s.Meta = GlobalMeta{}
	for key, value := range raw {
		if key == MetaKey {
			if err := json.Unmarshal(value, &s.Meta); err != nil {
				return fmt.Errorf("failed to parse %s: %w", MetaKey, err)
			}
			continue
		}
		a := AssetState{}
		if err := json.Unmarshal(value, &a); err != nil {
			return fmt.Errorf("failed to parse state for %s: %w", key, err)
		}
		s.Assets[key] = a
	}
	return nil
}
