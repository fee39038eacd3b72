package models

// Coordinates position a slot on the pitch, normalized 0..100 from the
// top-left corner (own goal at the bottom).
type Coordinates struct {
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
}

type PositionSlot struct {
	Key         string      `json:"key"`
	Label       string      `json:"label"`
	Type        Position    `json:"type"`
	Coordinates Coordinates `json:"coordinates"`
}

// Formation is a static catalog entry. Never created or mutated at runtime.
type Formation struct {
	Key       string         `json:"key"`
	Name      string         `json:"name"`
	Positions []PositionSlot `json:"positions"`
}

// Slot returns the position slot with the given key, or nil.
func (f *Formation) Slot(key string) *PositionSlot {
	for i := range f.Positions {
		if f.Positions[i].Key == key {
			return &f.Positions[i]
		}
	}
	return nil
}
