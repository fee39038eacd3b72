// Package formations holds the static formation catalog. The catalog is a
// fixed configuration table: read-only lookups, no mutation contract.
package formations

import (
	"errors"

	"github.com/jdvalencia/lineup-showdown/models"
)

var ErrFormationNotFound = errors.New("formation not found")

func slot(key, label string, typ models.Position, top, left float64) models.PositionSlot {
	return models.PositionSlot{
		Key:         key,
		Label:       label,
		Type:        typ,
		Coordinates: models.Coordinates{Top: top, Left: left},
	}
}

// catalog order is the order formations are offered in; the first entry is
// the fallback when a stored snapshot references a key that no longer exists.
var catalog = []models.Formation{
	{
		Key:  "4-4-2",
		Name: "4-4-2 Clásica",
		Positions: []models.PositionSlot{
			slot("GK", "POR", models.PositionGoalkeeper, 90, 50),
			slot("LB", "LI", models.PositionDefender, 72, 12),
			slot("LCB", "DFC", models.PositionDefender, 76, 37),
			slot("RCB", "DFC", models.PositionDefender, 76, 63),
			slot("RB", "LD", models.PositionDefender, 72, 88),
			slot("LM", "MI", models.PositionMidfielder, 48, 12),
			slot("LCM", "MC", models.PositionMidfielder, 52, 37),
			slot("RCM", "MC", models.PositionMidfielder, 52, 63),
			slot("RM", "MD", models.PositionMidfielder, 48, 88),
			slot("LS", "DC", models.PositionForward, 24, 37),
			slot("RS", "DC", models.PositionForward, 24, 63),
		},
	},
	{
		Key:  "4-3-3",
		Name: "4-3-3 Ofensiva",
		Positions: []models.PositionSlot{
			slot("GK", "POR", models.PositionGoalkeeper, 90, 50),
			slot("LB", "LI", models.PositionDefender, 72, 12),
			slot("LCB", "DFC", models.PositionDefender, 76, 37),
			slot("RCB", "DFC", models.PositionDefender, 76, 63),
			slot("RB", "LD", models.PositionDefender, 72, 88),
			slot("LCM", "MC", models.PositionMidfielder, 52, 28),
			slot("CM", "MCD", models.PositionMidfielder, 58, 50),
			slot("RCM", "MC", models.PositionMidfielder, 52, 72),
			slot("LW", "EI", models.PositionForward, 26, 15),
			slot("ST", "DC", models.PositionForward, 20, 50),
			slot("RW", "ED", models.PositionForward, 26, 85),
		},
	},
	{
		Key:  "4-2-3-1",
		Name: "4-2-3-1 Moderna",
		Positions: []models.PositionSlot{
			slot("GK", "POR", models.PositionGoalkeeper, 90, 50),
			slot("LB", "LI", models.PositionDefender, 72, 12),
			slot("LCB", "DFC", models.PositionDefender, 76, 37),
			slot("RCB", "DFC", models.PositionDefender, 76, 63),
			slot("RB", "LD", models.PositionDefender, 72, 88),
			slot("LDM", "MCD", models.PositionMidfielder, 58, 37),
			slot("RDM", "MCD", models.PositionMidfielder, 58, 63),
			slot("LAM", "MI", models.PositionMidfielder, 38, 15),
			slot("CAM", "MCO", models.PositionMidfielder, 36, 50),
			slot("RAM", "MD", models.PositionMidfielder, 38, 85),
			slot("ST", "DC", models.PositionForward, 18, 50),
		},
	},
	{
		Key:  "3-5-2",
		Name: "3-5-2 con Carrileros",
		Positions: []models.PositionSlot{
			slot("GK", "POR", models.PositionGoalkeeper, 90, 50),
			slot("LCB", "DFC", models.PositionDefender, 75, 25),
			slot("CB", "DFC", models.PositionDefender, 78, 50),
			slot("RCB", "DFC", models.PositionDefender, 75, 75),
			slot("LWB", "CAI", models.PositionMidfielder, 50, 8),
			slot("LCM", "MC", models.PositionMidfielder, 52, 32),
			slot("CM", "MC", models.PositionMidfielder, 56, 50),
			slot("RCM", "MC", models.PositionMidfielder, 52, 68),
			slot("RWB", "CAD", models.PositionMidfielder, 50, 92),
			slot("LS", "DC", models.PositionForward, 24, 37),
			slot("RS", "DC", models.PositionForward, 24, 63),
		},
	},
	{
		Key:  "5-3-2",
		Name: "5-3-2 Defensiva",
		Positions: []models.PositionSlot{
			slot("GK", "POR", models.PositionGoalkeeper, 90, 50),
			slot("LB", "LI", models.PositionDefender, 68, 8),
			slot("LCB", "DFC", models.PositionDefender, 75, 28),
			slot("CB", "DFC", models.PositionDefender, 78, 50),
			slot("RCB", "DFC", models.PositionDefender, 75, 72),
			slot("RB", "LD", models.PositionDefender, 68, 92),
			slot("LCM", "MC", models.PositionMidfielder, 48, 28),
			slot("CM", "MC", models.PositionMidfielder, 52, 50),
			slot("RCM", "MC", models.PositionMidfielder, 48, 72),
			slot("LS", "DC", models.PositionForward, 24, 37),
			slot("RS", "DC", models.PositionForward, 24, 63),
		},
	},
}

// All returns the catalog in presentation order. Callers must not mutate
// the returned slice.
func All() []models.Formation {
	return catalog
}

// Lookup returns the formation with the given key.
func Lookup(key string) (*models.Formation, error) {
	for i := range catalog {
		if catalog[i].Key == key {
			return &catalog[i], nil
		}
	}
	return nil, ErrFormationNotFound
}

// Default is the catalog's first formation, used as the hydration fallback.
func Default() *models.Formation {
	return &catalog[0]
}
