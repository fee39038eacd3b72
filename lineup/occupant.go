package lineup

import "github.com/jdvalencia/lineup-showdown/models"

// Slot keys outside the formation catalog: the coach pseudo-slot and the
// fixed substitute bench.
const (
	CoachSlotKey    = "COACH_SLOT"
	BenchSlotCount  = 7
	benchSlotPrefix = "SUB_"
)

// BenchSlotKeys returns SUB_1..SUB_7 in bench order.
func BenchSlotKeys() []string {
	keys := make([]string, 0, BenchSlotCount)
	for i := 1; i <= BenchSlotCount; i++ {
		keys = append(keys, benchSlotKey(i))
	}
	return keys
}

func benchSlotKey(i int) string {
	return benchSlotPrefix + string(rune('0'+i))
}

func IsBenchSlot(key string) bool {
	for i := 1; i <= BenchSlotCount; i++ {
		if key == benchSlotKey(i) {
			return true
		}
	}
	return false
}

type OccupantKind string

const (
	OccupantPlayer OccupantKind = "player"
	OccupantCoach  OccupantKind = "coach"
)

// CoachOccupant is the coach's stand-in for the coach slot. It is not a
// Player: it has no jersey number and no position, so it can never match a
// position-based eligibility rule by accident.
type CoachOccupant struct {
	TeamID      string `json:"teamId"`
	Name        string `json:"name"`
	Nationality string `json:"nationality,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Occupant is the tagged union stored in an assignment slot: either a
// player or a coach proxy, depending on Kind.
type Occupant struct {
	Kind   OccupantKind   `json:"kind"`
	Player *models.Player `json:"player,omitempty"`
	Coach  *CoachOccupant `json:"coach,omitempty"`
}

func PlayerOccupant(p models.Player) Occupant {
	return Occupant{Kind: OccupantPlayer, Player: &p}
}

func NewCoachOccupant(teamID string, c models.Coach) Occupant {
	return Occupant{Kind: OccupantCoach, Coach: &CoachOccupant{
		TeamID:      teamID,
		Name:        c.Name,
		Nationality: c.Nationality,
		ImageURL:    c.ImageURL,
	}}
}

// ID is unique across one assignment map: the player id, or a synthetic
// coach id derived from the team.
func (o Occupant) ID() string {
	switch o.Kind {
	case OccupantPlayer:
		if o.Player != nil {
			return o.Player.ID
		}
	case OccupantCoach:
		if o.Coach != nil {
			return "coach_" + o.Coach.TeamID
		}
	}
	return ""
}

// OwnerTeamID reports which team the occupant belongs to.
func (o Occupant) OwnerTeamID() string {
	switch o.Kind {
	case OccupantPlayer:
		if o.Player != nil {
			return o.Player.TeamID
		}
	case OccupantCoach:
		if o.Coach != nil {
			return o.Coach.TeamID
		}
	}
	return ""
}

func (o Occupant) valid() bool {
	switch o.Kind {
	case OccupantPlayer:
		return o.Player != nil
	case OccupantCoach:
		return o.Coach != nil
	}
	return false
}
