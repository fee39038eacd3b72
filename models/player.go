package models

// Position is the pitch role a player can fill. Formation slots are typed
// with the same values, which is what makes eligibility matching work.
type Position string

const (
	PositionGoalkeeper Position = "Goalkeeper"
	PositionDefender   Position = "Defender"
	PositionMidfielder Position = "Midfielder"
	PositionForward    Position = "Forward"
)

func (p Position) Valid() bool {
	switch p {
	case PositionGoalkeeper, PositionDefender, PositionMidfielder, PositionForward:
		return true
	}
	return false
}

// RosterStatus groups players for display: active squad, loaned out, or legend.
type RosterStatus string

const (
	RosterStatusInRoster RosterStatus = "in_roster"
	RosterStatusLoaned   RosterStatus = "loaned"
	RosterStatusLegend   RosterStatus = "legend"
)

func (s RosterStatus) Valid() bool {
	switch s {
	case RosterStatusInRoster, RosterStatusLoaned, RosterStatusLegend:
		return true
	}
	return false
}

// PlayerStats holds the per-player numbers shown on cards and used for
// sorting in the selection dialog. All optional.
type PlayerStats struct {
	Matches      int     `json:"matches,omitempty"`
	Goals        int     `json:"goals,omitempty"`
	Assists      int     `json:"assists,omitempty"`
	Rating       float64 `json:"rating,omitempty"`
	CleanSheets  int     `json:"cleanSheets,omitempty"`
	GoalsAgainst int     `json:"goalsAgainst,omitempty"`
}

type Player struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	JerseyNumber int          `json:"jerseyNumber"`
	Position     Position     `json:"position"`
	Nationality  string       `json:"nationality,omitempty"`
	BirthDate    string       `json:"birthDate,omitempty"` // dd/mm/yyyy
	Value        int64        `json:"value,omitempty"`
	ImageURL     string       `json:"imageUrl,omitempty"`
	ImageFileID  string       `json:"imageFileId,omitempty"`
	TeamID       string       `json:"teamId"`
	// NeedsPhotoUpdate flags a player that lost or never had an image,
	// so admins can follow up.
	NeedsPhotoUpdate bool         `json:"needsPhotoUpdate,omitempty"`
	RosterStatus     RosterStatus `json:"rosterStatus"`
	Stats            PlayerStats  `json:"stats"`
}
