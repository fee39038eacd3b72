package models

// Coach has no id of its own; exactly one lives inside each team document.
type Coach struct {
	Name        string `json:"name"`
	Nationality string `json:"nationality,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	ImageFileID string `json:"imageFileId,omitempty"`
}

// Team is the full document stored as one JSONB row. The database is the
// only source of truth for it; the lineup store keeps transient copies.
type Team struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	PrimaryColor   string   `json:"primaryColor,omitempty"`
	SecondaryColor string   `json:"secondaryColor,omitempty"`
	LogoURL        string   `json:"logoUrl,omitempty"`
	LogoFileID     string   `json:"logoFileId,omitempty"`
	Coach          Coach    `json:"coach"`
	Players        []Player `json:"players"`
}

// TeamInfo is the listing projection: document minus the roster.
type TeamInfo struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	PrimaryColor   string `json:"primaryColor,omitempty"`
	SecondaryColor string `json:"secondaryColor,omitempty"`
	LogoURL        string `json:"logoUrl,omitempty"`
}

func (t *Team) Info() TeamInfo {
	return TeamInfo{
		ID:             t.ID,
		Name:           t.Name,
		PrimaryColor:   t.PrimaryColor,
		SecondaryColor: t.SecondaryColor,
		LogoURL:        t.LogoURL,
	}
}

// FindPlayer returns the roster entry with the given id, or nil.
func (t *Team) FindPlayer(playerID string) *Player {
	for i := range t.Players {
		if t.Players[i].ID == playerID {
			return &t.Players[i]
		}
	}
	return nil
}
