package models

// Backup is the export/import file format. A full backup carries
// data.teams; a single-team export carries data.team only.
type Backup struct {
	Version   string     `json:"version,omitempty"`
	CreatedAt string     `json:"createdAt,omitempty"`
	Data      BackupData `json:"data"`
}

type BackupData struct {
	Teams []Team `json:"teams,omitempty"`
	Team  *Team  `json:"team,omitempty"`
}

const BackupVersion = "1.0"
