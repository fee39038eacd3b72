package lineup

import (
	"context"
	"fmt"
)

// snapshotKeyPrefix namespaces every persisted lineup snapshot.
const snapshotKeyPrefix = "lineupShowdown"

// SnapshotKey derives the persistence key for a team combination. The two
// ids are sorted before composing the compare key, so loading (B, A)
// resumes the same session as (A, B). Different combinations never collide.
func SnapshotKey(teamAID, teamBID string) string {
	if teamBID == "" {
		return fmt.Sprintf("%s_build_%s", snapshotKeyPrefix, teamAID)
	}
	a, b := teamAID, teamBID
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("%s_compare_%s_vs_%s", snapshotKeyPrefix, a, b)
}

// SnapshotStore is the durable key-value store behind the lineup store.
// Values are opaque JSON snapshots.
type SnapshotStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// snapshotPayload mirrors the wire shape of a persisted lineup session.
type snapshotPayload struct {
	SelectedFormationKey string              `json:"selectedFormationKey"`
	IdealLineup          map[string]Occupant `json:"idealLineup"`
	IsBenchVisible       bool                `json:"isBenchVisible"`
}
