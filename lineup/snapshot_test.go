package lineup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotKey(t *testing.T) {
	tests := []struct {
		name    string
		teamAID string
		teamBID string
		want    string
	}{
		{"build mode", "teamA", "", "lineupShowdown_build_teamA"},
		{"compare mode ordered", "teamA", "teamB", "lineupShowdown_compare_teamA_vs_teamB"},
		{"compare mode reversed", "teamB", "teamA", "lineupShowdown_compare_teamA_vs_teamB"},
		{"distinct pairs differ", "teamA", "teamC", "lineupShowdown_compare_teamA_vs_teamC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SnapshotKey(tt.teamAID, tt.teamBID))
		})
	}
}

func TestBenchSlotKeys(t *testing.T) {
	keys := BenchSlotKeys()
	assert.Len(t, keys, BenchSlotCount)
	assert.Equal(t, "SUB_1", keys[0])
	assert.Equal(t, "SUB_7", keys[len(keys)-1])

	for _, key := range keys {
		assert.True(t, IsBenchSlot(key))
	}
	assert.False(t, IsBenchSlot("SUB_8"))
	assert.False(t, IsBenchSlot("GK"))
	assert.False(t, IsBenchSlot(CoachSlotKey))
}
