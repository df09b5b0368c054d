package notification

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	n, err := New(TypeSystem, Target{}, Subject{}, " Maintenance ", "tonight", "")
	require.NoError(t, err)
	assert.Equal(t, "Maintenance", n.Title)
	assert.NotEmpty(t, n.DedupeKey)
	assert.True(t, n.IsBroadcast())

	_, err = New(Type("NOPE"), Target{}, Subject{}, "x", "", "")
	assert.Error(t, err)
	_, err = New(TypeSystem, Target{}, Subject{}, "  ", "", "")
	assert.Error(t, err)
}

func TestDedupeKey(t *testing.T) {
	id := uuid.MustParse("7d1f0e7a-3f1e-4c57-9b0e-2d6d3c7d9a10")
	day := time.Date(2025, 4, 9, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "PAYABLE_DUE:7d1f0e7a-3f1e-4c57-9b0e-2d6d3c7d9a10:2025-04-09", DedupeKey(TypePayableDue, id, day))
}

func TestMarkRead(t *testing.T) {
	n, err := New(TypeSystem, Target{}, Subject{}, "x", "", "k")
	require.NoError(t, err)
	first := time.Now()
	n.MarkRead(first)
	n.MarkRead(first.Add(time.Hour))
	assert.True(t, n.IsRead)
	assert.Equal(t, first, *n.ReadAt)
}

func TestVisibleTo(t *testing.T) {
	branchA, branchB := uuid.New(), uuid.New()
	user, other := uuid.New(), uuid.New()

	tests := []struct {
		name   string
		target Target
		viewer Viewer
		want   bool
	}{
		{"own direct", Target{UserID: &user}, Viewer{UserID: user}, true},
		{"other's direct", Target{UserID: &other}, Viewer{UserID: user, IsAdmin: true}, false},
		{"branch broadcast same branch", Target{BranchID: &branchA}, Viewer{UserID: user, BranchID: &branchA}, true},
		{"branch broadcast other branch", Target{BranchID: &branchB}, Viewer{UserID: user, BranchID: &branchA}, false},
		{"branch broadcast admin", Target{BranchID: &branchB}, Viewer{UserID: user, IsAdmin: true}, true},
		{"global broadcast", Target{}, Viewer{UserID: user, BranchID: &branchA}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := New(TypeSystem, tt.target, Subject{}, "x", "", "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.VisibleTo(tt.viewer))
		})
	}
}
