package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseAggregateRoot_Versioning(t *testing.T) {
	t.Run("new aggregates stay at version 1 until saved", func(t *testing.T) {
		a := NewBaseAggregateRoot()
		a.IncrementVersion()
		a.IncrementVersion()
		assert.Equal(t, 1, a.Version)
		assert.Zero(t, a.PersistedVersion())
	})

	t.Run("loaded aggregates bump once per save", func(t *testing.T) {
		a := NewBaseAggregateRoot()
		a.RestoreVersion(4)
		a.IncrementVersion()
		a.IncrementVersion()
		assert.Equal(t, 5, a.Version)
		assert.Equal(t, 4, a.PersistedVersion())

		a.MarkPersisted()
		a.IncrementVersion()
		assert.Equal(t, 6, a.Version)
	})
}

func TestBaseAggregateRoot_PullDomainEvents(t *testing.T) {
	a := NewBaseAggregateRoot()
	e := NewBaseDomainEvent("Thing", "thing", a.ID, a.ID)
	a.AddDomainEvent(&e)

	events := a.PullDomainEvents()
	assert.Len(t, events, 1)
	assert.Empty(t, a.GetDomainEvents())
}
