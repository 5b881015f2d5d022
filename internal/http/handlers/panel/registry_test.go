package panel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_GetIsStable(t *testing.T) {
	r := NewRegistry(5)

	a := r.Get("a")
	assert.Same(t, a, r.Get("a"))
	assert.NotSame(t, a, r.Get("b"))
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, 5, a.Snapshot().PageSize)
}

func TestRegistry_Prune(t *testing.T) {
	r := NewRegistry(5)
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	r.Get("old")
	now = now.Add(2 * time.Hour)
	r.Get("fresh")

	assert.Equal(t, 1, r.Prune(time.Hour))
	assert.Equal(t, 1, r.Len())
}
