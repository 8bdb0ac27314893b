package client

import (
	"testing"

	"github.com/learllr/osteolog/events"
	"github.com/stretchr/testify/assert"
)

func TestQueryCache_InvalidateCoversChildren(t *testing.T) {
	cache := NewQueryCache()
	gen := cache.Generation()
	cache.Set(events.KeyPatients, []byte(`[]`), gen)
	cache.Set(events.PatientKey(1), []byte(`{}`), gen)
	cache.Set(events.SleepKey(1), []byte(`{}`), gen)
	cache.Set(events.PatientKey(12), []byte(`{}`), gen)

	dropped := cache.Invalidate(events.PatientKey(1))

	assert.Equal(t, 2, dropped)
	assert.ElementsMatch(t, []string{events.KeyPatients, events.PatientKey(12)}, cache.Keys())
}

func TestQueryCache_StaleSetRejected(t *testing.T) {
	cache := NewQueryCache()
	gen := cache.Generation()

	cache.Invalidate(events.KeyAppointments)

	assert.False(t, cache.Set(events.KeyAppointments, []byte(`[]`), gen))
	_, ok := cache.Get(events.KeyAppointments)
	assert.False(t, ok)

	assert.True(t, cache.Set(events.KeyAppointments, []byte(`[]`), cache.Generation()))
}

func TestQueryCache_Clear(t *testing.T) {
	cache := NewQueryCache()
	cache.Set(events.KeyMe, []byte(`{}`), cache.Generation())
	before := cache.Generation()

	cache.Clear()

	assert.Empty(t, cache.Keys())
	assert.NotEqual(t, before, cache.Generation())
}
