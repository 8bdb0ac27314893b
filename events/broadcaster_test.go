package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcaster_PublishIsPerUser(t *testing.T) {
	b := NewBroadcaster()
	lea := b.Register(1)
	paul := b.Register(2)

	b.Publish(1, "patients", "patient/3")

	require.Len(t, lea, 2)
	assert.Equal(t, "patients", <-lea)
	assert.Equal(t, "patient/3", <-lea)
	assert.Empty(t, paul)
}

func TestBroadcaster_DropsWhenFull(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Register(1)

	for i := 0; i < clientBuffer+5; i++ {
		b.Publish(1, "patients")
	}
	assert.Len(t, ch, clientBuffer)
}

func TestBroadcaster_Unregister(t *testing.T) {
	b := NewBroadcaster()
	first := b.Register(1)
	second := b.Register(1)
	assert.Equal(t, 2, b.Subscribers(1))

	b.Unregister(1, first)
	b.Unregister(1, first)
	assert.Equal(t, 1, b.Subscribers(1))

	_, open := <-first
	assert.False(t, open)

	b.Publish(1, "appointments")
	assert.Equal(t, "appointments", <-second)

	b.Close()
	assert.Equal(t, 0, b.Subscribers(1))
	_, open = <-second
	assert.False(t, open)
}

func TestCovers(t *testing.T) {
	assert.True(t, Covers(PatientKey(3), PatientKey(3)))
	assert.True(t, Covers(PatientKey(3), SleepKey(3)))
	assert.False(t, Covers(PatientKey(3), PatientKey(31)))
	assert.True(t, Covers(KeyAppointments, AppointmentsKey(3)))
	assert.False(t, Covers(KeyPatients, PatientKey(3)))
}
