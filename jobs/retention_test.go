package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePurger struct {
	cutoff time.Time
	calls  int
	err    error
}

func (f *fakePurger) PurgeLogs(_ context.Context, cutoff time.Time) (int64, error) {
	f.calls++
	f.cutoff = cutoff
	return 3, f.err
}

func TestLogRetention_Run(t *testing.T) {
	fixed := time.Date(2025, time.June, 15, 3, 0, 0, 0, time.UTC)
	purger := &fakePurger{}
	r := NewLogRetention(purger, 30)
	r.now = func() time.Time { return fixed }

	n, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.Equal(t, fixed.AddDate(0, 0, -30), purger.cutoff)
}

func TestLogRetention_DisabledAndErrors(t *testing.T) {
	purger := &fakePurger{}
	n, err := NewLogRetention(purger, 0).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, purger.calls)

	purger.err = errors.New("database is locked")
	_, err = NewLogRetention(purger, 7).Run(context.Background())
	assert.ErrorContains(t, err, "database is locked")
}

func TestLogRetention_StartRunsImmediately(t *testing.T) {
	purger := &fakePurger{}
	scheduler, err := NewLogRetention(purger, 30).Start()
	require.NoError(t, err)
	defer scheduler.Stop()

	assert.Eventually(t, func() bool { return scheduler.Len() == 1 }, time.Second, 10*time.Millisecond)
}

func TestLogRetention_StartRejectsBadTime(t *testing.T) {
	r := NewLogRetention(&fakePurger{}, 30)
	r.At = "25:99"

	scheduler, err := r.Start()
	assert.Error(t, err)
	assert.Nil(t, scheduler)
}
