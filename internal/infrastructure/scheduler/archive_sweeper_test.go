package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCleaner struct {
	mu      sync.Mutex
	calls   []time.Duration
	deleted int
	err     error
}

func (f *fakeCleaner) CleanupOlderThan(_ context.Context, age time.Duration) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, age)
	return f.deleted, f.err
}

func (f *fakeCleaner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestNewArchiveSweeper_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config SweeperConfig
	}{
		{"zero retention", SweeperConfig{Retention: 0, CheckInterval: time.Minute}},
		{"zero interval", SweeperConfig{Retention: time.Hour}},
		{"bad hour", SweeperConfig{Retention: time.Hour, CheckInterval: time.Minute, DailyHour: 24}},
		{"bad minute", SweeperConfig{Retention: time.Hour, CheckInterval: time.Minute, DailyMinute: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewArchiveSweeper(tt.config, &fakeCleaner{}, nil)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestArchiveSweeper_CheckAndSweep(t *testing.T) {
	cleaner := &fakeCleaner{deleted: 4}
	s, err := NewArchiveSweeper(DefaultSweeperConfig(30*24*time.Hour), cleaner, zap.NewNop())
	require.NoError(t, err)

	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)
	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"before sweep time", day.Add(2*time.Hour + 59*time.Minute), false},
		{"at sweep time", day.Add(3 * time.Hour), true},
		{"same day again", day.Add(3 * time.Hour), false},
		{"next day", day.Add(27 * time.Hour), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.now = func() time.Time { return tt.at }
			assert.Equal(t, tt.want, s.checkAndSweep(context.Background()))
		})
	}

	assert.Equal(t, 2, cleaner.callCount())
	assert.Equal(t, 30*24*time.Hour, cleaner.calls[0])
}

func TestArchiveSweeper_SweepError(t *testing.T) {
	cleaner := &fakeCleaner{deleted: 1, err: errors.New("disk gone")}
	s, err := NewArchiveSweeper(DefaultSweeperConfig(time.Hour), cleaner, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, s.Sweep(context.Background()))
}

func TestArchiveSweeper_StartStop(t *testing.T) {
	cleaner := &fakeCleaner{}
	cfg := DefaultSweeperConfig(time.Hour)
	cfg.CheckInterval = 5 * time.Millisecond
	s, err := NewArchiveSweeper(cfg, cleaner, nil)
	require.NoError(t, err)

	now := time.Now()
	s.now = func() time.Time {
		return time.Date(now.Year(), now.Month(), now.Day(), 3, 0, 0, 0, time.Local)
	}

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()))
	assert.Eventually(t, func() bool { return cleaner.callCount() == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Stop(ctx))
	assert.Equal(t, 1, cleaner.callCount())
}
