package speaker

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pejman93/echopulse/internal/domain"
)

func newTestStore() *InMemoryStore {
	return NewInMemoryStore(DefaultBounds())
}

func TestInMemoryStore_CalibrationInitializesNeutral(t *testing.T) {
	store := newTestStore()

	factors, err := store.Calibration(context.Background(), "alice")
	require.NoError(t, err)

	require.Len(t, factors, len(domain.Categories()))
	for _, cat := range domain.Categories() {
		assert.Equal(t, 1.0, factors[cat], "category %s", cat)
	}
}

func TestInMemoryStore_AdjustCalibration(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	factor, err := store.AdjustCalibration(ctx, "alice", domain.Hope, 1.5)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, factor, 1e-9)

	factor, err = store.AdjustCalibration(ctx, "alice", domain.Hope, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, factor, 1e-9)

	// Other categories are untouched.
	factors, err := store.Calibration(ctx, "alice")
	require.NoError(t, err)
	assert.InDelta(t, 0.75, factors[domain.Hope], 1e-9)
	assert.Equal(t, 1.0, factors[domain.Sorrow])
}

func TestInMemoryStore_AdjustCalibrationClamps(t *testing.T) {
	store := NewInMemoryStore(Bounds{Min: 0.1, Max: 5.0})
	ctx := context.Background()

	var factor float64
	var err error
	for n := 0; n < 20; n++ {
		factor, err = store.AdjustCalibration(ctx, "alice", domain.Hope, 2.0)
		require.NoError(t, err)
	}
	assert.Equal(t, 5.0, factor)

	for n := 0; n < 40; n++ {
		factor, err = store.AdjustCalibration(ctx, "alice", domain.Hope, 0.5)
		require.NoError(t, err)
	}
	assert.Equal(t, 0.1, factor)
}

func TestInMemoryStore_AdjustCalibrationUnknownCategory(t *testing.T) {
	store := newTestStore()

	_, err := store.AdjustCalibration(context.Background(), "alice", "euphoria", 1.2)
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)
}

func TestInMemoryStore_AppendArcReturnsWindow(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	arc, err := store.AppendArc(ctx, "alice", domain.Sorrow)
	require.NoError(t, err)
	assert.Equal(t, []domain.EmotionCategory{domain.Sorrow}, arc)

	for _, cat := range []domain.EmotionCategory{domain.Sorrow, domain.Hope, domain.Hope, domain.Transformative, domain.Hope} {
		arc, err = store.AppendArc(ctx, "alice", cat)
		require.NoError(t, err)
	}

	// Six appends total, window keeps the last five, oldest first.
	assert.Equal(t, []domain.EmotionCategory{
		domain.Sorrow, domain.Hope, domain.Hope, domain.Transformative, domain.Hope,
	}, arc)
}

func TestInMemoryStore_RecentArc(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	arc, err := store.RecentArc(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, arc)

	_, err = store.AppendArc(ctx, "alice", domain.Hope)
	require.NoError(t, err)

	arc, err = store.RecentArc(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []domain.EmotionCategory{domain.Hope}, arc)
}

func TestInMemoryStore_SpeakersAreIsolated(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	_, err := store.AdjustCalibration(ctx, "alice", domain.Hope, 2.0)
	require.NoError(t, err)

	factors, err := store.Calibration(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1.0, factors[domain.Hope])
}

func TestInMemoryStore_ConcurrentAccess(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			speakerID := fmt.Sprintf("speaker-%d", n%4)
			for n := 0; n < 50; n++ {
				_, err := store.AdjustCalibration(ctx, speakerID, domain.Hope, 1.0)
				assert.NoError(t, err)
				_, err = store.AppendArc(ctx, speakerID, domain.Hope)
				assert.NoError(t, err)
				_, err = store.Calibration(ctx, speakerID)
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()

	arc, err := store.RecentArc(ctx, "speaker-0")
	require.NoError(t, err)
	assert.Len(t, arc, 5)
}
