package speaker

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/pejman93/echopulse/internal/domain"
)

const lockStripes = 64

type profile struct {
	calibration map[domain.EmotionCategory]float64
	arc         []domain.EmotionCategory
}

// InMemoryStore provides per-speaker state for single-instance mode.
// Access is serialized per speaker via striped locks keyed by speaker ID;
// the profiles map itself is guarded by a separate mutex so stripes only
// contend within one speaker's hash bucket.
type InMemoryStore struct {
	bounds Bounds

	mu       sync.Mutex
	profiles map[string]*profile

	stripes [lockStripes]sync.Mutex
}

func NewInMemoryStore(bounds Bounds) *InMemoryStore {
	return &InMemoryStore{
		bounds:   bounds,
		profiles: make(map[string]*profile),
	}
}

func (s *InMemoryStore) stripe(speakerID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(speakerID))
	return &s.stripes[h.Sum32()%lockStripes]
}

func (s *InMemoryStore) getOrCreate(speakerID string) *profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[speakerID]
	if !ok {
		p = &profile{calibration: neutralCalibration()}
		s.profiles[speakerID] = p
	}
	return p
}

func (s *InMemoryStore) Calibration(_ context.Context, speakerID string) (map[domain.EmotionCategory]float64, error) {
	lock := s.stripe(speakerID)
	lock.Lock()
	defer lock.Unlock()

	p := s.getOrCreate(speakerID)
	factors := make(map[domain.EmotionCategory]float64, len(p.calibration))
	for cat, f := range p.calibration {
		factors[cat] = f
	}
	return factors, nil
}

func (s *InMemoryStore) AdjustCalibration(_ context.Context, speakerID string, category domain.EmotionCategory, multiplier float64) (float64, error) {
	if !category.Valid() {
		return 0, domain.ErrUnknownCategory
	}

	lock := s.stripe(speakerID)
	lock.Lock()
	defer lock.Unlock()

	p := s.getOrCreate(speakerID)
	factor := s.bounds.clamp(p.calibration[category] * multiplier)
	p.calibration[category] = factor
	return factor, nil
}

func (s *InMemoryStore) AppendArc(_ context.Context, speakerID string, category domain.EmotionCategory) ([]domain.EmotionCategory, error) {
	lock := s.stripe(speakerID)
	lock.Lock()
	defer lock.Unlock()

	p := s.getOrCreate(speakerID)
	p.arc = append(p.arc, category)
	if len(p.arc) > arcReadWindow {
		p.arc = p.arc[len(p.arc)-arcReadWindow:]
	}
	return lastN(p.arc, arcReadWindow), nil
}

func (s *InMemoryStore) RecentArc(_ context.Context, speakerID string) ([]domain.EmotionCategory, error) {
	lock := s.stripe(speakerID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	p, ok := s.profiles[speakerID]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return lastN(p.arc, arcReadWindow), nil
}

func lastN(arc []domain.EmotionCategory, n int) []domain.EmotionCategory {
	if len(arc) > n {
		arc = arc[len(arc)-n:]
	}
	out := make([]domain.EmotionCategory, len(arc))
	copy(out, arc)
	return out
}
