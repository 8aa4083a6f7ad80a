package speaker

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pejman93/echopulse/internal/domain"
	"github.com/pejman93/echopulse/internal/metrics"
)

// profileTTL expires abandoned speaker state. Redis keys refresh on every
// write, so only speakers idle this long are dropped.
const profileTTL = 30 * 24 * time.Hour

// adjustCalibrationScript multiplies and clamps one calibration factor
// atomically. Missing fields default to 1.0.
var adjustCalibrationScript = goredis.NewScript(`
local current = tonumber(redis.call('HGET', KEYS[1], ARGV[1])) or 1.0
local factor = current * tonumber(ARGV[2])
local lo = tonumber(ARGV[3])
local hi = tonumber(ARGV[4])
if factor < lo then factor = lo end
if factor > hi then factor = hi end
redis.call('HSET', KEYS[1], ARGV[1], factor)
redis.call('EXPIRE', KEYS[1], ARGV[5])
return tostring(factor)
`)

// appendArcScript appends one arc entry and returns the bounded read window.
// Only the five most recent entries are ever consulted, so the list is
// trimmed on every append.
var appendArcScript = goredis.NewScript(`
redis.call('RPUSH', KEYS[1], ARGV[1])
redis.call('LTRIM', KEYS[1], -5, -1)
redis.call('EXPIRE', KEYS[1], ARGV[2])
return redis.call('LRANGE', KEYS[1], 0, -1)
`)

// RedisStore provides Redis-backed per-speaker state for multi-instance mode.
// Single-key Lua scripts give the per-speaker atomicity the memory store gets
// from striped locks.
type RedisStore struct {
	rdb    *goredis.Client
	bounds Bounds
}

func NewRedisStore(rdb *goredis.Client, bounds Bounds) *RedisStore {
	return &RedisStore{rdb: rdb, bounds: bounds}
}

func calibrationKey(speakerID string) string {
	return "speaker:" + speakerID + ":calibration"
}

func arcKey(speakerID string) string {
	return "speaker:" + speakerID + ":arc"
}

func (s *RedisStore) Calibration(ctx context.Context, speakerID string) (map[domain.EmotionCategory]float64, error) {
	fields, err := s.rdb.HGetAll(ctx, calibrationKey(speakerID)).Result()
	recordOp("calibration_read", err)
	if err != nil {
		return nil, fmt.Errorf("read calibration: %w", err)
	}

	factors := neutralCalibration()
	for field, raw := range fields {
		cat := domain.EmotionCategory(field)
		if !cat.Valid() {
			continue
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("parse calibration factor %q for %s: %w", raw, field, err)
		}
		factors[cat] = f
	}
	return factors, nil
}

func (s *RedisStore) AdjustCalibration(ctx context.Context, speakerID string, category domain.EmotionCategory, multiplier float64) (float64, error) {
	if !category.Valid() {
		return 0, domain.ErrUnknownCategory
	}

	raw, err := adjustCalibrationScript.Run(ctx, s.rdb,
		[]string{calibrationKey(speakerID)},
		string(category), multiplier, s.bounds.Min, s.bounds.Max, int(profileTTL.Seconds()),
	).Text()
	recordOp("calibration_adjust", err)
	if err != nil {
		return 0, fmt.Errorf("adjust calibration: %w", err)
	}

	factor, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse adjusted factor %q: %w", raw, err)
	}
	return factor, nil
}

func (s *RedisStore) AppendArc(ctx context.Context, speakerID string, category domain.EmotionCategory) ([]domain.EmotionCategory, error) {
	raw, err := appendArcScript.Run(ctx, s.rdb,
		[]string{arcKey(speakerID)},
		string(category), int(profileTTL.Seconds()),
	).StringSlice()
	recordOp("arc_append", err)
	if err != nil {
		return nil, fmt.Errorf("append arc: %w", err)
	}
	return toCategories(raw), nil
}

func (s *RedisStore) RecentArc(ctx context.Context, speakerID string) ([]domain.EmotionCategory, error) {
	raw, err := s.rdb.LRange(ctx, arcKey(speakerID), -arcReadWindow, -1).Result()
	recordOp("arc_read", err)
	if err != nil {
		return nil, fmt.Errorf("read arc: %w", err)
	}
	return toCategories(raw), nil
}

// Ping verifies the Redis connection, for readiness checks.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func toCategories(raw []string) []domain.EmotionCategory {
	out := make([]domain.EmotionCategory, 0, len(raw))
	for _, r := range raw {
		out = append(out, domain.EmotionCategory(r))
	}
	return out
}

func recordOp(operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.SpeakerStoreOpsTotal.WithLabelValues(operation, status).Inc()
}
