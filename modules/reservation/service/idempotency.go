package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"tablebook/core/logger"

	goredis "github.com/redis/go-redis/v9"
)

// IdempotencyState classifies a commit attempt against prior attempts with
// the same key.
type IdempotencyState string

const (
	IdempotencyNew        IdempotencyState = "new"
	IdempotencyReplay     IdempotencyState = "replay"
	IdempotencyConflict   IdempotencyState = "conflict"
	IdempotencyInProgress IdempotencyState = "in_progress"
)

// IdempotencyResult is what Begin reports. ReservationID is only set on
// replay of a completed commit.
type IdempotencyResult struct {
	State         IdempotencyState
	ReservationID string
}

// IdempotencyStore records commit attempts keyed by client idempotency key.
// Begin claims the key atomically: exactly one concurrent caller observes
// IdempotencyNew, everyone else sees in_progress, replay or conflict.
type IdempotencyStore interface {
	Begin(ctx context.Context, key, fingerprint string) (IdempotencyResult, error)
	Complete(ctx context.Context, key, fingerprint, reservationID string) error
	Fail(ctx context.Context, key string) error
}

// Fingerprint hashes the canonical JSON of a commit payload so that replays
// with a different payload are detectable
func Fingerprint(payload any) string {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Idempotency:Fingerprint", err)
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

type memoryRecord struct {
	fingerprint   string
	reservationID string
	pending       bool
	expiresAt     time.Time
}

// MemoryIdempotencyStore is the single-process backend, also used by tests
type MemoryIdempotencyStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	records map[string]*memoryRecord
	now     func() time.Time
}

func NewMemoryIdempotencyStore(ttl time.Duration) *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{
		ttl:     ttl,
		records: make(map[string]*memoryRecord),
		now:     time.Now,
	}
}

func (s *MemoryIdempotencyStore) Begin(_ context.Context, key, fingerprint string) (IdempotencyResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.records[key]
	if rec != nil && s.now().After(rec.expiresAt) {
		delete(s.records, key)
		rec = nil
	}

	if rec == nil {
		s.records[key] = &memoryRecord{
			fingerprint: fingerprint,
			pending:     true,
			expiresAt:   s.now().Add(s.ttl),
		}
		return IdempotencyResult{State: IdempotencyNew}, nil
	}

	if rec.fingerprint != fingerprint {
		return IdempotencyResult{State: IdempotencyConflict}, nil
	}
	if rec.pending {
		return IdempotencyResult{State: IdempotencyInProgress}, nil
	}
	return IdempotencyResult{State: IdempotencyReplay, ReservationID: rec.reservationID}, nil
}

func (s *MemoryIdempotencyStore) Complete(_ context.Context, key, fingerprint, reservationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = &memoryRecord{
		fingerprint:   fingerprint,
		reservationID: reservationID,
		expiresAt:     s.now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryIdempotencyStore) Fail(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, key)
	return nil
}

const idempotencyKeyPrefix = "idempotency:commit:"

// RedisIdempotencyStore shares idempotency state across processes. A pending
// claim is stored as "p|<fingerprint>", a completed one as
// "d|<fingerprint>|<reservation id>"; SET NX makes the claim atomic.
type RedisIdempotencyStore struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewRedisIdempotencyStore(client *goredis.Client, ttl time.Duration) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{client: client, ttl: ttl}
}

func (s *RedisIdempotencyStore) Begin(ctx context.Context, key, fingerprint string) (IdempotencyResult, error) {
	redisKey := idempotencyKeyPrefix + key

	claimed, err := s.client.SetNX(ctx, redisKey, "p|"+fingerprint, s.ttl).Result()
	if err != nil {
		logger.Error("RedisIdempotencyStore:Begin:SetNX", err)
		return IdempotencyResult{}, err
	}
	if claimed {
		return IdempotencyResult{State: IdempotencyNew}, nil
	}

	value, err := s.client.Get(ctx, redisKey).Result()
	if err == goredis.Nil {
		// The holder expired or failed between our SetNX and Get; claim again.
		claimed, err = s.client.SetNX(ctx, redisKey, "p|"+fingerprint, s.ttl).Result()
		if err != nil {
			logger.Error("RedisIdempotencyStore:Begin:Reclaim", err)
			return IdempotencyResult{}, err
		}
		if claimed {
			return IdempotencyResult{State: IdempotencyNew}, nil
		}
		return IdempotencyResult{State: IdempotencyInProgress}, nil
	}
	if err != nil {
		logger.Error("RedisIdempotencyStore:Begin:Get", err)
		return IdempotencyResult{}, err
	}

	return parseIdempotencyValue(value, fingerprint), nil
}

func (s *RedisIdempotencyStore) Complete(ctx context.Context, key, fingerprint, reservationID string) error {
	redisKey := idempotencyKeyPrefix + key

	err := s.client.Set(ctx, redisKey, "d|"+fingerprint+"|"+reservationID, s.ttl).Err()
	if err != nil {
		logger.Error("RedisIdempotencyStore:Complete", err)
		return err
	}
	return nil
}

func (s *RedisIdempotencyStore) Fail(ctx context.Context, key string) error {
	err := s.client.Del(ctx, idempotencyKeyPrefix+key).Err()
	if err != nil {
		logger.Error("RedisIdempotencyStore:Fail", err)
		return err
	}
	return nil
}

func parseIdempotencyValue(value, fingerprint string) IdempotencyResult {
	parts := strings.SplitN(value, "|", 3)
	if len(parts) < 2 {
		return IdempotencyResult{State: IdempotencyConflict}
	}
	if parts[1] != fingerprint {
		return IdempotencyResult{State: IdempotencyConflict}
	}
	if parts[0] == "p" {
		return IdempotencyResult{State: IdempotencyInProgress}
	}
	if len(parts) == 3 {
		return IdempotencyResult{State: IdempotencyReplay, ReservationID: parts[2]}
	}
	return IdempotencyResult{State: IdempotencyConflict}
}
