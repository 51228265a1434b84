package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnknownJob is returned for a job id that has no recorded progress.
var ErrUnknownJob = errors.New("unknown job")

// Progress is the last known state of a transcription job.
type Progress struct {
	Percent  int     `json:"pct"`
	Message  string  `json:"msg"`
	Done     bool    `json:"done"`
	Error    *string `json:"error"`
	ResultID *uint   `json:"tid"`
}

// ProgressStore keeps one Progress per job. Each job has a single writer;
// readers see the most recent write.
type ProgressStore interface {
	Set(ctx context.Context, jobID string, p Progress) error
	Get(ctx context.Context, jobID string) (Progress, error)
}

// MemoryProgress is an in-process ProgressStore.
type MemoryProgress struct {
	mu    sync.RWMutex
	state map[string]Progress
}

// NewMemoryProgress creates an empty in-process store.
func NewMemoryProgress() *MemoryProgress {
	return &MemoryProgress{state: make(map[string]Progress)}
}

func (m *MemoryProgress) Set(_ context.Context, jobID string, p Progress) error {
	m.mu.Lock()
	m.state[jobID] = p
	m.mu.Unlock()
	return nil
}

func (m *MemoryProgress) Get(_ context.Context, jobID string) (Progress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.state[jobID]
	if !ok {
		return Progress{}, ErrUnknownJob
	}
	return p, nil
}

const redisKeyPrefix = "notulen:progress:"

// RedisProgress shares job progress between processes through Redis.
// Entries expire after ttl.
type RedisProgress struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisProgress creates a Redis backed store.
func NewRedisProgress(client *redis.Client, ttl time.Duration) *RedisProgress {
	return &RedisProgress{client: client, ttl: ttl}
}

func (r *RedisProgress) Set(ctx context.Context, jobID string, p Progress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	return r.client.Set(ctx, redisKeyPrefix+jobID, data, r.ttl).Err()
}

func (r *RedisProgress) Get(ctx context.Context, jobID string) (Progress, error) {
	data, err := r.client.Get(ctx, redisKeyPrefix+jobID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Progress{}, ErrUnknownJob
		}
		return Progress{}, err
	}

	var p Progress
	if err := json.Unmarshal(data, &p); err != nil {
		return Progress{}, fmt.Errorf("decode progress: %w", err)
	}
	return p, nil
}
