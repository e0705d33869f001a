package cache

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// MemoryCache implements Client in process. It backs single-instance deployments and tests.
type MemoryCache struct {
	data      map[string]*memoryItem
	mu        sync.RWMutex
	config    *Config
	logger    Logger
	stopCh    chan struct{}
	closeOnce sync.Once
}

type memoryItem struct {
	value     []byte
	expiresAt time.Time
	createdAt time.Time
}

func (i *memoryItem) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && !now.Before(i.expiresAt)
}

// NewMemoryCache creates a new in-memory cache instance
func NewMemoryCache(config *Config, logger Logger) *MemoryCache {
	setMemoryDefaults(config)
	cache := &MemoryCache{
		data:   make(map[string]*memoryItem),
		config: config,
		logger: logger,
		stopCh: make(chan struct{}),
	}
	go cache.cleanupExpired()
	return cache
}

func (m *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(m.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanup()
		case <-m.stopCh:
			return
		}
	}
}

func (m *MemoryCache) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	expired := 0
	for key, item := range m.data {
		if item.expired(now) {
			delete(m.data, key)
			expired++
		}
	}

	if expired > 0 && m.logger != nil {
		m.logger.Debugf("Cleaned up expired cache items: expired_count=%d", expired)
	}
}

func (m *MemoryCache) expiry(ttl time.Duration) time.Time {
	if ttl == 0 {
		ttl = m.config.DefaultTTL
	}
	if ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(ttl)
}

// evictOldest drops the oldest entry once MaxSize is reached. Caller holds the lock.
func (m *MemoryCache) evictOldest() {
	if m.config.MaxSize <= 0 || len(m.data) < m.config.MaxSize {
		return
	}
	var oldestKey string
	var oldest time.Time
	for key, item := range m.data {
		if oldestKey == "" || item.createdAt.Before(oldest) {
			oldestKey, oldest = key, item.createdAt
		}
	}
	delete(m.data, oldestKey)
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	item, exists := m.data[key]
	m.mu.RUnlock()

	if !exists || item.expired(time.Now()) {
		return nil, ErrKeyNotFound
	}

	result := make([]byte, len(item.value))
	copy(result, item.value)
	return result, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		return &Error{Operation: "set", Key: key, Err: ErrInvalidTTL}
	}
	stored := make([]byte, len(value))
	copy(stored, value)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.data[key]; !exists {
		m.evictOldest()
	}
	m.data[key] = &memoryItem{
		value:     stored,
		expiresAt: m.expiry(ttl),
		createdAt: time.Now(),
	}
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) Exists(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	item, exists := m.data[key]
	m.mu.RUnlock()
	return exists && !item.expired(time.Now()), nil
}

func (m *MemoryCache) Increment(_ context.Context, key string, delta int64, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	item, exists := m.data[key]
	if !exists || item.expired(now) {
		m.evictOldest()
		item = &memoryItem{value: []byte("0"), expiresAt: m.expiry(ttl), createdAt: now}
		m.data[key] = item
	}

	current, err := strconv.ParseInt(string(item.value), 10, 64)
	if err != nil {
		return 0, &Error{Operation: "increment", Key: key, Err: err}
	}
	current += delta
	item.value = []byte(strconv.FormatInt(current, 10))
	return current, nil
}

func (m *MemoryCache) GetTTL(_ context.Context, key string) (time.Duration, error) {
	m.mu.RLock()
	item, exists := m.data[key]
	m.mu.RUnlock()

	now := time.Now()
	if !exists || item.expired(now) {
		return 0, ErrKeyNotFound
	}
	if item.expiresAt.IsZero() {
		return -1, nil
	}
	return item.expiresAt.Sub(now), nil
}

func (m *MemoryCache) Close() error {
	m.closeOnce.Do(func() { close(m.stopCh) })
	return nil
}

func (m *MemoryCache) Ping(context.Context) error {
	return nil
}
