package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

const (
	defaultCacheTTL     = time.Hour
	defaultCacheTimeout = 5 * time.Second
)

var (
	errCacheKeyRequired   = errors.New("cache key is required")
	errCacheValueRequired = errors.New("cache value is required")
)

type KeyType interface {
	string | uuid.UUID
}

// CacheBuilder assembles a single valkey command. Keys are "<hash>:<key>" when
// a hash prefix is set. Values are JSON unless set raw with WithValue.
type CacheBuilder struct {
	cache   valkey.Client
	key     string
	value   string
	ttl     time.Duration
	ctx     context.Context
	timeout time.Duration
	err     error
}

func NewCacheBuilder[K KeyType](cache valkey.Client, key K) *CacheBuilder {
	builder := &CacheBuilder{
		cache:   cache,
		ttl:     defaultCacheTTL,
		timeout: defaultCacheTimeout,
		ctx:     context.Background(),
	}

	switch k := any(key).(type) {
	case string:
		builder.key = k
	case uuid.UUID:
		builder.key = k.String()
	}

	return builder
}

func (cb *CacheBuilder) WithValue(value string) *CacheBuilder {
	cb.value = value
	return cb
}

func (cb *CacheBuilder) WithStruct(value any) *CacheBuilder {
	encoded, err := json.Marshal(value)
	if err != nil {
		cb.err = fmt.Errorf("encode cache value for %q: %w", cb.key, err)
		return cb
	}
	cb.value = string(encoded)
	return cb
}

func (cb *CacheBuilder) WithHash(hash string) *CacheBuilder {
	if hash != "" {
		cb.key = hash + ":" + cb.key
	}
	return cb
}

func (cb *CacheBuilder) WithTTL(ttl time.Duration) *CacheBuilder {
	cb.ttl = ttl
	return cb
}

func (cb *CacheBuilder) WithContext(ctx context.Context) *CacheBuilder {
	cb.ctx = ctx
	return cb
}

func (cb *CacheBuilder) Key() string {
	return cb.key
}

func (cb *CacheBuilder) ready() error {
	if cb.err != nil {
		return cb.err
	}
	if cb.key == "" {
		return errCacheKeyRequired
	}
	return nil
}

// do runs cmd under the builder's context, bounded by the default timeout
// unless the caller's deadline is already tighter.
func (cb *CacheBuilder) do(cmd valkey.Completed) valkey.ValkeyResult {
	ctx, cancel := cb.ctx, context.CancelFunc(func() {})
	if deadline, ok := cb.ctx.Deadline(); !ok || time.Until(deadline) > cb.timeout {
		ctx, cancel = context.WithTimeout(cb.ctx, cb.timeout)
	}
	defer cancel()

	return cb.cache.Do(ctx, cmd)
}

func (cb *CacheBuilder) Set() error {
	if err := cb.ready(); err != nil {
		return err
	}
	if cb.value == "" {
		return errCacheValueRequired
	}

	return cb.do(cb.cache.B().Set().Key(cb.key).Value(cb.value).Ex(cb.ttl).Build()).Error()
}

// SetNX writes only when the key is absent and reports whether it did. Used
// as a lease: the TTL bounds how long a crashed holder blocks others.
func (cb *CacheBuilder) SetNX() (bool, error) {
	if err := cb.ready(); err != nil {
		return false, err
	}
	if cb.value == "" {
		cb.value = "1"
	}

	err := cb.do(cb.cache.B().Set().Key(cb.key).Value(cb.value).Nx().Ex(cb.ttl).Build()).Error()
	switch {
	case valkey.IsValkeyNil(err):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

// Get decodes the cached JSON into result. A missing key is (false, nil).
func (cb *CacheBuilder) Get(result any) (bool, error) {
	if err := cb.ready(); err != nil {
		return false, err
	}

	data, err := cb.do(cb.cache.B().Get().Key(cb.key).Build()).AsBytes()
	switch {
	case valkey.IsValkeyNil(err):
		return false, nil
	case err != nil:
		return false, err
	case len(data) == 0:
		return false, nil
	}

	if err := json.Unmarshal(data, result); err != nil {
		return false, fmt.Errorf("decode cache value for %q: %w", cb.key, err)
	}
	return true, nil
}

func (cb *CacheBuilder) Delete() error {
	if err := cb.ready(); err != nil {
		return err
	}
	return cb.do(cb.cache.B().Del().Key(cb.key).Build()).Error()
}
