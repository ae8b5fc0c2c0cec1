package database

import (
	"context"
	"fmt"
	"time"

	"lunchlog/config"

	"github.com/valkey-io/valkey-go"
)

type CacheClient valkey.Client

// Cache holds one valkey client per logical database.
type Cache struct {
	General CacheClient // enrichment leases
	User    CacheClient // user records keyed by id and token subject
	Events  CacheClient // enrichment queue pub/sub
}

const (
	GENERAL_CACHE_INDEX = iota
	USER_CACHE_INDEX
	EVENTS_CACHE_INDEX
)

const cacheFlushTimeout = 5 * time.Second

type cacheSlot struct {
	index  int
	name   string
	client *CacheClient
}

func (c *Cache) slots() []cacheSlot {
	return []cacheSlot{
		{GENERAL_CACHE_INDEX, "general", &c.General},
		{USER_CACHE_INDEX, "user", &c.User},
		{EVENTS_CACHE_INDEX, "events", &c.Events},
	}
}

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")

	if config.DatabaseCacheAddress == "" || config.DatabaseCachePort == 0 {
		return log.Error("cache address or port is empty",
			"address", config.DatabaseCacheAddress, "port", config.DatabaseCachePort)
	}
	address := fmt.Sprintf("%s:%d", config.DatabaseCacheAddress, config.DatabaseCachePort)

	var cache Cache
	for _, slot := range cache.slots() {
		client, err := valkey.NewClient(valkey.ClientOption{
			InitAddress: []string{address},
			SelectDB:    slot.index,
		})
		if err != nil {
			cache.close()
			return log.Err("failed to connect valkey", err, "cache", slot.name, "address", address)
		}
		*slot.client = client
	}
	s.Cache = cache

	log.Info("Cache connected", "address", address)

	if config.DatabaseCacheReset != -1 {
		go func() {
			// flushCache logs its own failure.
			_ = s.flushCache(config.DatabaseCacheReset)
		}()
	}

	return nil
}

func (c *Cache) close() {
	for _, slot := range c.slots() {
		if *slot.client != nil {
			(*slot.client).Close()
		}
	}
}

func (s *DB) flushCache(index int) error {
	log := s.log.Function("flushCache")

	for _, slot := range s.Cache.slots() {
		if slot.index != index {
			continue
		}
		client := *slot.client
		if client == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), cacheFlushTimeout)
		defer cancel()

		if err := client.Do(ctx, client.B().Flushdb().Build()).Error(); err != nil {
			return log.Err("failed to flush cache", err, "cache", slot.name)
		}
		log.Info("Flushed cache", "cache", slot.name)
		return nil
	}

	return log.Error("unknown cache index", "index", index)
}

// FlushAllCaches clears every valkey database. A no-op without valkey.
func (s *DB) FlushAllCaches() error {
	if s.Cache.General == nil {
		return nil
	}
	for _, slot := range s.Cache.slots() {
		if err := s.flushCache(slot.index); err != nil {
			return err
		}
	}
	return nil
}
