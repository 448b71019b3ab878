package store

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/saadjs/kcal-balance/internal/model"
)

const snapshotKey = "snapshot"

// Cached serves LoadAll from memory until the next successful write through
// it, or until ttl expires.
type Cached struct {
	inner Store
	cache *gocache.Cache
}

func NewCached(inner Store, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &Cached{
		inner: inner,
		cache: gocache.New(ttl, 10*time.Minute),
	}
}

func (c *Cached) Append(rec model.Record) (model.Record, error) {
	out, err := c.inner.Append(rec)
	if err != nil {
		return out, err
	}
	c.Invalidate()
	return out, nil
}

// AppendAll invalidates even on error since part of the batch may have been
// written.
func (c *Cached) AppendAll(records []model.Record) ([]model.Record, error) {
	defer c.Invalidate()
	return AppendAll(c.inner, records)
}

func (c *Cached) LoadAll() ([]model.Record, error) {
	if v, ok := c.cache.Get(snapshotKey); ok {
		return cloneRecords(v.([]model.Record)), nil
	}
	records, err := c.inner.LoadAll()
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(snapshotKey, cloneRecords(records))
	return records, nil
}

func (c *Cached) DeleteAt(index int) error {
	if err := c.inner.DeleteAt(index); err != nil {
		return err
	}
	c.Invalidate()
	return nil
}

func (c *Cached) DeleteByID(id string) error {
	if err := c.inner.DeleteByID(id); err != nil {
		return err
	}
	c.Invalidate()
	return nil
}

func (c *Cached) Invalidate() {
	c.cache.Delete(snapshotKey)
}

func (c *Cached) Close() error {
	c.cache.Flush()
	return c.inner.Close()
}

func cloneRecords(in []model.Record) []model.Record {
	out := make([]model.Record, len(in))
	copy(out, in)
	return out
}
