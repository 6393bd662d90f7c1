// Package cache provides memoization for tumor growth simulations.
// Caching speeds up sensitivity sweeps and gradient estimation, where
// the same patient case is simulated repeatedly under identical inputs.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"sync"

	"github.com/oncosim-xyz/go-oncosim/treatment"
	"github.com/oncosim-xyz/go-oncosim/tumor"
)

// Key identifies one simulation: the patient-adjusted model inputs,
// the therapy course and the horizon. Two keys with equal fields
// always produce the same trajectory.
type Key struct {
	Age          int
	PackYears    float64
	Diet         string
	Genetic      float64
	Sensitive    float64
	Resistant    float64
	Capacity     float64
	Days         int
	Config       tumor.Config
	Treatment    *treatment.Treatment
	TreatmentDay float64
}

// fingerprint produces a deterministic hash of the key.
func (k Key) fingerprint() string {
	h := sha256.New()
	buf := make([]byte, 8)
	writeFloat := func(v float64) {
		binary.BigEndian.PutUint64(buf, math.Float64bits(v))
		h.Write(buf)
	}

	binary.BigEndian.PutUint64(buf, uint64(k.Age))
	h.Write(buf)
	writeFloat(k.PackYears)
	h.Write([]byte(k.Diet))
	writeFloat(k.Genetic)
	writeFloat(k.Sensitive)
	writeFloat(k.Resistant)
	writeFloat(k.Capacity)
	binary.BigEndian.PutUint64(buf, uint64(k.Days))
	h.Write(buf)
	writeFloat(k.Config.CapacityBase)
	writeFloat(k.Config.SensitiveRate)
	writeFloat(k.Config.ResistantRate)
	writeFloat(k.Config.MutationRate)
	writeFloat(k.Config.StepSize)

	if k.Treatment != nil {
		h.Write([]byte(k.Treatment.Kind.Code()))
		writeFloat(k.Treatment.MaxEfficacy)
		writeFloat(k.Treatment.CycleDays)
		writeFloat(k.Treatment.AccumulationRate)
		writeFloat(k.Treatment.ActiveDays)
		writeFloat(k.Treatment.RestEfficacy)
		writeFloat(k.Treatment.ActivationRate)
		writeFloat(k.Treatment.RemovalFraction)
		writeFloat(k.Treatment.SurgeryDay)
		writeFloat(k.TreatmentDay)
	}

	return string(h.Sum(nil))
}

// TrajectoryCache caches simulated trajectories keyed by their inputs.
type TrajectoryCache struct {
	mu        sync.RWMutex
	cache     map[string][]tumor.DayPoint
	maxSize   int
	hits      int64
	misses    int64
	evictions int64
}

// NewTrajectoryCache creates a cache with the specified maximum size.
// When the cache is full a random entry is evicted. Set maxSize to 0
// for an unbounded cache.
func NewTrajectoryCache(maxSize int) *TrajectoryCache {
	return &TrajectoryCache{
		cache:   make(map[string][]tumor.DayPoint),
		maxSize: maxSize,
	}
}

// Get retrieves a cached trajectory. Returns nil if not found.
func (c *TrajectoryCache) Get(key Key) []tumor.DayPoint {
	fp := key.fingerprint()

	c.mu.Lock()
	defer c.mu.Unlock()

	if traj, ok := c.cache[fp]; ok {
		c.hits++
		return traj
	}
	c.misses++
	return nil
}

// Put stores a trajectory.
func (c *TrajectoryCache) Put(key Key, traj []tumor.DayPoint) {
	fp := key.fingerprint()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxSize > 0 && len(c.cache) >= c.maxSize {
		for k := range c.cache {
			delete(c.cache, k)
			c.evictions++
			break
		}
	}

	c.cache[fp] = traj
}

// GetOrCompute retrieves from the cache or computes, caches and
// returns the result. The compute error is never cached.
func (c *TrajectoryCache) GetOrCompute(key Key, compute func() ([]tumor.DayPoint, error)) ([]tumor.DayPoint, error) {
	if traj := c.Get(key); traj != nil {
		return traj, nil
	}

	traj, err := compute()
	if err != nil {
		return nil, err
	}
	c.Put(key, traj)
	return traj, nil
}

// Clear removes all entries.
func (c *TrajectoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string][]tumor.DayPoint)
}

// Size returns the current number of cached trajectories.
func (c *TrajectoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Stats holds cache statistics.
type Stats struct {
	Size      int
	MaxSize   int
	Hits      int64
	Misses    int64
	Evictions int64
	HitRate   float64
}

// Stats returns cache statistics.
func (c *TrajectoryCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.hits + c.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}

	return Stats{
		Size:      len(c.cache),
		MaxSize:   c.maxSize,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		HitRate:   hitRate,
	}
}
