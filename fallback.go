/*
Copyright © 2026 the CarbSys authors.
This file is part of CarbSys.

CarbSys is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

CarbSys is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with CarbSys.  If not, see <http://www.gnu.org/licenses/>.
*/

package carbsys

import (
	"sync"

	"github.com/golang/groupcache/lru"
)

// FallbackStatus describes how FallbackCache.Resolve treated a result.
type FallbackStatus int

const (
	// Fresh means the result converged and was stored.
	Fresh FallbackStatus = iota
	// Reused means the result did not converge and the last converged
	// result for the point was returned in its place.
	Reused
	// Missing means the result did not converge and no converged result
	// has been stored for the point.
	Missing
)

func (s FallbackStatus) String() string {
	switch s {
	case Fresh:
		return "fresh"
	case Reused:
		return "reused"
	}
	return "missing"
}

// FallbackCache keeps the last converged Result for each spatial point so
// that a caller running many time steps can substitute it when a solve
// fails. It is safe for concurrent use.
type FallbackCache struct {
	mu    sync.Mutex
	cache *lru.Cache
}

// NewFallbackCache returns a cache holding at most maxEntries points, or
// any number of points if maxEntries is zero. The least recently used
// point is evicted first.
func NewFallbackCache(maxEntries int) *FallbackCache {
	return &FallbackCache{cache: lru.New(maxEntries)}
}

// Resolve stores r for point if it converged. Otherwise it returns the last
// converged result for point, or r unchanged if there is none.
func (fc *FallbackCache) Resolve(point int, r Result) (Result, FallbackStatus) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if r.Converged {
		fc.cache.Add(point, r)
		return r, Fresh
	}
	if prev, ok := fc.cache.Get(point); ok {
		return prev.(Result), Reused
	}
	return r, Missing
}

// Len returns the number of points held.
func (fc *FallbackCache) Len() int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.cache.Len()
}
