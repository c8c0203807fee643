// Package redop implements the Reduce simulator of §4.F: lifting a
// derivable value (here, a kre.KRESet) into an object that walks the
// reduction graph, producing direct and further-reducible transitions at
// each step.
package redop

import (
	"github.com/nihei9/lrgrep/internal/kre"
	"github.com/nihei9/lrgrep/internal/lr1"
)

// Cache memoizes kre.DeriveReduce by KRESet key (§4.G "Caching layer": "A
// Cache wrapper memoizes derive for any derivable; used for KRESet passed
// into Reduce_op, since the same set is derived along many reduction-graph
// paths"). This implementation is specialized to kre.KRESet, the only
// derivable type this compiler needs.
type Cache struct {
	idx  *lr1.Index
	memo map[string]kre.DeriveReduceResult
}

// NewCache returns an empty cache over idx.
func NewCache(idx *lr1.Index) *Cache {
	return &Cache{idx: idx, memo: map[string]kre.DeriveReduceResult{}}
}

// Derive returns kre.DeriveReduce(d), computing it once per distinct key.
func (c *Cache) Derive(d kre.KRESet) kre.DeriveReduceResult {
	key := d.Key()
	if r, ok := c.memo[key]; ok {
		return r
	}
	r := kre.DeriveReduce(c.idx, d)
	c.memo[key] = r
	return r
}
