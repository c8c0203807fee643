package kre

import (
	"fmt"

	"github.com/cnf/structhash"
)

// mustHash computes a structural identity string for a plain data value.
// RE and KRE nodes are immutable once built, so their content fully
// determines identity: two structurally equal nodes built from separate
// allocations must compare equal (§9: nodes are shared via structural
// hashing, not pointer identity, so the Star cycle-guard in prederive can
// recognize a node it has already expanded).
func mustHash(v interface{}) string {
	h, err := structhash.Hash(v, 1)
	if err != nil {
		panic(fmt.Sprintf("kre: structural hash failed on %#v: %v", v, err))
	}
	return h
}
