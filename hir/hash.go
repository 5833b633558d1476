package hir

import (
	"encoding/binary"
	"sort"

	"github.com/minio/highwayhash"
)

// dependencyHashKey is a fixed 32-byte key, matching highwayhash's Key
// requirement; it only needs to be stable across a single process run
// (idempotence comparisons never cross a process boundary).
var dependencyHashKey = []byte("reactprune-scope-dependency-hash")

// DependencyHash returns a stable, order-independent hash of the
// scope's dependency set, so idempotence tests can hash every
// surviving scope's dependency set before and after a second run of
// the pass and compare.
func (s *ReactiveScope) DependencyHash() (uint64, error) {
	sorted := append([]IdentifierId(nil), s.Dependencies...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	h, err := highwayhash.New64(dependencyHashKey)
	if err != nil {
		return 0, err
	}
	buf := make([]byte, 8)
	for _, id := range sorted {
		binary.LittleEndian.PutUint64(buf, uint64(id))
		if _, err := h.Write(buf); err != nil {
			return 0, err
		}
	}
	return h.Sum64(), nil
}
