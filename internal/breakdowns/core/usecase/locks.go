package usecase

import (
	"hash/fnv"
	"sync"
)

const lockStripes = 64

// insightLocks serializes read-modify-emit per insight. Distinct insights
// may share a stripe, which only costs some parallelism.
type insightLocks struct {
	stripes [lockStripes]sync.Mutex
}

func (l *insightLocks) lock(insightID string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(insightID))
	m := &l.stripes[h.Sum32()%lockStripes]
	m.Lock()
	return m.Unlock
}
