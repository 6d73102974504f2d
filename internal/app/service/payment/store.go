package payment

import (
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// shard owns a slice of the session id space. live holds sessions awaiting
// settlement; settled keeps settled sessions until their original expiry so a
// repeated verify can return the stored result.
type shard struct {
	mu      sync.Mutex
	live    map[string]*Session
	settled map[string]*Session
}

type store struct {
	shards []*shard
}

func newStore(n int) *store {
	if n <= 0 {
		n = 1
	}
	s := &store{shards: make([]*shard, n)}
	for i := range s.shards {
		s.shards[i] = &shard{
			live:    make(map[string]*Session),
			settled: make(map[string]*Session),
		}
	}
	return s
}

func (s *store) shardFor(id string) *shard {
	return s.shards[xxhash.Sum64String(id)%uint64(len(s.shards))]
}

// has reports whether id is taken by a live or settled session. Caller holds mu.
func (sh *shard) has(id string) bool {
	_, live := sh.live[id]
	_, settled := sh.settled[id]
	return live || settled
}

// evictExpired drops expired entries and returns how many live sessions were evicted.
func (sh *shard) evictExpired(now time.Time) int {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	n := 0
	for id, sess := range sh.live {
		if sess.expired(now) {
			delete(sh.live, id)
			n++
		}
	}
	for id, sess := range sh.settled {
		if sess.expired(now) {
			delete(sh.settled, id)
		}
	}
	return n
}

func (s *store) liveCount() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		n += len(sh.live)
		sh.mu.Unlock()
	}
	return n
}
