package ids

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	ulidEntropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	ulidEntropyMu sync.Mutex
)

// New returns a lexically sortable id for bets, rounds and chat lines.
func New() string {
	return NewAt(time.Now())
}

func NewAt(ts time.Time) string {
	ulidEntropyMu.Lock()
	defer ulidEntropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(ts), ulidEntropy).String()
}

// Prefixed returns prefix + "_" + New(), e.g. "bet_01J...".
func Prefixed(prefix string) string {
	return prefix + "_" + New()
}
