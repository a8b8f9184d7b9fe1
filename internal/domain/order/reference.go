package order

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/google/uuid"
)

const (
	minterCapacity = 1_000_000
	minterFPR      = 0.0001
	// maxMintAttempts bounds re-minting on filter hits. A hit may be a false
	// positive, so the last candidate is returned regardless.
	maxMintAttempts = 4
)

// Minter issues payment references.
type Minter interface {
	Mint(sessionKey string) string
}

// BloomMinter mints references of the form <sid>-<unixMillis>-<random hex>
// and remembers every reference it issued in a bloom filter, re-minting when a
// candidate was possibly issued before. The storage unique index on reference
// remains the final guarantee across processes.
type BloomMinter struct {
	mu     sync.Mutex
	filter *bloom.BloomFilter
	now    func() time.Time
	random func() string
}

var _ Minter = (*BloomMinter)(nil)

// NewBloomMinter creates a minter sized for capacity references.
func NewBloomMinter(capacity uint) *BloomMinter {
	if capacity == 0 {
		capacity = minterCapacity
	}
	return &BloomMinter{
		filter: bloom.NewWithEstimates(capacity, minterFPR),
		now:    time.Now,
		random: randomSuffix,
	}
}

// Mint returns a new reference for sessionKey.
func (m *BloomMinter) Mint(sessionKey string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var ref string
	for range maxMintAttempts {
		ref = formatReference(sessionKey, m.now(), m.random())
		if !m.filter.TestAndAddString(ref) {
			return ref
		}
	}
	return ref
}

func formatReference(sessionKey string, at time.Time, suffix string) string {
	var b strings.Builder
	b.Grow(len(sessionKey) + 32)
	b.WriteString(sessionKey)
	b.WriteByte('-')
	b.WriteString(strconv.FormatInt(at.UnixMilli(), 10))
	b.WriteByte('-')
	b.WriteString(suffix)
	return b.String()
}

func randomSuffix() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
