package order

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBloomMinter_Format(t *testing.T) {
	m := NewBloomMinter(100)
	m.now = func() time.Time { return time.UnixMilli(1700000000123) }
	m.random = func() string { return "deadbeef" }

	assert.Equal(t, "sid-1-1700000000123-deadbeef", m.Mint("sid-1"))
}

func TestBloomMinter_RemintsOnHit(t *testing.T) {
	m := NewBloomMinter(100)
	m.now = func() time.Time { return time.UnixMilli(1) }
	suffixes := []string{"aaaa0000", "aaaa0000", "bbbb1111"}
	i := 0
	m.random = func() string {
		s := suffixes[i]
		i++
		return s
	}

	first := m.Mint("s")
	second := m.Mint("s")
	assert.Equal(t, "s-1-aaaa0000", first)
	assert.Equal(t, "s-1-bbbb1111", second)
	assert.Equal(t, 3, i)
}

func TestBloomMinter_ConcurrentUnique(t *testing.T) {
	m := NewBloomMinter(10_000)
	fixed := time.UnixMilli(42)
	m.now = func() time.Time { return fixed }

	const n = 500
	refs := make([]string, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			refs[i] = m.Mint("same-session")
		}()
	}
	wg.Wait()

	seen := make(map[string]struct{}, n)
	for _, r := range refs {
		require.True(t, strings.HasPrefix(r, "same-session-42-"))
		_, dup := seen[r]
		require.False(t, dup, "duplicate reference %s", r)
		seen[r] = struct{}{}
	}
}
