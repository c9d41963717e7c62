package slug

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugger_Make(t *testing.T) {
	fixed := time.UnixMilli(1700000000000)
	s := &Slugger{now: func() time.Time { return fixed }}

	tests := []struct {
		title string
		want  string
	}{
		{title: "Mastering React Server Components", want: "mastering-react-server-components-1700000000000"},
		{title: "Hello, World!", want: "hello-world-1700000000001"},
		{title: "!!!", want: "post-1700000000002"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Make(tt.title))
		})
	}
}

func TestSlugger_ConcurrentUnique(t *testing.T) {
	s := New()
	pattern := regexp.MustCompile(`^same-title-\d+$`)

	var (
		mu   sync.Mutex
		seen = map[string]bool{}
		wg   sync.WaitGroup
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := s.Make("Same Title")
			mu.Lock()
			defer mu.Unlock()
			seen[got] = true
		}()
	}
	wg.Wait()

	require.Len(t, seen, 50)
	for k := range seen {
		assert.Regexp(t, pattern, k)
	}
}
