// Package slug строит уникальные адреса постов: slugify(title) + "-" + метка времени в миллисекундах.
package slug

import (
	"strconv"
	"sync"
	"time"

	gosimple "github.com/gosimple/slug"
)

const fallback = "post"

// Slugger выдаёт слаги с монотонно возрастающим суффиксом, так что два поста
// с одинаковым заголовком, созданные в одну миллисекунду, получают разные слаги.
type Slugger struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// New создаёт Slugger на системных часах.
func New() *Slugger {
	return &Slugger{now: time.Now}
}

// Make возвращает слаг для заголовка.
func (s *Slugger) Make(title string) string {
	base := gosimple.Make(title)
	if base == "" {
		base = fallback
	}
	return base + "-" + strconv.FormatInt(s.next(), 10)
}

func (s *Slugger) next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ms := s.now().UnixMilli()
	if ms <= s.last {
		ms = s.last + 1
	}
	s.last = ms
	return ms
}
