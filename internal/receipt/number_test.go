package receipt

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNumberClock_StrictlyIncreasing(t *testing.T) {
	fixed := time.UnixMilli(1700000000000)
	c := newNumberClock(func() time.Time { return fixed })

	a, b := c.Next(), c.Next()
	if a != "REC1700000000000" || b != "REC1700000000001" {
		t.Fatalf("got %s, %s", a, b)
	}
}

func TestNumberClock_ConcurrentDistinct(t *testing.T) {
	c := newNumberClock(nil)
	var (
		mu   sync.Mutex
		seen = map[string]bool{}
		wg   sync.WaitGroup
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n := c.Next()
			mu.Lock()
			defer mu.Unlock()
			if seen[n] {
				t.Errorf("duplicate number %s", n)
			}
			seen[n] = true
		}()
	}
	wg.Wait()
	for n := range seen {
		if !strings.HasPrefix(n, "REC") {
			t.Fatalf("bad prefix: %s", n)
		}
	}
}
