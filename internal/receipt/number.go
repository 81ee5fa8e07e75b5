package receipt

import (
	"strconv"
	"sync"
	"time"
)

// numberClock emite receipt numbers REC<unix-millis> estrictamente crecientes
// dentro del proceso. Entre procesos la unicidad la garantiza el store.
type numberClock struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func newNumberClock(now func() time.Time) *numberClock {
	if now == nil {
		now = time.Now
	}
	return &numberClock{now: now}
}

// Next retorna el próximo número.
func (c *numberClock) Next() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ms := c.now().UnixMilli()
	if ms <= c.last {
		ms = c.last + 1
	}
	c.last = ms
	return "REC" + strconv.FormatInt(ms, 10)
}
