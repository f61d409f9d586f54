package readstate

import (
	"strconv"
	"sync"
)

// BadgeCap là ngưỡng hiển thị "99+"
const BadgeCap = 99

// Snapshot là trạng thái badge tại một thời điểm
type Snapshot struct {
	Count  int    `json:"count"`
	HasNew bool   `json:"has_new"`
	Badge  string `json:"badge"`
}

// Counter là state machine ba input: seed, increment, reset.
// Không bao giờ là authority; cột is_read mới là authority.
type Counter struct {
	mu     sync.Mutex
	count  int
	hasNew bool
}

func NewCounter() *Counter {
	return &Counter{}
}

// Seed đặt count từ bootstrap query
func (c *Counter) Seed(n int) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 0 {
		n = 0
	}
	c.count = n
	c.hasNew = false
	return c.snapshotLocked()
}

// Increment áp dụng một insert event
func (c *Counter) Increment() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
	c.hasNew = true
	return c.snapshotLocked()
}

// Reset áp dụng drain (optimistic)
func (c *Counter) Reset() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count = 0
	c.hasNew = false
	return c.snapshotLocked()
}

func (c *Counter) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Counter) snapshotLocked() Snapshot {
	return Snapshot{Count: c.count, HasNew: c.hasNew, Badge: BadgeText(c.count)}
}

// BadgeText: rỗng khi 0, "99+" khi vượt cap
func BadgeText(n int) string {
	switch {
	case n <= 0:
		return ""
	case n > BadgeCap:
		return strconv.Itoa(BadgeCap) + "+"
	default:
		return strconv.Itoa(n)
	}
}
