package deliverylog

import "sync"

// ringBuffer is a bounded FIFO. When full, the oldest record is dropped to
// make room for the newest.
type ringBuffer struct {
	mu       sync.Mutex
	records  []Record
	head     int // next write position
	tail     int // next read position
	count    int
	capacity int
	dropped  int64
}

func newRingBuffer(capacity int) *ringBuffer {
	if capacity <= 0 {
		capacity = defaultBufferSize
	}
	return &ringBuffer{
		records:  make([]Record, capacity),
		capacity: capacity,
	}
}

// enqueue adds r and reports whether an older record was evicted.
func (b *ringBuffer) enqueue(r Record) (evicted bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count >= b.capacity {
		b.tail = (b.tail + 1) % b.capacity
		b.count--
		b.dropped++
		evicted = true
	}
	b.records[b.head] = r
	b.head = (b.head + 1) % b.capacity
	b.count++
	return evicted
}

// dequeueBatch removes up to n records, oldest first.
func (b *ringBuffer) dequeueBatch(n int) []Record {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count == 0 {
		return nil
	}
	if n > b.count {
		n = b.count
	}
	out := make([]Record, n)
	for i := range n {
		out[i] = b.records[b.tail]
		b.records[b.tail] = Record{}
		b.tail = (b.tail + 1) % b.capacity
	}
	b.count -= n
	return out
}

func (b *ringBuffer) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

func (b *ringBuffer) droppedTotal() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}
