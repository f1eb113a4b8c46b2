package pipeline

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned by RingBuffer.At for indices past the live data.
var ErrIndexOutOfRange = errors.New("ring buffer index out of range")

// RingBuffer is a fixed-capacity circular store of complex samples that sits
// between the FM stage (producer) and the interpolator (consumer).
//
// Inserting into a full buffer overwrites the oldest sample. The buffer never
// grows and is not safe for concurrent use: a modulation run owns it and
// alternates produce, drain, remove.
type RingBuffer struct {
	data     []complex64
	capacity int
	size     int
	readPos  int
	writePos int
}

// NewRingBuffer creates a new ring buffer with the specified capacity.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity < 1 {
		capacity = 1
	}

	return &RingBuffer{
		data:     make([]complex64, capacity),
		capacity: capacity,
	}
}

// Insert appends one sample. When the buffer is full the oldest sample is
// dropped by advancing the read cursor.
func (b *RingBuffer) Insert(sample complex64) {
	b.data[b.writePos] = sample
	b.writePos = (b.writePos + 1) % b.capacity

	if b.size < b.capacity {
		b.size++
		return
	}
	b.readPos = (b.readPos + 1) % b.capacity
}

// Remove discards up to n samples from the read side.
func (b *RingBuffer) Remove(n int) {
	if n <= 0 {
		return
	}
	n = min(n, b.size)
	b.readPos = (b.readPos + n) % b.capacity
	b.size -= n
}

// At returns the sample i positions after the read cursor.
func (b *RingBuffer) At(i int) (complex64, error) {
	if i < 0 || i >= b.size {
		return 0, fmt.Errorf("%w: index %d, size %d", ErrIndexOutOfRange, i, b.size)
	}
	return b.data[(b.readPos+i)%b.capacity], nil
}

// ReadAvailable returns the number of samples available for reading.
func (b *RingBuffer) ReadAvailable() int {
	return b.size
}

// WriteAvailable returns how many samples fit before the oldest is overwritten.
func (b *RingBuffer) WriteAvailable() int {
	return b.capacity - b.size
}

// Capacity returns the fixed buffer capacity.
func (b *RingBuffer) Capacity() int {
	return b.capacity
}

// Clear removes all samples from the buffer.
func (b *RingBuffer) Clear() {
	b.size = 0
	b.readPos = 0
	b.writePos = 0
}

// CopyTo splits the live samples, oldest first, into re and im, which must
// each hold at least ReadAvailable values. It returns the number copied.
func (b *RingBuffer) CopyTo(re, im []float64) int {
	n := b.size
	first := min(n, b.capacity-b.readPos)

	for i, s := range b.data[b.readPos : b.readPos+first] {
		re[i] = float64(real(s))
		im[i] = float64(imag(s))
	}
	for i, s := range b.data[:n-first] {
		re[first+i] = float64(real(s))
		im[first+i] = float64(imag(s))
	}
	return n
}
