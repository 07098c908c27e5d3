// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringbuf

// Options configures ring creation.
type Options struct {
	// Capacity (must be a power of two unless round is set)
	capacity int

	// Round capacity up to the next power of 2 instead of rejecting it
	round bool
}

// Builder creates rings with fluent configuration.
//
// Example:
//
//	// Exact power-of-two capacity
//	r := ringbuf.Build[Event](ringbuf.New(1024))
//
//	// Arbitrary capacity, rounded up
//	r := ringbuf.Build[Event](ringbuf.New(1000).RoundCapacity())  // 1024 slots
//
//	// Indirect ring for pool indices
//	fl := ringbuf.New(4096).BuildIndirect()
type Builder struct {
	opts Options
}

// New creates a ring builder with the given capacity.
//
// By default the capacity must be a power of two, minimum 2; Build panics
// otherwise, same as the direct constructors. Chain [Builder.RoundCapacity]
// to round arbitrary sizes up to the next power of 2 instead.
//
// Panics if capacity < 2.
func New(capacity int) *Builder {
	if capacity < 2 {
		panic("ringbuf: capacity must be >= 2")
	}
	return &Builder{opts: Options{capacity: capacity}}
}

// RoundCapacity rounds the capacity up to the next power of 2 at build time
// instead of rejecting non-power-of-two values.
//
// For example, capacity=1000 results in 1024 slots.
func (b *Builder) RoundCapacity() *Builder {
	b.opts.round = true
	return b
}

func (b *Builder) buildCap() int {
	if b.opts.round {
		return roundToPow2(b.opts.capacity)
	}
	return b.opts.capacity
}

// Build creates a generic [Ring] for elements of type T.
func Build[T any](b *Builder) *Ring[T] {
	return NewRing[T](b.buildCap())
}

// BuildIndirect creates a [RingIndirect] for uintptr values.
func (b *Builder) BuildIndirect() *RingIndirect {
	return NewRingIndirect(b.buildCap())
}

// BuildPtr creates a [RingPtr] for unsafe.Pointer values.
func (b *Builder) BuildPtr() *RingPtr {
	return NewRingPtr(b.buildCap())
}

// validateCap rejects capacities that are not a power of two or below the
// minimum. The check happens before any instance exists; a failure is a
// configuration error, not a runtime queue error.
func validateCap(capacity int) uint64 {
	if capacity < 2 || capacity&(capacity-1) != 0 {
		panic("ringbuf: capacity must be a power of two, minimum 2")
	}
	return uint64(capacity)
}

// roundToPow2 rounds n up to the next power of 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// pad is cache line padding to prevent false sharing.
type pad [64]byte

// padShort is padding to fill cache line after 8-byte field.
type padShort [64 - 8]byte
