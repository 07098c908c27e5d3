// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringbuf

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Slot gate values. A slot's gate hands the payload off between the
// producer and consumer that reserved it: the cursor CAS grants exclusive
// access to the slot, the gate release-store publishes the payload.
const (
	slotEmpty = 0
	slotFull  = 1
)

// Ring is a fixed-capacity lock-free circular queue.
//
// Both cursors stay in [0, n) and advance with a bitmask, so the structure
// keeps one sentinel slot: full is (tail+1)&mask == head, empty is
// tail == head, and at most n-1 elements are resident at once.
//
// Enqueue and Dequeue never block. ErrWouldBlock signals full/empty and the
// caller decides the retry policy.
//
// Safe for any number of producer and consumer goroutines. A goroutine may
// access a slot's payload only between winning the cursor CAS that reserves
// that slot and releasing the slot's gate; no two goroutines hold a
// reservation for the same slot index within one cursor cycle.
//
// Memory: n slots (16+ bytes per slot)
type Ring[T any] struct {
	_     pad
	tail  atomix.Uint64 // Write cursor, in [0, n)
	_     pad
	head  atomix.Uint64 // Read cursor, in [0, n)
	_     pad
	slots []ringSlot[T]
	mask  uint64
}

type ringSlot[T any] struct {
	gate atomix.Uint64
	data T
	_    padShort // Pad to cache line
}

// NewRing creates a new ring with the given capacity.
//
// Capacity must be a power of two, minimum 2; any other value panics before
// an instance exists. One slot is reserved as a sentinel, so the ring holds
// at most capacity-1 elements. Use the builder's RoundCapacity to round
// arbitrary sizes up instead.
func NewRing[T any](capacity int) *Ring[T] {
	n := validateCap(capacity)
	return &Ring[T]{
		slots: make([]ringSlot[T], n),
		mask:  n - 1,
	}
}

// Enqueue adds an element to the ring (non-blocking).
// The element is copied into the reserved slot.
// Returns ErrWouldBlock if the ring is full.
func (r *Ring[T]) Enqueue(elem *T) error {
	sw := spin.Wait{}
	for {
		tail := r.tail.LoadRelaxed()
		head := r.head.LoadAcquire()
		next := (tail + 1) & r.mask

		if next == head {
			return ErrWouldBlock
		}

		if r.tail.CompareAndSwapAcqRel(tail, next) {
			slot := &r.slots[tail&r.mask]
			// The previous-cycle consumer of this slot may still be
			// draining it; its gate release is the handoff.
			for slot.gate.LoadAcquire() != slotEmpty {
				sw.Once()
			}
			slot.data = *elem
			slot.gate.StoreRelease(slotFull)
			return nil
		}
		sw.Once()
	}
}

// Dequeue removes and returns an element from the ring (non-blocking).
// Returns (zero-value, ErrWouldBlock) if the ring is empty.
func (r *Ring[T]) Dequeue() (T, error) {
	sw := spin.Wait{}
	for {
		head := r.head.LoadRelaxed()
		tail := r.tail.LoadAcquire()

		if head == tail {
			var zero T
			return zero, ErrWouldBlock
		}

		if r.head.CompareAndSwapAcqRel(head, (head+1)&r.mask) {
			slot := &r.slots[head&r.mask]
			// The producer that reserved this slot may not have
			// published the payload yet.
			for slot.gate.LoadAcquire() != slotFull {
				sw.Once()
			}
			elem := slot.data
			var zero T
			slot.data = zero // Allow GC of referenced objects
			slot.gate.StoreRelease(slotEmpty)
			return elem, nil
		}
		sw.Once()
	}
}

// Cap returns the physical slot count. One slot is a sentinel, so the
// maximum number of resident elements is Cap()-1.
func (r *Ring[T]) Cap() int {
	return int(r.mask + 1)
}
