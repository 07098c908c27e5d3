// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringbuf

import (
	"unsafe"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// RingPtr is a ring for unsafe.Pointer values.
// Useful for zero-copy pointer passing between goroutines: the producer
// transfers ownership of the pointed-to object to the consumer.
//
// Same cursor protocol and sentinel slot as [Ring]; usable capacity is
// Cap()-1.
type RingPtr struct {
	_     pad
	tail  atomix.Uint64 // Write cursor, in [0, n)
	_     pad
	head  atomix.Uint64 // Read cursor, in [0, n)
	_     pad
	slots []ringPtrSlot
	mask  uint64
}

type ringPtrSlot struct {
	gate atomix.Uint64
	data unsafe.Pointer
	_    padShort // Pad to cache line
}

// NewRingPtr creates a new ring for unsafe.Pointer values.
// Capacity must be a power of two, minimum 2; any other value panics.
func NewRingPtr(capacity int) *RingPtr {
	n := validateCap(capacity)
	return &RingPtr{
		slots: make([]ringPtrSlot, n),
		mask:  n - 1,
	}
}

// Enqueue adds a pointer to the ring (non-blocking).
// Returns ErrWouldBlock if the ring is full.
// Ownership of the pointed-to object transfers to the eventual consumer.
func (r *RingPtr) Enqueue(elem unsafe.Pointer) error {
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
			for slot.gate.LoadAcquire() != slotEmpty {
				sw.Once()
			}
			slot.data = elem
			slot.gate.StoreRelease(slotFull)
			return nil
		}
		sw.Once()
	}
}

// Dequeue removes and returns a pointer from the ring (non-blocking).
// Returns (nil, ErrWouldBlock) if the ring is empty.
func (r *RingPtr) Dequeue() (unsafe.Pointer, error) {
	sw := spin.Wait{}
	for {
		head := r.head.LoadRelaxed()
		tail := r.tail.LoadAcquire()

		if head == tail {
			return nil, ErrWouldBlock
		}

		if r.head.CompareAndSwapAcqRel(head, (head+1)&r.mask) {
			slot := &r.slots[head&r.mask]
			for slot.gate.LoadAcquire() != slotFull {
				sw.Once()
			}
			elem := slot.data
			slot.data = nil // Allow GC of the referenced object
			slot.gate.StoreRelease(slotEmpty)
			return elem, nil
		}
		sw.Once()
	}
}

// Cap returns the physical slot count. One slot is a sentinel, so the
// maximum number of resident pointers is Cap()-1.
func (r *RingPtr) Cap() int {
	return int(r.mask + 1)
}
