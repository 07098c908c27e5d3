// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringbuf

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// emptyFlag marks a slot as empty. Filled slots store the value directly,
// so values are limited to 63 bits.
const emptyFlag = 1 << 63

// RingIndirect is a ring for uintptr values.
//
// Slots are a single atomic word each: empty slots store emptyFlag, filled
// slots store the value. This achieves 8 bytes per slot while allowing any
// 63-bit value (including zero) to be enqueued.
//
// Same cursor protocol and sentinel slot as [Ring]; usable capacity is
// Cap()-1.
//
// Memory: 8 bytes per slot
type RingIndirect struct {
	_     pad
	tail  atomix.Uint64 // Write cursor, in [0, n)
	_     pad
	head  atomix.Uint64 // Read cursor, in [0, n)
	_     pad
	slots []atomix.Uintptr
	mask  uint64
}

// NewRingIndirect creates a new ring for uintptr values.
// Capacity must be a power of two, minimum 2; any other value panics.
// Values are limited to 63 bits (high bit reserved for the empty flag).
func NewRingIndirect(capacity int) *RingIndirect {
	n := validateCap(capacity)
	r := &RingIndirect{
		slots: make([]atomix.Uintptr, n),
		mask:  n - 1,
	}

	for i := range r.slots {
		r.slots[i].StoreRelaxed(emptyFlag)
	}

	return r
}

// Enqueue adds a value to the ring (non-blocking).
// Returns ErrWouldBlock if the ring is full.
// Values must fit in 63 bits (high bit must be 0).
func (r *RingIndirect) Enqueue(elem uintptr) error {
	if elem&emptyFlag != 0 {
		panic("ringbuf: value exceeds 63 bits")
	}

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
			for slot.LoadAcquire()&emptyFlag == 0 {
				sw.Once()
			}
			slot.StoreRelease(elem)
			return nil
		}
		sw.Once()
	}
}

// Dequeue removes and returns a value from the ring (non-blocking).
// Returns (0, ErrWouldBlock) if the ring is empty.
func (r *RingIndirect) Dequeue() (uintptr, error) {
	sw := spin.Wait{}
	for {
		head := r.head.LoadRelaxed()
		tail := r.tail.LoadAcquire()

		if head == tail {
			return 0, ErrWouldBlock
		}

		if r.head.CompareAndSwapAcqRel(head, (head+1)&r.mask) {
			slot := &r.slots[head&r.mask]
			var elem uintptr
			for {
				elem = slot.LoadAcquire()
				if elem&emptyFlag == 0 {
					break
				}
				sw.Once()
			}
			slot.StoreRelease(emptyFlag)
			return elem, nil
		}
		sw.Once()
	}
}

// Cap returns the physical slot count. One slot is a sentinel, so the
// maximum number of resident values is Cap()-1.
func (r *RingIndirect) Cap() int {
	return int(r.mask + 1)
}
