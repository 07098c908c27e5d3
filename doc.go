// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ringbuf provides a fixed-capacity lock-free circular queue.
//
// The ring moves values between any number of producer and consumer
// goroutines without locks, blocking, or allocation after construction.
// Two atomic cursors (write and read) advance modulo the capacity via a
// bitmask; a compare-and-swap on the cursor reserves a slot, and a per-slot
// gate publishes the payload with release/acquire ordering.
//
// # Quick Start
//
//	r := ringbuf.NewRing[Event](1024)
//
//	// Enqueue (non-blocking)
//	ev := Event{...}
//	if err := r.Enqueue(&ev); err != nil {
//	    // Ring is full - handle backpressure
//	}
//
//	// Dequeue (non-blocking)
//	ev, err := r.Dequeue()
//	if err != nil {
//	    // Ring is empty - try again later
//	}
//
// # Capacity
//
// Capacity must be a power of two, minimum 2. The direct constructors panic
// on any other value; this is a configuration error caught before an
// instance exists, not a runtime condition. The builder can round instead:
//
//	r := ringbuf.NewRing[int](1024)                          // ok
//	r := ringbuf.NewRing[int](1000)                          // panics
//	r := ringbuf.Build[int](ringbuf.New(1000).RoundCapacity())  // 1024 slots
//
// One slot is reserved as a sentinel to keep "full" distinguishable from
// "empty", so a ring with n slots holds at most n-1 elements.
//
// Length is intentionally not provided because accurate counts in lock-free
// algorithms require expensive cross-core synchronization. Track counts in
// application logic when needed.
//
// # Ring Variants
//
// Three representations share the same algorithm:
//
//	NewRing[T]        - Generic type-safe ring for any type
//	NewRingIndirect   - Ring for uintptr values (pool indices, handles)
//	NewRingPtr        - Ring for unsafe.Pointer (zero-copy pointer passing)
//
// When to use Indirect:
//
//	// Buffer pool with index-based access.
//	// One slot is a sentinel, so size the ring above the pool.
//	pool := make([][]byte, 1024)
//	freeList := ringbuf.NewRingIndirect(2048)
//
//	for i := range pool {
//	    pool[i] = make([]byte, 4096)
//	    freeList.Enqueue(uintptr(i))
//	}
//
//	idx, err := freeList.Dequeue() // Allocate
//	buf := pool[idx]
//	freeList.Enqueue(idx)          // Free
//
// When to use Ptr:
//
//	q := ringbuf.NewRingPtr(1024)
//
//	// Producer creates object once
//	msg := &Message{Data: largePayload}
//	q.Enqueue(unsafe.Pointer(msg))
//
//	// Consumer receives same pointer - no copy
//	ptr, _ := q.Dequeue()
//	msg := (*Message)(ptr)
//
// # Error Handling
//
// Operations return [ErrWouldBlock] when they cannot proceed: Enqueue on a
// full ring, Dequeue on an empty one. Both are expected backpressure
// signals, not failures; the caller chooses the retry policy. This error is
// sourced from [code.hybscloud.com/iox] for ecosystem consistency.
//
//	backoff := iox.Backoff{}
//	for {
//	    err := r.Enqueue(&item)
//	    if err == nil {
//	        backoff.Reset()
//	        break
//	    }
//	    if !ringbuf.IsWouldBlock(err) {
//	        return err // Unexpected error
//	    }
//	    backoff.Wait()
//	}
//
// # Ordering Contract
//
// FIFO order is guaranteed among successful operations: the i-th successful
// enqueue is matched with the i-th successful dequeue, regardless of which
// goroutine performed which call. There is no fairness guarantee among
// contending goroutines; a loser of the cursor race retries with a fresh
// cursor load and a CPU pause.
//
// Each cursor advance is only a reservation. The payload itself crosses
// goroutines through the slot gate: the writer release-stores the gate
// after the payload write, the reader acquire-loads it before the payload
// read. A reader therefore never observes a slot the writer has not
// committed, and a writer never overwrites a slot a reader has not
// released.
//
// # Thread Safety
//
// All operations are safe for any number of concurrent producers and
// consumers. No operation blocks, sleeps, or suspends; callers requiring
// blocking behavior layer their own spin-wait or signaling scheme on top,
// typically iox.Backoff.
//
// # Race Detection
//
// Go's race detector is not designed for lock-free algorithm verification.
// It tracks explicit synchronization primitives (mutex, channels,
// WaitGroup) but cannot observe happens-before relationships established
// through atomic memory orderings on separate variables, so it may report
// false positives for the slot gates. Tests incompatible with race
// detection are excluded via //go:build !race.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering, and [code.hybscloud.com/spin] for CPU pause instructions.
package ringbuf
