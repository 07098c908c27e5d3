// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringbuf_test

import (
	"sync"
	"testing"
	"time"
	"unsafe"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/ringbuf"
)

// =============================================================================
// Sequential FIFO
// =============================================================================

// TestRingFIFOSequential tests that dequeue order equals enqueue order for
// alternating bursts of writes and reads.
func TestRingFIFOSequential(t *testing.T) {
	r := ringbuf.NewRing[int](64)

	next := 0
	expect := 0
	for range 100 {
		for range 40 {
			v := next
			if err := r.Enqueue(&v); err != nil {
				t.Fatalf("Enqueue(%d): %v", next, err)
			}
			next++
		}
		for range 40 {
			val, err := r.Dequeue()
			if err != nil {
				t.Fatalf("Dequeue: %v", err)
			}
			if val != expect {
				t.Fatalf("Dequeue: got %d, want %d", val, expect)
			}
			expect++
		}
	}
}

// =============================================================================
// Concurrent Correctness
// =============================================================================

// TestRingFIFOConcurrentSPSC runs one producer against one consumer and
// verifies the consumer observes the exact enqueue sequence.
func TestRingFIFOConcurrentSPSC(t *testing.T) {
	if ringbuf.RaceEnabled {
		t.Skip("skip: relies on atomix memory ordering invisible to the race detector")
	}

	const total = 100000
	r := ringbuf.NewRing[int](256)

	var wg sync.WaitGroup
	var timedOut atomix.Bool
	deadline := time.Now().Add(5 * time.Second)

	wg.Add(1)
	go func() {
		defer wg.Done()
		backoff := iox.Backoff{}
		for i := range total {
			v := i
			for r.Enqueue(&v) != nil {
				if time.Now().After(deadline) {
					timedOut.Store(true)
					return
				}
				backoff.Wait()
			}
			backoff.Reset()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		backoff := iox.Backoff{}
		expect := 0
		for expect < total {
			val, err := r.Dequeue()
			if err != nil {
				if time.Now().After(deadline) {
					timedOut.Store(true)
					return
				}
				backoff.Wait()
				continue
			}
			backoff.Reset()
			if val != expect {
				t.Errorf("out of order: got %d, want %d", val, expect)
				return
			}
			expect++
		}
	}()

	wg.Wait()
	if timedOut.Load() {
		t.Fatal("timeout: producer or consumer made no progress")
	}
}

// TestRingConcurrentNoLossNoDup launches multiple producers and consumers
// and verifies the multiset of dequeued values equals the multiset of
// enqueued values. Values are encoded as producerID*100000 + sequence.
func TestRingConcurrentNoLossNoDup(t *testing.T) {
	if ringbuf.RaceEnabled {
		t.Skip("skip: relies on atomix memory ordering invisible to the race detector")
	}

	const (
		numP         = 4
		numC         = 4
		itemsPerProd = 20000
		timeout      = 10 * time.Second
	)
	expectedTotal := numP * itemsPerProd

	r := ringbuf.NewRing[int](1024)
	seen := make([]atomix.Int32, expectedTotal)

	var wg sync.WaitGroup
	var consumedCount atomix.Int64
	var timedOut atomix.Bool
	deadline := time.Now().Add(timeout)

	for p := range numP {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			backoff := iox.Backoff{}
			for i := range itemsPerProd {
				v := id*100000 + i
				for r.Enqueue(&v) != nil {
					if time.Now().After(deadline) {
						timedOut.Store(true)
						return
					}
					backoff.Wait()
				}
				backoff.Reset()
			}
		}(p)
	}

	for range numC {
		wg.Add(1)
		go func() {
			defer wg.Done()
			backoff := iox.Backoff{}
			for consumedCount.Load() < int64(expectedTotal) {
				if time.Now().After(deadline) {
					timedOut.Store(true)
					return
				}
				v, err := r.Dequeue()
				if err != nil {
					backoff.Wait()
					continue
				}
				backoff.Reset()
				producerID := v / 100000
				seq := v % 100000
				if producerID < 0 || producerID >= numP || seq < 0 || seq >= itemsPerProd {
					t.Errorf("value out of range: %d", v)
				} else {
					seen[producerID*itemsPerProd+seq].Add(1)
				}
				consumedCount.Add(1)
			}
		}()
	}

	wg.Wait()
	if timedOut.Load() {
		t.Fatalf("timeout after %v: consumed %d of %d", timeout, consumedCount.Load(), expectedTotal)
	}

	for i := range seen {
		switch n := seen[i].Load(); n {
		case 1:
		case 0:
			t.Fatalf("value %d lost", i)
		default:
			t.Fatalf("value %d dequeued %d times", i, n)
		}
	}
}

// TestRingPerProducerOrder runs multiple producers against a single
// consumer and verifies each producer's values arrive in enqueue order.
// FIFO matching of the i-th enqueue with the i-th dequeue implies every
// producer's subsequence stays ordered.
func TestRingPerProducerOrder(t *testing.T) {
	if ringbuf.RaceEnabled {
		t.Skip("skip: relies on atomix memory ordering invisible to the race detector")
	}

	const (
		numP         = 4
		itemsPerProd = 20000
		timeout      = 10 * time.Second
	)
	expectedTotal := numP * itemsPerProd

	r := ringbuf.NewRing[int](512)

	var wg sync.WaitGroup
	var timedOut atomix.Bool
	deadline := time.Now().Add(timeout)

	for p := range numP {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			backoff := iox.Backoff{}
			for i := range itemsPerProd {
				v := id*100000 + i
				for r.Enqueue(&v) != nil {
					if time.Now().After(deadline) {
						timedOut.Store(true)
						return
					}
					backoff.Wait()
				}
				backoff.Reset()
			}
		}(p)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		backoff := iox.Backoff{}
		lastSeq := [numP]int{}
		for i := range lastSeq {
			lastSeq[i] = -1
		}
		consumed := 0
		for consumed < expectedTotal {
			if time.Now().After(deadline) {
				timedOut.Store(true)
				return
			}
			v, err := r.Dequeue()
			if err != nil {
				backoff.Wait()
				continue
			}
			backoff.Reset()
			producerID := v / 100000
			seq := v % 100000
			if seq <= lastSeq[producerID] {
				t.Errorf("producer %d order violated: seq %d after %d", producerID, seq, lastSeq[producerID])
				return
			}
			lastSeq[producerID] = seq
			consumed++
		}
	}()

	wg.Wait()
	if timedOut.Load() {
		t.Fatal("timeout: producers or consumer made no progress")
	}
}

// TestRingIndirectConcurrent verifies no loss and no duplication for the
// uintptr representation under contention.
func TestRingIndirectConcurrent(t *testing.T) {
	if ringbuf.RaceEnabled {
		t.Skip("skip: relies on atomix memory ordering invisible to the race detector")
	}

	const (
		numP         = 4
		numC         = 4
		itemsPerProd = 20000
		timeout      = 10 * time.Second
	)
	expectedTotal := numP * itemsPerProd

	r := ringbuf.NewRingIndirect(1024)
	seen := make([]atomix.Int32, expectedTotal)

	var wg sync.WaitGroup
	var consumedCount atomix.Int64
	var timedOut atomix.Bool
	deadline := time.Now().Add(timeout)

	for p := range numP {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			backoff := iox.Backoff{}
			base := uintptr(id * itemsPerProd)
			for i := range itemsPerProd {
				for r.Enqueue(base+uintptr(i)) != nil {
					if time.Now().After(deadline) {
						timedOut.Store(true)
						return
					}
					backoff.Wait()
				}
				backoff.Reset()
			}
		}(p)
	}

	for range numC {
		wg.Add(1)
		go func() {
			defer wg.Done()
			backoff := iox.Backoff{}
			for consumedCount.Load() < int64(expectedTotal) {
				if time.Now().After(deadline) {
					timedOut.Store(true)
					return
				}
				v, err := r.Dequeue()
				if err != nil {
					backoff.Wait()
					continue
				}
				backoff.Reset()
				if v >= uintptr(expectedTotal) {
					t.Errorf("value out of range: %d", v)
				} else {
					seen[v].Add(1)
				}
				consumedCount.Add(1)
			}
		}()
	}

	wg.Wait()
	if timedOut.Load() {
		t.Fatalf("timeout after %v: consumed %d of %d", timeout, consumedCount.Load(), expectedTotal)
	}

	for i := range seen {
		if n := seen[i].Load(); n != 1 {
			t.Fatalf("value %d dequeued %d times", i, n)
		}
	}
}

// TestRingPtrConcurrent passes pointers into a preallocated arena between
// producers and consumers and verifies each pointer arrives exactly once.
func TestRingPtrConcurrent(t *testing.T) {
	if ringbuf.RaceEnabled {
		t.Skip("skip: relies on atomix memory ordering invisible to the race detector")
	}

	const (
		numP         = 2
		numC         = 2
		itemsPerProd = 10000
		timeout      = 10 * time.Second
	)
	expectedTotal := numP * itemsPerProd

	r := ringbuf.NewRingPtr(512)
	arena := make([]int, expectedTotal)
	for i := range arena {
		arena[i] = i
	}
	seen := make([]atomix.Int32, expectedTotal)

	var wg sync.WaitGroup
	var consumedCount atomix.Int64
	var timedOut atomix.Bool
	deadline := time.Now().Add(timeout)

	for p := range numP {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			backoff := iox.Backoff{}
			for i := range itemsPerProd {
				elem := unsafe.Pointer(&arena[id*itemsPerProd+i])
				for r.Enqueue(elem) != nil {
					if time.Now().After(deadline) {
						timedOut.Store(true)
						return
					}
					backoff.Wait()
				}
				backoff.Reset()
			}
		}(p)
	}

	for range numC {
		wg.Add(1)
		go func() {
			defer wg.Done()
			backoff := iox.Backoff{}
			for consumedCount.Load() < int64(expectedTotal) {
				if time.Now().After(deadline) {
					timedOut.Store(true)
					return
				}
				ptr, err := r.Dequeue()
				if err != nil {
					backoff.Wait()
					continue
				}
				backoff.Reset()
				v := *(*int)(ptr)
				if v < 0 || v >= expectedTotal {
					t.Errorf("value out of range: %d", v)
				} else {
					seen[v].Add(1)
				}
				consumedCount.Add(1)
			}
		}()
	}

	wg.Wait()
	if timedOut.Load() {
		t.Fatalf("timeout after %v: consumed %d of %d", timeout, consumedCount.Load(), expectedTotal)
	}

	for i := range seen {
		if n := seen[i].Load(); n != 1 {
			t.Fatalf("value %d dequeued %d times", i, n)
		}
	}
}
