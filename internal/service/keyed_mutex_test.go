package service

import (
	"sync"
	"testing"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	km := newKeyedMutex()

	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("tutor-1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Fatalf("expected 50 serialized increments, got %d", counter)
	}
}

func TestKeyedMutex_DifferentKeysDoNotBlock(t *testing.T) {
	km := newKeyedMutex()

	unlockA := km.Lock("a")
	done := make(chan struct{})
	go func() {
		unlockB := km.Lock("b")
		unlockB()
		close(done)
	}()

	<-done // would deadlock if "b" waited on "a"
	unlockA()
}

func TestKeyedMutex_EntriesReleased(t *testing.T) {
	km := newKeyedMutex()

	unlock := km.Lock("a")
	unlock()

	km.mu.Lock()
	defer km.mu.Unlock()
	if len(km.locks) != 0 {
		t.Fatalf("expected the entry map to be empty after release, got %d entries", len(km.locks))
	}
}
