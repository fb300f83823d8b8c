package services

import (
	"sync"
	"testing"
	"time"
)

func TestRegisterAndResolve(t *testing.T) {
	r := NewCorrelationRegistry(0)
	defer r.Close()

	r.Register("42", "destA")

	dest, ok := r.Resolve("42")
	if !ok || dest != "destA" {
		t.Fatalf("Resolve = (%q, %v), want (destA, true)", dest, ok)
	}
	if r.Len() != 0 {
		t.Errorf("registry still holds %d entries", r.Len())
	}
}

func TestResolveOnce(t *testing.T) {
	r := NewCorrelationRegistry(0)
	defer r.Close()

	r.Register("42", "destA")

	if _, ok := r.Resolve("42"); !ok {
		t.Fatal("first resolve failed")
	}
	if _, ok := r.Resolve("42"); ok {
		t.Error("second resolve succeeded, want consumed token")
	}
}

func TestRegisterOverwrites(t *testing.T) {
	r := NewCorrelationRegistry(0)
	defer r.Close()

	r.Register("42", "destA")
	r.Register("42", "destB")

	dest, ok := r.Resolve("42")
	if !ok || dest != "destB" {
		t.Errorf("Resolve = (%q, %v), want last registration destB", dest, ok)
	}
}

func TestExpiredEntryDoesNotResolve(t *testing.T) {
	r := NewCorrelationRegistry(10 * time.Millisecond)
	defer r.Close()

	r.Register("42", "destA")
	time.Sleep(30 * time.Millisecond)

	if _, ok := r.Resolve("42"); ok {
		t.Error("expired token resolved")
	}
}

func TestCleanupEvictsExpiredEntries(t *testing.T) {
	r := NewCorrelationRegistry(10 * time.Millisecond)
	defer r.Close()

	r.Register("a", "destA")
	r.Register("b", "destB")
	time.Sleep(30 * time.Millisecond)
	r.cleanup()

	if got := r.Len(); got != 0 {
		t.Errorf("Len = %d after cleanup, want 0", got)
	}
}

func TestConcurrentResolveOnce(t *testing.T) {
	r := NewCorrelationRegistry(0)
	defer r.Close()

	r.Register("42", "destA")

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan bool, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := r.Resolve("42")
			results <- ok
		}()
	}
	wg.Wait()
	close(results)

	resolved := 0
	for ok := range results {
		if ok {
			resolved++
		}
	}
	if resolved != 1 {
		t.Errorf("token resolved %d times, want exactly 1", resolved)
	}
}
