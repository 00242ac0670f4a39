package cache

import (
	"errors"
	"sync"
	"testing"
)

func TestGetSet(t *testing.T) {
	c := New[string, int](0)
	if _, ok := c.Get("a"); ok {
		t.Fatal("empty cache hit")
	}
	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v", v, ok)
	}
	if !c.Delete("a") || c.Delete("a") {
		t.Error("Delete should report presence once")
	}
	s := c.Stats()
	if s.Hits != 1 || s.Misses != 1 {
		t.Errorf("stats = %+v", s)
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[int, int](4)
	for i := range 4 {
		c.Set(i, i)
	}
	// Touch 0 so 1 and 2 are the oldest.
	c.Get(0)
	c.Set(4, 4)

	if c.Len() != 3 {
		t.Fatalf("Len = %d, want 3", c.Len())
	}
	for _, k := range []int{0, 3, 4} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("key %d evicted", k)
		}
	}
	if got := c.Stats().Evictions; got != 2 {
		t.Errorf("evictions = %d, want 2", got)
	}
}

func TestGetOrLoad(t *testing.T) {
	c := New[string, string](0)
	loads := 0
	load := func() (string, error) {
		loads++
		return "parsed", nil
	}
	for range 3 {
		v, err := c.GetOrLoad("src", load)
		if err != nil || v != "parsed" {
			t.Fatalf("GetOrLoad = %q, %v", v, err)
		}
	}
	if loads != 1 {
		t.Errorf("loads = %d, want 1", loads)
	}

	errBad := errors.New("bad")
	if _, err := c.GetOrLoad("broken", func() (string, error) { return "", errBad }); !errors.Is(err, errBad) {
		t.Errorf("err = %v", err)
	}
	if _, ok := c.Get("broken"); ok {
		t.Error("errors must not be cached")
	}
}

func TestGetOrLoadConcurrent(t *testing.T) {
	c := New[int, int](0)
	var (
		mu    sync.Mutex
		loads int
		wg    sync.WaitGroup
	)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.GetOrLoad(7, func() (int, error) {
				mu.Lock()
				loads++
				mu.Unlock()
				return 7, nil
			})
		}()
	}
	wg.Wait()
	if loads != 1 {
		t.Errorf("loads = %d, want 1", loads)
	}
}

func TestClear(t *testing.T) {
	c := New[int, int](0)
	c.Set(1, 1)
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d", c.Len())
	}
}
