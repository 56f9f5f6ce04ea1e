package cache

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

// oneShard hashes every key to shard 0 so capacity tests are exact.
func oneShard(string) uint64 { return 0 }

func TestGetPut(t *testing.T) {
	c := New[string, int](16, StringHasher)
	if _, ok := c.Get("a"); ok {
		t.Error("Get on empty cache succeeded")
	}
	c.Put("a", 1)
	c.Put("a", 2)
	if v, ok := c.Get("a"); !ok || v != 2 {
		t.Errorf("Get(a) = %v, %v; want 2, true", v, ok)
	}
	st := c.Stats()
	if st.Len != 1 || st.Hits != 1 || st.Misses != 1 {
		t.Errorf("stats = %+v", st)
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](3*shardCount, oneShard)
	for i, k := range []string{"a", "b", "c"} {
		c.Put(k, i)
	}
	c.Get("a") // b is now the oldest
	c.Put("d", 3)

	for _, tt := range []struct {
		key  string
		want bool
	}{
		{"a", true}, {"b", false}, {"c", true}, {"d", true},
	} {
		if _, ok := c.Get(tt.key); ok != tt.want {
			t.Errorf("Get(%s) present = %v, want %v", tt.key, ok, tt.want)
		}
	}
	if ev := c.Stats().Evictions; ev != 1 {
		t.Errorf("evictions = %d, want 1", ev)
	}
}

func TestGetOrCreate(t *testing.T) {
	c := New[string, int](0, StringHasher)
	calls := 0
	create := func() (int, error) { calls++; return 42, nil }
	for range 3 {
		if v, err := c.GetOrCreate("k", create); err != nil || v != 42 {
			t.Fatalf("GetOrCreate = %v, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}

	boom := errors.New("boom")
	if _, err := c.GetOrCreate("bad", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Errorf("error = %v", err)
	}
	if _, ok := c.Get("bad"); ok {
		t.Error("failed value was cached")
	}
}

func TestClear(t *testing.T) {
	c := New[string, int](64, StringHasher)
	for i := range 20 {
		c.Put(fmt.Sprint(i), i)
	}
	if c.Len() != 20 {
		t.Fatalf("Len = %d, want 20", c.Len())
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d", c.Len())
	}
	c.Put("x", 1)
	if v, ok := c.Get("x"); !ok || v != 1 {
		t.Error("cache unusable after Clear")
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New[string, int](32, StringHasher)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				k := fmt.Sprint((g * i) % 50)
				if _, err := c.GetOrCreate(k, func() (int, error) { return i, nil }); err != nil {
					t.Error(err)
				}
			}
		}()
	}
	wg.Wait()
	if n := c.Len(); n > 32 {
		t.Errorf("Len = %d exceeds capacity", n)
	}
}

func TestMix(t *testing.T) {
	if Mix(1, 2) == Mix(2, 1) {
		t.Error("Mix should depend on word order")
	}
	if Mix(7) != Mix(7) {
		t.Error("Mix is not deterministic")
	}
}
