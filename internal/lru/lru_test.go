package lru

import "testing"

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[int, string](2)
	c.Put(1, "a")
	c.Put(2, "b")
	if _, ok := c.Get(1); !ok {
		t.Fatal("expected 1 to be present")
	}
	c.Put(3, "c") // evicts 2, the least recently used
	if _, ok := c.Get(2); ok {
		t.Fatal("expected 2 to be evicted")
	}
	if v, ok := c.Get(1); !ok || v != "a" {
		t.Fatalf("got %q %v, want a true", v, ok)
	}
	if v, ok := c.Get(3); !ok || v != "c" {
		t.Fatalf("got %q %v, want c true", v, ok)
	}
	if c.Len() != 2 {
		t.Fatalf("len = %d, want 2", c.Len())
	}
}

func TestPutUpdatesExisting(t *testing.T) {
	c := New[string, int](2)
	c.Put("x", 1)
	c.Put("x", 2)
	if v, _ := c.Get("x"); v != 2 {
		t.Fatalf("got %d, want 2", v)
	}
	if c.Len() != 1 {
		t.Fatalf("len = %d, want 1", c.Len())
	}
}

func TestClear(t *testing.T) {
	c := New[int, int](4)
	for i := 0; i < 4; i++ {
		c.Put(i, i)
	}
	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("len = %d, want 0", c.Len())
	}
	c.Put(9, 9)
	if v, ok := c.Get(9); !ok || v != 9 {
		t.Fatalf("cache unusable after clear: %d %v", v, ok)
	}
}
