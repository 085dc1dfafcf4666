package cache

import (
	"errors"
	"testing"
)

func TestAcquireCreatesOnMiss(t *testing.T) {
	calls := 0
	c := New[string, int](nil)

	v, err := c.Acquire("a", 1, func() (int, error) {
		calls++
		return 42, nil
	})
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if v != 42 {
		t.Errorf("v = %d, want 42", v)
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}
}

func TestAcquireReusesOnHit(t *testing.T) {
	calls := 0
	c := New[string, int](nil)

	create := func() (int, error) { calls++; return 1, nil }
	if _, err := c.Acquire("k", 1, create); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Acquire("k", 2, create); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1 (second Acquire should hit)", calls)
	}
}

func TestAcquirePropagatesCreateError(t *testing.T) {
	c := New[string, int](nil)
	wantErr := errors.New("boom")
	_, err := c.Acquire("k", 1, func() (int, error) { return 0, wantErr })
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
	if c.Len() != 0 {
		t.Error("a failed create must not be cached")
	}
}

func TestCollectDropsStaleEntries(t *testing.T) {
	var destroyed []string
	c := New[string, string](func(v string) { destroyed = append(destroyed, v) })

	if _, err := c.Acquire("old", 0, func() (string, error) { return "old", nil }); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Acquire("fresh", 10, func() (string, error) { return "fresh", nil }); err != nil {
		t.Fatal(err)
	}

	dropped := c.Collect(10, 5)
	if dropped != 1 {
		t.Fatalf("Collect dropped %d, want 1", dropped)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	if len(destroyed) != 1 || destroyed[0] != "old" {
		t.Errorf("destroyed = %v, want [old]", destroyed)
	}
}

func TestCollectKeepsRecentlyTouchedEntries(t *testing.T) {
	c := New[string, int](nil)
	create := func() (int, error) { return 1, nil }

	if _, err := c.Acquire("k", 0, create); err != nil {
		t.Fatal(err)
	}
	// Touching via Acquire at frame 8 should save it from a threshold-5 collect at frame 10.
	if _, err := c.Acquire("k", 8, create); err != nil {
		t.Fatal(err)
	}

	if dropped := c.Collect(10, 5); dropped != 0 {
		t.Errorf("Collect dropped %d entries, want 0", dropped)
	}
}

func TestClearDestroysEverything(t *testing.T) {
	var destroyed int
	c := New[string, int](func(int) { destroyed++ })
	create := func() (int, error) { return 1, nil }
	if _, err := c.Acquire("a", 0, create); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Acquire("b", 0, create); err != nil {
		t.Fatal(err)
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
	if destroyed != 2 {
		t.Errorf("destroyed = %d, want 2", destroyed)
	}
}
