package config

import "testing"

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	if c.FrameCount != 2 || c.QueueCount != 1 || c.CacheCollectionWindow != 4 {
		t.Fatalf("DefaultConfig = %+v, unexpected defaults", c)
	}
	if c.EnableValidation {
		t.Error("validation should default to disabled")
	}
}

func TestNewAppliesOptionsOverDefaults(t *testing.T) {
	c := New(
		WithFrameCount(3),
		WithQueueCount(2),
		WithCacheWindow(8),
		WithValidation(true),
		WithPreferredQueueFamilies(1, 2),
	)
	want := RuntimeConfig{
		FrameCount:             3,
		QueueCount:             2,
		CacheCollectionWindow:  8,
		EnableValidation:       true,
		PreferredQueueFamilies: []uint32{1, 2},
	}
	if c.FrameCount != want.FrameCount || c.QueueCount != want.QueueCount ||
		c.CacheCollectionWindow != want.CacheCollectionWindow || c.EnableValidation != want.EnableValidation {
		t.Fatalf("New(...) = %+v, want %+v", c, want)
	}
	if len(c.PreferredQueueFamilies) != 2 || c.PreferredQueueFamilies[0] != 1 || c.PreferredQueueFamilies[1] != 2 {
		t.Errorf("PreferredQueueFamilies = %v, want [1 2]", c.PreferredQueueFamilies)
	}
}

func TestNewWithNoOptionsMatchesDefaultConfig(t *testing.T) {
	if got, want := New(), DefaultConfig(); got.FrameCount != want.FrameCount {
		t.Errorf("New() without options should match DefaultConfig()")
	}
}
