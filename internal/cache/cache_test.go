package cache

import (
	"testing"
	"time"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/clock"
)

func newTestStore(t *testing.T) (*Store, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC))
	s, err := New(100, clk)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(s.Close)
	return s, clk
}

func TestStore(t *testing.T) {
	t.Run("returns fresh entries", func(t *testing.T) {
		s, clk := newTestStore(t)

		s.Set("quote:AAPL", 123.45)
		clk.Advance(4 * time.Minute)

		v, ok := s.Get("quote:AAPL", 5*time.Minute)
		if !ok {
			t.Fatal("Expected cache hit")
		}
		if v.(float64) != 123.45 {
			t.Errorf("Expected 123.45, got %v", v)
		}
	})

	t.Run("treats entries at or past the window as stale", func(t *testing.T) {
		s, clk := newTestStore(t)

		s.Set("quote:AAPL", 1.0)
		clk.Advance(5 * time.Minute)

		if _, ok := s.Get("quote:AAPL", 5*time.Minute); ok {
			t.Error("Expected stale entry to miss")
		}
		if _, ok := s.Get("quote:AAPL", 24*time.Hour); !ok {
			t.Error("Expected the same entry to be fresh under a longer window")
		}
	})

	t.Run("overwrites refresh the timestamp", func(t *testing.T) {
		s, clk := newTestStore(t)

		s.Set("k", "old")
		clk.Advance(10 * time.Minute)
		s.Set("k", "new")

		v, ok := s.Get("k", time.Minute)
		if !ok || v.(string) != "new" {
			t.Errorf("Expected fresh overwrite, got %v (hit=%v)", v, ok)
		}
	})

	t.Run("misses unknown and deleted keys", func(t *testing.T) {
		s, _ := newTestStore(t)

		if _, ok := s.Get("missing", time.Hour); ok {
			t.Error("Expected miss for unknown key")
		}

		s.Set("k", 1)
		s.Del("k")
		if _, ok := s.Get("k", time.Hour); ok {
			t.Error("Expected miss after delete")
		}
	})
}
