package notify

import (
	"fmt"
	"testing"
)

func TestRecent_NewestFirst(t *testing.T) {
	c := New(nil)
	c.Info("first")
	c.Warning("second")
	c.Error("third")

	recent := c.Recent(2)
	if len(recent) != 2 {
		t.Fatalf("len = %d, want 2", len(recent))
	}
	if recent[0].Message != "third" || recent[0].Level != LevelError {
		t.Fatalf("recent[0] = %+v, want the newest notice", recent[0])
	}
	if recent[1].Message != "second" {
		t.Fatalf("recent[1] = %+v, want second", recent[1])
	}

	all := c.Recent(0)
	if len(all) != 3 {
		t.Fatalf("Recent(0) len = %d, want all 3", len(all))
	}
}

func TestLast(t *testing.T) {
	c := New(nil)
	if _, ok := c.Last(); ok {
		t.Fatal("empty center should report no last notice")
	}
	c.Success("done")
	last, ok := c.Last()
	if !ok || last.Level != LevelSuccess || last.Message != "done" {
		t.Fatalf("last = %+v %v", last, ok)
	}
	if last.Time.IsZero() {
		t.Fatal("notice time not set")
	}
}

func TestFeedIsBounded(t *testing.T) {
	c := New(nil)
	for i := 0; i < maxNotices+25; i++ {
		c.Info(fmt.Sprintf("notice %d", i))
	}

	all := c.Recent(0)
	if len(all) != maxNotices {
		t.Fatalf("len = %d, want capped at %d", len(all), maxNotices)
	}
	if all[0].Message != fmt.Sprintf("notice %d", maxNotices+24) {
		t.Fatalf("newest = %q, want the last pushed notice", all[0].Message)
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelInfo, "info"},
		{LevelSuccess, "ok"},
		{LevelWarning, "warn"},
		{LevelError, "error"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}
