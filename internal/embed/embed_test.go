package embed

import (
	"errors"
	"testing"
)

func TestStartSeconds(t *testing.T) {
	if got := StartSeconds(90, 30); got != 3 {
		t.Fatalf("StartSeconds(90, 30) = %d", got)
	}
	if got := StartSeconds(89, 30); got != 2 {
		t.Fatalf("StartSeconds(89, 30) = %d", got)
	}
	if got := StartSeconds(60, 0); got != 2 {
		t.Fatalf("missing fps should default to 30, got %d", got)
	}
	if got := StartSeconds(-5, 30); got != 0 {
		t.Fatalf("negative frame: %d", got)
	}
}

func TestFrameNumber(t *testing.T) {
	if got := FrameNumber(4.5, 30); got != 135 {
		t.Fatalf("FrameNumber(4.5, 30) = %d", got)
	}
	if got := FrameNumber(0, 30); got != 0 {
		t.Fatalf("FrameNumber(0, 30) = %d", got)
	}
	if got := FrameNumber(1.0, 0); got != 30 {
		t.Fatalf("default fps: %d", got)
	}
}

func TestClock_Truncates(t *testing.T) {
	cases := []struct {
		pos  float64
		want string
	}{
		{4.5, "00:00:04.500"},
		{0, "00:00:00.000"},
		{59.9995, "00:00:59.999"},
		{3661.25, "01:01:01.250"},
		{-1, "00:00:00.000"},
	}
	for _, c := range cases {
		if got := Clock(c.pos); got != c.want {
			t.Fatalf("Clock(%v) = %q, want %q", c.pos, got, c.want)
		}
	}
}

func TestWatchID(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=zbKjqHqy2no", "zbKjqHqy2no"},
		{"https://www.youtube.com/watch?v=abc123&t=10s", "abc123"},
		{"https://youtu.be/abc123", "abc123"},
		{"https://www.youtube.com/embed/abc123", "abc123"},
	}
	for _, c := range cases {
		got, err := WatchID(c.url)
		if err != nil {
			t.Fatalf("WatchID(%q): %v", c.url, err)
		}
		if got != c.want {
			t.Fatalf("WatchID(%q) = %q, want %q", c.url, got, c.want)
		}
	}
}

func TestWatchID_Invalid(t *testing.T) {
	for _, u := range []string{"", "https://example.com/nothing", "%zz"} {
		if _, err := WatchID(u); !errors.Is(err, ErrInvalidSource) {
			t.Fatalf("WatchID(%q): expected ErrInvalidSource, got %v", u, err)
		}
	}
}

func TestSessionReport(t *testing.T) {
	s := &Session{GroupID: "v1", VideoID: "abc", FPS: 30, Start: 3}
	frame, clock := s.Report(4.5)
	if frame != 135 {
		t.Fatalf("frame = %d", frame)
	}
	if clock != "00:00:04.500" {
		t.Fatalf("clock = %q", clock)
	}
	if !s.HasFrame || s.LastFrame != 135 {
		t.Fatalf("session not updated: %+v", s)
	}
}
