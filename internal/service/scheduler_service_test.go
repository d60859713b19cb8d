package service

import (
	"testing"
	"time"
)

func TestBuildDailySpec(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"09:00", "0 0 9 * * *"},
		{"23:59", "0 59 23 * * *"},
		{"0:5", "0 5 0 * * *"},
	}
	for _, c := range cases {
		got, err := buildDailySpec(c.in)
		if err != nil {
			t.Errorf("buildDailySpec(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("buildDailySpec(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestBuildDailySpecRejectsMalformedTimes(t *testing.T) {
	for _, in := range []string{"", "9", "9:00:00", "24:00", "12:60", "-1:30", "ab:cd"} {
		if _, err := buildDailySpec(in); err == nil {
			t.Errorf("buildDailySpec(%q) accepted, want error", in)
		}
	}
}

func TestScheduleDaily(t *testing.T) {
	s := NewSchedulerService(time.UTC)
	if _, err := s.ScheduleDaily("07:30", func() {}); err != nil {
		t.Fatalf("schedule daily: %v", err)
	}
	if _, err := s.ScheduleDaily("25:00", func() {}); err == nil {
		t.Fatal("bad time accepted, want error")
	}
}

func TestScheduleRefreshRejectsNonPositiveInterval(t *testing.T) {
	s := NewSchedulerService(time.UTC)
	if _, err := s.ScheduleRefresh(0, func() {}); err == nil {
		t.Fatal("zero interval accepted, want error")
	}
	if _, err := s.ScheduleRefresh(-time.Minute, func() {}); err == nil {
		t.Fatal("negative interval accepted, want error")
	}
}
