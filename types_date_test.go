package pocketbook

import (
	"encoding/json"
	"testing"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want Date
		err  bool
	}{
		{"2025-01-31", NewDate(2025, 1, 31), false},
		{"2025-1-3", NewDate(2025, 1, 3), false},
		{"2025-13-01", Date{}, true},
		{"yesterday", Date{}, true},
		{"", Date{}, true},
	}
	for _, c := range cases {
		got, err := ParseDate(c.in)
		if (err != nil) != c.err {
			t.Errorf("ParseDate(%q) err = %v, want err=%v", c.in, err, c.err)
			continue
		}
		if !c.err && got != c.want {
			t.Errorf("ParseDate(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestDate_AddMonth(t *testing.T) {
	cases := []struct {
		in     Date
		months int
		want   Date
	}{
		{NewDate(2025, 1, 15), 1, NewDate(2025, 2, 15)},
		{NewDate(2025, 11, 1), 3, NewDate(2026, 2, 1)},
		{NewDate(2025, 3, 10), -3, NewDate(2024, 12, 10)},
	}
	for _, c := range cases {
		if got := c.in.AddMonth(c.months); got != c.want {
			t.Errorf("%v.AddMonth(%d) = %v, want %v", c.in, c.months, got, c.want)
		}
	}
}

func TestDate_JSON(t *testing.T) {
	d := NewDate(2025, 7, 4)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"2025-07-04"` {
		t.Errorf("got %s", data)
	}
	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != d {
		t.Errorf("round trip: %v != %v", back, d)
	}
}

func TestDate_Ordering(t *testing.T) {
	a, b := NewDate(2025, 6, 30), NewDate(2025, 7, 1)
	if !a.Before(b) || b.Before(a) {
		t.Error("Before is wrong")
	}
	if !b.After(a) || a.After(b) {
		t.Error("After is wrong")
	}
	if a.IsZero() {
		t.Error("a should not be zero")
	}
	if !(Date{}).IsZero() {
		t.Error("zero date should be zero")
	}
}
