// Copyright 2025 The Pixelmirror Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package weather

import (
	"testing"
	"time"
)

func TestParseTZFixedOffset(t *testing.T) {
	for _, tc := range []struct {
		tz      string
		name    string
		offset  int
	}{
		{"JST-9", "JST", 9 * 3600},
		{"IST-5:30", "IST", 5*3600 + 30*60},
		{"<+08>-8", "+08", 8 * 3600},
		{"UTC0", "UTC", 0},
	} {
		z, err := ParseTZ(tc.tz)
		if err != nil {
			t.Fatalf("ParseTZ(%q): %v", tc.tz, err)
		}
		name, off := z.At(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
		if name != tc.name || off != tc.offset {
			t.Errorf("ParseTZ(%q).At() = (%q, %d), want (%q, %d)", tc.tz, name, off, tc.name, tc.offset)
		}
	}
}

func TestParseTZErrors(t *testing.T) {
	for _, tz := range []string{
		"", "X1", "EST", "EST5EDT,M3.2.0", "EST5EDT,M13.2.0,M11.1.0", "<+08-8",
	} {
		if _, err := ParseTZ(tz); err == nil {
			t.Errorf("ParseTZ(%q) accepted malformed rule", tz)
		}
	}
}

func TestDSTNorthernHemisphere(t *testing.T) {
	z, err := ParseTZ("EST5EDT,M3.2.0,M11.1.0")
	if err != nil {
		t.Fatal(err)
	}
	for _, tc := range []struct {
		utc    time.Time
		name   string
		offset int
	}{
		// January: standard time.
		{time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC), "EST", -5 * 3600},
		// July: daylight time.
		{time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC), "EDT", -4 * 3600},
		// 2025-03-09 02:00 EST = 07:00 UTC is the spring transition.
		{time.Date(2025, 3, 9, 6, 59, 0, 0, time.UTC), "EST", -5 * 3600},
		{time.Date(2025, 3, 9, 7, 0, 0, 0, time.UTC), "EDT", -4 * 3600},
		// 2025-11-02 02:00 EDT = 06:00 UTC is the fall transition.
		{time.Date(2025, 11, 2, 5, 59, 0, 0, time.UTC), "EDT", -4 * 3600},
		{time.Date(2025, 11, 2, 6, 0, 0, 0, time.UTC), "EST", -5 * 3600},
	} {
		name, off := z.At(tc.utc)
		if name != tc.name || off != tc.offset {
			t.Errorf("At(%v) = (%q, %d), want (%q, %d)", tc.utc, name, off, tc.name, tc.offset)
		}
	}
}

func TestDSTSouthernHemisphere(t *testing.T) {
	z, err := ParseTZ("AEST-10AEDT,M10.1.0,M4.1.0/3")
	if err != nil {
		t.Fatal(err)
	}
	// January sits inside the wrapped DST span, July outside.
	if name, off := z.At(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)); name != "AEDT" || off != 11*3600 {
		t.Errorf("January = (%q, %d), want (AEDT, %d)", name, off, 11*3600)
	}
	if name, off := z.At(time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)); name != "AEST" || off != 10*3600 {
		t.Errorf("July = (%q, %d), want (AEST, %d)", name, off, 10*3600)
	}
}

func TestDSTLondonRule(t *testing.T) {
	// Transition at 01:00 local instead of the default 02:00.
	z, err := ParseTZ("GMT0BST,M3.5.0/1,M10.5.0")
	if err != nil {
		t.Fatal(err)
	}
	// Last Sunday of March 2025 is the 30th; transition 01:00 GMT.
	if name, _ := z.At(time.Date(2025, 3, 30, 0, 59, 0, 0, time.UTC)); name != "GMT" {
		t.Errorf("before spring transition = %q, want GMT", name)
	}
	if name, _ := z.At(time.Date(2025, 3, 30, 1, 0, 0, 0, time.UTC)); name != "BST" {
		t.Errorf("after spring transition = %q, want BST", name)
	}
}

func TestConvert(t *testing.T) {
	z, err := ParseTZ("IST-5:30")
	if err != nil {
		t.Fatal(err)
	}
	local := z.Convert(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	if got := local.Format("15:04"); got != "17:30" {
		t.Errorf("Convert() local clock = %s, want 17:30", got)
	}
}

func TestRuleDateLastWeek(t *testing.T) {
	// M10.5.0: last Sunday of October. October 2025's last Sunday is the 26th.
	r := tzRule{month: 10, week: 5, weekday: 0, secs: 2 * 3600}
	got := r.date(2025)
	want := time.Date(2025, 10, 26, 2, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("date(2025) = %v, want %v", got, want)
	}
}
