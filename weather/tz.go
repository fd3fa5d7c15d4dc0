// Copyright 2025 The Pixelmirror Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package weather

import (
	"fmt"
	"strings"
	"time"
)

// Zone is a parsed POSIX TZ rule such as "CET-1CEST,M3.5.0,M10.5.0/3".
//
// The device carries no IANA timezone database; the catalog ships the POSIX
// rule for each city and the clock math happens here. Offsets are stored in
// seconds east of UTC (the opposite sign convention of the POSIX string).
type Zone struct {
	stdName string
	stdOff  int
	dstName string
	dstOff  int
	start   tzRule
	end     tzRule
	hasDST  bool
}

// tzRule is one transition date: either day n of March-style month math
// ("Mm.w.d") or a leap-ignoring julian day ("Jn").
type tzRule struct {
	julian  bool
	day     int
	month   int
	week    int
	weekday int
	secs    int // local transition time, seconds after midnight
}

// ParseTZ parses a POSIX TZ string. Supported forms are STD offset with an
// optional DST name, DST offset and ",start,end" transition pair using M or
// J rules. Angle-bracket names like "<+08>-8" are accepted.
func ParseTZ(s string) (*Zone, error) {
	orig := s
	z := &Zone{}

	var err error
	if z.stdName, s, err = takeName(s); err != nil {
		return nil, fmt.Errorf("tz %q: %w", orig, err)
	}
	west, s, ok := takeOffset(s)
	if !ok {
		return nil, fmt.Errorf("tz %q: missing standard offset", orig)
	}
	z.stdOff = -west

	if s == "" {
		return z, nil
	}
	if !strings.HasPrefix(s, ",") {
		if z.dstName, s, err = takeName(s); err != nil {
			return nil, fmt.Errorf("tz %q: %w", orig, err)
		}
		z.hasDST = true
		if west, rest, ok := takeOffset(s); ok {
			z.dstOff = -west
			s = rest
		} else {
			// Default DST offset is one hour ahead of standard.
			z.dstOff = z.stdOff + 3600
		}
	}

	if s == "" {
		if z.hasDST {
			// DST named but no transition dates; use the common US rule the
			// way glibc does.
			z.start = tzRule{month: 3, week: 2, weekday: 0, secs: 2 * 3600}
			z.end = tzRule{month: 11, week: 1, weekday: 0, secs: 2 * 3600}
		}
		return z, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 3 || parts[0] != "" {
		return nil, fmt.Errorf("tz %q: malformed transition rules", orig)
	}
	if z.start, err = parseRule(parts[1]); err != nil {
		return nil, fmt.Errorf("tz %q: %w", orig, err)
	}
	if z.end, err = parseRule(parts[2]); err != nil {
		return nil, fmt.Errorf("tz %q: %w", orig, err)
	}
	return z, nil
}

// At returns the zone abbreviation and offset in seconds east of UTC in
// effect at instant t.
func (z *Zone) At(t time.Time) (string, int) {
	if !z.hasDST {
		return z.stdName, z.stdOff
	}
	year := t.In(time.FixedZone("", z.stdOff)).Year()
	// Transition instants in UTC: the start rule is expressed in standard
	// local time, the end rule in DST local time.
	start := z.start.date(year).Add(-time.Duration(z.stdOff) * time.Second)
	end := z.end.date(year).Add(-time.Duration(z.dstOff) * time.Second)

	u := t.UTC()
	var dst bool
	if start.Before(end) {
		dst = !u.Before(start) && u.Before(end)
	} else {
		// Southern hemisphere: DST spans the turn of the year.
		dst = !u.Before(start) || u.Before(end)
	}
	if dst {
		return z.dstName, z.dstOff
	}
	return z.stdName, z.stdOff
}

// Convert returns t expressed in this zone.
func (z *Zone) Convert(t time.Time) time.Time {
	name, off := z.At(t)
	return t.In(time.FixedZone(name, off))
}

// date returns the transition moment of rule r in year, as naive local time
// stamped UTC. The caller applies the relevant offset.
func (r tzRule) date(year int) time.Time {
	var d time.Time
	if r.julian {
		// Jn: day 1..365, February 29 never counted.
		d = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, r.day-1)
		if isLeap(year) && r.day >= 60 {
			d = d.AddDate(0, 0, 1)
		}
	} else {
		first := time.Date(year, time.Month(r.month), 1, 0, 0, 0, 0, time.UTC)
		delta := (r.weekday - int(first.Weekday()) + 7) % 7
		day := 1 + delta + (r.week-1)*7
		if lastDay := first.AddDate(0, 1, -1).Day(); day > lastDay {
			// Week 5 means the last occurrence in the month.
			day -= 7
		}
		d = time.Date(year, time.Month(r.month), day, 0, 0, 0, 0, time.UTC)
	}
	return d.Add(time.Duration(r.secs) * time.Second)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func parseRule(s string) (tzRule, error) {
	r := tzRule{secs: 2 * 3600}
	if i := strings.IndexByte(s, '/'); i >= 0 {
		secs, rest, ok := takeTime(s[i+1:])
		if !ok || rest != "" {
			return r, fmt.Errorf("bad transition time %q", s)
		}
		r.secs = secs
		s = s[:i]
	}
	switch {
	case strings.HasPrefix(s, "M"):
		if n, err := fmt.Sscanf(s, "M%d.%d.%d", &r.month, &r.week, &r.weekday); err != nil || n != 3 {
			return r, fmt.Errorf("bad rule %q", s)
		}
		if r.month < 1 || r.month > 12 || r.week < 1 || r.week > 5 || r.weekday < 0 || r.weekday > 6 {
			return r, fmt.Errorf("rule %q out of range", s)
		}
	case strings.HasPrefix(s, "J"):
		r.julian = true
		if n, err := fmt.Sscanf(s, "J%d", &r.day); err != nil || n != 1 {
			return r, fmt.Errorf("bad rule %q", s)
		}
		if r.day < 1 || r.day > 365 {
			return r, fmt.Errorf("rule %q out of range", s)
		}
	default:
		return r, fmt.Errorf("unsupported rule %q", s)
	}
	return r, nil
}

// takeName consumes a zone abbreviation: letters, or anything inside <>.
func takeName(s string) (string, string, error) {
	if strings.HasPrefix(s, "<") {
		end := strings.IndexByte(s, '>')
		if end < 0 {
			return "", "", fmt.Errorf("unterminated < name")
		}
		return s[1:end], s[end+1:], nil
	}
	i := 0
	for i < len(s) && isAlpha(s[i]) {
		i++
	}
	if i < 3 {
		return "", "", fmt.Errorf("zone name too short")
	}
	return s[:i], s[i:], nil
}

// takeOffset consumes "[+|-]hh[:mm[:ss]]" and returns seconds west of UTC,
// the POSIX sign convention.
func takeOffset(s string) (int, string, bool) {
	sign := 1
	if strings.HasPrefix(s, "-") {
		sign = -1
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	secs, rest, ok := takeTime(s)
	if !ok {
		return 0, s, false
	}
	return sign * secs, rest, true
}

// takeTime consumes "hh[:mm[:ss]]" and returns it in seconds.
func takeTime(s string) (int, string, bool) {
	h, s, ok := takeInt(s)
	if !ok {
		return 0, s, false
	}
	secs := h * 3600
	for _, unit := range []int{60, 1} {
		if !strings.HasPrefix(s, ":") {
			break
		}
		var v int
		v, s, ok = takeInt(s[1:])
		if !ok {
			return 0, s, false
		}
		secs += v * unit
	}
	return secs, s, true
}

func takeInt(s string) (int, string, bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, s, false
	}
	n := 0
	for _, c := range s[:i] {
		n = n*10 + int(c-'0')
	}
	return n, s[i:], true
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
