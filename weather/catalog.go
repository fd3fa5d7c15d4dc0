// Copyright 2025 The Pixelmirror Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package weather

import (
	"periph.io/x/conn/v3/physic"
)

// City is one entry of the location catalog. Name, Query and TZ are static
// configuration; the observation fields cache the last backend reading and
// are the only mutable part.
type City struct {
	// Name is shown on the dashboard.
	Name string
	// Query is the geocoding string sent to the weather endpoint.
	Query string
	// TZ is the POSIX timezone rule applied to the device clock while this
	// city is selected.
	TZ string

	temp     physic.Temperature
	humidity physic.RelativeHumidity
	observed bool
}

// SetObservation caches a backend reading, given in degrees Celsius and
// percent relative humidity.
func (c *City) SetObservation(tempC, humidityPct float64) {
	c.temp = physic.Temperature(tempC*float64(physic.Kelvin)) + physic.ZeroCelsius
	c.humidity = physic.RelativeHumidity(humidityPct * float64(physic.PercentRH))
	c.observed = true
}

// Celsius returns the cached temperature in degrees Celsius.
func (c *City) Celsius() float64 {
	return float64(c.temp-physic.ZeroCelsius) / float64(physic.Kelvin)
}

// HumidityPercent returns the cached humidity as an integer percentage.
func (c *City) HumidityPercent() int {
	return int(c.humidity / physic.PercentRH)
}

// Observed reports whether a reading has been cached since boot.
func (c *City) Observed() bool {
	return c.observed
}

// Unselected is the SelectedCityIndex sentinel for "no location chosen". It
// is a valid, renderable state, not an error.
const Unselected = -1

// Catalog returns the static location table. The slice is freshly allocated
// so a caller owns the mutable observation cache of its copy.
func Catalog() []*City {
	return []*City{
		{Name: "New York", Query: "New York,US", TZ: "EST5EDT,M3.2.0,M11.1.0"},
		{Name: "San Francisco", Query: "San Francisco,US", TZ: "PST8PDT,M3.2.0,M11.1.0"},
		{Name: "London", Query: "London,GB", TZ: "GMT0BST,M3.5.0/1,M10.5.0"},
		{Name: "Berlin", Query: "Berlin,DE", TZ: "CET-1CEST,M3.5.0,M10.5.0/3"},
		{Name: "Bengaluru", Query: "Bengaluru,IN", TZ: "IST-5:30"},
		{Name: "Singapore", Query: "Singapore,SG", TZ: "<+08>-8"},
		{Name: "Tokyo", Query: "Tokyo,JP", TZ: "JST-9"},
		{Name: "Sydney", Query: "Sydney,AU", TZ: "AEST-10AEDT,M10.1.0,M4.1.0/3"},
	}
}

// ClampIndex forces i into [-1, n-1], collapsing anything out of range to
// Unselected.
func ClampIndex(i, n int) int {
	if i < 0 || i >= n {
		return Unselected
	}
	return i
}

// ValidIndex reports whether i is a legal SelectedCityIndex for a catalog
// of n entries, Unselected included.
func ValidIndex(i, n int) bool {
	return i >= Unselected && i < n
}
