/*
 * Copyright (c) 2024. Anton Starikov -- All Rights Reserved
 *
 * This file is part of HCOPT project.
 *
 * HCOPT is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as the Free Software Foundation,
 * either version 3 of the License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package planner

import (
	"math"
	"time"
)

// Hourly orientation factors: the share of the forecast shortwave
// radiation arriving on a vertical surface of the given orientation.
// East peaks mid-morning, south around noon, west mid-afternoon.
var (
	eastHourFactor = [24]float64{
		0, 0, 0, 0, 0, 0.15,
		0.45, 0.80, 1.00, 0.95, 0.75, 0.55,
		0.40, 0.30, 0.20, 0.12, 0.08, 0.05,
		0, 0, 0, 0, 0, 0,
	}
	southHourFactor = [24]float64{
		0, 0, 0, 0, 0, 0,
		0.10, 0.25, 0.45, 0.65, 0.85, 0.97,
		1.00, 0.97, 0.85, 0.65, 0.45, 0.25,
		0.10, 0, 0, 0, 0, 0,
	}
	westHourFactor = [24]float64{
		0, 0, 0, 0, 0, 0,
		0.05, 0.08, 0.12, 0.20, 0.30, 0.40,
		0.55, 0.75, 0.95, 1.00, 0.80, 0.45,
		0.15, 0, 0, 0, 0, 0,
	}
)

// Flat fallbacks when the plan has no wall-clock anchor.
const (
	flatEastFactor  = 0.6
	flatSouthFactor = 1.0
	flatWestFactor  = 0.6
)

// orientationFactors returns (east, south, west) for a clock hour.
// hour < 0 selects the flat fallback factors.
func orientationFactors(hour int) (float64, float64, float64) {
	if hour < 0 {
		return flatEastFactor, flatSouthFactor, flatWestFactor
	}
	h := hour % 24
	return eastHourFactor[h], southHourFactor[h], westHourFactor[h]
}

// stepHour maps a plan step to a clock hour, or -1 when start is zero.
func stepHour(start time.Time, stepHours float64, t int) int {
	if start.IsZero() {
		return -1
	}
	h := float64(start.Hour()) + start.Sub(start.Truncate(time.Hour)).Hours() + float64(t)*stepHours
	return int(math.Floor(h)) % 24
}

// SHGC approximates the solar heat gain coefficient of the glazing
// from its U-value band. Better insulated glass admits less sun.
func (b *Building) SHGC() float64 {
	g := 0.7 - (b.GlassUValue-0.8)*0.2
	if g < 0.3 {
		g = 0.3
	}
	return g
}

// SolarGain returns the passive gain through the oriented glazing in kW
// for a radiation value in W/m2 at the given clock hour (-1 = flat
// factors). Never negative.
func (b *Building) SolarGain(radiation float64, hour int) float64 {
	total := b.GlassEastM2 + b.GlassWestM2 + b.GlassSouthM2
	if total == 0 || radiation <= 0 {
		return 0
	}
	fe, fs, fw := orientationFactors(hour)
	gain := b.SHGC() * (b.GlassEastM2*fe + b.GlassWestM2*fw + b.GlassSouthM2*fs) * radiation / 1000.0
	if gain < 0 {
		gain = 0
	}
	return gain
}

func (b *Building) SolarGainSeries(radiation []float64, start time.Time, stepHours float64) []float64 {
	out := make([]float64, len(radiation))
	for t, r := range radiation {
		out[t] = b.SolarGain(r, stepHour(start, stepHours, t))
	}
	return out
}
