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

import "time"

const pvReferenceTilt = 35.0

// tiltEfficiency derates panel output as the tilt moves away from the
// reference angle. Clamped to [0.7, 1.0].
func tiltEfficiency(tiltDeg float64) float64 {
	eta := 1.0 - abs(tiltDeg-pvReferenceTilt)*0.01
	if eta < 0.7 {
		eta = 0.7
	}
	if eta > 1.0 {
		eta = 1.0
	}
	return eta
}

// PVProduction estimates panel output in kW from a radiation value in
// W/m2 at the given clock hour, sharing the orientation factors of the
// solar-gain model. Used as a fallback when no production forecast is
// supplied.
func (b *Building) PVProduction(radiation float64, hour int) float64 {
	total := b.PVEastWp + b.PVSouthWp + b.PVWestWp
	if total == 0 || radiation <= 0 {
		return 0
	}
	fe, fs, fw := orientationFactors(hour)
	// radiation/1000 is the fraction of STC irradiance, the second
	// division converts Wp to kW.
	prod := radiation * (b.PVEastWp*fe + b.PVSouthWp*fs + b.PVWestWp*fw) * tiltEfficiency(b.PVTiltDeg) / 1000.0 / 1000.0
	if prod < 0 {
		prod = 0
	}
	return prod
}

func (b *Building) PVProductionSeries(radiation []float64, start time.Time, stepHours float64) []float64 {
	out := make([]float64, len(radiation))
	for t, r := range radiation {
		out[t] = b.PVProduction(r, stepHour(start, stepHours, t))
	}
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
