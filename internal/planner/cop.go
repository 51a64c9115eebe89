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

// COPFloor is the hard lower bound on the modeled coefficient of
// performance.
const COPFloor = 0.5

const copReferenceSupply = 35.0

// Default COP model parameters for a modern air/water heat pump.
const (
	DefaultCOPBase      = 4.2
	DefaultKFactor      = 0.11
	DefaultOutdoorCoeff = 0.03
	DefaultHumidity     = 80.0
)

// COPParams parameterizes the supply/outdoor-temperature dependence of
// the heat pump's coefficient of performance.
type COPParams struct {
	Base         float64 // COP at 35 degC supply, 0 degC outdoor
	KFactor      float64 // COP lost per degC of supply above 35
	OutdoorCoeff float64 // COP gained per degC of outdoor temperature
	Compensation float64 // unit-specific correction multiplier
}

func (p COPParams) withDefaults() COPParams {
	if p.Base == 0 {
		p.Base = DefaultCOPBase
	}
	if p.KFactor == 0 {
		p.KFactor = DefaultKFactor
	}
	if p.Compensation == 0 {
		p.Compensation = 1.0
	}
	return p
}

// COP returns the defrost-adjusted coefficient of performance, never
// below COPFloor.
func (p COPParams) COP(outdoor, supply, humidity float64) float64 {
	raw := (p.Base + p.OutdoorCoeff*outdoor - p.KFactor*(supply-copReferenceSupply)) * p.Compensation
	cop := raw * DefrostFactor(outdoor, humidity)
	if cop < COPFloor {
		return COPFloor
	}
	return cop
}

// Defrost derating anchors. Frost builds on the evaporator between
// -10 and +6 degC, worst around 0..3 degC in humid air.
var (
	defrostTemps = [6]float64{-10, -7, 0, 3, 5, 6}
	defrostAt70  = [6]float64{1.00, 0.92, 0.80, 0.75, 0.90, 1.00}
	defrostAt100 = [6]float64{1.00, 0.88, 0.70, 0.60, 0.80, 1.00}
)

// DefrostFactor returns the COP multiplier for defrost losses,
// bilinearly interpolated over outdoor temperature and relative
// humidity. Unity outside the frosting band.
func DefrostFactor(outdoor, humidity float64) float64 {
	if outdoor <= defrostTemps[0] || outdoor >= defrostTemps[len(defrostTemps)-1] {
		return 1.0
	}
	if humidity < 70 {
		humidity = 70
	}
	if humidity > 100 {
		humidity = 100
	}

	i := 0
	for outdoor > defrostTemps[i+1] {
		i++
	}
	span := defrostTemps[i+1] - defrostTemps[i]
	frac := (outdoor - defrostTemps[i]) / span

	low := defrostAt70[i] + (defrostAt70[i+1]-defrostAt70[i])*frac
	high := defrostAt100[i] + (defrostAt100[i+1]-defrostAt100[i])*frac

	hfrac := (humidity - 70) / 30.0
	return low + (high-low)*hfrac
}
