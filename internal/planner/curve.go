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

// Curve is the four-parameter piecewise-linear heating curve mapping
// outdoor temperature to a base supply-water temperature. Below
// OutdoorMin the supply is pinned at WaterMax, above OutdoorMax at
// WaterMin.
type Curve struct {
	WaterMin   float64
	WaterMax   float64
	OutdoorMin float64
	OutdoorMax float64
}

func (c Curve) SupplyTemperature(outdoor float64) float64 {
	if outdoor <= c.OutdoorMin {
		return c.WaterMax
	}
	if outdoor >= c.OutdoorMax {
		return c.WaterMin
	}
	ratio := (outdoor - c.OutdoorMin) / (c.OutdoorMax - c.OutdoorMin)
	return c.WaterMax + (c.WaterMin-c.WaterMax)*ratio
}

// BaseSeries evaluates the curve over an outdoor temperature forecast.
func (c Curve) BaseSeries(outdoor []float64) []float64 {
	base := make([]float64, len(outdoor))
	for i, t := range outdoor {
		base[i] = c.SupplyTemperature(t)
	}
	return base
}
