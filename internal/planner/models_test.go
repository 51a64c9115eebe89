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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testBuilding = Building{
	AreaM2:         150,
	CeilingHeightM: 2.5,
	Label:          LabelC,
	Ventilation:    VentilationNatural,
	GlassEastM2:    4,
	GlassWestM2:    4,
	GlassSouthM2:   8,
	GlassUValue:    1.2,
	PVEastWp:       2000,
	PVSouthWp:      3000,
	PVWestWp:       1000,
	PVTiltDeg:      35,
}

func TestCurve_EndpointsAndSlope(t *testing.T) {
	c := Curve{WaterMin: 25, WaterMax: 50, OutdoorMin: -20, OutdoorMax: 15}
	assert.InDelta(t, 50, c.SupplyTemperature(-25), 1e-9)
	assert.InDelta(t, 50, c.SupplyTemperature(-20), 1e-9)
	assert.InDelta(t, 25, c.SupplyTemperature(15), 1e-9)
	assert.InDelta(t, 25, c.SupplyTemperature(20), 1e-9)
	// Halfway between the outdoor anchors sits halfway between the
	// water anchors.
	assert.InDelta(t, 37.5, c.SupplyTemperature(-2.5), 1e-9)
}

func TestBuilding_HTCVentilationShare(t *testing.T) {
	b := testBuilding
	// Envelope: 0.80 W/m2K * 150 m2. Ventilation at 1.0 ACH over a
	// 375 m3 volume: 1.2*1.005*375/3.6 ~ 125.6 W/K.
	htc := b.HTC()
	assert.InDelta(t, 120+125.6, htc, 0.5)

	b.Ventilation = VentilationHeatRecovery
	assert.Less(t, b.HTC(), htc)
}

func TestBuilding_HeatLossNeverNegative(t *testing.T) {
	b := testBuilding
	assert.Greater(t, b.HeatLoss(0), 0.0)
	assert.Equal(t, 0.0, b.HeatLoss(30))
	// Indoor default 20 degC: loss at 10 degC is half the loss at 0.
	assert.InDelta(t, b.HeatLoss(0)/2, b.HeatLoss(10), 1e-9)
}

func TestBuilding_LabelOrdering(t *testing.T) {
	good := testBuilding
	good.Label = LabelAPlusPlusPlus
	bad := testBuilding
	bad.Label = LabelG
	assert.Less(t, good.HTC(), bad.HTC())
}

func TestSolarGain_FlatFactors(t *testing.T) {
	b := testBuilding
	// g = 0.7 - (1.2-0.8)*0.2 = 0.62; areas 4E+8S+4W with flat factors
	// 0.6/1.0/0.6 at 500 W/m2.
	want := 0.62 * (4*0.6 + 8*1.0 + 4*0.6) * 500 / 1000
	assert.InDelta(t, want, b.SolarGain(500, -1), 1e-9)
	assert.Equal(t, 0.0, b.SolarGain(0, -1))
}

func TestSolarGain_TimeOfDayShape(t *testing.T) {
	b := testBuilding
	b.GlassEastM2, b.GlassWestM2, b.GlassSouthM2 = 10, 0, 0
	morning := b.SolarGain(400, 8)
	evening := b.SolarGain(400, 16)
	night := b.SolarGain(400, 2)
	assert.Greater(t, morning, evening)
	assert.Equal(t, 0.0, night)
}

func TestSolarGainSeries_UsesPlanStart(t *testing.T) {
	b := testBuilding
	start := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	series := b.SolarGainSeries([]float64{300, 300, 300}, start, 1.0)
	assert.InDelta(t, b.SolarGain(300, 10), series[0], 1e-9)
	assert.InDelta(t, b.SolarGain(300, 12), series[2], 1e-9)
}

func TestPVProduction_Units(t *testing.T) {
	b := testBuilding
	// At STC radiation with flat factors: (2000*0.6+3000*1.0+1000*0.6)*1.0/1000 W -> kW.
	want := (2000*0.6 + 3000*1.0 + 1000*0.6) / 1000.0
	assert.InDelta(t, want, b.PVProduction(1000, -1), 1e-9)
	assert.Equal(t, 0.0, b.PVProduction(0, -1))
}

func TestPVProduction_TiltDerating(t *testing.T) {
	flat := testBuilding
	flat.PVTiltDeg = 35
	steep := testBuilding
	steep.PVTiltDeg = 70
	assert.Greater(t, flat.PVProduction(800, -1), steep.PVProduction(800, -1))
	assert.InDelta(t, 0.7, tiltEfficiency(90), 1e-9)
	assert.InDelta(t, 1.0, tiltEfficiency(35), 1e-9)
}

func TestDefrostFactor_Anchors(t *testing.T) {
	assert.InDelta(t, 1.0, DefrostFactor(-15, 80), 1e-9)
	assert.InDelta(t, 1.0, DefrostFactor(10, 80), 1e-9)
	assert.InDelta(t, 0.80, DefrostFactor(0, 70), 1e-9)
	assert.InDelta(t, 0.70, DefrostFactor(0, 100), 1e-9)
	assert.InDelta(t, 0.60, DefrostFactor(3, 100), 1e-9)
	// RH 80 sits a third of the way between the 70 and 100 columns.
	assert.InDelta(t, 0.90+(0.80-0.90)/3, DefrostFactor(5, 80), 1e-9)
}

func TestDefrostFactor_BilinearInterior(t *testing.T) {
	// T=1.5 between the 0 and 3 anchors, RH=85 between the columns.
	low := 0.80 + (0.75-0.80)*0.5
	high := 0.70 + (0.60-0.70)*0.5
	want := low + (high-low)*0.5
	assert.InDelta(t, want, DefrostFactor(1.5, 85), 1e-9)
}

func TestDefrostFactor_HumidityClamped(t *testing.T) {
	assert.Equal(t, DefrostFactor(0, 70), DefrostFactor(0, 40))
	assert.Equal(t, DefrostFactor(0, 100), DefrostFactor(0, 120))
}

func TestCOP_SupplyAndFloor(t *testing.T) {
	p := COPParams{Base: 3.8, KFactor: 0.03, OutdoorCoeff: 0.03, Compensation: 0.9}
	warm := p.COP(10, 35, 80)
	hot := p.COP(10, 45, 80)
	assert.Greater(t, warm, hot)

	// Absurd supply temperature bottoms out at the floor.
	steep := COPParams{Base: 1.0, KFactor: 0.5, Compensation: 1.0}
	assert.Equal(t, COPFloor, steep.COP(-5, 70, 80))
}

func TestCOP_OutdoorHelps(t *testing.T) {
	p := COPParams{Base: 3.8, KFactor: 0.03, OutdoorCoeff: 0.03, Compensation: 0.9}
	// Both outside the defrost band.
	assert.Greater(t, p.COP(10, 35, 80), p.COP(8, 35, 80))
}
