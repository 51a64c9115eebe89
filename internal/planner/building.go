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

import "fmt"

// EnergyLabel is the building's energy performance label.
type EnergyLabel string

const (
	LabelAPlusPlusPlus EnergyLabel = "A+++"
	LabelAPlusPlus     EnergyLabel = "A++"
	LabelAPlus         EnergyLabel = "A+"
	LabelA             EnergyLabel = "A"
	LabelB             EnergyLabel = "B"
	LabelC             EnergyLabel = "C"
	LabelD             EnergyLabel = "D"
	LabelE             EnergyLabel = "E"
	LabelF             EnergyLabel = "F"
	LabelG             EnergyLabel = "G"
)

// Average envelope U-value per energy label, W/(m2*K).
var uValueByLabel = map[EnergyLabel]float64{
	LabelAPlusPlusPlus: 0.18,
	LabelAPlusPlus:     0.25,
	LabelAPlus:         0.35,
	LabelA:             0.45,
	LabelB:             0.60,
	LabelC:             0.80,
	LabelD:             1.00,
	LabelE:             1.40,
	LabelF:             1.80,
	LabelG:             2.50,
}

// VentilationType selects the air-change model of the dwelling.
type VentilationType string

const (
	VentilationNatural           VentilationType = "natural_standard"
	VentilationMechanicalExhaust VentilationType = "mechanical_exhaust"
	VentilationBalanced          VentilationType = "balanced"
	VentilationHeatRecovery      VentilationType = "heat_recovery_70"
)

// Effective air changes per hour. Heat recovery runs a balanced system
// that returns 70% of the exhaust heat, so its effective rate of 0.3
// sits far below the nominal air change rate.
var airChangesByVentilation = map[VentilationType]float64{
	VentilationNatural:           1.0,
	VentilationMechanicalExhaust: 0.9,
	VentilationBalanced:          0.85,
	VentilationHeatRecovery:      0.3,
}

const (
	// rho*cp of air divided by 3600 s/h, W per (m3 * K * ACH).
	ventilationCoeff = 1.2 * 1.005 * 1000.0 / 3600.0

	DefaultIndoorTemp = 20.0
)

// Building carries the static envelope, glazing and PV parameters of
// the dwelling.
type Building struct {
	AreaM2         float64
	CeilingHeightM float64
	Label          EnergyLabel
	Ventilation    VentilationType
	IndoorTemp     float64

	GlassEastM2  float64
	GlassWestM2  float64
	GlassSouthM2 float64
	GlassUValue  float64

	PVEastWp  float64
	PVSouthWp float64
	PVWestWp  float64
	PVTiltDeg float64
}

func (b *Building) validate() error {
	if b.AreaM2 <= 0 {
		return fmt.Errorf("area must be positive, got %.1f", b.AreaM2)
	}
	if b.CeilingHeightM <= 0 {
		return fmt.Errorf("ceiling height must be positive, got %.2f", b.CeilingHeightM)
	}
	if _, ok := uValueByLabel[b.Label]; !ok {
		return fmt.Errorf("unknown energy label %q", b.Label)
	}
	if _, ok := airChangesByVentilation[b.Ventilation]; !ok {
		return fmt.Errorf("unknown ventilation type %q", b.Ventilation)
	}
	if b.GlassEastM2 < 0 || b.GlassWestM2 < 0 || b.GlassSouthM2 < 0 ||
		b.PVEastWp < 0 || b.PVSouthWp < 0 || b.PVWestWp < 0 {
		return fmt.Errorf("glass areas and PV capacities must be non-negative")
	}
	return nil
}

func (b *Building) indoor() float64 {
	if b.IndoorTemp == 0 {
		return DefaultIndoorTemp
	}
	return b.IndoorTemp
}

// HTC returns the heat transfer coefficient of the dwelling in W/K:
// envelope conduction from the label's U-value plus ventilation losses
// over the heated volume.
func (b *Building) HTC() float64 {
	envelope := uValueByLabel[b.Label] * b.AreaM2
	ventilation := ventilationCoeff * airChangesByVentilation[b.Ventilation] * b.AreaM2 * b.CeilingHeightM
	return envelope + ventilation
}

// HeatLoss returns the instantaneous transmission+ventilation loss in
// kW for one outdoor temperature. Never negative.
func (b *Building) HeatLoss(outdoor float64) float64 {
	dT := b.indoor() - outdoor
	if dT < 0 {
		dT = 0
	}
	return b.HTC() * dT / 1000.0
}

func (b *Building) HeatLossSeries(outdoor []float64) []float64 {
	out := make([]float64, len(outdoor))
	for i, t := range outdoor {
		out[i] = b.HeatLoss(t)
	}
	return out
}
