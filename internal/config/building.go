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

package config

import "github.com/antst/hcopt/internal/planner"

const (
	defaultAreaM2        = 120.0
	defaultCeilingHeight = 2.5
	defaultEnergyLabel   = "C"
	defaultVentilation   = "natural_standard"
	defaultGlassUValue   = 1.2
	defaultPVTiltDeg     = 35.0
)

// BuildingConfig describes the dwelling the planner models.
type BuildingConfig struct {
	AreaM2         *float64 `yaml:"area_m2"`
	CeilingHeightM *float64 `yaml:"ceiling_height_m"`
	EnergyLabel    string   `yaml:"energy_label"`
	Ventilation    string   `yaml:"ventilation_type"`
	IndoorTemp     *float64 `yaml:"indoor_temperature,omitempty"`

	GlassEastM2  *float64 `yaml:"glass_east_m2"`
	GlassWestM2  *float64 `yaml:"glass_west_m2"`
	GlassSouthM2 *float64 `yaml:"glass_south_m2"`
	GlassUValue  *float64 `yaml:"glass_u_value"`

	PVEastWp  *float64 `yaml:"pv_east_wp"`
	PVSouthWp *float64 `yaml:"pv_south_wp"`
	PVWestWp  *float64 `yaml:"pv_west_wp"`
	PVTiltDeg *float64 `yaml:"pv_tilt_deg"`
}

func NewBuildingConfig() *BuildingConfig {
	cfg := &BuildingConfig{}
	cfg.FillDefaults()
	return cfg
}

func (c *BuildingConfig) FillDefaults() {
	if c.AreaM2 == nil {
		c.AreaM2 = GetPTR(defaultAreaM2)
	}
	if c.CeilingHeightM == nil {
		c.CeilingHeightM = GetPTR(defaultCeilingHeight)
	}
	if c.EnergyLabel == "" {
		c.EnergyLabel = defaultEnergyLabel
	}
	if c.Ventilation == "" {
		c.Ventilation = defaultVentilation
	}
	if c.GlassEastM2 == nil {
		c.GlassEastM2 = GetPTR(0.0)
	}
	if c.GlassWestM2 == nil {
		c.GlassWestM2 = GetPTR(0.0)
	}
	if c.GlassSouthM2 == nil {
		c.GlassSouthM2 = GetPTR(0.0)
	}
	if c.GlassUValue == nil {
		c.GlassUValue = GetPTR(defaultGlassUValue)
	}
	if c.PVEastWp == nil {
		c.PVEastWp = GetPTR(0.0)
	}
	if c.PVSouthWp == nil {
		c.PVSouthWp = GetPTR(0.0)
	}
	if c.PVWestWp == nil {
		c.PVWestWp = GetPTR(0.0)
	}
	if c.PVTiltDeg == nil {
		c.PVTiltDeg = GetPTR(defaultPVTiltDeg)
	}
}

// ToModel converts the yaml view into the planner's building record.
func (c *BuildingConfig) ToModel() *planner.Building {
	b := &planner.Building{
		AreaM2:         *c.AreaM2,
		CeilingHeightM: *c.CeilingHeightM,
		Label:          planner.EnergyLabel(c.EnergyLabel),
		Ventilation:    planner.VentilationType(c.Ventilation),
		GlassEastM2:    *c.GlassEastM2,
		GlassWestM2:    *c.GlassWestM2,
		GlassSouthM2:   *c.GlassSouthM2,
		GlassUValue:    *c.GlassUValue,
		PVEastWp:       *c.PVEastWp,
		PVSouthWp:      *c.PVSouthWp,
		PVWestWp:       *c.PVWestWp,
		PVTiltDeg:      *c.PVTiltDeg,
	}
	if c.IndoorTemp != nil {
		b.IndoorTemp = *c.IndoorTemp
	}
	return b
}

const (
	defaultWaterMin   = 25.0
	defaultWaterMax   = 50.0
	defaultOutdoorMin = -20.0
	defaultOutdoorMax = 15.0
)

// CurveConfig holds the four heating-curve anchors.
type CurveConfig struct {
	WaterMin   *float64 `yaml:"water_min"`
	WaterMax   *float64 `yaml:"water_max"`
	OutdoorMin *float64 `yaml:"outdoor_min"`
	OutdoorMax *float64 `yaml:"outdoor_max"`
}

func NewCurveConfig() *CurveConfig {
	cfg := &CurveConfig{}
	cfg.FillDefaults()
	return cfg
}

func (c *CurveConfig) FillDefaults() {
	if c.WaterMin == nil {
		c.WaterMin = GetPTR(defaultWaterMin)
	}
	if c.WaterMax == nil {
		c.WaterMax = GetPTR(defaultWaterMax)
	}
	if c.OutdoorMin == nil {
		c.OutdoorMin = GetPTR(defaultOutdoorMin)
	}
	if c.OutdoorMax == nil {
		c.OutdoorMax = GetPTR(defaultOutdoorMax)
	}
}

func (c *CurveConfig) ToModel() planner.Curve {
	return planner.Curve{
		WaterMin:   *c.WaterMin,
		WaterMax:   *c.WaterMax,
		OutdoorMin: *c.OutdoorMin,
		OutdoorMax: *c.OutdoorMax,
	}
}
