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

// ForecastSourceConfig describes one MQTT-fed forecast series.
type ForecastSourceConfig struct {
	Topic       string   `yaml:"topic"`
	JSONEntry   *string  `yaml:"json_entry,omitempty"`
	StepMinutes int      `yaml:"step_minutes,omitempty"` // 0: detect or assume planner step
	Offset      *float64 `yaml:"offset"`
	Scale       *float64 `yaml:"scale"`
}

func (c *ForecastSourceConfig) FillDefaults() {
	if c.Offset == nil {
		c.Offset = GetPTR(0.0)
	}
	if c.Scale == nil {
		c.Scale = GetPTR(1.0)
	}
}

// Configured reports whether the source has a topic to listen on.
func (c *ForecastSourceConfig) Configured() bool {
	return c != nil && c.Topic != ""
}

// ForecastsConfig binds every series the planner consumes to a topic.
// Consumption price, outdoor temperature and radiation are required
// for a plan (heat demand is derived from the building model, which
// needs radiation); everything else is optional.
type ForecastsConfig struct {
	PriceConsumption *ForecastSourceConfig `yaml:"price_consumption"`
	PriceProduction  *ForecastSourceConfig `yaml:"price_production,omitempty"`
	OutdoorTemp      *ForecastSourceConfig `yaml:"outdoor_temperature"`
	Humidity         *ForecastSourceConfig `yaml:"humidity,omitempty"`
	Radiation        *ForecastSourceConfig `yaml:"radiation,omitempty"`
	BaselineLoad     *ForecastSourceConfig `yaml:"baseline_load,omitempty"`
	PVProduction     *ForecastSourceConfig `yaml:"pv_production,omitempty"`
}

func NewForecastsConfig() *ForecastsConfig {
	return &ForecastsConfig{
		PriceConsumption: &ForecastSourceConfig{},
		OutdoorTemp:      &ForecastSourceConfig{},
	}
}

func (c *ForecastsConfig) FillDefaults() {
	for _, s := range []**ForecastSourceConfig{
		&c.PriceConsumption, &c.OutdoorTemp,
	} {
		if *s == nil {
			*s = &ForecastSourceConfig{}
		}
	}
	for _, s := range []*ForecastSourceConfig{
		c.PriceConsumption, c.PriceProduction, c.OutdoorTemp,
		c.Humidity, c.Radiation, c.BaselineLoad, c.PVProduction,
	} {
		if s != nil {
			s.FillDefaults()
		}
	}
}
