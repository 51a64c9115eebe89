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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/antst/hcopt/internal/planner"
)

func TestConfig_FillDefaultsFromEmpty(t *testing.T) {
	cfg := &Config{}
	cfg.FillDefaults()

	assert.Equal(t, defaultMQTTURL, cfg.MQTTConfig.URL)
	assert.Equal(t, defaultControlTopic, cfg.MQTTConfig.ControlTopic)
	assert.Equal(t, defaultHorizonSteps, *cfg.Planner.HorizonSteps)
	assert.Equal(t, defaultStepMinutes, *cfg.Planner.StepMinutes)
	assert.InDelta(t, 1.0, cfg.Planner.StepHours(), 1e-9)
	assert.Equal(t, defaultEnergyLabel, cfg.Building.EnergyLabel)
	assert.InDelta(t, defaultWaterMax, *cfg.Curve.WaterMax, 1e-9)
	require.NotNil(t, cfg.Forecasts.PriceConsumption)
	assert.False(t, cfg.Forecasts.PriceConsumption.Configured())
}

func TestConfig_YamlOverridesKeepDefaultsElsewhere(t *testing.T) {
	raw := `
mqtt:
  url: tcp://broker:1883
planner:
  horizon_steps: 24
  step_minutes: 30
  max_buffer_debt_kwh: 3.5
building:
  area_m2: 90
  energy_label: A+
forecasts:
  price_consumption:
    topic: nordpool/prices
    json_entry: forecast_prices
  outdoor_temperature:
    topic: weather/temperature
    step_minutes: 60
`
	cfg := &Config{}
	require.NoError(t, yaml.Unmarshal([]byte(raw), cfg))
	cfg.FillDefaults()

	assert.Equal(t, "tcp://broker:1883", cfg.MQTTConfig.URL)
	assert.Equal(t, defaultControlTopic, cfg.MQTTConfig.ControlTopic)
	assert.Equal(t, 24, *cfg.Planner.HorizonSteps)
	assert.InDelta(t, 0.5, cfg.Planner.StepHours(), 1e-9)
	assert.InDelta(t, 3.5, *cfg.Planner.MaxBufferDebt, 1e-9)
	assert.InDelta(t, defaultTerminalPenalty, *cfg.Planner.TerminalPenalty, 1e-9)
	assert.InDelta(t, 90, *cfg.Building.AreaM2, 1e-9)
	assert.Equal(t, "A+", cfg.Building.EnergyLabel)
	assert.True(t, cfg.Forecasts.PriceConsumption.Configured())
	assert.Equal(t, "nordpool/prices", cfg.Forecasts.PriceConsumption.Topic)
	require.NotNil(t, cfg.Forecasts.PriceConsumption.JSONEntry)
	assert.InDelta(t, 1.0, *cfg.Forecasts.PriceConsumption.Scale, 1e-9)
	assert.Nil(t, cfg.Forecasts.PVProduction)
}

func TestBuildingConfig_ToModel(t *testing.T) {
	cfg := NewBuildingConfig()
	cfg.EnergyLabel = "B"
	cfg.GlassSouthM2 = GetPTR(12.0)
	b := cfg.ToModel()
	assert.Equal(t, planner.LabelB, b.Label)
	assert.InDelta(t, 12.0, b.GlassSouthM2, 1e-9)
	assert.Equal(t, planner.VentilationNatural, b.Ventilation)
	// Indoor temperature stays on the planner default unless set.
	assert.Equal(t, 0.0, b.IndoorTemp)
}

func TestCurveConfig_ToModel(t *testing.T) {
	cfg := NewCurveConfig()
	c := cfg.ToModel()
	assert.InDelta(t, defaultWaterMin, c.WaterMin, 1e-9)
	assert.InDelta(t, defaultOutdoorMin, c.OutdoorMin, 1e-9)
	assert.InDelta(t, c.WaterMax, c.SupplyTemperature(-30), 1e-9)
}
