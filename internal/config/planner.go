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

const (
	defaultHorizonSteps      = 12
	defaultStepMinutes       = 60
	defaultPlanIntervalMin   = 15
	defaultOffsetMin         = -4
	defaultOffsetMax         = 4
	defaultOffsetStepMax     = 1
	defaultStorageEfficiency = 0.5
	defaultMaxBufferDebt     = 5.0
	defaultTerminalPenalty   = 0.01
	defaultCOPBase           = 4.2
	defaultKFactor           = 0.11
	defaultOutdoorCoeff      = 0.03
	defaultCOPCompensation   = 1.0
	defaultHumidity          = 80.0
)

// PlannerConfig carries the optimization tunables.
type PlannerConfig struct {
	HorizonSteps    *int     `yaml:"horizon_steps"`
	StepMinutes     *int     `yaml:"step_minutes"`
	PlanIntervalMin *int     `yaml:"plan_interval_minutes"`
	OffsetMin       *int     `yaml:"offset_min"`
	OffsetMax       *int     `yaml:"offset_max"`
	OffsetStepMax   *int     `yaml:"offset_step_max"`
	StorageEta      *float64 `yaml:"storage_efficiency"`
	MaxBufferDebt   *float64 `yaml:"max_buffer_debt_kwh"`
	TerminalPenalty *float64 `yaml:"terminal_penalty_lambda"`
	COPBase         *float64 `yaml:"cop_base"`
	KFactor         *float64 `yaml:"k_factor"`
	OutdoorCoeff    *float64 `yaml:"outdoor_coefficient"`
	COPCompensation *float64 `yaml:"cop_compensation_factor"`
	HumidityDefault *float64 `yaml:"humidity_default"`
}

func NewPlannerConfig() *PlannerConfig {
	cfg := &PlannerConfig{}
	cfg.FillDefaults()
	return cfg
}

func (c *PlannerConfig) FillDefaults() {
	if c.HorizonSteps == nil {
		c.HorizonSteps = GetPTR(defaultHorizonSteps)
	}
	if c.StepMinutes == nil {
		c.StepMinutes = GetPTR(defaultStepMinutes)
	}
	if c.PlanIntervalMin == nil {
		c.PlanIntervalMin = GetPTR(defaultPlanIntervalMin)
	}
	if c.OffsetMin == nil {
		c.OffsetMin = GetPTR(defaultOffsetMin)
	}
	if c.OffsetMax == nil {
		c.OffsetMax = GetPTR(defaultOffsetMax)
	}
	if c.OffsetStepMax == nil {
		c.OffsetStepMax = GetPTR(defaultOffsetStepMax)
	}
	if c.StorageEta == nil {
		c.StorageEta = GetPTR(defaultStorageEfficiency)
	}
	if c.MaxBufferDebt == nil {
		c.MaxBufferDebt = GetPTR(defaultMaxBufferDebt)
	}
	if c.TerminalPenalty == nil {
		c.TerminalPenalty = GetPTR(defaultTerminalPenalty)
	}
	if c.COPBase == nil {
		c.COPBase = GetPTR(defaultCOPBase)
	}
	if c.KFactor == nil {
		c.KFactor = GetPTR(defaultKFactor)
	}
	if c.OutdoorCoeff == nil {
		c.OutdoorCoeff = GetPTR(defaultOutdoorCoeff)
	}
	if c.COPCompensation == nil {
		c.COPCompensation = GetPTR(defaultCOPCompensation)
	}
	if c.HumidityDefault == nil {
		c.HumidityDefault = GetPTR(defaultHumidity)
	}
}

// StepHours is the planner step expressed in hours.
func (c *PlannerConfig) StepHours() float64 {
	return float64(*c.StepMinutes) / 60.0
}
