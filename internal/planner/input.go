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

	"github.com/pkg/errors"
)

// Status classifies the outcome of a planning run.
type Status string

const (
	StatusOK             Status = "ok"
	StatusDegenerateFlat Status = "degenerate_flat"
	StatusInfeasible     Status = "infeasible"
	StatusCancelled      Status = "cancelled"
)

const (
	MaxHorizonSteps = 96
	MaxStepHours    = 2.0

	DefaultOffsetMin         = -4
	DefaultOffsetMax         = 4
	DefaultOffsetStepMax     = 1
	DefaultStorageEfficiency = 0.5
	DefaultMaxBufferDebt     = 5.0
	DefaultTerminalPenalty   = 0.01
)

// Input is the immutable record a planning run operates on. All series
// are aligned to HorizonSteps samples of StepHours each; nil marks an
// optional series as absent. The planner never mutates an Input.
type Input struct {
	HorizonSteps int
	StepHours    float64

	// PlanStart anchors step 0 to wall-clock time for the time-of-day
	// orientation factors. Zero value selects flat factors.
	PlanStart time.Time

	BaseSupplyTemp   []float64
	OutdoorTemp      []float64
	Radiation        []float64
	Humidity         []float64 // nil: DefaultHumidity
	PriceConsumption []float64
	PriceProduction  []float64 // nil: consumption price is used for exports
	BaselineLoad     []float64 // nil: zero household base load
	PVProduction     []float64 // nil: derived from Building when it has panels

	// NetDemand short-circuits the heat-loss and solar-gain models with
	// a precomputed net heat demand in kW. When nil it is derived from
	// Building, OutdoorTemp and Radiation.
	NetDemand []float64

	Building *Building

	COP COPParams

	WaterMin float64
	WaterMax float64

	OffsetMin     int
	OffsetMax     int
	OffsetStepMax int

	StorageEfficiency float64 // (0,1], coupling between offset and banked heat
	MaxBufferDebt     float64 // kWh, lower bound on the buffer is -MaxBufferDebt
	TerminalPenalty   float64 // per-kWh weight on the final buffer magnitude

	InitialOffset int
	InitialBuffer float64
}

// withDefaults returns a copy with defaults applied to the zero-valued
// offset window, offset step limit, storage efficiency and COP base,
// k-factor and compensation. The zero offset window means "not set".
// MaxBufferDebt, TerminalPenalty and COP.OutdoorCoeff keep a zero value,
// which is a valid setting for each of them.
func (in *Input) withDefaults() *Input {
	c := *in
	if c.OffsetMin == 0 && c.OffsetMax == 0 {
		c.OffsetMin, c.OffsetMax = DefaultOffsetMin, DefaultOffsetMax
	}
	if c.OffsetStepMax == 0 {
		c.OffsetStepMax = DefaultOffsetStepMax
	}
	if c.StorageEfficiency == 0 {
		c.StorageEfficiency = DefaultStorageEfficiency
	}
	c.COP = c.COP.withDefaults()
	return &c
}

// Validate rejects malformed inputs: out-of-range parameters and
// length mismatches on present series. A required series that is
// entirely absent is not a validation error; Plan reports it as an
// infeasible run instead.
func (in *Input) Validate() error {
	if in.HorizonSteps < 1 || in.HorizonSteps > MaxHorizonSteps {
		return errors.Errorf("horizon_steps %d outside [1, %d]", in.HorizonSteps, MaxHorizonSteps)
	}
	if in.StepHours <= 0 || in.StepHours > MaxStepHours {
		return errors.Errorf("step_hours %.3f outside (0, %.1f]", in.StepHours, MaxStepHours)
	}
	d := in.withDefaults()
	if d.WaterMin >= d.WaterMax {
		return errors.Errorf("water_min %.1f must be below water_max %.1f", d.WaterMin, d.WaterMax)
	}
	if d.OffsetMin > d.OffsetMax {
		return errors.Errorf("offset_min %d above offset_max %d", d.OffsetMin, d.OffsetMax)
	}
	if d.OffsetStepMax < 1 {
		return errors.Errorf("offset_step_max must be at least 1, got %d", d.OffsetStepMax)
	}
	if d.StorageEfficiency <= 0 || d.StorageEfficiency > 1 {
		return errors.Errorf("storage_efficiency %.3f outside (0, 1]", d.StorageEfficiency)
	}
	if d.MaxBufferDebt < 0 {
		return errors.Errorf("max_buffer_debt must be non-negative, got %.2f", d.MaxBufferDebt)
	}
	if d.TerminalPenalty < 0 {
		return errors.Errorf("terminal_penalty must be non-negative, got %.4f", d.TerminalPenalty)
	}
	if d.InitialOffset < d.OffsetMin || d.InitialOffset > d.OffsetMax {
		return errors.Errorf("initial_offset %d outside [%d, %d]", d.InitialOffset, d.OffsetMin, d.OffsetMax)
	}
	if d.InitialBuffer < -d.MaxBufferDebt {
		return errors.Errorf("initial_buffer %.2f below debt limit %.2f", d.InitialBuffer, -d.MaxBufferDebt)
	}
	if !isFinite(d.InitialBuffer) {
		return errors.New("initial_buffer is not finite")
	}

	for _, s := range []struct {
		name string
		vals []float64
	}{
		{"base_supply_temp", in.BaseSupplyTemp},
		{"outdoor_temp", in.OutdoorTemp},
		{"radiation", in.Radiation},
		{"humidity", in.Humidity},
		{"price_consumption", in.PriceConsumption},
		{"price_production", in.PriceProduction},
		{"baseline_load", in.BaselineLoad},
		{"pv_production", in.PVProduction},
		{"net_demand", in.NetDemand},
	} {
		if s.vals != nil && len(s.vals) != in.HorizonSteps {
			return errors.Errorf("%s length %d does not match horizon %d", s.name, len(s.vals), in.HorizonSteps)
		}
	}

	if in.Building != nil {
		if err := in.Building.validate(); err != nil {
			return errors.WithMessage(err, "building")
		}
	}
	return nil
}

// missingSeries names the required forecasts that are absent, which
// turns the run infeasible rather than invalid.
func (in *Input) missingSeries() []string {
	var missing []string
	if len(in.BaseSupplyTemp) == 0 {
		missing = append(missing, "base_supply_temp")
	}
	if len(in.OutdoorTemp) == 0 {
		missing = append(missing, "outdoor_temp")
	}
	if len(in.PriceConsumption) == 0 {
		missing = append(missing, "price_consumption")
	}
	if len(in.NetDemand) == 0 {
		if in.Building == nil {
			missing = append(missing, "net_demand")
		} else if len(in.Radiation) == 0 {
			missing = append(missing, "radiation")
		}
	}
	return missing
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func allFinite(vals []float64) bool {
	for _, v := range vals {
		if !isFinite(v) {
			return false
		}
	}
	return true
}
