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

// Result is the outcome of one planning run. With StatusOK every
// forecast vector has horizon length and the documented invariants
// hold; with other statuses the vectors describe the fallback plan (or
// are empty for a cancelled run).
type Result struct {
	Status Status `json:"status"`

	Offsets    []int     `json:"offsets"`
	Buffer     []float64 `json:"buffer"`
	SupplyTemp []float64 `json:"supply_temp"`
	COP        []float64 `json:"cop"`

	CostPerStep     []float64 `json:"cost_per_step"`
	TotalCost       float64   `json:"total_cost"`
	TerminalPenalty float64   `json:"terminal_penalty"`

	BaselineCostPerStep     []float64 `json:"baseline_cost_per_step"`
	BaselineCost            float64   `json:"baseline_cost"`
	BaselineTerminalPenalty float64   `json:"baseline_terminal_penalty"`

	SavingsPerStep []float64 `json:"savings_per_step"`
	TotalSavings   float64   `json:"total_savings"`

	Warnings []string `json:"warnings,omitempty"`
}

// CurrentOffset is the offset to apply now: the head of the offset
// sequence (the initial offset for an infeasible fallback), or 0 when
// the result carries no offsets, as for a cancelled run.
func (r *Result) CurrentOffset() int {
	if len(r.Offsets) == 0 {
		return 0
	}
	return r.Offsets[0]
}

// trajectory is a forward recomputation of one offset sequence using
// the same transition rules as the DP.
type trajectory struct {
	buffer []float64
	cost   []float64
	cop    []float64
	total  float64
	final  float64
}

func computeTrajectory(m *model, offsets []int) trajectory {
	n := len(offsets)
	tr := trajectory{
		buffer: make([]float64, n),
		cost:   make([]float64, n),
		cop:    make([]float64, n),
	}
	buf := m.in.InitialBuffer
	for t := 0; t < n; t++ {
		buf += m.bufferDelta(t, offsets[t])
		cost, _ := m.stepCost(t, offsets[t])
		tr.buffer[t] = buf
		tr.cost[t] = cost
		tr.cop[t] = m.cop(t, offsets[t])
		tr.total += cost
	}
	tr.final = buf
	return tr
}

// extract rebuilds the chosen plan from scratch, independent of the DP
// table, and verifies the output invariants. Any violation downgrades
// the run to infeasible rather than silently clamping.
func extract(m *model, offsets []int, warns []string) *Result {
	in := m.in

	if reason := verify(m, offsets); reason != "" {
		return infeasibleResult(in, append(warns, "extracted plan violates invariants: "+reason))
	}

	plan := computeTrajectory(m, offsets)
	baseline := computeTrajectory(m, make([]int, in.HorizonSteps))

	supply := make([]float64, in.HorizonSteps)
	for t, off := range offsets {
		supply[t] = in.BaseSupplyTemp[t] + float64(off)
	}

	savings := make([]float64, in.HorizonSteps)
	total := 0.0
	for t := range savings {
		savings[t] = baseline.cost[t] - plan.cost[t]
		total += savings[t]
	}

	if !allFinite(plan.cost) || !allFinite(plan.buffer) || !allFinite(baseline.cost) {
		return infeasibleResult(in, append(warns, "non-finite value while extracting the plan"))
	}

	return &Result{
		Status:                  StatusOK,
		Offsets:                 offsets,
		Buffer:                  plan.buffer,
		SupplyTemp:              supply,
		COP:                     plan.cop,
		CostPerStep:             plan.cost,
		TotalCost:               plan.total,
		TerminalPenalty:         in.TerminalPenalty * abs(plan.final),
		BaselineCostPerStep:     baseline.cost,
		BaselineCost:            baseline.total,
		BaselineTerminalPenalty: in.TerminalPenalty * abs(baseline.final),
		SavingsPerStep:          savings,
		TotalSavings:            total,
		Warnings:                warns,
	}
}

// verify checks the invariants of an OK plan: supply window, bounded
// offset changes, the debt floor, and the COP floor.
func verify(m *model, offsets []int) string {
	in := m.in
	buf := in.InitialBuffer
	for t, off := range offsets {
		if !m.admissible(t, off) {
			return fmt.Sprintf("offset %d outside the supply window at step %d", off, t)
		}
		if t > 0 && intAbs(off-offsets[t-1]) > in.OffsetStepMax {
			return fmt.Sprintf("offset change %d exceeds limit at step %d", off-offsets[t-1], t)
		}
		buf += m.bufferDelta(t, off)
		if buf < -in.MaxBufferDebt-debtEps {
			return fmt.Sprintf("buffer %.3f below debt limit at step %d", buf, t)
		}
		if m.cop(t, off) < COPFloor {
			return fmt.Sprintf("COP below floor at step %d", t)
		}
	}
	return ""
}

// infeasibleResult is the infeasible-run fallback: the initial offset
// broadcast over the horizon at zero predicted cost.
func infeasibleResult(in *Input, warns []string) *Result {
	n := in.HorizonSteps
	offsets := make([]int, n)
	for t := range offsets {
		offsets[t] = in.InitialOffset
	}
	r := &Result{
		Status:              StatusInfeasible,
		Offsets:             offsets,
		Buffer:              broadcast(in.InitialBuffer, n),
		CostPerStep:         broadcast(0, n),
		BaselineCostPerStep: broadcast(0, n),
		SavingsPerStep:      broadcast(0, n),
		Warnings:            warns,
	}
	if len(in.BaseSupplyTemp) == n {
		r.SupplyTemp = make([]float64, n)
		for t := range r.SupplyTemp {
			r.SupplyTemp[t] = in.BaseSupplyTemp[t] + float64(in.InitialOffset)
		}
	}
	return r
}

// degenerateResult reports the no-heating-needed case: all-zero
// offsets, untouched buffer, zero cost.
func degenerateResult(m *model, warns []string) *Result {
	in := m.in
	n := in.HorizonSteps
	cop := make([]float64, n)
	supply := make([]float64, n)
	for t := 0; t < n; t++ {
		supply[t] = in.BaseSupplyTemp[t]
		cop[t] = m.cop(t, 0)
	}
	return &Result{
		Status:              StatusDegenerateFlat,
		Offsets:             make([]int, n),
		Buffer:              broadcast(in.InitialBuffer, n),
		SupplyTemp:          supply,
		COP:                 cop,
		CostPerStep:         broadcast(0, n),
		BaselineCostPerStep: broadcast(0, n),
		SavingsPerStep:      broadcast(0, n),
		Warnings:            warns,
	}
}
