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

// Package planner computes cost-optimal heating-curve offset sequences
// for a heat pump over a short planning horizon. It is a pure library:
// a Plan call is a deterministic function of its Input, performs no
// I/O, and owns no global state.
package planner

import (
	"context"
	"sort"
)

const debtEps = 1e-9

// model bundles the per-step series a planning run evaluates against.
// All slices are horizon-length and never mutated.
type model struct {
	in       *Input
	demand   []float64 // net heat demand, kW (negative = surplus gain)
	pv       []float64 // household PV production, kW
	baseLoad []float64 // household baseline load, kW
	humidity []float64
}

func (m *model) admissible(t, off int) bool {
	if off < m.in.OffsetMin || off > m.in.OffsetMax {
		return false
	}
	supply := m.in.BaseSupplyTemp[t] + float64(off)
	return supply >= m.in.WaterMin-debtEps && supply <= m.in.WaterMax+debtEps
}

func (m *model) cop(t, off int) float64 {
	supply := m.in.BaseSupplyTemp[t] + float64(off)
	return m.in.COP.COP(m.in.OutdoorTemp[t], supply, m.humidity[t])
}

// bufferDelta is the thermal energy exchanged with the building mass in
// one step, kWh. Surplus gain is banked in full; otherwise the offset
// couples linearly into the mass via the storage efficiency.
func (m *model) bufferDelta(t, off int) float64 {
	d := m.demand[t]
	if d < 0 {
		return -d * m.in.StepHours
	}
	if d == 0 {
		return 0
	}
	return float64(off) * d * m.in.StorageEfficiency * m.in.StepHours
}

// stepCost prices one step at the chosen offset. Positive offsets
// increase the heat the pump delivers (banking the excess), negative
// ones let the banked buffer cover part of the demand. The electrical
// draw is priced with the consumption tariff while the household is a
// net importer and with the feed-in tariff otherwise.
func (m *model) stepCost(t, off int) (cost, electricity float64) {
	d := m.demand[t]
	if d <= 0 {
		return 0, 0
	}
	q := d*m.in.StepHours + m.bufferDelta(t, off)
	if q < 0 {
		q = 0
	}
	electricity = q / m.cop(t, off)
	price := m.in.PriceConsumption[t]
	if m.in.PriceProduction != nil {
		balance := m.baseLoad[t] + electricity/m.in.StepHours - m.pv[t]
		if balance < 0 {
			price = m.in.PriceProduction[t]
		}
	}
	return electricity * price, electricity
}

// dpEntry is one reachable DP state: cheapest known way to be at a
// given (offset, cumulative-offset-sum) pair after a step, with the
// exact buffer it arrives with.
type dpEntry struct {
	cost    float64
	prevOff int
	prevSum int
	buffer  float64
}

// betterEntry orders candidates for the same (offset, sum) key: cost
// first, then the smaller offset change, then the smaller previous
// cumulative sum for a stable, deterministic table.
func betterEntry(a, b dpEntry, off int) bool {
	if a.cost != b.cost {
		return a.cost < b.cost
	}
	da, db := intAbs(off-a.prevOff), intAbs(off-b.prevOff)
	if da != db {
		return da < db
	}
	if a.prevSum != b.prevSum {
		return a.prevSum < b.prevSum
	}
	return a.prevOff < b.prevOff
}

// Plan runs the offset optimization over the input's horizon. The
// returned error is non-nil only for a malformed input; every runtime
// condition (missing forecasts, infeasible constraints, cancellation,
// numeric trouble) is encoded in the result status and warnings.
func Plan(ctx context.Context, raw *Input) (*Result, error) {
	if err := raw.Validate(); err != nil {
		return nil, err
	}
	in := raw.withDefaults()

	if missing := in.missingSeries(); len(missing) > 0 {
		warns := make([]string, 0, len(missing))
		for _, name := range missing {
			warns = append(warns, "forecast unavailable: "+name)
		}
		return infeasibleResult(in, warns), nil
	}

	m, warns, ok := buildModel(in)
	if !ok {
		return infeasibleResult(in, warns), nil
	}

	// Trivially no heating needed over the whole horizon.
	needed := 0.0
	for _, d := range m.demand {
		if d > 0 {
			needed += d * in.StepHours
		}
	}
	if needed <= 0 {
		return degenerateResult(m, warns), nil
	}

	// Drop offsets that violate the supply window at every step; bail
	// out when a step admits no offset at all.
	var global []int
	for off := in.OffsetMin; off <= in.OffsetMax; off++ {
		for t := 0; t < in.HorizonSteps; t++ {
			if m.admissible(t, off) {
				global = append(global, off)
				break
			}
		}
	}
	if len(global) == 0 {
		return infeasibleResult(in, append(warns, "no admissible offset within the supply-temperature window")), nil
	}
	for t := 0; t < in.HorizonSteps; t++ {
		found := false
		for _, off := range global {
			if m.admissible(t, off) {
				found = true
				break
			}
		}
		if !found {
			return infeasibleResult(in, append(warns, "no admissible offset at some step")), nil
		}
	}
	if len(global) == 1 {
		forced := make([]int, in.HorizonSteps)
		for t := range forced {
			forced[t] = global[0]
		}
		warns = append(warns, "admissible offset set reduced to a single value, optimization trivial")
		return extract(m, forced, warns), nil
	}

	table, cancelled, numTrouble := runDP(ctx, m)
	if cancelled {
		return &Result{Status: StatusCancelled}, nil
	}
	if numTrouble {
		warns = append(warns, "non-finite intermediate dropped during optimization")
	}

	last := table[in.HorizonSteps-1]
	if len(last) == 0 {
		return infeasibleResult(in, append(warns, "no offset path satisfies the buffer debt limit")), nil
	}

	bestOff, bestSum := selectBest(last, in.TerminalPenalty)
	return extract(m, backtrack(table, bestOff, bestSum), warns), nil
}

// buildModel derives the per-step series the DP consumes. ok is false
// when a non-finite value sneaks in through a forecast.
func buildModel(in *Input) (*model, []string, bool) {
	var warns []string

	humidity := in.Humidity
	if humidity == nil {
		humidity = broadcast(DefaultHumidity, in.HorizonSteps)
	}

	baseLoad := in.BaselineLoad
	if baseLoad == nil {
		baseLoad = broadcast(0, in.HorizonSteps)
	}

	pv := in.PVProduction
	if pv == nil {
		if in.Building != nil {
			pv = in.Building.PVProductionSeries(in.Radiation, in.PlanStart, in.StepHours)
		} else {
			pv = broadcast(0, in.HorizonSteps)
		}
	}

	demand := in.NetDemand
	if demand == nil {
		loss := in.Building.HeatLossSeries(in.OutdoorTemp)
		gain := in.Building.SolarGainSeries(in.Radiation, in.PlanStart, in.StepHours)
		demand = make([]float64, in.HorizonSteps)
		for t := range demand {
			demand[t] = loss[t] - gain[t]
		}
	}

	for _, s := range [][]float64{in.BaseSupplyTemp, in.OutdoorTemp, in.PriceConsumption, in.PriceProduction, demand, pv, baseLoad, humidity} {
		if s != nil && !allFinite(s) {
			return nil, append(warns, "non-finite value in input series"), false
		}
	}

	return &model{in: in, demand: demand, pv: pv, baseLoad: baseLoad, humidity: humidity}, warns, true
}

// runDP fills the forward table. dp[t][offset][cumulative-sum] holds
// the cheapest path reaching that state after step t, with its exact
// buffer. Cancellation is honored between steps.
func runDP(ctx context.Context, m *model) (table []map[int]map[int]dpEntry, cancelled, numTrouble bool) {
	in := m.in
	table = make([]map[int]map[int]dpEntry, in.HorizonSteps)

	seed := map[int]map[int]dpEntry{}
	for off := in.InitialOffset - in.OffsetStepMax; off <= in.InitialOffset+in.OffsetStepMax; off++ {
		if !m.admissible(0, off) {
			continue
		}
		buf := in.InitialBuffer + m.bufferDelta(0, off)
		if buf < -in.MaxBufferDebt-debtEps {
			continue
		}
		cost, _ := m.stepCost(0, off)
		if !isFinite(cost) || !isFinite(buf) {
			numTrouble = true
			continue
		}
		seed[off] = map[int]dpEntry{off: {cost: cost, prevOff: off, prevSum: 0, buffer: buf}}
	}
	table[0] = seed

	for t := 1; t < in.HorizonSteps; t++ {
		select {
		case <-ctx.Done():
			return nil, true, numTrouble
		default:
		}

		next := map[int]map[int]dpEntry{}
		for _, prevOff := range sortedKeys(table[t-1]) {
			sums := table[t-1][prevOff]
			for _, prevSum := range sortedSumKeys(sums) {
				prev := sums[prevSum]
				for off := prevOff - in.OffsetStepMax; off <= prevOff+in.OffsetStepMax; off++ {
					if !m.admissible(t, off) {
						continue
					}
					buf := prev.buffer + m.bufferDelta(t, off)
					if buf < -in.MaxBufferDebt-debtEps {
						continue
					}
					stepCost, _ := m.stepCost(t, off)
					cost := prev.cost + stepCost
					if !isFinite(cost) || !isFinite(buf) {
						numTrouble = true
						continue
					}
					cand := dpEntry{cost: cost, prevOff: prevOff, prevSum: prevSum, buffer: buf}
					bySum, ok := next[off]
					if !ok {
						bySum = map[int]dpEntry{}
						next[off] = bySum
					}
					sum := prevSum + off
					if ex, ok := bySum[sum]; !ok || betterEntry(cand, ex, off) {
						bySum[sum] = cand
					}
				}
			}
		}
		table[t] = next
		if len(next) == 0 {
			break
		}
	}
	return table, false, numTrouble
}

// selectBest picks the surviving terminal state minimizing cost plus
// the terminal-buffer penalty, with deterministic tie-breaking: lower
// objective, then smaller final offset magnitude, then the smaller
// offset change into it, then the smaller cumulative sum.
func selectBest(last map[int]map[int]dpEntry, lambda float64) (bestOff, bestSum int) {
	first := true
	var best dpEntry
	var bestObj float64
	for _, off := range sortedKeys(last) {
		for _, sum := range sortedSumKeys(last[off]) {
			e := last[off][sum]
			obj := e.cost + lambda*abs(e.buffer)
			if first || betterFinal(obj, off, sum, e, bestObj, bestOff, bestSum, best) {
				first = false
				best, bestObj, bestOff, bestSum = e, obj, off, sum
			}
		}
	}
	return bestOff, bestSum
}

func betterFinal(obj float64, off, sum int, e dpEntry, bestObj float64, bestOff, bestSum int, best dpEntry) bool {
	if obj != bestObj {
		return obj < bestObj
	}
	if intAbs(off) != intAbs(bestOff) {
		return intAbs(off) < intAbs(bestOff)
	}
	da, db := intAbs(off-e.prevOff), intAbs(bestOff-best.prevOff)
	if da != db {
		return da < db
	}
	return sum < bestSum
}

func backtrack(table []map[int]map[int]dpEntry, off, sum int) []int {
	offsets := make([]int, len(table))
	for t := len(table) - 1; t >= 0; t-- {
		offsets[t] = off
		e := table[t][off][sum]
		off, sum = e.prevOff, e.prevSum
	}
	return offsets
}

func sortedKeys(m map[int]map[int]dpEntry) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func sortedSumKeys(m map[int]dpEntry) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func intAbs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
