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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResample_IdentityRoundTrip(t *testing.T) {
	raw := RawSeries{Values: []float64{1, 2, 3, 4}, StepMinutes: 60}
	vals, warns, ok := Resample(raw, 1.0, 4)
	require.True(t, ok)
	assert.Empty(t, warns)
	assert.Equal(t, []float64{1, 2, 3, 4}, vals)
}

func TestResample_DownsampleMeans(t *testing.T) {
	// 15-minute source onto a 1-hour grid: each target is the mean of
	// four source samples.
	raw := RawSeries{Values: []float64{1, 2, 3, 4, 10, 10, 20, 20}, StepMinutes: 15}
	vals, _, ok := Resample(raw, 1.0, 2)
	require.True(t, ok)
	assert.InDelta(t, 2.5, vals[0], 1e-9)
	assert.InDelta(t, 15.0, vals[1], 1e-9)
}

func TestResample_UpsampleInterpolates(t *testing.T) {
	raw := RawSeries{Values: []float64{0, 10}, StepMinutes: 60}
	vals, _, ok := Resample(raw, 0.5, 4)
	require.True(t, ok)
	assert.InDelta(t, 0, vals[0], 1e-9)
	assert.InDelta(t, 5, vals[1], 1e-9)
	// Edge held constant past the last source sample.
	assert.InDelta(t, 10, vals[2], 1e-9)
	assert.InDelta(t, 10, vals[3], 1e-9)
}

func TestResample_TailForwardFilled(t *testing.T) {
	raw := RawSeries{Values: []float64{3, 7}, StepMinutes: 60}
	vals, _, ok := Resample(raw, 1.0, 5)
	require.True(t, ok)
	assert.Equal(t, []float64{3, 7, 7, 7, 7}, vals)
}

func TestResample_UnknownStepWarns(t *testing.T) {
	raw := RawSeries{Values: []float64{1, 2}, StepMinutes: 0}
	vals, warns, ok := Resample(raw, 1.0, 2)
	require.True(t, ok)
	assert.Equal(t, []float64{1, 2}, vals)
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0], "unknown")
}

func TestResample_EmptySourceUnavailable(t *testing.T) {
	_, _, ok := Resample(RawSeries{StepMinutes: 60}, 1.0, 4)
	assert.False(t, ok)
}

func TestResample_DownsampleShortTail(t *testing.T) {
	// Six 30-minute samples onto a 1-hour grid of four: the last grid
	// slots repeat the final value.
	raw := RawSeries{Values: []float64{2, 4, 6, 8, 10, 12}, StepMinutes: 30}
	vals, _, ok := Resample(raw, 1.0, 4)
	require.True(t, ok)
	assert.InDelta(t, 3, vals[0], 1e-9)
	assert.InDelta(t, 7, vals[1], 1e-9)
	assert.InDelta(t, 11, vals[2], 1e-9)
	assert.InDelta(t, 11, vals[3], 1e-9)
}
