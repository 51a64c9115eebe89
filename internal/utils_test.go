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

package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRawSeries_PlainArray(t *testing.T) {
	raw, err := extractRawSeries([]byte(`[0.21, 0.19, 0.35]`), nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.21, 0.19, 0.35}, raw.Values)
	assert.Equal(t, 0, raw.StepMinutes)
}

func TestExtractRawSeries_TimestampedEntries(t *testing.T) {
	payload := `[
		{"start": "2024-11-21T12:00:00Z", "value": 0.25},
		{"start": "2024-11-21T12:15:00Z", "value": 0.27},
		{"start": "2024-11-21T12:30:00Z", "value": 0.22}
	]`
	raw, err := extractRawSeries([]byte(payload), nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.27, 0.22}, raw.Values)
	assert.Equal(t, 15, raw.StepMinutes)
}

func TestExtractRawSeries_PriceKeyAndFromKey(t *testing.T) {
	payload := `[
		{"from": "2024-11-21T12:00:00Z", "price": 0.30},
		{"from": "2024-11-21T13:00:00Z", "price": 0.40}
	]`
	raw, err := extractRawSeries([]byte(payload), nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.30, 0.40}, raw.Values)
	assert.Equal(t, 60, raw.StepMinutes)
}

func TestExtractRawSeries_JSONEntry(t *testing.T) {
	entry := "forecast_prices"
	payload := `{"forecast_prices": [1, 2, 3], "unit": "EUR/kWh"}`
	raw, err := extractRawSeries([]byte(payload), &entry)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, raw.Values)
}

func TestExtractRawSeries_ForecastFallbackKey(t *testing.T) {
	raw, err := extractRawSeries([]byte(`{"forecast": [4.5, 4.0]}`), nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{4.5, 4.0}, raw.Values)
}

func TestExtractRawSeries_ScalarPayloads(t *testing.T) {
	raw, err := extractRawSeries([]byte(`0.31`), nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.31}, raw.Values)

	// Whitespace around a bare number is accepted.
	raw, err = extractRawSeries([]byte(` 12.5 `), nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{12.5}, raw.Values)
}

func TestExtractRawSeries_Errors(t *testing.T) {
	_, err := extractRawSeries([]byte(`garbage`), nil)
	assert.Error(t, err)

	entry := "missing"
	_, err = extractRawSeries([]byte(`{"other": []}`), &entry)
	assert.Error(t, err)

	_, err = extractRawSeries([]byte(`[]`), nil)
	assert.Error(t, err)

	_, err = extractRawSeries([]byte(`{"state": "unavailable"}`), nil)
	assert.Error(t, err)
}

func TestDetectStepMinutes_RejectsOddIntervals(t *testing.T) {
	payload := `[
		{"start": "2024-11-21T12:00:00Z", "value": 1},
		{"start": "2024-11-21T12:07:00Z", "value": 2}
	]`
	raw, err := extractRawSeries([]byte(payload), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, raw.StepMinutes)
}

func TestParseDebtSweep(t *testing.T) {
	assert.Equal(t, []float64{1, 2.5, 7}, parseDebtSweep("1, 2.5, 7"))
	// Junk falls back to the default sweep.
	assert.Equal(t, []float64{0, 2, 5, 10}, parseDebtSweep("nope"))
	assert.Equal(t, []float64{0, 2, 5, 10}, parseDebtSweep(""))
}
