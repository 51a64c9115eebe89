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
	"encoding/json"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/antst/hcopt/internal/planner"
)

const mqttQoS = 1

var zeroTS time.Time

func init() {
	zeroTS = time.UnixMicro(0)
}

// extractRawSeries normalizes the payload shapes forecast integrations
// publish into a RawSeries:
//
//  1. a bare JSON array of numbers (step unknown),
//  2. an array of objects with a `start`/`from` timestamp and a
//     `value`/`price` field (step detected from the timestamps),
//  3. a JSON object carrying one of the above under `jsonEntry`,
//  4. a bare scalar, taken as a one-sample series.
func extractRawSeries(payload []byte, jsonEntry *string) (planner.RawSeries, error) {
	var decoded interface{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		// Not JSON at all: try a plain number.
		v, perr := strconv.ParseFloat(string(payload), 64)
		if perr != nil {
			return planner.RawSeries{}, errors.Wrapf(err, "undecodable forecast payload %q", truncate(string(payload), 80))
		}
		return planner.RawSeries{Values: []float64{v}}, nil
	}

	if jsonEntry != nil {
		obj, ok := decoded.(map[string]interface{})
		if !ok {
			return planner.RawSeries{}, errors.Errorf("payload is not an object, cannot take entry %q", *jsonEntry)
		}
		inner, ok := obj[*jsonEntry]
		if !ok {
			return planner.RawSeries{}, errors.Errorf("entry %q not found in payload", *jsonEntry)
		}
		decoded = inner
	}

	switch v := decoded.(type) {
	case float64:
		return planner.RawSeries{Values: []float64{v}}, nil
	case []interface{}:
		return seriesFromList(v)
	case map[string]interface{}:
		// Common fallback shape: the series under a `forecast` key.
		if inner, ok := v["forecast"]; ok {
			if list, ok := inner.([]interface{}); ok {
				return seriesFromList(list)
			}
		}
		return planner.RawSeries{}, errors.New("object payload without a usable forecast entry")
	default:
		return planner.RawSeries{}, errors.Errorf("unsupported payload type %T", decoded)
	}
}

func seriesFromList(list []interface{}) (planner.RawSeries, error) {
	raw := planner.RawSeries{Values: make([]float64, 0, len(list))}
	var stamps []time.Time
	for _, item := range list {
		switch e := item.(type) {
		case float64:
			raw.Values = append(raw.Values, e)
		case map[string]interface{}:
			val, ok := entryValue(e)
			if !ok {
				continue
			}
			raw.Values = append(raw.Values, val)
			if ts, ok := entryStart(e); ok {
				stamps = append(stamps, ts)
			}
		}
	}
	if len(raw.Values) == 0 {
		return raw, errors.New("forecast payload contains no numeric values")
	}
	raw.StepMinutes = detectStepMinutes(stamps)
	return raw, nil
}

func entryValue(e map[string]interface{}) (float64, bool) {
	for _, key := range []string{"value", "price"} {
		if v, ok := e[key]; ok {
			if f, ok := v.(float64); ok {
				return f, true
			}
		}
	}
	return 0, false
}

func entryStart(e map[string]interface{}) (time.Time, bool) {
	for _, key := range []string{"start", "from"} {
		if v, ok := e[key]; ok {
			if s, ok := v.(string); ok {
				if ts, err := time.Parse(time.RFC3339, s); err == nil {
					return ts, true
				}
			}
		}
	}
	return time.Time{}, false
}

// detectStepMinutes infers the native step from consecutive entry
// timestamps. Only the steps the planner understands are accepted.
func detectStepMinutes(stamps []time.Time) int {
	if len(stamps) < 2 {
		return 0
	}
	minutes := int(stamps[1].Sub(stamps[0]).Minutes())
	switch minutes {
	case 5, 15, 30, 60:
		return minutes
	}
	return 0
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
