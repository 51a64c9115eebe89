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
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/antst/hcopt/internal/config"
	"github.com/antst/hcopt/internal/db"
	"github.com/antst/hcopt/internal/logger"
	"github.com/antst/hcopt/internal/planner"
	"github.com/antst/hcopt/internal/safe_mqtt"
)

const forecastClientPrefix = "hcopt-forecast-"

// ForecastController owns one externally fed forecast series: it
// subscribes to the configured topic, normalizes whatever legacy shape
// arrives, persists the payload for restarts, and pokes the planner
// loop on every change.
type ForecastController struct {
	name        string
	mu          sync.RWMutex
	cfg         *config.ForecastSourceConfig
	mqtt        safe_mqtt.MqttClient
	store       *db.Store
	series      planner.RawSeries
	timestamp   time.Time
	controlChan chan<- string
}

func NewForecastController(
	name string, cfg *config.ForecastSourceConfig, mqttCfg *config.MQTTConfig,
	store *db.Store, controlChan chan<- string,
) *ForecastController {
	f := &ForecastController{
		name:        name,
		cfg:         cfg,
		store:       store,
		timestamp:   zeroTS,
		controlChan: controlChan,
	}

	if payload, ts, ok := store.ForecastState(name); ok {
		if raw, err := f.parse([]byte(payload)); err == nil {
			f.series = raw
			f.timestamp = ts
			logger.L().Debugf("Loaded previous forecast state for %v: %d samples", name, len(raw.Values))
		}
	}

	f.mqtt = safe_mqtt.InitMQTTClient(mqttCfg.URL, forecastClientPrefix+name+"-"+uuid.New().String())
	f.mqtt.SafeSubscribe(cfg.Topic, mqttQoS, f.UpdateHandler)
	return f
}

func (f *ForecastController) UpdateHandler(client mqtt.Client, message mqtt.Message) {
	raw, err := f.parse(message.Payload())
	if err != nil {
		logger.L().Errorf("forecast %v: %v", f.name, err)
		return
	}

	now := time.Now()
	f.mu.Lock()
	f.series = raw
	f.timestamp = now
	f.mu.Unlock()

	if err := f.store.SaveForecastState(f.name, now, string(message.Payload())); err != nil {
		logger.L().Error(err)
	}

	logger.L().Debugf("forecast %v updated: %d samples, step %d min", f.name, len(raw.Values), raw.StepMinutes)
	f.controlChan <- f.name
}

// parse applies the configured per-source step override and the
// scale/offset correction to a normalized payload.
func (f *ForecastController) parse(payload []byte) (planner.RawSeries, error) {
	raw, err := extractRawSeries(payload, f.cfg.JSONEntry)
	if err != nil {
		return raw, err
	}
	if f.cfg.StepMinutes > 0 {
		raw.StepMinutes = f.cfg.StepMinutes
	}
	if *f.cfg.Scale != 1.0 || *f.cfg.Offset != 0.0 {
		scaled := make([]float64, len(raw.Values))
		for i, v := range raw.Values {
			scaled[i] = v*(*f.cfg.Scale) + (*f.cfg.Offset)
		}
		raw.Values = scaled
	}
	return raw, nil
}

// Series returns the last normalized forecast; ok is false while
// nothing has been received or restored yet.
func (f *ForecastController) Series() (planner.RawSeries, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.series, f.timestamp.After(zeroTS) && len(f.series.Values) > 0
}
