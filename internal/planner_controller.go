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
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/antst/hcopt/internal/config"
	"github.com/antst/hcopt/internal/db"
	"github.com/antst/hcopt/internal/logger"
	"github.com/antst/hcopt/internal/planner"
	"github.com/antst/hcopt/internal/safe_mqtt"
)

const (
	timerDuration = 500 * time.Millisecond
	planTimeout   = 30 * time.Second
	overrideNone  = "none"
)

// PlannerController is the daemon's main loop: it owns the forecast
// controllers, debounces their updates, runs the planning core and
// publishes the committed offset plus the forecast vectors.
type PlannerController struct {
	cfg        *config.Config
	store      *db.Store
	mqtt       safe_mqtt.MqttClient
	forecasts  map[string]*ForecastController
	updateChan chan string
	forceChan  chan bool
	enabled    bool
	override   *int
	lastResult *planner.Result
}

func NewPlannerController() *PlannerController {
	c := &PlannerController{
		cfg:        config.Get(),
		forecasts:  map[string]*ForecastController{},
		updateChan: make(chan string, 100),
		forceChan:  make(chan bool, 2),
	}

	c.mqtt = safe_mqtt.InitMQTTClient(c.cfg.MQTTConfig.URL, "hcopt-"+uuid.New().String())
	c.store = db.Open(c.cfg.DBFile)
	c.setupMQTTSubscriptions()
	c.initForecasts()
	c.setEnabled(c.store.Value("enabled", "true"))
	c.loadOverride()
	return c
}

func (c *PlannerController) setupMQTTSubscriptions() {
	controlTopic := c.cfg.MQTTConfig.ControlTopic
	for _, suffix := range []string{"enable", "override", "log_level", "max_debt", "whatif"} {
		c.mqtt.SafeSubscribe(controlTopic+"/"+suffix, mqttQoS, c.controlUpdateHandler)
	}
}

func (c *PlannerController) initForecasts() {
	f := c.cfg.Forecasts
	sources := map[string]*config.ForecastSourceConfig{
		"price_consumption":   f.PriceConsumption,
		"price_production":    f.PriceProduction,
		"outdoor_temperature": f.OutdoorTemp,
		"humidity":            f.Humidity,
		"radiation":           f.Radiation,
		"baseline_load":       f.BaselineLoad,
		"pv_production":       f.PVProduction,
	}
	for name, src := range sources {
		if !src.Configured() {
			continue
		}
		c.forecasts[name] = NewForecastController(name, src, c.cfg.MQTTConfig, c.store, c.updateChan)
	}
	logger.L().Infof("Listening to %d forecast sources", len(c.forecasts))
}

func (c *PlannerController) Run() {
	timer := time.NewTimer(timerDuration)
	ticker := time.NewTicker(time.Duration(*c.cfg.Planner.PlanIntervalMin) * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.forceChan:
			c.resetTimer(timer)
		case name := <-c.updateChan:
			logger.L().Debugf("forecast update from %v", name)
			c.resetTimer(timer)
		case <-timer.C:
			c.replan()
		case <-ticker.C:
			c.replan()
		}
	}
}

func (c *PlannerController) resetTimer(timer *time.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	timer.Reset(timerDuration)
}

// resampled aligns one raw forecast to the planning grid; nil when the
// source is unconfigured, silent, or unusable.
func (c *PlannerController) resampled(name string, stepHours float64, horizon int, warns *[]string) []float64 {
	f, ok := c.forecasts[name]
	if !ok {
		return nil
	}
	raw, ok := f.Series()
	if !ok {
		*warns = append(*warns, name+": no forecast received yet")
		return nil
	}
	vals, w, ok := planner.Resample(raw, stepHours, horizon)
	for _, msg := range w {
		*warns = append(*warns, name+": "+msg)
	}
	if !ok {
		return nil
	}
	return vals
}

func (c *PlannerController) buildInput() (*planner.Input, []string) {
	p := c.cfg.Planner
	horizon := *p.HorizonSteps
	stepHours := p.StepHours()

	var warns []string
	outdoor := c.resampled("outdoor_temperature", stepHours, horizon, &warns)
	humidity := c.resampled("humidity", stepHours, horizon, &warns)
	if humidity == nil {
		h := make([]float64, horizon)
		for i := range h {
			h[i] = *p.HumidityDefault
		}
		humidity = h
	}

	curve := c.cfg.Curve.ToModel()
	var base []float64
	if outdoor != nil {
		base = curve.BaseSeries(outdoor)
	}

	in := &planner.Input{
		HorizonSteps:     horizon,
		StepHours:        stepHours,
		PlanStart:        time.Now(),
		BaseSupplyTemp:   base,
		OutdoorTemp:      outdoor,
		Radiation:        c.resampled("radiation", stepHours, horizon, &warns),
		Humidity:         humidity,
		PriceConsumption: c.resampled("price_consumption", stepHours, horizon, &warns),
		PriceProduction:  c.resampled("price_production", stepHours, horizon, &warns),
		BaselineLoad:     c.resampled("baseline_load", stepHours, horizon, &warns),
		PVProduction:     c.resampled("pv_production", stepHours, horizon, &warns),
		Building:         c.cfg.Building.ToModel(),
		COP: planner.COPParams{
			Base:         *p.COPBase,
			KFactor:      *p.KFactor,
			OutdoorCoeff: *p.OutdoorCoeff,
			Compensation: *p.COPCompensation,
		},
		WaterMin:          curve.WaterMin,
		WaterMax:          curve.WaterMax,
		OffsetMin:         *p.OffsetMin,
		OffsetMax:         *p.OffsetMax,
		OffsetStepMax:     *p.OffsetStepMax,
		StorageEfficiency: *p.StorageEta,
		MaxBufferDebt:     *p.MaxBufferDebt,
		TerminalPenalty:   *p.TerminalPenalty,
		InitialOffset:     c.currentOffset(),
		InitialBuffer:     0,
	}
	return in, warns
}

// currentOffset is the offset the heat pump runs with right now: the
// manual override when set, otherwise the head of the last committed
// plan, surviving restarts through the store.
func (c *PlannerController) currentOffset() int {
	if c.override != nil {
		return *c.override
	}
	if c.lastResult != nil && c.lastResult.Status == planner.StatusOK {
		return c.lastResult.CurrentOffset()
	}
	if v, err := strconv.Atoi(c.store.Value("last_offset", "0")); err == nil {
		return c.clampOffset(v)
	}
	return 0
}

func (c *PlannerController) clampOffset(v int) int {
	p := c.cfg.Planner
	if v < *p.OffsetMin {
		return *p.OffsetMin
	}
	if v > *p.OffsetMax {
		return *p.OffsetMax
	}
	return v
}

func (c *PlannerController) replan() {
	in, warns := c.buildInput()

	ctx, cancel := context.WithTimeout(context.Background(), planTimeout)
	defer cancel()

	start := time.Now()
	result, err := planner.Plan(ctx, in)
	if err != nil {
		logger.L().Errorf("planner rejected input: %v", err)
		return
	}
	result.Warnings = append(warns, result.Warnings...)

	logger.L().Infof(
		"Plan %v in %v: offset %d, cost %.3f (baseline %.3f)",
		result.Status, time.Since(start).Round(time.Millisecond),
		result.CurrentOffset(), result.TotalCost, result.BaselineCost,
	)
	for _, w := range result.Warnings {
		logger.L().Debugf("plan warning: %v", w)
	}

	c.lastResult = result
	if payload, err := json.Marshal(result); err == nil {
		if err := c.store.SavePlanRun(start, string(result.Status), string(payload)); err != nil {
			logger.L().Error(err)
		}
	}
	c.publish(result)
}

// statusReport is the JSON summary published after every run.
type statusReport struct {
	Status       planner.Status `json:"status"`
	Offset       int            `json:"offset"`
	Override     *int           `json:"override,omitempty"`
	Enabled      bool           `json:"enabled"`
	TotalCost    float64        `json:"total_cost"`
	BaselineCost float64        `json:"baseline_cost"`
	TotalSavings float64        `json:"total_savings"`
	Warnings     []string       `json:"warnings,omitempty"`
}

func (c *PlannerController) publish(r *planner.Result) {
	st := c.cfg.MQTTConfig.StatusTopic

	offset := r.CurrentOffset()
	if c.override != nil {
		offset = *c.override
	}
	if !c.enabled {
		offset = 0
	}

	c.mqtt.SafePublish(st+"/offset", mqttQoS, true, strconv.Itoa(offset))
	if err := c.store.SetValue("last_offset", strconv.Itoa(offset)); err != nil {
		logger.L().Error(err)
	}

	c.publishJSON(st+"/offsets", r.Offsets)
	c.publishJSON(st+"/buffer", r.Buffer)
	c.publishJSON(st+"/supply_temperature", r.SupplyTemp)
	c.publishJSON(st+"/cost_per_step", r.CostPerStep)
	c.publishJSON(st+"/savings_per_step", r.SavingsPerStep)
	c.publishJSON(st+"/report", statusReport{
		Status:       r.Status,
		Offset:       offset,
		Override:     c.override,
		Enabled:      c.enabled,
		TotalCost:    r.TotalCost,
		BaselineCost: r.BaselineCost,
		TotalSavings: r.TotalSavings,
		Warnings:     r.Warnings,
	})
}

func (c *PlannerController) publishJSON(topic string, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		logger.L().Error(err)
		return
	}
	if token := c.mqtt.SafePublish(topic, mqttQoS, true, payload); token.Wait() && token.Error() != nil {
		logger.L().Error(token.Error())
	}
}

func (c *PlannerController) controlUpdateHandler(client mqtt.Client, message mqtt.Message) {
	topic := message.Topic()[strings.LastIndex(message.Topic(), "/")+1:]
	payload := string(message.Payload())
	logger.L().Infof("Got MQTT control request: %v : %v", topic, payload)

	switch topic {
	case "enable":
		c.setEnabled(payload)
	case "override":
		c.setOverride(payload)
	case "log_level":
		if err := c.cfg.LogLevel.Set(payload); err != nil {
			logger.L().Errorf("Wrong log level `%v`", payload)
		} else {
			logger.SetLogLevel(c.cfg.LogLevel)
			logger.L().Infof("Updated loglevel to `%v`", c.cfg.LogLevel.String())
		}
	case "max_debt":
		if v, err := strconv.ParseFloat(payload, 64); err == nil && v >= 0 {
			c.cfg.Planner.MaxBufferDebt = &v
			logger.L().Infof("Updated max buffer debt to %.2f kWh", v)
			c.forceChan <- true
		} else {
			logger.L().Errorf("Invalid max_debt value `%v`", payload)
		}
	case "whatif":
		c.runWhatIf(payload)
	}
}

func (c *PlannerController) setEnabled(val string) {
	switch strings.ToLower(val) {
	case "true", "on", "1":
		c.mqtt.SafePublish(c.cfg.MQTTConfig.ControlTopic+"/active", mqttQoS, true, "ON")
		c.enabled = true
	case "false", "off", "0":
		c.mqtt.SafePublish(c.cfg.MQTTConfig.ControlTopic+"/active", mqttQoS, true, "OFF")
		c.enabled = false
	default:
		logger.L().Warnf("Invalid value for enable: %v", val)
		return
	}
	if err := c.store.SetValue("enabled", strconv.FormatBool(c.enabled)); err != nil {
		logger.L().Error(err)
	}
	c.forceChan <- true
}

func (c *PlannerController) setOverride(val string) {
	if val == "" || strings.EqualFold(val, overrideNone) {
		c.override = nil
		if err := c.store.SetValue("override", overrideNone); err != nil {
			logger.L().Error(err)
		}
		c.forceChan <- true
		return
	}
	v, err := strconv.Atoi(val)
	if err != nil {
		logger.L().Errorf("Invalid override value `%v`", val)
		return
	}
	v = c.clampOffset(v)
	c.override = &v
	if err := c.store.SetValue("override", strconv.Itoa(v)); err != nil {
		logger.L().Error(err)
	}
	c.forceChan <- true
}

func (c *PlannerController) loadOverride() {
	stored := c.store.Value("override", overrideNone)
	if stored == overrideNone {
		return
	}
	if v, err := strconv.Atoi(stored); err == nil {
		v = c.clampOffset(v)
		c.override = &v
		logger.L().Infof("Restored manual override: %+d", v)
	}
}

// runWhatIf sweeps alternative debt allowances over the current
// forecasts and publishes the projected cost per variant.
func (c *PlannerController) runWhatIf(payload string) {
	debts := parseDebtSweep(payload)
	in, _ := c.buildInput()

	ctx, cancel := context.WithTimeout(context.Background(), planTimeout)
	defer cancel()

	outcomes, err := RunWhatIf(ctx, in, debts)
	if err != nil {
		logger.L().Errorf("what-if sweep failed: %v", err)
		return
	}
	c.publishJSON(c.cfg.MQTTConfig.StatusTopic+"/whatif", outcomes)
}

func parseDebtSweep(payload string) []float64 {
	var debts []float64
	for _, part := range strings.Split(payload, ",") {
		if v, err := strconv.ParseFloat(strings.TrimSpace(part), 64); err == nil && v >= 0 {
			debts = append(debts, v)
		}
	}
	if len(debts) == 0 {
		debts = []float64{0, 2, 5, 10}
	}
	return debts
}
