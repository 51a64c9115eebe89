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
	"fmt"
	"io"
	"log"
	"os"

	"github.com/antst/hcopt/internal/logger"

	"github.com/pborman/getopt/v2"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	defaultMQTTURL      = "tcp://127.0.0.1:1883"
	defaultControlTopic = "hcopt/control"
	defaultStatusTopic  = "hcopt/status"
	defaultDBFile       = "~/.hcopt.db"
	defaultConfigFile   = "config.yaml"
)

type MQTTConfig struct {
	URL          string `yaml:"url"`
	ControlTopic string `yaml:"control_topic"`
	StatusTopic  string `yaml:"status_topic"`
}

func NewMQTTConfig() *MQTTConfig {
	return &MQTTConfig{
		URL:          defaultMQTTURL,
		ControlTopic: defaultControlTopic,
		StatusTopic:  defaultStatusTopic,
	}
}

func (c *MQTTConfig) FillDefaults() {
	if c.URL == "" {
		c.URL = defaultMQTTURL
	}
	if c.ControlTopic == "" {
		c.ControlTopic = defaultControlTopic
	}
	if c.StatusTopic == "" {
		c.StatusTopic = defaultStatusTopic
	}
}

type Config struct {
	LogLevel   zapcore.Level    `yaml:"log_level"`
	MQTTConfig *MQTTConfig      `yaml:"mqtt"`
	DBFile     string           `yaml:"db_file"`
	Building   *BuildingConfig  `yaml:"building"`
	Curve      *CurveConfig     `yaml:"curve"`
	Planner    *PlannerConfig   `yaml:"planner"`
	Forecasts  *ForecastsConfig `yaml:"forecasts"`
}

func defConfig() *Config {
	return &Config{
		MQTTConfig: NewMQTTConfig(),
		DBFile:     defaultDBFile,
		Building:   NewBuildingConfig(),
		Curve:      NewCurveConfig(),
		Planner:    NewPlannerConfig(),
		Forecasts:  NewForecastsConfig(),
	}
}

func prettyPrint(cfg *Config) {
	d, err := yaml.Marshal(cfg)
	if err != nil {
		logger.L().Error("Failed to marshal config for pretty print", err)
		return
	}
	logger.L().Debugf("--- Config ---\n%s\n\n", string(d))
}

func (cfg *Config) FillDefaults() {
	if cfg.MQTTConfig == nil {
		cfg.MQTTConfig = NewMQTTConfig()
	}
	cfg.MQTTConfig.FillDefaults()
	if cfg.Building == nil {
		cfg.Building = NewBuildingConfig()
	}
	cfg.Building.FillDefaults()
	if cfg.Curve == nil {
		cfg.Curve = NewCurveConfig()
	}
	cfg.Curve.FillDefaults()
	if cfg.Planner == nil {
		cfg.Planner = NewPlannerConfig()
	}
	cfg.Planner.FillDefaults()
	if cfg.Forecasts == nil {
		cfg.Forecasts = NewForecastsConfig()
	}
	cfg.Forecasts.FillDefaults()
}

func Get() *Config {
	cfg := defConfig()
	logLevel := getopt.StringLong("log-level", 'l', "", "log levels: debug, info, warn, error, dpanic, panic, fatal")
	configFile := getopt.StringLong("config", 'c', defaultConfigFile, "config file pathname")
	dbFile := getopt.StringLong("db", 'd', "", "DB file pathname")

	getopt.Parse()

	if err := readFile(cfg, *configFile); err != nil {
		log.Panicf("GetConfig: %v", err)
	}

	logger.L().Infof("Using config file `%v`", *configFile)

	if *dbFile != "" {
		cfg.DBFile = *dbFile
	}
	logger.L().Infof("Using DB file `%v`", cfg.DBFile)

	cfg.FillDefaults()

	if *logLevel != "" {
		if err := cfg.LogLevel.Set(*logLevel); err != nil {
			logger.L().Errorf("Wrong log level `%v`: %v", *logLevel, err)
		}
	}
	logger.SetLogLevel(cfg.LogLevel)

	prettyPrint(cfg)

	return cfg
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	return err == nil && !info.IsDir()
}

func readFile(cfg *Config, configFileName string) error {
	if !fileExists(configFileName) {
		return nil
	}

	f, err := os.Open(configFileName)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	return nil
}

// GetPTR returns a pointer to a copy of its argument, for optional
// config entries with non-zero defaults.
func GetPTR[T any](v T) *T {
	return &v
}
