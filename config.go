package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"

	"github.com/thiefmaster/towerlight/apis"
	"github.com/thiefmaster/towerlight/comm"
)

type stateConfig struct {
	apis.IndicationSpec `yaml:",inline"`
	Priority            int `yaml:"priority"`
}

type appConfig struct {
	Port     string        `yaml:"port" env:"TOWERLIGHT_PORT"`
	Baud     int           `yaml:"baud" env:"TOWERLIGHT_BAUD"`
	Interval time.Duration `yaml:"interval" env:"TOWERLIGHT_INTERVAL"`
	LogLevel string        `yaml:"loglevel" env:"TOWERLIGHT_LOGLEVEL"`
	Intro    bool          `yaml:"intro"`
	Shell    bool          `yaml:"shell"`
	Control  struct {
		Listen string `yaml:"listen" env:"TOWERLIGHT_CONTROL_LISTEN"`
	} `yaml:"control"`
	Mattermost apis.MattermostSettings `yaml:"mattermost"`
	Feed       apis.HTTPCredentials    `yaml:"feed"`
	States     map[string]stateConfig  `yaml:"states"`
}

func defaultConfig() appConfig {
	return appConfig{
		Port:     "/dev/ttyUSB0",
		Baud:     comm.DefaultBaud,
		Interval: comm.DefaultInterval,
		LogLevel: "info",
	}
}

// load reads the config file at path; a missing file leaves the defaults in
// place. Environment variables override both.
func (c *appConfig) load(path string) error {
	yamlFile, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Info().Str("path", path).Msg("no config file, using defaults")
	case err != nil:
		return fmt.Errorf("could not open config file: %w", err)
	default:
		log.Info().Str("path", path).Msg("loading config file")
		if err = yaml.UnmarshalStrict(yamlFile, c); err != nil {
			return fmt.Errorf("could not parse config file: %w", err)
		}
	}
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("could not parse environment: %w", err)
	}
	return c.validate()
}

func (c *appConfig) validate() error {
	if c.Port == "" {
		return errors.New("no serial port configured")
	}
	if c.Baud <= 0 {
		return fmt.Errorf("invalid baud rate %d", c.Baud)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("invalid interval %v", c.Interval)
	}
	for name, state := range c.States {
		if _, err := state.Command(); err != nil {
			return fmt.Errorf("state %s: %w", name, err)
		}
	}
	return nil
}
