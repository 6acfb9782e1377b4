package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type History struct {
	// CoalesceWindow is how close in time two compatible edits must be to
	// share one undo step.
	CoalesceWindow time.Duration `yaml:"coalesce_window"`
	// Limit caps the undo stack; 0 keeps everything.
	Limit int `yaml:"limit"`
}

type Web struct {
	Addr string `yaml:"addr"`
}

type Log struct {
	Level string `yaml:"level"`
}

type Config struct {
	History History `yaml:"history"`
	Web     Web     `yaml:"web"`
	Log     Log     `yaml:"log"`
}

func Default() Config {
	return Config{
		History: History{CoalesceWindow: time.Second},
		Web:     Web{Addr: ":8000"},
		Log:     Log{Level: "info"},
	}
}

var current = Default()

func Get() Config { return current }

func Set(c Config) { current = c }

// Parse reads YAML on top of the defaults, so a file only needs the keys it
// changes.
func Parse(data []byte) (Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, errors.Wrapf(err, "Failed to unmarshal config")
	}
	if c.History.CoalesceWindow < 0 {
		return c, errors.Errorf("Negative history.coalesce_window %v", c.History.CoalesceWindow)
	}
	if c.History.Limit < 0 {
		return c, errors.Errorf("Negative history.limit %d", c.History.Limit)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return c, errors.Wrapf(err, "Invalid log.level")
	}
	return c, nil
}

func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), errors.Wrapf(err, "Cannot read config %q", path)
	}
	return Parse(data)
}

// ApplyLogLevel configures the global logrus level.
func (c Config) ApplyLogLevel() {
	if level, err := logrus.ParseLevel(c.Log.Level); err == nil {
		logrus.SetLevel(level)
	}
}
