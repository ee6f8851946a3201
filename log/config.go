package log

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
	"moul.io/zapfilter"
)

// Config describes the optional log configuration file.
// Filters use the zapfilter rule syntax, for example
// "debug:repos.*,svc.* info:*".
type Config struct {
	DefaultLevel string   `yaml:"defaultLevel"`
	Filters      []string `yaml:"filters"`
}

func DefaultConfig() *Config {
	return &Config{DefaultLevel: "info", Filters: []string{}}
}

func LoadConfig(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseConfig(content)
}

func parseConfig(content []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, err
	}
	if _, err := ParseLevel(cfg.DefaultLevel); err != nil {
		return nil, fmt.Errorf("invalid defaultLevel %q: %w", cfg.DefaultLevel, err)
	}
	for _, f := range cfg.Filters {
		if _, err := zapfilter.ParseRules(f); err != nil {
			return nil, fmt.Errorf("invalid filter rule %q: %w", f, err)
		}
	}
	return cfg, nil
}

func (c *Config) rules() string {
	ret := ""
	for i, f := range c.Filters {
		if i > 0 {
			ret += " "
		}
		ret += f
	}
	return ret
}

// NewWithConfig creates a JSON logger honoring the per-logger filter
// rules of cfg. Without filters it behaves like New.
func NewWithConfig(cfg *Config, out io.Writer, opts ...Option) (*Logger, error) {
	level, err := ParseLevel(cfg.DefaultLevel)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = os.Stderr
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.AddSync(out),
		level,
	)
	if len(cfg.Filters) > 0 {
		rules, rErr := zapfilter.ParseRules(cfg.rules())
		if rErr != nil {
			return nil, rErr
		}
		core = zapfilter.NewFilteringCore(core, rules)
	}
	return &Logger{l: zap.New(core, opts...), level: level}, nil
}
