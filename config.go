package platformloop

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the file form of the loop options, e.g.
//
//	poll_interval = "16ms"
//	stop_on_completion = true
//	log_level = "debug"
//
// Unset fields keep the option defaults.
type Config struct {
	StopOnCompletion *bool    `toml:"stop_on_completion"`
	ThreadCheck      *bool    `toml:"thread_check"`
	Application      *bool    `toml:"application"`
	HostClass        string   `toml:"host_class"`
	NativeMethod     string   `toml:"native_method"`
	LogLevel         string   `toml:"log_level"` // logiface keyword, e.g. "info"; empty = no logger
	PollInterval     Duration `toml:"poll_interval"`
	YieldInterval    Duration `toml:"yield_interval"`
}

// Duration is a time.Duration written as a string ("10ms") in TOML.
type Duration struct {
	time.Duration
	Set bool
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	d.Set = true
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// LoadConfig reads a TOML config file.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("platformloop: open config: %w", err)
	}
	defer f.Close()
	return DecodeConfig(f)
}

// DecodeConfig parses TOML from r. Unknown keys are rejected.
func DecodeConfig(r io.Reader) (*Config, error) {
	var cfg Config
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return nil, fmt.Errorf("platformloop: decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("platformloop: unknown config key %q", undecoded[0].String())
	}
	return &cfg, nil
}

// Options converts the config into options. If LogLevel is set, the logger
// writes JSON to logOutput.
func (c *Config) Options(logOutput io.Writer) ([]Option, error) {
	var opts []Option
	if c.PollInterval.Set {
		opts = append(opts, WithPollInterval(c.PollInterval.Duration))
	}
	if c.YieldInterval.Set {
		opts = append(opts, WithYieldInterval(c.YieldInterval.Duration))
	}
	if c.StopOnCompletion != nil {
		opts = append(opts, WithStopOnCompletion(*c.StopOnCompletion))
	}
	if c.ThreadCheck != nil {
		opts = append(opts, WithThreadCheck(*c.ThreadCheck))
	}
	if c.Application != nil {
		opts = append(opts, WithApplication(*c.Application))
	}
	if c.HostClass != "" {
		opts = append(opts, WithHostClass(c.HostClass))
	}
	if c.NativeMethod != "" {
		opts = append(opts, WithNativeMethod(c.NativeMethod))
	}
	if c.LogLevel != "" {
		level, ok := ParseLevel(c.LogLevel)
		if !ok {
			return nil, fmt.Errorf("platformloop: unknown log level %q", c.LogLevel)
		}
		opts = append(opts, WithLogger(NewLogger(logOutput, level)))
	}
	return opts, nil
}
