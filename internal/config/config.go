// Package config loads url2pdf settings from flags, environment and an
// optional YAML file through viper, and turns them into converter options.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	urlpdf "github.com/porticus-lab/go-url-pdf"
)

// EnvPrefix is prepended to every environment variable, e.g.
// URL2PDF_SANDBOX=true.
const EnvPrefix = "URL2PDF"

// Config is the effective configuration of the CLI.
type Config struct {
	Driver        string        `mapstructure:"driver" yaml:"driver"`
	ChromePath    string        `mapstructure:"chrome_path" yaml:"chrome_path"`
	AutoDownload  bool          `mapstructure:"auto_download" yaml:"auto_download"`
	Sandbox       bool          `mapstructure:"sandbox" yaml:"sandbox"`
	Headless      bool          `mapstructure:"headless" yaml:"headless"`
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Wait          string        `mapstructure:"wait" yaml:"wait"`
	SettleTimeout time.Duration `mapstructure:"settle_timeout" yaml:"settle_timeout"`
	FixedDelay    time.Duration `mapstructure:"fixed_delay" yaml:"fixed_delay"`
	Viewport      string        `mapstructure:"viewport" yaml:"viewport"`
	Paper         string        `mapstructure:"paper" yaml:"paper"`
	Landscape     bool          `mapstructure:"landscape" yaml:"landscape"`
	LogLevel      string        `mapstructure:"log_level" yaml:"log_level"`
	LogFormat     string        `mapstructure:"log_format" yaml:"log_format"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Driver:        "chromedp",
		Headless:      true,
		Timeout:       60 * time.Second,
		Wait:          urlpdf.WaitNetworkIdle.String(),
		SettleTimeout: 10 * time.Second,
		FixedDelay:    3 * time.Second,
		Viewport:      urlpdf.DefaultViewport.String(),
		Paper:         "letter",
		LogLevel:      "warn",
		LogFormat:     "text",
	}
}

// BindEnv makes v read URL2PDF_* environment variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// SetDefaults registers every key with its default so that environment
// variables are honored by Unmarshal even without a config file.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("driver", d.Driver)
	v.SetDefault("chrome_path", d.ChromePath)
	v.SetDefault("auto_download", d.AutoDownload)
	v.SetDefault("sandbox", d.Sandbox)
	v.SetDefault("headless", d.Headless)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("wait", d.Wait)
	v.SetDefault("settle_timeout", d.SettleTimeout)
	v.SetDefault("fixed_delay", d.FixedDelay)
	v.SetDefault("viewport", d.Viewport)
	v.SetDefault("paper", d.Paper)
	v.SetDefault("landscape", d.Landscape)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
}

// Load reads the configuration held by v and validates it.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if _, err := c.Options(); err != nil {
		return Config{}, err
	}
	if _, err := c.Logger(io.Discard); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Options translates c into converter options.
func (c Config) Options() ([]urlpdf.Option, error) {
	var opts []urlpdf.Option

	switch strings.ToLower(c.Driver) {
	case "", "chromedp":
		opts = append(opts, urlpdf.WithDriver(urlpdf.ChromeDP()))
	case "rod":
		opts = append(opts, urlpdf.WithDriver(urlpdf.Rod()))
	default:
		return nil, fmt.Errorf("config: unknown driver %q: use chromedp or rod", c.Driver)
	}

	wait, err := urlpdf.ParseWaitStrategy(c.Wait)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	opts = append(opts, urlpdf.WithWait(wait, c.SettleTimeout), urlpdf.WithFixedDelay(c.FixedDelay))

	if c.Viewport != "" {
		vp, err := urlpdf.ParseViewport(c.Viewport)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		opts = append(opts, urlpdf.WithViewport(vp))
	}

	po := urlpdf.DefaultPrintOptions()
	if c.Paper != "" {
		if po.Size, err = urlpdf.ParsePageSize(c.Paper); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	po.Landscape = c.Landscape
	opts = append(opts, urlpdf.WithPrintOptions(po), urlpdf.WithTimeout(c.Timeout))

	if c.ChromePath != "" {
		opts = append(opts, urlpdf.WithChromePath(c.ChromePath))
	}
	if c.AutoDownload {
		opts = append(opts, urlpdf.WithAutoDownload())
	}
	if c.Sandbox {
		opts = append(opts, urlpdf.WithSandbox())
	}
	if !c.Headless {
		opts = append(opts, urlpdf.WithHeadful())
	}
	return opts, nil
}

// Logger builds the slog logger described by c, writing to w.
func (c Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	ho := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(c.LogFormat) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, ho)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, ho)), nil
	}
	return nil, fmt.Errorf("config: unknown log format %q: use text or json", c.LogFormat)
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelWarn, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("config: invalid log level %q", s)
	}
	return l, nil
}
