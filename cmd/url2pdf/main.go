// Package main is the entry point for the url2pdf CLI.
//
// Usage:
//
//	url2pdf                          interactive shell
//	url2pdf convert <url> [output]   one-shot conversion
//	url2pdf info <file.pdf>          page count and dimensions
//	url2pdf config                   effective configuration
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	urlpdf "github.com/porticus-lab/go-url-pdf"
	"github.com/porticus-lab/go-url-pdf/internal/config"
	"github.com/porticus-lab/go-url-pdf/internal/shell"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command; without a subcommand it starts the shell.
var rootCmd = &cobra.Command{
	Use:   "url2pdf",
	Short: "Render web pages to PDF with a headless browser",
	Long: `url2pdf loads a web page in headless Chrome or Chromium, waits for it to
settle and saves the browser's print output as a PDF file.

Run without arguments for an interactive prompt, or use the convert
subcommand from scripts. Settings come from flags, URL2PDF_* environment
variables and url2pdf.yaml, in that order of precedence.`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         runShell,
}

func init() {
	cobra.OnInitialize(initConfig)

	d := config.Defaults()
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./url2pdf.yaml or ~/.config/url2pdf/url2pdf.yaml)")
	pf.String("log-level", d.LogLevel, "log level: debug, info, warn or error")
	pf.String("log-format", d.LogFormat, "log format: text or json")

	pf.String("driver", d.Driver, "browser binding: chromedp or rod")
	pf.String("chrome", "", "path to the Chrome or Chromium executable")
	pf.Bool("auto-download", d.AutoDownload, "download a managed Chromium when none is installed")
	pf.Bool("sandbox", d.Sandbox, "keep the Chrome sandbox enabled")
	pf.Duration("timeout", d.Timeout, "overall conversion timeout, 0 to disable")
	pf.String("wait", d.Wait, "settle strategy: network-idle, dom-ready or fixed")
	pf.Duration("settle-timeout", d.SettleTimeout, "upper bound on waiting for the page to settle")
	pf.Duration("fixed-delay", d.FixedDelay, "delay used by --wait fixed")
	pf.String("viewport", d.Viewport, "rendering viewport, WIDTHxHEIGHT")
	pf.String("paper", d.Paper, "fallback paper size: a4, letter or legal")
	pf.Bool("landscape", d.Landscape, "print in landscape orientation")

	for key, flag := range map[string]string{
		"log_level":      "log-level",
		"log_format":     "log-format",
		"driver":         "driver",
		"chrome_path":    "chrome",
		"auto_download":  "auto-download",
		"sandbox":        "sandbox",
		"timeout":        "timeout",
		"wait":           "wait",
		"settle_timeout": "settle-timeout",
		"fixed_delay":    "fixed-delay",
		"viewport":       "viewport",
		"paper":          "paper",
		"landscape":      "landscape",
	} {
		if err := viper.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("url2pdf")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "url2pdf"))
		}
	}

	config.BindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Reading config file %s: %v\n", cfgFile, err)
	}
}

// setup resolves the effective configuration into a converter and logger.
func setup(cmd *cobra.Command) (config.Config, *urlpdf.Converter, *slog.Logger, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	logger, err := cfg.Logger(cmd.ErrOrStderr())
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	opts, err := cfg.Options()
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	opts = append(opts, urlpdf.WithLogger(logger))
	return cfg, urlpdf.NewConverter(opts...), logger, nil
}

func runShell(cmd *cobra.Command, args []string) error {
	_, conv, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	sh := shell.New(conv, cmd.InOrStdin(), cmd.OutOrStdout(), shell.WithLogger(logger))
	if err := sh.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
