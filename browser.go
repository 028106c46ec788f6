package urlpdf

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-rod/rod/lib/launcher"
)

var errNoBrowser = errors.New("no Chrome or Chromium executable found in PATH")

// lookBrowser is replaced in tests.
var lookBrowser = launcher.LookPath

// resolveBrowser returns the executable to launch: the configured path,
// else a browser found in PATH, else (when allowed) a Chromium build
// downloaded into ~/.cache/rod/browser (Unix) or %APPDATA%\rod\browser
// (Windows).
func resolveBrowser(cfg converterConfig) (string, error) {
	if cfg.chromePath != "" {
		if _, err := os.Stat(cfg.chromePath); err != nil {
			return "", fmt.Errorf("browser executable: %w", err)
		}
		return cfg.chromePath, nil
	}
	if path, ok := lookBrowser(); ok {
		return path, nil
	}
	if !cfg.autoDownload {
		return "", errNoBrowser
	}
	path, err := launcher.NewBrowser().Get()
	if err != nil {
		return "", fmt.Errorf("downloading browser: %w", err)
	}
	return path, nil
}
