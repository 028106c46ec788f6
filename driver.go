package urlpdf

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Driver launches browser sessions. Any automation binding that can start
// a browser with flags and preferences, navigate, print the current page
// to PDF and terminate the process can implement it.
type Driver interface {
	Name() string
	Launch(ctx context.Context, cfg LaunchConfig) (Session, error)
}

// Session is one running browser process with a single page. A Session is
// owned by the goroutine that launched it.
type Session interface {
	// Navigate loads url and returns once the load event fired.
	Navigate(ctx context.Context, url string) error

	// Settle waits for the page to finish rendering according to w, for at
	// most timeout (or delay, for WaitFixed). It reports whether the
	// condition was met before the bound expired.
	Settle(ctx context.Context, w WaitStrategy, timeout, delay time.Duration) (bool, error)

	SetViewport(ctx context.Context, v Viewport) error

	// PrintToPDF returns the decoded PDF bytes of the current page.
	PrintToPDF(ctx context.Context, opts PrintOptions) ([]byte, error)

	// Close terminates the browser and returns once the process has exited.
	// It is safe to call more than once.
	Close() error
}

// LaunchConfig carries the browser process settings for one session.
type LaunchConfig struct {
	ExecPath    string
	Headless    bool
	NoSandbox   bool
	DisableGPU  bool
	UserDataDir string
	DownloadDir string
	Viewport    Viewport
}

// browserPrefs is written to the profile's Default/Preferences file so
// downloads never prompt and PDFs are never handed to an external viewer.
type browserPrefs struct {
	Download struct {
		DefaultDirectory  string `json:"default_directory"`
		PromptForDownload bool   `json:"prompt_for_download"`
	} `json:"download"`
	Plugins struct {
		AlwaysOpenPDFExternally bool `json:"always_open_pdf_externally"`
	} `json:"plugins"`
}

// newProfile creates a throwaway user data directory seeded with download
// preferences pointing at downloadDir. The caller removes it.
func newProfile(downloadDir string) (string, error) {
	dir, err := os.MkdirTemp("", "urlpdf-profile-*")
	if err != nil {
		return "", fmt.Errorf("creating profile dir: %w", err)
	}

	var prefs browserPrefs
	prefs.Download.DefaultDirectory = downloadDir
	data, err := json.Marshal(prefs)
	if err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("encoding preferences: %w", err)
	}

	def := filepath.Join(dir, "Default")
	if err := os.MkdirAll(def, 0o700); err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("creating profile dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(def, "Preferences"), data, 0o600); err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("writing preferences: %w", err)
	}
	return dir, nil
}

// sleepCtx waits for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
