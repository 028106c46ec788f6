// Package urlpdf renders web pages to PDF files through a headless
// Chromium and its built-in print-to-PDF command (Chrome DevTools Protocol).
//
// For one-off conversions use the package-level helper:
//
//	res, err := urlpdf.Convert(ctx, "example.com", "report")
//	// renders https://example.com into report.pdf
//
// For repeated conversions with shared settings create a [Converter]:
//
//	c := urlpdf.NewConverter(
//	    urlpdf.WithTimeout(90*time.Second),
//	    urlpdf.WithWait(urlpdf.WaitNetworkIdle, 15*time.Second),
//	)
//	res, err := c.Convert(ctx, urlpdf.Request{
//	    URL:        "https://example.com",
//	    OutputPath: "example.pdf",
//	}, func(p urlpdf.Progress) {
//	    fmt.Printf("%3d%% %s\n", p.Percent, p.Stage)
//	})
//
// Each conversion:
//
//  1. launches a fresh headless browser (GPU off, sandbox off unless
//     [WithSandbox], throwaway profile with download prompts disabled)
//  2. navigates to the URL
//  3. waits for the page to settle (network idle by default, bounded)
//  4. forces a 1920x1080 viewport
//  5. prints with background graphics and the page's CSS page size
//  6. checks the bytes are a PDF and atomically writes them to disk
//  7. terminates the browser
//
// Progress milestones are reported at 20, 40, 60, 80 and 100 percent.
// Failures are returned as [*Error] values whose [Kind] tells validation,
// launch, navigation, protocol and I/O problems apart.
//
// Two automation bindings are available: [ChromeDP] (default) and [Rod].
// Chrome or Chromium must be in PATH, or use [WithChromePath] or
// [WithAutoDownload]:
//
//	c := urlpdf.NewConverter(urlpdf.WithDriver(urlpdf.Rod()), urlpdf.WithAutoDownload())
package urlpdf
