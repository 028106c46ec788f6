package urlpdf_test

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	urlpdf "github.com/porticus-lab/go-url-pdf"
)

func Example() {
	// Renders https://example.com into report.pdf.
	res, err := urlpdf.Convert(context.Background(), "example.com", "report")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Wrote %s: %d pages, %d bytes\n", res.Path(), res.Pages(), res.Len())
}

func Example_progress() {
	c := urlpdf.NewConverter(
		urlpdf.WithTimeout(90*time.Second),
		urlpdf.WithWait(urlpdf.WaitNetworkIdle, 15*time.Second),
	)

	req := urlpdf.Request{URL: "https://example.com", OutputPath: "/tmp/example.pdf"}
	_, err := c.Convert(context.Background(), req, func(p urlpdf.Progress) {
		fmt.Printf("%3d%% %s\n", p.Percent, p.Stage)
	})
	if err != nil {
		log.Fatal(err)
	}
}

func Example_errorKinds() {
	_, err := urlpdf.Convert(context.Background(), "no-such-host.invalid", "/tmp/out.pdf")

	var convErr *urlpdf.Error
	if errors.As(err, &convErr) {
		switch convErr.Kind {
		case urlpdf.KindLaunch:
			fmt.Println("install Chrome or use WithAutoDownload")
		case urlpdf.KindNavigation:
			fmt.Println("check the address and your connection")
		default:
			fmt.Println(convErr)
		}
	}
}

func Example_rod() {
	c := urlpdf.NewConverter(
		urlpdf.WithDriver(urlpdf.Rod()),
		urlpdf.WithAutoDownload(),
		urlpdf.WithPrintOptions(urlpdf.PrintOptions{
			Landscape:         true,
			PrintBackground:   true,
			PreferCSSPageSize: false,
			Size:              urlpdf.A4,
		}),
	)

	if _, err := c.Convert(context.Background(), urlpdf.Request{URL: "example.com", OutputPath: "landscape"}, nil); err != nil {
		log.Fatal(err)
	}
}
