package urlpdf

import "fmt"

// WaitStrategy selects how a Session decides that a freshly navigated page
// has finished rendering.
type WaitStrategy int

const (
	// WaitNetworkIdle waits for the main frame's networkIdle lifecycle
	// event, fired once no request has been in flight for 500ms.
	WaitNetworkIdle WaitStrategy = iota
	// WaitDOMReady waits until the document body is ready.
	WaitDOMReady
	// WaitFixed sleeps for a fixed delay regardless of page activity.
	WaitFixed
)

func (w WaitStrategy) String() string {
	switch w {
	case WaitNetworkIdle:
		return "network-idle"
	case WaitDOMReady:
		return "dom-ready"
	case WaitFixed:
		return "fixed"
	}
	return fmt.Sprintf("WaitStrategy(%d)", int(w))
}

// ParseWaitStrategy maps the names produced by [WaitStrategy.String] back
// to their values.
func ParseWaitStrategy(s string) (WaitStrategy, error) {
	switch s {
	case "network-idle", "":
		return WaitNetworkIdle, nil
	case "dom-ready":
		return WaitDOMReady, nil
	case "fixed":
		return WaitFixed, nil
	}
	return 0, fmt.Errorf("urlpdf: unknown wait strategy %q", s)
}
