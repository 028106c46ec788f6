package urlpdf

import (
	"math"
	"testing"
)

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestCmToInches(t *testing.T) {
	tests := []struct {
		cm   float64
		want float64
	}{
		{2.54, 1.0},
		{0, 0},
		{21.59, 8.5},
		{27.94, 11.0},
	}
	for _, tt := range tests {
		got := cmToInches(tt.cm)
		if !almostEqual(got, tt.want, 0.001) {
			t.Errorf("cmToInches(%v) = %v, want ~%v", tt.cm, got, tt.want)
		}
	}
}

func TestDefaultPrintOptions(t *testing.T) {
	d := DefaultPrintOptions()
	if d.Landscape {
		t.Error("default Landscape = true, want false")
	}
	if d.DisplayHeaderFooter {
		t.Error("default DisplayHeaderFooter = true, want false")
	}
	if !d.PrintBackground {
		t.Error("default PrintBackground = false, want true")
	}
	if !d.PreferCSSPageSize {
		t.Error("default PreferCSSPageSize = false, want true")
	}
	if d.Size != Letter {
		t.Errorf("default size = %v, want Letter", d.Size)
	}
	if d.Scale != 1.0 {
		t.Errorf("default scale = %v, want 1.0", d.Scale)
	}
	if d.Margin != UniformMargin(1.0) {
		t.Errorf("default margin = %v, want uniform 1.0", d.Margin)
	}
}

func TestPrintOptions_Resolved(t *testing.T) {
	r := PrintOptions{PrintBackground: false}.resolved()
	if r.Size != Letter || r.Scale != 1.0 || r.Margin != UniformMargin(1.0) {
		t.Errorf("zero geometry not defaulted: %+v", r)
	}
	if r.PrintBackground {
		t.Error("explicit PrintBackground=false was overridden")
	}

	custom := PrintOptions{Size: A4, Scale: 0.5, Margin: UniformMargin(2)}.resolved()
	if custom.Size != A4 || custom.Scale != 0.5 || custom.Margin != UniformMargin(2) {
		t.Errorf("explicit geometry replaced: %+v", custom)
	}
}

func TestPaperInches(t *testing.T) {
	w, h := DefaultPrintOptions().paperInches()
	if !almostEqual(w, 8.5, 0.001) || !almostEqual(h, 11, 0.001) {
		t.Errorf("portrait = %vx%v, want 8.5x11", w, h)
	}

	land := DefaultPrintOptions()
	land.Landscape = true
	w, h = land.paperInches()
	if !almostEqual(w, 11, 0.001) || !almostEqual(h, 8.5, 0.001) {
		t.Errorf("landscape = %vx%v, want 11x8.5", w, h)
	}
}

func TestMarginInches(t *testing.T) {
	p := PrintOptions{Margin: Margin{Top: 2.54, Right: 5.08, Bottom: 0, Left: 1.27}}
	top, right, bottom, left := p.marginInches()
	if !almostEqual(top, 1, 0.001) || !almostEqual(right, 2, 0.001) ||
		!almostEqual(bottom, 0, 0.001) || !almostEqual(left, 0.5, 0.001) {
		t.Errorf("marginInches = %v %v %v %v", top, right, bottom, left)
	}
}

func TestParseViewport(t *testing.T) {
	tests := []struct {
		in      string
		want    Viewport
		wantErr bool
	}{
		{"1920x1080", DefaultViewport, false},
		{"800x600", Viewport{800, 600}, false},
		{"0x600", Viewport{}, true},
		{"wide", Viewport{}, true},
		{"", Viewport{}, true},
	}
	for _, tt := range tests {
		got, err := ParseViewport(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseViewport(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseViewport(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if s := DefaultViewport.String(); s != "1920x1080" {
		t.Errorf("DefaultViewport.String() = %q", s)
	}
}

func TestParseWaitStrategy(t *testing.T) {
	for _, w := range []WaitStrategy{WaitNetworkIdle, WaitDOMReady, WaitFixed} {
		got, err := ParseWaitStrategy(w.String())
		if err != nil || got != w {
			t.Errorf("ParseWaitStrategy(%q) = %v, %v", w.String(), got, err)
		}
	}
	if _, err := ParseWaitStrategy("sleep"); err == nil {
		t.Error("ParseWaitStrategy(sleep) succeeded")
	}
}

func TestStagePercent(t *testing.T) {
	stages := []Stage{StageLaunched, StageNavigated, StageSettled, StagePrinted, StageWritten}
	want := []int{20, 40, 60, 80, 100}
	for i, s := range stages {
		if s.Percent() != want[i] {
			t.Errorf("%v.Percent() = %d, want %d", s, s.Percent(), want[i])
		}
	}
}

func TestParsePageSize(t *testing.T) {
	tests := []struct {
		in   string
		want PageSize
	}{
		{"a4", A4},
		{"A4", A4},
		{" Letter ", Letter},
		{"legal", Legal},
	}
	for _, tt := range tests {
		got, err := ParsePageSize(tt.in)
		if err != nil {
			t.Fatalf("ParsePageSize(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParsePageSize(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
	if _, err := ParsePageSize("tabloid"); err == nil {
		t.Error("ParsePageSize(tabloid): expected error")
	}
}
