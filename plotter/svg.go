// Package plotter renders tumor growth trajectories as SVG plots.
package plotter

import (
	"fmt"
	"math"
	"strings"

	"github.com/oncosim-xyz/go-oncosim/results"
)

// Series is one curve on a plot.
type Series struct {
	X     []float64
	Y     []float64
	Label string
	Color string
}

// Marker is a labeled vertical line, used for treatment start days.
type Marker struct {
	X     float64
	Label string
}

// SVGPlotter builds a trajectory plot.
type SVGPlotter struct {
	Width      float64
	Height     float64
	Title      string
	XLabel     string
	YLabel     string
	Series     []Series
	Markers    []Marker
	Thresholds map[string]float64 // horizontal guide lines, label -> y

	marginTop, marginRight, marginBottom, marginLeft float64
}

// New creates a plotter with the given dimensions.
func New(width, height float64) *SVGPlotter {
	return &SVGPlotter{
		Width:        width,
		Height:       height,
		XLabel:       "Day",
		YLabel:       "Volume (cm³)",
		marginTop:    40,
		marginRight:  110,
		marginBottom: 50,
		marginLeft:   60,
	}
}

// SetTitle sets the plot title.
func (p *SVGPlotter) SetTitle(t string) *SVGPlotter {
	p.Title = t
	return p
}

// AddSeries adds a curve. An empty color picks from the default palette.
func (p *SVGPlotter) AddSeries(x, y []float64, label, color string) *SVGPlotter {
	if color == "" {
		colors := []string{"#e41a1c", "#377eb8", "#4daf4a", "#984ea3", "#ff7f00"}
		color = colors[len(p.Series)%len(colors)]
	}
	p.Series = append(p.Series, Series{X: x, Y: y, Label: label, Color: color})
	return p
}

// AddMarker adds a labeled vertical line at the given x.
func (p *SVGPlotter) AddMarker(x float64, label string) *SVGPlotter {
	p.Markers = append(p.Markers, Marker{X: x, Label: label})
	return p
}

// AddThreshold adds a labeled horizontal guide line at the given y.
func (p *SVGPlotter) AddThreshold(label string, y float64) *SVGPlotter {
	if p.Thresholds == nil {
		p.Thresholds = make(map[string]float64)
	}
	p.Thresholds[label] = y
	return p
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}

// Render generates the SVG document.
func (p *SVGPlotter) Render() string {
	plotW := p.Width - p.marginLeft - p.marginRight
	plotH := p.Height - p.marginTop - p.marginBottom

	xmin, xmax := math.Inf(1), math.Inf(-1)
	ymin, ymax := 0.0, math.Inf(-1)
	for _, s := range p.Series {
		for i := range s.X {
			xmin = math.Min(xmin, s.X[i])
			xmax = math.Max(xmax, s.X[i])
			ymax = math.Max(ymax, s.Y[i])
		}
	}
	if math.IsInf(xmin, 1) {
		xmin, xmax = 0, 1
	}
	if math.IsInf(ymax, -1) {
		ymax = 1
	}
	if xmax == xmin {
		xmax = xmin + 1
	}
	ymax *= 1.1
	if ymax == 0 {
		ymax = 1
	}

	sx := func(x float64) float64 {
		return p.marginLeft + (x-xmin)/(xmax-xmin)*plotW
	}
	sy := func(y float64) float64 {
		return p.marginTop + plotH - (y-ymin)/(ymax-ymin)*plotH
	}

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`,
		int(p.Width), int(p.Height)))
	sb.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="#f8f9fa" rx="8"/>`,
		int(p.Width), int(p.Height)))

	if p.Title != "" {
		sb.WriteString(fmt.Sprintf(`<text x="%f" y="25" text-anchor="middle" font-family="Arial, sans-serif" font-size="16" font-weight="bold">%s</text>`,
			p.Width/2, escape(p.Title)))
	}

	// Axes
	sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#333" stroke-width="2"/>`,
		p.marginLeft, p.marginTop, p.marginLeft, p.marginTop+plotH))
	sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#333" stroke-width="2"/>`,
		p.marginLeft, p.marginTop+plotH, p.marginLeft+plotW, p.marginTop+plotH))
	sb.WriteString(fmt.Sprintf(`<text x="%f" y="%f" text-anchor="middle" font-family="Arial, sans-serif" font-size="12">%s</text>`,
		p.marginLeft+plotW/2, p.Height-10, escape(p.XLabel)))
	sb.WriteString(fmt.Sprintf(`<text x="15" y="%f" text-anchor="middle" font-family="Arial, sans-serif" font-size="12" transform="rotate(-90, 15, %f)">%s</text>`,
		p.marginTop+plotH/2, p.marginTop+plotH/2, escape(p.YLabel)))

	// Ticks and grid
	const numTicks = 5
	for i := 0; i <= numTicks; i++ {
		x := xmin + (xmax-xmin)*float64(i)/numTicks
		px := sx(x)
		sb.WriteString(fmt.Sprintf(`<text x="%f" y="%f" text-anchor="middle" font-family="Arial, sans-serif" font-size="10">%.0f</text>`,
			px, p.marginTop+plotH+20, x))
		sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#ddd" stroke-width="0.5"/>`,
			px, p.marginTop, px, p.marginTop+plotH))

		y := ymin + (ymax-ymin)*float64(i)/numTicks
		py := sy(y)
		sb.WriteString(fmt.Sprintf(`<text x="%f" y="%f" text-anchor="end" font-family="Arial, sans-serif" font-size="10">%.1f</text>`,
			p.marginLeft-10, py+4, y))
		sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#ddd" stroke-width="0.5"/>`,
			p.marginLeft, py, p.marginLeft+plotW, py))
	}

	// Stage thresholds as dashed guides, skipping any above the plot range.
	for label, y := range p.Thresholds {
		if y > ymax {
			continue
		}
		py := sy(y)
		sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#999" stroke-width="1" stroke-dasharray="6,4"/>`,
			p.marginLeft, py, p.marginLeft+plotW, py))
		sb.WriteString(fmt.Sprintf(`<text x="%f" y="%f" font-family="Arial, sans-serif" font-size="9" fill="#666">%s</text>`,
			p.marginLeft+plotW+5, py+3, escape(label)))
	}

	// Treatment markers
	for _, m := range p.Markers {
		px := sx(m.X)
		sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#d62728" stroke-width="1" stroke-dasharray="4,4"/>`,
			px, p.marginTop, px, p.marginTop+plotH))
		sb.WriteString(fmt.Sprintf(`<text x="%f" y="%f" font-family="Arial, sans-serif" font-size="9" fill="#d62728" transform="rotate(-90, %f, %f)">%s</text>`,
			px-4, p.marginTop+12, px-4, p.marginTop+12, escape(m.Label)))
	}

	// Curves
	for _, s := range p.Series {
		if len(s.X) == 0 {
			continue
		}
		path := strings.Builder{}
		for i := range s.X {
			if i == 0 {
				path.WriteString(fmt.Sprintf("M%f,%f", sx(s.X[i]), sy(s.Y[i])))
			} else {
				path.WriteString(fmt.Sprintf(" L%f,%f", sx(s.X[i]), sy(s.Y[i])))
			}
		}
		sb.WriteString(fmt.Sprintf(`<path d="%s" stroke="%s" stroke-width="2" fill="none"/>`,
			path.String(), s.Color))
	}

	// Legend
	legendY := p.marginTop + 10
	for _, s := range p.Series {
		if s.Label == "" {
			continue
		}
		x1 := p.Width - p.marginRight + 10
		sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="%s" stroke-width="2"/>`,
			x1, legendY, x1+20, legendY, s.Color))
		sb.WriteString(fmt.Sprintf(`<text x="%f" y="%f" font-family="Arial, sans-serif" font-size="10">%s</text>`,
			x1+25, legendY+4, escape(s.Label)))
		legendY += 20
	}

	sb.WriteString(`</svg>`)
	return sb.String()
}

// PlotResults renders the sensitive, resistant and total volume curves of
// a finished run, with stage threshold guides and treatment-start markers.
func PlotResults(res *results.Results, width, height float64) string {
	ts := res.Data.Timeseries
	days := make([]float64, len(ts.Days))
	for i, d := range ts.Days {
		days[i] = float64(d)
	}

	p := New(width, height).
		SetTitle(fmt.Sprintf("Tumor growth, %d days", res.Data.Summary.FinalDay)).
		AddSeries(days, ts.Total, "total", "").
		AddSeries(days, ts.Sensitive, "sensitive", "").
		AddSeries(days, ts.Resistant, "resistant", "")

	for label, y := range map[string]float64{
		"IA/IB":   3,
		"IB/IIA":  14,
		"IIA/IIB": 28,
		"IIB/III": 65,
		"III/IV":  100,
	} {
		p.AddThreshold(label, y)
	}

	for _, change := range res.Changes {
		p.AddMarker(change.Time, change.To.String())
	}
	return p.Render()
}
