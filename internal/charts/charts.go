// Package charts renders progress charts as SVG documents with gonum/plot.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kidandcat/phantomhq/internal/game"
	"github.com/kidandcat/phantomhq/internal/models"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrNoData is returned when a chart has nothing to plot.
var ErrNoData = errors.New("no data to chart")

const (
	colorRed  = "#FF6B6B"
	colorTeal = "#4ECDC4"
	colorBlue = "#45B7D1"

	maxNameRunes = 15
	maxDayLabels = 12
)

var (
	statColors = []string{colorRed, colorTeal, colorBlue, "#FFA07A", "#98D8C8"}
	gridColor  = color.Gray{Y: 0xcc}
)

// rgb parses a "#RRGGBB" colour.
func rgb(hex string) color.NRGBA {
	v, _ := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

func translucent(hex string, alpha uint8) color.NRGBA {
	c := rgb(hex)
	c.A = alpha
	return c
}

func render(p *plot.Plot, w, h vg.Length) ([]byte, error) {
	wt, err := p.WriterTo(w, h, "svg")
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

func clampStat(v int) float64 {
	return float64(models.ClampStat(v))
}

// StatsRadar draws the five statistics on a 0-100 radar.
func StatsRadar(s game.StatsSummary, username string) ([]byte, error) {
	names := models.StatNames()
	vertex := func(i int, r float64) plotter.XY {
		angle := math.Pi/2 - 2*math.Pi*float64(i)/float64(len(names))
		return plotter.XY{X: r * math.Cos(angle), Y: r * math.Sin(angle)}
	}

	p := plot.New()
	p.Title.Text = username + "'s Stats Profile"
	p.HideAxes()

	for pct := 20; pct <= 100; pct += 20 {
		ring := make(plotter.XYs, len(names))
		for i := range names {
			ring[i] = vertex(i, float64(pct)/100)
		}
		grid, err := plotter.NewPolygon(ring)
		if err != nil {
			return nil, fmt.Errorf("stats radar: %w", err)
		}
		grid.Color = nil
		grid.LineStyle.Color = gridColor
		grid.LineStyle.Width = vg.Points(0.5)
		p.Add(grid)
	}

	shape := make(plotter.XYs, len(names))
	at := make(plotter.XYs, len(names))
	captions := make([]string, len(names))
	for i, name := range names {
		spoke, err := plotter.NewLine(plotter.XYs{{}, vertex(i, 1)})
		if err != nil {
			return nil, fmt.Errorf("stats radar: %w", err)
		}
		spoke.LineStyle.Color = gridColor
		spoke.LineStyle.Width = vg.Points(0.5)
		p.Add(spoke)

		shape[i] = vertex(i, clampStat(s.Value(name))/100)
		at[i] = vertex(i, 1.18)
		captions[i] = fmt.Sprintf("%s %d", name.Label(), s.Value(name))
	}

	area, err := plotter.NewPolygon(shape)
	if err != nil {
		return nil, fmt.Errorf("stats radar: %w", err)
	}
	area.Color = translucent(colorRed, 0x55)
	area.LineStyle.Color = rgb(colorRed)
	area.LineStyle.Width = vg.Points(2)

	dots, err := plotter.NewScatter(shape)
	if err != nil {
		return nil, fmt.Errorf("stats radar: %w", err)
	}
	dots.GlyphStyle.Shape = draw.CircleGlyph{}
	dots.GlyphStyle.Color = rgb(colorRed)
	dots.GlyphStyle.Radius = vg.Points(3)

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: at, Labels: captions})
	if err != nil {
		return nil, fmt.Errorf("stats radar: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
		labels.TextStyle[i].YAlign = text.YCenter
	}

	p.Add(area, dots, labels)
	p.X.Min, p.X.Max = -1.5, 1.5
	p.Y.Min, p.Y.Max = -1.35, 1.35
	return render(p, vg.Points(500), vg.Points(500))
}

// StatsBar draws one labelled bar per statistic.
func StatsBar(s game.StatsSummary, username string) ([]byte, error) {
	names := models.StatNames()

	p := plot.New()
	p.Title.Text = username + "'s Statistics"
	p.Y.Label.Text = "Value"

	ticks := make([]string, len(names))
	tops := make(plotter.XYs, len(names))
	values := make([]string, len(names))
	for i, name := range names {
		v := clampStat(s.Value(name))
		bar, err := plotter.NewBarChart(plotter.Values{v}, vg.Points(48))
		if err != nil {
			return nil, fmt.Errorf("stats bar: %w", err)
		}
		bar.XMin = float64(i)
		bar.Color = rgb(statColors[i%len(statColors)])
		bar.LineStyle.Width = 0
		p.Add(bar)

		ticks[i] = name.Label()
		tops[i] = plotter.XY{X: float64(i), Y: v + 2}
		values[i] = strconv.Itoa(s.Value(name))
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: tops, Labels: values})
	if err != nil {
		return nil, fmt.Errorf("stats bar: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
	}
	p.Add(labels)

	p.NominalX(ticks...)
	p.Y.Min, p.Y.Max = 0, float64(models.MaxStat)+10
	return render(p, vg.Points(600), vg.Points(420))
}

// PalaceColor is the bar colour for an infiltration percentage.
func PalaceColor(pct float64) string {
	switch {
	case pct < 50:
		return colorRed
	case pct < 100:
		return colorTeal
	default:
		return colorBlue
	}
}

// TruncateName shortens names longer than 15 characters.
func TruncateName(name string) string {
	if utf8.RuneCountInString(name) <= maxNameRunes {
		return name
	}
	return string([]rune(name)[:maxNameRunes]) + "..."
}

// PalaceProgress draws a horizontal infiltration bar per palace.
func PalaceProgress(palaces []game.PalaceProgress, username string) ([]byte, error) {
	if len(palaces) == 0 {
		return nil, ErrNoData
	}

	p := plot.New()
	p.Title.Text = username + "'s Palace Progress"
	p.X.Label.Text = "Infiltration (%)"

	names := make([]string, len(palaces))
	ends := make(plotter.XYs, len(palaces))
	percents := make([]string, len(palaces))
	for i, pp := range palaces {
		pct := math.Min(models.MaxInfiltration, math.Max(0, pp.Infiltration))
		bar, err := plotter.NewBarChart(plotter.Values{pct}, vg.Points(22))
		if err != nil {
			return nil, fmt.Errorf("palace progress: %w", err)
		}
		bar.Horizontal = true
		bar.XMin = float64(i)
		bar.Color = rgb(PalaceColor(pct))
		bar.LineStyle.Width = 0
		p.Add(bar)

		names[i] = TruncateName(pp.Name)
		ends[i] = plotter.XY{X: pct + 1, Y: float64(i)}
		percents[i] = fmt.Sprintf("%.1f%%", pct)
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: ends, Labels: percents})
	if err != nil {
		return nil, fmt.Errorf("palace progress: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].YAlign = text.YCenter
	}
	p.Add(labels)

	p.NominalY(names...)
	p.X.Min, p.X.Max = 0, models.MaxInfiltration+15
	height := vg.Points(120 + 40*float64(len(palaces)))
	return render(p, vg.Points(700), height)
}

// dayTicks marks every plotted day, labelling at most maxDayLabels of them.
type dayTicks []time.Time

func (d dayTicks) Ticks(_, _ float64) []plot.Tick {
	every := 1
	if len(d) > maxDayLabels {
		every = int(math.Ceil(float64(len(d)) / maxDayLabels))
	}
	ticks := make([]plot.Tick, len(d))
	for i, day := range d {
		ticks[i].Value = float64(day.Unix())
		if i%every == 0 || i == len(d)-1 {
			ticks[i].Label = models.FormatDate(day)
		}
	}
	return ticks
}

// ExpProgress draws cumulative experience over time.
func ExpProgress(history []game.ExpPoint, username string) ([]byte, error) {
	if len(history) == 0 {
		return nil, ErrNoData
	}

	xys := make(plotter.XYs, len(history))
	days := make(dayTicks, len(history))
	for i, pt := range history {
		xys[i] = plotter.XY{X: float64(pt.Date.Unix()), Y: float64(pt.Exp)}
		days[i] = pt.Date
	}

	p := plot.New()
	p.Title.Text = username + "'s EXP Progress"
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Total EXP"
	p.X.Tick.Marker = days
	p.X.Tick.Label.Rotation = math.Pi / 6
	p.X.Tick.Label.XAlign = text.XRight
	p.Add(plotter.NewGrid())

	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return nil, fmt.Errorf("exp progress: %w", err)
	}
	line.LineStyle.Color = rgb(colorRed)
	line.LineStyle.Width = vg.Points(2)
	line.FillColor = translucent(colorRed, 0x33)
	points.GlyphStyle.Shape = draw.CircleGlyph{}
	points.GlyphStyle.Color = rgb(colorRed)
	points.GlyphStyle.Radius = vg.Points(3)
	p.Add(line, points)

	halfDay := (12 * time.Hour).Seconds()
	p.X.Min -= halfDay
	p.X.Max += halfDay
	p.Y.Min = 0
	p.Y.Max = math.Max(p.Y.Max*1.1, 1)
	return render(p, vg.Points(800), vg.Points(440))
}
