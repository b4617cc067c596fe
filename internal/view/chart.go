package view

import (
	"fmt"

	"github.com/iliyamo/movie-prefs/internal/model"
)

// Chart layout in SVG user units. The y axis always spans the full
// preference range so bars are comparable between page loads.
const (
	chartWidth   = 480
	chartHeight  = 280
	chartLeft    = 48
	chartRight   = 16
	chartTop     = 32
	chartBottom  = 40
	chartBarFill = 0.6 // share of each slot covered by its bar
)

// Bar is one genre's column, positioned in SVG coordinates.
type Bar struct {
	Label   string
	Value   float64
	Display string // value rounded for the label above the bar
	X, Y    float64
	Width   float64
	Height  float64
	LabelX  float64
}

// Tick is a horizontal grid line on the y axis.
type Tick struct {
	Label string
	Y     float64
}

// ChartData is everything the template needs to draw the bar chart.
type ChartData struct {
	Title   string
	YLabel  string
	Width   int
	Height  int
	Left    float64
	Right   float64
	Top     float64
	Bottom  float64 // y of the x axis
	Bars    []Bar
	Ticks   []Tick
	BarFill string
}

// Empty reports whether there is nothing to draw.
func (c ChartData) Empty() bool { return len(c.Bars) == 0 }

// Chart lays out one bar per genre average, in the given order.
func Chart(averages []model.GenreAverage) ChartData {
	plotW := float64(chartWidth - chartLeft - chartRight)
	plotH := float64(chartHeight - chartTop - chartBottom)
	base := float64(chartTop) + plotH

	c := ChartData{
		Title:   "Average preference by genre",
		YLabel:  "Average preference",
		Width:   chartWidth,
		Height:  chartHeight,
		Left:    chartLeft,
		Right:   float64(chartWidth - chartRight),
		Top:     chartTop,
		Bottom:  base,
		BarFill: "salmon",
	}
	for v := 0; v <= model.MaxPreference; v++ {
		c.Ticks = append(c.Ticks, Tick{
			Label: fmt.Sprintf("%d", v),
			Y:     base - plotH*float64(v)/model.MaxPreference,
		})
	}
	if len(averages) == 0 {
		return c
	}

	slot := plotW / float64(len(averages))
	barW := slot * chartBarFill
	for i, a := range averages {
		v := min(max(a.Average, 0), model.MaxPreference)
		h := plotH * v / model.MaxPreference
		x := float64(chartLeft) + slot*float64(i) + (slot-barW)/2
		c.Bars = append(c.Bars, Bar{
			Label:   string(a.Genre),
			Value:   a.Average,
			Display: fmt.Sprintf("%.2f", a.Average),
			X:       x,
			Y:       base - h,
			Width:   barW,
			Height:  h,
			LabelX:  x + barW/2,
		})
	}
	return c
}
