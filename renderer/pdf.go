package renderer

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/etnz/momentum"
	"github.com/etnz/momentum/date"
	"github.com/etnz/momentum/report"
	"github.com/go-pdf/fpdf"
)

// RGB is a color.
type RGB struct{ R, G, B int }

// Palette.
var (
	Navy      = RGB{30, 60, 96}
	Red       = RGB{234, 51, 35}
	Grey      = RGB{128, 128, 128}
	LightGrey = RGB{245, 247, 250}
	White     = RGB{255, 255, 255}
)

// DefaultTableTitle is the title of the top performers table.
const DefaultTableTitle = "Top 10 Momentum Performers (12-1 Month Returns)"

// TablePDF writes a one page table of the first limit ranked rows, numbered
// from 1 in their file order.
func TablePDF(w io.Writer, title string, rows []momentum.Ranked, limit int) error {
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	if title == "" {
		title = DefaultTableTitle
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetTitle(title, true)
	pdf.AddPage()

	pdf.SetFont("Times", "B", 16)
	pdf.SetTextColor(Navy.R, Navy.G, Navy.B)
	pdf.MultiCell(0, 8, title, "", "C", false)
	pdf.Ln(6)

	widths := []float64{34, 51, 68} // 0.2, 0.3, 0.4 of the table
	left := (210 - (widths[0] + widths[1] + widths[2])) / 2
	headers := []string{"Rank", "Ticker", "12-1 Month Return"}

	pdf.SetFont("Times", "B", 12)
	pdf.SetFillColor(Navy.R, Navy.G, Navy.B)
	pdf.SetTextColor(White.R, White.G, White.B)
	pdf.SetX(left)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 10, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Times", "", 12)
	pdf.SetTextColor(0, 0, 0)
	for i, r := range rows {
		fill := White
		if i%2 == 0 {
			fill = LightGrey
		}
		pdf.SetFillColor(fill.R, fill.G, fill.B)
		pdf.SetX(left)
		cells := []string{strconv.Itoa(i + 1), r.Ticker, report.Percent(r.Mom121)}
		for j, c := range cells {
			pdf.CellFormat(widths[j], 8, c, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
	return pdf.Output(w)
}

// Series is a named line of a chart.
type Series struct {
	Name   string
	Days   []date.Date
	Values []float64
	Color  RGB
}

// Chart is a line chart over time.
type Chart struct {
	Title       string
	YLabel      string
	Percent     bool // format the y axis as percentages
	Series      []Series
	Marker      date.Date // vertical dashed line, if not zero
	MarkerLabel string
}

// ErrEmptyChart is returned when a chart has no point to draw.
var ErrEmptyChart = errors.New("nothing to draw")

// bounds returns the date and value ranges of all series.
func (c *Chart) bounds() (from, to date.Date, lo, hi float64, err error) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range c.Series {
		for i, on := range s.Days {
			v := s.Values[i]
			if math.IsNaN(v) {
				continue
			}
			if from.IsZero() || on.Before(from) {
				from = on
			}
			if on.After(to) {
				to = on
			}
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	if from.IsZero() {
		return from, to, lo, hi, ErrEmptyChart
	}
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	pad := (hi - lo) * 0.05
	return from, to, lo - pad, hi + pad, nil
}

// LineChartPDF writes the charts as a landscape PDF, one page each.
func LineChartPDF(w io.Writer, charts ...Chart) error {
	if len(charts) == 0 {
		return ErrEmptyChart
	}
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(charts[0].Title, true)
	for _, c := range charts {
		if err := drawChart(pdf, c); err != nil {
			return fmt.Errorf("%s: %w", c.Title, err)
		}
	}
	return pdf.Output(w)
}

// drawChart draws c on a new page.
func drawChart(pdf *fpdf.Fpdf, c Chart) error {
	from, to, lo, hi, err := c.bounds()
	if err != nil {
		return err
	}
	pdf.AddPage()

	// plot area
	const x0, y0, width, height = 30.0, 25.0, 240.0, 150.0
	days := float64(date.Range{From: from, To: to}.Days() - 1)
	if days < 1 {
		days = 1
	}
	px := func(on date.Date) float64 {
		return x0 + width*float64(date.Range{From: from, To: on}.Days()-1)/days
	}
	py := func(v float64) float64 { return y0 + height*(hi-v)/(hi-lo) }

	pdf.SetFont("Times", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(x0, 10)
	pdf.CellFormat(width, 8, c.Title, "", 0, "C", false, 0, "")

	// y axis with five ticks
	pdf.SetFont("Times", "", 9)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.2)
	pdf.Line(x0, y0, x0, y0+height)
	for i := 0; i <= 4; i++ {
		v := lo + (hi-lo)*float64(i)/4
		label := fmt.Sprintf("%.2f", v)
		if c.Percent {
			label = fmt.Sprintf("%.0f%%", v*100)
		}
		y := py(v)
		pdf.Line(x0-1.5, y, x0, y)
		pdf.SetXY(x0-22, y-2)
		pdf.CellFormat(20, 4, label, "", 0, "R", false, 0, "")
	}
	if c.YLabel != "" {
		pdf.TransformBegin()
		pdf.TransformRotate(90, 10, y0+height/2)
		pdf.Text(10-pdf.GetStringWidth(c.YLabel)/2, y0+height/2, c.YLabel)
		pdf.TransformEnd()
	}
	pdf.SetXY(x0, y0+height+2)
	pdf.CellFormat(width/2, 4, from.String(), "", 0, "L", false, 0, "")
	pdf.CellFormat(width/2, 4, to.String(), "", 0, "R", false, 0, "")

	if !c.Marker.IsZero() && !c.Marker.Before(from) && !c.Marker.After(to) {
		x := px(c.Marker)
		pdf.SetDrawColor(Grey.R, Grey.G, Grey.B)
		pdf.SetDashPattern([]float64{2, 1.5}, 0)
		pdf.Line(x, y0, x, y0+height)
		pdf.SetDashPattern([]float64{}, 0)
		if c.MarkerLabel != "" {
			pdf.SetTextColor(Grey.R, Grey.G, Grey.B)
			pdf.TransformBegin()
			pdf.TransformRotate(90, x-1, y0+40)
			pdf.Text(x-1, y0+40, c.MarkerLabel)
			pdf.TransformEnd()
		}
	}

	pdf.SetLineWidth(0.6)
	for _, s := range c.Series {
		pdf.SetDrawColor(s.Color.R, s.Color.G, s.Color.B)
		var prevX, prevY float64
		started := false
		for i, on := range s.Days {
			v := s.Values[i]
			if math.IsNaN(v) {
				continue
			}
			x, y := px(on), py(v)
			if started {
				pdf.Line(prevX, prevY, x, y)
			}
			prevX, prevY, started = x, y, true
		}
	}

	// legend
	pdf.SetFont("Times", "", 10)
	ly := y0 + height + 10
	for i, s := range c.Series {
		if s.Name == "" {
			continue
		}
		lx := x0 + float64(i%4)*60
		y := ly + float64(i/4)*6
		pdf.SetDrawColor(s.Color.R, s.Color.G, s.Color.B)
		pdf.Line(lx, y+2, lx+8, y+2)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetXY(lx+10, y)
		pdf.CellFormat(48, 4, s.Name, "", 0, "L", false, 0, "")
	}
	return pdf.Error()
}
