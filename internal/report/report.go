// Package report renders an annotated image and its measurements as a PDF.
package report

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/example/lineprobe/internal/geom"
	"github.com/example/lineprobe/internal/profile"
)

// Profile is one sampled line with its statistics.
type Profile struct {
	Line    geom.Line
	Samples []profile.Sample
	Stats   profile.Stats
}

// Report is everything that goes into the document.
type Report struct {
	Title   string
	Created time.Time
	Image   image.Image
	Points  []geom.Point
	Lines   []geom.Line
	Profile *Profile
}

const (
	maxImageHeight = 120.0
	plotHeight     = 50.0
	rowHeight      = 6.0
)

// Write renders r as an A4 portrait PDF.
func Write(w io.Writer, r Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	title := r.Title
	if title == "" {
		title = "lineprobe report"
	}
	pdf.SetTitle(title, true)
	pdf.SetCreator("lineprobe", true)
	if !r.Created.IsZero() {
		pdf.SetCreationDate(r.Created)
	}
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	if !r.Created.IsZero() {
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 5, r.Created.Format(time.RFC1123), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	if r.Image != nil && !geom.SizeOf(r.Image).Empty() {
		if err := drawImage(pdf, r); err != nil {
			return err
		}
	}
	if len(r.Points) > 0 {
		pointTable(pdf, r.Points)
	}
	if len(r.Lines) > 0 {
		lineTable(pdf, r.Lines)
	}
	if r.Profile != nil {
		profileSection(pdf, *r.Profile)
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return pdf.Output(w)
}

// drawImage places the image at the current position and repeats the
// annotations on top of it in page coordinates.
func drawImage(pdf *gofpdf.Fpdf, r Report) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, r.Image); err != nil {
		return fmt.Errorf("report: encode image: %w", err)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("frame", opts, &buf)

	size := geom.SizeOf(r.Image)
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	scale := math.Min((pageW-left-right)/float64(size.W), maxImageHeight/float64(size.H))
	x0, y0 := left, pdf.GetY()
	w, h := float64(size.W)*scale, float64(size.H)*scale
	pdf.ImageOptions("frame", x0, y0, w, h, false, opts, 0, "")

	at := func(v geom.Vec) (float64, float64) { return x0 + v.X*scale, y0 + v.Y*scale }
	for _, l := range r.Lines {
		c := l.Color.Std()
		pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
		pdf.SetLineWidth(math.Max(l.Width*scale, 0.2))
		x1, y1 := at(l.Start.Pos())
		x2, y2 := at(l.End.Pos())
		pdf.Line(x1, y1, x2, y2)
	}
	pdf.SetFillColor(255, 0, 0)
	pdf.SetFont("Helvetica", "", 7)
	for i, p := range r.Points {
		x, y := at(p.Pos())
		pdf.Circle(x, y, 0.8, "F")
		pdf.Text(x+1.2, y-1.2, fmt.Sprint(i+1))
	}
	pdf.SetY(y0 + h + 4)
	return nil
}

func header(pdf *gofpdf.Fpdf, title string, cols []string, widths []float64) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(220, 220, 220)
	for i, c := range cols {
		pdf.CellFormat(widths[i], rowHeight, c, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 9)
}

func row(pdf *gofpdf.Fpdf, cells []string, widths []float64) {
	for i, c := range cells {
		pdf.CellFormat(widths[i], rowHeight, c, "1", 0, "R", false, 0, "")
	}
	pdf.Ln(-1)
}

func pointTable(pdf *gofpdf.Fpdf, pts []geom.Point) {
	widths := []float64{12, 28, 28, 34, 60}
	header(pdf, "Points", []string{"#", "X", "Y", "Pixel index", "RGBA"}, widths)
	for i, p := range pts {
		idx, rgba := "-", "-"
		if p.PixelIndex != nil {
			idx = fmt.Sprint(*p.PixelIndex)
		}
		if d := p.PixelData; d != nil {
			rgba = fmt.Sprintf("%d, %d, %d, %d", d.R, d.G, d.B, d.A)
		}
		row(pdf, []string{fmt.Sprint(i + 1), fmt.Sprintf("%.2f", p.X), fmt.Sprintf("%.2f", p.Y), idx, rgba}, widths)
	}
	s := profile.SummarisePoints(pts)
	if s.Count > 1 {
		pdf.CellFormat(0, rowHeight, fmt.Sprintf("Path length %.2f px, centroid (%.2f, %.2f)",
			s.TotalDistance, s.Centroid.X, s.Centroid.Y), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
}

func lineTable(pdf *gofpdf.Fpdf, lines []geom.Line) {
	widths := []float64{12, 46, 46, 30, 28}
	header(pdf, "Lines", []string{"#", "Start", "End", "Length", "Colour"}, widths)
	for i, l := range lines {
		row(pdf, []string{
			fmt.Sprint(i + 1),
			fmt.Sprintf("%.1f, %.1f", l.Start.X, l.Start.Y),
			fmt.Sprintf("%.1f, %.1f", l.End.X, l.End.Y),
			fmt.Sprintf("%.2f", l.Length),
			l.Color.Hex(),
		}, widths)
	}
	pdf.Ln(3)
}

func profileSection(pdf *gofpdf.Fpdf, p Profile) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Profile (%.2f px)", p.Line.Length), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	st := p.Stats
	pdf.CellFormat(0, rowHeight, fmt.Sprintf("Samples %d  Mean %.2f  StdDev %.2f  Min %.2f  Max %.2f",
		st.Count, st.Mean, st.StdDev, st.Min, st.Max), "", 1, "L", false, 0, "")
	if len(p.Samples) < 2 {
		return
	}

	pageW, pageH := pdf.GetPageSize()
	left, _, right, bottom := pdf.GetMargins()
	if pdf.GetY()+plotHeight+4 > pageH-bottom {
		pdf.AddPage()
	}
	x0, y0 := left, pdf.GetY()+2
	w := pageW - left - right
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.2)
	pdf.Rect(x0, y0, w, plotHeight, "D")

	last := float64(p.Samples[len(p.Samples)-1].Distance)
	if last <= 0 {
		return
	}
	pdf.SetDrawColor(0, 90, 200)
	pdf.SetLineWidth(0.3)
	px := func(s profile.Sample) (float64, float64) {
		return x0 + float64(s.Distance)/last*w, y0 + plotHeight - s.Intensity/255*plotHeight
	}
	for i := 1; i < len(p.Samples); i++ {
		x1, y1 := px(p.Samples[i-1])
		x2, y2 := px(p.Samples[i])
		pdf.Line(x1, y1, x2, y2)
	}
	pdf.SetY(y0 + plotHeight + 4)
}
