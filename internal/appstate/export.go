package appstate

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/example/lineprobe/internal/canvas"
	"github.com/example/lineprobe/internal/profile"
	"github.com/example/lineprobe/internal/report"
)

// outputPath names a file in dir stamped with t.
func outputPath(dir, kind, ext string, t time.Time) string {
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, fmt.Sprintf("lineprobe-%s-%s.%s", kind, t.Format("20060102-150405"), ext))
}

// saveFrame writes the working image as PNG.
func saveFrame(s *canvas.Session, dir string, t time.Time) (string, error) {
	if s.Frame() == nil {
		return "", canvas.ErrNoFrame
	}
	path := outputPath(dir, "image", "png", t)
	var buf bytes.Buffer
	if err := png.Encode(&buf, s.Frame()); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return path, nil
}

// exportAll writes the annotations as JSON, the last profile as CSV when
// there is one, and a PDF report. It returns the paths written.
func exportAll(s *canvas.Session, dir string, t time.Time) ([]string, error) {
	if s.Frame() == nil {
		return nil, canvas.ErrNoFrame
	}
	var written []string
	write := func(path string, fill func(*bytes.Buffer) error) error {
		var buf bytes.Buffer
		if err := fill(&buf); err != nil {
			return err
		}
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		written = append(written, path)
		return nil
	}

	if err := write(outputPath(dir, "annotations", "json", t), func(b *bytes.Buffer) error {
		return s.WriteJSON(b)
	}); err != nil {
		return written, err
	}

	last, hasProfile := s.LastProfile()
	if hasProfile {
		if err := write(outputPath(dir, "profile", "csv", t), func(b *bytes.Buffer) error {
			return profile.WriteCSV(b, last.Samples)
		}); err != nil {
			return written, err
		}
	}

	rep := report.Report{
		Title:   "lineprobe annotations",
		Created: t,
		Image:   s.Image(),
		Points:  s.Select().Points(),
		Lines:   s.Draw().Lines(),
	}
	if hasProfile {
		rep.Profile = &report.Profile{Line: last.Line, Samples: last.Samples, Stats: last.Stats}
	}
	if err := write(outputPath(dir, "report", "pdf", t), func(b *bytes.Buffer) error {
		return report.Write(b, rep)
	}); err != nil {
		return written, err
	}
	return written, nil
}

// profileCSV renders the last profile for the clipboard.
func profileCSV(s *canvas.Session) (string, bool) {
	last, ok := s.LastProfile()
	if !ok {
		return "", false
	}
	var buf bytes.Buffer
	if err := profile.WriteCSV(&buf, last.Samples); err != nil {
		return "", false
	}
	return buf.String(), true
}
