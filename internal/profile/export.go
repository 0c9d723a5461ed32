package profile

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// CSVHeader is the first row written by WriteCSV.
var CSVHeader = []string{"Distance", "X", "Y", "Intensity", "Red", "Green", "Blue"}

// WriteCSV writes samples as CSV with CSVHeader.
func WriteCSV(w io.Writer, samples []Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, s := range samples {
		row := []string{
			strconv.Itoa(s.Distance),
			strconv.Itoa(s.X),
			strconv.Itoa(s.Y),
			strconv.FormatFloat(s.Intensity, 'f', -1, 64),
			strconv.Itoa(int(s.RGB.R)),
			strconv.Itoa(int(s.RGB.G)),
			strconv.Itoa(int(s.RGB.B)),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", s.Distance, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes samples as an indented JSON array.
func WriteJSON(w io.Writer, samples []Sample) error {
	if samples == nil {
		samples = []Sample{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(samples)
}
