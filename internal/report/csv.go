package report

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/iptc-tools/pmdchecker/internal/check"
)

// csvHeader matches the column layout of the inventory row.
var csvHeader = []string{
	"topic", "sortorder",
	"IPMD Name L1", "IPMD Name L2", "IPMD Name L3",
	"IIM prop", "XMP prop", "Sync Values", "Comments",
}

// CSVSink writes inventory rows to a CSV file. It implements check.RowSink.
type CSVSink struct {
	f *os.File
	w *csv.Writer
}

// NewCSVSink creates the CSV file and writes the header row. separator
// selects the field delimiter, ',' when zero.
func NewCSVSink(path string, separator rune) (*CSVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV file: %w", err)
	}
	w := csv.NewWriter(f)
	if separator != 0 {
		w.Comma = separator
	}
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	return &CSVSink{f: f, w: w}, nil
}

// EmitRow appends one row.
func (s *CSVSink) EmitRow(r check.Row) error {
	record := []string{
		r.Topic, r.SortOrder,
		r.NameL1, r.NameL2, r.NameL3,
		r.IIM, r.XMP, r.Sync, r.Comments,
	}
	if err := s.w.Write(record); err != nil {
		return fmt.Errorf("failed to write CSV row: %w", err)
	}
	return nil
}

// Close flushes pending rows and closes the file.
func (s *CSVSink) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		s.f.Close()
		return fmt.Errorf("failed to flush CSV rows: %w", err)
	}
	return s.f.Close()
}

// MultiRowSink fans rows out to several sinks.
type MultiRowSink []check.RowSink

// EmitRow forwards the row to every sink.
func (m MultiRowSink) EmitRow(r check.Row) error {
	for _, s := range m {
		if err := s.EmitRow(r); err != nil {
			return err
		}
	}
	return nil
}
