package report

import (
	"fmt"
	"os"

	"github.com/iptc-tools/pmdchecker/internal/check"
	"github.com/parquet-go/parquet-go"
)

// parquetRow mirrors check.Row with column names aligned to the CSV output.
type parquetRow struct {
	Topic     string `parquet:"topic"`
	SortOrder string `parquet:"sortorder"`
	NameL1    string `parquet:"name_l1"`
	NameL2    string `parquet:"name_l2"`
	NameL3    string `parquet:"name_l3"`
	IIM       string `parquet:"iim_prop"`
	XMP       string `parquet:"xmp_prop"`
	Sync      string `parquet:"sync_values"`
	Comments  string `parquet:"comments"`
}

// ParquetSink writes inventory rows to a Parquet file, for runs whose
// results feed into further tooling. It implements check.RowSink.
type ParquetSink struct {
	f *os.File
	w *parquet.GenericWriter[parquetRow]
}

// NewParquetSink creates the Parquet file.
func NewParquetSink(path string) (*ParquetSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet file: %w", err)
	}
	return &ParquetSink{f: f, w: parquet.NewGenericWriter[parquetRow](f)}, nil
}

// EmitRow appends one row.
func (s *ParquetSink) EmitRow(r check.Row) error {
	rows := []parquetRow{{
		Topic:     r.Topic,
		SortOrder: r.SortOrder,
		NameL1:    r.NameL1,
		NameL2:    r.NameL2,
		NameL3:    r.NameL3,
		IIM:       r.IIM,
		XMP:       r.XMP,
		Sync:      r.Sync,
		Comments:  r.Comments,
	}}
	if _, err := s.w.Write(rows); err != nil {
		return fmt.Errorf("failed to write parquet row: %w", err)
	}
	return nil
}

// Close finalizes the parquet footer and closes the file.
func (s *ParquetSink) Close() error {
	if err := s.w.Close(); err != nil {
		s.f.Close()
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return s.f.Close()
}
