// Package report provides the durable sinks findings and inventory rows are
// written to: append-only text logs, CSV files and Parquet files.
package report

import (
	"fmt"
	"os"
	"sync"

	"github.com/iptc-tools/pmdchecker/internal/check"
)

// LineWriter appends single lines to some destination.
type LineWriter interface {
	WriteLine(line string) error
}

// TextLog is an append-only line log backed by a file. The shared run log is
// written from concurrent file runs, so appends are serialized.
type TextLog struct {
	mu sync.Mutex
	f  *os.File
}

// OpenTextLog opens (or creates) a log file for appending.
func OpenTextLog(path string) (*TextLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return &TextLog{f: f}, nil
}

// WriteLine appends one line.
func (l *TextLog) WriteLine(line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("failed to append to %s: %w", l.f.Name(), err)
	}
	return nil
}

// Close closes the underlying file.
func (l *TextLog) Close() error {
	return l.f.Close()
}

// Console writes lines to stdout, mirroring what goes into the result files.
type Console struct{}

// WriteLine prints the line.
func (Console) WriteLine(line string) error {
	_, err := fmt.Println(line)
	return err
}

// FindingLog formats findings as result lines and fans them out to every
// configured destination. It implements check.Sink.
type FindingLog struct {
	outs []LineWriter
}

// NewFindingLog builds a sink over the given destinations.
func NewFindingLog(outs ...LineWriter) *FindingLog {
	return &FindingLog{outs: outs}
}

// Emit writes the formatted finding to all destinations.
func (l *FindingLog) Emit(f check.Finding) error {
	line := FormatFinding(f)
	for _, out := range l.outs {
		if err := out.WriteLine(line); err != nil {
			return err
		}
	}
	return nil
}

// FormatFinding renders a finding as one result line.
func FormatFinding(f check.Finding) string {
	switch f.Kind {
	case check.KindMissing:
		return fmt.Sprintf("MISSING property: %s", f.Path)
	case check.KindChanged:
		return fmt.Sprintf("CHANGED value of property <%s> is: %s", f.Path, f.Value)
	default:
		return f.Value
	}
}
