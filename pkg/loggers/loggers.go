// Package loggers defines the write-only logging collaborator consumed by
// evaluation code. The environment core has no dependency on it.
package loggers

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"banditLab/pkg/logger"
)

// Data is one record of named values.
type Data = map[string]any

// Logger accepts records and is closed when no further writes are
// expected.
type Logger interface {
	Write(data Data) error
	Close() error
}

// NoOp discards all writes. Useful to quiet an individual component.
type NoOp struct{}

func (NoOp) Write(Data) error { return nil }
func (NoOp) Close() error     { return nil }

// Slog forwards each record to the process logger at info level under a
// fixed label.
type Slog struct {
	Label string
}

func (l Slog) Write(data Data) error {
	args := make([]any, 0, 2*len(data))
	for _, k := range sortedKeys(data) {
		args = append(args, k, data[k])
	}
	logger.Info(l.Label, args...)
	return nil
}

func (l Slog) Close() error { return nil }

// CSV writes records as rows. The header is taken from the first record's
// sorted keys; later records are projected onto it, missing keys are left
// empty.
type CSV struct {
	w      *csv.Writer
	closer io.Closer
	header []string
}

// NewCSV writes to w. If w is also an io.Closer it is closed by Close.
func NewCSV(w io.Writer) *CSV {
	c := &CSV{w: csv.NewWriter(w)}
	if closer, ok := w.(io.Closer); ok {
		c.closer = closer
	}
	return c
}

func (c *CSV) Write(data Data) error {
	if c.header == nil {
		c.header = sortedKeys(data)
		if err := c.w.Write(c.header); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
	}

	row := make([]string, len(c.header))
	for i, k := range c.header {
		if v, ok := data[k]; ok {
			row[i] = fmt.Sprint(v)
		}
	}

	if err := c.w.Write(row); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	return nil
}

func (c *CSV) Close() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

func sortedKeys(data Data) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
