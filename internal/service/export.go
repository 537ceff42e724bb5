package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

var exportHeader = []string{"type", "order_code", "date", "amount_or_event", "unsettled"}

// ExportOptions bounds and shapes the CSV export. Start and End are ISO
// calendar dates; empty means unbounded. Children, Adjustments and Unsettled
// are accepted for wire compatibility but do not alter the output.
type ExportOptions struct {
	Start       string
	End         string
	Children    bool
	Adjustments bool
	Unsettled   bool
}

// ExportCSV renders every recorded payment and event as one CSV row each,
// restricted to the inclusive [Start, End] date range when bounds are given.
// Rows come out as payments then events, each in insertion order, so
// re-exporting without intervening writes is byte-identical.
func (s *OrderService) ExportCSV(ctx context.Context, opts ExportOptions) ([]byte, error) {
	if err := validateBound("start", opts.Start); err != nil {
		return nil, err
	}
	if err := validateBound("end", opts.End); err != nil {
		return nil, err
	}

	payments, err := s.store.ListPayments(ctx)
	if err != nil {
		return nil, fmt.Errorf("export payments: %w", err)
	}
	events, err := s.store.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("export events: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for _, p := range payments {
		date := p.CreatedAt.UTC().Format(dateLayout)
		if !withinBounds(date, opts.Start, opts.End) {
			continue
		}
		if err := w.Write([]string{"payment", p.OrderCode, date, fmt.Sprintf("%.2f", p.Amount), "false"}); err != nil {
			return nil, fmt.Errorf("write payment row: %w", err)
		}
	}

	for _, e := range events {
		date := e.CreatedAt.UTC().Format(dateLayout)
		if !withinBounds(date, opts.Start, opts.End) {
			continue
		}
		if err := w.Write([]string{"event", e.OrderCode, date, string(e.Kind), "false"}); err != nil {
			return nil, fmt.Errorf("write event row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	s.logger.Info("export_generated", "payments", len(payments), "events", len(events), "bytes", buf.Len())
	return buf.Bytes(), nil
}

func validateBound(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, value); err != nil {
		return &ValidationError{Field: field, Reason: "must be a date in YYYY-MM-DD form"}
	}
	return nil
}

// withinBounds compares ISO dates lexicographically, which orders the same
// way as the calendar.
func withinBounds(date, start, end string) bool {
	if start != "" && date < start {
		return false
	}
	if end != "" && date > end {
		return false
	}
	return true
}
