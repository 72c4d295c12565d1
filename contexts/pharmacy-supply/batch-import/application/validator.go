package application

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"medledger/contexts/pharmacy-supply/batch-import/domain/entities"
)

const maxNameLength = 255

// ClassifyRows partitions raw tabular text into well-formed and malformed
// rows. It is a pure pre-filter: no ledger interaction, no side effects, and
// a malformed row never blocks classification of the others. Expected row
// shape: name, quantity, expiry date.
func ClassifyRows(raw string, now time.Time) entities.RowReport {
	report := entities.RowReport{
		WellFormed: []entities.DrugRow{},
		Malformed:  []entities.RejectedRow{},
	}

	reader := csv.NewReader(strings.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	line := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			report.Malformed = append(report.Malformed, entities.RejectedRow{
				Line:   line,
				Reason: "row is not valid csv",
			})
			continue
		}

		row, reason := classifyRecord(record, now)
		if reason != "" {
			report.Malformed = append(report.Malformed, entities.RejectedRow{
				Line:   line,
				Reason: reason,
			})
			continue
		}
		row.Line = line
		report.WellFormed = append(report.WellFormed, row)
	}
	return report
}

func classifyRecord(record []string, now time.Time) (entities.DrugRow, string) {
	if len(record) < 3 {
		return entities.DrugRow{}, "row must have name, quantity and expiry date"
	}

	name := strings.TrimSpace(record[0])
	if name == "" {
		return entities.DrugRow{}, "name required"
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return entities.DrugRow{}, "name exceeds 255 characters"
	}

	quantity, err := strconv.ParseInt(strings.TrimSpace(record[1]), 10, 64)
	if err != nil {
		return entities.DrugRow{}, "quantity must be an integer"
	}
	if quantity <= 0 {
		return entities.DrugRow{}, "quantity must be positive"
	}

	expiresAt, err := parseExpiry(strings.TrimSpace(record[2]))
	if err != nil {
		return entities.DrugRow{}, "expiry date is not parseable"
	}
	if !expiresAt.After(now) {
		return entities.DrugRow{}, "expiry date must be in the future"
	}

	return entities.DrugRow{
		Name:      name,
		Quantity:  quantity,
		ExpiresAt: expiresAt,
	}, ""
}

func parseExpiry(value string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts.UTC(), nil
	}
	ts, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, err
	}
	return ts.UTC(), nil
}
