package services

import (
	"encoding/csv"
	"slices"
	"strings"

	"github.com/fenilmodi00/ipo-allotment-tracker/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Positional sheet columns: Name, Registrar, Status, GMP, Subscription, AllotmentDate, RegistrarURL.
const (
	columnName = iota
	columnRegistrar
	columnStatus
	columnGMP
	columnSubscription
	columnAllotmentDate
	columnRegistrarURL
)

const minimumFeedColumns = 2

// ParseFeed converts sheet CSV text into IPO records. The first line is always
// treated as a header. Structurally invalid lines and nameless rows are dropped.
func ParseFeed(text string) []*models.IPORecord {
	lines := strings.Split(text, "\n")
	if len(lines) <= 1 {
		return []*models.IPORecord{}
	}

	records := make([]*models.IPORecord, 0, len(lines)-1)
	dropped := 0
	for _, line := range lines[1:] {
		columns, ok := splitFeedLine(line)
		if !ok || len(columns) < minimumFeedColumns {
			dropped++
			continue
		}

		name := column(columns, columnName)
		if name == "" {
			dropped++
			continue
		}

		records = append(records, &models.IPORecord{
			ID:            uuid.NewString(),
			Name:          name,
			Registrar:     columnOr(columns, columnRegistrar, "Unknown"),
			Status:        NormalizeStatus(column(columns, columnStatus)),
			GMP:           columnOr(columns, columnGMP, models.NotAvailable),
			Subscription:  columnOr(columns, columnSubscription, models.NotAvailable),
			AllotmentDate: column(columns, columnAllotmentDate),
			RegistrarURL:  column(columns, columnRegistrarURL),
			Source:        models.SourceSheet,
		})
	}

	if dropped > 0 {
		logrus.WithFields(logrus.Fields{
			"component":    "FeedParser",
			"dropped_rows": dropped,
			"record_count": len(records),
		}).Debug("Dropped structurally invalid feed rows")
	}

	return records
}

// splitFeedLine splits one line with standard CSV quoting. Lines with broken
// quoting fall back to splitLooseFeedLine so they still yield columns.
func splitFeedLine(line string) ([]string, bool) {
	line = strings.TrimRight(line, "\r")
	if strings.TrimSpace(line) == "" {
		return nil, false
	}

	reader := csv.NewReader(strings.NewReader(line))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	fields, err := reader.Read()
	if err != nil {
		return splitLooseFeedLine(line), true
	}

	for i, field := range fields {
		fields[i] = strings.TrimSpace(field)
	}
	return fields, true
}

// splitLooseFeedLine splits on every comma followed by an even number of
// quote characters, then strips one surrounding quote from each field.
func splitLooseFeedLine(line string) []string {
	var fields []string
	end := len(line)
	quotesAfter := 0
	for i := len(line) - 1; i >= 0; i-- {
		switch line[i] {
		case '"':
			quotesAfter++
		case ',':
			if quotesAfter%2 == 0 {
				fields = append(fields, line[i+1:end])
				end = i
			}
		}
	}
	fields = append(fields, line[:end])
	slices.Reverse(fields)

	for i, field := range fields {
		field = strings.TrimSpace(field)
		fields[i] = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(field, `"`), `"`))
	}
	return fields
}

func column(columns []string, index int) string {
	if index < len(columns) {
		return columns[index]
	}
	return ""
}

func columnOr(columns []string, index int, fallback string) string {
	if value := column(columns, index); value != "" {
		return value
	}
	return fallback
}
