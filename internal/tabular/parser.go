// Package tabular parses raw bank-exported CSV/TSV text into normalized
// rows ready for categorization.
//
// Parsing never fails the batch: malformed rows are dropped with a logged
// warning and an unrecognized header yields an empty result.
package tabular

import (
	"log/slog"
	"math"
	"strings"
	"time"
)

// Row is the normalized output of parsing one tabular line. RawAmount is
// signed (positive = inflow); Amount is always abs(RawAmount).
type Row struct {
	Date        time.Time
	Description string
	Merchant    string
	RawAmount   float64
	Amount      float64
}

// canonicalDateLayout is the canonical date representation for parsed rows.
const canonicalDateLayout = "01/02/2006"

// DateString returns the row date in canonical MM/dd/yyyy form.
func (r Row) DateString() string {
	return r.Date.Format(canonicalDateLayout)
}

type fileFormat int

const (
	formatUnknown fileFormat = iota
	formatChecking
	formatCredit
	formatGeneric
)

// columns holds resolved column indexes; -1 means absent.
type columns struct {
	date    int
	desc    int
	amount  int
	debit   int
	credit  int
	details int
	typ     int
}

// Parse converts raw tabular text into normalized rows. It never returns an
// error; bad rows are skipped and a completely unrecognized file produces an
// empty slice.
func Parse(text string) []Row {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	delimiter := detectDelimiter(text)
	records := tokenize(text, delimiter)
	if len(records) < 2 {
		return nil
	}

	header := normalizeHeader(records[0])
	format, cols := detectFormat(header)
	if format == formatUnknown {
		slog.Warn("Unrecognized tabular header, skipping file",
			"header", strings.Join(header, "|"))
		return nil
	}

	rows := make([]Row, 0, len(records)-1)
	for i, record := range records[1:] {
		if isBlankRecord(record) {
			continue
		}
		row, ok := buildRow(format, cols, record)
		if !ok {
			slog.Debug("Dropping unparseable row", "line", i+2)
			continue
		}
		rows = append(rows, row)
	}

	return rows
}

// detectDelimiter inspects only the first line: tab if present, else comma.
// The delimiter is global for the whole file.
func detectDelimiter(text string) rune {
	line := text
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		line = text[:idx]
	}
	if strings.ContainsRune(line, '\t') {
		return '\t'
	}
	return ','
}

// tokenize is a character-by-character scanner honoring double-quote quoting
// with "" as an escaped quote. Delimiters and newlines separate fields and
// records only outside quotes; carriage returns are stripped.
func tokenize(text string, delimiter rune) [][]string {
	var (
		records  [][]string
		record   []string
		field    strings.Builder
		inQuotes bool
	)

	runes := []rune(text)
	flushField := func() {
		record = append(record, field.String())
		field.Reset()
	}
	flushRecord := func() {
		flushField()
		records = append(records, record)
		record = nil
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				field.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case r == delimiter && !inQuotes:
			flushField()
		case r == '\n' && !inQuotes:
			flushRecord()
		case r == '\r':
			// stripped
		default:
			field.WriteRune(r)
		}
	}
	if field.Len() > 0 || len(record) > 0 {
		flushRecord()
	}

	return records
}

// normalizeHeader lowercases header cells, trims whitespace, and strips a
// leading byte-order mark.
func normalizeHeader(cells []string) []string {
	header := make([]string, len(cells))
	for i, cell := range cells {
		cell = strings.TrimPrefix(cell, "\ufeff")
		header[i] = strings.ToLower(strings.TrimSpace(cell))
	}
	return header
}

func headerSet(header []string) map[string]bool {
	set := make(map[string]bool, len(header))
	for _, cell := range header {
		if cell != "" {
			set[cell] = true
		}
	}
	return set
}

func indexOf(header []string, name string) int {
	for i, cell := range header {
		if cell == name {
			return i
		}
	}
	return -1
}

func indexContaining(header []string, substr string) int {
	for i, cell := range header {
		if cell != "" && strings.Contains(cell, substr) {
			return i
		}
	}
	return -1
}

// genericDescriptionColumns is the priority order for resolving the
// description column in the generic format.
var genericDescriptionColumns = []string{"description", "details", "memo", "payee", "merchant"}

// detectFormat applies the ordered format checks: checking-style, then
// credit-style, then generic column resolution.
func detectFormat(header []string) (fileFormat, columns) {
	set := headerSet(header)
	cols := columns{date: -1, desc: -1, amount: -1, debit: -1, credit: -1, details: -1, typ: -1}

	if set["posting date"] && set["details"] && set["description"] && set["amount"] {
		cols.date = indexOf(header, "posting date")
		cols.desc = indexOf(header, "description")
		cols.amount = indexOf(header, "amount")
		cols.details = indexOf(header, "details")
		return formatChecking, cols
	}

	if (set["transaction date"] || set["trans date"]) && set["post date"] && set["description"] && set["amount"] {
		cols.date = indexOf(header, "post date")
		cols.desc = indexOf(header, "description")
		cols.amount = indexOf(header, "amount")
		cols.typ = indexOf(header, "type")
		return formatCredit, cols
	}

	cols.date = indexContaining(header, "date")
	for _, name := range genericDescriptionColumns {
		if idx := indexContaining(header, name); idx >= 0 {
			cols.desc = idx
			break
		}
	}
	cols.amount = indexContaining(header, "amount")
	if cols.amount < 0 {
		cols.debit = indexContaining(header, "debit")
		cols.credit = indexContaining(header, "credit")
	}

	hasAmount := cols.amount >= 0 || cols.debit >= 0 || cols.credit >= 0
	if cols.date >= 0 && cols.desc >= 0 && hasAmount {
		return formatGeneric, cols
	}

	return formatUnknown, cols
}

func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func cellAt(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// buildRow resolves one record into a normalized row. Rows without a
// parseable date or a non-empty description are rejected.
func buildRow(format fileFormat, cols columns, record []string) (Row, bool) {
	description := cellAt(record, cols.desc)
	if description == "" {
		return Row{}, false
	}

	date, ok := parseDate(cellAt(record, cols.date))
	if !ok {
		return Row{}, false
	}

	var raw float64
	if cols.amount >= 0 {
		amount, ok := parseAmount(cellAt(record, cols.amount))
		if !ok {
			return Row{}, false
		}
		raw = amount
	} else {
		// Separate debit/credit columns: signed amount = credit - debit.
		debit, _ := parseAmount(cellAt(record, cols.debit))
		credit, _ := parseAmount(cellAt(record, cols.credit))
		raw = credit - debit
	}

	switch format {
	case formatChecking:
		raw = correctCheckingSign(raw, cellAt(record, cols.details))
	case formatCredit:
		typeText := cellAt(record, cols.typ)
		if typeText == "" {
			typeText = description
		}
		raw = correctCreditSign(raw, typeText)
	}

	merchant := ExtractMerchant(description)
	if merchant == "" {
		merchant = description
	}

	return Row{
		Date:        date,
		Description: description,
		Merchant:    merchant,
		RawAmount:   raw,
		Amount:      math.Abs(raw),
	}, true
}
