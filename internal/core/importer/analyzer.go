package importer

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// sampleLimit caps how many rows the column classifier inspects per column.
const sampleLimit = 100

// previewLimit caps the rows echoed back in the analysis report.
const previewLimit = 10

// dateLayouts maps the supported user-facing date format patterns to Go layouts.
var dateLayouts = []struct {
	Pattern string
	Layout  string
}{
	{"YYYY-MM-DD", "2006-01-02"},
	{"MM/DD/YYYY", "01/02/2006"},
	{"MM-DD-YYYY", "01-02-2006"},
}

// mappingAliases is the static dictionary of likely header names per target
// field, matched case-insensitively after trimming. First match wins.
var mappingAliases = map[string][]string{
	TargetTransactionID: {"transaction id", "transactionid", "txn id", "trans id", "journal id", "entry id", "reference", "ref"},
	TargetEntryDate:     {"date", "entry date", "transaction date", "posting date", "journal date"},
	TargetDebit:         {"debit", "debit amount", "dr"},
	TargetCredit:        {"credit", "credit amount", "cr"},
	TargetAccountCode:   {"account", "account code", "account number", "acct", "gl code", "gl account"},
	TargetFundCode:      {"fund", "fund code"},
	TargetEntityCode:    {"entity", "entity code", "organization", "org"},
	TargetDescription:   {"description", "memo", "notes", "narrative", "detail"},
}

// mappingTargets fixes the suggestion order so earlier targets claim contested
// headers ("reference" should not be eaten by description, for example).
var mappingTargets = []string{
	TargetTransactionID, TargetEntryDate, TargetDebit, TargetCredit,
	TargetAccountCode, TargetFundCode, TargetEntityCode, TargetDescription,
}

// Analyze profiles every column, suggests a column-to-schema mapping and
// returns a reusable import configuration plus a short preview of the data.
func Analyze(sheet Sheet) AnalysisReport {
	columns := make([]ColumnProfile, len(sheet.Headers))
	for i, header := range sheet.Headers {
		columns[i] = profileColumn(sheet, i, header)
	}

	mapping := SuggestMapping(sheet.Headers)

	preview := sheet.Rows
	if len(preview) > previewLimit {
		preview = preview[:previewLimit]
	}

	dateFormat := ""
	if dateHeader, ok := mapping[TargetEntryDate]; ok {
		for _, col := range columns {
			if col.Header == dateHeader && col.DateFormat != "" {
				dateFormat = col.DateFormat
				break
			}
		}
	}

	return AnalysisReport{
		RowCount:         len(sheet.Rows),
		Columns:          columns,
		SuggestedMapping: mapping,
		Preview:          preview,
		Config: Config{
			SourceFormat:  "csv",
			ColumnMapping: mapping,
			DateFormat:    dateFormat,
			ImportSettings: Settings{
				TransactionGroupingColumn: mapping[TargetTransactionID],
			},
		},
	}
}

// SuggestMapping matches header names against the alias dictionary.
func SuggestMapping(headers []string) ColumnMapping {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = strings.ToLower(strings.TrimSpace(h))
	}

	mapping := ColumnMapping{}
	claimed := make(map[int]bool, len(headers))
	for _, target := range mappingTargets {
		for _, alias := range mappingAliases[target] {
			found := false
			for i, header := range normalized {
				if claimed[i] || header != alias {
					continue
				}
				mapping[target] = headers[i]
				claimed[i] = true
				found = true
				break
			}
			if found {
				break
			}
		}
	}
	return mapping
}

// profileColumn classifies a column as Number, Date or String by majority vote
// over up to sampleLimit non-empty values, and detects the date format when the
// column looks like dates.
func profileColumn(sheet Sheet, index int, header string) ColumnProfile {
	profile := ColumnProfile{Index: index, Header: header, Type: ColumnString}

	numbers, dates := 0, 0
	layoutHits := make(map[string]int, len(dateLayouts))
	sampled := 0
	for _, row := range sheet.Rows {
		if sampled >= sampleLimit {
			break
		}
		if index >= len(row) {
			continue
		}
		value := strings.TrimSpace(row[index])
		if value == "" {
			continue
		}
		sampled++

		if _, err := decimal.NewFromString(value); err == nil {
			numbers++
			continue
		}
		for _, dl := range dateLayouts {
			if _, err := time.Parse(dl.Layout, value); err == nil {
				dates++
				layoutHits[dl.Pattern]++
				break
			}
		}
	}
	profile.Sampled = sampled

	if sampled == 0 {
		return profile
	}
	switch {
	case numbers*2 > sampled:
		profile.Type = ColumnNumber
	case dates*2 > sampled:
		profile.Type = ColumnDate
		best := 0
		for _, dl := range dateLayouts {
			if layoutHits[dl.Pattern] > best {
				best = layoutHits[dl.Pattern]
				profile.DateFormat = dl.Pattern
			}
		}
	}
	return profile
}

// ParseDate parses a cell value using the user-facing date format pattern.
func ParseDate(pattern, value string) (time.Time, error) {
	return time.Parse(layoutFor(pattern), strings.TrimSpace(value))
}

// layoutFor returns the Go time layout for a user-facing date format pattern.
// Unknown patterns fall back to ISO dates.
func layoutFor(pattern string) string {
	for _, dl := range dateLayouts {
		if dl.Pattern == pattern {
			return dl.Layout
		}
	}
	return "2006-01-02"
}
