package importer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nonprofit-suite/fund_accounting_app/internal/apperrors"
)

// balanceEpsilon is the tolerated per-transaction |debits - credits| before a
// group is flagged unbalanced. Tighter than the posting epsilon on purpose:
// imported data should be fixed at the source, not rounded away.
var balanceEpsilon = decimal.NewFromFloat(0.001)

// Group resolves each data row through the mapping and groups rows by the
// transaction-id column, preserving first-seen order. Row numbers are 1-based
// and offset by the header row, so the first data row is row 2.
func Group(sheet Sheet, mapping ColumnMapping) ([]TransactionGroup, error) {
	if err := checkRequiredMapping(sheet.Headers, mapping); err != nil {
		return nil, err
	}

	colIndex := headerIndex(sheet.Headers)
	lookup := func(row []string, target string) string {
		header, ok := mapping[target]
		if !ok {
			return ""
		}
		idx, ok := colIndex[header]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	groups := make(map[string]*TransactionGroup)
	var order []string
	for i, row := range sheet.Rows {
		line := Line{
			RowNumber:     i + 2, // Header occupies row 1
			TransactionID: lookup(row, TargetTransactionID),
			EntryDate:     lookup(row, TargetEntryDate),
			Debit:         coerceAmount(lookup(row, TargetDebit)),
			Credit:        coerceAmount(lookup(row, TargetCredit)),
			AccountCode:   lookup(row, TargetAccountCode),
			FundCode:      lookup(row, TargetFundCode),
			EntityCode:    lookup(row, TargetEntityCode),
			Description:   lookup(row, TargetDescription),
		}

		group, ok := groups[line.TransactionID]
		if !ok {
			group = &TransactionGroup{TransactionID: line.TransactionID}
			groups[line.TransactionID] = group
			order = append(order, line.TransactionID)
		}
		group.Lines = append(group.Lines, line)
		group.TotalDebit = group.TotalDebit.Add(line.Debit)
		group.TotalCredit = group.TotalCredit.Add(line.Credit)
	}

	result := make([]TransactionGroup, len(order))
	for i, id := range order {
		result[i] = *groups[id]
	}
	return result, nil
}

// Validate runs the full reconciliation pass: balance validation per group,
// missing-data scan, master-record manifest and date range.
func Validate(sheet Sheet, config Config) (*ValidationReport, error) {
	groups, err := Group(sheet, config.ColumnMapping)
	if err != nil {
		return nil, err
	}

	report := &ValidationReport{
		TotalRows:          len(sheet.Rows),
		UniqueTransactions: len(groups),
	}

	entityCodes := map[string]bool{}
	fundCodes := map[string]bool{}
	accountCodes := map[string]bool{}
	layout := layoutFor(config.DateFormat)
	var minDate, maxDate *time.Time

	for _, group := range groups {
		diff := group.TotalDebit.Sub(group.TotalCredit)
		if diff.Abs().GreaterThan(balanceEpsilon) {
			rowNumbers := make([]int, len(group.Lines))
			for i, line := range group.Lines {
				rowNumbers[i] = line.RowNumber
			}
			report.UnbalancedTransactions = append(report.UnbalancedTransactions, UnbalancedTransaction{
				TransactionID: group.TransactionID,
				TotalDebit:    group.TotalDebit,
				TotalCredit:   group.TotalCredit,
				Difference:    diff.Abs(),
				RowNumbers:    rowNumbers,
			})
		}

		for _, line := range group.Lines {
			if missing := missingFields(line, config.ColumnMapping); len(missing) > 0 {
				report.MissingData = append(report.MissingData, MissingFieldRow{
					RowNumber:     line.RowNumber,
					MissingFields: missing,
				})
			}
			if line.EntityCode != "" {
				entityCodes[line.EntityCode] = true
			}
			if line.FundCode != "" {
				fundCodes[line.FundCode] = true
			}
			if line.AccountCode != "" {
				accountCodes[line.AccountCode] = true
			}
			if line.EntryDate != "" {
				if parsed, err := time.Parse(layout, line.EntryDate); err == nil {
					if minDate == nil || parsed.Before(*minDate) {
						minDate = &parsed
					}
					if maxDate == nil || parsed.After(*maxDate) {
						maxDate = &parsed
					}
				}
			}
		}
	}

	report.Manifest = Manifest{
		EntityCodes:  sortedKeys(entityCodes),
		FundCodes:    sortedKeys(fundCodes),
		AccountCodes: sortedKeys(accountCodes),
	}
	if minDate != nil {
		report.DateRange = &DateRange{Min: *minDate, Max: *maxDate}
	}
	report.Recommendations = recommendations(report)

	return report, nil
}

// checkRequiredMapping rejects the whole analysis when the transaction-id,
// debit or credit columns cannot be resolved; quality analysis needs all three.
func checkRequiredMapping(headers []string, mapping ColumnMapping) error {
	colIndex := headerIndex(headers)
	for _, target := range requiredMappingTargets {
		header, ok := mapping[target]
		if !ok || header == "" {
			return fmt.Errorf("%w: required column %q is not mapped", apperrors.ErrValidation, target)
		}
		if _, ok := colIndex[header]; !ok {
			return fmt.Errorf("%w: mapped column %q for %q not found in headers", apperrors.ErrValidation, header, target)
		}
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[h] = i
	}
	return index
}

// coerceAmount parses an amount cell; non-numeric values coerce to zero.
func coerceAmount(raw string) decimal.Decimal {
	if raw == "" {
		return decimal.Zero
	}
	cleaned := strings.ReplaceAll(raw, ",", "")
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// missingFields reports which required fields are empty on the line. A debit or
// credit cell is only "present" when its source column is mapped, so an
// unmapped optional column never produces noise here.
func missingFields(line Line, mapping ColumnMapping) []string {
	values := map[string]string{
		TargetTransactionID: line.TransactionID,
		TargetEntryDate:     line.EntryDate,
		TargetDebit:         line.Debit.String(),
		TargetCredit:        line.Credit.String(),
		TargetAccountCode:   line.AccountCode,
	}
	var missing []string
	for _, field := range requiredRowFields {
		if field == TargetDebit || field == TargetCredit {
			// One zero side is normal for a debit-or-credit line; only flag
			// rows where both sides are zero.
			if line.Debit.IsZero() && line.Credit.IsZero() {
				missing = append(missing, field)
			}
			continue
		}
		if _, mapped := mapping[field]; !mapped {
			missing = append(missing, field)
			continue
		}
		if values[field] == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

func recommendations(report *ValidationReport) []string {
	var recs []string
	if n := len(report.UnbalancedTransactions); n > 0 {
		recs = append(recs, fmt.Sprintf("%d transaction(s) do not balance; fix the source rows before importing", n))
	}
	if n := len(report.MissingData); n > 0 {
		recs = append(recs, fmt.Sprintf("%d row(s) are missing required fields; enable skipRowsWithMissingData or fix the file", n))
	}
	if len(report.Manifest.AccountCodes) > 0 {
		recs = append(recs, fmt.Sprintf("verify %d account code(s) exist before importing", len(report.Manifest.AccountCodes)))
	}
	if len(recs) == 0 {
		recs = append(recs, "file passed validation; ready to import")
	}
	return recs
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
