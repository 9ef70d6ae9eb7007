package importer

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sheet is the parsed file matrix handed over by the upload collaborator:
// one header row plus data rows. File parsing itself happens upstream.
type Sheet struct {
	Headers []string   `json:"headers" binding:"required"`
	Rows    [][]string `json:"rows" binding:"required"`
}

// ColumnType is the inferred content type of a column.
type ColumnType string

const (
	ColumnNumber ColumnType = "Number"
	ColumnDate   ColumnType = "Date"
	ColumnString ColumnType = "String"
)

// Target field names for the column mapping.
const (
	TargetTransactionID = "transactionId"
	TargetEntryDate     = "entryDate"
	TargetDebit         = "debit"
	TargetCredit        = "credit"
	TargetAccountCode   = "accountCode"
	TargetFundCode      = "fundCode"
	TargetEntityCode    = "entityCode"
	TargetDescription   = "description"
)

// requiredMappingTargets must be mapped before any quality analysis can run.
var requiredMappingTargets = []string{TargetTransactionID, TargetDebit, TargetCredit}

// requiredRowFields must be non-empty on every data row.
var requiredRowFields = []string{TargetTransactionID, TargetEntryDate, TargetDebit, TargetCredit, TargetAccountCode}

// ColumnMapping maps a target field name to a source column header.
type ColumnMapping map[string]string

// Settings holds user-tunable import behavior.
type Settings struct {
	SkipRowsWithMissingData   bool   `json:"skipRowsWithMissingData"`
	AutoCreateMasterRecords   bool   `json:"autoCreateMasterRecords"`
	TransactionGroupingColumn string `json:"transactionGroupingColumn"`
}

// Config is the reusable import configuration produced by analysis and
// confirmed (possibly edited) by the user before execution.
type Config struct {
	SourceFormat   string        `json:"sourceFormat"`
	ColumnMapping  ColumnMapping `json:"columnMapping"`
	DateFormat     string        `json:"dateFormat"`
	ImportSettings Settings      `json:"importSettings"`
}

// ColumnProfile describes one analyzed column.
type ColumnProfile struct {
	Index      int        `json:"index"`
	Header     string     `json:"header"`
	Type       ColumnType `json:"type"`
	DateFormat string     `json:"dateFormat,omitempty"`
	Sampled    int        `json:"sampled"`
}

// AnalysisReport is the output of the column analysis + mapping suggestion pass.
type AnalysisReport struct {
	RowCount         int             `json:"rowCount"`
	Columns          []ColumnProfile `json:"columns"`
	SuggestedMapping ColumnMapping   `json:"suggestedMapping"`
	Preview          [][]string      `json:"preview"`
	Config           Config          `json:"config"`
}

// Line is one data row resolved through the column mapping, annotated with its
// original 1-based row number (offset by the header row) for error reporting.
type Line struct {
	RowNumber     int             `json:"rowNumber"`
	TransactionID string          `json:"transactionId"`
	EntryDate     string          `json:"entryDate"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	AccountCode   string          `json:"accountCode"`
	FundCode      string          `json:"fundCode"`
	EntityCode    string          `json:"entityCode"`
	Description   string          `json:"description"`
}

// TransactionGroup is the ordered set of lines sharing one transaction id.
type TransactionGroup struct {
	TransactionID string          `json:"transactionId"`
	Lines         []Line          `json:"lines"`
	TotalDebit    decimal.Decimal `json:"totalDebit"`
	TotalCredit   decimal.Decimal `json:"totalCredit"`
}

// UnbalancedTransaction flags a group whose debits and credits differ by more
// than the reconciliation epsilon.
type UnbalancedTransaction struct {
	TransactionID string          `json:"transactionId"`
	TotalDebit    decimal.Decimal `json:"totalDebit"`
	TotalCredit   decimal.Decimal `json:"totalCredit"`
	Difference    decimal.Decimal `json:"difference"`
	RowNumbers    []int           `json:"rowNumbers"`
}

// MissingFieldRow flags a data row lacking one or more required values.
type MissingFieldRow struct {
	RowNumber     int      `json:"rowNumber"`
	MissingFields []string `json:"missingFields"`
}

// Manifest lists the distinct master-record codes the file references, for
// pre-import setup verification.
type Manifest struct {
	EntityCodes  []string `json:"entityCodes"`
	FundCodes    []string `json:"fundCodes"`
	AccountCodes []string `json:"accountCodes"`
}

// DateRange is the min/max parseable date found in the mapped date column.
type DateRange struct {
	Min time.Time `json:"min"`
	Max time.Time `json:"max"`
}

// ValidationReport summarizes data quality prior to commit.
type ValidationReport struct {
	TotalRows              int                     `json:"totalRows"`
	UniqueTransactions     int                     `json:"uniqueTransactions"`
	UnbalancedTransactions []UnbalancedTransaction `json:"unbalancedTransactions"`
	MissingData            []MissingFieldRow       `json:"missingData"`
	Manifest               Manifest                `json:"manifest"`
	DateRange              *DateRange              `json:"dateRange,omitempty"`
	Recommendations        []string                `json:"recommendations"`
}
