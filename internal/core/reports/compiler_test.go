package reports_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonprofit-suite/fund_accounting_app/internal/apperrors"
	"github.com/nonprofit-suite/fund_accounting_app/internal/core/reports"
)

func TestCompile_SimpleSelect(t *testing.T) {
	compiled, err := reports.Compile(reports.Definition{
		DataSource: "funds",
		Fields:     []string{"code", "balance"},
	})
	require.NoError(t, err)

	assert.Contains(t, compiled.SQL, `f.code AS "code"`)
	assert.Contains(t, compiled.SQL, `f.balance AS "balance"`)
	assert.Contains(t, compiled.SQL, "FROM funds f")
	assert.Contains(t, compiled.SQL, "LIMIT 500")
	assert.Empty(t, compiled.Args)
	assert.Equal(t, []string{"code", "balance"}, compiled.Fields)
}

func TestCompile_FilterBindsValueAsParameter(t *testing.T) {
	compiled, err := reports.Compile(reports.Definition{
		DataSource: "funds",
		Fields:     []string{"code", "balance"},
		Filters: []reports.Filter{
			{Field: "balance", Operator: ">", Value: "1000"},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, compiled.SQL, "WHERE f.balance > $1")
	require.Len(t, compiled.Args, 1)
	// Number fields bind as decimals, not raw strings.
	d, ok := compiled.Args[0].(decimal.Decimal)
	require.True(t, ok)
	assert.True(t, d.Equal(decimal.NewFromInt(1000)))
}

func TestCompile_InExpandsOneParamPerElement(t *testing.T) {
	compiled, err := reports.Compile(reports.Definition{
		DataSource: "accounts",
		Fields:     []string{"code"},
		Filters: []reports.Filter{
			{Field: "accountType", Operator: "IN", Value: "ASSET, EXPENSE,REVENUE"},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, compiled.SQL, "a.account_type IN ($1, $2, $3)")
	assert.Equal(t, []any{"ASSET", "EXPENSE", "REVENUE"}, compiled.Args)
}

func TestCompile_GroupByIncludesAllSelectedFields(t *testing.T) {
	compiled, err := reports.Compile(reports.Definition{
		DataSource: "journal_entry_lines",
		Fields:     []string{"accountCode", "debit"},
		GroupBy:    "fundCode",
	})
	require.NoError(t, err)

	groupIdx := strings.Index(compiled.SQL, "GROUP BY")
	require.Positive(t, groupIdx)
	groupClause := compiled.SQL[groupIdx:]
	assert.Contains(t, groupClause, "f.code")
	assert.Contains(t, groupClause, "a.code")
	assert.Contains(t, groupClause, "l.debit_amount")
}

func TestCompile_SortDirections(t *testing.T) {
	compiled, err := reports.Compile(reports.Definition{
		DataSource: "funds",
		Fields:     []string{"code"},
		SortBy: []reports.Sort{
			{Field: "balance", Direction: "desc"},
			{Field: "code"},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, compiled.SQL, "ORDER BY f.balance DESC, f.code ASC")
}

func TestCompile_RejectsUnknownInputs(t *testing.T) {
	tests := []struct {
		name string
		def  reports.Definition
	}{
		{
			name: "unknown data source",
			def:  reports.Definition{DataSource: "users", Fields: []string{"code"}},
		},
		{
			name: "unknown select field",
			def:  reports.Definition{DataSource: "funds", Fields: []string{"code; DROP TABLE funds"}},
		},
		{
			name: "unknown filter field",
			def: reports.Definition{DataSource: "funds", Fields: []string{"code"},
				Filters: []reports.Filter{{Field: "1=1", Operator: "=", Value: "x"}}},
		},
		{
			name: "disallowed operator",
			def: reports.Definition{DataSource: "funds", Fields: []string{"code"},
				Filters: []reports.Filter{{Field: "code", Operator: "OR 1=1 --", Value: "x"}}},
		},
		{
			name: "unknown group by field",
			def:  reports.Definition{DataSource: "funds", Fields: []string{"code"}, GroupBy: "evil"},
		},
		{
			name: "unknown sort field",
			def: reports.Definition{DataSource: "funds", Fields: []string{"code"},
				SortBy: []reports.Sort{{Field: "evil", Direction: "asc"}}},
		},
		{
			name: "non numeric value for number field",
			def: reports.Definition{DataSource: "funds", Fields: []string{"code"},
				Filters: []reports.Filter{{Field: "balance", Operator: ">", Value: "lots"}}},
		},
		{
			name: "no fields selected",
			def:  reports.Definition{DataSource: "funds"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			compiled, err := reports.Compile(tc.def)
			assert.Nil(t, compiled)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

// Fuzzing field names outside the allow-list must always yield a validation
// error, never generated query text.
func FuzzCompileFieldNames(f *testing.F) {
	f.Add("balance'; DELETE FROM funds; --")
	f.Add("je.entry_date")
	f.Add("code OR 1=1")
	f.Fuzz(func(t *testing.T, field string) {
		if _, known := reports.LookupField(reports.SourceFunds, field); known {
			t.Skip()
		}
		compiled, err := reports.Compile(reports.Definition{
			DataSource: "funds",
			Fields:     []string{field},
		})
		if compiled != nil {
			t.Fatalf("compiled a query for unregistered field %q", field)
		}
		if err == nil {
			t.Fatalf("expected validation error for field %q", field)
		}
	})
}

func TestFieldsFor(t *testing.T) {
	fields := reports.FieldsFor(reports.SourceFunds)
	assert.Contains(t, fields, "code")
	assert.Contains(t, fields, "balance")
	assert.Nil(t, reports.FieldsFor(reports.DataSource("nope")))
}
