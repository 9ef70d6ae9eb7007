package reports

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nonprofit-suite/fund_accounting_app/internal/apperrors"
)

// MaxRows is the hard result cap applied to every compiled query.
const MaxRows = 500

// Filter is one user-supplied predicate. Field and Operator are validated
// against closed sets before any query text is built; only Value crosses the
// untrusted boundary, and only as a bound parameter.
type Filter struct {
	Field    string `json:"field" binding:"required"`
	Operator string `json:"operator" binding:"required"`
	Value    string `json:"value"`
}

// Sort is one ordering directive.
type Sort struct {
	Field     string `json:"field" binding:"required"`
	Direction string `json:"direction"` // "asc" or "desc", defaults to asc
}

// Definition is a declarative report definition as received from the caller.
type Definition struct {
	DataSource string   `json:"dataSource" binding:"required"`
	Fields     []string `json:"fields" binding:"required,min=1"`
	Filters    []Filter `json:"filters"`
	GroupBy    string   `json:"groupBy"`
	SortBy     []Sort   `json:"sortBy"`
}

// Compiled is a parameterized query ready for execution.
type Compiled struct {
	SQL    string
	Args   []any
	Fields []string // Column aliases in select order
}

// allowedOperators is the fixed operator allow-list.
var allowedOperators = map[string]bool{
	"=": true, "!=": true, ">": true, "<": true, ">=": true, "<=": true,
	"LIKE": true, "ILIKE": true, "IN": true,
}

// Compile validates the definition against the field registry and emits a
// parameterized SQL query. Every requested, filtered, grouped and sorted field
// must exist in the registry for the data source; any miss is a validation
// error and no query text is produced.
func Compile(def Definition) (*Compiled, error) {
	source := DataSource(def.DataSource)
	if !LookupSource(source) {
		return nil, fmt.Errorf("%w: unknown data source %q", apperrors.ErrValidation, def.DataSource)
	}
	if len(def.Fields) == 0 {
		return nil, fmt.Errorf("%w: report must select at least one field", apperrors.ErrValidation)
	}

	selectParts := make([]string, 0, len(def.Fields))
	for _, field := range def.Fields {
		desc, ok := LookupField(source, field)
		if !ok {
			return nil, fmt.Errorf("%w: unknown field %q for data source %q", apperrors.ErrValidation, field, def.DataSource)
		}
		selectParts = append(selectParts, fmt.Sprintf("%s AS %q", desc.Expression, field))
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(selectParts, ", "))
	sb.WriteString("\n")
	sb.WriteString(sourceFrom[source])

	args := make([]any, 0, len(def.Filters))
	whereParts := make([]string, 0, len(def.Filters))
	for _, f := range def.Filters {
		desc, ok := LookupField(source, f.Field)
		if !ok {
			return nil, fmt.Errorf("%w: unknown filter field %q for data source %q", apperrors.ErrValidation, f.Field, def.DataSource)
		}
		// Only the normalized operator from the allow-list ever reaches query
		// text; the raw operator string is discarded.
		op := strings.ToUpper(strings.TrimSpace(f.Operator))
		if !allowedOperators[op] {
			return nil, fmt.Errorf("%w: operator %q is not allowed", apperrors.ErrValidation, f.Operator)
		}

		if op == "IN" {
			// Comma-separated value expands to one bound parameter per element.
			elems := strings.Split(f.Value, ",")
			placeholders := make([]string, 0, len(elems))
			for _, elem := range elems {
				val, err := bindValue(desc.Type, strings.TrimSpace(elem))
				if err != nil {
					return nil, err
				}
				args = append(args, val)
				placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
			}
			whereParts = append(whereParts, fmt.Sprintf("%s IN (%s)", desc.Expression, strings.Join(placeholders, ", ")))
			continue
		}

		val, err := bindValue(desc.Type, f.Value)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
		whereParts = append(whereParts, fmt.Sprintf("%s %s $%d", desc.Expression, op, len(args)))
	}
	if len(whereParts) > 0 {
		sb.WriteString("\nWHERE ")
		sb.WriteString(strings.Join(whereParts, " AND "))
	}

	if def.GroupBy != "" {
		if _, ok := LookupField(source, def.GroupBy); !ok {
			return nil, fmt.Errorf("%w: unknown groupBy field %q for data source %q", apperrors.ErrValidation, def.GroupBy, def.DataSource)
		}
		// Every selected field joins the GROUP BY clause; no implicit
		// aggregation is computed.
		groupParts := make([]string, 0, len(def.Fields)+1)
		seen := map[string]bool{}
		for _, field := range append([]string{def.GroupBy}, def.Fields...) {
			desc, _ := LookupField(source, field)
			if seen[desc.Expression] {
				continue
			}
			seen[desc.Expression] = true
			groupParts = append(groupParts, desc.Expression)
		}
		sb.WriteString("\nGROUP BY ")
		sb.WriteString(strings.Join(groupParts, ", "))
	}

	if len(def.SortBy) > 0 {
		orderParts := make([]string, 0, len(def.SortBy))
		for _, s := range def.SortBy {
			desc, ok := LookupField(source, s.Field)
			if !ok {
				return nil, fmt.Errorf("%w: unknown sort field %q for data source %q", apperrors.ErrValidation, s.Field, def.DataSource)
			}
			direction := "ASC"
			if strings.EqualFold(s.Direction, "desc") {
				direction = "DESC"
			}
			orderParts = append(orderParts, desc.Expression+" "+direction)
		}
		sb.WriteString("\nORDER BY ")
		sb.WriteString(strings.Join(orderParts, ", "))
	}

	sb.WriteString(fmt.Sprintf("\nLIMIT %d", MaxRows))

	return &Compiled{SQL: sb.String(), Args: args, Fields: append([]string(nil), def.Fields...)}, nil
}

// bindValue parses the untrusted filter value into a typed bind parameter so
// Postgres comparisons behave per the field's declared type.
func bindValue(t FieldType, raw string) (any, error) {
	switch t {
	case FieldNumber:
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", apperrors.ErrValidation, raw)
		}
		return d, nil
	case FieldDate:
		for _, layout := range []string{"2006-01-02", time.RFC3339} {
			if ts, err := time.Parse(layout, raw); err == nil {
				return ts, nil
			}
		}
		return nil, fmt.Errorf("%w: %q is not a date", apperrors.ErrValidation, raw)
	default:
		return raw, nil
	}
}
