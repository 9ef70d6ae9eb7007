package reports

import "sort"

// FieldType declares how a filter value for a field is parsed before binding.
type FieldType string

const (
	FieldString FieldType = "string"
	FieldNumber FieldType = "number"
	FieldDate   FieldType = "date"
)

// FieldDescriptor ties a safe logical field name to the SQL expression that is
// allowed to appear in generated queries. The expression is a trusted constant:
// it is never derived from user input.
type FieldDescriptor struct {
	Expression string
	Type       FieldType
}

// DataSource names one of the fixed logical views reports may query.
type DataSource string

const (
	SourceJournalEntryLines DataSource = "journal_entry_lines"
	SourceFunds             DataSource = "funds"
	SourceAccounts          DataSource = "accounts"
	SourceEntities          DataSource = "entities"
)

// sourceFrom maps each data source to its pre-approved FROM/JOIN fragment.
var sourceFrom = map[DataSource]string{
	SourceJournalEntryLines: `FROM journal_entry_lines l
JOIN journal_entries je ON l.journal_entry_id = je.journal_entry_id
JOIN accounts a ON l.account_id = a.account_id
LEFT JOIN funds f ON l.fund_id = f.fund_id`,
	SourceFunds:    `FROM funds f JOIN entities e ON f.entity_id = e.entity_id`,
	SourceAccounts: `FROM accounts a JOIN entities e ON a.entity_id = e.entity_id`,
	SourceEntities: `FROM entities e`,
}

// sourceFields is the closed allow-list per data source. A field absent from its
// source's map can never reach query text; this is the sole injection defense,
// so nothing here may ever be populated from user input.
var sourceFields = map[DataSource]map[string]FieldDescriptor{
	SourceJournalEntryLines: {
		"entryDate":       {Expression: "je.entry_date", Type: FieldDate},
		"referenceNumber": {Expression: "je.reference_number", Type: FieldString},
		"entryStatus":     {Expression: "je.status", Type: FieldString},
		"entryDesc":       {Expression: "je.description", Type: FieldString},
		"accountCode":     {Expression: "a.code", Type: FieldString},
		"accountName":     {Expression: "a.name", Type: FieldString},
		"accountType":     {Expression: "a.account_type", Type: FieldString},
		"fundCode":        {Expression: "f.code", Type: FieldString},
		"fundName":        {Expression: "f.name", Type: FieldString},
		"debit":           {Expression: "l.debit_amount", Type: FieldNumber},
		"credit":          {Expression: "l.credit_amount", Type: FieldNumber},
		"lineDesc":        {Expression: "l.description", Type: FieldString},
	},
	SourceFunds: {
		"code":        {Expression: "f.code", Type: FieldString},
		"name":        {Expression: "f.name", Type: FieldString},
		"fundType":    {Expression: "f.fund_type", Type: FieldString},
		"balance":     {Expression: "f.balance", Type: FieldNumber},
		"status":      {Expression: "f.status", Type: FieldString},
		"description": {Expression: "f.description", Type: FieldString},
		"entityCode":  {Expression: "e.code", Type: FieldString},
		"entityName":  {Expression: "e.name", Type: FieldString},
	},
	SourceAccounts: {
		"code":        {Expression: "a.code", Type: FieldString},
		"name":        {Expression: "a.name", Type: FieldString},
		"accountType": {Expression: "a.account_type", Type: FieldString},
		"balance":     {Expression: "a.balance", Type: FieldNumber},
		"status":      {Expression: "a.status", Type: FieldString},
		"description": {Expression: "a.description", Type: FieldString},
		"entityCode":  {Expression: "e.code", Type: FieldString},
		"entityName":  {Expression: "e.name", Type: FieldString},
	},
	SourceEntities: {
		"code":            {Expression: "e.code", Type: FieldString},
		"name":            {Expression: "e.name", Type: FieldString},
		"isConsolidated":  {Expression: "e.is_consolidated", Type: FieldString},
		"fiscalYearStart": {Expression: "e.fiscal_year_start", Type: FieldString},
		"baseCurrency":    {Expression: "e.base_currency", Type: FieldString},
		"status":          {Expression: "e.status", Type: FieldString},
	},
}

// LookupSource reports whether the data source is known.
func LookupSource(source DataSource) bool {
	_, ok := sourceFields[source]
	return ok
}

// LookupField returns the descriptor for a field of a data source.
func LookupField(source DataSource, field string) (FieldDescriptor, bool) {
	fields, ok := sourceFields[source]
	if !ok {
		return FieldDescriptor{}, false
	}
	desc, ok := fields[field]
	return desc, ok
}

// FieldsFor returns the sorted allow-listed field names for a data source.
func FieldsFor(source DataSource) []string {
	fields, ok := sourceFields[source]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sources returns all known data source names, sorted.
func Sources() []string {
	names := make([]string, 0, len(sourceFields))
	for s := range sourceFields {
		names = append(names, string(s))
	}
	sort.Strings(names)
	return names
}
