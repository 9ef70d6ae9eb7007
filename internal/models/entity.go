package models

// Entity represents a legal/organizational unit row.
type Entity struct {
	EntityID        string  `db:"entity_id"`
	Name            string  `db:"name"`
	Code            string  `db:"code"`
	ParentEntityID  *string `db:"parent_entity_id"` // Nullable
	IsConsolidated  bool    `db:"is_consolidated"`
	FiscalYearStart string  `db:"fiscal_year_start"` // "MM-DD"
	BaseCurrency    string  `db:"base_currency"`
	Status          string  `db:"status"`
	AuditFields
}
