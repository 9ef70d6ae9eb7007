package domain

// Entity represents a legal or organizational unit that owns accounts, funds and
// journal entries. Entities form a tree via ParentEntityID; an entity flagged
// IsConsolidated reports its own balance plus the balances of its direct children.
type Entity struct {
	EntityID        string       `json:"entityID"` // Primary Key (UUID)
	Name            string       `json:"name"`
	Code            string       `json:"code"`            // Short code, unique across entities
	ParentEntityID  *string      `json:"parentEntityID"`  // Nullable FK -> entities.entity_id
	IsConsolidated  bool         `json:"isConsolidated"`  // Consolidates direct children for reporting
	FiscalYearStart string       `json:"fiscalYearStart"` // "MM-DD"
	BaseCurrency    string       `json:"baseCurrency"`    // ISO 4217 code
	Status          RecordStatus `json:"status"`
	AuditFields
}
