package dto

// CreateEntityRequest is the body for POST /entities.
type CreateEntityRequest struct {
	Name            string  `json:"name" binding:"required"`
	Code            string  `json:"code" binding:"required"`
	ParentEntityID  *string `json:"parentEntityID"`
	IsConsolidated  bool    `json:"isConsolidated"`
	FiscalYearStart string  `json:"fiscalYearStart"` // "MM-DD", defaults to 01-01
	BaseCurrency    string  `json:"baseCurrency" binding:"omitempty,len=3"`
}

// UpdateEntityRequest is the body for PUT /entities/{id}. Nil fields are left unchanged.
type UpdateEntityRequest struct {
	Name            *string `json:"name"`
	ParentEntityID  *string `json:"parentEntityID"`
	IsConsolidated  *bool   `json:"isConsolidated"`
	FiscalYearStart *string `json:"fiscalYearStart"`
	BaseCurrency    *string `json:"baseCurrency" binding:"omitempty,len=3"`
	Status          *string `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
}
