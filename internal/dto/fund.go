package dto

// CreateFundRequest is the body for POST /entities/{entityID}/funds.
type CreateFundRequest struct {
	Name        string `json:"name" binding:"required"`
	Code        string `json:"code" binding:"required"`
	FundType    string `json:"fundType" binding:"required,oneof=UNRESTRICTED TEMPORARILY_RESTRICTED PERMANENTLY_RESTRICTED"`
	Description string `json:"description"`
}

// UpdateFundRequest is the body for PUT /funds/{id}. Nil fields are left unchanged.
type UpdateFundRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
}
