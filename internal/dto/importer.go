package dto

import "github.com/nonprofit-suite/fund_accounting_app/internal/core/importer"

// AnalyzeImportRequest is the body for POST /imports/analyze.
type AnalyzeImportRequest struct {
	Headers []string   `json:"headers" binding:"required,min=1"`
	Rows    [][]string `json:"rows" binding:"required"`
}

// Sheet converts the request payload into the importer's working form.
func (r AnalyzeImportRequest) Sheet() importer.Sheet {
	return importer.Sheet{Headers: r.Headers, Rows: r.Rows}
}

// ValidateImportRequest is the body for POST /imports/validate.
type ValidateImportRequest struct {
	Headers []string        `json:"headers" binding:"required,min=1"`
	Rows    [][]string      `json:"rows" binding:"required"`
	Config  importer.Config `json:"config" binding:"required"`
}

// Sheet converts the request payload into the importer's working form.
func (r ValidateImportRequest) Sheet() importer.Sheet {
	return importer.Sheet{Headers: r.Headers, Rows: r.Rows}
}

// ProcessImportRequest is the body for POST /imports/process.
type ProcessImportRequest struct {
	EntityID string          `json:"entityID" binding:"required"`
	Headers  []string        `json:"headers" binding:"required,min=1"`
	Rows     [][]string      `json:"rows" binding:"required,min=1"`
	Config   importer.Config `json:"config" binding:"required"`
}

// ProcessImportResponse acknowledges an accepted import run.
type ProcessImportResponse struct {
	ImportID string `json:"importId"`
	Status   string `json:"status"`
}
