package dto

// CustomReportResponse is the result of executing a compiled report definition.
type CustomReportResponse struct {
	Fields   []string         `json:"fields"`
	Rows     []map[string]any `json:"rows"`
	RowCount int              `json:"rowCount"`
}

// CompiledReportResponse echoes the generated statement without executing it.
type CompiledReportResponse struct {
	SQL    string `json:"sql"`
	Params []any  `json:"params"`
}
