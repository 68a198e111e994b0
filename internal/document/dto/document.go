package dto

type CreateDocumentRequest struct {
	Name    string   `json:"name" binding:"required"`
	Columns []string `json:"columns" binding:"required,min=1"`
}

// SheetRow is the projection of one spreadsheet row returned by the
// document read endpoint.
type SheetRow struct {
	CompanyName string `json:"companyName"`
	JobLink     string `json:"jobLink"`
	DateApplied string `json:"dateApplied"`
	Status      string `json:"status"`
	Description string `json:"description"`
}
