package dto

// ImportedAccount is one created student with the generated one-time
// credential, shown to the administrator exactly once.
type ImportedAccount struct {
	UniversityID string `json:"universityId"`
	FullName     string `json:"fullName"`
	TempPassword string `json:"tempPassword"`
}

// RowIssue records why a spreadsheet row was skipped or failed.
type RowIssue struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResult summarizes a bulk student import.
type ImportResult struct {
	SuccessCount int               `json:"successCount"`
	Created      []ImportedAccount `json:"created"`
	Issues       []RowIssue        `json:"issues"`
}
