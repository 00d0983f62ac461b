package model

// Report is the complete result of analyzing a web page: everything each
// pipeline stage produced plus the synthesized test cases.
type Report struct {
	URL        string            `json:"url"`
	Links      []Link            `json:"links"`
	LinkChecks []LinkCheck       `json:"link_checks"`
	Forms      []Form            `json:"forms"`
	FormChecks []FormCheck       `json:"form_checks"`
	Structure  *PageStructure    `json:"structure"`
	Language   *LanguageAnalysis `json:"language"`
	TestCases  []TestCase        `json:"test_cases"`
}

// ErrorResponse is the JSON shape returned on failure.
type ErrorResponse struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}
