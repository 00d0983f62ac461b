package model

// Status is the verdict of one test case.
type Status string

const (
	StatusPass    Status = "Pass"
	StatusFail    Status = "Fail"
	StatusWarning Status = "Warning"
	StatusInfo    Status = "Info"
)

// TestCase is one synthesized test-case record. IDs are sequential TC_NNN
// values assigned by position in the generated sequence, starting at TC_001.
type TestCase struct {
	ID             string `json:"tc_id"`
	Description    string `json:"description"`
	TestStep       string `json:"test_step"`
	ExpectedResult string `json:"expected_result"`
	ActualResult   string `json:"actual_result"`
	Status         Status `json:"status"`
}
