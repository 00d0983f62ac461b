package pagetest

import (
	"encoding/csv"
	"io"

	"github.com/qalab/page-test-gen/internal/model"
)

// TestCaseColumns is the CSV header row for exported test cases.
var TestCaseColumns = []string{
	"TC_ID",
	"Test Case Description",
	"Test Step",
	"Expected Result",
	"Actual Result",
	"Status",
}

// TestCaseRows renders test cases as CSV records, header first.
func TestCaseRows(cases []model.TestCase) [][]string {
	rows := make([][]string, 0, len(cases)+1)
	rows = append(rows, TestCaseColumns)
	for _, tc := range cases {
		rows = append(rows, []string{
			tc.ID,
			tc.Description,
			tc.TestStep,
			tc.ExpectedResult,
			tc.ActualResult,
			string(tc.Status),
		})
	}
	return rows
}

// WriteTestCasesCSV writes the test cases to w in CSV form.
func WriteTestCasesCSV(w io.Writer, cases []model.TestCase) error {
	return csv.NewWriter(w).WriteAll(TestCaseRows(cases))
}
