package pagetest

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/qalab/page-test-gen/internal/model"
)

func TestWriteTestCasesCSV(t *testing.T) {
	cases := []model.TestCase{
		{
			ID:             "TC_001",
			Description:    "Verify page title",
			TestStep:       "Check if page has a title",
			ExpectedResult: "Page should have a title",
			ActualResult:   `Page title is 'Home, sweet "home"'`,
			Status:         model.StatusPass,
		},
		{
			ID:             "TC_002",
			Description:    "Verify security measures",
			TestStep:       "Check security features",
			ExpectedResult: "Page should implement basic security measures",
			ActualResult:   "CSRF protection: Missing, External links: 3, Password fields: 1",
			Status:         model.StatusWarning,
		},
	}

	var buf bytes.Buffer
	if err := WriteTestCasesCSV(&buf, cases); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want header plus 2 rows", len(records))
	}
	for i, col := range TestCaseColumns {
		if records[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, records[0][i], col)
		}
	}
	if records[1][0] != "TC_001" || records[2][0] != "TC_002" {
		t.Errorf("row IDs = %q, %q", records[1][0], records[2][0])
	}
	// Quotes inside fields survive the round trip.
	if records[1][4] != `Page title is 'Home, sweet "home"'` {
		t.Errorf("records[1][4] = %q", records[1][4])
	}
	if records[2][5] != "Warning" {
		t.Errorf("status column = %q, want Warning", records[2][5])
	}
}

func TestWriteTestCasesCSV_EmptyList(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTestCasesCSV(&buf, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("len(records) = %d, want header only", len(records))
	}
}
