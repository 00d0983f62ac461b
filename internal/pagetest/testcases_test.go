package pagetest

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/qalab/page-test-gen/internal/model"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func findCase(t *testing.T, cases []model.TestCase, description string) model.TestCase {
	t.Helper()
	for _, tc := range cases {
		if tc.Description == description {
			return tc
		}
	}
	t.Fatalf("no test case with description %q", description)
	return model.TestCase{}
}

func minimalStructure() *model.PageStructure {
	return &model.PageStructure{
		Title:    strPtr("Home"),
		Headings: map[string][]string{"h1": {"Welcome"}},
		SEO:      model.SEOSignals{ImgAltRatio: 1.0},
	}
}

func TestGenerateTestCases_SequentialIDs(t *testing.T) {
	cases := GenerateTestCases(SynthesisInput{
		Links: []model.Link{
			{URL: "https://example.com/a", Text: "A", Type: model.LinkInternal},
			{URL: "https://example.com/b", Text: "B", Type: model.LinkInternal},
		},
		LinkChecks: []model.LinkCheck{
			{URL: "https://example.com/a", StatusCode: intPtr(200), IsAccessible: true},
			{URL: "https://example.com/b", StatusCode: intPtr(200), IsAccessible: true},
		},
		Structure: minimalStructure(),
	})

	if len(cases) == 0 {
		t.Fatal("no test cases generated")
	}
	for i, tc := range cases {
		want := fmt.Sprintf("TC_%03d", i+1)
		if tc.ID != want {
			t.Errorf("cases[%d].ID = %q, want %q", i, tc.ID, want)
		}
	}
}

func TestGenerateTestCases_Deterministic(t *testing.T) {
	input := SynthesisInput{
		Links:      []model.Link{{URL: "https://example.com/a", Text: "A"}},
		LinkChecks: []model.LinkCheck{{URL: "https://example.com/a", StatusCode: intPtr(200), IsAccessible: true}},
		Forms:      []model.Form{{Action: "https://example.com/login", Method: "POST"}},
		Structure:  minimalStructure(),
	}

	first := GenerateTestCases(input)
	second := GenerateTestCases(input)
	if !reflect.DeepEqual(first, second) {
		t.Error("same input produced different test cases")
	}
}

func TestGenerateTestCases_LinkAccessibility(t *testing.T) {
	cases := GenerateTestCases(SynthesisInput{
		Links: []model.Link{
			{URL: "https://example.com/good", Text: "Good"},
			{URL: "https://example.com/gone", Text: "Gone"},
			{URL: "https://example.com/dead", Text: "Dead"},
		},
		LinkChecks: []model.LinkCheck{
			{StatusCode: intPtr(200), IsAccessible: true},
			{StatusCode: intPtr(404), IsAccessible: false},
			{IsAccessible: false, Error: "connection refused"},
		},
	})

	good := findCase(t, cases, "Verify accessibility of link: Good")
	if good.Status != model.StatusPass {
		t.Errorf("Status = %q, want Pass", good.Status)
	}
	if good.ActualResult != "Link is accessible with status code 200" {
		t.Errorf("ActualResult = %q, want status-code message", good.ActualResult)
	}

	gone := findCase(t, cases, "Verify accessibility of link: Gone")
	if gone.Status != model.StatusFail {
		t.Errorf("Status = %q, want Fail", gone.Status)
	}
	if !strings.Contains(gone.ActualResult, "Status code: 404") {
		t.Errorf("ActualResult = %q, want status-code reason", gone.ActualResult)
	}

	dead := findCase(t, cases, "Verify accessibility of link: Dead")
	if !strings.Contains(dead.ActualResult, "connection refused") {
		t.Errorf("ActualResult = %q, want probe error in message", dead.ActualResult)
	}
}

func TestGenerateTestCases_Forms(t *testing.T) {
	cases := GenerateTestCases(SynthesisInput{
		Forms: []model.Form{
			{
				Action: "https://example.com/login",
				Method: "POST",
				Fields: []model.Field{
					{Name: "email", Required: true},
					{Name: "password", Required: true},
					{Name: "remember"},
				},
			},
			{Action: "", Method: "GET"},
		},
	})

	required := findCase(t, cases, "Verify required fields in form #1")
	if required.ExpectedResult != "Fields email, password should be required" {
		t.Errorf("ExpectedResult = %q, want required-field names", required.ExpectedResult)
	}

	submission := findCase(t, cases, "Verify form #2 submission endpoint")
	if submission.Status != model.StatusFail {
		t.Errorf("Status = %q, want Fail for missing action", submission.Status)
	}
	if submission.ActualResult != "Form action URL is missing" {
		t.Errorf("ActualResult = %q, want missing-action message", submission.ActualResult)
	}

	// Form #2 declares no required fields, so no required-field case exists.
	for _, tc := range cases {
		if tc.Description == "Verify required fields in form #2" {
			t.Error("unexpected required-field case for form without required fields")
		}
	}
}

func TestGenerateTestCases_Title(t *testing.T) {
	tests := []struct {
		name       string
		title      *string
		want       model.Status
		wantActual string
	}{
		{"present", strPtr("Home"), model.StatusPass, "Page title is 'Home'"},
		{"empty", strPtr(""), model.StatusFail, "Page title is ''"},
		{"missing element", nil, model.StatusFail, "Page title is ''"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			structure := minimalStructure()
			structure.Title = tt.title

			cases := GenerateTestCases(SynthesisInput{Structure: structure})
			tc := findCase(t, cases, "Verify page title")
			if tc.Status != tt.want {
				t.Errorf("Status = %q, want %q", tc.Status, tt.want)
			}
			if tc.ActualResult != tt.wantActual {
				t.Errorf("ActualResult = %q, want %q", tc.ActualResult, tt.wantActual)
			}
		})
	}
}

func TestGenerateTestCases_MetaOnlyForPresentTags(t *testing.T) {
	structure := minimalStructure()
	structure.Meta.Description = strPtr("A description")
	structure.Meta.Robots = strPtr("")

	cases := GenerateTestCases(SynthesisInput{Structure: structure})

	desc := findCase(t, cases, "Verify meta description")
	if desc.Status != model.StatusPass {
		t.Errorf("Status = %q, want Pass", desc.Status)
	}

	robots := findCase(t, cases, "Verify meta robots")
	if robots.Status != model.StatusFail {
		t.Errorf("Status = %q, want Fail for empty content", robots.Status)
	}

	for _, tc := range cases {
		if tc.Description == "Verify meta keywords" || tc.Description == "Verify meta viewport" {
			t.Errorf("unexpected case %q for absent meta tag", tc.Description)
		}
		if tc.Description == "Verify responsive design meta tag" {
			t.Error("unexpected responsiveness case without a viewport tag")
		}
	}
}

func TestGenerateTestCases_Viewport(t *testing.T) {
	tests := []struct {
		name     string
		viewport string
		want     model.Status
	}{
		{"responsive", "width=device-width, initial-scale=1", model.StatusPass},
		{"fixed width", "width=1024", model.StatusFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			structure := minimalStructure()
			structure.Meta.Viewport = strPtr(tt.viewport)

			cases := GenerateTestCases(SynthesisInput{Structure: structure})
			tc := findCase(t, cases, "Verify responsive design meta tag")
			if tc.Status != tt.want {
				t.Errorf("Status = %q, want %q", tc.Status, tt.want)
			}
		})
	}
}

func TestGenerateTestCases_TableAccessibility(t *testing.T) {
	structure := minimalStructure()
	structure.Tables = []model.Table{
		{HasCaption: true, HasHeaders: true, Rows: 3, Cols: 2},
		{HasCaption: false, HasHeaders: true, Rows: 1, Cols: 1},
	}

	cases := GenerateTestCases(SynthesisInput{Structure: structure})

	first := findCase(t, cases, "Verify table #1 accessibility")
	if first.Status != model.StatusPass {
		t.Errorf("Status = %q, want Pass", first.Status)
	}
	if first.ActualResult != "Table has 3 rows, 2 columns, has headers, has caption" {
		t.Errorf("ActualResult = %q", first.ActualResult)
	}

	second := findCase(t, cases, "Verify table #2 accessibility")
	if second.Status != model.StatusWarning {
		t.Errorf("Status = %q, want Warning without caption", second.Status)
	}
}

func TestGenerateTestCases_SecurityWarning(t *testing.T) {
	structure := minimalStructure()
	structure.Security = model.SecuritySignals{PasswordInputs: 1}

	cases := GenerateTestCases(SynthesisInput{Structure: structure})
	tc := findCase(t, cases, "Verify security measures")
	if tc.Status != model.StatusWarning {
		t.Errorf("Status = %q, want Warning for password field without CSRF token", tc.Status)
	}

	structure.Security.HasCSRFToken = true
	cases = GenerateTestCases(SynthesisInput{Structure: structure})
	tc = findCase(t, cases, "Verify security measures")
	if tc.Status != model.StatusPass {
		t.Errorf("Status = %q, want Pass with CSRF token", tc.Status)
	}
}

func TestGenerateTestCases_Accessibility(t *testing.T) {
	structure := minimalStructure()
	structure.Headings = map[string][]string{"h1": {"One", "Two"}}
	structure.Images = []model.Image{
		{Src: "a.png", Alt: "A"},
		{Src: "b.png"},
	}

	cases := GenerateTestCases(SynthesisInput{Structure: structure})

	alt := findCase(t, cases, "Verify image alt texts")
	if alt.Status != model.StatusFail {
		t.Errorf("Status = %q, want Fail", alt.Status)
	}
	if alt.ActualResult != "1 images missing alt text" {
		t.Errorf("ActualResult = %q", alt.ActualResult)
	}

	multi := findCase(t, cases, "Check for multiple H1 headings")
	if multi.Status != model.StatusFail {
		t.Errorf("Status = %q, want Fail for two H1s", multi.Status)
	}

	landmarks := findCase(t, cases, "Verify ARIA landmarks")
	if landmarks.Status != model.StatusFail {
		t.Errorf("Status = %q, want Fail with no landmarks", landmarks.Status)
	}
}

func TestGenerateTestCases_Language(t *testing.T) {
	cases := GenerateTestCases(SynthesisInput{
		Language: &model.LanguageAnalysis{
			Declared: &model.LanguageInfo{Code: "en-US", Name: "English", NativeName: "English"},
			Detected: &model.DetectedLanguage{Code: "en", Name: "English", NativeName: "English", Confidence: 0.97},
			OtherLanguages: []model.OtherLanguage{
				{Code: "es", Name: "Spanish", Native: "Español", Count: 2, Confidence: 0.65},
			},
			Direction: "ltr",
			Elements: model.LanguageElements{
				LangAttributes:   []model.AttributeUse{{Tag: "html", Value: "en-US"}},
				TranslationLinks: []model.TranslationLink{{Text: "Español", Href: "/es/"}},
			},
			Charset: "utf-8",
		},
	})

	declaration := findCase(t, cases, "Verify HTML language declaration")
	if declaration.Status != model.StatusPass {
		t.Errorf("Status = %q, want Pass", declaration.Status)
	}

	confidence := findCase(t, cases, "Verify content language")
	if confidence.Status != model.StatusPass {
		t.Errorf("Status = %q, want Pass above 0.8", confidence.Status)
	}
	if !strings.Contains(confidence.ActualResult, "97.0% confidence") {
		t.Errorf("ActualResult = %q, want formatted confidence", confidence.ActualResult)
	}

	// en-US vs en compares only the primary subtag.
	consistency := findCase(t, cases, "Verify language consistency")
	if consistency.Status != model.StatusPass {
		t.Errorf("Status = %q, want Pass for en-US vs en", consistency.Status)
	}

	multi := findCase(t, cases, "Check multi-language content")
	if multi.Status != model.StatusInfo {
		t.Errorf("Status = %q, want Info", multi.Status)
	}
	if !strings.Contains(multi.ActualResult, "Spanish (65.0%)") {
		t.Errorf("ActualResult = %q, want other-language listing", multi.ActualResult)
	}

	direction := findCase(t, cases, "Verify text direction")
	if direction.ActualResult != "Text direction is LTR" {
		t.Errorf("ActualResult = %q", direction.ActualResult)
	}

	charset := findCase(t, cases, "Verify character encoding")
	if charset.Status != model.StatusPass {
		t.Errorf("Status = %q, want Pass for utf-8", charset.Status)
	}

	translation := findCase(t, cases, "Check translation support")
	if translation.Status != model.StatusPass {
		t.Errorf("Status = %q, want Pass", translation.Status)
	}
}

func TestGenerateTestCases_PartialLanguageSkipped(t *testing.T) {
	cases := GenerateTestCases(SynthesisInput{
		Structure: minimalStructure(),
		Language: &model.LanguageAnalysis{
			Direction: "ltr",
			Err:       "insufficient text content for language analysis",
		},
	})

	for _, tc := range cases {
		if strings.Contains(tc.Description, "language") || strings.Contains(tc.Description, "Language") {
			t.Errorf("unexpected language case %q for partial analysis", tc.Description)
		}
	}
}

func TestGenerateTestCases_LanguageWarnings(t *testing.T) {
	cases := GenerateTestCases(SynthesisInput{
		Language: &model.LanguageAnalysis{
			Detected: &model.DetectedLanguage{Code: "de", Name: "German", NativeName: "Deutsch", Confidence: 0.55},
			OtherLanguages: []model.OtherLanguage{
				{Code: "en", Name: "English", Native: "English", Count: 1, Confidence: 0.5},
			},
			Direction: "ltr",
			Charset:   "iso-8859-1",
		},
	})

	declaration := findCase(t, cases, "Verify HTML language declaration")
	if declaration.Status != model.StatusFail {
		t.Errorf("Status = %q, want Fail without declaration", declaration.Status)
	}

	confidence := findCase(t, cases, "Verify content language")
	if confidence.Status != model.StatusWarning {
		t.Errorf("Status = %q, want Warning below 0.8", confidence.Status)
	}

	charset := findCase(t, cases, "Verify character encoding")
	if charset.Status != model.StatusWarning {
		t.Errorf("Status = %q, want Warning for non-utf8", charset.Status)
	}

	// Secondary languages without lang annotations warrant a warning.
	annotations := findCase(t, cases, "Check language annotations")
	if annotations.Status != model.StatusWarning {
		t.Errorf("Status = %q, want Warning", annotations.Status)
	}

	for _, tc := range cases {
		if tc.Description == "Verify language consistency" {
			t.Error("unexpected consistency case without a declared language")
		}
	}
}
