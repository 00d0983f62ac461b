package pagetest

import (
	"fmt"
	"strings"

	"github.com/qalab/page-test-gen/internal/model"
)

// SynthesisInput carries everything test-case generation reads. LinkChecks
// must align positionally with Links.
type SynthesisInput struct {
	Links      []model.Link
	LinkChecks []model.LinkCheck
	Forms      []model.Form
	Structure  *model.PageStructure
	Language   *model.LanguageAnalysis
}

type testCaseBuilder struct {
	cases []model.TestCase
}

func (b *testCaseBuilder) add(description, testStep, expectedResult, actualResult string, status model.Status) {
	b.cases = append(b.cases, model.TestCase{
		ID:             fmt.Sprintf("TC_%03d", len(b.cases)+1),
		Description:    description,
		TestStep:       testStep,
		ExpectedResult: expectedResult,
		ActualResult:   actualResult,
		Status:         status,
	})
}

// GenerateTestCases synthesizes the full test-case list from an analysis.
// IDs are assigned sequentially in generation order, so the same input
// always yields the same identifiers.
func GenerateTestCases(in SynthesisInput) []model.TestCase {
	b := &testCaseBuilder{cases: []model.TestCase{}}
	b.linkCases(in.Links, in.LinkChecks)
	b.formCases(in.Forms)
	if in.Structure != nil {
		b.structureCases(in.Structure)
		b.accessibilityCases(in.Structure)
	}
	// Partial language results carry too little signal to judge, so they
	// produce no cases at all.
	if in.Language != nil && in.Language.Err == "" && in.Language.Detected != nil {
		b.languageCases(in.Language)
	}
	return b.cases
}

func (b *testCaseBuilder) linkCases(links []model.Link, checks []model.LinkCheck) {
	for i, link := range links {
		if i >= len(checks) {
			break
		}
		b.add(
			fmt.Sprintf("Verify presence of link: %s", link.Text),
			fmt.Sprintf("Check if link with text '%s' exists", link.Text),
			"Link should be present in the page",
			"Link is present",
			model.StatusPass,
		)

		check := checks[i]
		status := model.StatusFail
		var actual string
		if check.IsAccessible {
			status = model.StatusPass
			actual = fmt.Sprintf("Link is accessible with status code %d", *check.StatusCode)
		} else {
			reason := check.Error
			if reason == "" && check.StatusCode != nil {
				reason = fmt.Sprintf("Status code: %d", *check.StatusCode)
			}
			actual = fmt.Sprintf("Link is not accessible: %s", reason)
		}
		b.add(
			fmt.Sprintf("Verify accessibility of link: %s", link.Text),
			fmt.Sprintf("Try to access URL: %s", link.URL),
			"Link should be accessible with 2xx/3xx status code",
			actual,
			status,
		)
	}
}

func (b *testCaseBuilder) formCases(forms []model.Form) {
	for i, form := range forms {
		n := i + 1
		b.add(
			fmt.Sprintf("Verify presence of form #%d", n),
			fmt.Sprintf("Check if form with action '%s' exists", form.Action),
			"Form should be present in the page",
			"Form is present",
			model.StatusPass,
		)

		var required []string
		for _, field := range form.Fields {
			if field.Required {
				required = append(required, field.Name)
			}
		}
		if len(required) > 0 {
			b.add(
				fmt.Sprintf("Verify required fields in form #%d", n),
				"Check if required fields are properly marked",
				fmt.Sprintf("Fields %s should be required", strings.Join(required, ", ")),
				"All required fields are properly marked",
				model.StatusPass,
			)
		}

		actionState, status := "valid", model.StatusPass
		if form.Action == "" {
			actionState, status = "missing", model.StatusFail
		}
		b.add(
			fmt.Sprintf("Verify form #%d submission endpoint", n),
			fmt.Sprintf("Check if form action URL '%s' is valid", form.Action),
			"Form action URL should be valid",
			fmt.Sprintf("Form action URL is %s", actionState),
			status,
		)
	}
}

func (b *testCaseBuilder) structureCases(s *model.PageStructure) {
	var title string
	if s.Title != nil {
		title = *s.Title
	}
	status := model.StatusFail
	if title != "" {
		status = model.StatusPass
	}
	b.add(
		"Verify page title",
		"Check if page has a title",
		"Page should have a title",
		fmt.Sprintf("Page title is '%s'", title),
		status,
	)

	for _, m := range []struct {
		kind    string
		content *string
	}{
		{"description", s.Meta.Description},
		{"keywords", s.Meta.Keywords},
		{"viewport", s.Meta.Viewport},
		{"charset", s.Meta.Charset},
		{"robots", s.Meta.Robots},
	} {
		if m.content == nil {
			continue
		}
		state, status := "present", model.StatusPass
		if *m.content == "" {
			state, status = "missing", model.StatusFail
		}
		b.add(
			fmt.Sprintf("Verify meta %s", m.kind),
			fmt.Sprintf("Check if page has meta %s", m.kind),
			fmt.Sprintf("Page should have meta %s", m.kind),
			fmt.Sprintf("Meta %s is %s", m.kind, state),
			status,
		)
	}

	if s.Meta.Viewport != nil {
		status := model.StatusFail
		if strings.Contains(*s.Meta.Viewport, "width=device-width") {
			status = model.StatusPass
		}
		b.add(
			"Verify responsive design meta tag",
			"Check if page has viewport meta tag",
			"Page should have viewport meta tag for responsiveness",
			fmt.Sprintf("Viewport meta tag is present: %s", *s.Meta.Viewport),
			status,
		)
	}

	b.resourceCase("script", s.Scripts)
	b.resourceCase("stylesheet", s.Stylesheets)

	for i, table := range s.Tables {
		status := model.StatusWarning
		if table.HasHeaders && table.HasCaption {
			status = model.StatusPass
		}
		b.add(
			fmt.Sprintf("Verify table #%d accessibility", i+1),
			"Check table structure and accessibility features",
			"Table should have proper headers and structure",
			fmt.Sprintf("Table has %d rows, %d columns, %s headers, %s caption",
				table.Rows, table.Cols, hasOrLacks(table.HasHeaders), hasOrLacks(table.HasCaption)),
			status,
		)
	}

	totalInputs := s.Interactive.Inputs.Total()
	interactiveStatus := model.StatusInfo
	if totalInputs > 0 {
		interactiveStatus = model.StatusPass
	}
	b.add(
		"Verify form elements presence",
		"Check presence of interactive elements",
		"Page should have necessary interactive elements",
		fmt.Sprintf("Found %d buttons, %d input fields, %d select dropdowns, %d text areas",
			s.Interactive.Buttons, totalInputs, s.Interactive.Selects, s.Interactive.Textareas),
		interactiveStatus,
	)

	seoStatus := model.StatusWarning
	if s.SEO.HasCanonical && s.SEO.HasMetaDescription && s.SEO.ImgAltRatio > 0.8 {
		seoStatus = model.StatusPass
	}
	b.add(
		"Verify SEO basics",
		"Check basic SEO elements",
		"Page should have basic SEO elements",
		fmt.Sprintf("%s canonical link, %s meta description, Image alt text ratio: %.0f%%",
			hasOrMissing(s.SEO.HasCanonical), hasOrMissing(s.SEO.HasMetaDescription), s.SEO.ImgAltRatio*100),
		seoStatus,
	)

	securityStatus := model.StatusWarning
	if s.Security.HasCSRFToken || s.Security.PasswordInputs == 0 {
		securityStatus = model.StatusPass
	}
	csrfState := "Missing"
	if s.Security.HasCSRFToken {
		csrfState = "Present"
	}
	b.add(
		"Verify security measures",
		"Check security features",
		"Page should implement basic security measures",
		fmt.Sprintf("CSRF protection: %s, External links: %d, Password fields: %d",
			csrfState, s.Security.ExternalLinks, s.Security.PasswordInputs),
		securityStatus,
	)

	socialStatus := model.StatusInfo
	if len(s.Social.OpenGraph) > 0 || len(s.Social.Twitter) > 0 {
		socialStatus = model.StatusPass
	}
	b.add(
		"Verify social media metadata",
		"Check social media meta tags",
		"Page should have social media meta tags",
		fmt.Sprintf("OpenGraph tags: %d, Twitter cards: %d", len(s.Social.OpenGraph), len(s.Social.Twitter)),
		socialStatus,
	)
}

func (b *testCaseBuilder) resourceCase(kind string, counts model.ResourceCounts) {
	status := model.StatusFail
	if counts.Total > 0 {
		status = model.StatusPass
	}
	b.add(
		fmt.Sprintf("Verify %s loading", kind),
		fmt.Sprintf("Check %s inclusion", kind),
		fmt.Sprintf("Page should load all required %ss", kind),
		fmt.Sprintf("Found %d %ss (%d external, %d inline)", counts.Total, kind, counts.External, counts.Inline),
		status,
	)
}

func (b *testCaseBuilder) accessibilityCases(s *model.PageStructure) {
	missingAlt := 0
	for _, img := range s.Images {
		if img.Alt == "" {
			missingAlt++
		}
	}
	altStatus, altResult := model.StatusPass, "All images have alt text"
	if missingAlt > 0 {
		altStatus = model.StatusFail
		altResult = fmt.Sprintf("%d images missing alt text", missingAlt)
	}
	b.add(
		"Verify image alt texts",
		"Check if all images have alt text",
		"All images should have alt text",
		altResult,
		altStatus,
	)

	h1Count := len(s.Headings["h1"])
	h1Status, h1Result := model.StatusPass, "Found H1 heading"
	if h1Count == 0 {
		h1Status, h1Result = model.StatusFail, "No H1 heading found"
	}
	b.add(
		"Verify heading hierarchy",
		"Check if page has proper heading structure starting with H1",
		"Page should have at least one H1 heading",
		h1Result,
		h1Status,
	)

	multiStatus := model.StatusPass
	if h1Count > 1 {
		multiStatus = model.StatusFail
	}
	b.add(
		"Check for multiple H1 headings",
		"Verify page has only one main H1 heading",
		"Page should have only one H1 heading",
		fmt.Sprintf("Found %d H1 heading(s)", h1Count),
		multiStatus,
	)

	landmarkStatus := model.StatusFail
	if len(s.Landmarks) > 0 {
		landmarkStatus = model.StatusPass
	}
	b.add(
		"Verify ARIA landmarks",
		"Check for presence of ARIA landmarks",
		"Page should have proper ARIA landmarks",
		fmt.Sprintf("Found %d ARIA landmarks", len(s.Landmarks)),
		landmarkStatus,
	)
}

func (b *testCaseBuilder) languageCases(lang *model.LanguageAnalysis) {
	declared := lang.Declared
	detected := lang.Detected

	declaredStatus, declaredResult := model.StatusFail, "No language declaration found"
	if declared != nil && declared.Code != "" {
		declaredStatus = model.StatusPass
		declaredResult = fmt.Sprintf("Declared language: %s (%s)", declared.Name, declared.Code)
	}
	b.add(
		"Verify HTML language declaration",
		"Check if page has proper language declaration",
		"Page should have valid language declaration",
		declaredResult,
		declaredStatus,
	)

	confidenceStatus := model.StatusWarning
	if detected.Confidence > 0.8 {
		confidenceStatus = model.StatusPass
	}
	b.add(
		"Verify content language",
		"Detect main content language",
		"Content language should be detectable",
		fmt.Sprintf("Detected language: %s (%s) with %.1f%% confidence",
			detected.Name, detected.Code, detected.Confidence*100),
		confidenceStatus,
	)

	if declared != nil && declared.Code != "" && detected.Code != "" {
		primary, _, _ := strings.Cut(declared.Code, "-")
		consistencyStatus := model.StatusFail
		if primary == detected.Code {
			consistencyStatus = model.StatusPass
		}
		b.add(
			"Verify language consistency",
			"Compare declared vs detected language",
			"Declared language should match content language",
			fmt.Sprintf("Declared: %s (%s), Detected: %s (%s)",
				declared.Name, declared.Code, detected.Name, detected.Code),
			consistencyStatus,
		)
	}

	if len(lang.OtherLanguages) > 0 {
		found := make([]string, len(lang.OtherLanguages))
		for i, other := range lang.OtherLanguages {
			found[i] = fmt.Sprintf("%s (%.1f%%)", other.Name, other.Confidence*100)
		}
		b.add(
			"Check multi-language content",
			"Analyze content for multiple languages",
			"Document should consistently use declared language",
			fmt.Sprintf("Found content in other languages: %s", strings.Join(found, ", ")),
			model.StatusInfo,
		)
	}

	b.add(
		"Verify text direction",
		"Check if text direction is appropriate for the language",
		"Text direction should match language requirements",
		fmt.Sprintf("Text direction is %s", strings.ToUpper(lang.Direction)),
		model.StatusPass,
	)

	charsetStatus := model.StatusWarning
	switch strings.ToLower(lang.Charset) {
	case "utf-8", "utf8":
		charsetStatus = model.StatusPass
	}
	b.add(
		"Verify character encoding",
		"Check character encoding declaration",
		"Page should use UTF-8 or appropriate encoding",
		fmt.Sprintf("Character encoding: %s", lang.Charset),
		charsetStatus,
	)

	langAttrs := len(lang.Elements.LangAttributes)
	annotationStatus := model.StatusWarning
	if langAttrs > 0 || len(lang.OtherLanguages) == 0 {
		annotationStatus = model.StatusPass
	}
	b.add(
		"Check language annotations",
		"Verify language attributes on elements",
		"Multi-language content should be properly marked",
		fmt.Sprintf("Found %d elements with language attributes", langAttrs),
		annotationStatus,
	)

	if n := len(lang.Elements.TranslationLinks); n > 0 {
		b.add(
			"Check translation support",
			"Verify language switching options",
			"Multi-language sites should offer language selection",
			fmt.Sprintf("Found %d language switcher links", n),
			model.StatusPass,
		)
	}
}

func hasOrLacks(v bool) string {
	if v {
		return "has"
	}
	return "lacks"
}

func hasOrMissing(v bool) string {
	if v {
		return "Has"
	}
	return "Missing"
}
