package pagetest

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/abadojack/whatlanggo"

	"github.com/qalab/page-test-gen/internal/model"
	"github.com/qalab/page-test-gen/internal/platform/errs"
)

const (
	// Below this many characters of normalized text, classification is not
	// attempted at all.
	minAnalyzableRunes = 10
	// Below this many characters, chunk sampling for secondary languages is
	// skipped.
	minSampleRunes = 50
	sampleChunks   = 8
)

type languageProfile struct {
	code   string // ISO 639-1
	name   string
	native string
	lang   whatlanggo.Lang
}

var languageTable = []languageProfile{
	{"en", "English", "English", whatlanggo.Eng},
	{"es", "Spanish", "Español", whatlanggo.Spa},
	{"fr", "French", "Français", whatlanggo.Fra},
	{"de", "German", "Deutsch", whatlanggo.Deu},
	{"it", "Italian", "Italiano", whatlanggo.Ita},
	{"pt", "Portuguese", "Português", whatlanggo.Por},
	{"ru", "Russian", "Русский", whatlanggo.Rus},
	{"ja", "Japanese", "日本語", whatlanggo.Jpn},
	{"ko", "Korean", "한국어", whatlanggo.Kor},
	{"zh", "Chinese", "中文", whatlanggo.Cmn},
	{"ar", "Arabic", "العربية", whatlanggo.Arb},
	{"hi", "Hindi", "हिन्दी", whatlanggo.Hin},
	{"nl", "Dutch", "Nederlands", whatlanggo.Nld},
	{"pl", "Polish", "Polski", whatlanggo.Pol},
	{"tr", "Turkish", "Türkçe", whatlanggo.Tur},
	{"vi", "Vietnamese", "Tiếng Việt", whatlanggo.Vie},
	{"th", "Thai", "ไทย", whatlanggo.Tha},
	{"sv", "Swedish", "Svenska", whatlanggo.Swe},
	{"da", "Danish", "Dansk", whatlanggo.Dan},
	{"fi", "Finnish", "Suomi", whatlanggo.Fin},
}

// rtlLanguages are the language codes written right to left.
var rtlLanguages = map[string]bool{
	"ar": true, "fa": true, "he": true, "ur": true, "arc": true,
	"az": true, "dv": true, "ku": true, "nqo": true,
}

// DefaultLanguageCodes returns the ISO 639-1 codes the analyzer classifies
// against when no explicit set is configured.
func DefaultLanguageCodes() []string {
	codes := make([]string, len(languageTable))
	for i, p := range languageTable {
		codes[i] = p.code
	}
	return codes
}

// LanguageAnalyzer detects declared versus actual content language. The
// candidate language set is fixed at construction; codes without a known
// profile are ignored.
type LanguageAnalyzer struct {
	byCode    map[string]languageProfile
	byLang    map[whatlanggo.Lang]languageProfile
	whitelist map[whatlanggo.Lang]bool
}

// NewLanguageAnalyzer builds an analyzer restricted to the given ISO 639-1
// codes.
func NewLanguageAnalyzer(codes []string) *LanguageAnalyzer {
	a := &LanguageAnalyzer{
		byCode:    make(map[string]languageProfile),
		byLang:    make(map[whatlanggo.Lang]languageProfile),
		whitelist: make(map[whatlanggo.Lang]bool),
	}
	for _, profile := range languageTable {
		for _, code := range codes {
			if code == profile.code {
				a.byCode[profile.code] = profile
				a.byLang[profile.lang] = profile
				a.whitelist[profile.lang] = true
				break
			}
		}
	}
	return a
}

var whitespaceRuns = regexp.MustCompile(`\s+`)

// Analyze classifies the page content. Only an empty html argument is an
// error; every classification problem degrades into a partial result with
// Err set, never a failure.
func (a *LanguageAnalyzer) Analyze(htmlContent, pageURL string) (*model.LanguageAnalysis, error) {
	if htmlContent == "" {
		return nil, &errs.AppError{Kind: errs.ParsingFailed, Message: "HTML content cannot be empty."}
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, &errs.AppError{Kind: errs.ParsingFailed, Message: "Failed to parse the HTML content.", Cause: err}
	}

	declaredCode := doc.Find("html").AttrOr("lang", "")
	analysis := &model.LanguageAnalysis{
		Declared:       a.declaredInfo(declaredCode),
		OtherLanguages: []model.OtherLanguage{},
		Direction:      "ltr",
		Elements:       extractLanguageElements(doc),
		Charset:        declaredCharset(doc),
	}

	// Elements are extracted before this strips script/style/code/pre
	// content out of the document.
	text := analyzableText(doc)
	runes := []rune(text)
	if len(runes) < minAnalyzableRunes {
		analysis.Err = "insufficient text content for language analysis"
		return analysis, nil
	}

	info := whatlanggo.DetectWithOptions(text, whatlanggo.Options{Whitelist: a.whitelist})
	profile, ok := a.byLang[info.Lang]
	if !ok {
		analysis.Err = "language detection failed: content matched no supported language"
		return analysis, nil
	}

	analysis.Detected = &model.DetectedLanguage{
		Code:       profile.code,
		Name:       profile.name,
		NativeName: profile.native,
		Confidence: clamp01(info.Confidence),
	}
	analysis.OtherLanguages = a.otherLanguages(runes, profile.code)
	if rtlLanguages[profile.code] {
		analysis.Direction = "rtl"
	}
	return analysis, nil
}

// declaredInfo resolves a declared language code against the profile table
// using its primary subtag (the portion before any script/region hyphen).
func (a *LanguageAnalyzer) declaredInfo(code string) *model.LanguageInfo {
	if code == "" {
		return nil
	}
	primary, _, _ := strings.Cut(code, "-")
	if profile, ok := a.byCode[primary]; ok {
		return &model.LanguageInfo{Code: code, Name: profile.name, NativeName: profile.native}
	}
	return &model.LanguageInfo{Code: code, Name: "Not declared", NativeName: "Not declared"}
}

// analyzableText strips non-prose content and collapses whitespace runs.
// It mutates the document, so callers extract everything else first.
func analyzableText(doc *goquery.Document) string {
	doc.Find("script, style, code, pre").Remove()
	return strings.TrimSpace(whitespaceRuns.ReplaceAllString(doc.Text(), " "))
}

// otherLanguages samples the text in eight roughly equal contiguous chunks
// and records every chunk classified as something other than the primary
// language. Chunks that cannot be classified are skipped silently.
func (a *LanguageAnalyzer) otherLanguages(runes []rune, primary string) []model.OtherLanguage {
	if len(runes) < minSampleRunes {
		return []model.OtherLanguage{}
	}

	step := max(1, len(runes)/sampleChunks)
	type occurrence struct {
		count int
		total float64
	}
	found := make(map[string]*occurrence)

	for i := 0; i < len(runes); i += step {
		sample := strings.TrimSpace(string(runes[i:min(i+step, len(runes))]))
		if sample == "" {
			continue
		}
		info := whatlanggo.DetectWithOptions(sample, whatlanggo.Options{Whitelist: a.whitelist})
		profile, ok := a.byLang[info.Lang]
		if !ok || profile.code == primary {
			continue
		}
		occ := found[profile.code]
		if occ == nil {
			occ = &occurrence{}
			found[profile.code] = occ
		}
		occ.count++
		occ.total += clamp01(info.Confidence)
	}

	others := make([]model.OtherLanguage, 0, len(found))
	for code, occ := range found {
		profile := a.byCode[code]
		others = append(others, model.OtherLanguage{
			Code:       code,
			Name:       profile.name,
			Native:     profile.native,
			Count:      occ.count,
			Confidence: occ.total / float64(occ.count),
		})
	}
	sort.Slice(others, func(i, j int) bool {
		if others[i].Count != others[j].Count {
			return others[i].Count > others[j].Count
		}
		if others[i].Confidence != others[j].Confidence {
			return others[i].Confidence > others[j].Confidence
		}
		return others[i].Code < others[j].Code
	})
	return others
}

var (
	translationMarker  = regexp.MustCompile(`(?i)lang|language|translate`)
	translationHrefPat = regexp.MustCompile(`(?i)[?&]lang=|/[a-z]{2}(?:-[A-Z]{2})?/`)
)

func extractLanguageElements(doc *goquery.Document) model.LanguageElements {
	elements := model.LanguageElements{
		LangAttributes:   []model.AttributeUse{},
		DirAttributes:    []model.AttributeUse{},
		AlternateLinks:   []model.AlternateLink{},
		TranslationLinks: []model.TranslationLink{},
	}

	doc.Find("[lang]").Each(func(_ int, el *goquery.Selection) {
		elements.LangAttributes = append(elements.LangAttributes, model.AttributeUse{
			Tag:   goquery.NodeName(el),
			Value: el.AttrOr("lang", ""),
		})
	})
	doc.Find("[dir]").Each(func(_ int, el *goquery.Selection) {
		elements.DirAttributes = append(elements.DirAttributes, model.AttributeUse{
			Tag:   goquery.NodeName(el),
			Value: el.AttrOr("dir", ""),
		})
	})
	doc.Find(`link[rel="alternate"][hreflang]`).Each(func(_ int, link *goquery.Selection) {
		elements.AlternateLinks = append(elements.AlternateLinks, model.AlternateLink{
			Href:     link.AttrOr("href", ""),
			Hreflang: link.AttrOr("hreflang", ""),
		})
	})
	elements.ContentLanguage = doc.Find(`meta[http-equiv="content-language"]`).AttrOr("content", "")

	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		switcher := translationMarker.MatchString(a.AttrOr("class", "")) ||
			translationMarker.MatchString(a.AttrOr("id", "")) ||
			translationHrefPat.MatchString(a.AttrOr("href", ""))
		if !switcher {
			return
		}
		elements.TranslationLinks = append(elements.TranslationLinks, model.TranslationLink{
			Text: strings.TrimSpace(a.Text()),
			Href: a.AttrOr("href", ""),
			Lang: a.AttrOr("hreflang", ""),
		})
	})

	return elements
}

var charsetParam = regexp.MustCompile(`(?i)charset=([\w-]+)`)

// declaredCharset reads the document's declared encoding, defaulting to
// utf-8 when no declaration exists.
func declaredCharset(doc *goquery.Document) string {
	if cs := doc.Find("meta[charset]").AttrOr("charset", ""); cs != "" {
		return strings.ToLower(cs)
	}
	var found string
	doc.Find("meta[http-equiv]").EachWithBreak(func(_ int, m *goquery.Selection) bool {
		if !strings.EqualFold(m.AttrOr("http-equiv", ""), "content-type") {
			return true
		}
		if match := charsetParam.FindStringSubmatch(m.AttrOr("content", "")); match != nil {
			found = strings.ToLower(match[1])
			return false
		}
		return true
	})
	if found != "" {
		return found
	}
	return "utf-8"
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
