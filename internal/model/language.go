package model

// LanguageAnalysis is the linguistic profile of one page. A non-empty Err
// marks a partial result: Detected and OtherLanguages are unset, but
// Declared, Elements, and Charset are still meaningful.
type LanguageAnalysis struct {
	Declared       *LanguageInfo     `json:"declared_language"`
	Detected       *DetectedLanguage `json:"detected_language"`
	OtherLanguages []OtherLanguage   `json:"other_languages"`
	Direction      string            `json:"direction"`
	Elements       LanguageElements  `json:"language_elements"`
	Charset        string            `json:"charset"`
	Err            string            `json:"error,omitempty"`
}

// LanguageInfo names a language declared in markup.
type LanguageInfo struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"native_name"`
}

// DetectedLanguage is the classified primary content language.
type DetectedLanguage struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	NativeName string  `json:"native_name"`
	Confidence float64 `json:"confidence"`
}

// OtherLanguage records a secondary language found by chunk sampling.
// Count is the number of chunks classified as this language; Confidence is
// the mean classifier confidence over those chunks.
type OtherLanguage struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Native     string  `json:"native"`
	Count      int     `json:"count"`
	Confidence float64 `json:"confidence"`
}

// LanguageElements collects language-related markup found on the page.
type LanguageElements struct {
	LangAttributes   []AttributeUse    `json:"lang_attributes"`
	DirAttributes    []AttributeUse    `json:"dir_attributes"`
	AlternateLinks   []AlternateLink   `json:"alternate_links"`
	ContentLanguage  string            `json:"content_language,omitempty"`
	TranslationLinks []TranslationLink `json:"translation_links"`
}

// AttributeUse records one element carrying a language-related attribute.
type AttributeUse struct {
	Tag   string `json:"tag"`
	Value string `json:"value"`
}

// AlternateLink is a rel=alternate link with an hreflang.
type AlternateLink struct {
	Href     string `json:"href"`
	Hreflang string `json:"hreflang"`
}

// TranslationLink is an anchor that looks like a language switcher.
type TranslationLink struct {
	Text string `json:"text"`
	Href string `json:"href"`
	Lang string `json:"lang,omitempty"`
}
