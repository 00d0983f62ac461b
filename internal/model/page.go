package model

// LinkType classifies whether a link points back at the analyzed host.
type LinkType string

const (
	LinkInternal LinkType = "internal"
	LinkExternal LinkType = "external"
)

// Link is a single anchor extracted from the page, resolved to absolute form.
type Link struct {
	URL  string   `json:"url"`
	Text string   `json:"text"`
	Type LinkType `json:"type"`
}

// LinkCheck records the outcome of probing one Link. Checks align
// positionally with the link list that produced them. StatusCode is nil when
// the probe failed before receiving a response.
type LinkCheck struct {
	URL          string `json:"url"`
	StatusCode   *int   `json:"status_code"`
	IsAccessible bool   `json:"is_accessible"`
	RedirectURL  string `json:"redirect_url,omitempty"`
	Error        string `json:"error,omitempty"`
}

// FormCheck records the outcome of probing a form's submission endpoint.
type FormCheck struct {
	URL               string `json:"url"`
	StatusCode        *int   `json:"status_code"`
	AcceptsSubmission bool   `json:"accepts_submission"`
	Error             string `json:"error,omitempty"`
}

// Form is an HTML form with its submission target and ordered fields.
type Form struct {
	Action string  `json:"action"`
	Method string  `json:"method"`
	Fields []Field `json:"fields"`
}

// Field is a single input, textarea, or select inside a form.
type Field struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	ID       string `json:"id"`
	Required bool   `json:"required"`
}

// PageStructure is the structural profile of one page. Pointer fields are
// nil when the corresponding markup is absent; a non-nil empty string means
// the markup exists but carries no value.
type PageStructure struct {
	Title       *string             `json:"title"`
	Headings    map[string][]string `json:"headings"`
	Meta        Meta                `json:"meta"`
	Images      []Image             `json:"images"`
	Scripts     ResourceCounts      `json:"scripts"`
	Stylesheets ResourceCounts      `json:"stylesheets"`
	Language    string              `json:"language"`
	Landmarks   []Landmark          `json:"landmarks"`
	Lists       ListCounts          `json:"lists"`
	Tables      []Table             `json:"tables"`
	Interactive InteractiveElements `json:"interactive_elements"`
	SEO         SEOSignals          `json:"seo_elements"`
	Security    SecuritySignals     `json:"security_elements"`
	Social      SocialMeta          `json:"social_meta"`
}

// Meta holds the recognized head metadata fields.
type Meta struct {
	Description *string `json:"description"`
	Keywords    *string `json:"keywords"`
	Viewport    *string `json:"viewport"`
	Charset     *string `json:"charset"`
	Robots      *string `json:"robots"`
}

// Image describes one img element.
type Image struct {
	Src    string `json:"src"`
	Alt    string `json:"alt"`
	Title  string `json:"title"`
	Width  string `json:"width"`
	Height string `json:"height"`
}

// ResourceCounts breaks down scripts or stylesheets by origin.
type ResourceCounts struct {
	Total    int `json:"total"`
	External int `json:"external"`
	Inline   int `json:"inline"`
}

// Landmark is a semantic or ARIA region used for accessibility navigation.
type Landmark struct {
	Type      string `json:"type"`
	Role      string `json:"role"`
	AriaLabel string `json:"aria_label"`
}

// ListCounts tallies list elements by kind.
type ListCounts struct {
	UL int `json:"ul"`
	OL int `json:"ol"`
	DL int `json:"dl"`
}

// Table summarizes the accessibility-relevant shape of one table. Cols is
// the whole-table td/tr ratio, not a per-row count.
type Table struct {
	HasCaption bool `json:"has_caption"`
	HasHeaders bool `json:"has_headers"`
	Rows       int  `json:"rows"`
	Cols       int  `json:"cols"`
	HasScope   bool `json:"has_scope"`
}

// InteractiveElements counts the page's interactive controls.
type InteractiveElements struct {
	Buttons   int         `json:"buttons"`
	Inputs    InputCounts `json:"inputs"`
	Selects   int         `json:"selects"`
	Textareas int         `json:"textareas"`
	Clickable int         `json:"clickable"`
}

// InputCounts tallies input elements by type attribute.
type InputCounts struct {
	Text     int `json:"text"`
	Password int `json:"password"`
	Email    int `json:"email"`
	Checkbox int `json:"checkbox"`
	Radio    int `json:"radio"`
	Submit   int `json:"submit"`
}

// Total sums all counted input kinds.
func (c InputCounts) Total() int {
	return c.Text + c.Password + c.Email + c.Checkbox + c.Radio + c.Submit
}

// SEOSignals aggregates the basic search-engine signals of the page.
// ImgAltRatio is 1.0 when the page has no images at all.
type SEOSignals struct {
	HasCanonical       bool    `json:"canonical"`
	H1Count            int     `json:"h1_count"`
	HasMetaDescription bool    `json:"meta_description"`
	HasMetaKeywords    bool    `json:"meta_keywords"`
	ImgAltRatio        float64 `json:"img_alt_ratio"`
}

// SecuritySignals aggregates markup-level security signals.
type SecuritySignals struct {
	HasCSRFToken   bool `json:"csrf_token"`
	ExternalLinks  int  `json:"external_links"`
	PasswordInputs int  `json:"password_inputs"`
	FormsWithCSRF  int  `json:"forms_with_csrf"`
}

// SocialMeta holds OpenGraph and Twitter card tags keyed by tag name.
type SocialMeta struct {
	OpenGraph map[string]string `json:"og_tags"`
	Twitter   map[string]string `json:"twitter_tags"`
}
