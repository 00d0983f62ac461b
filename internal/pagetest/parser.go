package pagetest

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/qalab/page-test-gen/internal/model"
	"github.com/qalab/page-test-gen/internal/platform/errs"
)

// Parser extracts links, forms, and the structural profile from one parsed
// document. All extraction is pure over the parsed tree; nothing here
// touches the network or disk.
type Parser struct {
	doc  *goquery.Document
	base *url.URL
}

// NewParser parses the given HTML against its base URL. Empty content or an
// empty base URL is a precondition violation, not a parse failure.
func NewParser(htmlContent, baseURL string) (*Parser, error) {
	if htmlContent == "" {
		return nil, &errs.AppError{Kind: errs.ParsingFailed, Message: "HTML content cannot be empty."}
	}
	if baseURL == "" {
		return nil, &errs.AppError{Kind: errs.ParsingFailed, Message: "Base URL cannot be empty."}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, &errs.AppError{Kind: errs.ParsingFailed, Message: "Failed to parse the HTML content.", Cause: err}
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, &errs.AppError{Kind: errs.ParsingFailed, Message: "Base URL is not a valid URL.", Cause: err}
	}

	return &Parser{doc: doc, base: base}, nil
}

// Links returns every anchor with a usable href, resolved to absolute form.
// Anchors whose href cannot be parsed are skipped silently. A link is
// internal iff its resolved host equals the base host exactly; anything
// else, including schemes without a host such as mailto:, is external.
func (p *Parser) Links() []model.Link {
	var links []model.Link
	p.doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if href == "" {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := p.base.ResolveReference(ref)

		linkType := model.LinkExternal
		if resolved.Host == p.base.Host {
			linkType = model.LinkInternal
		}
		links = append(links, model.Link{
			URL:  resolved.String(),
			Text: strings.TrimSpace(a.Text()),
			Type: linkType,
		})
	})
	return links
}

// Forms returns every form with its resolved action, upper-cased method
// (GET when absent), and fields in document order. Required is attribute
// presence, not attribute value.
func (p *Parser) Forms() []model.Form {
	var forms []model.Form
	p.doc.Find("form").Each(func(_ int, f *goquery.Selection) {
		var fields []model.Field
		f.Find("input, textarea, select").Each(func(_ int, el *goquery.Selection) {
			_, required := el.Attr("required")
			fields = append(fields, model.Field{
				Type:     el.AttrOr("type", "text"),
				Name:     el.AttrOr("name", ""),
				ID:       el.AttrOr("id", ""),
				Required: required,
			})
		})

		forms = append(forms, model.Form{
			Action: p.resolve(f.AttrOr("action", "")),
			Method: strings.ToUpper(f.AttrOr("method", "get")),
			Fields: fields,
		})
	})
	return forms
}

// resolve returns href in absolute form against the base URL. An empty href
// resolves to the base URL itself; an unparseable one is returned verbatim.
func (p *Parser) resolve(href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return p.base.ResolveReference(ref).String()
}

// Structure extracts the full structural profile of the page.
func (p *Parser) Structure() *model.PageStructure {
	images := p.images()
	return &model.PageStructure{
		Title:       p.title(),
		Headings:    p.headings(),
		Meta:        p.meta(),
		Images:      images,
		Scripts:     p.scriptCounts(),
		Stylesheets: p.stylesheetCounts(),
		Language:    p.doc.Find("html").AttrOr("lang", ""),
		Landmarks:   p.landmarks(),
		Lists: model.ListCounts{
			UL: p.doc.Find("ul").Length(),
			OL: p.doc.Find("ol").Length(),
			DL: p.doc.Find("dl").Length(),
		},
		Tables:      p.tables(),
		Interactive: p.interactive(),
		SEO:         p.seo(images),
		Security:    p.security(),
		Social:      p.social(),
	}
}

func (p *Parser) title() *string {
	sel := p.doc.Find("title")
	if sel.Length() == 0 {
		return nil
	}
	title := strings.TrimSpace(sel.First().Text())
	return &title
}

func (p *Parser) headings() map[string][]string {
	headings := make(map[string][]string, 6)
	for level := 1; level <= 6; level++ {
		tag := fmt.Sprintf("h%d", level)
		texts := []string{}
		p.doc.Find(tag).Each(func(_ int, h *goquery.Selection) {
			texts = append(texts, strings.TrimSpace(h.Text()))
		})
		headings[tag] = texts
	}
	return headings
}

func (p *Parser) meta() model.Meta {
	return model.Meta{
		Description: p.metaContent(`meta[name="description"]`, "content"),
		Keywords:    p.metaContent(`meta[name="keywords"]`, "content"),
		Viewport:    p.metaContent(`meta[name="viewport"]`, "content"),
		Charset:     p.metaContent(`meta[charset]`, "charset"),
		Robots:      p.metaContent(`meta[name="robots"]`, "content"),
	}
}

// metaContent returns nil when no tag matches, and the attribute value
// (possibly empty) when one does.
func (p *Parser) metaContent(selector, attr string) *string {
	sel := p.doc.Find(selector)
	if sel.Length() == 0 {
		return nil
	}
	content := sel.First().AttrOr(attr, "")
	return &content
}

func (p *Parser) images() []model.Image {
	var images []model.Image
	p.doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		images = append(images, model.Image{
			Src:    img.AttrOr("src", ""),
			Alt:    img.AttrOr("alt", ""),
			Title:  img.AttrOr("title", ""),
			Width:  img.AttrOr("width", ""),
			Height: img.AttrOr("height", ""),
		})
	})
	return images
}

func (p *Parser) scriptCounts() model.ResourceCounts {
	total := p.doc.Find("script").Length()
	external := p.doc.Find("script[src]").Length()
	return model.ResourceCounts{Total: total, External: external, Inline: total - external}
}

func (p *Parser) stylesheetCounts() model.ResourceCounts {
	return model.ResourceCounts{
		Total:    p.doc.Find(`link[rel="stylesheet"]`).Length(),
		External: p.doc.Find(`link[rel="stylesheet"][href]`).Length(),
		Inline:   p.doc.Find("style").Length(),
	}
}

var semanticLandmarks = []string{"header", "nav", "main", "article", "aside", "footer", "section"}

var landmarkRoles = []string{"banner", "navigation", "main", "complementary", "contentinfo"}

// landmarks collects HTML5 semantic elements first, then elements carrying
// an explicit landmark role, in that pass order.
func (p *Parser) landmarks() []model.Landmark {
	var landmarks []model.Landmark
	for _, tag := range semanticLandmarks {
		p.doc.Find(tag).Each(func(_ int, el *goquery.Selection) {
			landmarks = append(landmarks, model.Landmark{
				Type:      tag,
				Role:      el.AttrOr("role", ""),
				AriaLabel: el.AttrOr("aria-label", ""),
			})
		})
	}
	for _, role := range landmarkRoles {
		p.doc.Find(fmt.Sprintf("[role=%q]", role)).Each(func(_ int, el *goquery.Selection) {
			landmarks = append(landmarks, model.Landmark{
				Type:      goquery.NodeName(el),
				Role:      role,
				AriaLabel: el.AttrOr("aria-label", ""),
			})
		})
	}
	return landmarks
}

func (p *Parser) tables() []model.Table {
	var tables []model.Table
	p.doc.Find("table").Each(func(_ int, t *goquery.Selection) {
		rows := t.Find("tr").Length()
		cols := 0
		if rows > 0 {
			// Whole-table td/tr ratio, not a per-row count; header-only or
			// irregular rows skew it.
			cols = t.Find("td").Length() / rows
		}
		tables = append(tables, model.Table{
			HasCaption: t.Find("caption").Length() > 0,
			HasHeaders: t.Find("th").Length() > 0,
			Rows:       rows,
			Cols:       cols,
			HasScope:   t.Find("th[scope]").Length() > 0,
		})
	})
	return tables
}

func (p *Parser) interactive() model.InteractiveElements {
	inputsOfType := func(t string) int {
		return p.doc.Find(fmt.Sprintf("input[type=%q]", t)).Length()
	}
	return model.InteractiveElements{
		Buttons: p.doc.Find("button").Length(),
		Inputs: model.InputCounts{
			Text:     inputsOfType("text"),
			Password: inputsOfType("password"),
			Email:    inputsOfType("email"),
			Checkbox: inputsOfType("checkbox"),
			Radio:    inputsOfType("radio"),
			Submit:   inputsOfType("submit"),
		},
		Selects:   p.doc.Find("select").Length(),
		Textareas: p.doc.Find("textarea").Length(),
		Clickable: p.doc.Find("a, button, input").Length(),
	}
}

// seo computes the basic SEO signals. A page with no images counts as fully
// alt-compliant (ratio 1.0) rather than producing a zero division.
func (p *Parser) seo(images []model.Image) model.SEOSignals {
	ratio := 1.0
	if len(images) > 0 {
		withAlt := 0
		for _, img := range images {
			if img.Alt != "" {
				withAlt++
			}
		}
		ratio = float64(withAlt) / float64(len(images))
	}

	return model.SEOSignals{
		HasCanonical:       p.doc.Find(`link[rel="canonical"]`).Length() > 0,
		H1Count:            p.doc.Find("h1").Length(),
		HasMetaDescription: p.doc.Find(`meta[name="description"]`).Length() > 0,
		HasMetaKeywords:    p.doc.Find(`meta[name="keywords"]`).Length() > 0,
		ImgAltRatio:        ratio,
	}
}

const csrfInputSelector = `input[name="csrf_token"], input[name="_token"], input[name="_csrf"]`

func (p *Parser) security() model.SecuritySignals {
	externalLinks := 0
	p.doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.HasPrefix(href, "http") {
			return
		}
		u, err := url.Parse(href)
		if err != nil {
			return
		}
		if u.Host != p.base.Host {
			externalLinks++
		}
	})

	formsWithCSRF := 0
	p.doc.Find("form").Each(func(_ int, f *goquery.Selection) {
		if f.Find(csrfInputSelector).Length() > 0 {
			formsWithCSRF++
		}
	})

	return model.SecuritySignals{
		HasCSRFToken:   p.doc.Find(csrfInputSelector).Length() > 0,
		ExternalLinks:  externalLinks,
		PasswordInputs: p.doc.Find(`input[type="password"]`).Length(),
		FormsWithCSRF:  formsWithCSRF,
	}
}

func (p *Parser) social() model.SocialMeta {
	og := map[string]string{}
	p.doc.Find(`meta[property^="og:"]`).Each(func(_ int, m *goquery.Selection) {
		og[m.AttrOr("property", "")] = m.AttrOr("content", "")
	})

	twitter := map[string]string{}
	p.doc.Find(`meta[name^="twitter:"]`).Each(func(_ int, m *goquery.Selection) {
		twitter[m.AttrOr("name", "")] = m.AttrOr("content", "")
	})

	return model.SocialMeta{OpenGraph: og, Twitter: twitter}
}
