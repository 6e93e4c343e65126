package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"applycraft-backend/internal/shared/textutil"
)

const (
	defaultUserAgent = "Mozilla/5.0 (compatible; ApplyCraft/1.0)"
	maxPageBytes     = 4 << 20
)

var (
	// ErrInvalidURL is returned for anything but absolute http(s) URLs.
	ErrInvalidURL = errors.New("invalid job posting URL")
	// ErrFetch wraps network and status failures while downloading a posting.
	ErrFetch = errors.New("failed to fetch job posting")
)

// Posting is what could be read from a job posting page. Any field may be empty.
type Posting struct {
	URL         string `json:"url"`
	Company     string `json:"company"`
	RoleTitle   string `json:"roleTitle"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// Fetcher downloads job posting pages.
type Fetcher struct {
	Client    *http.Client
	UserAgent string
}

// NewFetcher builds a Fetcher with the given request timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Fetcher{Client: &http.Client{Timeout: timeout}, UserAgent: defaultUserAgent}
}

// Fetch downloads and parses a posting.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Posting, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Posting{}, ErrInvalidURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Posting{}, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.Client.Do(req)
	if err != nil {
		return Posting{}, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Posting{}, fmt.Errorf("%w: HTTP status %d", ErrFetch, resp.StatusCode)
	}
	return ParsePosting(u, io.LimitReader(resp.Body, maxPageBytes))
}

// ParsePosting reads a posting from HTML. schema.org JobPosting data wins;
// page metadata and common job board selectors fill the gaps.
func ParsePosting(pageURL *url.URL, r io.Reader) (Posting, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Posting{}, fmt.Errorf("parse HTML: %w", err)
	}

	p := Posting{}
	if pageURL != nil {
		p.URL = pageURL.String()
	}
	if ld, ok := findJobPosting(doc); ok {
		p.RoleTitle = strings.TrimSpace(ld.Title)
		p.Company = strings.TrimSpace(ld.HiringOrganization.Name)
		p.Location = ld.location()
		p.Description = htmlToText(ld.Description)
	}

	if p.RoleTitle == "" {
		p.RoleTitle = firstNonEmpty(
			metaContent(doc, "og:title"),
			doc.Find("h1").First().Text(),
			doc.Find("title").First().Text(),
		)
	}
	if p.Company == "" {
		p.Company = firstNonEmpty(metaContent(doc, "og:site_name"), hostCompany(pageURL))
	}
	if p.Description == "" {
		p.Description = mainText(doc)
	}

	p.RoleTitle = textutil.ClampTrimmed(strings.Join(strings.Fields(p.RoleTitle), " "), 140)
	p.Company = textutil.ClampTrimmed(p.Company, 140)
	p.Location = textutil.ClampTrimmed(p.Location, 140)
	return p, nil
}

type jobPostingLD struct {
	Type               any    `json:"@type"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	HiringOrganization struct {
		Name string `json:"name"`
	} `json:"hiringOrganization"`
	JobLocation json.RawMessage   `json:"jobLocation"`
	Graph       []json.RawMessage `json:"@graph"`
}

type placeLD struct {
	Address struct {
		Locality string `json:"addressLocality"`
		Region   string `json:"addressRegion"`
		Country  any    `json:"addressCountry"`
	} `json:"address"`
}

func (j jobPostingLD) isJobPosting() bool {
	switch t := j.Type.(type) {
	case string:
		return t == "JobPosting"
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok && s == "JobPosting" {
				return true
			}
		}
	}
	return false
}

func (j jobPostingLD) location() string {
	if len(j.JobLocation) == 0 {
		return ""
	}
	var places []placeLD
	if err := json.Unmarshal(j.JobLocation, &places); err != nil {
		var single placeLD
		if err := json.Unmarshal(j.JobLocation, &single); err != nil {
			return ""
		}
		places = []placeLD{single}
	}
	if len(places) == 0 {
		return ""
	}
	addr := places[0].Address
	parts := make([]string, 0, 3)
	for _, part := range []string{addr.Locality, addr.Region} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	if country, ok := addr.Country.(string); ok && strings.TrimSpace(country) != "" {
		parts = append(parts, strings.TrimSpace(country))
	}
	return strings.Join(parts, ", ")
}

func findJobPosting(doc *goquery.Document) (jobPostingLD, bool) {
	var found jobPostingLD
	var ok bool
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		found, ok = decodeJobPosting([]byte(s.Text()))
		return !ok
	})
	return found, ok
}

func decodeJobPosting(raw []byte) (jobPostingLD, bool) {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, item := range list {
			if ld, ok := decodeJobPosting(item); ok {
				return ld, true
			}
		}
		return jobPostingLD{}, false
	}
	var ld jobPostingLD
	if err := json.Unmarshal(raw, &ld); err != nil {
		return jobPostingLD{}, false
	}
	if ld.isJobPosting() {
		return ld, true
	}
	for _, item := range ld.Graph {
		if nested, ok := decodeJobPosting(item); ok {
			return nested, true
		}
	}
	return jobPostingLD{}, false
}

var descriptionSelectors = []string{
	".job-description",
	"#job-description",
	".job-details",
	".description__text",
	"[data-testid=\"jobDescriptionText\"]",
	"#jobDescriptionText",
	"main",
	"article",
}

func mainText(doc *goquery.Document) string {
	doc.Find("nav, footer, header, script, style, noscript, form, .cookie-banner").Remove()
	for _, selector := range descriptionSelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			if text := selectionText(sel); text != "" {
				return text
			}
		}
	}
	return selectionText(doc.Find("body"))
}

// htmlToText renders an HTML fragment (JSON-LD descriptions are usually HTML).
func htmlToText(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return textutil.CollapseSpace(fragment)
	}
	return selectionText(doc.Find("body"))
}

// selectionText keeps block boundaries as line breaks.
func selectionText(sel *goquery.Selection) string {
	sel.Find("br").ReplaceWithHtml("\n")
	sel.Find("p, li, h1, h2, h3, h4, div").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	return textutil.CollapseSpace(sel.Text())
}

func metaContent(doc *goquery.Document, property string) string {
	sel := doc.Find(fmt.Sprintf(`meta[property=%q], meta[name=%q]`, property, property)).First()
	content, _ := sel.Attr("content")
	return strings.TrimSpace(content)
}

func hostCompany(u *url.URL) string {
	if u == nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if i := strings.Index(host, "."); i > 0 {
		host = host[:i]
	}
	if host == "" {
		return ""
	}
	return strings.ToUpper(host[:1]) + host[1:]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
