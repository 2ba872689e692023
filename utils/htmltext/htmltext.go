package htmltext

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// PageMeta holds the head metadata of an HTML document.
type PageMeta struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	OGTitle     string `json:"og_title,omitempty"`
	OGImage     string `json:"og_image,omitempty"`
	Canonical   string `json:"canonical,omitempty"`
}

// ExtractMeta parses title, description and OpenGraph tags.
func ExtractMeta(htmlContent string) (PageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return PageMeta{}, err
	}
	meta := PageMeta{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		content, ok := s.Attr("content")
		if !ok || content == "" {
			return
		}
		if name, _ := s.Attr("name"); name == "description" && meta.Description == "" {
			meta.Description = strings.TrimSpace(content)
		}
		switch prop, _ := s.Attr("property"); prop {
		case "og:title":
			meta.OGTitle = strings.TrimSpace(content)
		case "og:image":
			meta.OGImage = strings.TrimSpace(content)
		}
	})
	if href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
		meta.Canonical = strings.TrimSpace(href)
	}
	return meta, nil
}

// CleanText strips markup and collapses an HTML document to its visible
// text. Script, style and noscript subtrees are skipped.
func CleanText(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style" || n.Data == "noscript") {
			return
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				sb.WriteString(text)
				sb.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(sb.String())
}
