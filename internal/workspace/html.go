package workspace

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kandebooths/packer-service/internal/model"
	"golang.org/x/net/html"
)

var (
	spaceRun     = regexp.MustCompile(`[ \t]+`)
	spaceAfterNL = regexp.MustCompile(`\n +`)
	spaceBefNL   = regexp.MustCompile(` +\n`)
	blankLines   = regexp.MustCompile(`\n{3,}`)
)

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// FlattenHTML turns a rich-text custom field into plain text.  Line breaks
// and block ends become newlines, links become [text](url) and image
// sources are collected separately.
func FlattenHTML(raw string) model.CustomFieldValue {
	if !strings.Contains(raw, "<") {
		return model.CustomFieldValue{Text: cleanText(raw)}
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return model.CustomFieldValue{Text: cleanText(raw)}
	}

	var images []string
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok && src != "" {
			images = append(images, src)
		}
	})
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		s.ReplaceWithNodes(textNode("[" + s.Text() + "](" + href + ")"))
	})
	doc.Find("br").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithNodes(textNode("\n"))
	})
	doc.Find("p, div").Each(func(_ int, s *goquery.Selection) {
		s.AppendNodes(textNode("\n"))
	})

	return model.CustomFieldValue{Text: cleanText(doc.Text()), Images: images}
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = spaceRun.ReplaceAllString(s, " ")
	s = spaceAfterNL.ReplaceAllString(s, "\n")
	s = spaceBefNL.ReplaceAllString(s, "\n")
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
