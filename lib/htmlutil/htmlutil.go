package htmlutil

import (
	"bytes"
	"strings"

	"farmbot-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// FindByText returns the elements within sel whose own text contains the
// given substring, the closest thing goquery has to a ":contains" selector.
func FindByText(sel *goquery.Selection, selector, substr string) *goquery.Selection {
	return sel.Find(selector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(s.Text(), substr)
	})
}

// CleanSelectionText extracts and normalizes the visible text of a
// selection. Scraped runs can carry non-printable characters and ragged
// whitespace, which CleanText strips.
func CleanSelectionText(sel *goquery.Selection) string {
	var buffer bytes.Buffer
	for _, node := range sel.Nodes {
		buffer.WriteString(GetText(node))
	}
	return textutil.CleanText(buffer.String())
}
