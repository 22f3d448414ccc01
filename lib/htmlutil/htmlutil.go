package htmlutil

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
)

var tracer = otel.Tracer("outage.lib.htmlutil")

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

var innerWhitespace = regexp.MustCompile(`\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) || unicode.IsSpace(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// NormalizeSpace turns non-breaking spaces into regular ones, drops
// non-printable characters, collapses runs of whitespace and trims.
func NormalizeSpace(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = removeNonPrintable(s)
	s = innerWhitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// FindContaining returns the first node in sel (in document order) whose
// text contains substr, the second return value is false if there is none.
// The match is case-sensitive.
func FindContaining(ctx context.Context, sel *goquery.Selection, substr string) (*html.Node, bool) {
	_, span := tracer.Start(ctx, "FindContaining")
	defer span.End()

	span.SetAttributes(
		attribute.String("substr", substr),
		attribute.Int("candidates", len(sel.Nodes)),
	)

	for _, n := range sel.Nodes {
		text := GetText(n)
		if strings.Contains(text, substr) {
			span.AddEvent("match", trace.WithAttributes(
				attribute.String("text", text),
			))
			return n, true
		}
	}
	return nil, false
}
