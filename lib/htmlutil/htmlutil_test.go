package htmlutil

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestGetText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<div><span>Hello <b>big</b> world</span></div>`,
	))
	require.NoError(t, err)

	require.Equal(t, "Hello big world", GetText(doc.Find("span").Nodes[0]))
	require.Equal(t, "", GetText(nil))
}

func TestNormalizeSpace(t *testing.T) {
	cases := []struct {
		in     string
		expect string
	}{
		{in: "  as of July 14  ", expect: "as of July 14"},
		{in: "a\n\t\tb", expect: "a b"},
		{in: "plain", expect: "plain"},
		{in: "July\u00a014,\u00a02024", expect: "July 14, 2024"},
		{in: "zero\u200bwidth", expect: "zerowidth"},
	}
	for _, test := range cases {
		require.Equal(t, test.expect, NormalizeSpace(test.in))
	}
}

func TestFindContaining(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<p>
			<span>Outages</span>
			<span>Information updated as of July 14, 2024</span>
			<span>information updated as of never</span>
		</p>
	`))
	require.NoError(t, err)

	node, ok := FindContaining(context.Background(), doc.Find("span"), "Information updated as of")
	require.True(t, ok)
	require.Equal(t, "Information updated as of July 14, 2024", GetText(node))

	_, ok = FindContaining(context.Background(), doc.Find("span"), "nothing like this")
	require.False(t, ok)
}
