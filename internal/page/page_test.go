package page

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/mahmood726-cyber/Metasprint/internal/classify"
	"github.com/mahmood726-cyber/Metasprint/internal/scan"
)

func card(name, typ, title string, tags ...classify.Tag) classify.Card {
	return classify.Card{
		Entry: scan.Entry{Name: name, Extension: typ, Path: "/p/" + name},
		Title: title,
		Type:  typ,
		Tags:  tags,
	}
}

func testData() Data {
	pages := []classify.Card{
		card("meta-sprint-nma-v3.html", "html", "Meta-sprint: Network Meta-Analysis",
			classify.Tag{Class: "tag-html", Label: "HTML"}),
		card("meta-sprint-zzz-v1.html", "html", "Meta-sprint: Zzz V1",
			classify.Tag{Class: "tag-html", Label: "HTML"}),
	}
	files := []classify.Card{
		card("MAJOR_IMPROVEMENTS.md", "md", "Major Improvements",
			classify.Tag{Class: "tag-md", Label: "MD"}),
		card("test_metasprint.py", "py", "Meta-sprint Tests",
			classify.Tag{Class: "tag-py", Label: "PY"}),
	}

	data := Data{
		Title:    "META-SPRINT Project Gateway",
		Subtitle: "Everything in one place",
		Tabs:     Tabs(pages, files),
	}
	for _, c := range pages {
		data.Pages = append(data.Pages, NewCardView(c, time.Time{}))
	}
	for _, c := range files {
		data.Files = append(data.Files, NewCardView(c, time.Time{}))
	}
	return data
}

// collect returns all element nodes matching tag with the given class attribute.
func collect(n *html.Node, tag, class string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			for _, a := range n.Attr {
				if a.Key == "class" && containsClass(a.Val, class) {
					out = append(out, n)
					break
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func containsClass(val, class string) bool {
	for _, c := range strings.Fields(val) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func TestRenderTabs(t *testing.T) {
	content, err := Render(testData())
	require.NoError(t, err)

	doc, err := html.Parse(bytes.NewReader(content))
	require.NoError(t, err)

	tabs := collect(doc, "button", "tab")
	require.Len(t, tabs, 4)
	assert.Equal(t, "All", text(tabs[0]))
	assert.Equal(t, "all", attr(tabs[0], "data-type"))
	assert.Equal(t, "HTML", text(tabs[1]))
	assert.Equal(t, "html", attr(tabs[1], "data-type"))
	assert.Equal(t, "MD", text(tabs[2]))
	assert.Equal(t, "PY", text(tabs[3]))
}

func TestRenderCards(t *testing.T) {
	content, err := Render(testData())
	require.NoError(t, err)

	doc, err := html.Parse(bytes.NewReader(content))
	require.NoError(t, err)

	cards := collect(doc, "div", "card")
	require.Len(t, cards, 4)

	// HTML pages come first, in input order; supporting files follow.
	assert.Equal(t, "meta-sprint-nma-v3.html", attr(cards[0], "data-href"))
	assert.Equal(t, "html", attr(cards[0], "data-type"))
	assert.Equal(t, "MAJOR_IMPROVEMENTS.md", attr(cards[2], "data-href"))
	assert.Equal(t, "md", attr(cards[2], "data-type"))
	assert.Contains(t, text(cards[0]), "Meta-sprint: Network Meta-Analysis")
}

func TestRenderEscapesDerivedText(t *testing.T) {
	data := Data{
		Title: `Gateway <"&'>`,
		Pages: []CardView{{
			Href:  `weird "name".html`,
			Type:  "html",
			Name:  `weird "name".html`,
			Title: `A <b>bold</b> & 'quoted' title`,
		}},
	}

	content, err := Render(data)
	require.NoError(t, err)

	// Raw markup from derived text must never survive into the document.
	assert.NotContains(t, string(content), "<b>bold</b>")

	doc, err := html.Parse(bytes.NewReader(content))
	require.NoError(t, err)
	cards := collect(doc, "div", "card")
	require.Len(t, cards, 1)
	assert.Contains(t, text(cards[0]), `A <b>bold</b> & 'quoted' title`)
	assert.Equal(t, `weird "name".html`, attr(cards[0], "data-href"))
}

func TestRenderUpdatedLine(t *testing.T) {
	when := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	cv := NewCardView(card("report.html", "html", "Report"), when)
	assert.Equal(t, "2026-03-14", cv.Updated)

	data := Data{Title: "T", Pages: []CardView{cv}}
	content, err := Render(data)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Updated 2026-03-14")
}

func TestRenderNotesFragment(t *testing.T) {
	data := testData()
	data.Notes = "<p>Release <strong>notes</strong></p>"

	content, err := Render(data)
	require.NoError(t, err)
	// Notes are a trusted fragment and pass through unescaped.
	assert.Contains(t, string(content), "<p>Release <strong>notes</strong></p>")
}

func TestRenderDeterministic(t *testing.T) {
	first, err := Render(testData())
	require.NoError(t, err)
	second, err := Render(testData())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
