// Package page renders the gateway document and writes it to disk.
package page

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/mahmood726-cyber/Metasprint/internal/classify"
)

//go:embed template.html
var pageTemplate string

// Tab is one filter button on the generated page. Type must exactly equal the
// data-type carried by the matching cards; the client-side filter compares the
// two strings verbatim.
type Tab struct {
	Type  string
	Label string
}

// CardView is the rendered form of one classified file.
type CardView struct {
	Href    string
	Type    string
	Name    string
	Title   string
	Tags    []classify.Tag
	Updated string // "2006-01-02", empty when unknown
}

// Data is the full template context for one render.
type Data struct {
	Title    string
	Subtitle string
	Notes    template.HTML // pre-rendered, trusted fragment; empty hides the panel
	Tabs     []Tab
	Pages    []CardView
	Files    []CardView
}

// NewCardView converts a classified card. updated may be the zero time.
func NewCardView(card classify.Card, updated time.Time) CardView {
	cv := CardView{
		Href:  card.Entry.Name,
		Type:  card.Type,
		Name:  card.Entry.Name,
		Title: card.Title,
		Tags:  card.Tags,
	}
	if !updated.IsZero() {
		cv.Updated = updated.UTC().Format("2006-01-02")
	}
	return cv
}

// Tabs derives the filter tabs for the given card groups. The "All" tab is
// part of the template itself; this returns only the per-type tabs, html
// first, then the remaining types ascending.
func Tabs(groups ...[]classify.Card) []Tab {
	types := classify.FilterTypes(groups...)
	tabs := make([]Tab, 0, len(types))
	for _, t := range types {
		tabs = append(tabs, Tab{Type: t, Label: strings.ToUpper(t)})
	}
	return tabs
}

// Render executes the embedded template. All per-file derived text passes
// through html/template's contextual escaping; the template itself is trusted.
func Render(data Data) ([]byte, error) {
	tpl, err := template.New("gateway").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse gateway template: %w", err)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render gateway page: %w", err)
	}
	return buf.Bytes(), nil
}
