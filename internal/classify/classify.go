// Package classify derives display titles, tags and filter types for scanned
// files. Resolution is table-driven: exact lookups first, documented fallback
// derivations on a miss. A miss is never an error.
package classify

import (
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mahmood726-cyber/Metasprint/internal/config"
	"github.com/mahmood726-cyber/Metasprint/internal/scan"
)

// unlisted sorts every HTML file without a priority entry after all listed ones.
const unlisted = int(^uint(0) >> 1)

// TypeFile is the filter type assigned to extensionless files.
const TypeFile = "file"

// Tag is one badge rendered on a card.
type Tag struct {
	Class string
	Label string
}

// Card is the classified form of a scanned file, ready for rendering.
type Card struct {
	Entry    scan.Entry
	Title    string
	Type     string // filter type; must equal the matching tab identifier exactly
	Tags     []Tag
	priority int
}

// Primary reports whether the card is pinned by the priority list.
func (c Card) Primary() bool { return c.priority != unlisted }

// Classifier resolves titles, tags and types from the configured tables.
type Classifier struct {
	tables   config.TablesConfig
	priority map[string]int
	titler   cases.Caser
}

// New creates a classifier over the given tables.
func New(tables config.TablesConfig) *Classifier {
	prio := make(map[string]int, len(tables.Priority))
	for i, name := range tables.Priority {
		if _, seen := prio[name]; !seen {
			prio[name] = i
		}
	}
	return &Classifier{tables: tables, priority: prio, titler: cases.Title(language.English)}
}

// Classify produces the card for a single entry.
func (c *Classifier) Classify(e scan.Entry) Card {
	card := Card{
		Entry:    e,
		Type:     filterType(e),
		priority: unlisted,
	}
	if idx, ok := c.priority[e.Name]; ok && e.IsHTML() {
		card.priority = idx
	}

	if e.IsHTML() {
		card.Title = c.pageTitle(e.Name)
		card.Tags = []Tag{
			{Class: "tag-html", Label: "HTML"},
			{Class: "tag-category", Label: c.tables.CategoryTag},
		}
		if card.Primary() {
			card.Tags = append(card.Tags, Tag{Class: "tag-primary", Label: "Primary"})
		}
		return card
	}

	card.Title = c.fileTitle(e.Name)
	card.Tags = []Tag{c.fileTag(e.Extension)}
	return card
}

// ClassifyAll classifies every entry and returns the two sorted groups:
// HTML pages (priority order, then filename) and supporting files (filename).
func (c *Classifier) ClassifyAll(entries []scan.Entry) (pages, files []Card) {
	for _, e := range entries {
		card := c.Classify(e)
		if e.IsHTML() {
			pages = append(pages, card)
		} else {
			files = append(files, card)
		}
	}
	sort.SliceStable(pages, func(i, j int) bool {
		if pages[i].priority != pages[j].priority {
			return pages[i].priority < pages[j].priority
		}
		return pages[i].Entry.Name < pages[j].Entry.Name
	})
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Entry.Name < files[j].Entry.Name
	})
	return pages, files
}

// FilterTypes returns the distinct filter types across both groups, with
// "html" forced first when present and the rest in ascending order. Tab
// identifiers come from here; cards carry the same strings.
func FilterTypes(groups ...[]Card) []string {
	seen := map[string]struct{}{}
	for _, cards := range groups {
		for _, card := range cards {
			seen[card.Type] = struct{}{}
		}
	}
	var rest []string
	hasHTML := false
	for t := range seen {
		if t == "html" {
			hasHTML = true
			continue
		}
		rest = append(rest, t)
	}
	sort.Strings(rest)
	if hasHTML {
		return append([]string{"html"}, rest...)
	}
	return rest
}

func (c *Classifier) pageTitle(name string) string {
	if title, ok := c.tables.PageTitles[name]; ok {
		return title
	}
	stem := stemOf(name)
	if c.tables.ConventionPrefix != "" && strings.HasPrefix(stem, c.tables.ConventionPrefix) {
		return c.tables.ConventionLabel + c.humanize(strings.TrimPrefix(stem, c.tables.ConventionPrefix))
	}
	return c.humanize(stem)
}

func (c *Classifier) fileTitle(name string) string {
	if title, ok := c.tables.FileTitles[name]; ok {
		return title
	}
	return c.humanize(stemOf(name))
}

func (c *Classifier) fileTag(ext string) Tag {
	if tag, ok := c.tables.TagClasses[ext]; ok {
		return Tag(tag)
	}
	label := strings.ToUpper(ext)
	if label == "" {
		label = "FILE"
	}
	return Tag{Class: "tag-file", Label: label}
}

// humanize turns a filename stem into a display title: runs of underscores and
// hyphens become single spaces, then each word is title-cased.
func (c *Classifier) humanize(stem string) string {
	spaced := strings.Map(func(r rune) rune {
		if r == '_' || r == '-' {
			return ' '
		}
		return r
	}, stem)
	return c.titler.String(strings.Join(strings.Fields(spaced), " "))
}

func filterType(e scan.Entry) string {
	if e.Extension == "" {
		return TypeFile
	}
	return e.Extension
}

func stemOf(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
