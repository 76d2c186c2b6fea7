package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahmood726-cyber/Metasprint/internal/config"
	"github.com/mahmood726-cyber/Metasprint/internal/scan"
)

func testTables() config.TablesConfig {
	return config.TablesConfig{
		PageTitles: map[string]string{
			"meta-sprint-nma-v3.html": "Meta-sprint: Network Meta-Analysis",
		},
		FileTitles: map[string]string{
			"test_metasprint.py": "Meta-sprint Tests",
		},
		TagClasses: map[string]config.TagClass{
			"md":  {Class: "tag-md", Label: "MD"},
			"py":  {Class: "tag-py", Label: "PY"},
			"png": {Class: "tag-png", Label: "PNG"},
		},
		Priority:         []string{"meta-sprint-nma-v3.html"},
		ConventionPrefix: "meta-sprint-",
		ConventionLabel:  "Meta-sprint: ",
		CategoryTag:      "Report",
	}
}

func entry(name string) scan.Entry {
	e := scan.Entry{Name: name, Path: "/project/" + name}
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			e.Extension = name[i+1:]
			break
		}
	}
	return e
}

func TestPageTitleFromMap(t *testing.T) {
	c := New(testTables())
	card := c.Classify(entry("meta-sprint-nma-v3.html"))
	assert.Equal(t, "Meta-sprint: Network Meta-Analysis", card.Title)
	assert.True(t, card.Primary())
}

func TestPageTitleConventionFallback(t *testing.T) {
	c := New(testTables())
	card := c.Classify(entry("meta-sprint-zzz-v1.html"))
	assert.Equal(t, "Meta-sprint: Zzz V1", card.Title)
	assert.False(t, card.Primary())
}

func TestPageTitlePlainHumanization(t *testing.T) {
	c := New(testTables())
	card := c.Classify(entry("final_report-draft.html"))
	assert.Equal(t, "Final Report Draft", card.Title)
}

func TestFileTitleFromMapAndFallback(t *testing.T) {
	c := New(testTables())

	mapped := c.Classify(entry("test_metasprint.py"))
	assert.Equal(t, "Meta-sprint Tests", mapped.Title)

	derived := c.Classify(entry("MAJOR_IMPROVEMENTS.md"))
	assert.Equal(t, "Major Improvements", derived.Title)
}

func TestHTMLTags(t *testing.T) {
	c := New(testTables())

	primary := c.Classify(entry("meta-sprint-nma-v3.html"))
	require.Len(t, primary.Tags, 3)
	assert.Equal(t, "HTML", primary.Tags[0].Label)
	assert.Equal(t, "Report", primary.Tags[1].Label)
	assert.Equal(t, "Primary", primary.Tags[2].Label)

	regular := c.Classify(entry("meta-sprint-zzz-v1.html"))
	require.Len(t, regular.Tags, 2)
}

func TestSupportingTags(t *testing.T) {
	c := New(testTables())

	md := c.Classify(entry("MAJOR_IMPROVEMENTS.md"))
	require.Len(t, md.Tags, 1)
	assert.Equal(t, Tag{Class: "tag-md", Label: "MD"}, md.Tags[0])

	unknown := c.Classify(entry("results.csv"))
	require.Len(t, unknown.Tags, 1)
	assert.Equal(t, Tag{Class: "tag-file", Label: "CSV"}, unknown.Tags[0])
}

func TestExtensionlessFile(t *testing.T) {
	c := New(testTables())
	card := c.Classify(scan.Entry{Name: "Makefile", Path: "/project/Makefile"})
	assert.Equal(t, TypeFile, card.Type)
	require.Len(t, card.Tags, 1)
	assert.Equal(t, "FILE", card.Tags[0].Label)
}

func TestClassifyAllOrdering(t *testing.T) {
	c := New(testTables())
	entries := []scan.Entry{
		entry("test_metasprint.py"),
		entry("meta-sprint-zzz-v1.html"),
		entry("MAJOR_IMPROVEMENTS.md"),
		entry("meta-sprint-nma-v3.html"),
	}

	pages, files := c.ClassifyAll(entries)

	require.Len(t, pages, 2)
	assert.Equal(t, "meta-sprint-nma-v3.html", pages[0].Entry.Name)
	assert.Equal(t, "meta-sprint-zzz-v1.html", pages[1].Entry.Name)

	require.Len(t, files, 2)
	assert.Equal(t, "MAJOR_IMPROVEMENTS.md", files[0].Entry.Name)
	assert.Equal(t, "test_metasprint.py", files[1].Entry.Name)
}

func TestPriorityBeforeAlphabetical(t *testing.T) {
	tables := testTables()
	tables.Priority = []string{"zzz.html", "aaa.html"}
	c := New(tables)

	pages, _ := c.ClassifyAll([]scan.Entry{
		entry("aaa.html"),
		entry("bbb.html"),
		entry("zzz.html"),
	})

	require.Len(t, pages, 3)
	// Listed files keep list order, unlisted ones follow alphabetically.
	assert.Equal(t, "zzz.html", pages[0].Entry.Name)
	assert.Equal(t, "aaa.html", pages[1].Entry.Name)
	assert.Equal(t, "bbb.html", pages[2].Entry.Name)
}

func TestFilterTypes(t *testing.T) {
	c := New(testTables())
	pages, files := c.ClassifyAll([]scan.Entry{
		entry("report.html"),
		entry("notes.md"),
		entry("model.py"),
	})

	assert.Equal(t, []string{"html", "md", "py"}, FilterTypes(pages, files))
}

func TestFilterTypesWithoutHTML(t *testing.T) {
	c := New(testTables())
	pages, files := c.ClassifyAll([]scan.Entry{
		entry("notes.md"),
		{Name: "Makefile", Path: "/project/Makefile"},
	})

	assert.Equal(t, []string{"file", "md"}, FilterTypes(pages, files))
}

func TestTabIdentifierMatchesCardType(t *testing.T) {
	c := New(testTables())
	pages, files := c.ClassifyAll([]scan.Entry{
		entry("report.html"),
		entry("chart.png"),
	})

	types := map[string]struct{}{}
	for _, ft := range FilterTypes(pages, files) {
		types[ft] = struct{}{}
	}
	for _, card := range append(pages, files...) {
		_, ok := types[card.Type]
		assert.True(t, ok, "card type %q must have a matching tab", card.Type)
	}
}
