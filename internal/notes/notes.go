// Package notes renders the optional markdown notes file shown in the gateway
// page header.
package notes

import (
	"bytes"
	"fmt"
	"os"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Render reads the markdown file at path and converts it to an HTML fragment.
// The fragment is embedded unescaped in the page, matching the trust model of
// the rest of the template: the notes file is the operator's own content.
func Render(path string) (string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read notes file: %w", err)
	}

	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert(source, &buf); err != nil {
		return "", fmt.Errorf("convert notes markdown: %w", err)
	}
	return buf.String(), nil
}
