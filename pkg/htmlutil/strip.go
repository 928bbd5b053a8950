// Package htmlutil reduces XHTML content documents to plain text.
package htmlutil

import (
	"html"
	"regexp"
	"strings"
)

var (
	tagPattern    = regexp.MustCompile(`<[^>]*>`)
	spacesPattern = regexp.MustCompile(`\s{2,}`)
)

// blockCloseTags are replaced with newlines before stripping so paragraph
// structure survives into the extracted text.
var blockCloseTags = []string{
	"</p>", "</div>", "<br>", "<br/>", "<br />",
	"</li>", "</h1>", "</h2>", "</h3>", "</h4>", "</h5>", "</h6>",
}

// StripTags removes all markup from a document and normalizes whitespace,
// keeping one newline per block-level break.
func StripTags(doc string) string {
	if doc == "" {
		return ""
	}

	result := doc
	for _, tag := range blockCloseTags {
		result = strings.ReplaceAll(result, tag, "\n")
		result = strings.ReplaceAll(result, strings.ToUpper(tag), "\n")
	}

	result = tagPattern.ReplaceAllString(result, "")
	result = strings.ReplaceAll(result, "&nbsp;", " ")
	result = html.UnescapeString(result)

	lines := strings.Split(result, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(spacesPattern.ReplaceAllString(line, " "))
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
