// Package langinfo resolves fenced-code language information. Tag
// canonicalizes a fence info string to a lowercase language tag, and
// Detect guesses the language of fence content when no info string is
// present. Both lean on go-enry's alias table and classifier.
package langinfo

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// DefaultTag is returned when nothing more specific can be determined.
const DefaultTag = "text"

// classifierCandidates bounds Detect's classifier pass to languages that
// commonly appear in fenced blocks.
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

// Tag canonicalizes a fence info string: the first word, lowercased,
// with aliases resolved through go-enry ("golang" and "go" both yield
// "go"). Trailing attributes after the first word are ignored. An empty
// info string yields the empty tag.
func Tag(info string) string {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return ""
	}
	word := strings.ToLower(fields[0])
	if lang, ok := enry.GetLanguageByAlias(word); ok {
		return normalize(lang)
	}
	return word
}

// Detect guesses the language of code content. It returns DefaultTag
// when the content is empty or no guess reaches useful confidence.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return DefaultTag
	}

	// A shebang names the language outright.
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	// A Go file always opens with its package clause, which the
	// classifier routinely confuses with prose.
	if bytes.HasPrefix(bytes.TrimSpace(content), []byte("package ")) {
		return "go"
	}

	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return normalize(lang)
	}
	return DefaultTag
}

// normalize converts a go-enry language name to the tag form used in
// fence info strings.
func normalize(lang string) string {
	if lang == "Shell" {
		return "bash"
	}
	return strings.ToLower(lang)
}
