// Package frontmatter splits a document into its YAML front matter block
// and body. The block is delimited by "---" fence lines, the opening
// fence on the very first line. Detection runs on the scanner's token
// stream rather than on raw lines, so indented dashes, list bullets and
// thematic breaks inside the body never masquerade as fences.
package frontmatter

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/gomdscan/pkg/scanner"
)

// Document is the result of splitting a source buffer.
type Document struct {
	// Present reports whether a complete front matter block was found.
	Present bool

	// Raw holds the bytes between the fences, excluding the fence lines.
	// Nil when Present is false.
	Raw []byte

	// Body holds the content after the closing fence, or the whole
	// buffer when no front matter is present.
	Body []byte

	// BodyOffset is the byte offset of Body within the original buffer.
	BodyOffset int
}

// Split locates the front matter block in src. A document without an
// opening fence on line one, or with an unterminated block, is returned
// whole as Body.
func Split(src []byte) Document {
	whole := Document{Body: src}

	s := scanner.New()
	s.SetText(src)

	if s.Scan() != scanner.TokDashDashDash || s.TokenStart() != 0 {
		return whole
	}

	// Skip to the end of the opening fence line.
	for {
		switch s.Scan() {
		case scanner.TokNewline:
		case scanner.TokEndOfFile:
			return whole
		default:
			continue
		}
		break
	}
	rawStart := s.TokenEnd()

	for {
		kind := s.Scan()
		if kind == scanner.TokEndOfFile {
			return whole
		}
		if kind != scanner.TokDashDashDash || !s.TokenFlags().Has(scanner.FlagAtLineStart) {
			continue
		}

		rawEnd := s.TokenStart()
		bodyStart := s.TokenEnd()
		if s.Scan() == scanner.TokNewline {
			bodyStart = s.TokenEnd()
		}
		return Document{
			Present:    true,
			Raw:        src[rawStart:rawEnd],
			Body:       src[bodyStart:],
			BodyOffset: bodyStart,
		}
	}
}

// Decode splits src and unmarshals the front matter block into out. A
// document without front matter decodes nothing and is not an error.
func Decode(src []byte, out any) (Document, error) {
	doc := Split(src)
	if !doc.Present {
		return doc, nil
	}
	if err := yaml.Unmarshal(doc.Raw, out); err != nil {
		return doc, fmt.Errorf("frontmatter: decode: %w", err)
	}
	return doc, nil
}
