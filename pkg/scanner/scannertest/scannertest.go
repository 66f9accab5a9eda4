// Package scannertest runs annotated-text conformance cases against a
// live scanner. A case holds an input block and an expected-token block:
//
//	--- input
//	# Title
//	--- tokens
//	@0 Hash "#" AtLineStart Run=1
//	@1 Whitespace " "
//	@2 StringLiteral "Title"
//	@7 EndOfFile ""
//
// Each assertion line is "@offset Kind "text" [flag,flag] [Run=N]".
// Offsets are absolute byte offsets into the input. Flags assert presence
// only: extra flags on the scanned token do not fail the case, so cases
// state exactly the facts they care about.
package scannertest

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdscan/pkg/scanner"
)

const (
	inputHeader  = "--- input"
	tokensHeader = "--- tokens"
)

// Expectation is one parsed token assertion.
type Expectation struct {
	Offset    int
	Kind      scanner.TokenKind
	Text      string
	Flags     scanner.TokenFlags
	RunLength int
	HasRun    bool
}

// Case is one parsed conformance case.
type Case struct {
	Input        string
	Expectations []Expectation
}

// Parse reads a conformance case from its annotated-text form. The input
// block is taken verbatim between the two headers, minus the final line
// terminator that separates it from the tokens header.
func Parse(text string) (*Case, error) {
	inputStart := strings.Index(text, inputHeader)
	if inputStart < 0 {
		return nil, fmt.Errorf("scannertest: missing %q header", inputHeader)
	}
	tokensStart := strings.Index(text, tokensHeader)
	if tokensStart < 0 {
		return nil, fmt.Errorf("scannertest: missing %q header", tokensHeader)
	}
	if tokensStart < inputStart {
		return nil, fmt.Errorf("scannertest: %q must precede %q", inputHeader, tokensHeader)
	}

	input := text[inputStart+len(inputHeader) : tokensStart]
	input = strings.TrimPrefix(input, "\n")
	input = strings.TrimSuffix(input, "\n")

	c := &Case{Input: input}
	for lineNo, line := range strings.Split(text[tokensStart+len(tokensHeader):], "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		exp, err := parseExpectation(line)
		if err != nil {
			return nil, fmt.Errorf("scannertest: tokens line %d: %w", lineNo+1, err)
		}
		c.Expectations = append(c.Expectations, exp)
	}
	if len(c.Expectations) == 0 {
		return nil, fmt.Errorf("scannertest: no token assertions")
	}
	return c, nil
}

func parseExpectation(line string) (Expectation, error) {
	var exp Expectation

	if !strings.HasPrefix(line, "@") {
		return exp, fmt.Errorf("assertion must start with @offset: %q", line)
	}
	rest := line[1:]
	space := strings.IndexByte(rest, ' ')
	if space < 0 {
		return exp, fmt.Errorf("missing kind: %q", line)
	}
	offset, err := strconv.Atoi(rest[:space])
	if err != nil {
		return exp, fmt.Errorf("bad offset %q: %w", rest[:space], err)
	}
	exp.Offset = offset
	rest = rest[space+1:]

	space = strings.IndexByte(rest, ' ')
	kindName := rest
	if space >= 0 {
		kindName = rest[:space]
		rest = rest[space+1:]
	} else {
		rest = ""
	}
	kind, ok := scanner.KindByName(kindName)
	if !ok {
		return exp, fmt.Errorf("unknown token kind %q", kindName)
	}
	exp.Kind = kind

	text, rest, err := parseQuoted(rest)
	if err != nil {
		return exp, err
	}
	exp.Text = text

	for _, field := range strings.FieldsFunc(rest, func(r rune) bool {
		return r == ' ' || r == ','
	}) {
		if n, ok := strings.CutPrefix(field, "Run="); ok {
			length, err := strconv.Atoi(n)
			if err != nil {
				return exp, fmt.Errorf("bad run length %q: %w", field, err)
			}
			exp.RunLength = length
			exp.HasRun = true
			continue
		}
		flag, ok := scanner.FlagByName(field)
		if !ok {
			return exp, fmt.Errorf("unknown flag %q", field)
		}
		exp.Flags |= flag
	}
	return exp, nil
}

// parseQuoted reads a leading Go-quoted string and returns it with the
// remainder of the line.
func parseQuoted(s string) (string, string, error) {
	if s == "" || s[0] != '"' {
		return "", "", fmt.Errorf("missing quoted text in %q", s)
	}
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			text, err := strconv.Unquote(s[:i+1])
			if err != nil {
				return "", "", fmt.Errorf("bad quoted text %q: %w", s[:i+1], err)
			}
			return text, strings.TrimSpace(s[i+1:]), nil
		}
	}
	return "", "", fmt.Errorf("unterminated quoted text in %q", s)
}

// Run scans the case input and checks every assertion in order. The
// scanned stream must contain exactly as many tokens as the case asserts.
func Run(t *testing.T, text string, opts ...scanner.Option) {
	t.Helper()

	c, err := Parse(text)
	require.NoError(t, err)
	RunCase(t, c, opts...)
}

// RunCase runs an already-parsed case.
func RunCase(t *testing.T, c *Case, opts ...scanner.Option) {
	t.Helper()

	s := scanner.New(opts...)
	s.SetText([]byte(c.Input))

	for i, exp := range c.Expectations {
		kind := s.Scan()
		require.Equal(t, exp.Kind, kind,
			"token %d: kind mismatch at offset %d (got %s %q)", i, s.TokenStart(), kind, s.TokenText())
		require.Equal(t, exp.Offset, s.TokenStart(), "token %d (%s): start offset", i, kind)
		require.Equal(t, exp.Text, s.TokenText(), "token %d (%s): text", i, kind)

		flags := s.TokenFlags()
		require.True(t, flags.Has(exp.Flags),
			"token %d (%s): flags %s missing from %s", i, kind, exp.Flags, flags)
		if exp.HasRun {
			require.Equal(t, exp.RunLength, flags.RunLength(), "token %d (%s): run length", i, kind)
		}

		if exp.Kind == scanner.TokEndOfFile {
			require.Equal(t, len(c.Expectations)-1, i, "EndOfFile before last assertion")
			return
		}
	}
	require.Equal(t, scanner.TokEndOfFile, s.Scan(), "stream has tokens beyond the last assertion")
}
