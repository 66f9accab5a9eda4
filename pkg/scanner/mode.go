package scanner

// Lexical modes. Normal mode recognizes the full markup grammar. Inside
// <script>/<style> no markup or entities are recognized; inside
// <textarea>/<title> entities still decode but markup does not. Modes
// nest on a stack keyed by the tag that opened them.

type modeKind uint8

const (
	modeNormal modeKind = iota
	modeRawText
	modeRCDATA
)

func (m modeKind) String() string {
	switch m {
	case modeRawText:
		return "RawText"
	case modeRCDATA:
		return "RCDATA"
	default:
		return "Normal"
	}
}

type lexicalMode struct {
	kind modeKind
	tag  string // lowercase tag name that opened the mode
}

// rawTextTags holds the tag names whose content is scanned verbatim.
var rawTextTags = map[string]struct{}{
	"script": {},
	"style":  {},
}

// rcdataTags holds the tag names whose content decodes entities only.
var rcdataTags = map[string]struct{}{
	"textarea": {},
	"title":    {},
}

// htmlBlockTags is the set of tag names that start an HTML block when the
// opening tag sits at line start.
var htmlBlockTags = map[string]struct{}{
	"address": {}, "article": {}, "aside": {}, "blockquote": {},
	"body": {}, "details": {}, "dialog": {}, "div": {}, "dl": {},
	"fieldset": {}, "figure": {}, "footer": {}, "form": {}, "h1": {},
	"h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {}, "head": {},
	"header": {}, "hr": {}, "html": {}, "iframe": {}, "main": {},
	"nav": {}, "ol": {}, "p": {}, "pre": {}, "section": {},
	"summary": {}, "table": {}, "tbody": {}, "td": {}, "tfoot": {},
	"th": {}, "thead": {}, "tr": {}, "ul": {},
	"script": {}, "style": {}, "textarea": {}, "title": {},
}

func toLowerASCII(s string) string {
	lower := []byte(s)
	changed := false
	for i, c := range lower {
		if c >= 'A' && c <= 'Z' {
			lower[i] = c + 'a' - 'A'
			changed = true
		}
	}
	if !changed {
		return s
	}
	return string(lower)
}

// modeStack is the scanner's lexical mode stack. The zero value is a
// stack containing only Normal mode.
type modeStack struct {
	stack []lexicalMode
}

func (m *modeStack) current() lexicalMode {
	if len(m.stack) == 0 {
		return lexicalMode{kind: modeNormal}
	}
	return m.stack[len(m.stack)-1]
}

func (m *modeStack) push(kind modeKind, tag string) {
	m.stack = append(m.stack, lexicalMode{kind: kind, tag: toLowerASCII(tag)})
}

func (m *modeStack) pop() {
	if len(m.stack) > 0 {
		m.stack = m.stack[:len(m.stack)-1]
	}
}

func (m *modeStack) reset() {
	m.stack = m.stack[:0]
}

// clone returns an independent copy for checkpoints.
func (m *modeStack) clone() modeStack {
	if len(m.stack) == 0 {
		return modeStack{}
	}
	cp := make([]lexicalMode, len(m.stack))
	copy(cp, m.stack)
	return modeStack{stack: cp}
}

// modeForTag returns the mode a successfully parsed opening tag switches
// into, or modeNormal when the tag does not alter lexing.
func modeForTag(name string) modeKind {
	lower := toLowerASCII(name)
	if _, ok := rawTextTags[lower]; ok {
		return modeRawText
	}
	if _, ok := rcdataTags[lower]; ok {
		return modeRCDATA
	}
	return modeNormal
}

func isBlockLevelTag(name string) bool {
	_, ok := htmlBlockTags[toLowerASCII(name)]
	return ok
}
