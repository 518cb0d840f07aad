package pbxproj

import (
	"fmt"
	"os"
	"strings"
)

// SyntaxError reports a malformed project file.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// ---------------------------------------------------------------------------
// Lexer
// ---------------------------------------------------------------------------

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokString
	tokComment
	tokLBrace
	tokRBrace
	tokLParen
	tokRParen
	tokEquals
	tokSemicolon
	tokComma
)

type token struct {
	kind tokenKind
	text string
	line int
}

func (t token) describe() string {
	switch t.kind {
	case tokEOF:
		return "end of file"
	case tokString:
		return fmt.Sprintf("%q", t.text)
	case tokComment:
		return "comment"
	}
	return fmt.Sprintf("%q", t.text)
}

var punct = map[byte]tokenKind{
	'{': tokLBrace,
	'}': tokRBrace,
	'(': tokLParen,
	')': tokRParen,
	'=': tokEquals,
	';': tokSemicolon,
	',': tokComma,
}

func lex(src string) ([]token, error) {
	var toks []token
	line := 1
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == '\n':
			line++
			i++
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case strings.HasPrefix(src[i:], "//"):
			end := strings.IndexByte(src[i:], '\n')
			if end < 0 {
				end = len(src) - i
			}
			i += end
		case strings.HasPrefix(src[i:], "/*"):
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return nil, &SyntaxError{Line: line, Msg: "unterminated comment"}
			}
			body := src[i+2 : i+2+end]
			toks = append(toks, token{kind: tokComment, text: strings.TrimSpace(body), line: line})
			line += strings.Count(body, "\n")
			i += end + 4
		case c == '"':
			j := i + 1
			for j < len(src) && src[j] != '"' {
				if src[j] == '\\' {
					j++
				}
				j++
			}
			if j >= len(src) {
				return nil, &SyntaxError{Line: line, Msg: "unterminated string"}
			}
			raw := src[i : j+1]
			toks = append(toks, token{kind: tokString, text: raw, line: line})
			line += strings.Count(raw, "\n")
			i = j + 1
		default:
			if kind, ok := punct[c]; ok {
				toks = append(toks, token{kind: kind, text: string(c), line: line})
				i++
				continue
			}
			j := i
			for j < len(src) && !isDelimiter(src[j]) && !strings.HasPrefix(src[j:], "/*") {
				j++
			}
			toks = append(toks, token{kind: tokString, text: src[i:j], line: line})
			i = j
		}
	}
	return append(toks, token{kind: tokEOF, line: line}), nil
}

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '"':
		return true
	}
	_, ok := punct[c]
	return ok
}

// ---------------------------------------------------------------------------
// Parser
// ---------------------------------------------------------------------------

type parser struct {
	toks []token
	pos  int
}

// peek returns the next non-comment token.
func (p *parser) peek() token {
	for p.toks[p.pos].kind == tokComment {
		p.pos++
	}
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.peek()
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind tokenKind, what string) error {
	if t := p.next(); t.kind != kind {
		return &SyntaxError{Line: t.line, Msg: fmt.Sprintf("expected %s, got %s", what, t.describe())}
	}
	return nil
}

// atom consumes a string token and the comment directly after it.
func (p *parser) atom() (*Atom, error) {
	t := p.next()
	if t.kind != tokString {
		return nil, &SyntaxError{Line: t.line, Msg: fmt.Sprintf("expected string, got %s", t.describe())}
	}
	a := &Atom{Raw: t.text}
	if p.toks[p.pos].kind == tokComment {
		a.Comment = p.toks[p.pos].text
		p.pos++
	}
	return a, nil
}

func (p *parser) value() (Value, error) {
	switch t := p.peek(); t.kind {
	case tokLBrace:
		return p.dict()
	case tokLParen:
		return p.array()
	case tokString:
		return p.atom()
	default:
		return nil, &SyntaxError{Line: t.line, Msg: fmt.Sprintf("expected value, got %s", t.describe())}
	}
}

func (p *parser) dict() (*Dict, error) {
	if err := p.expect(tokLBrace, "'{'"); err != nil {
		return nil, err
	}
	d := &Dict{}
	for p.peek().kind != tokRBrace {
		key, err := p.atom()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokEquals, "'='"); err != nil {
			return nil, err
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokSemicolon, "';'"); err != nil {
			return nil, err
		}
		d.Entries = append(d.Entries, &Entry{Key: key, Value: v})
	}
	p.next()
	return d, nil
}

func (p *parser) array() (*Array, error) {
	if err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}
	a := &Array{}
	for p.peek().kind != tokRParen {
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		a.Items = append(a.Items, v)
		if p.peek().kind == tokComma {
			p.next()
			continue
		}
		if t := p.peek(); t.kind != tokRParen {
			return nil, &SyntaxError{Line: t.line, Msg: fmt.Sprintf("expected ',' or ')', got %s", t.describe())}
		}
	}
	p.next()
	return a, nil
}

// ---------------------------------------------------------------------------
// Entry points
// ---------------------------------------------------------------------------

// ParseFile reads and parses a project.pbxproj file.
func ParseFile(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	proj, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return proj, nil
}

// Parse parses project descriptor content.
func Parse(data []byte) (*Project, error) {
	src := string(data)

	var header string
	if strings.HasPrefix(src, "//") {
		header, _, _ = strings.Cut(src, "\n")
		header = strings.TrimRight(header, "\r")
	}

	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	root, err := p.dict()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, &SyntaxError{Line: t.line, Msg: fmt.Sprintf("unexpected %s after root dictionary", t.describe())}
	}

	if _, ok := root.Get("objects").(*Dict); !ok {
		return nil, &SyntaxError{Line: 1, Msg: "missing objects dictionary"}
	}

	return &Project{Header: header, Root: root}, nil
}
