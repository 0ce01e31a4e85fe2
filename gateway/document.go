package gateway

import (
	"fmt"
	"strings"
)

// The gate only needs the root fields of the operation that will execute,
// so this reads executable GraphQL documents down to that level and skips
// everything below it: arguments, variable definitions, directives and
// nested selection sets.

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokPunct
	tokName
	tokValue
)

type token struct {
	kind tokenKind
	text string
}

const punctuators = "!$&():=@[]{}|"

func lex(src string) ([]token, error) {
	var toks []token
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == ',':
			i++
		case strings.HasPrefix(src[i:], "\ufeff"):
			i += len("\ufeff")
		case c == '#':
			for i < len(src) && src[i] != '\n' && src[i] != '\r' {
				i++
			}
		case c == '.':
			if !strings.HasPrefix(src[i:], "...") {
				return nil, fmt.Errorf("unexpected '.' at offset %d", i)
			}
			toks = append(toks, token{tokPunct, "..."})
			i += 3
		case strings.IndexByte(punctuators, c) >= 0:
			toks = append(toks, token{tokPunct, string(c)})
			i++
		case isNameStart(c):
			j := i + 1
			for j < len(src) && (isNameStart(src[j]) || isDigit(src[j])) {
				j++
			}
			toks = append(toks, token{tokName, src[i:j]})
			i = j
		case c == '-' || isDigit(c):
			j := i + 1
			for j < len(src) && (isDigit(src[j]) || strings.IndexByte(".eE+-", src[j]) >= 0) {
				j++
			}
			toks = append(toks, token{tokValue, src[i:j]})
			i = j
		case c == '"':
			j, err := skipString(src, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{tokValue, src[i:j]})
			i = j
		default:
			return nil, fmt.Errorf("unexpected character %q at offset %d", c, i)
		}
	}
	return append(toks, token{kind: tokEOF}), nil
}

// skipString returns the offset just past the string literal at src[i].
func skipString(src string, i int) (int, error) {
	if strings.HasPrefix(src[i:], `"""`) {
		for j := i + 3; j < len(src); j++ {
			if strings.HasPrefix(src[j:], `\"""`) {
				j += 3
				continue
			}
			if strings.HasPrefix(src[j:], `"""`) {
				return j + 3, nil
			}
		}
		return 0, fmt.Errorf("unterminated block string at offset %d", i)
	}
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case '"':
			return j + 1, nil
		case '\n', '\r':
			return 0, fmt.Errorf("line break in string at offset %d", j)
		}
	}
	return 0, fmt.Errorf("unterminated string at offset %d", i)
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// selection is one root-level entry: a field, a fragment spread or an
// inline fragment.
type selection struct {
	field  string
	spread string
	inline []selection
}

type operationDef struct {
	kind string
	name string
	sel  []selection
}

type document struct {
	operations []operationDef
	fragments  map[string][]selection
}

type parser struct {
	toks []token
	pos  int
}

func parseDocument(src string) (*document, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	doc := &document{fragments: make(map[string][]selection)}
	for p.peek().kind != tokEOF {
		if err := p.definition(doc); err != nil {
			return nil, err
		}
	}
	if len(doc.operations) == 0 {
		return nil, fmt.Errorf("document has no operation")
	}
	return doc, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) is(kind tokenKind, text string) bool {
	t := p.peek()
	return t.kind == kind && t.text == text
}

func (p *parser) expect(kind tokenKind, text string) error {
	t := p.next()
	if t.kind != kind || (text != "" && t.text != text) {
		return fmt.Errorf("expected %q, got %q", text, t.text)
	}
	return nil
}

func (p *parser) name() (string, error) {
	t := p.next()
	if t.kind != tokName {
		return "", fmt.Errorf("expected a name, got %q", t.text)
	}
	return t.text, nil
}

func (p *parser) definition(doc *document) error {
	if p.is(tokPunct, "{") {
		sel, err := p.selectionSet()
		if err != nil {
			return err
		}
		doc.operations = append(doc.operations, operationDef{kind: "query", sel: sel})
		return nil
	}

	keyword, err := p.name()
	if err != nil {
		return err
	}
	switch keyword {
	case "query", "mutation", "subscription":
		op := operationDef{kind: keyword}
		if p.peek().kind == tokName {
			op.name = p.next().text
		}
		if p.is(tokPunct, "(") {
			if err := p.skipBalanced("(", ")"); err != nil {
				return err
			}
		}
		if err := p.directives(); err != nil {
			return err
		}
		if op.sel, err = p.selectionSet(); err != nil {
			return err
		}
		doc.operations = append(doc.operations, op)
		return nil
	case "fragment":
		name, err := p.name()
		if err != nil {
			return err
		}
		if name == "on" {
			return fmt.Errorf("fragment cannot be named \"on\"")
		}
		if _, dup := doc.fragments[name]; dup {
			return fmt.Errorf("fragment %q defined twice", name)
		}
		if err := p.expect(tokName, "on"); err != nil {
			return err
		}
		if _, err := p.name(); err != nil {
			return err
		}
		if err := p.directives(); err != nil {
			return err
		}
		sel, err := p.selectionSet()
		if err != nil {
			return err
		}
		doc.fragments[name] = sel
		return nil
	}
	return fmt.Errorf("unsupported definition %q", keyword)
}

func (p *parser) selectionSet() ([]selection, error) {
	if err := p.expect(tokPunct, "{"); err != nil {
		return nil, err
	}
	var out []selection
	for !p.is(tokPunct, "}") {
		if p.peek().kind == tokEOF {
			return nil, fmt.Errorf("unterminated selection set")
		}
		s, err := p.selection()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	p.next()
	if len(out) == 0 {
		return nil, fmt.Errorf("empty selection set")
	}
	return out, nil
}

func (p *parser) selection() (selection, error) {
	if p.is(tokPunct, "...") {
		p.next()
		if t := p.peek(); t.kind == tokName && t.text != "on" {
			p.next()
			return selection{spread: t.text}, p.directives()
		}
		if p.is(tokName, "on") {
			p.next()
			if _, err := p.name(); err != nil {
				return selection{}, err
			}
		}
		if err := p.directives(); err != nil {
			return selection{}, err
		}
		sel, err := p.selectionSet()
		return selection{inline: sel}, err
	}

	field, err := p.name()
	if err != nil {
		return selection{}, err
	}
	if p.is(tokPunct, ":") {
		p.next()
		if field, err = p.name(); err != nil {
			return selection{}, err
		}
	}
	if p.is(tokPunct, "(") {
		if err := p.skipBalanced("(", ")"); err != nil {
			return selection{}, err
		}
	}
	if err := p.directives(); err != nil {
		return selection{}, err
	}
	if p.is(tokPunct, "{") {
		if err := p.skipBalanced("{", "}"); err != nil {
			return selection{}, err
		}
	}
	return selection{field: field}, nil
}

func (p *parser) directives() error {
	for p.is(tokPunct, "@") {
		p.next()
		if _, err := p.name(); err != nil {
			return err
		}
		if p.is(tokPunct, "(") {
			if err := p.skipBalanced("(", ")"); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *parser) skipBalanced(left, right string) error {
	if err := p.expect(tokPunct, left); err != nil {
		return err
	}
	for depth := 1; depth > 0; {
		t := p.next()
		switch {
		case t.kind == tokEOF:
			return fmt.Errorf("missing %q", right)
		case t.kind == tokPunct && t.text == left:
			depth++
		case t.kind == tokPunct && t.text == right:
			depth--
		}
	}
	return nil
}

// operation picks the operation a server would execute: the one called
// name, or the only one when name is empty.
func (d *document) operation(name string) (operationDef, error) {
	if name == "" {
		if len(d.operations) != 1 {
			return operationDef{}, fmt.Errorf("operationName is required for a document with %d operations", len(d.operations))
		}
		return d.operations[0], nil
	}
	for _, op := range d.operations {
		if op.name == name {
			return op, nil
		}
	}
	return operationDef{}, fmt.Errorf("no operation named %q", name)
}

// rootFields lists the field names selected at the root of op, with
// fragments expanded. Aliases are resolved to the field they select.
func (d *document) rootFields(op operationDef) ([]string, error) {
	var fields []string
	var walk func(sel []selection, visiting map[string]bool) error
	walk = func(sel []selection, visiting map[string]bool) error {
		for _, s := range sel {
			switch {
			case s.field != "":
				fields = append(fields, s.field)
			case s.spread != "":
				frag, ok := d.fragments[s.spread]
				if !ok {
					return fmt.Errorf("unknown fragment %q", s.spread)
				}
				if visiting[s.spread] {
					return fmt.Errorf("fragment %q spreads itself", s.spread)
				}
				visiting[s.spread] = true
				if err := walk(frag, visiting); err != nil {
					return err
				}
				delete(visiting, s.spread)
			default:
				if err := walk(s.inline, visiting); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(op.sel, make(map[string]bool)); err != nil {
		return nil, err
	}
	return fields, nil
}
