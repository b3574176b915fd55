// Package ddl extracts CREATE TABLE statements from SQL DDL text.
//
// The text is split into a token arena and walked with an index cursor.
// Parenthesis depth is tracked explicitly, so default expressions and type
// modifiers such as numeric(10,2) or DEFAULT nextval('seq'::regclass) stay
// inside their column definition.
package ddl

import "strings"

// Table is one CREATE TABLE statement.
type Table struct {
	Name    string   // last segment of the (possibly qualified) name, unquoted
	Columns []string // column definitions, constraint clauses removed
}

// Extract returns every CREATE TABLE statement in src, in source order.
// Statements whose column list never closes are dropped. Extract never fails;
// text without CREATE TABLE yields an empty slice.
func Extract(src string) []Table {
	p := &parser{tokens: tokenize(src)}
	tables := []Table{}

	for p.pos < len(p.tokens) {
		if !p.atKeyword("CREATE") {
			p.pos++
			continue
		}
		start := p.pos
		if t, ok := p.parseCreateTable(); ok {
			tables = append(tables, t)
			continue
		}
		if p.pos <= start {
			p.pos = start + 1
		}
	}

	return tables
}

// ---------------------------------------------------------------------------
// Parser
// ---------------------------------------------------------------------------

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peekAt(offset int) *token {
	if i := p.pos + offset; i < len(p.tokens) {
		return &p.tokens[i]
	}
	return nil
}

func (p *parser) atKeyword(kw string) bool {
	tok := p.peekAt(0)
	return tok != nil && tok.typ == tokIdent && strings.EqualFold(tok.text, kw)
}

func (p *parser) acceptKeyword(kws ...string) bool {
	for _, kw := range kws {
		if p.atKeyword(kw) {
			p.pos++
			return true
		}
	}
	return false
}

// parseCreateTable parses from CREATE through the closing parenthesis of the
// column list. On failure the cursor is left where parsing stopped.
func (p *parser) parseCreateTable() (Table, bool) {
	p.pos++ // CREATE

	if p.acceptKeyword("OR") && !p.acceptKeyword("REPLACE") {
		return Table{}, false
	}
	p.acceptKeyword("GLOBAL", "LOCAL")
	p.acceptKeyword("TEMP", "TEMPORARY", "UNLOGGED")
	if !p.acceptKeyword("TABLE") {
		return Table{}, false
	}
	if p.acceptKeyword("IF") {
		if !p.acceptKeyword("NOT") || !p.acceptKeyword("EXISTS") {
			return Table{}, false
		}
	}

	name, ok := p.parseQualifiedName()
	if !ok {
		return Table{}, false
	}

	open := p.pos
	if tok := p.peekAt(0); tok == nil || tok.typ != tokLParen {
		return Table{}, false
	}
	closing, ok := p.matchParen(open)
	if !ok {
		// Resume after the statement terminator, if any, so later
		// statements are still seen.
		p.pos = closing
		return Table{}, false
	}

	t := Table{Name: name, Columns: p.splitColumns(open+1, closing)}
	p.pos = closing + 1
	return t, true
}

// parseQualifiedName reads name(.name)* and returns the last segment unquoted.
func (p *parser) parseQualifiedName() (string, bool) {
	var last string
	for {
		tok := p.peekAt(0)
		if tok == nil || (tok.typ != tokIdent && tok.typ != tokQuoted) {
			return "", false
		}
		last = unquoteIdent(tok.text)
		p.pos++

		if dot := p.peekAt(0); dot == nil || dot.typ != tokDot {
			break
		}
		p.pos++
	}
	return last, last != ""
}

// matchParen returns the index of the parenthesis closing the one at open.
// A statement terminator or the end of input before the match fails; the
// returned index is then where scanning should resume.
func (p *parser) matchParen(open int) (int, bool) {
	depth := 0
	for i := open; i < len(p.tokens); i++ {
		switch p.tokens[i].typ {
		case tokLParen:
			depth++
		case tokRParen:
			depth--
			if depth == 0 {
				return i, true
			}
		case tokSemicolon:
			return i + 1, false
		}
	}
	return len(p.tokens), false
}

// splitColumns splits tokens[from:to] at depth-0 commas and returns the
// column definitions, skipping table-level constraint clauses.
func (p *parser) splitColumns(from, to int) []string {
	var cols []string
	depth := 0
	segStart := from

	flush := func(end int) {
		seg := p.tokens[segStart:end]
		if len(seg) > 0 && !isConstraintClause(seg) {
			cols = append(cols, p.join(seg))
		}
	}

	for i := from; i < to; i++ {
		switch p.tokens[i].typ {
		case tokLParen:
			depth++
		case tokRParen:
			depth--
		case tokComma:
			if depth == 0 {
				flush(i)
				segStart = i + 1
			}
		}
	}
	flush(to)

	return cols
}

// join rebuilds source text from consecutive tokens. Any gap between two
// tokens (whitespace or a comment) becomes one space.
func (p *parser) join(seg []token) string {
	var b strings.Builder
	for i, tok := range seg {
		if i > 0 && tok.pos > seg[i-1].end {
			b.WriteByte(' ')
		}
		b.WriteString(tok.text)
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// isConstraintClause reports whether a column-list entry is a table-level
// constraint or index rather than a column.
func isConstraintClause(seg []token) bool {
	if seg[0].typ != tokIdent {
		return false
	}
	kw := strings.ToUpper(seg[0].text)
	next := func(i int) *token {
		if i < len(seg) {
			return &seg[i]
		}
		return nil
	}
	isParen := func(t *token) bool { return t != nil && t.typ == tokLParen }
	isKw := func(t *token, kws ...string) bool {
		if t == nil || t.typ != tokIdent {
			return false
		}
		for _, kw := range kws {
			if strings.EqualFold(t.text, kw) {
				return true
			}
		}
		return false
	}

	switch kw {
	case "CONSTRAINT", "LIKE":
		return true
	case "PRIMARY", "FOREIGN":
		return isKw(next(1), "KEY")
	case "EXCLUDE":
		return isParen(next(1)) || isKw(next(1), "USING")
	case "UNIQUE", "CHECK":
		return isParen(next(1)) || isKw(next(1), "KEY", "INDEX")
	case "FULLTEXT", "SPATIAL":
		if isKw(next(1), "KEY", "INDEX") {
			return true
		}
		fallthrough
	case "INDEX", "KEY":
		if isParen(next(1)) {
			return true
		}
		// KEY idx_name (col, ...) versus a column named "key" with a
		// parameterized type such as "key varchar(32)".
		name, paren, first := next(1), next(2), next(3)
		if name == nil || (name.typ != tokIdent && name.typ != tokQuoted) || !isParen(paren) {
			return false
		}
		return first != nil && first.typ != tokNumber
	}
	return false
}

// unquoteIdent strips one level of identifier quoting.
func unquoteIdent(s string) string {
	if len(s) < 2 {
		return s
	}
	switch first, last := s[0], s[len(s)-1]; {
	case first == '"' && last == '"':
		return strings.ReplaceAll(s[1:len(s)-1], `""`, `"`)
	case first == '`' && last == '`':
		return strings.ReplaceAll(s[1:len(s)-1], "``", "`")
	case first == '[' && last == ']':
		return s[1 : len(s)-1]
	}
	return s
}
