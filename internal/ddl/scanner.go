package ddl

import "strings"

// ---------------------------------------------------------------------------
// Token types
// ---------------------------------------------------------------------------

type tokenType int

const (
	tokIdent  tokenType = iota // bare word, keywords included
	tokQuoted                  // "ident", `ident` or [ident]
	tokString                  // 'text' or $tag$text$tag$
	tokNumber
	tokLParen
	tokRParen
	tokComma
	tokSemicolon
	tokDot
	tokSymbol // any other punctuation
)

type token struct {
	typ  tokenType
	text string // source text, quotes included
	pos  int    // byte offset of the first character
	end  int    // byte offset one past the last character
}

// ---------------------------------------------------------------------------
// Tokenizer
// ---------------------------------------------------------------------------

// tokenize splits src into tokens. Whitespace and comments are dropped.
// Unterminated strings, quoted identifiers and block comments run to the end
// of the input; tokenize never fails.
func tokenize(src string) []token {
	var tokens []token
	n := len(src)
	i := 0

	emit := func(typ tokenType, start, end int) {
		tokens = append(tokens, token{typ: typ, text: src[start:end], pos: start, end: end})
	}

	for i < n {
		ch := src[i]

		switch {
		case isSpace(ch):
			i++
			continue

		case ch == '-' && i+1 < n && src[i+1] == '-':
			// Line comment.
			if nl := strings.IndexByte(src[i:], '\n'); nl >= 0 {
				i += nl + 1
			} else {
				i = n
			}
			continue

		case ch == '/' && i+1 < n && src[i+1] == '*':
			// Block comment.
			if end := strings.Index(src[i+2:], "*/"); end >= 0 {
				i += end + 4
			} else {
				i = n
			}
			continue
		}

		start := i
		switch {
		case ch == '(':
			i++
			emit(tokLParen, start, i)
		case ch == ')':
			i++
			emit(tokRParen, start, i)
		case ch == ',':
			i++
			emit(tokComma, start, i)
		case ch == ';':
			i++
			emit(tokSemicolon, start, i)
		case ch == '.' && !(i+1 < n && isDigit(src[i+1])):
			i++
			emit(tokDot, start, i)

		case ch == '\'':
			i = scanQuoted(src, i, '\'')
			emit(tokString, start, i)
		case ch == '"':
			i = scanQuoted(src, i, '"')
			emit(tokQuoted, start, i)
		case ch == '`':
			i = scanQuoted(src, i, '`')
			emit(tokQuoted, start, i)
		case ch == '[':
			if end := strings.IndexByte(src[i:], ']'); end >= 0 {
				i += end + 1
			} else {
				i = n
			}
			emit(tokQuoted, start, i)

		case ch == '$':
			if end, ok := scanDollarQuoted(src, i); ok {
				i = end
				emit(tokString, start, i)
			} else {
				i++
				emit(tokSymbol, start, i)
			}

		case isDigit(ch) || ch == '.':
			i++
			for i < n && (isDigit(src[i]) || src[i] == '.' || src[i] == 'e' || src[i] == 'E') {
				i++
			}
			emit(tokNumber, start, i)

		case isIdentStart(ch):
			i++
			for i < n && isIdentPart(src[i]) {
				i++
			}
			emit(tokIdent, start, i)

		default:
			i++
			emit(tokSymbol, start, i)
		}
	}

	return tokens
}

// scanQuoted returns the offset one past the closing quote of the quoted run
// starting at src[i]. A doubled quote character is an escaped quote.
func scanQuoted(src string, i int, quote byte) int {
	n := len(src)
	i++ // opening quote
	for i < n {
		if src[i] == quote {
			if i+1 < n && src[i+1] == quote {
				i += 2
				continue
			}
			return i + 1
		}
		i++
	}
	return n
}

// scanDollarQuoted recognizes a PostgreSQL dollar-quoted string ($$...$$ or
// $tag$...$tag$) starting at src[i].
func scanDollarQuoted(src string, i int) (int, bool) {
	n := len(src)
	j := i + 1
	for j < n && src[j] != '$' {
		if !isIdentPart(src[j]) || (j == i+1 && isDigit(src[j])) {
			return 0, false
		}
		j++
	}
	if j >= n {
		return 0, false
	}
	delim := src[i : j+1]
	if end := strings.Index(src[j+1:], delim); end >= 0 {
		return j + 1 + end + len(delim), true
	}
	return n, true
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch >= 0x80
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch) || ch == '$'
}
