package query

import (
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokWord
	tokNumber
	tokString
	tokTag
	tokOp
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind   tokenKind
	text   string
	number float64
	offset int
	end    int
}

// matches reports a case-insensitive keyword match on a bare word token.
func (t token) matches(keyword string) bool {
	return t.kind == tokWord && strings.EqualFold(t.text, keyword)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) ||
		r == '_' || r == '-' || r == '.' || r == '/'
}

// scan tokenizes the input. Words cover keywords, field paths, and unquoted
// values such as dates; the parser decides which they are. Any character the
// scanner cannot place is a parse error, never a panic.
func scan(input string) ([]token, *ParseError) {
	var tokens []token
	runes := []rune(input)

	byteOffset := func(runeIdx int) int {
		return len(string(runes[:runeIdx]))
	}

	i := 0
	for i < len(runes) {
		r := runes[i]

		switch {
		case unicode.IsSpace(r):
			i++

		case r == '(':
			tokens = append(tokens, token{kind: tokLParen, text: "(", offset: byteOffset(i), end: byteOffset(i + 1)})
			i++
		case r == ')':
			tokens = append(tokens, token{kind: tokRParen, text: ")", offset: byteOffset(i), end: byteOffset(i + 1)})
			i++
		case r == ',':
			tokens = append(tokens, token{kind: tokComma, text: ",", offset: byteOffset(i), end: byteOffset(i + 1)})
			i++

		case r == '#':
			start := i
			i++
			for i < len(runes) && isWordRune(runes[i]) {
				i++
			}
			if i == start+1 {
				return nil, &ParseError{Msg: "empty tag", Offset: byteOffset(start)}
			}
			tokens = append(tokens, token{
				kind:   tokTag,
				text:   string(runes[start+1 : i]),
				offset: byteOffset(start),
				end:    byteOffset(i),
			})

		case r == '"':
			start := i
			i++
			var sb strings.Builder
			closed := false
			for i < len(runes) {
				if runes[i] == '\\' && i+1 < len(runes) && runes[i+1] == '"' {
					sb.WriteRune('"')
					i += 2
					continue
				}
				if runes[i] == '"' {
					closed = true
					i++
					break
				}
				sb.WriteRune(runes[i])
				i++
			}
			if !closed {
				return nil, &ParseError{Msg: "unterminated string", Offset: byteOffset(start)}
			}
			tokens = append(tokens, token{
				kind:   tokString,
				text:   sb.String(),
				offset: byteOffset(start),
				end:    byteOffset(i),
			})

		case r == '=' || r == '!' || r == '>' || r == '<':
			start := i
			op := string(r)
			i++
			if i < len(runes) && runes[i] == '=' {
				op += "="
				i++
			}
			if op == "!" {
				return nil, &ParseError{Msg: "unexpected character '!'", Offset: byteOffset(start)}
			}
			tokens = append(tokens, token{kind: tokOp, text: op, offset: byteOffset(start), end: byteOffset(i)})

		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' ||
			(r == '-' && i+1 < len(runes) && unicode.IsDigit(runes[i+1])):
			start := i
			i++
			for i < len(runes) && isWordRune(runes[i]) {
				i++
			}
			word := string(runes[start:i])
			tok := token{kind: tokWord, text: word, offset: byteOffset(start), end: byteOffset(i)}
			if n, err := strconv.ParseFloat(word, 64); err == nil {
				tok.kind = tokNumber
				tok.number = n
			}
			tokens = append(tokens, tok)

		default:
			return nil, &ParseError{
				Msg:    "unexpected character " + strconv.QuoteRune(r),
				Offset: byteOffset(i),
			}
		}
	}

	tokens = append(tokens, token{kind: tokEOF, offset: len(input), end: len(input)})
	return tokens, nil
}
