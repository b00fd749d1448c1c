package jsgf

import (
	"strings"
	"unicode"
)

type tokenClass int

const (
	tkEndOfText tokenClass = iota
	tkWord
	tkRuleName
	tkEquals
	tkSemi
	tkPipe
	tkWeight
	tkLeftBracket
	tkRightBracket
	tkLeftParen
	tkRightParen
)

func (tc tokenClass) String() string {
	switch tc {
	case tkEndOfText:
		return "end of input"
	case tkWord:
		return "word"
	case tkRuleName:
		return "rule name"
	case tkEquals:
		return `"="`
	case tkSemi:
		return `";"`
	case tkPipe:
		return `"|"`
	case tkWeight:
		return "weight"
	case tkLeftBracket:
		return `"["`
	case tkRightBracket:
		return `"]"`
	case tkLeftParen:
		return `"("`
	case tkRightParen:
		return `")"`
	default:
		return "unknown token"
	}
}

type lexeme struct {
	class    tokenClass
	value    string
	line     int
	pos      int
	fullLine string
}

type tokenStream struct {
	tokens []lexeme
	cur    int
}

// Next returns the token at the current position and advances past it. The
// end-of-text token is sticky: once reached, Next keeps returning it.
func (ts *tokenStream) Next() lexeme {
	lx := ts.tokens[ts.cur]
	if ts.cur < len(ts.tokens)-1 {
		ts.cur++
	}
	return lx
}

// Peek returns the token at the current position without advancing.
func (ts *tokenStream) Peek() lexeme {
	return ts.tokens[ts.cur]
}

// Remaining returns the number of tokens not yet consumed, including the
// end-of-text token.
func (ts *tokenStream) Remaining() int {
	return len(ts.tokens) - ts.cur
}

// isWordBreak tells whether ch ends a bare terminal word. Terminals may
// contain any rune that is not whitespace and not part of the notation's
// punctuation.
func isWordBreak(ch rune) bool {
	switch ch {
	case '<', '>', '=', ';', '|', '[', ']', '(', ')', '/':
		return true
	}
	return unicode.IsSpace(ch)
}

// Lex tokenizes grammar source text. Comments are stripped here, so the
// parser never sees them. The returned stream always ends with an end-of-text
// token.
func Lex(s string) (tokenStream, error) {
	sRunes := []rune(s)

	var tokens []lexeme

	curLine := 1
	curLinePos := 1

	var curToken lexeme
	var sb strings.Builder

	type lexMode int

	const (
		lexDefault lexMode = iota
		lexRuleName
		lexWeight
		lexLineComment
		lexBlockComment
	)

	mode := lexDefault

	var currentFullLine = readFullLine(sRunes)
	flushCurrentPendingToken := func() {
		if sb.Len() > 0 {
			curToken.value = sb.String()
			curToken.fullLine = currentFullLine
			sb.Reset()
			tokens = append(tokens, curToken)
			curToken = lexeme{}
		}
	}
	addPunct := func(class tokenClass, value string) {
		flushCurrentPendingToken()
		tok := lexeme{pos: curLinePos, line: curLine, class: class, value: value}
		tok.fullLine = currentFullLine
		tokens = append(tokens, tok)
	}

	for i := 0; i < len(sRunes); i++ {
		ch := sRunes[i]

		// if it's a newline for any reason, get the next line for the current
		// one
		if ch == '\n' {
			currentFullLine = readFullLine(sRunes[i+1:])
		}

		switch mode {
		case lexLineComment:
			if ch == '\n' {
				mode = lexDefault
			}
		case lexBlockComment:
			if ch == '*' && i+1 < len(sRunes) && sRunes[i+1] == '/' {
				i++
				curLinePos++
				mode = lexDefault
			}
		case lexRuleName:
			if ch == '>' {
				curToken.value = sb.String()
				sb.Reset()
				curToken.fullLine = currentFullLine
				if curToken.value == "" {
					return tokenStream{}, syntaxErrorFromLexeme("empty rule name \"<>\"", curToken)
				}
				tokens = append(tokens, curToken)
				curToken = lexeme{}
				mode = lexDefault
			} else if unicode.IsSpace(ch) || ch == '<' {
				curToken.value = sb.String()
				curToken.fullLine = currentFullLine
				return tokenStream{}, syntaxErrorFromLexeme("rule name is missing its closing '>'", curToken)
			} else {
				sb.WriteRune(ch)
			}
		case lexWeight:
			if ch == '/' {
				curToken.value = sb.String()
				sb.Reset()
				curToken.fullLine = currentFullLine
				if curToken.value == "" {
					return tokenStream{}, syntaxErrorFromLexeme("empty weight \"//\"", curToken)
				}
				tokens = append(tokens, curToken)
				curToken = lexeme{}
				mode = lexDefault
			} else if ('0' <= ch && ch <= '9') || ch == '.' {
				sb.WriteRune(ch)
			} else {
				curToken.value = sb.String() + string(ch)
				curToken.fullLine = currentFullLine
				return tokenStream{}, syntaxErrorFromLexeme("weight must be a number between slashes, like /3.5/", curToken)
			}
		case lexDefault:
			if ch == '<' {
				flushCurrentPendingToken()
				curToken.pos = curLinePos
				curToken.line = curLine
				curToken.class = tkRuleName
				mode = lexRuleName
			} else if ch == '/' {
				flushCurrentPendingToken()
				if i+1 < len(sRunes) && sRunes[i+1] == '/' {
					mode = lexLineComment
					i++
					curLinePos++
				} else if i+1 < len(sRunes) && sRunes[i+1] == '*' {
					mode = lexBlockComment
					i++
					curLinePos++
				} else {
					curToken.pos = curLinePos
					curToken.line = curLine
					curToken.class = tkWeight
					mode = lexWeight
				}
			} else if ch == '=' {
				addPunct(tkEquals, "=")
			} else if ch == ';' {
				addPunct(tkSemi, ";")
			} else if ch == '|' {
				addPunct(tkPipe, "|")
			} else if ch == '[' {
				addPunct(tkLeftBracket, "[")
			} else if ch == ']' {
				addPunct(tkRightBracket, "]")
			} else if ch == '(' {
				addPunct(tkLeftParen, "(")
			} else if ch == ')' {
				addPunct(tkRightParen, ")")
			} else if ch == '>' {
				tok := lexeme{pos: curLinePos, line: curLine, value: ">", fullLine: currentFullLine}
				return tokenStream{}, syntaxErrorFromLexeme("unexpected '>' outside of a rule name", tok)
			} else if !unicode.IsSpace(ch) {
				// is this the first non empty char? set the props for a word,
				// the default.
				if sb.Len() == 0 {
					curToken.line = curLine
					curToken.pos = curLinePos
					curToken.class = tkWord
				}
				sb.WriteRune(ch)
			} else {
				flushCurrentPendingToken()
			}
		}

		curLinePos++
		if ch == '\n' {
			curLine++
			curLinePos = 1
		}
	}

	// reaching the end of input part-way through a construct is a lexing
	// error, immediately end
	switch mode {
	case lexRuleName:
		curToken.value = sb.String()
		return tokenStream{}, syntaxErrorFromLexeme("rule name is missing its closing '>'", curToken)
	case lexWeight:
		curToken.value = sb.String()
		return tokenStream{}, syntaxErrorFromLexeme("weight is missing its closing '/'", curToken)
	case lexBlockComment:
		return tokenStream{}, SyntaxError{message: "unterminated block comment; missing \"*/\""}
	}

	// do we have leftover unlexed text? add it to the tokens list
	flushCurrentPendingToken()

	// add special EOT token
	tokens = append(tokens, lexeme{
		pos:      curLinePos,
		line:     curLine,
		class:    tkEndOfText,
		fullLine: currentFullLine,
	})

	return tokenStream{tokens: tokens}, nil
}

func readFullLine(sRunes []rune) string {
	var lineBuilder strings.Builder
	for i := 0; i < len(sRunes) && sRunes[i] != '\n'; i++ {
		lineBuilder.WriteRune(sRunes[i])
	}
	return lineBuilder.String()
}
