package scriptlang

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

const (
	TOKEN_WORD = iota
	TOKEN_LABEL
	TOKEN_NUMBER
	TOKEN_STRING
	TOKEN_NEWLINE
	TOKEN_COMMENT
)

var lexer *lexmachine.Lexer

func init() {
	lexer = lexmachine.NewLexer()
	lexer.Add([]byte(`[a-zA-Z_][a-zA-Z0-9_\.]*`), getToken(TOKEN_WORD))
	lexer.Add([]byte(`\$[a-zA-Z_][a-zA-Z0-9_]*`), getToken(TOKEN_LABEL))
	lexer.Add([]byte(`[\+\-]?[0-9]*\.?[0-9]+`), getToken(TOKEN_NUMBER))
	lexer.Add([]byte(`(\n|\r|\n\r)+`), getToken(TOKEN_NEWLINE))
	lexer.Add([]byte(`//[^\n]*`), getToken(TOKEN_COMMENT))
	lexer.Add([]byte("[ \t]+"), skip)
	lexer.Add([]byte(`"(\\.|[^"])*"`), getToken(TOKEN_STRING))
	if err := lexer.Compile(); err != nil {
		panic(err)
	}
}

func getToken(tokenType int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(tokenType, string(m.Bytes), m), nil
	}
}

func skip(scan *lexmachine.Scanner, match *machines.Match) (interface{}, error) {
	return nil, nil
}

// Parse splits text into statements. The first word of a line is the op,
// comment-only and empty lines produce nothing.
func Parse(text []byte) ([]*Statement, error) {
	scanner, err := lexer.Scanner(text)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to create lexer scanner")
	}

	result := make([]*Statement, 0, 16)

	var current *Statement
	for Itok, err, eos := scanner.Next(); !eos; Itok, err, eos = scanner.Next() {
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to parse token")
		}
		tok := Itok.(*lexmachine.Token)
		lexeme := string(tok.Lexeme)

		switch tok.Type {
		case TOKEN_WORD:
			if current == nil {
				current = &Statement{Op: strings.ToLower(lexeme), Line: tok.StartLine}
				result = append(result, current)
			} else {
				current.AddArguments(Word(lexeme))
			}
		case TOKEN_LABEL:
			if current == nil {
				return nil, errors.Errorf("Missed op on line %v (%q)", tok.StartLine, lexeme)
			}
			current.AddArguments(&Label{Name: lexeme[1:]})
		case TOKEN_NUMBER:
			if current == nil {
				return nil, errors.Errorf("Missed op on line %v (%q)", tok.StartLine, lexeme)
			}
			if integer, err := strconv.ParseInt(lexeme, 10, 0); err == nil {
				current.AddArguments(int32(integer))
			} else if float, err := strconv.ParseFloat(lexeme, 32); err == nil {
				current.AddArguments(float32(float))
			} else {
				return nil, errors.Errorf("Unknown number format on line %v (%q)", tok.StartLine, lexeme)
			}
		case TOKEN_STRING:
			if current == nil {
				return nil, errors.Errorf("Missed op on line %v (%q)", tok.StartLine, lexeme)
			}
			if s, err := strconv.Unquote(lexeme); err != nil {
				return nil, errors.Errorf("Unknown string format on line %v (%q)", tok.StartLine, lexeme)
			} else {
				current.AddArguments(s)
			}
		case TOKEN_NEWLINE:
			current = nil
		case TOKEN_COMMENT:
			if current != nil {
				current.Comment = strings.TrimSpace(lexeme[2:])
			}
		}
	}

	return result, nil
}
