package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func lexAll(src string) []Token {
	r := NewReporter()
	return NewLexer(src, "<test>", r).Lex()
}

func TestIntLiteral(t *testing.T) {
	toks := lexAll("12345")
	be.Equal(t, toks[0].Kind, NUMBER_INT)
	be.Equal(t, toks[0].Literal, any(int64(12345)))
	be.Equal(t, toks[1].Kind, EOF)
}

func TestFloatLiteralRequiresDigitAfterDot(t *testing.T) {
	toks := lexAll("1.5")
	be.Equal(t, toks[0].Kind, NUMBER_FLOAT)
	be.Equal(t, toks[0].Literal, any(1.5))
}

func TestTrailingDotIsNotConsumedWithoutDigit(t *testing.T) {
	// "1." has no digit after the dot, so the number ends at "1" and
	// "." is a separate (illegal, since it is not otherwise a token)
	// lexeme boundary rather than a float.
	toks := lexAll("1.")
	be.Equal(t, toks[0].Kind, NUMBER_INT)
	be.Equal(t, toks[0].Lexeme, "1")
}

func TestKeywordsMapOneToOne(t *testing.T) {
	tests := []struct {
		input string
		want  TokenType
	}{
		{"fr", FR}, {"say", SAY}, {"lowkey", LOWKEY}, {"midkey", MIDKEY},
		{"highkey", HIGHKEY}, {"goon", GOON}, {"edge", EDGE}, {"vibe", VIBE},
		{"send", SEND}, {"ongod", ONGOD}, {"cap", CAP}, {"nah", NAH},
		{"mog", BREAK}, {"skip", CONTINUE}, {"simp", SWITCH}, {"stan", CASE},
		{"ghost", DEFAULT}, {"yeet", TRY}, {"caught", CATCH},
	}
	for _, tt := range tests {
		toks := lexAll(tt.input)
		be.Equal(t, toks[0].Kind, tt.want)
	}
}

func TestIdentifierIsNotAKeyword(t *testing.T) {
	toks := lexAll("frobnicate")
	be.Equal(t, toks[0].Kind, IDENTIFIER)
}

func TestOperatorsLongestMatch(t *testing.T) {
	tests := []struct {
		input string
		want  TokenType
	}{
		{"+", PLUS}, {"++", PLUS_PLUS}, {"+=", PLUS_EQ},
		{"-", MINUS}, {"--", MINUS_MINUS}, {"-=", MINUS_EQ},
		{"<", LT}, {"<=", LEQ}, {"<<", SHL},
		{">", GT}, {">=", GEQ}, {">>", SHR},
		{"&", AMP}, {"&&", AND_AND},
		{"|", PIPE}, {"||", OR_OR},
		{"!", BANG}, {"!=", NEQ},
		{"=", ASSIGN}, {"==", EQ},
	}
	for _, tt := range tests {
		toks := lexAll(tt.input)
		be.Equal(t, toks[0].Kind, tt.want)
	}
}

func TestLineCommentsAreSkipped(t *testing.T) {
	toks := lexAll("fr x = 1 # this is a comment\nsay x")
	var kinds []TokenType
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	be.Equal(t, kinds, []TokenType{FR, IDENTIFIER, ASSIGN, NUMBER_INT, SAY, IDENTIFIER, EOF})
}

func TestTokenLineNumberCountsPrecedingNewlines(t *testing.T) {
	toks := lexAll("fr x = 1\nfr y = 2\nsay y")
	// "say" is on line 3.
	for _, tok := range toks {
		if tok.Kind == SAY {
			be.Equal(t, tok.Loc.Line, 3)
			return
		}
	}
	t.Fatal("say token not found")
}

func TestStringWithPlaceholderIsInterpString(t *testing.T) {
	toks := lexAll(`"hi {name}"`)
	be.Equal(t, toks[0].Kind, INTERP_STRING)
	be.Equal(t, toks[0].Literal, any("hi {name}"))
}

func TestPlainStringIsNotInterpString(t *testing.T) {
	toks := lexAll(`"hello"`)
	be.Equal(t, toks[0].Kind, STRING)
	be.Equal(t, toks[0].Literal, any("hello"))
}

func TestUnbalancedBraceIsNotInterpString(t *testing.T) {
	toks := lexAll(`"oops {"`)
	be.Equal(t, toks[0].Kind, STRING)
}

func TestEscapeSequencesAreNotDecoded(t *testing.T) {
	toks := lexAll(`"a\nb"`)
	be.Equal(t, toks[0].Literal, any(`a\nb`))
}

func TestMultiLineStringAdvancesLine(t *testing.T) {
	toks := lexAll("\"a\nb\"\nsay 1")
	for _, tok := range toks {
		if tok.Kind == SAY {
			be.Equal(t, tok.Loc.Line, 3)
			return
		}
	}
	t.Fatal("say token not found")
}

func TestUnterminatedStringReportsLexerError(t *testing.T) {
	r := NewReporter()
	NewLexer(`"unterminated`, "<test>", r).Lex()
	be.True(t, r.HadError())
	be.Equal(t, r.GetErrors()[0].Kind, KindLexer)
}

func TestUnexpectedCharacterReportsLexerError(t *testing.T) {
	r := NewReporter()
	NewLexer("@", "<test>", r).Lex()
	be.True(t, r.HadError())
}

func TestEveryTokenStreamEndsInEOF(t *testing.T) {
	toks := lexAll("fr x = 1")
	be.Equal(t, toks[len(toks)-1].Kind, EOF)
}
