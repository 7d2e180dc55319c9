package scanner

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScan_Keywords(t *testing.T) {
	toks, err := Scan("SELECT FROM insert into VALUES create TABLE INT bool TRUE false NULL")
	require.NoError(t, err)

	kinds := make([]Kind, 0, len(toks))
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	require.Equal(t, []Kind{
		Select, From, Insert, Into, Values, Create, Table, Int, Bool, True, False, Null, EOF,
	}, kinds)
}

func TestScan_IdentifiersAndIntLiterals(t *testing.T) {
	toks, err := Scan("users 42 id_2")
	require.NoError(t, err)
	require.Len(t, toks, 4) // 3 tokens + EOF

	require.Equal(t, Identifier, toks[0].Kind)
	require.Equal(t, "users", toks[0].Text)

	require.Equal(t, IntLiteral, toks[1].Kind)
	require.Equal(t, int64(42), toks[1].IntVal)

	require.Equal(t, Identifier, toks[2].Kind)
	require.Equal(t, "id_2", toks[2].Text)
}

func TestScan_Punctuation(t *testing.T) {
	toks, err := Scan("(,);")
	require.NoError(t, err)
	kinds := make([]Kind, 0, len(toks))
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	require.Equal(t, []Kind{LeftParen, Comma, RightParen, Semicolon, EOF}, kinds)
}

func TestScan_UnexpectedCharacter(t *testing.T) {
	_, err := Scan("create table t (a int) #")
	require.Error(t, err)

	var scanErr *Error
	require.ErrorAs(t, err, &scanErr)
}

func TestScan_EmptyInputYieldsOnlyEOF(t *testing.T) {
	toks, err := Scan("   \t\n ")
	require.NoError(t, err)
	require.Len(t, toks, 1)
	require.Equal(t, EOF, toks[0].Kind)
}
