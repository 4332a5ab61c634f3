package token_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jsonnet-run/jsonnet/lang/token"
)

func TestLookupIdent(t *testing.T) {
	require.Equal(t, token.LOCAL, token.LookupIdent("local"))
	require.Equal(t, token.SELF, token.LookupIdent("self"))
	require.Equal(t, token.IDENT, token.LookupIdent("notakeyword"))
}

func TestGoString(t *testing.T) {
	require.Equal(t, "'+'", token.PLUS.GoString())
	require.Equal(t, "local", token.LOCAL.GoString())
}
