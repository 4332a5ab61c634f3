package value_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsonnet-run/jsonnet/lang/value"
)

func TestThunkForceMemoizes(t *testing.T) {
	calls := 0
	th := value.NewThunk(func() (value.Value, error) {
		calls++
		return value.Number(42), nil
	})

	v1, err := th.Force()
	require.NoError(t, err)
	v2, err := th.Force()
	require.NoError(t, err)

	assert.Equal(t, value.Number(42), v1)
	assert.Equal(t, v1, v2)
	assert.Equal(t, 1, calls, "forcing twice must only evaluate the underlying expression once")
}

func TestThunkForceMemoizesErrors(t *testing.T) {
	calls := 0
	sentinel := errors.New("boom")
	th := value.NewThunk(func() (value.Value, error) {
		calls++
		return nil, sentinel
	})

	_, err1 := th.Force()
	_, err2 := th.Force()

	assert.Same(t, sentinel, err1)
	assert.Same(t, sentinel, err2)
	assert.Equal(t, 1, calls, "a failed thunk must memoize its error, not retry")
}

func TestThunkReady(t *testing.T) {
	th := value.Ready(value.Bool(true))
	v, err := th.Force()
	require.NoError(t, err)
	assert.Equal(t, value.Bool(true), v)
}

func TestStringGoRoundtrip(t *testing.T) {
	s := value.NewString("héllo")
	assert.Equal(t, "héllo", s.Go())
	assert.Equal(t, 5, len(s), "String is Unicode-scalar-indexed, not byte-indexed")
}
