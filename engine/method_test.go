package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/trawler/models"
)

func TestParseMethod(t *testing.T) {
	for _, m := range Methods() {
		got, err := ParseMethod(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
}

func TestParseMethod_EmptyIsDefault(t *testing.T) {
	got, err := ParseMethod("")
	require.NoError(t, err)
	assert.Equal(t, DefaultMethod, got)
}

func TestParseMethod_Unknown(t *testing.T) {
	_, err := ParseMethod("chromejjj")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not implemented")
	assert.Contains(t, err.Error(), "chromejjj")
	assert.True(t, errors.Is(err, models.ErrMethodNotImplemented))
	assert.Equal(t, models.ErrCodeMethodNotImplemented, models.CodeOf(err))
}

func TestMethod_NeedsDriver(t *testing.T) {
	assert.False(t, MethodHTTP.NeedsDriver())
	assert.False(t, MethodColly.NeedsDriver())
	assert.True(t, MethodRod.NeedsDriver())
	assert.True(t, MethodRodStealth.NeedsDriver())
	assert.True(t, MethodAuto.NeedsDriver())
}

func TestMethods_ReturnsCopy(t *testing.T) {
	ms := Methods()
	ms[0] = "mutated"
	assert.Equal(t, MethodHTTP, Methods()[0])
}
