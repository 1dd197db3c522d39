package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type policy string

const (
	policyContinue policy = "continue"
	policyAbort    policy = "abort"
)

func newPolicyNormalizer() *Normalizer[policy] {
	return NewNormalizer("on_page_error", map[string]policy{
		"continue": policyContinue,
		"Abort":    policyAbort,
	}, policyContinue)
}

func TestNormalizer_Normalize(t *testing.T) {
	n := newPolicyNormalizer()

	tests := []struct {
		name  string
		input string
		want  policy
	}{
		{"exact", "abort", policyAbort},
		{"upper", "ABORT", policyAbort},
		{"padded", "  continue ", policyContinue},
		{"unknown falls back", "explode", policyContinue},
		{"empty falls back", "", policyContinue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.input))
		})
	}
}

func TestNormalizer_Parse(t *testing.T) {
	n := newPolicyNormalizer()

	v, err := n.Parse(" Abort")
	require.NoError(t, err)
	assert.Equal(t, policyAbort, v)

	v, err = n.Parse("")
	require.NoError(t, err)
	assert.Equal(t, policyContinue, v)

	_, err = n.Parse("explode")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid on_page_error "explode"`)
	assert.Contains(t, err.Error(), "abort, continue")
}

func TestNormalizer_ValidAndKeys(t *testing.T) {
	n := newPolicyNormalizer()

	assert.True(t, n.Valid("CONTINUE"))
	assert.False(t, n.Valid("nope"))

	keys := n.Keys()
	assert.Equal(t, []string{"abort", "continue"}, keys)
	keys[0] = "mutated"
	assert.Equal(t, []string{"abort", "continue"}, n.Keys())
}
