package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwalczyk/oasc/internal/loader"
)

const validYAML = `openapi: 3.0.3
info:
  title: Pet Store
  version: 1.0.0
paths:
  /pets:
    get:
      operationId: ListPets
      responses:
        "200":
          description: OK
`

func TestRunFile(t *testing.T) {
	f := loader.LoadBytes("petstore.yaml", []byte(validYAML))
	require.NoError(t, f.Err)

	assert.Empty(t, RunFile(f, TierStandard))
	assert.Empty(t, RunFile(f, TierStrict))
}

func TestRunFileTierNone(t *testing.T) {
	f := loader.LoadBytes("petstore.yaml", []byte(validYAML))
	require.NoError(t, f.Err)

	assert.Nil(t, RunFile(f, TierNone))
	assert.Nil(t, RunFile(nil, TierStrict))
}

func TestRunFileParseFailure(t *testing.T) {
	f := loader.LoadBytes("broken.yaml", []byte("{{{"))
	require.Error(t, f.Err)

	// A parse failure surfaces as the only finding, even at TierNone.
	for _, tier := range []Tier{TierNone, TierStandard, TierStrict} {
		diags := RunFile(f, tier)
		require.Len(t, diags, 1)
		assert.Equal(t, "load-parse-failure", diags[0].Rule)
	}
}

func TestParseTier(t *testing.T) {
	tests := []struct {
		input    string
		expected Tier
		wantErr  bool
	}{
		{"", TierStandard, false},
		{"standard", TierStandard, false},
		{"none", TierNone, false},
		{"strict", TierStrict, false},
		{"STRICT", TierStrict, false},
		{"pedantic", TierNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTier(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
