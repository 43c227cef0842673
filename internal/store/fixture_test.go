package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFixture_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		yaml        string
		expectedErr string
	}{
		{
			name:        "unknown field",
			yaml:        "projekt: x\n",
			expectedErr: "decode fixture",
		},
		{
			name: "unknown table type",
			yaml: `
tables:
  - { name: T, type: Missing }
`,
			expectedErr: "unknown type 'Missing'",
		},
		{
			name: "row width mismatch",
			yaml: `
table_types:
  - name: S
    columns: [{ name: A }, { name: B }]
tables:
  - name: T
    type: S
    rows: [[only]]
`,
			expectedErr: "row 0 has 1 cells",
		},
		{
			name: "bad role",
			yaml: `
table_types:
  - name: S
    columns: [{ name: A, role: sideways }]
`,
			expectedErr: "unknown column role",
		},
		{
			name: "bad association name",
			yaml: `
associations:
  - { name: "a b", script: x.sh }
`,
			expectedErr: "invalid association name",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeFixture(strings.NewReader(tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectedErr)
		})
	}
}
