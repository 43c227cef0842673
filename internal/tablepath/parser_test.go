// internal/tablepath/parser_test.go
package tablepath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name         string
		raw          string
		expectErr    bool
		expectedPath Path
	}{
		{
			name:         "root table",
			raw:          "Telemetry",
			expectedPath: Path{Root: "Telemetry"},
		},
		{
			name: "nested child",
			raw:  "Telemetry,Header.hdr,Time.stamp",
			expectedPath: Path{Root: "Telemetry", Segments: []Segment{
				{DataType: "Header", Variable: "hdr"},
				{DataType: "Time", Variable: "stamp"},
			}},
		},
		{
			name: "array member variable",
			raw:  "Telemetry,Sample.samples[2][0]",
			expectedPath: Path{Root: "Telemetry", Segments: []Segment{
				{DataType: "Sample", Variable: "samples[2][0]"},
			}},
		},
		{name: "error - empty string", raw: "", expectErr: true},
		{name: "error - blank sentinel", raw: " ", expectErr: true},
		{name: "error - empty root", raw: ",Header.hdr", expectErr: true},
		{name: "error - dotted root", raw: "Header.hdr", expectErr: true},
		{name: "error - empty segment", raw: "Telemetry,,Header.hdr", expectErr: true},
		{name: "error - segment without variable", raw: "Telemetry,Header", expectErr: true},
		{name: "error - segment with empty type", raw: "Telemetry,.hdr", expectErr: true},
		{name: "error - segment with two dots", raw: "Telemetry,Header.hdr.x", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Parse(tc.raw)

			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.expectedPath.Equal(p), "got %s", p)
		})
	}
}

func TestParse_RoundTrip(t *testing.T) {
	for _, raw := range []string{
		"A",
		"A,B.b",
		"A,B.b,C.c[3]",
		"Commands",
	} {
		t.Run(raw, func(t *testing.T) {
			p, err := Parse(raw)
			require.NoError(t, err)
			assert.Equal(t, raw, p.String())
		})
	}
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse("A,") })
}
