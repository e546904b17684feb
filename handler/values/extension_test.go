package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewExtension(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain", "txt", "txt", false},
		{"strips leading dot", ".txt", "txt", false},
		{"lowercases", "TXT", "txt", false},
		{"dot and case", ".Md", "md", false},
		{"empty", "", "", true},
		{"dot only", ".", "", true},
		{"embedded dot", "tar.gz", "", true},
		{"path separator", "a/b", "", true},
		{"whitespace inside", "t xt", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewExtension(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, e.String())
			}
		})
	}
}

func Test_Extension_Comparable(t *testing.T) {
	a := MustNewExtension("TXT")
	b := MustNewExtension(".txt")
	assert.Equal(t, a, b)
}
