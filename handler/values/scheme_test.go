package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewScheme(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain", "http", "http", false},
		{"lowercases", "HTTP", "http", false},
		{"strips colon", "mailto:", "mailto", false},
		{"strips slashes", "https://", "https", false},
		{"plus and dash", "x-custom+v1", "x-custom+v1", false},
		{"empty", "", "", true},
		{"starts with digit", "1http", "", true},
		{"embedded space", "ht tp", "", true},
		{"illegal character", "ht_tp", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewScheme(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, s.String())
			}
		})
	}
}

func Test_Scheme_Comparable(t *testing.T) {
	a := MustNewScheme("HTTP")
	b := MustNewScheme("http")
	assert.Equal(t, a, b)
}
