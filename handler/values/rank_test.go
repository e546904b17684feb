package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseRank(t *testing.T) {
	tests := []struct {
		input   string
		want    Rank
		wantErr bool
	}{
		{"Owner", RankOwner, false},
		{"Default", RankDefault, false},
		{"Alternate", RankAlternate, false},
		{"None", RankNone, false},
		{"", NoRank, false},
		{"owner", NoRank, true},
		{"Unknown", NoRank, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r, err := ParseRank(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, r)
		})
	}
}

// Owner > Default > Alternate > None > unspecified. An unspecified rank is
// not the same thing as an explicit None and must sort below it.
func Test_Rank_Ordering(t *testing.T) {
	assert.Greater(t, RankOwner.Weight(), RankDefault.Weight())
	assert.Greater(t, RankDefault.Weight(), RankAlternate.Weight())
	assert.Greater(t, RankAlternate.Weight(), RankNone.Weight())
	assert.Greater(t, RankNone.Weight(), NoRank.Weight())
}

func Test_Rank_IsSpecified(t *testing.T) {
	assert.False(t, NoRank.IsSpecified())
	assert.True(t, RankNone.IsSpecified())
	assert.Equal(t, "", NoRank.String())
	assert.Equal(t, "None", RankNone.String())
}

func Test_Role_Openable(t *testing.T) {
	assert.True(t, RoleEditor.Openable())
	assert.True(t, RoleViewer.Openable())
	assert.False(t, RoleShell.Openable())
	assert.False(t, RoleNone.Openable())
}

func Test_ParseRole(t *testing.T) {
	r, err := ParseRole("")
	require.NoError(t, err)
	assert.Equal(t, RoleNone, r)

	_, err = ParseRole("editor")
	assert.Error(t, err)
}
