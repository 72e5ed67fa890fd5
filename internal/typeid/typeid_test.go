package typeid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCarriesPrefix(t *testing.T) {
	tests := []struct {
		gen    func() string
		prefix string
	}{
		{NewUserID, PrefixUser},
		{NewDrawingID, PrefixDrawing},
		{NewSnapshotID, PrefixSnapshot},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			id := tt.gen()
			assert.True(t, strings.HasPrefix(id, tt.prefix+"_"))
			require.NoError(t, Validate(id, tt.prefix))
		})
	}
}

func TestValidate(t *testing.T) {
	assert.Error(t, Validate("not an id", PrefixUser))
	assert.Error(t, Validate(NewDrawingID(), PrefixUser))
	assert.NotEqual(t, NewDrawingID(), NewDrawingID())
}

func TestIsDrawingID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{NewDrawingID(), true},
		{PlaygroundDrawing, true},
		{NewUserID(), false},
		{"drw_1", false},
		{"", false},
		{"../etc/passwd", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsDrawingID(tt.id), tt.id)
	}
}
