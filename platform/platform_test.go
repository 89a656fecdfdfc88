package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequiresManifest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id   string
		want bool
	}{
		{"android", true},
		{"Android", true},
		{" android ", true},
		{"linux", false},
		{"darwin", false},
		{"windows", false},
		{"ios", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RequiresManifest(tt.id), "RequiresManifest(%q)", tt.id)
	}
}

func TestCurrent(t *testing.T) {
	t.Parallel()

	assert.NotEmpty(t, Current())
}
