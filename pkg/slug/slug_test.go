package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/crystalbox/pkg/slug"
)

func TestFrom(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Crystal of the Month", "crystal-of-the-month"},
		{"  Rosé Quartz -- Deluxe!  ", "rose-quartz-deluxe"},
		{"Mini_Box #2", "mini-box-2"},
		{"水晶", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, slug.From(tt.in), tt.in)
	}
}

func TestLimit(t *testing.T) {
	assert.Equal(t, "crystal-of", slug.Limit("Crystal of the Month", 12))
	assert.Equal(t, "crystal-of-the", slug.Limit("Crystal of the Month", 14))
	assert.Equal(t, "crystalofthemon", slug.Limit("CrystalOfTheMonth", 15))
	assert.Equal(t, "crystal-of-the-month", slug.Limit("Crystal of the Month", 0))
}
