package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemorySizeString(t *testing.T) {
	tests := []struct {
		size MemorySize
		want string
	}{
		{0, "0B"},
		{-5, "0B"},
		{48, "48B"},
		{1024, "1K"},
		{1536, "1.50K"},
		{20000, "19.53K"},
		{3 * MB, "3M"},
		{2 * GB, "2G"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.size.String(), "size %d", int64(tt.size))
	}
}

func TestMemorySizeRatio(t *testing.T) {
	assert.Equal(t, 0.5, MemorySize(512).Ratio(KB))
	assert.Equal(t, 0.0, MemorySize(512).Ratio(0))
}
