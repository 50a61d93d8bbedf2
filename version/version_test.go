package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	info := Info{Version: "dev", CommitHash: "abc", BuildTime: "now"}
	assert.Equal(t, "shapegen dev (commit abc, built now)", info.String())

	info.Version = "v1.2.3"
	assert.Equal(t, "shapegen v1.2.3 (commit abc, built now)", info.String())
}

func TestNewerMajor(t *testing.T) {
	tests := []struct {
		current, other string
		want           bool
	}{
		{"v1.2.0", "v2.0.0", true},
		{"v1.2.0", "v1.9.0", false},
		{"v2.0.0", "v1.0.0", false},
		{"dev", "v3.0.0", false},
		{"v1.0.0", "dev", false},
	}

	for _, tt := range tests {
		t.Run(tt.current+"->"+tt.other, func(t *testing.T) {
			assert.Equal(t, tt.want, NewerMajor(tt.current, tt.other))
		})
	}
}
