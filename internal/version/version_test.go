package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo()

	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}

func TestInfo_String(t *testing.T) {
	info := Info{
		Version:   "1.2.3",
		Commit:    "abcdef1234567890",
		Date:      "2026-08-30",
		GoVersion: "go1.24.6",
		Platform:  "linux/amd64",
	}

	s := info.String()
	assert.Contains(t, s, "requestdesk 1.2.3")
	assert.Contains(t, s, "abcdef12")
	assert.NotContains(t, s, "abcdef123")
}
