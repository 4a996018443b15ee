package version

import (
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func withLinked(t *testing.T, version, commit, built string) {
	t.Helper()
	oldVersion, oldCommit, oldBuilt := Version, GitCommit, BuildTime
	Version, GitCommit, BuildTime = version, commit, built
	t.Cleanup(func() { Version, GitCommit, BuildTime = oldVersion, oldCommit, oldBuilt })
}

func TestLinkedVersion(t *testing.T) {
	withLinked(t, "v1.2.3", "0123456789abcdef", "2026-01-02T03:04:05Z")

	assert.Equal(t, "v1.2.3", GetVersion())
	assert.Equal(t, "0123456789abcdef", GetGitCommit())
	assert.Equal(t, "v1.2.3 (0123456)", GetShortVersion())
	assert.True(t, IsRelease())

	info := GetBuildInfo()
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), info.BuildTime)

	detailed := GetDetailedVersion()
	assert.True(t, strings.HasPrefix(detailed, "uistudio v1.2.3"))
	assert.Contains(t, detailed, "Built:    2026-01-02T03:04:05Z")
	assert.Contains(t, detailed, "Platform: "+runtime.GOOS+"/"+runtime.GOARCH)
}

func TestDevShortVersionUsesCommit(t *testing.T) {
	withLinked(t, "dev", "abcdef0123", "unknown")
	if moduleVersion() != "" {
		t.Skip("binary carries a module version")
	}
	assert.Equal(t, "dev-abcdef0", GetShortVersion())
	assert.False(t, IsRelease())
}

func TestParseISOTime(t *testing.T) {
	tests := []struct {
		in   string
		zero bool
	}{
		{"2026-01-02T03:04:05Z", false},
		{"2026-01-02T03:04:05", false},
		{"2026-01-02 03:04:05", false},
		{"unknown", true},
		{"", true},
		{"yesterday", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.zero, parseISOTime(tt.in).IsZero())
		})
	}
}
