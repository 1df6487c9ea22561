package version

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	t.Parallel()
	info := Get()

	assert.NotEmpty(t, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestInfo_String(t *testing.T) {
	t.Parallel()
	info := Info{
		Version:   "v1.2.3",
		Commit:    "0123456789abcdef0123",
		GoVersion: "go1.25.6",
		Platform:  "linux/amd64",
	}
	assert.Equal(t, "rusby 1.2.3 (0123456789ab) go1.25.6 linux/amd64", info.String())

	info.Commit = ""
	assert.True(t, strings.HasPrefix(info.String(), "rusby 1.2.3 go1.25.6"))
}

func TestNormalizeVersion(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"v1.0.0":   "1.0.0",
		" 2.1.0 ":  "2.1.0",
		"dev":      "dev",
		"v0.1.0-1": "0.1.0-1",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeVersion(in), in)
	}
}
