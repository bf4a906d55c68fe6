package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo()
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	assert.True(t, info.IsDev())
}

func TestShort(t *testing.T) {
	info := Info{Version: "v0.3.1", Commit: "abc1234def5678"}
	assert.Equal(t, "v0.3.1 (abc1234)", info.Short())
	assert.False(t, info.IsDev())

	info.Commit = "none"
	assert.Equal(t, "v0.3.1 (none)", info.Short())
	assert.Contains(t, info.String(), "Version:\tv0.3.1")
}
