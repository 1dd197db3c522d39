package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, Version)
	assert.NotEmpty(t, BuildTime)
	assert.NotEmpty(t, GitCommit)
}

func TestResolved_PrefersLdflags(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "v9.9.9"
	assert.Equal(t, "v9.9.9", Resolved())
	assert.Equal(t, "docsmith v9.9.9", Generator())
	assert.Contains(t, String(), "docsmith v9.9.9 (commit ")
}
