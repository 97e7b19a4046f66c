package version

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupPrefersLinkerVersion(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "v1.4.0"
	v, err := Lookup()
	require.NoError(t, err)
	assert.Equal(t, "v1.4.0", v)
}

func TestLookupWithoutRelease(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = ""
	// test binaries report "(devel)" or nothing for the main module
	_, err := Lookup()
	assert.True(t, errors.Is(err, ErrUnavailable))
}
