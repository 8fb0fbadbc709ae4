package pde

import (
	"errors"
	"testing"

	"github.com/erdlab/erdsim/internal/plasma"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveByName(t *testing.T) {
	for _, name := range []string{"adi", "bicgstab"} {
		b, err := New(name)
		require.NoError(t, err)
		assert.Equal(t, name, b.Name())
		assert.True(t, b.Available())
	}
}

func TestAutoSelectPrefersADI(t *testing.T) {
	for _, name := range []string{"", "auto"} {
		b, err := New(name)
		require.NoError(t, err)
		assert.Equal(t, "adi", b.Name())
	}
}

func TestUnknownBackend(t *testing.T) {
	_, err := New("spectral")
	require.Error(t, err)
	assert.True(t, errors.Is(err, plasma.ErrBackendUnavailable))
}

func TestNamesSorted(t *testing.T) {
	assert.Equal(t, []string{"adi", "bicgstab"}, Names())
}
