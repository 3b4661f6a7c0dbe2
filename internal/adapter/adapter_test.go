package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeTLSConfig(t *testing.T) {
	t.Run("NoFiles", func(t *testing.T) {
		cfg, err := MakeTLSConfig("", "", "")
		require.NoError(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("Partial", func(t *testing.T) {
		_, err := MakeTLSConfig("ca.pem", "", "")
		assert.Error(t, err)
	})

	t.Run("MissingCA", func(t *testing.T) {
		dir := t.TempDir()
		_, err := MakeTLSConfig(
			filepath.Join(dir, "ca.pem"),
			filepath.Join(dir, "cert.pem"),
			filepath.Join(dir, "key.pem"),
		)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("InvalidCA", func(t *testing.T) {
		dir := t.TempDir()
		ca := filepath.Join(dir, "ca.pem")
		require.NoError(t, os.WriteFile(ca, []byte("not a certificate"), 0o600))

		_, err := MakeTLSConfig(
			ca, filepath.Join(dir, "cert.pem"), filepath.Join(dir, "key.pem"),
		)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse CA certificate")
	})
}
