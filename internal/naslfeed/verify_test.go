package naslfeed

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ed25519"
)

func TestEd25519Verifier_ValidSignature(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	dir := t.TempDir()
	sum := []byte("deadbeef  some.nasl\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, IntegrityFile), sum, 0o644))
	sig := ed25519.Sign(priv, sum)
	require.NoError(t, os.WriteFile(filepath.Join(dir, SignatureFile), []byte(hex.EncodeToString(sig)+"\n"), 0o644))

	v, err := NewEd25519Verifier(hex.EncodeToString(pub))
	require.NoError(t, err)

	ok, err := v.Verify(dir)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestEd25519Verifier_TamperedIntegrityFileFails(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	dir := t.TempDir()
	sum := []byte("deadbeef  some.nasl\n")
	sig := ed25519.Sign(priv, sum)
	require.NoError(t, os.WriteFile(filepath.Join(dir, SignatureFile), []byte(hex.EncodeToString(sig)), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, IntegrityFile), []byte("tampered\n"), 0o644))

	v, err := NewEd25519Verifier(hex.EncodeToString(pub))
	require.NoError(t, err)

	ok, err := v.Verify(dir)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestNewEd25519Verifier_RejectsWrongKeyLength(t *testing.T) {
	_, err := NewEd25519Verifier("deadbeef")
	require.Error(t, err)
}

func TestAlwaysValid(t *testing.T) {
	v := AlwaysValid{}
	ok, err := v.Verify("/nonexistent")
	require.NoError(t, err)
	require.True(t, ok)
}
