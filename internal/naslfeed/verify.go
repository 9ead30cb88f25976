package naslfeed

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/ed25519"
)

// IntegrityFile and SignatureFile are the two distinguished files at
// the feed root spec §6 names: "one integrity file (e.g. sha256sums)
// and its detached signature".
const (
	IntegrityFile = "sha256sums"
	SignatureFile = "sha256sums.asc"
)

// SignatureVerifier is the boolean gate spec §1 calls "signature
// verification (a boolean gate we call through)" — the core treats it
// as an opaque external collaborator; only the concrete
// Ed25519Verifier below does real cryptography.
type SignatureVerifier interface {
	Verify(root string) (bool, error)
}

// Ed25519Verifier checks a detached Ed25519 signature (hex-encoded)
// over the feed's integrity file against a fixed public key, the way
// the legacy feed signer publishes sha256sums.asc alongside
// sha256sums.
type Ed25519Verifier struct {
	PublicKey ed25519.PublicKey
}

// NewEd25519Verifier builds a verifier from a hex-encoded public key.
func NewEd25519Verifier(hexPublicKey string) (*Ed25519Verifier, error) {
	raw, err := hex.DecodeString(hexPublicKey)
	if err != nil {
		return nil, fmt.Errorf("decode public key: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key must be %d bytes, got %d", ed25519.PublicKeySize, len(raw))
	}
	return &Ed25519Verifier{PublicKey: ed25519.PublicKey(raw)}, nil
}

// Verify reads root's integrity file and detached signature and
// reports whether the signature is valid.
func (v *Ed25519Verifier) Verify(root string) (bool, error) {
	sum, err := os.ReadFile(filepath.Join(root, IntegrityFile))
	if err != nil {
		return false, fmt.Errorf("read %s: %w", IntegrityFile, err)
	}
	sigHex, err := os.ReadFile(filepath.Join(root, SignatureFile))
	if err != nil {
		return false, fmt.Errorf("read %s: %w", SignatureFile, err)
	}
	sig, err := hex.DecodeString(trimTrailingNewline(sigHex))
	if err != nil {
		return false, fmt.Errorf("decode signature: %w", err)
	}
	return ed25519.Verify(v.PublicKey, sum, sig), nil
}

func trimTrailingNewline(b []byte) string {
	s := string(b)
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

// AlwaysValid is a SignatureVerifier that always passes — used when
// the CLI is invoked with signature checking disabled (local
// development feeds have no signer).
type AlwaysValid struct{}

func (AlwaysValid) Verify(string) (bool, error) { return true, nil }
