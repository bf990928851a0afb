package crypto

import (
	"crypto/rand"

	"golang.org/x/crypto/ed25519"

	"github.com/iov-one/bastion"
	"github.com/iov-one/bastion/errors"
)

// Signer is implemented by anything that can authorize on behalf of an
// identity. The state machine itself never verifies signatures; the host
// does that and resolves callers into conditions before dispatch. Signer
// exists for hosts and tests producing those identities.
type Signer interface {
	Sign(message []byte) ([]byte, error)
	PublicKey() PublicKey
}

// PublicKey is a raw ed25519 public key.
type PublicKey []byte

// Condition returns the condition this key fulfills when it signs.
func (p PublicKey) Condition() bastion.Condition {
	return bastion.NewCondition("sigs", "ed25519", p)
}

// Address is a shortcut for Condition().Address().
func (p PublicKey) Address() bastion.Address {
	return p.Condition().Address()
}

// Verify checks that the signature matches this key and message.
func (p PublicKey) Verify(message, sig []byte) bool {
	if len(p) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p), message, sig)
}

// PrivateKey wraps an ed25519 private key and implements Signer.
type PrivateKey ed25519.PrivateKey

var _ Signer = PrivateKey{}

// GenPrivKeyEd25519 creates a new random private key.
func GenPrivKeyEd25519() PrivateKey {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		// Only fails when the system entropy source is broken.
		panic(err)
	}
	return PrivateKey(priv)
}

// Sign produces an ed25519 signature of the message.
func (p PrivateKey) Sign(message []byte) ([]byte, error) {
	if len(p) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrInput, "malformed private key")
	}
	return ed25519.Sign(ed25519.PrivateKey(p), message), nil
}

// PublicKey returns the public half of this key.
func (p PrivateKey) PublicKey() PublicKey {
	return PublicKey(ed25519.PrivateKey(p).Public().(ed25519.PublicKey))
}
