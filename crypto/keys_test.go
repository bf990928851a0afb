package crypto

import (
	"testing"
)

func TestSignAndVerify(t *testing.T) {
	priv := GenPrivKeyEd25519()
	pub := priv.PublicKey()

	msg := []byte("release the funds")
	sig, err := priv.Sign(msg)
	if err != nil {
		t.Fatalf("cannot sign: %+v", err)
	}

	if !pub.Verify(msg, sig) {
		t.Fatal("signature must verify")
	}
	if pub.Verify([]byte("other message"), sig) {
		t.Fatal("wrong message must not verify")
	}
	if GenPrivKeyEd25519().PublicKey().Verify(msg, sig) {
		t.Fatal("wrong key must not verify")
	}
}

func TestConditionAndAddress(t *testing.T) {
	priv := GenPrivKeyEd25519()

	cond := priv.PublicKey().Condition()
	if err := cond.Validate(); err != nil {
		t.Fatalf("condition must be valid: %+v", err)
	}
	if err := priv.PublicKey().Address().Validate(); err != nil {
		t.Fatalf("address must be valid: %+v", err)
	}

	// Two keys, two identities.
	other := GenPrivKeyEd25519()
	if cond.Equals(other.PublicKey().Condition()) {
		t.Fatal("different keys must produce different conditions")
	}
}
