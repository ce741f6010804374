package cryptoimpl

import (
	"bytes"
	"math/big"
	"testing"
)

// a 384-bit odd modulus for testing (not prime and not a real RFC group;
// modexp agreement holds for any modulus, so it is enough to exercise the
// modexp path).
var testPrime, _ = new(big.Int).SetString(
	"FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD129024E088A67CC74020BBEA63B139B22514A08798E3404DD", 16)

func TestDHAgreement(t *testing.T) {
	prime := testPrime.Bytes()
	gen := [2]byte{0x02, 0x00} // little-endian 2, matching spec §6 byte ordering

	aPriv, aPub, err := DHGenerate(gen, prime)
	if err != nil {
		t.Fatal(err)
	}
	bPriv, bPub, err := DHGenerate(gen, prime)
	if err != nil {
		t.Fatal(err)
	}

	sharedA, err := DHAgree(aPriv, bPub, prime)
	if err != nil {
		t.Fatal(err)
	}
	sharedB, err := DHAgree(bPriv, aPub, prime)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(sharedA, sharedB) {
		t.Fatal("both sides must derive the same shared secret")
	}
	if len(aPub) != len(prime) || len(bPub) != len(prime) {
		t.Fatal("public keys must be left-padded to the prime's width")
	}
}

func TestDHAgreeRejectsOutOfRangePublicKey(t *testing.T) {
	prime := testPrime.Bytes()
	gen := [2]byte{0x02, 0x00}
	priv, _, err := DHGenerate(gen, prime)
	if err != nil {
		t.Fatal(err)
	}
	oversized := append([]byte{0xFF}, prime...)
	if _, err := DHAgree(priv, oversized, prime); err == nil {
		t.Fatal("expected error for remote public key >= prime")
	}
}
