package keyschedule

import (
	"crypto/hmac"
	"crypto/sha256"
	"testing"
)

func hmacSHA256(key, msg []byte) [32]byte {
	h := hmac.New(sha256.New, key)
	h.Write(msg)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func TestDeriveDeterministicAndDistinctKeys(t *testing.T) {
	shared := []byte("shared-secret")
	var clientNonce, serverNonce [32]byte
	clientNonce[0] = 1
	serverNonce[0] = 2

	k1 := Derive(hmacSHA256, shared, clientNonce, serverNonce)
	k2 := Derive(hmacSHA256, shared, clientNonce, serverNonce)
	if k1 != k2 {
		t.Fatal("Derive must be deterministic")
	}
	if k1.Integrity == k1.Delegation || k1.Integrity == k1.IV || k1.Delegation == k1.IV {
		t.Fatal("the three derived keys must be distinct")
	}
}

func TestDeriveSensitiveToNonces(t *testing.T) {
	shared := []byte("shared-secret")
	var clientNonce, serverNonce, otherServerNonce [32]byte
	clientNonce[0] = 1
	serverNonce[0] = 2
	otherServerNonce[0] = 3

	k1 := Derive(hmacSHA256, shared, clientNonce, serverNonce)
	k2 := Derive(hmacSHA256, shared, clientNonce, otherServerNonce)
	if k1.Integrity == k2.Integrity {
		t.Fatal("changing server nonce must change derived keys")
	}
}
