package transcript

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

func TestComputeMACDeterministic(t *testing.T) {
	tr := New()
	tr.Append([]byte("initiate"))
	tr.Append([]byte("offer"))
	key := []byte("integrity-key")
	m1 := ComputeMAC(hmacSHA256, key, tr, []byte("accept"))
	m2 := ComputeMAC(hmacSHA256, key, tr, []byte("accept"))
	if m1 != m2 {
		t.Fatal("MAC should be deterministic for identical transcripts")
	}
}

func TestVerifyMACDetectsTamperedPriorMessage(t *testing.T) {
	key := []byte("integrity-key")

	good := New()
	good.Append([]byte("initiate"))
	good.Append([]byte("offer"))
	mac := ComputeMAC(hmacSHA256, key, good, []byte("accept"))

	tampered := New()
	tampered.Append([]byte("initiatf")) // one byte flipped
	tampered.Append([]byte("offer"))

	if err := VerifyMAC(hmacSHA256, key, tampered, []byte("accept"), mac); err == nil {
		t.Fatal("expected MAC verification to fail on tampered prior message")
	}
}

func TestVerifyMACAcceptsMatching(t *testing.T) {
	key := []byte("integrity-key")
	tr := New()
	tr.Append([]byte("initiate"))
	mac := ComputeMAC(hmacSHA256, key, tr, []byte("offer"))
	if err := VerifyMAC(hmacSHA256, key, tr, []byte("offer"), mac); err != nil {
		t.Fatal(err)
	}
}
