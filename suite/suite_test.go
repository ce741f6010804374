package suite

import (
	"bytes"
	"testing"

	"github.com/cvsouth/srd-go/cryptoimpl"
)

func TestHighestCommonPicksTopBit(t *testing.T) {
	got, err := HighestCommon(AES256CBC|XChaCha20, XChaCha20)
	if err != nil {
		t.Fatal(err)
	}
	if got != XChaCha20 {
		t.Fatalf("expected XChaCha20, got %#x", got)
	}
}

func TestHighestCommonNoIntersection(t *testing.T) {
	if _, err := HighestCommon(AES256CBC, XChaCha20); err == nil {
		t.Fatal("expected NoCipher error for empty intersection")
	}
}

func TestCipherRoundTripBothSuites(t *testing.T) {
	p := cryptoimpl.Default()
	var key, iv [32]byte
	copy(key[:], bytes.Repeat([]byte{0x01}, 32))
	copy(iv[:], bytes.Repeat([]byte{0x02}, 32))

	for _, s := range []uint32{AES256CBC, XChaCha20} {
		plaintext := PadToBlock([]byte("hello SRD"))
		ct, err := Encrypt(p, s, key, iv, plaintext)
		if err != nil {
			t.Fatal(err)
		}
		pt, err := Decrypt(p, s, key, iv, ct)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(pt, plaintext) {
			t.Fatalf("suite %#x: round-trip mismatch", s)
		}
	}
}

func TestPadToBlock(t *testing.T) {
	if len(PadToBlock([]byte("12345678901234567"))) != 32 {
		t.Fatal("expected padding to next 16-byte boundary")
	}
	if len(PadToBlock(make([]byte, 16))) != 16 {
		t.Fatal("exact multiple should not be padded further")
	}
}
