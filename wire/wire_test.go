package wire

import (
	"bytes"
	"testing"
)

func TestInitiateRoundTrip(t *testing.T) {
	m := Initiate{CipherMask: 0x03, KeySize: 256}
	got, err := DecodeInitiate(m.Encode())
	if err != nil {
		t.Fatal(err)
	}
	if got != m {
		t.Fatalf("round-trip mismatch: %+v != %+v", got, m)
	}
}

func TestInitiateRejectsReserved(t *testing.T) {
	buf := Initiate{CipherMask: 1, KeySize: 256}.Encode()
	buf[14] = 0xFF
	if _, err := DecodeInitiate(buf); err == nil {
		t.Fatal("expected error for non-zero reserved field")
	}
}

func TestInitiateRejectsBadSignature(t *testing.T) {
	buf := Initiate{CipherMask: 1, KeySize: 256}.Encode()
	buf[0] ^= 0xFF
	if _, err := DecodeInitiate(buf); err == nil {
		t.Fatal("expected error for bad signature")
	}
}

func TestOfferRoundTripNoCBT(t *testing.T) {
	m := Offer{
		CipherMask: 0x03,
		KeySize:    256,
		Generator:  [2]byte{0x00, 0x02},
		Prime:      bytes.Repeat([]byte{0xAB}, 32),
		PublicKey:  bytes.Repeat([]byte{0xCD}, 32),
	}
	got, err := DecodeOffer(m.Encode())
	if err != nil {
		t.Fatal(err)
	}
	if got.CBT != nil {
		t.Fatal("expected nil CBT")
	}
	got.CBT = nil
	if !equalOffer(got, m) {
		t.Fatalf("round-trip mismatch: %+v != %+v", got, m)
	}
}

func TestOfferRoundTripWithCBT(t *testing.T) {
	cbt := [32]byte{1, 2, 3}
	m := Offer{
		CipherMask: 0x03,
		KeySize:    512,
		Generator:  [2]byte{0x00, 0x02},
		Prime:      bytes.Repeat([]byte{0x11}, 64),
		PublicKey:  bytes.Repeat([]byte{0x22}, 64),
		CBT:        &cbt,
	}
	got, err := DecodeOffer(m.Encode())
	if err != nil {
		t.Fatal(err)
	}
	if got.CBT == nil || *got.CBT != cbt {
		t.Fatal("CBT not preserved")
	}
}

func TestOfferPublicKeyPadding(t *testing.T) {
	m := Offer{
		CipherMask: 1,
		KeySize:    256,
		Generator:  [2]byte{0, 2},
		Prime:      bytes.Repeat([]byte{0x01}, 32),
		PublicKey:  []byte{0xFF, 0xFF}, // shorter than 32 bytes
	}
	got, err := DecodeOffer(m.Encode())
	if err != nil {
		t.Fatal(err)
	}
	want := make([]byte, 32)
	want[30], want[31] = 0xFF, 0xFF
	if !bytes.Equal(got.PublicKey, want) {
		t.Fatalf("expected left-padded public key, got %x", got.PublicKey)
	}
}

func TestOfferRejectsCBTBytesWithoutFlag(t *testing.T) {
	m := Offer{
		CipherMask: 1,
		KeySize:    256,
		Generator:  [2]byte{0, 2},
		Prime:      bytes.Repeat([]byte{0x01}, 32),
		PublicKey:  bytes.Repeat([]byte{0x02}, 32),
	}
	buf := m.Encode()
	// Corrupt the zeroed CBT region without setting the flag.
	buf[len(buf)-1] = 0x01
	if _, err := DecodeOffer(buf); err == nil {
		t.Fatal("expected Malformed for non-zero cbt without flag")
	}
}

func TestAcceptRoundTrip(t *testing.T) {
	m := Accept{
		Cipher:    CipherAES256CBC,
		KeySize:   256,
		PublicKey: bytes.Repeat([]byte{0x33}, 32),
		MAC:       [32]byte{9, 9, 9},
	}
	got, err := DecodeAccept(m.Encode())
	if err != nil {
		t.Fatal(err)
	}
	if got.Cipher != m.Cipher || got.KeySize != m.KeySize || !bytes.Equal(got.PublicKey, m.PublicKey) || got.MAC != m.MAC {
		t.Fatalf("round-trip mismatch: %+v != %+v", got, m)
	}
}

func TestConfirmRoundTrip(t *testing.T) {
	m := Confirm{MAC: [32]byte{1, 2, 3, 4}}
	got, err := DecodeConfirm(m.Encode())
	if err != nil {
		t.Fatal(err)
	}
	if got != m {
		t.Fatal("round-trip mismatch")
	}
}

func TestDelegateRoundTrip(t *testing.T) {
	m := Delegate{EncryptedBlob: bytes.Repeat([]byte{0x77}, 48), MAC: [32]byte{5}}
	got, err := DecodeDelegate(m.Encode())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got.EncryptedBlob, m.EncryptedBlob) || got.MAC != m.MAC {
		t.Fatal("round-trip mismatch")
	}
}

func TestDelegateRejectsTruncated(t *testing.T) {
	m := Delegate{EncryptedBlob: bytes.Repeat([]byte{0x77}, 16), MAC: [32]byte{5}}
	buf := m.Encode()
	if _, err := DecodeDelegate(buf[:len(buf)-1]); err == nil {
		t.Fatal("expected Malformed for truncated DELEGATE")
	}
}

func TestResultRoundTrip(t *testing.T) {
	m := Result{Status: 4, MAC: [32]byte{1}}
	got, err := DecodeResult(m.Encode())
	if err != nil {
		t.Fatal(err)
	}
	if got != m {
		t.Fatal("round-trip mismatch")
	}
}

func TestDecodeDispatch(t *testing.T) {
	msgs := []Message{
		Initiate{CipherMask: 1, KeySize: 256},
		Result{Status: 0},
	}
	for _, m := range msgs {
		got, err := Decode(m.Encode())
		if err != nil {
			t.Fatal(err)
		}
		if got.Type() != m.Type() || got.Seq() != m.Seq() {
			t.Fatalf("dispatch mismatch for type %d", m.Type())
		}
	}
}

func equalOffer(a, b Offer) bool {
	return a.CipherMask == b.CipherMask &&
		a.KeySize == b.KeySize &&
		a.Generator == b.Generator &&
		bytes.Equal(a.Prime, b.Prime) &&
		bytes.Equal(a.PublicKey, b.PublicKey) &&
		a.Nonce == b.Nonce
}
