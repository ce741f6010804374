// Package suite implements symmetric cipher negotiation and the
// encryption of the DELEGATE credential blob under the negotiated suite
// (spec §4.5).
package suite

import (
	"github.com/cvsouth/srd-go/primitives"
	"github.com/cvsouth/srd-go/srderr"
	"github.com/cvsouth/srd-go/wire"
)

// Suite bits, re-exported from package wire so callers need not import
// both.
const (
	AES256CBC uint32 = wire.CipherAES256CBC
	XChaCha20 uint32 = wire.CipherXChaCha20
)

// HighestCommon picks the highest-bit cipher present in the intersection
// of local and remote masks (spec §4.6, transition rule 2). Returns
// NoCipher if the intersection is empty.
func HighestCommon(local, remote uint32) (uint32, error) {
	common := local & remote
	if common == 0 {
		return 0, srderr.New(srderr.KindNoCipher, "no common cipher suite")
	}
	var best uint32
	for bit := uint32(1); bit != 0; bit <<= 1 {
		if common&bit != 0 {
			best = bit
		}
	}
	return best, nil
}

// IsSingleBit reports whether v has exactly one bit set, used to reject
// an ACCEPT.Cipher value that isn't a single negotiated suite.
func IsSingleBit(v uint32) bool {
	return v != 0 && v&(v-1) == 0
}

// PadToBlock zero-pads data to the next 16-byte boundary (spec §4.2):
// "The plaintext itself is padded by the encoder to the nearest 16-byte
// boundary with zero bytes."
func PadToBlock(data []byte) []byte {
	rem := len(data) % 16
	if rem == 0 {
		return data
	}
	out := make([]byte, len(data)+(16-rem))
	copy(out, data)
	return out
}

// Encrypt encrypts plaintext under the negotiated suite. For AES-256-CBC
// the caller must have already padded plaintext to a 16-byte boundary
// (see PadToBlock); for XChaCha20 any length is accepted.
func Encrypt(p primitives.Providers, s uint32, key [32]byte, ivMaterial [32]byte, plaintext []byte) ([]byte, error) {
	switch s {
	case AES256CBC:
		var iv [16]byte
		copy(iv[:], ivMaterial[:16])
		ct, err := p.AESCBCEncrypt(key, iv, plaintext)
		if err != nil {
			return nil, srderr.Wrap(srderr.KindCryptoFailure, "AES-256-CBC encrypt", err)
		}
		return ct, nil
	case XChaCha20:
		var nonce [24]byte
		copy(nonce[:], ivMaterial[:24])
		ct, err := p.XChaCha20(key, nonce, plaintext)
		if err != nil {
			return nil, srderr.Wrap(srderr.KindCryptoFailure, "XChaCha20 encrypt", err)
		}
		return ct, nil
	default:
		return nil, srderr.New(srderr.KindNoCipher, "unknown cipher suite")
	}
}

// Decrypt decrypts ciphertext under the negotiated suite.
func Decrypt(p primitives.Providers, s uint32, key [32]byte, ivMaterial [32]byte, ciphertext []byte) ([]byte, error) {
	switch s {
	case AES256CBC:
		if len(ciphertext)%16 != 0 {
			return nil, srderr.New(srderr.KindMalformed, "AES-256-CBC ciphertext not block-aligned")
		}
		var iv [16]byte
		copy(iv[:], ivMaterial[:16])
		pt, err := p.AESCBCDecrypt(key, iv, ciphertext)
		if err != nil {
			return nil, srderr.Wrap(srderr.KindCryptoFailure, "AES-256-CBC decrypt", err)
		}
		return pt, nil
	case XChaCha20:
		var nonce [24]byte
		copy(nonce[:], ivMaterial[:24])
		pt, err := p.XChaCha20(key, nonce, ciphertext)
		if err != nil {
			return nil, srderr.Wrap(srderr.KindCryptoFailure, "XChaCha20 decrypt", err)
		}
		return pt, nil
	default:
		return nil, srderr.New(srderr.KindNoCipher, "unknown cipher suite")
	}
}
