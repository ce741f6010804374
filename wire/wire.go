// Package wire implements the SRD on-wire message framing: encoding and
// decoding of the six handshake message kinds to and from byte buffers.
//
// The codec never performs cryptographic verification. It only checks
// framing invariants (signature, packet type, declared lengths, reserved
// fields) and raises Malformed when one is violated.
package wire

import (
	"encoding/binary"

	"github.com/cvsouth/srd-go/srderr"
)

// Magic is the 32-bit little-endian signature every message begins with.
const Magic uint32 = 0x1C35F427

// Packet type identifiers. Each also equals (seq + 1) for the single
// handshake this codec serializes.
const (
	TypeInitiate uint8 = 1
	TypeOffer    uint8 = 2
	TypeAccept   uint8 = 3
	TypeConfirm  uint8 = 4
	TypeDelegate uint8 = 5
	TypeResult   uint8 = 6
)

// Sequence numbers, one per packet type, in handshake order.
const (
	SeqInitiate uint8 = 0
	SeqOffer    uint8 = 1
	SeqAccept   uint8 = 2
	SeqConfirm  uint8 = 3
	SeqDelegate uint8 = 4
	SeqResult   uint8 = 5
)

// Cipher suite bits, shared with package suite.
const (
	CipherAES256CBC uint32 = 0x01
	CipherXChaCha20 uint32 = 0x02
)

// FlagCBT marks the presence of a channel-binding hash in OFFER/ACCEPT.
const FlagCBT uint16 = 0x0001

// FlagMAC marks a message as carrying a MAC trailer, matching the
// ground-truth SRD_FLAG_MAC set on ACCEPT/CONFIRM/DELEGATE/RESULT.
const FlagMAC uint16 = 0x0002

// MACSize is the width, in bytes, of every MAC trailer.
const MACSize = 32

// NonceSize is the width, in bytes, of every handshake nonce.
const NonceSize = 32

// CBTSize is the width, in bytes, of a channel-binding hash.
const CBTSize = 32

const prologLen = 8

// Message is the shared capability surface of every handshake message.
type Message interface {
	// Type returns this message's packet type identifier.
	Type() uint8
	// Seq returns this message's fixed ordinal position in the handshake.
	Seq() uint8
	// CarriesMAC reports whether this message kind has a MAC trailer.
	CarriesMAC() bool
	// Encode serializes the full message, including any MAC trailer.
	Encode() []byte
	// Inner serializes the message without its MAC trailer. This is what
	// feeds the running transcript (see package transcript).
	Inner() []byte
}

// KeySizeBytes converts a DH key size in bits to the byte width used for
// the prime and public key fields. Returns 0 for an unrecognized size.
func KeySizeBytes(keySizeBits uint16) int {
	switch keySizeBits {
	case 256, 512, 1024:
		return int(keySizeBits) / 8
	default:
		return 0
	}
}

func writeProlog(buf []byte, typ, seq uint8, flags uint16) {
	binary.LittleEndian.PutUint32(buf[0:4], Magic)
	buf[4] = typ
	buf[5] = seq
	binary.LittleEndian.PutUint16(buf[6:8], flags)
}

type prolog struct {
	typ   uint8
	seq   uint8
	flags uint16
}

func readProlog(buf []byte) (prolog, error) {
	if len(buf) < prologLen {
		return prolog{}, srderr.New(srderr.KindMalformed, "buffer shorter than prolog")
	}
	if binary.LittleEndian.Uint32(buf[0:4]) != Magic {
		return prolog{}, srderr.New(srderr.KindBadSignature, "signature mismatch")
	}
	typ := buf[4]
	if typ < TypeInitiate || typ > TypeResult {
		return prolog{}, srderr.New(srderr.KindMalformed, "packet type out of range")
	}
	return prolog{typ: typ, seq: buf[5], flags: binary.LittleEndian.Uint16(buf[6:8])}, nil
}

// padPublicKey left-pads a public key with zeros to the given width.
func padPublicKey(pub []byte, width int) []byte {
	if len(pub) >= width {
		return pub[len(pub)-width:]
	}
	out := make([]byte, width)
	copy(out[width-len(pub):], pub)
	return out
}

func validKeySize(keySize uint16) bool {
	return KeySizeBytes(keySize) != 0
}

// Decode dispatches on the packet type and returns the decoded message.
func Decode(buf []byte) (Message, error) {
	p, err := readProlog(buf)
	if err != nil {
		return nil, err
	}
	switch p.typ {
	case TypeInitiate:
		return DecodeInitiate(buf)
	case TypeOffer:
		return DecodeOffer(buf)
	case TypeAccept:
		return DecodeAccept(buf)
	case TypeConfirm:
		return DecodeConfirm(buf)
	case TypeDelegate:
		return DecodeDelegate(buf)
	case TypeResult:
		return DecodeResult(buf)
	default:
		return nil, srderr.New(srderr.KindMalformed, "packet type out of range")
	}
}
