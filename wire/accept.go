package wire

import (
	"encoding/binary"

	"github.com/cvsouth/srd-go/srderr"
)

// Accept is message kind 3: the initiator returns its chosen cipher,
// public key, nonce, and optional channel-binding hash. First MAC-bearing
// message: the responder verifies its MAC on receipt, as soon as the keys
// derived from the DH agreement exist (see package handshake).
type Accept struct {
	Cipher    uint32
	KeySize   uint16
	PublicKey []byte // len == KeySize/8
	Nonce     [NonceSize]byte
	CBT       *[CBTSize]byte
	MAC       [MACSize]byte
}

func (m Accept) Type() uint8      { return TypeAccept }
func (m Accept) Seq() uint8       { return SeqAccept }
func (m Accept) CarriesMAC() bool { return true }

func (m Accept) innerLen() int {
	w := KeySizeBytes(m.KeySize)
	return prologLen + 4 + 2 + 2 + w + NonceSize + CBTSize
}

// Inner serializes the message without its MAC trailer.
func (m Accept) Inner() []byte {
	w := KeySizeBytes(m.KeySize)
	buf := make([]byte, m.innerLen())
	flags := FlagMAC
	if m.CBT != nil {
		flags |= FlagCBT
	}
	writeProlog(buf, TypeAccept, SeqAccept, flags)
	off := prologLen
	binary.LittleEndian.PutUint32(buf[off:off+4], m.Cipher)
	off += 4
	binary.LittleEndian.PutUint16(buf[off:off+2], m.KeySize)
	off += 2
	binary.LittleEndian.PutUint16(buf[off:off+2], 0) // reserved
	off += 2
	copy(buf[off:off+w], padPublicKey(m.PublicKey, w))
	off += w
	copy(buf[off:off+NonceSize], m.Nonce[:])
	off += NonceSize
	if m.CBT != nil {
		copy(buf[off:off+CBTSize], m.CBT[:])
	}
	return buf
}

func (m Accept) Encode() []byte {
	inner := m.Inner()
	buf := make([]byte, len(inner)+MACSize)
	copy(buf, inner)
	copy(buf[len(inner):], m.MAC[:])
	return buf
}

// DecodeAccept parses an ACCEPT message.
func DecodeAccept(buf []byte) (Accept, error) {
	p, err := readProlog(buf)
	if err != nil {
		return Accept{}, err
	}
	if p.typ != TypeAccept {
		return Accept{}, srderr.New(srderr.KindMalformed, "not an ACCEPT message")
	}
	if p.flags&^(FlagCBT|FlagMAC) != 0 {
		return Accept{}, srderr.New(srderr.KindMalformed, "ACCEPT flags contain unknown bits")
	}
	if p.flags&FlagMAC == 0 {
		return Accept{}, srderr.New(srderr.KindMalformed, "ACCEPT must carry the MAC flag")
	}
	const fixedLen = prologLen + 4 + 2 + 2
	if len(buf) < fixedLen {
		return Accept{}, srderr.New(srderr.KindMalformed, "ACCEPT too short")
	}
	off := prologLen
	cipher := binary.LittleEndian.Uint32(buf[off : off+4])
	off += 4
	keySize := binary.LittleEndian.Uint16(buf[off : off+2])
	off += 2
	reserved := binary.LittleEndian.Uint16(buf[off : off+2])
	off += 2
	if reserved != 0 {
		return Accept{}, srderr.New(srderr.KindMalformed, "ACCEPT reserved field non-zero")
	}
	if !validKeySize(keySize) {
		return Accept{}, srderr.New(srderr.KindMalformed, "ACCEPT key_size not one of 256/512/1024")
	}
	w := KeySizeBytes(keySize)
	total := fixedLen + w + NonceSize + CBTSize + MACSize
	if len(buf) < total {
		return Accept{}, srderr.New(srderr.KindMalformed, "ACCEPT truncated")
	}
	if len(buf) > total {
		return Accept{}, srderr.New(srderr.KindMalformed, "ACCEPT has trailing bytes")
	}

	m := Accept{Cipher: cipher, KeySize: keySize}
	m.PublicKey = append([]byte(nil), buf[off:off+w]...)
	off += w
	copy(m.Nonce[:], buf[off:off+NonceSize])
	off += NonceSize
	cbt := buf[off : off+CBTSize]
	off += CBTSize
	if p.flags&FlagCBT != 0 {
		var h [CBTSize]byte
		copy(h[:], cbt)
		m.CBT = &h
	} else if !allZero(cbt) {
		return Accept{}, srderr.New(srderr.KindMalformed, "ACCEPT cbt bytes non-zero without CBT flag")
	}
	copy(m.MAC[:], buf[off:off+MACSize])
	return m, nil
}
