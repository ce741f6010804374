package wire

import (
	"encoding/binary"

	"github.com/cvsouth/srd-go/srderr"
)

// Offer is message kind 2: the responder returns its DH group, public
// key, nonce, and optional channel-binding hash. Carries no MAC.
type Offer struct {
	CipherMask uint32
	KeySize    uint16
	Generator  [2]byte
	Prime      []byte // len == KeySize/8
	PublicKey  []byte // len == KeySize/8
	Nonce      [NonceSize]byte
	CBT        *[CBTSize]byte // nil if no channel binding advertised
}

func (m Offer) Type() uint8      { return TypeOffer }
func (m Offer) Seq() uint8       { return SeqOffer }
func (m Offer) CarriesMAC() bool { return false }

func (m Offer) bodyLen() int {
	w := KeySizeBytes(m.KeySize)
	return 4 + 2 + 2 + 2 + w + w + NonceSize + CBTSize
}

func (m Offer) Encode() []byte {
	w := KeySizeBytes(m.KeySize)
	buf := make([]byte, prologLen+m.bodyLen())
	var flags uint16
	if m.CBT != nil {
		flags = FlagCBT
	}
	writeProlog(buf, TypeOffer, SeqOffer, flags)
	off := prologLen
	binary.LittleEndian.PutUint32(buf[off:off+4], m.CipherMask)
	off += 4
	binary.LittleEndian.PutUint16(buf[off:off+2], m.KeySize)
	off += 2
	binary.LittleEndian.PutUint16(buf[off:off+2], 0) // reserved
	off += 2
	copy(buf[off:off+2], m.Generator[:])
	off += 2
	copy(buf[off:off+w], m.Prime)
	off += w
	copy(buf[off:off+w], padPublicKey(m.PublicKey, w))
	off += w
	copy(buf[off:off+NonceSize], m.Nonce[:])
	off += NonceSize
	if m.CBT != nil {
		copy(buf[off:off+CBTSize], m.CBT[:])
	}
	return buf
}

// Inner is identical to Encode for a MAC-less message.
func (m Offer) Inner() []byte { return m.Encode() }

// DecodeOffer parses an OFFER message.
func DecodeOffer(buf []byte) (Offer, error) {
	p, err := readProlog(buf)
	if err != nil {
		return Offer{}, err
	}
	if p.typ != TypeOffer {
		return Offer{}, srderr.New(srderr.KindMalformed, "not an OFFER message")
	}
	if p.flags&^FlagCBT != 0 {
		return Offer{}, srderr.New(srderr.KindMalformed, "OFFER flags contain unknown bits")
	}
	const fixedLen = prologLen + 4 + 2 + 2 + 2
	if len(buf) < fixedLen {
		return Offer{}, srderr.New(srderr.KindMalformed, "OFFER too short")
	}
	off := prologLen
	cipherMask := binary.LittleEndian.Uint32(buf[off : off+4])
	off += 4
	keySize := binary.LittleEndian.Uint16(buf[off : off+2])
	off += 2
	reserved := binary.LittleEndian.Uint16(buf[off : off+2])
	off += 2
	if reserved != 0 {
		return Offer{}, srderr.New(srderr.KindMalformed, "OFFER reserved field non-zero")
	}
	if !validKeySize(keySize) {
		return Offer{}, srderr.New(srderr.KindMalformed, "OFFER key_size not one of 256/512/1024")
	}
	w := KeySizeBytes(keySize)
	total := fixedLen + w + w + NonceSize + CBTSize
	if len(buf) < total {
		return Offer{}, srderr.New(srderr.KindMalformed, "OFFER truncated")
	}
	if len(buf) > total {
		return Offer{}, srderr.New(srderr.KindMalformed, "OFFER has trailing bytes")
	}

	m := Offer{CipherMask: cipherMask, KeySize: keySize}
	copy(m.Generator[:], buf[off:off+2])
	off += 2
	m.Prime = append([]byte(nil), buf[off:off+w]...)
	off += w
	m.PublicKey = append([]byte(nil), buf[off:off+w]...)
	off += w
	copy(m.Nonce[:], buf[off:off+NonceSize])
	off += NonceSize
	cbt := buf[off : off+CBTSize]
	if p.flags&FlagCBT != 0 {
		var h [CBTSize]byte
		copy(h[:], cbt)
		m.CBT = &h
	} else if !allZero(cbt) {
		return Offer{}, srderr.New(srderr.KindMalformed, "OFFER cbt bytes non-zero without CBT flag")
	}
	return m, nil
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
