package wire

import (
	"encoding/binary"

	"github.com/cvsouth/srd-go/srderr"
)

// MaxDelegateSize bounds the accepted ciphertext length, well above any
// realistic credential blob, to reject a forged oversized `size` field
// before it causes a large allocation.
const MaxDelegateSize = 1 << 20

// Delegate is message kind 5: the initiator's encrypted credential blob.
type Delegate struct {
	EncryptedBlob []byte
	MAC           [MACSize]byte
}

func (m Delegate) Type() uint8      { return TypeDelegate }
func (m Delegate) Seq() uint8       { return SeqDelegate }
func (m Delegate) CarriesMAC() bool { return true }

// Inner serializes the message without its MAC trailer.
func (m Delegate) Inner() []byte {
	buf := make([]byte, prologLen+4+len(m.EncryptedBlob))
	writeProlog(buf, TypeDelegate, SeqDelegate, FlagMAC)
	binary.LittleEndian.PutUint32(buf[prologLen:prologLen+4], uint32(len(m.EncryptedBlob)))
	copy(buf[prologLen+4:], m.EncryptedBlob)
	return buf
}

func (m Delegate) Encode() []byte {
	inner := m.Inner()
	buf := make([]byte, len(inner)+MACSize)
	copy(buf, inner)
	copy(buf[len(inner):], m.MAC[:])
	return buf
}

// DecodeDelegate parses a DELEGATE message.
func DecodeDelegate(buf []byte) (Delegate, error) {
	p, err := readProlog(buf)
	if err != nil {
		return Delegate{}, err
	}
	if p.typ != TypeDelegate {
		return Delegate{}, srderr.New(srderr.KindMalformed, "not a DELEGATE message")
	}
	if p.flags != FlagMAC {
		return Delegate{}, srderr.New(srderr.KindMalformed, "DELEGATE must carry only the MAC flag")
	}
	if len(buf) < prologLen+4 {
		return Delegate{}, srderr.New(srderr.KindMalformed, "DELEGATE too short")
	}
	size := binary.LittleEndian.Uint32(buf[prologLen : prologLen+4])
	if size > MaxDelegateSize {
		return Delegate{}, srderr.New(srderr.KindMalformed, "DELEGATE size exceeds maximum")
	}
	total := prologLen + 4 + int(size) + MACSize
	if len(buf) < total {
		return Delegate{}, srderr.New(srderr.KindMalformed, "DELEGATE truncated")
	}
	if len(buf) > total {
		return Delegate{}, srderr.New(srderr.KindMalformed, "DELEGATE has trailing bytes")
	}
	var m Delegate
	m.EncryptedBlob = append([]byte(nil), buf[prologLen+4:prologLen+4+int(size)]...)
	copy(m.MAC[:], buf[prologLen+4+int(size):])
	return m, nil
}
