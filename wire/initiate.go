package wire

import (
	"encoding/binary"

	"github.com/cvsouth/srd-go/srderr"
)

// initiateLen is the fixed wire length of an INITIATE message.
const initiateLen = prologLen + 4 + 2 + 2

// Initiate is message kind 1: the initiator advertises supported ciphers
// and its desired DH key size. Carries no MAC.
type Initiate struct {
	CipherMask uint32
	KeySize    uint16
}

func (m Initiate) Type() uint8      { return TypeInitiate }
func (m Initiate) Seq() uint8       { return SeqInitiate }
func (m Initiate) CarriesMAC() bool { return false }

func (m Initiate) Encode() []byte {
	buf := make([]byte, initiateLen)
	writeProlog(buf, TypeInitiate, SeqInitiate, 0)
	binary.LittleEndian.PutUint32(buf[8:12], m.CipherMask)
	binary.LittleEndian.PutUint16(buf[12:14], m.KeySize)
	binary.LittleEndian.PutUint16(buf[14:16], 0) // reserved
	return buf
}

// Inner is identical to Encode for a MAC-less message.
func (m Initiate) Inner() []byte { return m.Encode() }

// DecodeInitiate parses an INITIATE message.
func DecodeInitiate(buf []byte) (Initiate, error) {
	p, err := readProlog(buf)
	if err != nil {
		return Initiate{}, err
	}
	if p.typ != TypeInitiate {
		return Initiate{}, srderr.New(srderr.KindMalformed, "not an INITIATE message")
	}
	if p.flags != 0 {
		return Initiate{}, srderr.New(srderr.KindMalformed, "INITIATE flags must be zero")
	}
	if len(buf) < initiateLen {
		return Initiate{}, srderr.New(srderr.KindMalformed, "INITIATE too short")
	}
	if len(buf) > initiateLen {
		return Initiate{}, srderr.New(srderr.KindMalformed, "INITIATE has trailing bytes")
	}
	reserved := binary.LittleEndian.Uint16(buf[14:16])
	if reserved != 0 {
		return Initiate{}, srderr.New(srderr.KindMalformed, "INITIATE reserved field non-zero")
	}
	keySize := binary.LittleEndian.Uint16(buf[12:14])
	if !validKeySize(keySize) {
		return Initiate{}, srderr.New(srderr.KindMalformed, "INITIATE key_size not one of 256/512/1024")
	}
	return Initiate{
		CipherMask: binary.LittleEndian.Uint32(buf[8:12]),
		KeySize:    keySize,
	}, nil
}
