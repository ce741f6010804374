package wire

import "github.com/cvsouth/srd-go/srderr"

// Confirm is message kind 4: the responder's first MAC-protected message,
// confirming the chain up to and including ACCEPT.
type Confirm struct {
	MAC [MACSize]byte
}

func (m Confirm) Type() uint8      { return TypeConfirm }
func (m Confirm) Seq() uint8       { return SeqConfirm }
func (m Confirm) CarriesMAC() bool { return true }

// Inner is just the prolog: CONFIRM's body is the MAC trailer alone.
func (m Confirm) Inner() []byte {
	buf := make([]byte, prologLen)
	writeProlog(buf, TypeConfirm, SeqConfirm, FlagMAC)
	return buf
}

func (m Confirm) Encode() []byte {
	inner := m.Inner()
	buf := make([]byte, len(inner)+MACSize)
	copy(buf, inner)
	copy(buf[len(inner):], m.MAC[:])
	return buf
}

// DecodeConfirm parses a CONFIRM message.
func DecodeConfirm(buf []byte) (Confirm, error) {
	p, err := readProlog(buf)
	if err != nil {
		return Confirm{}, err
	}
	if p.typ != TypeConfirm {
		return Confirm{}, srderr.New(srderr.KindMalformed, "not a CONFIRM message")
	}
	if p.flags != FlagMAC {
		return Confirm{}, srderr.New(srderr.KindMalformed, "CONFIRM must carry only the MAC flag")
	}
	if len(buf) != prologLen+MACSize {
		return Confirm{}, srderr.New(srderr.KindMalformed, "CONFIRM wrong length")
	}
	var m Confirm
	copy(m.MAC[:], buf[prologLen:])
	return m, nil
}
