package handshake

import (
	"github.com/cvsouth/srd-go/credential"
	"github.com/cvsouth/srd-go/keyschedule"
	"github.com/cvsouth/srd-go/srderr"
	"github.com/cvsouth/srd-go/suite"
	"github.com/cvsouth/srd-go/transcript"
	"github.com/cvsouth/srd-go/wire"
)

// stepInitiator drives StateInit through StateGotResult (spec §4.6,
// initiator machine). Each call, other than the first, consumes one
// inbound message; every call produces exactly one outbound message,
// except the one that consumes RESULT, which produces none and ends the
// session.
func (s *Session) stepInitiator(inbound []byte) ([]byte, bool, error) {
	switch s.state {

	case StateInit:
		return s.sendInitiate(inbound)

	case StateSentInitiate:
		return s.recvOfferSendAccept(inbound)

	case StateSentAccept:
		return s.recvConfirmSendDelegate(inbound)

	case StateSentDelegate:
		return s.recvResult(inbound)

	default:
		return s.fail(srderr.KindInvalidState, "initiator: no step defined for current state")
	}
}

func (s *Session) sendInitiate(inbound []byte) ([]byte, bool, error) {
	if inbound != nil {
		return s.fail(srderr.KindInvalidState, "initiator's first Step must have no inbound message")
	}
	if !s.hasCreds {
		return s.fail(srderr.KindInvalidState, "SetCredentials must be called before starting the handshake")
	}
	msg := wire.Initiate{CipherMask: s.localCipherMask, KeySize: s.keySize}
	out := msg.Encode()
	s.transcript.Append(msg.Inner())
	s.state = StateSentInitiate
	s.logger.Info("srd: sent INITIATE", "cipher_mask", s.localCipherMask, "key_size", s.keySize)
	return out, false, nil
}

func (s *Session) recvOfferSendAccept(inbound []byte) ([]byte, bool, error) {
	m, err := wire.Decode(inbound)
	if err != nil {
		return s.failWrap(srderr.KindMalformed, "decoding OFFER", err)
	}
	offer, ok := m.(wire.Offer)
	if !ok || offer.Seq() != wire.SeqOffer {
		return s.fail(srderr.KindDesync, "expected OFFER")
	}
	if len(offer.Prime) != wire.KeySizeBytes(offer.KeySize) || len(offer.PublicKey) != wire.KeySizeBytes(offer.KeySize) {
		return s.fail(srderr.KindMalformed, "OFFER field length does not match its key_size")
	}
	if s.policy.RequireCBT && offer.CBT == nil {
		return s.fail(srderr.KindCbtRequired, "OFFER missing required channel binding")
	}

	// OFFER fixes the DH group and negotiated key size for the rest of
	// the handshake.
	s.keySize = offer.KeySize
	s.generator = offer.Generator
	s.prime = offer.Prime
	s.remotePublic = offer.PublicKey
	s.remoteNonce = offer.Nonce
	s.remoteCBT = offer.CBT
	s.transcript.Append(offer.Inner())
	s.state = StateGotOffer

	chosen, err := suite.HighestCommon(s.localCipherMask, offer.CipherMask)
	if err != nil {
		// No common cipher: scenario E3. The initiator never sends
		// ACCEPT and the handshake dies silently on its side.
		return s.fail(srderr.KindNoCipher, "no cipher suite in common with responder")
	}
	s.negotiatedCipher = chosen

	priv, pub, err := s.providers.DHGenerate(s.generator, s.prime)
	if err != nil {
		return s.failWrap(srderr.KindCryptoFailure, "generating DH keypair", err)
	}
	s.localPrivate, s.localPublic = priv, pub

	shared, err := s.providers.DHAgree(priv, s.remotePublic, s.prime)
	if err != nil {
		return s.failWrap(srderr.KindCryptoFailure, "computing DH shared secret", err)
	}
	s.shared = shared
	s.keys = keyschedule.Derive(s.providers.HMACSHA256, s.shared, s.localNonce, s.remoteNonce)

	accept := wire.Accept{
		Cipher:    chosen,
		KeySize:   s.keySize,
		PublicKey: s.localPublic,
		Nonce:     s.localNonce,
		CBT:       s.policy.CBT,
	}
	accept.MAC = transcript.ComputeMAC(s.providers.HMACSHA256, s.keys.Integrity[:], s.transcript, accept.Inner())
	out := accept.Encode()
	s.transcript.Append(accept.Inner())
	s.state = StateSentAccept
	return out, false, nil
}

func (s *Session) recvConfirmSendDelegate(inbound []byte) ([]byte, bool, error) {
	m, err := wire.Decode(inbound)
	if err != nil {
		return s.failWrap(srderr.KindMalformed, "decoding CONFIRM", err)
	}
	if result, ok := m.(wire.Result); ok {
		// The responder short-circuits to RESULT instead of CONFIRM when it
		// rejects the exchange while processing ACCEPT (NoCipher,
		// CbtMismatch); the initiator must still accept and report it.
		return s.finishOnResult(result)
	}
	confirm, ok := m.(wire.Confirm)
	if !ok || confirm.Seq() != wire.SeqConfirm {
		return s.fail(srderr.KindDesync, "expected CONFIRM")
	}
	if err := transcript.VerifyMAC(s.providers.HMACSHA256, s.keys.Integrity[:], s.transcript, confirm.Inner(), confirm.MAC); err != nil {
		// MacFailure on a pre-DELEGATE message is always silent (spec §7).
		return s.fail(srderr.KindMacFailure, "CONFIRM MAC verification failed")
	}
	s.transcript.Append(confirm.Inner())
	s.state = StateGotConfirm

	blob := credential.EncodeBasicLogon(s.username, s.password)
	plaintext := blob
	if s.negotiatedCipher == suite.AES256CBC {
		plaintext = suite.PadToBlock(blob)
	}
	ciphertext, err := suite.Encrypt(s.providers, s.negotiatedCipher, s.keys.Delegation, s.keys.IV, plaintext)
	if err != nil {
		return s.failWrap(srderr.KindCryptoFailure, "encrypting DELEGATE blob", err)
	}

	delegate := wire.Delegate{EncryptedBlob: ciphertext}
	delegate.MAC = transcript.ComputeMAC(s.providers.HMACSHA256, s.keys.Integrity[:], s.transcript, delegate.Inner())
	out := delegate.Encode()
	s.transcript.Append(delegate.Inner())
	s.state = StateSentDelegate
	return out, false, nil
}

func (s *Session) recvResult(inbound []byte) ([]byte, bool, error) {
	m, err := wire.Decode(inbound)
	if err != nil {
		return s.failWrap(srderr.KindMalformed, "decoding RESULT", err)
	}
	result, ok := m.(wire.Result)
	if !ok || result.Seq() != wire.SeqResult {
		return s.fail(srderr.KindDesync, "expected RESULT")
	}
	return s.finishOnResult(result)
}

// finishOnResult verifies a RESULT's MAC against the transcript as it
// stands, appends it, and terminates the session with its status. Shared
// by the normal StateSentDelegate path and by recvConfirmSendDelegate,
// which may receive a RESULT in CONFIRM's place (spec §8 scenario E4).
func (s *Session) finishOnResult(result wire.Result) ([]byte, bool, error) {
	if err := transcript.VerifyMAC(s.providers.HMACSHA256, s.keys.Integrity[:], s.transcript, result.Inner(), result.MAC); err != nil {
		return s.fail(srderr.KindMacFailure, "RESULT MAC verification failed")
	}
	s.transcript.Append(result.Inner())
	s.state = StateGotResult
	s.finish(Outcome{OK: result.Status == srderr.StatusOK, Status: result.Status})
	return nil, true, nil
}
