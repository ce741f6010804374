package handshake

import (
	"github.com/cvsouth/srd-go/credential"
	"github.com/cvsouth/srd-go/keyschedule"
	"github.com/cvsouth/srd-go/srderr"
	"github.com/cvsouth/srd-go/suite"
	"github.com/cvsouth/srd-go/transcript"
	"github.com/cvsouth/srd-go/wire"
)

// stepResponder drives StateWaitInitiate through StateSentResult (spec
// §4.6, responder machine).
func (s *Session) stepResponder(inbound []byte) ([]byte, bool, error) {
	switch s.state {

	case StateWaitInitiate:
		return s.recvInitiateSendOffer(inbound)

	case StateSentOffer:
		return s.recvAcceptSendConfirm(inbound)

	case StateSentConfirm:
		return s.recvDelegateSendResult(inbound)

	default:
		return s.fail(srderr.KindInvalidState, "responder: no step defined for current state")
	}
}

func (s *Session) recvInitiateSendOffer(inbound []byte) ([]byte, bool, error) {
	if inbound == nil {
		return s.fail(srderr.KindInvalidState, "responder's first Step requires the inbound INITIATE")
	}
	m, err := wire.Decode(inbound)
	if err != nil {
		return s.failWrap(srderr.KindMalformed, "decoding INITIATE", err)
	}
	initiate, ok := m.(wire.Initiate)
	if !ok || initiate.Seq() != wire.SeqInitiate {
		return s.fail(srderr.KindDesync, "expected INITIATE")
	}

	// keySize is the responder's configured minimum, raised to meet the
	// initiator's request if it asked for a stronger group.
	keySize := s.keySize
	if initiate.KeySize > keySize {
		keySize = initiate.KeySize
	}
	s.keySize = keySize
	s.transcript.Append(initiate.Inner())

	generator, prime, err := s.providers.DHGroup(keySize)
	if err != nil {
		return s.failWrap(srderr.KindCryptoFailure, "selecting DH group", err)
	}
	s.generator, s.prime = generator, prime

	priv, pub, err := s.providers.DHGenerate(generator, prime)
	if err != nil {
		return s.failWrap(srderr.KindCryptoFailure, "generating DH keypair", err)
	}
	s.localPrivate, s.localPublic = priv, pub

	offer := wire.Offer{
		CipherMask: s.localCipherMask,
		KeySize:    keySize,
		Generator:  generator,
		Prime:      prime,
		PublicKey:  pub,
		Nonce:      s.localNonce,
		CBT:        s.policy.CBT,
	}
	out := offer.Encode()
	s.transcript.Append(offer.Inner())
	s.state = StateSentOffer
	return out, false, nil
}

func (s *Session) recvAcceptSendConfirm(inbound []byte) ([]byte, bool, error) {
	m, err := wire.Decode(inbound)
	if err != nil {
		return s.failWrap(srderr.KindMalformed, "decoding ACCEPT", err)
	}
	accept, ok := m.(wire.Accept)
	if !ok || accept.Seq() != wire.SeqAccept {
		return s.fail(srderr.KindDesync, "expected ACCEPT")
	}
	if accept.KeySize != s.keySize {
		return s.fail(srderr.KindDesync, "ACCEPT key_size does not match the group fixed by OFFER")
	}
	if len(accept.PublicKey) != wire.KeySizeBytes(accept.KeySize) {
		return s.fail(srderr.KindMalformed, "ACCEPT public key length does not match its key_size")
	}

	s.remotePublic = accept.PublicKey
	s.remoteNonce = accept.Nonce
	s.remoteCBT = accept.CBT

	shared, err := s.providers.DHAgree(s.localPrivate, s.remotePublic, s.prime)
	if err != nil {
		return s.failWrap(srderr.KindCryptoFailure, "computing DH shared secret", err)
	}
	s.shared = shared
	s.keys = keyschedule.Derive(s.providers.HMACSHA256, s.shared, s.remoteNonce, s.localNonce)

	// ACCEPT's own MAC is verified now, against the transcript as it
	// stood before ACCEPT was received (spec §4.3: ACCEPT is the first
	// message whose MAC can be checked, once keys exist).
	if err := transcript.VerifyMAC(s.providers.HMACSHA256, s.keys.Integrity[:], s.transcript, accept.Inner(), accept.MAC); err != nil {
		// Forced silent, regardless of key availability (spec §7).
		s.transcript.Append(accept.Inner())
		return s.fail(srderr.KindMacFailure, "ACCEPT MAC verification failed")
	}
	s.transcript.Append(accept.Inner())
	s.state = StateGotAccept

	if s.localCipherMask&accept.Cipher == 0 || !suite.IsSingleBit(accept.Cipher) {
		return s.sendResult(srderr.KindNoCipher, "ACCEPT chose a cipher the responder does not accept")
	}
	s.negotiatedCipher = accept.Cipher

	if cbtMismatch(s.localCBT, accept.CBT) {
		return s.sendResult(srderr.KindCbtMismatch, "channel binding mismatch")
	}

	confirm := wire.Confirm{}
	confirm.MAC = transcript.ComputeMAC(s.providers.HMACSHA256, s.keys.Integrity[:], s.transcript, confirm.Inner())
	out := confirm.Encode()
	s.transcript.Append(confirm.Inner())
	s.state = StateSentConfirm
	return out, false, nil
}

func (s *Session) recvDelegateSendResult(inbound []byte) ([]byte, bool, error) {
	m, err := wire.Decode(inbound)
	if err != nil {
		return s.failWrap(srderr.KindMalformed, "decoding DELEGATE", err)
	}
	delegate, ok := m.(wire.Delegate)
	if !ok || delegate.Seq() != wire.SeqDelegate {
		return s.fail(srderr.KindDesync, "expected DELEGATE")
	}
	if err := transcript.VerifyMAC(s.providers.HMACSHA256, s.keys.Integrity[:], s.transcript, delegate.Inner(), delegate.MAC); err != nil {
		return s.sendResult(srderr.KindMacFailure, "DELEGATE MAC verification failed")
	}
	s.transcript.Append(delegate.Inner())
	s.state = StateGotDelegate

	plaintext, err := suite.Decrypt(s.providers, s.negotiatedCipher, s.keys.Delegation, s.keys.IV, delegate.EncryptedBlob)
	if err != nil {
		return s.sendResult(srderr.KindCryptoFailure, "decrypting DELEGATE blob")
	}
	username, password, err := credential.DecodeBasicLogon(plaintext)
	if err != nil {
		return s.sendResult(srderr.KindMalformed, "parsing delegated credential")
	}
	s.username, s.password, s.hasCreds = username, password, true

	return s.sendResult(0, "")
}

// sendResult builds and sends a RESULT carrying the status derived from
// kind (0 for success), MACed over the transcript including this RESULT.
// Unlike fail/failWrap, this is not a Go-level error: the responder has
// successfully carried out its protocol duty of notifying the peer.
func (s *Session) sendResult(kind srderr.Kind, logMsg string) ([]byte, bool, error) {
	status := srderr.ResultStatus(kind)
	result := wire.Result{Status: status}
	result.MAC = transcript.ComputeMAC(s.providers.HMACSHA256, s.keys.Integrity[:], s.transcript, result.Inner())
	out := result.Encode()
	s.transcript.Append(result.Inner())
	s.state = StateSentResult
	if logMsg != "" {
		s.logger.Info("srd: sending RESULT", "status", status, "reason", logMsg)
	}
	s.finish(Outcome{OK: status == srderr.StatusOK, Status: status})
	return out, true, nil
}
