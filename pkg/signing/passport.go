package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// Passport is the signed credential block attached to every SOAP call
type Passport struct {
	Account     string
	ConsumerKey string
	Token       string
	Nonce       string
	Timestamp   string
	Signature   string
	Algorithm   string
}

// PassportSignature computes the token passport signature. The message is
// account&consumerKey&tokenID&nonce&timestamp and the key is
// consumerSecret&tokenSecret.
func PassportSignature(creds Credentials, nonce, timestamp string) string {
	message := strings.Join([]string{
		creds.Account,
		creds.ConsumerKey,
		creds.TokenID,
		nonce,
		timestamp,
	}, "&")
	key := creds.ConsumerSecret + "&" + creds.TokenSecret

	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// TokenPassportSigner produces signed token passports
type TokenPassportSigner struct {
	creds Credentials
	opts  signerOptions
}

// NewTokenPassportSigner creates a passport signer for the given credentials
func NewTokenPassportSigner(creds Credentials, opts ...Option) (*TokenPassportSigner, error) {
	if err := creds.validate(); err != nil {
		return nil, err
	}
	return &TokenPassportSigner{
		creds: creds,
		opts:  newSignerOptions(opts),
	}, nil
}

// Passport returns a freshly signed passport with a new nonce and the
// current timestamp.
func (s *TokenPassportSigner) Passport() (*Passport, error) {
	nonce, err := s.opts.nonce.Nonce()
	if err != nil {
		return nil, err
	}
	timestamp := Timestamp(s.opts.clock())

	return &Passport{
		Account:     s.creds.Account,
		ConsumerKey: s.creds.ConsumerKey,
		Token:       s.creds.TokenID,
		Nonce:       nonce,
		Timestamp:   timestamp,
		Signature:   PassportSignature(s.creds, nonce, timestamp),
		Algorithm:   AlgorithmHMACSHA256,
	}, nil
}
