package signing

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sirosfoundation/go-netsuite/pkg/config"
)

// Signature algorithm names as sent to NetSuite
const (
	AlgorithmHMACSHA256 = "HMAC-SHA256"
)

// DefaultNonceLength is the number of digits produced by DigitNonce
const DefaultNonceLength = 20

// ErrMissingSecret is returned when a signer is constructed without the
// secrets it needs.
var ErrMissingSecret = errors.New("consumer secret and token secret are required")

// Credentials is the key material used to sign a request
type Credentials struct {
	Account        string
	ConsumerKey    string
	ConsumerSecret string
	TokenID        string
	TokenSecret    string
}

// CredentialsFromConfig extracts token credentials from a configuration
func CredentialsFromConfig(cfg *config.Config) (Credentials, error) {
	token, err := cfg.RequireTokenAuth()
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{
		Account:        cfg.Account,
		ConsumerKey:    token.ConsumerKey,
		ConsumerSecret: token.ConsumerSecret,
		TokenID:        token.TokenID,
		TokenSecret:    token.TokenSecret,
	}, nil
}

func (c Credentials) validate() error {
	if c.ConsumerSecret == "" || c.TokenSecret == "" {
		return ErrMissingSecret
	}
	return nil
}

// NonceSource produces a fresh nonce for every signed request
type NonceSource interface {
	Nonce() (string, error)
}

// NonceFunc adapts a function to NonceSource
type NonceFunc func() (string, error)

// Nonce implements NonceSource
func (f NonceFunc) Nonce() (string, error) {
	return f()
}

// DigitNonce generates pseudorandom decimal nonces of a fixed length from
// crypto/rand.
type DigitNonce struct {
	Length int
}

// Nonce implements NonceSource
func (d DigitNonce) Nonce() (string, error) {
	length := d.Length
	if length < DefaultNonceLength {
		length = DefaultNonceLength
	}

	out := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			// 250 is the largest multiple of 10 below 256
			if b >= 250 {
				continue
			}
			out = append(out, '0'+b%10)
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}

// Clock returns the current time
type Clock func() time.Time

// Timestamp formats t as a seconds precision Unix epoch
func Timestamp(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}

type signerOptions struct {
	nonce NonceSource
	clock Clock
}

// Option configures a signer
type Option func(*signerOptions)

// WithNonceSource replaces the default DigitNonce source
func WithNonceSource(n NonceSource) Option {
	return func(o *signerOptions) {
		o.nonce = n
	}
}

// WithClock replaces time.Now
func WithClock(c Clock) Option {
	return func(o *signerOptions) {
		o.clock = c
	}
}

func newSignerOptions(opts []Option) signerOptions {
	o := signerOptions{
		nonce: DigitNonce{Length: DefaultNonceLength},
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
