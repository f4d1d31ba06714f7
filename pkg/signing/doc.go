// Copyright (c) 2024 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package signing implements the two request signing schemes used by NetSuite.

# Token Passport (SOAP)

SuiteTalk SOAP calls carry a tokenPassport header. Its signature is an
HMAC-SHA256 over

	account&consumerKey&tokenId&nonce&timestamp

keyed with

	consumerSecret&tokenSecret

and base64 encoded:

	signer, err := signing.NewTokenPassportSigner(creds)
	passport, err := signer.Passport()

# OAuth 1.0a (REST and Restlets)

REST web services and Restlets use OAuth 1.0a with the HMAC-SHA256
signature method and the account as realm. OAuth1Signer implements the
Authorize(*http.Request) hook used by the transport dispatcher:

	signer, err := signing.NewOAuth1Signer(creds)
	err = signer.Authorize(req)

# Nonces and Timestamps

Every signature uses a fresh nonce of at least 20 decimal digits read from
crypto/rand, and a seconds precision Unix timestamp. Both are strategies
supplied at construction, so tests can pin them:

	signer, _ := signing.NewOAuth1Signer(creds,
	    signing.WithNonceSource(signing.NonceFunc(func() (string, error) { return "12345678901234567890", nil })),
	    signing.WithClock(func() time.Time { return fixed }),
	)

# References

  - OAuth 1.0 RFC 5849: https://datatracker.ietf.org/doc/html/rfc5849
  - NetSuite Token-based Authentication: https://docs.oracle.com/en/cloud/saas/netsuite/ns-online-help/section_4247337262.html
*/
package signing
