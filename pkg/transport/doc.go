// Copyright (c) 2024 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package transport implements the HTTPS transport and bounded request
dispatch shared by all NetSuite access methods.

# Dispatcher

A Dispatcher issues requests against a shared concurrency budget. Each call
acquires one permit from a counting pool (blocking while none is free),
sends the request with a per-call timeout, and releases the permit when the
call returns, whether it succeeded, failed or timed out:

	d := transport.NewDispatcher(&transport.DispatcherConfig{
	    MaxConcurrent: 10,
	    Timeout:       60 * time.Second,
	})

	resp, err := d.Do(ctx, &transport.Request{
	    Method: http.MethodGet,
	    URL:    "https://123456.suitetalk.api.netsuite.com/services/rest/record/v1/customer",
	}, signer, transport.WithTimeout(10*time.Second))

The pool is created lazily on the first call and lives as long as the
dispatcher. An optional rate.Limiter smooths bursts below NetSuite's
governance limits, and a metrics.Collector exports permit usage.

# Errors

DecodeJSON maps responses onto the error taxonomy shared by the facades:

  - status outside 2xx: *RequestError with status code and body
  - 2xx with an unparseable body: *ResponseParsingError
  - 204 No Content: nil result, body not parsed

# TLS Configuration

	config := transport.DefaultHTTPSConfig()
	// MinTLSVersion: TLS 1.2
	// MaxTLSVersion: TLS 1.3

# Local Server

Server hosts local HTTP endpoints, such as the OpenAPI documentation viewer
started by the CLI. It serves TLS when certificates are configured.

# References

  - TLS 1.3 RFC 8446: https://datatracker.ietf.org/doc/html/rfc8446
  - TLS 1.2 RFC 5246: https://datatracker.ietf.org/doc/html/rfc5246
*/
package transport
