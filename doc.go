// Copyright (c) 2024 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package gonetsuite is a client for the Oracle NetSuite web services.

# Overview

go-netsuite talks to three NetSuite surfaces from one client: the SuiteTalk
REST web services, RESTlet scripts and the SuiteTalk SOAP web services. All
requests are signed with token based authentication (OAuth 1.0a with
HMAC-SHA256) and go through a single bounded dispatcher that caps the number
of concurrent calls and applies a per call timeout.

# Package Structure

The library is organized into the following packages:

	github.com/sirosfoundation/go-netsuite/pkg/netsuite  - Main client API
	github.com/sirosfoundation/go-netsuite/pkg/config    - Account and credential configuration (INI, YAML, environment)
	github.com/sirosfoundation/go-netsuite/pkg/signing   - OAuth 1.0a header and SOAP token passport signatures
	github.com/sirosfoundation/go-netsuite/pkg/transport - HTTPS transport and the bounded dispatcher
	github.com/sirosfoundation/go-netsuite/pkg/envelope  - Unwrapping of status envelopes in SOAP responses
	github.com/sirosfoundation/go-netsuite/pkg/restapi   - REST web services, SuiteQL and metadata
	github.com/sirosfoundation/go-netsuite/pkg/restlet   - RESTlet script calls
	github.com/sirosfoundation/go-netsuite/pkg/soap      - SOAP web services (excluded with the nosoap build tag)
	github.com/sirosfoundation/go-netsuite/pkg/cache     - Response caches backed by memory, Redis or MongoDB
	github.com/sirosfoundation/go-netsuite/pkg/metrics   - Prometheus collectors for the dispatcher

The netsuite command in cmd/netsuite exposes the same operations on the
command line.

# Quick Start

To run a SuiteQL query:

	import (
	    "github.com/sirosfoundation/go-netsuite/pkg/config"
	    "github.com/sirosfoundation/go-netsuite/pkg/netsuite"
	)

	cfg, err := config.FromEnv()
	if err != nil {
	    return err
	}

	client, err := netsuite.New(cfg, netsuite.WithMaxConcurrent(5))
	if err != nil {
	    return err
	}

	api, err := client.RestAPI()
	if err != nil {
	    return err
	}
	rows, err := api.SuiteQL(ctx, "SELECT id, companyName FROM customer", 10, 0)

# Configuration

Credentials are read from an INI section (default ~/.config/netsuite.ini,
section [netsuite]), from YAML or from NS_* environment variables:

  - NS_ACCOUNT: Account id, e.g. 123456_SB1
  - NS_CONSUMER_KEY, NS_CONSUMER_SECRET: Integration record credentials
  - NS_TOKEN_ID, NS_TOKEN_SECRET: Access token credentials

# License

BSD-2-Clause License
*/
package gonetsuite
