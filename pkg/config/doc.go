// Copyright (c) 2024 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package config holds NetSuite account and credential configuration.

A Config identifies the account and carries exactly one credential set:
token based authentication (consumer key/secret plus token id/secret), or
legacy username/password. Configurations are validated when constructed
or loaded; missing credential fields produce an [AuthConfigurationError]
before any request reaches the network.

# Construction

	cfg, err := config.New("123456_SB1",
	    config.WithTokenAuth(consumerKey, consumerSecret, tokenID, tokenSecret),
	)

# Loading

Configuration can be loaded from YAML (with ${VAR} expansion), from an INI
section, or from NS_* environment variables:

	cfg, err := config.Load("netsuite.yaml")
	cfg, err := config.LoadINI(config.DefaultPath(), "netsuite")
	cfg, err := config.FromEnv()

Example YAML:

	account: "123456_SB1"
	logLevel: DEBUG
	auth:
	  token:
	    consumerKey: ${NS_CONSUMER_KEY}
	    consumerSecret: ${NS_CONSUMER_SECRET}
	    tokenId: ${NS_TOKEN_ID}
	    tokenSecret: ${NS_TOKEN_SECRET}

Example INI:

	[netsuite]
	account = 123456_SB1
	consumer_key = ...
	consumer_secret = ...
	token_id = ...
	token_secret = ...
	preferences_runServerSuiteScriptAndTriggerWorkflows = false

# Account Helpers

Sandbox accounts carry an "_SB<n>" suffix. Hostnames use the slugified
form of the account:

	cfg.IsSandbox()        // true
	cfg.AccountNumber()    // "123456"
	cfg.AccountSlugified() // "123456-sb1"
*/
package config
