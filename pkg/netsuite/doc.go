// Copyright (c) 2024 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package netsuite is the entry point for talking to a NetSuite account.

A Client holds the configuration and a single transport.Dispatcher. The
REST, Restlet and SOAP facades are created on first access and all of them
draw from the same concurrency budget:

	cfg, err := config.Load("netsuite.yaml")
	client, err := netsuite.New(cfg, netsuite.WithMaxConcurrent(5))

	rest, err := client.RestAPI()
	rows, err := rest.SuiteQL(ctx, "SELECT id FROM customer", 10, 0)
*/
package netsuite
