// Copyright (c) 2024 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package soap implements the SuiteTalk SOAP web services facade.

Every request carries a freshly signed tokenPassport header. The WSDL
location and the service hostname are derived from the account and the
SuiteTalk version:

	https://123456-sb1.suitetalk.api.netsuite.com/wsdl/v2024_2_0/netsuite.wsdl

Responses are converted to a map/list tree with a "header" and a "body" key
and validated with the envelope package:

	client, err := soap.New(cfg)
	record, err := client.Get(ctx, "customer", soap.RecordRef{InternalID: "42"})

# Build tags

SOAP support is compiled in by default. Build with -tags nosoap to drop it;
New then returns a DependencyMissingError and every operation returns
ErrSOAPNotCompiled.
*/
package soap
