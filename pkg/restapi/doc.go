// Copyright (c) 2024 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package restapi implements the SuiteTalk REST web services facade.

Requests go to https://{account}.suitetalk.api.netsuite.com/services/rest
and are signed with OAuth 1.0a HMAC-SHA256:

	api, err := restapi.New(cfg, restapi.WithDispatcher(d))
	customer, err := api.Get(ctx, "/record/v1/customer/42")

	rows, err := api.SuiteQL(ctx, "SELECT id FROM customer", 10, 0)

Every request carries Content-Type: application/json and
X-NetSuite-PropertyNameValidation: error unless overridden by the caller.
Responses are decoded into generic JSON values. Non-2xx statuses yield a
*transport.RequestError, undecodable bodies a *transport.ResponseParsingError
and 204 No Content a nil result.

JSONSchema and OpenAPI read the metadata catalog and may be served from a
cache.Cache, since the catalog rarely changes.
*/
package restapi
