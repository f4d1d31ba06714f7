// Copyright (c) 2024 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

// Package restlet calls NetSuite Restlets, server side scripts addressed by
// a script id and deployment number:
//
//	https://{account}.restlets.api.netsuite.com/app/site/hosting/restlet.nl?script=123&deploy=1
//
// Calls are OAuth1 signed and exchange JSON.
package restlet
