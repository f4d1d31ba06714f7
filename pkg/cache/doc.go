// Copyright (c) 2024 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package cache provides response caches for slow changing NetSuite documents
such as the SOAP WSDL and the REST metadata catalog.

Three backends implement Cache:

  - MemoryCache: process local, for CLIs and tests
  - RedisCache: shared between processes, built on go-redis
  - MongoCache: shared and persistent, expired documents are removed by a
    TTL index

GzipCache wraps any backend and compresses values before storing them.

Keys are derived with Key, which hashes the request identity:

	key := cache.Key("wsdl", wsdlURL)
	if body, ok, err := c.Get(ctx, key); err == nil && ok {
	    return body, nil
	}
*/
package cache
