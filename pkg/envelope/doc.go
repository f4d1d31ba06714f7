// Copyright (c) 2024 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package envelope unwraps NetSuite response envelopes.

NetSuite answers most write and read operations with a status block next to
the payload:

	<readResponse>
	    <status isSuccess="false">
	        <statusDetail type="ERROR">
	            <code>RCRD_DSNT_EXIST</code>
	            <message>That record does not exist.</message>
	        </statusDetail>
	    </status>
	</readResponse>

Unwrap descends a dot separated path, checks status.isSuccess and applies an
extractor to the validated node:

	record, err := envelope.Unwrap(tree,
	    envelope.WithPath("body.readResponse"),
	    envelope.WithExtract(envelope.Field("record")),
	)

List responses carry a status per record. Only the first record's status is
consulted, and an empty list is a success.

FromXML converts SOAP XML into the map/list tree that Unwrap works on.
*/
package envelope
