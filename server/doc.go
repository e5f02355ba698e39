// Package server exposes the ingestion pipeline and question answering
// over HTTP.
//
// Routes: GET / for liveness, POST /take_notes to ingest a paper and
// return its extracted notes, POST /qa to answer a question about an
// ingested paper. Failures are always non-200: malformed documents map to
// 422, upstream collaborator failures to 502, and persistence failures
// (including partial ones) to 500.
package server
