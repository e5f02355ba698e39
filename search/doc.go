// Package search answers questions about ingested papers.
//
// A question is embedded and matched against the paper's stored chunk
// vectors; the model then answers from the matched passages plus the notes
// saved at ingestion time. Every answer is recorded asynchronously in the
// answer table, so a slow insert never delays the response.
package search
