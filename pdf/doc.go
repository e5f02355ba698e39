// Package pdf prepares source documents for partitioning.
//
// It provides two collaborators used at the front of the ingestion pipeline:
//   - Fetcher retrieves raw PDF bytes from a URL.
//   - Pruner removes excluded pages from a PDF before it is sent to the
//     partitioning service.
//
// Both operate on byte slices and never touch storage.
package pdf
