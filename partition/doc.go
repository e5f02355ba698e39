// Package partition turns raw PDF bytes into ordered text segments by
// calling an Unstructured-compatible partitioning API.
//
// The client requires an API credential and refuses to make any network
// call without one. Segment order in the response is reading order and is
// preserved.
package partition
