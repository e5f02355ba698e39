// Package splitter windows segment text into bounded, overlapping chunks.
//
// Splitting is pure and deterministic: the same input always yields the same
// chunk sequence, every chunk is a contiguous slice of the original text, and
// each chunk after the first begins with exactly the trailing overlap bytes
// of its predecessor. Chunks inherit the metadata of the segment they came
// from.
package splitter
