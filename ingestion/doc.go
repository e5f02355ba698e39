// Package ingestion turns a paper reference into persisted notes and
// vector entries.
//
// Pipeline runs the stages in order: fetch the PDF, prune excluded pages,
// partition into text segments, window the segments into chunks, extract
// notes with the model, and hand everything to the Coordinator. Each stage
// consumes the previous stage's output and failures carry the stage that
// produced them.
//
// Coordinator performs the final dual write. The relational paper record
// and the vector chunk entries are written concurrently and both writes
// are always attempted; when only one side lands, the outcome is a
// PartialPersistenceError naming the failed side, never silent success.
package ingestion
