// Package storage defines the persistence interfaces for ingested papers.
//
// Three stores back the pipeline:
//
//   - PaperRepository: the relational record of a paper (metadata, derived
//     notes, full text)
//   - ChunkStore: vector entries for chunked paper text, embedded for
//     similarity search
//   - AnswerRepository: persisted question-answering results
//
// The paper record and the vector entries are related only softly, through
// shared source-URL metadata; there is no foreign key between them, and the
// ingestion coordinator writes both sides independently.
//
// The storage/postgres sub-package implements all three on PostgreSQL with
// the pgvector extension.
package storage
