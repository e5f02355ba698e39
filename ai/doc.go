// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package ai provides abstractions for the AI services used by the paper
// ingestion pipeline.
//
// It defines three interfaces:
//
//   - Embedder: generates vector embeddings from text
//   - NoteExtractor: derives structured notes from a paper's full text
//   - Answerer: answers questions grounded in retrieved paper context
//
// plus Provider, which aggregates them for convenient initialization.
//
// Two implementation sub-packages exist:
//
//   - ai/openai: production implementation backed by an OpenAI-compatible
//     API (Ollama, LocalAI, vLLM, or OpenAI itself) via langchaingo
//   - ai/mock: test doubles with pluggable behavior
//
// Production constructors return interface types to keep callers decoupled
// from the backing service; mock constructors return concrete types so tests
// can inject behavior and assert call counts.
package ai
