package search

import "github.com/poiesic/papernotes/core"

// Monitor provides hooks to observe the question answering process.
// Implement this interface to track intermediate steps and results.
type Monitor interface {
	Start(question string)
	AfterSimilaritySearch(matches []core.ChunkMatch)
	AfterNotesRetrieval(notes []core.Note)
	Finish(answer *core.Answer)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                            {}
func (n *noopMonitor) AfterSimilaritySearch(_ []core.ChunkMatch) {}
func (n *noopMonitor) AfterNotesRetrieval(_ []core.Note)         {}
func (n *noopMonitor) Finish(_ *core.Answer)                     {}
