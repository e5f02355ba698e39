package splitter

import (
	"strings"
	"testing"

	"github.com/poiesic/papernotes/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleText = `In this paper, we explore the use of self-instruct fine-tuning and retrieval to enable LLMs to accurately select from a large, overlapping, and changing set of tools expressed using their APIs and API documentation. We construct APIBench, a large corpus of APIs with complex and often overlapping functionality by scraping ML APIs from public model hubs. We choose three major model hubs for dataset construction: TorchHub, TensorHub and HuggingFace. We exhaustively include every API call in TorchHub and TensorHub. We also generate synthetic user question prompts per API using Self-Instruct. Thus, each entry in the dataset becomes an instruction reference API pair. We adopt a common AST sub-tree matching technique to evaluate the functional correctness of the generated API.`

// reconstruct rebuilds the original text from overlapping windows.
func reconstruct(windows []string, overlap int) string {
	if len(windows) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(windows[0])
	for _, w := range windows[1:] {
		sb.WriteString(w[overlap:])
	}
	return sb.String()
}

func TestNew(t *testing.T) {
	t.Run("Should accept valid parameters", func(t *testing.T) {
		s, err := New(300, 30)
		require.NoError(t, err)
		assert.NotNil(t, s)
	})

	t.Run("Should reject overlap equal to size", func(t *testing.T) {
		_, err := New(100, 100)
		assert.ErrorIs(t, err, core.ErrConfiguration)
	})

	t.Run("Should reject overlap greater than size", func(t *testing.T) {
		_, err := New(100, 150)
		assert.ErrorIs(t, err, core.ErrConfiguration)
	})

	t.Run("Should reject non-positive size", func(t *testing.T) {
		_, err := New(0, 0)
		assert.ErrorIs(t, err, core.ErrConfiguration)
	})

	t.Run("Should reject negative overlap", func(t *testing.T) {
		_, err := New(100, -1)
		assert.ErrorIs(t, err, core.ErrConfiguration)
	})
}

func TestSplitText(t *testing.T) {
	s, err := New(300, 30)
	require.NoError(t, err)

	t.Run("Should return nil for empty text", func(t *testing.T) {
		assert.Nil(t, s.SplitText(""))
	})

	t.Run("Should return single window for short text", func(t *testing.T) {
		windows := s.SplitText("short text")
		require.Len(t, windows, 1)
		assert.Equal(t, "short text", windows[0])
	})

	t.Run("Should bound every window by chunk size", func(t *testing.T) {
		windows := s.SplitText(sampleText)
		require.Greater(t, len(windows), 1)
		for i, w := range windows {
			assert.LessOrEqual(t, len(w), 300, "window %d exceeds chunk size", i)
		}
	})

	t.Run("Should share exactly the overlap region between adjacent windows", func(t *testing.T) {
		windows := s.SplitText(sampleText)
		for i := 1; i < len(windows); i++ {
			prev := windows[i-1]
			tail := prev[len(prev)-30:]
			assert.Equal(t, tail, windows[i][:30], "windows %d/%d overlap mismatch", i-1, i)
		}
	})

	t.Run("Should reconstruct the original text from windows", func(t *testing.T) {
		windows := s.SplitText(sampleText)
		assert.Equal(t, sampleText, reconstruct(windows, 30))
	})

	t.Run("Should be idempotent over the reconstructed text", func(t *testing.T) {
		first := s.SplitText(sampleText)
		second := s.SplitText(reconstruct(first, 30))
		assert.Equal(t, first, second)
	})

	t.Run("Should be deterministic", func(t *testing.T) {
		assert.Equal(t, s.SplitText(sampleText), s.SplitText(sampleText))
	})

	t.Run("Should emit an oversized word whole", func(t *testing.T) {
		tiny, err := New(10, 2)
		require.NoError(t, err)

		windows := tiny.SplitText("a verylongunbrokenword b")
		joined := reconstruct(windows, 2)
		assert.Equal(t, "a verylongunbrokenword b", joined)

		found := false
		for _, w := range windows {
			if strings.Contains(w, "verylongunbrokenword") {
				found = true
			}
		}
		assert.True(t, found, "oversized word must appear unbroken in a window")
	})
}

func TestSplit(t *testing.T) {
	s, err := New(300, 30)
	require.NoError(t, err)

	t.Run("Should carry segment metadata and page numbers onto chunks", func(t *testing.T) {
		segments := []core.Segment{
			{
				Content:  sampleText,
				Metadata: map[string]any{"filename": "paper.pdf"},
				Page:     1,
			},
			{
				Content:  "A short closing remark.",
				Metadata: map[string]any{"filename": "paper.pdf"},
				Page:     2,
			},
		}

		chunks := s.Split(segments)
		require.NotEmpty(t, chunks)

		for _, chunk := range chunks[:len(chunks)-1] {
			assert.Equal(t, "paper.pdf", chunk.Metadata["filename"])
			assert.Equal(t, 1, chunk.Metadata["page_number"])
		}
		last := chunks[len(chunks)-1]
		assert.Equal(t, "A short closing remark.", last.Content)
		assert.Equal(t, 2, last.Metadata["page_number"])
	})

	t.Run("Should not share metadata maps between chunks", func(t *testing.T) {
		segments := []core.Segment{{Content: sampleText, Metadata: map[string]any{"k": "v"}, Page: 1}}
		chunks := s.Split(segments)
		require.Greater(t, len(chunks), 1)

		chunks[0].Metadata["k"] = "mutated"
		assert.Equal(t, "v", chunks[1].Metadata["k"])
	})

	t.Run("Should return no chunks for no segments", func(t *testing.T) {
		assert.Empty(t, s.Split(nil))
	})
}

func TestFullText(t *testing.T) {
	segments := []core.Segment{
		{Content: "first"},
		{Content: "second"},
	}
	assert.Equal(t, "first\n\nsecond", FullText(segments))
	assert.Equal(t, "", FullText(nil))
}
