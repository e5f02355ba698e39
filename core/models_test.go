package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	t.Run("Should be deterministic for identical content", func(t *testing.T) {
		a := IDFromContent("the quick brown fox")
		b := IDFromContent("the quick brown fox")
		assert.Equal(t, a, b)
	})

	t.Run("Should differ for different content", func(t *testing.T) {
		a := IDFromContent("chunk one")
		b := IDFromContent("chunk two")
		assert.NotEqual(t, a, b)
	})

	t.Run("Should handle empty content", func(t *testing.T) {
		id := IDFromContent("")
		assert.NotZero(t, id)
	})
}

func TestNoteJSONRoundTrip(t *testing.T) {
	notes := []Note{
		{Text: "X uses Y", PageNumbers: []int{1}},
		{Text: "The benchmark includes 94 TorchHub API calls", PageNumbers: []int{2, 3}},
		{Text: "A note with no attribution", PageNumbers: []int{}},
	}

	data, err := json.Marshal(notes)
	require.NoError(t, err)

	var decoded []Note
	require.NoError(t, json.Unmarshal(data, &decoded))

	require.Len(t, decoded, len(notes))
	for i := range notes {
		assert.Equal(t, notes[i].Text, decoded[i].Text)
		assert.Equal(t, notes[i].PageNumbers, decoded[i].PageNumbers)
	}
}
