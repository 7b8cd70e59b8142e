package project

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkflowScreen(t *testing.T) {
	s, err := NewWorkflowScreen(uuid.New(), uuid.New(), CategoryFloors)
	require.NoError(t, err)
	assert.True(t, s.IsEmpty())
	assert.False(t, s.Completed)

	_, err = NewWorkflowScreen(uuid.New(), uuid.New(), Category("garage"))
	assert.Error(t, err)

	_, err = NewWorkflowScreen(uuid.New(), uuid.Nil, CategoryFloors)
	assert.Error(t, err)
}

func TestWorkflowScreen_Save(t *testing.T) {
	s, err := NewWorkflowScreen(uuid.New(), uuid.New(), CategoryFloors)
	require.NoError(t, err)

	t.Run("stores compacted object", func(t *testing.T) {
		err := s.Save(json.RawMessage(`{ "measurements": { "length_ft": 8 } }`), true)
		require.NoError(t, err)
		assert.JSONEq(t, `{"measurements":{"length_ft":8}}`, string(s.Data))
		assert.Equal(t, `{"measurements":{"length_ft":8}}`, string(s.Data))
		assert.True(t, s.Completed)
		assert.False(t, s.IsEmpty())
		assert.Equal(t, 2, s.Version)

		sections, err := s.Sections()
		require.NoError(t, err)
		assert.JSONEq(t, `{"length_ft":8}`, string(sections.Measurements))
	})

	t.Run("null becomes empty object", func(t *testing.T) {
		require.NoError(t, s.Save(json.RawMessage(`null`), false))
		assert.True(t, s.IsEmpty())
	})

	t.Run("rejects arrays", func(t *testing.T) {
		assert.Error(t, s.Save(json.RawMessage(`[1,2]`), false))
	})

	t.Run("rejects invalid json", func(t *testing.T) {
		assert.Error(t, s.Save(json.RawMessage(`{"a":`), false))
	})

	t.Run("rejects oversized documents", func(t *testing.T) {
		big := `{"notes":"` + strings.Repeat("x", MaxScreenDataBytes) + `"}`
		assert.Error(t, s.Save(json.RawMessage(big), false))
	})
}
