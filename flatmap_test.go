package structguard_test

import (
	"encoding/json"
	"testing"

	"github.com/structguard/structguard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatMap_Order(t *testing.T) {
	t.Parallel()

	t.Run("preserves insertion order", func(t *testing.T) {
		t.Parallel()

		m := structguard.NewFlatMap()
		m.Set("node_0", "first")
		m.Set("node_1", "second")
		m.Set("node_2", "third")

		assert.Equal(t, []string{"node_0", "node_1", "node_2"}, m.IDs())
	})

	t.Run("updating a key keeps its position", func(t *testing.T) {
		t.Parallel()

		m := structguard.NewFlatMap()
		m.Set("node_0", "first")
		m.Set("node_1", "second")
		m.Set("node_0", "edited")

		assert.Equal(t, []string{"node_0", "node_1"}, m.IDs())
		text, ok := m.Get("node_0")
		assert.True(t, ok)
		assert.Equal(t, "edited", text)
	})
}

func TestFlatMap_MarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("emits keys in insertion order", func(t *testing.T) {
		t.Parallel()

		m := structguard.NewFlatMap()
		m.Set("node_0", "Hello")
		m.Set("node_1", "World")
		m.Set("node_10", "Ten")
		m.Set("node_2", "Two")

		data, err := json.Marshal(m)

		require.NoError(t, err)
		assert.Equal(t, `{"node_0":"Hello","node_1":"World","node_10":"Ten","node_2":"Two"}`, string(data))
	})

	t.Run("escapes text values", func(t *testing.T) {
		t.Parallel()

		m := structguard.NewFlatMap()
		m.Set("node_0", "a \"quoted\" line\nand a second")

		data, err := json.Marshal(m)

		require.NoError(t, err)
		assert.Equal(t, `{"node_0":"a \"quoted\" line\nand a second"}`, string(data))
	})

	t.Run("empty map is an empty object", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(structguard.NewFlatMap())

		require.NoError(t, err)
		assert.Equal(t, `{}`, string(data))
	})
}

func TestFlatMap_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("preserves document key order", func(t *testing.T) {
		t.Parallel()

		var m structguard.FlatMap
		err := json.Unmarshal([]byte(`{"node_2":"c","node_0":"a","node_1":"b"}`), &m)

		require.NoError(t, err)
		assert.Equal(t, []string{"node_2", "node_0", "node_1"}, m.IDs())
	})

	t.Run("round trip is byte-stable", func(t *testing.T) {
		t.Parallel()

		input := `{"node_0":"Bonjour","node_1":"le monde","node_2":"fin"}`

		var m structguard.FlatMap
		require.NoError(t, json.Unmarshal([]byte(input), &m))
		output, err := json.Marshal(&m)

		require.NoError(t, err)
		assert.Equal(t, input, string(output))
	})

	t.Run("rejects non-string values", func(t *testing.T) {
		t.Parallel()

		var m structguard.FlatMap
		err := json.Unmarshal([]byte(`{"node_0":"ok","node_1":42}`), &m)

		require.Error(t, err)
		assert.Equal(t, structguard.EINVALID, structguard.ErrorCode(err))

		var appErr *structguard.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "node_1", appErr.NodeID)
	})

	t.Run("rejects non-object input", func(t *testing.T) {
		t.Parallel()

		var m structguard.FlatMap
		err := json.Unmarshal([]byte(`["node_0"]`), &m)

		assert.Equal(t, structguard.EINVALID, structguard.ErrorCode(err))
	})
}
