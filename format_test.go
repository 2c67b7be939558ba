package structguard_test

import (
	"testing"

	"github.com/structguard/structguard"
	"github.com/stretchr/testify/assert"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	t.Run("accepts xml and json", func(t *testing.T) {
		t.Parallel()

		f, err := structguard.ParseFormat("xml")
		assert.NoError(t, err)
		assert.Equal(t, structguard.FormatXML, f)

		f, err = structguard.ParseFormat("json")
		assert.NoError(t, err)
		assert.Equal(t, structguard.FormatJSON, f)
	})

	t.Run("is case-insensitive", func(t *testing.T) {
		t.Parallel()

		f, err := structguard.ParseFormat("XML")
		assert.NoError(t, err)
		assert.Equal(t, structguard.FormatXML, f)

		f, err = structguard.ParseFormat(" Json ")
		assert.NoError(t, err)
		assert.Equal(t, structguard.FormatJSON, f)
	})

	t.Run("rejects anything else", func(t *testing.T) {
		t.Parallel()

		_, err := structguard.ParseFormat("yaml")

		assert.Equal(t, structguard.EUNSUPPORTED, structguard.ErrorCode(err))
	})
}

func TestFormatForPath(t *testing.T) {
	t.Parallel()

	t.Run("infers from extension", func(t *testing.T) {
		t.Parallel()

		f, err := structguard.FormatForPath("export.XML")
		assert.NoError(t, err)
		assert.Equal(t, structguard.FormatXML, f)

		f, err = structguard.FormatForPath("/tmp/user.json")
		assert.NoError(t, err)
		assert.Equal(t, structguard.FormatJSON, f)
	})

	t.Run("rejects unknown extensions", func(t *testing.T) {
		t.Parallel()

		_, err := structguard.FormatForPath("notes.txt")

		assert.Equal(t, structguard.EUNSUPPORTED, structguard.ErrorCode(err))
	})
}
