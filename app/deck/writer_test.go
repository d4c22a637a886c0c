package deck

import (
	"archive/zip"
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAPKG(t *testing.T) {
	d := NewDeck("Spanish words", "Spanish", "English")
	d.Add(Card{
		SourceWord:    "perro",
		TargetWord:    "dog",
		SourceExample: "El perro corre.",
		TargetExample: "The dog runs.",
	})
	d.Add(Card{
		SourceWord:    "casa",
		TargetWord:    "house",
		SourceExample: "La casa es grande.",
		TargetExample: "The house is big.",
	})

	dir := t.TempDir()
	path := filepath.Join(dir, "out.apkg")
	require.NoError(t, d.WriteAPKG(path))

	archive, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer archive.Close()

	names := make(map[string]bool)
	for _, f := range archive.File {
		names[f.Name] = true
	}
	assert.True(t, names["collection.anki2"])
	assert.True(t, names["media"])

	collection, err := archive.Open("collection.anki2")
	require.NoError(t, err)
	data, err := os.Create(filepath.Join(dir, "collection.anki2"))
	require.NoError(t, err)
	_, err = io.Copy(data, collection)
	require.NoError(t, err)
	require.NoError(t, data.Close())
	require.NoError(t, collection.Close())

	db, err := sql.Open("sqlite", filepath.Join(dir, "collection.anki2"))
	require.NoError(t, err)
	defer db.Close()

	var notes int
	require.NoError(t, db.QueryRow("SELECT count(*) FROM notes").Scan(&notes))
	assert.Equal(t, 2, notes)
	var cards int
	require.NoError(t, db.QueryRow("SELECT count(*) FROM cards").Scan(&cards))
	assert.Equal(t, 4, cards)

	var flds string
	require.NoError(t, db.QueryRow("SELECT flds FROM notes ORDER BY id LIMIT 1").Scan(&flds))
	assert.Equal(t, "perro\x1fdog\x1fEl perro corre.\x1fThe dog runs.", flds)
}

func TestFieldChecksum(t *testing.T) {
	assert.NotZero(t, fieldChecksum("perro"))
	assert.Equal(t, fieldChecksum("perro"), fieldChecksum("perro"))
	assert.NotEqual(t, fieldChecksum("perro"), fieldChecksum("casa"))
}

func TestNoteTemplates(t *testing.T) {
	templates := noteTemplates("Spanish", "English")
	require.Len(t, templates, 2)
	assert.Equal(t, "Card 1", templates[0].Name)
	assert.Contains(t, templates[0].Qfmt, "{{Spanish}}")
	assert.Contains(t, templates[0].Afmt, "{{English}}")
	assert.Contains(t, templates[1].Qfmt, "{{ExampleSentenceEnglish}}")
	assert.Contains(t, templates[1].Afmt, "{{ExampleSentenceSpanish}}")
}

func TestCardFields(t *testing.T) {
	c := Card{SourceWord: "a", TargetWord: "b", SourceExample: "c", TargetExample: "d"}
	assert.Equal(t, []string{"a", "b", "c", "d"}, c.Fields())
}
