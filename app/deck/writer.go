package deck

import (
	"archive/zip"
	"crypto/sha1"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// fieldSeparator joins note fields inside the collection database
const fieldSeparator = "\x1f"

const collectionSchema = `
CREATE TABLE col (
    id integer primary key,
    crt integer not null,
    mod integer not null,
    scm integer not null,
    ver integer not null,
    dty integer not null,
    usn integer not null,
    ls integer not null,
    conf text not null,
    models text not null,
    decks text not null,
    dconf text not null,
    tags text not null
);
CREATE TABLE notes (
    id integer primary key,
    guid text not null,
    mid integer not null,
    mod integer not null,
    usn integer not null,
    tags text not null,
    flds text not null,
    sfld integer not null,
    csum integer not null,
    flags integer not null,
    data text not null
);
CREATE TABLE cards (
    id integer primary key,
    nid integer not null,
    did integer not null,
    ord integer not null,
    mod integer not null,
    usn integer not null,
    type integer not null,
    queue integer not null,
    due integer not null,
    ivl integer not null,
    factor integer not null,
    reps integer not null,
    lapses integer not null,
    left integer not null,
    odue integer not null,
    odid integer not null,
    flags integer not null,
    data text not null
);
CREATE TABLE revlog (
    id integer primary key,
    cid integer not null,
    usn integer not null,
    ease integer not null,
    ivl integer not null,
    lastIvl integer not null,
    factor integer not null,
    time integer not null,
    type integer not null
);
CREATE TABLE graves (
    usn integer not null,
    oid integer not null,
    type integer not null
);
CREATE INDEX ix_notes_usn on notes (usn);
CREATE INDEX ix_cards_usn on cards (usn);
CREATE INDEX ix_revlog_usn on revlog (usn);
CREATE INDEX ix_cards_nid on cards (nid);
CREATE INDEX ix_cards_sched on cards (did, queue, due);
CREATE INDEX ix_revlog_cid on revlog (cid);
CREATE INDEX ix_notes_csum on notes (csum);
`

// WriteAPKG packages the deck as an Anki .apkg file at the given path.
// The file is a zip archive holding a sqlite collection database and an
// empty media manifest, the same layout genanki produces.
func (d *Deck) WriteAPKG(path string) error {
	tmpDir, err := os.MkdirTemp("", "ankigen")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			log.Error().Err(err).Msg("failed to remove temp dir")
		}
	}()

	collectionPath := filepath.Join(tmpDir, "collection.anki2")
	if err := d.writeCollection(collectionPath); err != nil {
		return fmt.Errorf("write collection: %w", err)
	}
	if err := writeArchive(path, collectionPath); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}
	return nil
}

func (d *Deck) writeCollection(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open collection database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(collectionSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	now := time.Now()
	deckID := newID()
	modelID := newID()

	conf, err := json.Marshal(collectionConf())
	if err != nil {
		return fmt.Errorf("marshal conf: %w", err)
	}
	models, err := json.Marshal(map[string]interface{}{
		strconv.FormatInt(modelID, 10): d.noteModel(modelID, deckID, now),
	})
	if err != nil {
		return fmt.Errorf("marshal models: %w", err)
	}
	decks, err := json.Marshal(map[string]interface{}{
		"1":                           deckConf(1, "Default", now),
		strconv.FormatInt(deckID, 10): deckConf(deckID, d.Name, now),
	})
	if err != nil {
		return fmt.Errorf("marshal decks: %w", err)
	}
	dconf, err := json.Marshal(map[string]interface{}{"1": deckOptions()})
	if err != nil {
		return fmt.Errorf("marshal dconf: %w", err)
	}

	_, err = db.Exec(
		`INSERT INTO col (id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
		 VALUES (1, ?, ?, ?, 11, 0, 0, 0, ?, ?, ?, ?, '{}')`,
		now.Unix(), now.UnixMilli(), now.UnixMilli(),
		string(conf), string(models), string(decks), string(dconf),
	)
	if err != nil {
		return fmt.Errorf("insert collection row: %w", err)
	}

	noteID := now.UnixMilli()
	cardID := noteID + 1
	for i, card := range d.Cards {
		fields := card.Fields()
		_, err := db.Exec(
			`INSERT INTO notes (id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data)
			 VALUES (?, ?, ?, ?, -1, '', ?, ?, ?, 0, '')`,
			noteID, newGUID(), modelID, now.Unix(),
			strings.Join(fields, fieldSeparator), fields[0], fieldChecksum(fields[0]),
		)
		if err != nil {
			return fmt.Errorf("insert note %q: %w", card.SourceWord, err)
		}
		for ord := 0; ord < 2; ord++ {
			_, err := db.Exec(
				`INSERT INTO cards (id, nid, did, ord, mod, usn, type, queue, due, ivl,
				                    factor, reps, lapses, left, odue, odid, flags, data)
				 VALUES (?, ?, ?, ?, ?, -1, 0, 0, ?, 0, 0, 0, 0, 0, 0, 0, 0, '')`,
				cardID, noteID, deckID, ord, now.Unix(), i+1,
			)
			if err != nil {
				return fmt.Errorf("insert card %q: %w", card.SourceWord, err)
			}
			cardID++
		}
		noteID++
		cardID++
	}
	return nil
}

// noteModel builds the notetype definition with forward and reverse templates
func (d *Deck) noteModel(modelID, deckID int64, now time.Time) map[string]interface{} {
	fields := make([]map[string]interface{}, 0, 4)
	for ord, name := range fieldNames(d.SourceLanguage, d.TargetLanguage) {
		fields = append(fields, map[string]interface{}{
			"name":   name,
			"ord":    ord,
			"font":   "Arial",
			"media":  []string{},
			"rtl":    false,
			"size":   20,
			"sticky": false,
		})
	}
	templates := make([]map[string]interface{}, 0, 2)
	for ord, tmpl := range noteTemplates(d.SourceLanguage, d.TargetLanguage) {
		templates = append(templates, map[string]interface{}{
			"name":  tmpl.Name,
			"ord":   ord,
			"qfmt":  tmpl.Qfmt,
			"afmt":  tmpl.Afmt,
			"bqfmt": "",
			"bafmt": "",
			"did":   nil,
		})
	}
	return map[string]interface{}{
		"id":        modelID,
		"name":      fmt.Sprintf("%s-%s", d.SourceLanguage, d.TargetLanguage),
		"did":       deckID,
		"flds":      fields,
		"tmpls":     templates,
		"css":       cardCSS,
		"mod":       now.Unix(),
		"usn":       -1,
		"type":      0,
		"sortf":     0,
		"tags":      []string{},
		"vers":      []string{},
		"latexPre":  "\\documentclass[12pt]{article}\n\\special{papersize=3in,5in}\n\\usepackage{amssymb,amsmath}\n\\pagestyle{empty}\n\\setlength{\\parindent}{0in}\n\\begin{document}\n",
		"latexPost": "\\end{document}",
		"req":       []interface{}{[]interface{}{0, "all", []int{0}}, []interface{}{1, "all", []int{1}}},
	}
}

func deckConf(id int64, name string, now time.Time) map[string]interface{} {
	return map[string]interface{}{
		"id":        id,
		"name":      name,
		"desc":      "",
		"mod":       now.Unix(),
		"usn":       -1,
		"conf":      1,
		"dyn":       0,
		"collapsed": false,
		"extendNew": 0,
		"extendRev": 50,
		"newToday":  []int{0, 0},
		"revToday":  []int{0, 0},
		"lrnToday":  []int{0, 0},
		"timeToday": []int{0, 0},
	}
}

func collectionConf() map[string]interface{} {
	return map[string]interface{}{
		"activeDecks":   []int{1},
		"curDeck":       1,
		"curModel":      nil,
		"nextPos":       1,
		"addToCur":      true,
		"collapseTime":  1200,
		"dueCounts":     true,
		"estTimes":      true,
		"newBury":       true,
		"newSpread":     0,
		"sortBackwards": false,
		"sortType":      "noteFld",
		"timeLim":       0,
	}
}

func deckOptions() map[string]interface{} {
	return map[string]interface{}{
		"id":       1,
		"name":     "Default",
		"autoplay": true,
		"maxTaken": 60,
		"replayq":  true,
		"timer":    0,
		"usn":      0,
		"new": map[string]interface{}{
			"bury":          true,
			"delays":        []int{1, 10},
			"initialFactor": 2500,
			"ints":          []int{1, 4, 7},
			"order":         1,
			"perDay":        20,
			"separate":      true,
		},
		"rev": map[string]interface{}{
			"bury":     true,
			"ease4":    1.3,
			"fuzz":     0.05,
			"ivlFct":   1,
			"maxIvl":   36500,
			"minSpace": 1,
			"perDay":   100,
		},
		"lapse": map[string]interface{}{
			"delays":      []int{10},
			"leechAction": 0,
			"leechFails":  8,
			"minInt":      1,
			"mult":        0,
		},
	}
}

// fieldChecksum returns the integer value of the first 8 hex digits of
// the sha1 of the sort field, the checksum Anki uses for duplicate search
func fieldChecksum(field string) int64 {
	digest := sha1.Sum([]byte(field))
	value, err := strconv.ParseInt(hex.EncodeToString(digest[:])[:8], 16, 64)
	if err != nil {
		return 0
	}
	return value
}

func writeArchive(path, collectionPath string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer out.Close()

	archive := zip.NewWriter(out)
	collection, err := os.Open(collectionPath)
	if err != nil {
		return fmt.Errorf("open collection: %w", err)
	}
	defer collection.Close()

	entry, err := archive.Create("collection.anki2")
	if err != nil {
		return fmt.Errorf("create collection entry: %w", err)
	}
	if _, err := io.Copy(entry, collection); err != nil {
		return fmt.Errorf("copy collection: %w", err)
	}
	media, err := archive.Create("media")
	if err != nil {
		return fmt.Errorf("create media entry: %w", err)
	}
	if _, err := media.Write([]byte("{}")); err != nil {
		return fmt.Errorf("write media manifest: %w", err)
	}
	if err := archive.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return nil
}
