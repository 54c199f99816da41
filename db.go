package porytiles

import (
	"bytes"
	"database/sql"
	"encoding/gob"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/porytiles/porytiles/compiler"
)

// CompileDB caches compiled tilesets keyed by a hash of their inputs, so
// repeated builds and secondary compiles can skip recompiling an unchanged
// primary.
type CompileDB struct {
	db *sql.DB
}

func NewCompileDB(file string) (*CompileDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS tileset (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, artifact BLOB NOT NULL)"); err != nil {
		return nil, err
	}

	return &CompileDB{
		db: db,
	}, nil
}

func (db *CompileDB) Close() error {
	return db.db.Close()
}

// FindTilesetBySHA1 returns the cached tileset for the given input hash, or
// nil when there is no entry.
func (db *CompileDB) FindTilesetBySHA1(sha string) (*compiler.Tileset, error) {
	var artifact []byte
	switch err := db.db.QueryRow("SELECT artifact FROM tileset WHERE sha1 = ?", sha).Scan(&artifact); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		var ts compiler.Tileset
		if err := gob.NewDecoder(bytes.NewReader(artifact)).Decode(&ts); err != nil {
			return nil, fmt.Errorf("decoding cached tileset: %w", err)
		}
		return &ts, nil
	default:
		return nil, err
	}
}

// StoreTileset saves a compiled tileset under the given input hash,
// replacing any previous entry.
func (db *CompileDB) StoreTileset(sha string, ts *compiler.Tileset) error {
	b := new(bytes.Buffer)
	if err := gob.NewEncoder(b).Encode(ts); err != nil {
		return fmt.Errorf("encoding tileset: %w", err)
	}
	if _, err := db.db.Exec("INSERT OR REPLACE INTO tileset (sha1, artifact) VALUES (?, ?)", sha, b.Bytes()); err != nil {
		return err
	}
	return nil
}
