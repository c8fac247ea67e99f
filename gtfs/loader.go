package gtfs

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
)

// Load opens a GTFS zip archive at path and ingests every table the
// registry knows about, in dependency order. It fails outright when
// the path does not exist, when a required table or column is missing,
// or when no agency timezone can be resolved; everything milder lands
// in the returned feed's warning list.
func Load(path string) (*Feed, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open feed: %w", err)
	}
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open feed: %w", err)
	}
	defer zr.Close()

	return load(&zr.Reader)
}

// LoadFromBytes ingests a GTFS zip archive held in memory.
func LoadFromBytes(data []byte) (*Feed, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open feed: %w", err)
	}
	return load(zr)
}

func load(zr *zip.Reader) (*Feed, error) {
	store, err := openMemoryStore()
	if err != nil {
		return nil, err
	}

	f := &Feed{
		store:    store,
		warnings: &WarningList{},
		tables:   map[string]bool{},
		loadID:   uuid.NewString(),
	}

	for _, t := range Tables() {
		populated, err := f.loadTable(t, zr)
		if err != nil {
			store.Close()
			return nil, err
		}
		if !populated {
			if t.Required {
				store.Close()
				return nil, &ParseError{Table: t.Name, Err: errors.New("no usable rows survived the load")}
			}
			continue
		}
		f.tables[t.Name] = true
		log.Printf("gtfs: loaded table %s", t.Name)

		if t.PostLoad != nil {
			if err := t.PostLoad(f); err != nil {
				store.Close()
				return nil, fmt.Errorf("validate %s: %w", t.Name, err)
			}
		}
	}

	if err := f.exportWarnings(); err != nil {
		store.Close()
		return nil, fmt.Errorf("export warnings: %w", err)
	}
	log.Printf("gtfs: load %s complete, %d tables, %d warnings", f.loadID, len(f.tables), f.warnings.Len())
	return f, nil
}
