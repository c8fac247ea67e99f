package gtfs

// Feed is one loaded transit dataset: the relational store holding the
// surviving rows, the set of tables that actually loaded, and every
// warning the load produced. A Feed is read-only once Load returns and
// is safe for concurrent readers; Close releases the store.
type Feed struct {
	store    *Store
	warnings *WarningList
	tables   map[string]bool
	loadID   string
}

// Close releases the feed's store. The feed is unusable afterwards.
func (f *Feed) Close() error {
	return f.store.Close()
}

// LoadID identifies this load; exported diagnostics are stamped with it.
func (f *Feed) LoadID() string {
	return f.loadID
}

// Warnings returns every diagnostic recorded during the load, in order.
func (f *Feed) Warnings() []Warning {
	return f.warnings.All()
}

// HasTable reports whether the named table loaded with at least one row.
func (f *Feed) HasTable(name string) bool {
	return f.tables[name]
}

// TableNames returns the names of the tables that loaded.
func (f *Feed) TableNames() []string {
	names := make([]string, 0, len(f.tables))
	for name := range f.tables {
		names = append(names, name)
	}
	return names
}

// Store exposes the relational store for raw queries.
func (f *Feed) Store() *Store {
	return f.store
}

// exportWarnings materializes the warning list into the gtfs_warnings
// side table so diagnostics can be queried alongside the data.
func (f *Feed) exportWarnings() error {
	tx, err := f.store.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT INTO gtfs_warnings (load_id, warn_message, warn_table, warn_field, warn_record) VALUES (?, ?, ?, ?, ?);")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, w := range f.warnings.All() {
		if _, err := stmt.Exec(f.loadID, w.Message, nullable(w.Table), nullable(w.Field), nullable(w.Record)); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
