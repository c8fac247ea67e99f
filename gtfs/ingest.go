package gtfs

import (
	"archive/zip"
	"database/sql"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// findEntry locates a table's file in the archive. Feeds disagree on
// name casing, so the match is case-insensitive.
func findEntry(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if strings.EqualFold(f.Name, name) {
			return f
		}
	}
	return nil
}

// loadTable creates the table's storage shape and ingests its rows
// from the archive. It reports whether at least one row survived.
//
// All work for one table happens in a single transaction: a caller
// never observes a half-loaded table. Rows skipped by validation or
// vetoed by a rule are simply never inserted; each produces at least
// one Warning.
func (f *Feed) loadTable(t Table, zr *zip.Reader) (populated bool, err error) {
	// The loader drives tables in dependency order, but double-check:
	// a child of a table that failed to load is skipped, not an error.
	for _, p := range t.Parents {
		if !f.tables[p] {
			f.warnings.AddMessage(t.Name, "", "", fmt.Sprintf("Table %s was skipped because %s did not load.", t.Name, p))
			return false, nil
		}
	}

	tx, err := f.store.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin %s: %w", t.Name, err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	// Virtual entity set first, so rows can register foreign-key-only
	// entities as they are inserted. Two tables may share one set
	// (calendar and calendar_dates both feed calendar_services).
	if t.VirtualTable != "" {
		if _, err := tx.Exec("CREATE TABLE IF NOT EXISTS " + t.VirtualTable + " (\n  " + t.VirtualColumn.Name + " " + t.VirtualColumn.SQLDef + "\n);"); err != nil {
			return false, fmt.Errorf("create %s: %w", t.VirtualTable, err)
		}
	}

	var b strings.Builder
	b.WriteString("CREATE TABLE " + t.Name + " (")
	for i, col := range t.Columns {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("\n  " + col.Name + " " + col.SQLDef)
	}
	if len(t.PrimaryKey) > 1 {
		b.WriteString(",\n  PRIMARY KEY (" + strings.Join(t.PrimaryKey, ", ") + ")")
	}
	b.WriteString("\n);")
	if _, err := tx.Exec(b.String()); err != nil {
		return false, fmt.Errorf("create %s: %w", t.Name, err)
	}

	entry := findEntry(zr, t.Name+".txt")
	if entry == nil {
		if t.Required {
			return false, &ParseError{Table: t.Name, Err: ErrMissingTable}
		}
		f.warnings.AddMessage(t.Name, "", "", fmt.Sprintf("Optional table %s.txt is not present in this feed.", t.Name))
		err = tx.Commit()
		committed = err == nil
		return false, err
	}

	records, err := readCSV(entry)
	if err != nil {
		if t.Required {
			return false, &ParseError{Table: t.Name, Err: err}
		}
		f.warnings.AddMessage(t.Name, "", "", fmt.Sprintf("Optional table %s.txt could not be read: %v.", t.Name, err))
		err = tx.Commit()
		committed = err == nil
		return false, err
	}
	if len(records) == 0 {
		if t.Required {
			return false, &ParseError{Table: t.Name, Err: ErrMissingTable}
		}
		f.warnings.AddMessage(t.Name, "", "", fmt.Sprintf("Optional table %s.txt is empty.", t.Name))
		err = tx.Commit()
		committed = err == nil
		return false, err
	}

	// Map the header against the schema. Unrecognized columns are
	// ignored; declared columns absent from the header stay null.
	allowed := make(map[string]Column, len(t.Columns))
	requiredMissing := map[string]bool{}
	for _, col := range t.Columns {
		allowed[col.Name] = col
		if col.Required {
			requiredMissing[col.Name] = true
		}
	}

	header := records[0]
	used := make([]*Column, len(header))
	var usedNames []string
	for i, cell := range header {
		name := strings.TrimSpace(strings.TrimPrefix(cell, "\uFEFF"))
		delete(requiredMissing, name)
		if col, ok := allowed[name]; ok {
			c := col
			used[i] = &c
			usedNames = append(usedNames, name)
			delete(allowed, name)
		}
	}

	if len(requiredMissing) > 0 {
		missing := make([]string, 0, len(requiredMissing))
		for name := range requiredMissing {
			missing = append(missing, name)
		}
		sort.Strings(missing)
		if t.Required {
			return false, &ParseError{Table: t.Name, Field: strings.Join(missing, ", "), Err: ErrMissingColumn}
		}
		for _, name := range missing {
			f.warnings.AddMessage(t.Name, name, "", fmt.Sprintf("Required column %s is missing from %s.txt.", name, t.Name))
		}
		f.warnings.AddMessage(t.Name, "", "", fmt.Sprintf("Table %s.txt was skipped: missing required column(s) %s.", t.Name, strings.Join(missing, ", ")))
		err = tx.Commit()
		committed = err == nil
		return false, err
	}

	// A single-agency feed may omit agency_id entirely; such rows get
	// a synthetic id so the rest of the feed can reference them.
	_, agencyIDUnset := allowed["agency_id"]
	syntheticAgency := t.SyntheticAgencyID && agencyIDUnset

	insertCols := usedNames
	if syntheticAgency {
		insertCols = append([]string{"agency_id"}, usedNames...)
	}
	stmt, err := tx.Prepare("INSERT INTO " + t.Name + " (" + strings.Join(insertCols, ", ") + ") VALUES (" + placeholders(len(insertCols)) + ");")
	if err != nil {
		return false, fmt.Errorf("prepare insert %s: %w", t.Name, err)
	}
	defer stmt.Close()

	inserted := 0
	for n, rec := range records[1:] {
		if ok := f.ingestRow(tx, t, stmt, used, usedNames, syntheticAgency, rec, n+1); ok {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit %s: %w", t.Name, err)
	}
	committed = true
	return inserted > 0, nil
}

// ingestRow coerces, validates and inserts one data row. It reports
// whether the row made it into the store.
func (f *Feed) ingestRow(tx *sql.Tx, t Table, stmt *sql.Stmt, used []*Column, usedNames []string, syntheticAgency bool, rec []string, rowNum int) bool {
	type pendingWarn struct{ field, msg string }
	var pend []pendingWarn

	row := Row{}
	rejected := false

	for i, cell := range rec {
		if i >= len(used) || used[i] == nil {
			continue
		}
		col := used[i]
		v, msgs := Coerce(col.Type, cell)
		row[col.Name] = v
		for _, m := range msgs {
			pend = append(pend, pendingWarn{col.Name, m})
		}
	}

	// A required column that coerced (or defaulted) to null sinks the
	// row, but the remaining problems are still reported so one load
	// surfaces everything wrong with the row.
	for _, col := range used {
		if col != nil && col.Required && row[col.Name].IsNull() {
			rejected = true
			pend = append(pend, pendingWarn{col.Name, fmt.Sprintf("%s is required; the row was skipped.", col.Name)})
		}
	}

	if syntheticAgency {
		row["agency_id"] = TextValue("agency")
	}

	recID := f.recordID(t, row, rowNum)
	for _, p := range pend {
		f.warnings.AddMessage(t.Name, p.field, recID, p.msg)
	}

	if rejected {
		return false
	}

	if t.VirtualTable != "" {
		if v := row[t.VirtualColumn.Name]; !v.IsNull() {
			if _, err := tx.Exec("INSERT OR IGNORE INTO "+t.VirtualTable+" ("+t.VirtualColumn.Name+") VALUES (?);", v.Driver()); err != nil {
				f.warnings.AddMessage(t.Name, t.VirtualColumn.Name, recID, fmt.Sprintf("Could not register %s value: %v.", t.VirtualTable, err))
			}
		}
	}

	for _, rule := range t.Rules {
		outcome, msg := rule.Check(tx, row)
		if msg != "" {
			f.warnings.AddMessage(t.Name, rule.Field, recID, msg)
		}
		if outcome == RuleReject {
			return false
		}
	}

	args := make([]any, 0, len(usedNames)+1)
	if syntheticAgency {
		args = append(args, row["agency_id"].Driver())
	}
	for _, name := range usedNames {
		args = append(args, row[name].Driver())
	}
	if _, err := stmt.Exec(args...); err != nil {
		f.warnings.AddMessage(t.Name, "", recID, fmt.Sprintf("Row could not be inserted: %v.", err))
		return false
	}
	return true
}

// recordID derives a warning's record identifier from the row's
// primary key value(s), falling back to the row's position when the
// key cannot be determined.
func (f *Feed) recordID(t Table, row Row, rowNum int) string {
	if len(t.PrimaryKey) == 0 {
		return "Row " + strconv.Itoa(rowNum)
	}
	parts := make([]string, 0, len(t.PrimaryKey))
	for _, pk := range t.PrimaryKey {
		v := row[pk]
		if v.IsNull() {
			return "Row " + strconv.Itoa(rowNum)
		}
		parts = append(parts, v.String())
	}
	return strings.Join(parts, "/")
}

func readCSV(entry *zip.File) ([][]string, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	cr := csv.NewReader(rc)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr.ReadAll()
}

func placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "?"
	}
	return strings.Join(parts, ", ")
}
