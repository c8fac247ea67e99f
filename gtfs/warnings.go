package gtfs

// Warning is a structured, non-fatal diagnostic produced during
// loading. Table, Field and Record locate the offending value; any of
// them may be empty when the problem is not that specific.
type Warning struct {
	Message string
	Table   string
	Field   string
	Record  string
}

// WarningList accumulates warnings during a load. It is append-only;
// a Warning is never modified after it is added.
type WarningList struct {
	warnings []Warning
}

// Add appends a warning.
func (w *WarningList) Add(warn Warning) {
	w.warnings = append(w.warnings, warn)
}

// AddMessage appends a warning with full provenance.
func (w *WarningList) AddMessage(table, field, record, message string) {
	w.warnings = append(w.warnings, Warning{
		Message: message,
		Table:   table,
		Field:   field,
		Record:  record,
	})
}

// All returns the accumulated warnings in the order they were added.
// The returned slice is shared; callers must not modify it.
func (w *WarningList) All() []Warning {
	return w.warnings
}

// Len returns the number of accumulated warnings.
func (w *WarningList) Len() int {
	return len(w.warnings)
}
