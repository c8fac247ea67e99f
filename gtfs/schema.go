package gtfs

import "database/sql"

// Column describes one field of a GTFS table: its name, semantic type,
// SQL storage definition and whether a row is unusable without it.
type Column struct {
	Name     string
	Type     DataType
	SQLDef   string
	Required bool
}

// RuleOutcome is a business rule's verdict on a row.
type RuleOutcome int

const (
	// RuleOK lets the row through, possibly after the rule corrected a
	// field in place.
	RuleOK RuleOutcome = iota
	// RuleReject vetoes the insert.
	RuleReject
)

// Rule is a table-specific constraint checked against each coerced row
// before it is inserted. A rule may read already-inserted rows through
// the transaction. A non-empty message becomes a Warning attributed to
// Field, whether the row was rejected or corrected.
type Rule struct {
	Field string
	Check func(tx *sql.Tx, row Row) (RuleOutcome, string)
}

// Table is the declarative specification of one GTFS table.
type Table struct {
	Name     string
	Required bool
	Columns  []Column

	// PrimaryKey lists the key columns, used to resolve record
	// identifiers for warnings. More than one column also produces a
	// composite PRIMARY KEY clause.
	PrimaryKey []string

	// VirtualTable names an auxiliary keyed set populated from
	// VirtualColumn as rows are inserted, for entities that only ever
	// appear as foreign keys (fare zones, shape ids, service ids).
	VirtualTable  string
	VirtualColumn Column

	// Parents lists tables that must have loaded successfully before
	// this one is attempted.
	Parents []string

	Rules    []Rule
	PostLoad func(f *Feed) error

	// SyntheticAgencyID marks the agency table's quirk: a feed with a
	// single agency may omit agency_id, in which case rows get the
	// synthetic id "agency".
	SyntheticAgencyID bool
}

// Tables returns the full table registry in dependency order. The
// loader processes tables in exactly this order so that rules can
// check foreign keys against already-inserted parent rows.
func Tables() []Table {
	return []Table{
		{
			Name:     "agency",
			Required: true,
			Columns: []Column{
				{Name: "agency_id", Type: TypeID, SQLDef: "TEXT PRIMARY KEY NOT NULL"},
				{Name: "agency_name", Type: TypeText, SQLDef: "TEXT NOT NULL", Required: true},
				{Name: "agency_url", Type: TypeURL, SQLDef: "TEXT"},
				{Name: "agency_timezone", Type: TypeTimezone, SQLDef: "TEXT"},
				{Name: "agency_lang", Type: TypeLanguage, SQLDef: "TEXT"},
				{Name: "agency_phone", Type: TypePhone, SQLDef: "TEXT"},
				{Name: "agency_fare_url", Type: TypeURL, SQLDef: "TEXT"},
				{Name: "agency_email", Type: TypeEmail, SQLDef: "TEXT"},
			},
			PrimaryKey:        []string{"agency_id"},
			PostLoad:          unifyAgencyTimezones,
			SyntheticAgencyID: true,
		},
		{
			Name: "levels",
			Columns: []Column{
				{Name: "level_id", Type: TypeID, SQLDef: "TEXT PRIMARY KEY NOT NULL", Required: true},
				{Name: "level_index", Type: TypeFloat, SQLDef: "REAL NOT NULL", Required: true},
				{Name: "level_name", Type: TypeText, SQLDef: "TEXT"},
			},
			PrimaryKey: []string{"level_id"},
		},
		{
			Name:     "routes",
			Required: true,
			Parents:  []string{"agency"},
			Columns: []Column{
				{Name: "route_id", Type: TypeID, SQLDef: "TEXT PRIMARY KEY NOT NULL", Required: true},
				{Name: "agency_id", Type: TypeID, SQLDef: "TEXT"},
				{Name: "route_short_name", Type: TypeText, SQLDef: "TEXT"},
				{Name: "route_long_name", Type: TypeText, SQLDef: "TEXT"},
				{Name: "route_desc", Type: TypeText, SQLDef: "TEXT"},
				{Name: "route_type", Type: TypeEnum, SQLDef: "INTEGER NOT NULL", Required: true},
				{Name: "route_url", Type: TypeURL, SQLDef: "TEXT"},
				{Name: "route_color", Type: TypeColor, SQLDef: "TEXT"},
				{Name: "route_text_color", Type: TypeColor, SQLDef: "TEXT"},
				{Name: "route_sort_order", Type: TypeNonNegativeInteger, SQLDef: "INTEGER"},
				{Name: "continuous_pickup", Type: TypeEnum, SQLDef: "INTEGER"},
				{Name: "continuous_drop_off", Type: TypeEnum, SQLDef: "INTEGER"},
			},
			PrimaryKey: []string{"route_id"},
			Rules:      routesRules(),
		},
		{
			Name:     "stops",
			Required: true,
			Columns: []Column{
				{Name: "stop_id", Type: TypeID, SQLDef: "TEXT PRIMARY KEY NOT NULL", Required: true},
				{Name: "stop_code", Type: TypeText, SQLDef: "TEXT"},
				{Name: "stop_name", Type: TypeText, SQLDef: "TEXT"},
				{Name: "tts_stop_name", Type: TypeText, SQLDef: "TEXT"},
				{Name: "stop_desc", Type: TypeText, SQLDef: "TEXT"},
				{Name: "stop_lat", Type: TypeLatitude, SQLDef: "REAL"},
				{Name: "stop_lon", Type: TypeLongitude, SQLDef: "REAL"},
				{Name: "zone_id", Type: TypeID, SQLDef: "TEXT"},
				{Name: "stop_url", Type: TypeURL, SQLDef: "TEXT"},
				{Name: "location_type", Type: TypeEnum, SQLDef: "INTEGER"},
				{Name: "parent_station", Type: TypeID, SQLDef: "TEXT"},
				{Name: "stop_timezone", Type: TypeTimezone, SQLDef: "TEXT"},
				{Name: "wheelchair_boarding", Type: TypeEnum, SQLDef: "INTEGER"},
				{Name: "level_id", Type: TypeID, SQLDef: "TEXT"},
				{Name: "platform_code", Type: TypeText, SQLDef: "TEXT"},
			},
			PrimaryKey:    []string{"stop_id"},
			VirtualTable:  "fare_zones",
			VirtualColumn: Column{Name: "zone_id", Type: TypeID, SQLDef: "TEXT PRIMARY KEY NOT NULL"},
			Rules:         stopsRules(),
		},
		{
			Name: "shapes",
			Columns: []Column{
				{Name: "shape_id", Type: TypeID, SQLDef: "TEXT NOT NULL", Required: true},
				{Name: "shape_pt_lat", Type: TypeLatitude, SQLDef: "REAL NOT NULL", Required: true},
				{Name: "shape_pt_lon", Type: TypeLongitude, SQLDef: "REAL NOT NULL", Required: true},
				{Name: "shape_pt_sequence", Type: TypeNonNegativeInteger, SQLDef: "INTEGER NOT NULL", Required: true},
				{Name: "shape_dist_traveled", Type: TypeNonNegativeFloat, SQLDef: "REAL"},
			},
			PrimaryKey:    []string{"shape_id", "shape_pt_sequence"},
			VirtualTable:  "shape_ids",
			VirtualColumn: Column{Name: "shape_id", Type: TypeID, SQLDef: "TEXT PRIMARY KEY NOT NULL"},
		},
		{
			Name: "calendar",
			Columns: []Column{
				{Name: "service_id", Type: TypeID, SQLDef: "TEXT PRIMARY KEY NOT NULL", Required: true},
				{Name: "monday", Type: TypeEnum, SQLDef: "INTEGER NOT NULL", Required: true},
				{Name: "tuesday", Type: TypeEnum, SQLDef: "INTEGER NOT NULL", Required: true},
				{Name: "wednesday", Type: TypeEnum, SQLDef: "INTEGER NOT NULL", Required: true},
				{Name: "thursday", Type: TypeEnum, SQLDef: "INTEGER NOT NULL", Required: true},
				{Name: "friday", Type: TypeEnum, SQLDef: "INTEGER NOT NULL", Required: true},
				{Name: "saturday", Type: TypeEnum, SQLDef: "INTEGER NOT NULL", Required: true},
				{Name: "sunday", Type: TypeEnum, SQLDef: "INTEGER NOT NULL", Required: true},
				{Name: "start_date", Type: TypeDate, SQLDef: "TEXT NOT NULL", Required: true},
				{Name: "end_date", Type: TypeDate, SQLDef: "TEXT NOT NULL", Required: true},
			},
			PrimaryKey:    []string{"service_id"},
			VirtualTable:  "calendar_services",
			VirtualColumn: Column{Name: "service_id", Type: TypeID, SQLDef: "TEXT PRIMARY KEY NOT NULL"},
		},
		{
			Name: "calendar_dates",
			Columns: []Column{
				{Name: "service_id", Type: TypeID, SQLDef: "TEXT NOT NULL", Required: true},
				{Name: "date", Type: TypeDate, SQLDef: "TEXT NOT NULL", Required: true},
				{Name: "exception_type", Type: TypeEnum, SQLDef: "INTEGER NOT NULL", Required: true},
			},
			PrimaryKey:    []string{"service_id", "date"},
			VirtualTable:  "calendar_services",
			VirtualColumn: Column{Name: "service_id", Type: TypeID, SQLDef: "TEXT PRIMARY KEY NOT NULL"},
		},
		{
			Name:     "trips",
			Required: true,
			Parents:  []string{"routes"},
			Columns: []Column{
				{Name: "route_id", Type: TypeID, SQLDef: "TEXT NOT NULL", Required: true},
				{Name: "service_id", Type: TypeID, SQLDef: "TEXT NOT NULL", Required: true},
				{Name: "trip_id", Type: TypeID, SQLDef: "TEXT PRIMARY KEY NOT NULL", Required: true},
				{Name: "trip_headsign", Type: TypeText, SQLDef: "TEXT"},
				{Name: "trip_short_name", Type: TypeText, SQLDef: "TEXT"},
				{Name: "direction_id", Type: TypeEnum, SQLDef: "INTEGER"},
				{Name: "block_id", Type: TypeID, SQLDef: "TEXT"},
				{Name: "shape_id", Type: TypeID, SQLDef: "TEXT"},
				{Name: "wheelchair_accessible", Type: TypeEnum, SQLDef: "INTEGER"},
				{Name: "bikes_allowed", Type: TypeEnum, SQLDef: "INTEGER"},
			},
			PrimaryKey: []string{"trip_id"},
		},
		{
			Name:     "stop_times",
			Required: true,
			Parents:  []string{"trips", "stops"},
			Columns: []Column{
				{Name: "trip_id", Type: TypeID, SQLDef: "TEXT NOT NULL", Required: true},
				{Name: "arrival_time", Type: TypeTime, SQLDef: "TEXT"},
				{Name: "departure_time", Type: TypeTime, SQLDef: "TEXT"},
				{Name: "stop_id", Type: TypeID, SQLDef: "TEXT NOT NULL", Required: true},
				{Name: "stop_sequence", Type: TypeNonNegativeInteger, SQLDef: "INTEGER NOT NULL", Required: true},
				{Name: "stop_headsign", Type: TypeText, SQLDef: "TEXT"},
				{Name: "pickup_type", Type: TypeEnum, SQLDef: "INTEGER"},
				{Name: "drop_off_type", Type: TypeEnum, SQLDef: "INTEGER"},
				{Name: "continuous_pickup", Type: TypeEnum, SQLDef: "INTEGER"},
				{Name: "continuous_drop_off", Type: TypeEnum, SQLDef: "INTEGER"},
				{Name: "shape_dist_traveled", Type: TypeNonNegativeFloat, SQLDef: "REAL"},
				{Name: "timepoint", Type: TypeEnum, SQLDef: "INTEGER"},
			},
			PrimaryKey: []string{"trip_id", "stop_sequence"},
		},
		{
			Name: "fare_attributes",
			Columns: []Column{
				{Name: "fare_id", Type: TypeID, SQLDef: "TEXT PRIMARY KEY NOT NULL", Required: true},
				{Name: "price", Type: TypeNonNegativeFloat, SQLDef: "REAL NOT NULL", Required: true},
				{Name: "currency_type", Type: TypeCurrency, SQLDef: "TEXT NOT NULL", Required: true},
				{Name: "payment_method", Type: TypeEnum, SQLDef: "INTEGER NOT NULL", Required: true},
				{Name: "transfers", Type: TypeEnum, SQLDef: "INTEGER"},
				{Name: "agency_id", Type: TypeID, SQLDef: "TEXT"},
				{Name: "transfer_duration", Type: TypeNonNegativeInteger, SQLDef: "INTEGER"},
			},
			PrimaryKey: []string{"fare_id"},
		},
		{
			Name:    "fare_rules",
			Parents: []string{"fare_attributes"},
			Columns: []Column{
				{Name: "fare_id", Type: TypeID, SQLDef: "TEXT NOT NULL", Required: true},
				{Name: "route_id", Type: TypeID, SQLDef: "TEXT"},
				{Name: "origin_id", Type: TypeID, SQLDef: "TEXT"},
				{Name: "destination_id", Type: TypeID, SQLDef: "TEXT"},
				{Name: "contains_id", Type: TypeID, SQLDef: "TEXT"},
			},
		},
		{
			Name: "feed_info",
			Columns: []Column{
				{Name: "feed_publisher_name", Type: TypeText, SQLDef: "TEXT NOT NULL", Required: true},
				{Name: "feed_publisher_url", Type: TypeURL, SQLDef: "TEXT NOT NULL", Required: true},
				{Name: "feed_lang", Type: TypeLanguage, SQLDef: "TEXT NOT NULL", Required: true},
				{Name: "default_lang", Type: TypeLanguage, SQLDef: "TEXT"},
				{Name: "feed_start_date", Type: TypeDate, SQLDef: "TEXT"},
				{Name: "feed_end_date", Type: TypeDate, SQLDef: "TEXT"},
				{Name: "feed_version", Type: TypeText, SQLDef: "TEXT"},
				{Name: "feed_contact_email", Type: TypeEmail, SQLDef: "TEXT"},
				{Name: "feed_contact_url", Type: TypeURL, SQLDef: "TEXT"},
			},
		},
	}
}
