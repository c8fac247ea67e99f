package gtfs

import (
	"database/sql"
	"fmt"
)

// GTFS location_type codes for the stops table.
const (
	LocationPlatform int64 = iota
	LocationStation
	LocationEntrance
	LocationGenericNode
	LocationBoardingArea
	LocationUnmannedPOS
	LocationMannedPOS
)

// locationType returns the row's location_type code. A null
// location_type fires none of the location-keyed rules, matching SQL
// NULL semantics in the trigger-based formulation these rules replace.
func locationType(row Row) (int64, bool) {
	v := row["location_type"]
	if v.IsNull() {
		return 0, false
	}
	return v.Int, true
}

// parentHasType reports whether the referenced stop exists with the
// wanted location_type. Rows inserted earlier in the same transaction
// are visible, so parents declared above their children resolve.
func parentHasType(tx *sql.Tx, stopID string, want int64) bool {
	var n int
	if err := tx.QueryRow("SELECT count(*) FROM stops WHERE stop_id = ? AND location_type = ?;", stopID, want).Scan(&n); err != nil {
		return false
	}
	return n > 0
}

func in(v int64, set ...int64) bool {
	for _, s := range set {
		if v == s {
			return true
		}
	}
	return false
}

// stopsRules encodes the stop hierarchy constraints. The rules run in
// order against each coerced row; a correction made by one rule is
// seen by the ones after it.
func stopsRules() []Rule {
	return []Rule{
		{
			Field: "stop_name",
			Check: func(tx *sql.Tx, row Row) (RuleOutcome, string) {
				lt, ok := locationType(row)
				if ok && in(lt, LocationPlatform, LocationStation, LocationEntrance) && row["stop_name"].IsNull() {
					return RuleReject, fmt.Sprintf("stop_name is required for location_type %d.", lt)
				}
				return RuleOK, ""
			},
		},
		{
			Field: "parent_station",
			Check: func(tx *sql.Tx, row Row) (RuleOutcome, string) {
				lt, ok := locationType(row)
				if ok && in(lt, LocationEntrance, LocationGenericNode, LocationBoardingArea) && row["parent_station"].IsNull() {
					return RuleReject, fmt.Sprintf("Stops of location_type %d must have a parent_station.", lt)
				}
				return RuleOK, ""
			},
		},
		{
			Field: "parent_station",
			Check: func(tx *sql.Tx, row Row) (RuleOutcome, string) {
				lt, ok := locationType(row)
				if ok && in(lt, LocationEntrance, LocationGenericNode) && !row["parent_station"].IsNull() &&
					!parentHasType(tx, row["parent_station"].Text, LocationStation) {
					return RuleReject, fmt.Sprintf("Stops of location_type %d must have a parent_station with location_type of 1.", lt)
				}
				return RuleOK, ""
			},
		},
		{
			Field: "parent_station",
			Check: func(tx *sql.Tx, row Row) (RuleOutcome, string) {
				lt, ok := locationType(row)
				if ok && lt == LocationBoardingArea && !row["parent_station"].IsNull() &&
					!parentHasType(tx, row["parent_station"].Text, LocationPlatform) {
					return RuleReject, "Stops of location_type 4 must have a parent_station with location_type of 0."
				}
				return RuleOK, ""
			},
		},
		{
			Field: "parent_station",
			Check: func(tx *sql.Tx, row Row) (RuleOutcome, string) {
				lt, ok := locationType(row)
				if ok && in(lt, LocationPlatform, LocationUnmannedPOS, LocationMannedPOS) && !row["parent_station"].IsNull() &&
					!parentHasType(tx, row["parent_station"].Text, LocationStation) {
					// Wrong parent here is survivable: drop the reference
					// instead of the row.
					row["parent_station"] = Null()
					return RuleOK, fmt.Sprintf("Stops of location_type %d must have either no parent_station or a parent_station with location_type of 1.", lt)
				}
				return RuleOK, ""
			},
		},
		{
			Field: "parent_station",
			Check: func(tx *sql.Tx, row Row) (RuleOutcome, string) {
				lt, ok := locationType(row)
				if ok && lt == LocationStation && !row["parent_station"].IsNull() {
					row["parent_station"] = Null()
					return RuleOK, "Stops of location_type 1 must not have a parent_station."
				}
				return RuleOK, ""
			},
		},
		{
			Check: func(tx *sql.Tx, row Row) (RuleOutcome, string) {
				lt, ok := locationType(row)
				if ok && in(lt, LocationPlatform, LocationStation, LocationEntrance) &&
					(row["stop_lat"].IsNull() || row["stop_lon"].IsNull()) {
					return RuleReject, fmt.Sprintf("stop_lat and stop_lon are required for stops of location_type %d.", lt)
				}
				return RuleOK, ""
			},
		},
		{
			Check: func(tx *sql.Tx, row Row) (RuleOutcome, string) {
				lt, ok := locationType(row)
				if ok && in(lt, LocationUnmannedPOS, LocationMannedPOS) && row["parent_station"].IsNull() &&
					(row["stop_lat"].IsNull() || row["stop_lon"].IsNull()) {
					return RuleReject, fmt.Sprintf("stop_lat and stop_lon are required for parentless stops of location_type %d.", lt)
				}
				return RuleOK, ""
			},
		},
	}
}

// routesRules rejects routes that end up with no name at all; a feed
// whose routes all lose their names fails the load outright because
// routes is a required table.
func routesRules() []Rule {
	return []Rule{
		{
			Field: "route_short_name",
			Check: func(tx *sql.Tx, row Row) (RuleOutcome, string) {
				if row["route_short_name"].IsNull() && row["route_long_name"].IsNull() {
					return RuleReject, "Routes must have a route_short_name or a route_long_name."
				}
				return RuleOK, ""
			},
		},
	}
}
