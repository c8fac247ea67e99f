package gtfs

import (
	"database/sql"
	"errors"
)

// ErrNoAgencyTimezone aborts a load whose agencies declare no timezone
// at all; a feed without a resolvable timezone is unusable.
var ErrNoAgencyTimezone = errors.New("agency_timezone cannot be null for all agencies")

// unifyAgencyTimezones enforces the GTFS requirement that every agency
// in a feed uses the same timezone. The first non-null timezone wins;
// every agency holding a different value (or none) is warned about and
// overwritten.
func unifyAgencyTimezones(f *Feed) error {
	zones, err := f.store.GetResultList("SELECT DISTINCT agency_timezone FROM agency;")
	if err != nil {
		return err
	}

	canonical := ""
	nullZone := false
	multiZone := false
	for _, z := range zones {
		s, ok := z.(string)
		if !ok || s == "" {
			nullZone = true
			continue
		}
		if canonical == "" {
			canonical = s
		} else {
			multiZone = true
		}
	}

	if canonical == "" {
		return ErrNoAgencyTimezone
	}
	if !nullZone && !multiZone {
		return nil
	}

	rows, err := f.store.Query("SELECT agency_id, agency_timezone FROM agency WHERE agency_timezone IS NULL OR agency_timezone != ?;", canonical)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var agencyID string
		var oldZone sql.NullString
		if err := rows.Scan(&agencyID, &oldZone); err != nil {
			return err
		}
		zone := "null"
		if oldZone.Valid {
			zone = oldZone.String
		}
		f.warnings.AddMessage("agency", "agency_timezone", agencyID,
			"Timezone "+zone+" was changed to conform to the GTFS requirement that all agencies have the same zone.")
	}
	if err := rows.Err(); err != nil {
		return err
	}

	return f.store.Exec("UPDATE agency SET agency_timezone = ?;", canonical)
}
