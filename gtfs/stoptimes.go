package gtfs

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
)

// ErrNoTimepoints is returned when a stop time's arrival and departure
// cannot be estimated because no explicitly timed row exists on both
// sides of it within the trip.
var ErrNoTimepoints = errors.New("no timed stop on both sides of this stop time")

// StopTime is one row of a trip's schedule. Arrival and Departure are
// seconds into the service day; nil means the feed left them unset and
// they must be interpolated.
type StopTime struct {
	TripID      string
	StopID      string
	Sequence    int
	Arrival     *int
	Departure   *int
	Headsign    string
	PickupType  int64
	DropOffType int64
	ShapeDist   *float64
	Timepoint   bool
}

// StopTimesForTrip returns the trip's schedule in sequence order.
func (f *Feed) StopTimesForTrip(tripID string) ([]StopTime, error) {
	rows, err := f.store.Query(`SELECT stop_id, stop_sequence, arrival_time, departure_time,
		stop_headsign, pickup_type, drop_off_type, shape_dist_traveled, timepoint
		FROM stop_times WHERE trip_id = ? ORDER BY stop_sequence ASC;`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StopTime
	for rows.Next() {
		st := StopTime{TripID: tripID}
		var arr, dep, headsign sql.NullString
		var pickup, dropOff, timepoint sql.NullInt64
		var dist sql.NullFloat64
		if err := rows.Scan(&st.StopID, &st.Sequence, &arr, &dep, &headsign, &pickup, &dropOff, &dist, &timepoint); err != nil {
			return nil, err
		}
		if st.Arrival, err = parseNullTime(arr); err != nil {
			return nil, err
		}
		if st.Departure, err = parseNullTime(dep); err != nil {
			return nil, err
		}
		st.Headsign = headsign.String
		st.PickupType = pickup.Int64
		st.DropOffType = dropOff.Int64
		if dist.Valid {
			d := dist.Float64
			st.ShapeDist = &d
		}
		st.Timepoint = timepoint.Valid && timepoint.Int64 == 1
		out = append(out, st)
	}
	return out, rows.Err()
}

// InterpolatedTimes returns the arrival and departure (seconds into
// the service day) for one stop time, estimating them when the feed
// left them unset.
//
// The estimate interpolates between the nearest explicitly timed rows
// before and after the target, using cumulative shape distance when
// all three rows carry it and stop ordinals otherwise. It lerps the
// midpoint and the dwell of the two endpoints rather than arrival and
// departure directly, so a stop between two long-dwell timepoints gets
// a proportional dwell instead of a degenerate zero one.
func (f *Feed) InterpolatedTimes(tripID string, sequence int) (arrival, departure int, err error) {
	row, err := f.store.GetRowDict("SELECT arrival_time, departure_time, shape_dist_traveled FROM stop_times WHERE trip_id = ? AND stop_sequence = ?;", tripID, sequence)
	if err != nil {
		return 0, 0, err
	}
	if row == nil {
		return 0, 0, fmt.Errorf("trip %s has no stop time at sequence %d", tripID, sequence)
	}

	// Explicit times win; nothing to estimate.
	if row["arrival_time"] != nil {
		arrival, err = ParseTime(asText(row["arrival_time"]))
		if err != nil {
			return 0, 0, err
		}
		departure = arrival
		if row["departure_time"] != nil {
			if departure, err = ParseTime(asText(row["departure_time"])); err != nil {
				return 0, 0, err
			}
		}
		return arrival, departure, nil
	}

	prevSeq, okPrev, err := f.neighborTimedSeq(tripID, sequence, true)
	if err != nil {
		return 0, 0, err
	}
	nextSeq, okNext, err := f.neighborTimedSeq(tripID, sequence, false)
	if err != nil {
		return 0, 0, err
	}
	if !okPrev || !okNext {
		return 0, 0, fmt.Errorf("trip %s stop sequence %d: %w", tripID, sequence, ErrNoTimepoints)
	}

	prev, err := f.timedEndpoint(tripID, prevSeq)
	if err != nil {
		return 0, 0, err
	}
	next, err := f.timedEndpoint(tripID, nextSeq)
	if err != nil {
		return 0, 0, err
	}

	// Pick the interpolation axis: cumulative distance when the target
	// and both endpoints have it, stop ordinals otherwise. Endpoints at
	// the same distance would make the axis degenerate, so they also
	// fall back to ordinals.
	var x0, x1, x float64
	ourDist := row["shape_dist_traveled"]
	if ourDist != nil && prev.dist != nil && next.dist != nil && *prev.dist != *next.dist {
		x0, x1, x = *prev.dist, *next.dist, asFloat(ourDist)
	} else {
		if x0, err = f.stopOrder(tripID, prevSeq); err != nil {
			return 0, 0, err
		}
		if x1, err = f.stopOrder(tripID, nextSeq); err != nil {
			return 0, 0, err
		}
		if x, err = f.stopOrder(tripID, sequence); err != nil {
			return 0, 0, err
		}
	}

	average := lerp(x0, prev.average, x1, next.average, x)
	dwell := lerp(x0, prev.dwell, x1, next.dwell, x)
	arrival = int(math.Round(average - dwell/2))
	departure = int(math.Round(average + dwell/2))
	return arrival, departure, nil
}

// timedEndpoint is an explicitly timed row reduced to the two derived
// quantities the interpolation works in.
type timedEndpoint struct {
	average float64 // midpoint of arrival and departure, seconds
	dwell   float64 // departure minus arrival, seconds
	dist    *float64
}

func (f *Feed) timedEndpoint(tripID string, sequence int) (timedEndpoint, error) {
	row, err := f.store.GetRowDict("SELECT arrival_time, departure_time, shape_dist_traveled FROM stop_times WHERE trip_id = ? AND stop_sequence = ?;", tripID, sequence)
	if err != nil {
		return timedEndpoint{}, err
	}
	arr, err := ParseTime(asText(row["arrival_time"]))
	if err != nil {
		return timedEndpoint{}, err
	}
	dep := arr
	if row["departure_time"] != nil {
		if dep, err = ParseTime(asText(row["departure_time"])); err != nil {
			return timedEndpoint{}, err
		}
	}
	ep := timedEndpoint{
		average: float64(arr+dep) / 2,
		dwell:   float64(dep - arr),
	}
	if v := row["shape_dist_traveled"]; v != nil {
		d := asFloat(v)
		ep.dist = &d
	}
	return ep, nil
}

// neighborTimedSeq finds the nearest stop_sequence before (or after)
// the given one that carries an explicit arrival time.
func (f *Feed) neighborTimedSeq(tripID string, sequence int, before bool) (int, bool, error) {
	query := "SELECT min(stop_sequence) FROM stop_times WHERE trip_id = ? AND stop_sequence > ? AND arrival_time IS NOT NULL;"
	if before {
		query = "SELECT max(stop_sequence) FROM stop_times WHERE trip_id = ? AND stop_sequence < ? AND arrival_time IS NOT NULL;"
	}
	v, err := f.store.GetResult(query, tripID, sequence)
	if err != nil {
		return 0, false, err
	}
	if v == nil {
		return 0, false, nil
	}
	return int(asInt(v)), true, nil
}

// stopOrder counts the stops strictly before the given sequence on the
// trip, which serves as the ordinal interpolation axis.
func (f *Feed) stopOrder(tripID string, sequence int) (float64, error) {
	v, err := f.store.GetResult("SELECT count(stop_sequence) FROM stop_times WHERE trip_id = ? AND stop_sequence < ?;", tripID, sequence)
	if err != nil {
		return 0, err
	}
	return float64(asInt(v)), nil
}

func parseNullTime(v sql.NullString) (*int, error) {
	if !v.Valid {
		return nil, nil
	}
	sec, err := ParseTime(v.String)
	if err != nil {
		return nil, err
	}
	return &sec, nil
}
