package gtfs

import (
	"database/sql"
	"strconv"
	"time"
)

// The entity types below are plain snapshots built from one query
// each. They own their values: nothing here lazily re-queries the
// store, so the cost of a fetch is visible at the call site.

// Agency is one row of the agency table.
type Agency struct {
	ID       string
	Name     string
	URL      string
	Timezone string
	Lang     string
	Phone    string
	FareURL  string
	Email    string
}

// Route is one row of the routes table.
type Route struct {
	ID        string
	AgencyID  string
	ShortName string
	LongName  string
	Desc      string
	Type      int64
	URL       string
	Color     string
	TextColor string
	SortOrder *int64
}

// Stop is one row of the stops table.
type Stop struct {
	ID            string
	Code          string
	Name          string
	Desc          string
	Lat           *float64
	Lon           *float64
	ZoneID        string
	URL           string
	LocationType  *int64
	ParentStation string
	Timezone      string
	LevelID       string
	PlatformCode  string
}

// Trip is one row of the trips table.
type Trip struct {
	ID          string
	RouteID     string
	ServiceID   string
	Headsign    string
	ShortName   string
	DirectionID *int64
	BlockID     string
	ShapeID     string
}

// ShapePoint is one vertex of a shape's polyline.
type ShapePoint struct {
	Lat      float64
	Lon      float64
	Sequence int64
	Dist     *float64
}

// FeedInfo is the feed_info table's single row.
type FeedInfo struct {
	PublisherName string
	PublisherURL  string
	Lang          string
	DefaultLang   string
	StartDate     time.Time
	EndDate       time.Time
	Version       string
	ContactEmail  string
	ContactURL    string
}

const agencyColumns = "agency_id, agency_name, agency_url, agency_timezone, agency_lang, agency_phone, agency_fare_url, agency_email"

// Agencies returns every agency in the feed.
func (f *Feed) Agencies() ([]Agency, error) {
	rows, err := f.store.Query("SELECT " + agencyColumns + " FROM agency;")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Agency
	for rows.Next() {
		a, err := scanAgency(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// AgencyByID returns the agency with the given id, or nil. Feeds that
// omitted agency_id hold their single agency under the id "agency".
func (f *Feed) AgencyByID(id string) (*Agency, error) {
	rows, err := f.store.Query("SELECT "+agencyColumns+" FROM agency WHERE agency_id = ?;", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	a, err := scanAgency(rows)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func scanAgency(rows *sql.Rows) (Agency, error) {
	var a Agency
	var url, tz, lang, phone, fareURL, email sql.NullString
	if err := rows.Scan(&a.ID, &a.Name, &url, &tz, &lang, &phone, &fareURL, &email); err != nil {
		return Agency{}, err
	}
	a.URL = url.String
	a.Timezone = tz.String
	a.Lang = lang.String
	a.Phone = phone.String
	a.FareURL = fareURL.String
	a.Email = email.String
	return a, nil
}

const routeColumns = "route_id, agency_id, route_short_name, route_long_name, route_desc, route_type, route_url, route_color, route_text_color, route_sort_order"

// Routes returns every route, ordered by route_sort_order.
func (f *Feed) Routes() ([]Route, error) {
	return f.queryRoutes("SELECT " + routeColumns + " FROM routes ORDER BY route_sort_order;")
}

// RoutesForAgency returns the routes operated by one agency.
func (f *Feed) RoutesForAgency(agencyID string) ([]Route, error) {
	return f.queryRoutes("SELECT "+routeColumns+" FROM routes WHERE agency_id = ? ORDER BY route_sort_order;", agencyID)
}

// RouteByID returns the route with the given id, or nil.
func (f *Feed) RouteByID(id string) (*Route, error) {
	routes, err := f.queryRoutes("SELECT "+routeColumns+" FROM routes WHERE route_id = ?;", id)
	if err != nil || len(routes) == 0 {
		return nil, err
	}
	return &routes[0], nil
}

func (f *Feed) queryRoutes(query string, args ...any) ([]Route, error) {
	rows, err := f.store.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Route
	for rows.Next() {
		var r Route
		var agencyID, short, long, desc, url, color, textColor sql.NullString
		var sortOrder sql.NullInt64
		if err := rows.Scan(&r.ID, &agencyID, &short, &long, &desc, &r.Type, &url, &color, &textColor, &sortOrder); err != nil {
			return nil, err
		}
		r.AgencyID = agencyID.String
		r.ShortName = short.String
		r.LongName = long.String
		r.Desc = desc.String
		r.URL = url.String
		r.Color = color.String
		r.TextColor = textColor.String
		if sortOrder.Valid {
			v := sortOrder.Int64
			r.SortOrder = &v
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const stopColumns = "stop_id, stop_code, stop_name, stop_desc, stop_lat, stop_lon, zone_id, stop_url, location_type, parent_station, stop_timezone, level_id, platform_code"

// StopByID returns the stop with the given id, or nil.
func (f *Feed) StopByID(id string) (*Stop, error) {
	stops, err := f.queryStops("SELECT "+stopColumns+" FROM stops WHERE stop_id = ?;", id)
	if err != nil || len(stops) == 0 {
		return nil, err
	}
	return &stops[0], nil
}

// StopsInZone returns the stops assigned to one fare zone.
func (f *Feed) StopsInZone(zoneID string) ([]Stop, error) {
	return f.queryStops("SELECT "+stopColumns+" FROM stops WHERE zone_id = ?;", zoneID)
}

// StopChildren returns the stops that name the given stop as their
// parent station.
func (f *Feed) StopChildren(stopID string) ([]Stop, error) {
	return f.queryStops("SELECT "+stopColumns+" FROM stops WHERE parent_station = ?;", stopID)
}

func (f *Feed) queryStops(query string, args ...any) ([]Stop, error) {
	rows, err := f.store.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Stop
	for rows.Next() {
		var s Stop
		var code, name, desc, zone, url, parent, tz, level, platform sql.NullString
		var lat, lon sql.NullFloat64
		var locType sql.NullInt64
		if err := rows.Scan(&s.ID, &code, &name, &desc, &lat, &lon, &zone, &url, &locType, &parent, &tz, &level, &platform); err != nil {
			return nil, err
		}
		s.Code = code.String
		s.Name = name.String
		s.Desc = desc.String
		if lat.Valid {
			v := lat.Float64
			s.Lat = &v
		}
		if lon.Valid {
			v := lon.Float64
			s.Lon = &v
		}
		s.ZoneID = zone.String
		s.URL = url.String
		if locType.Valid {
			v := locType.Int64
			s.LocationType = &v
		}
		s.ParentStation = parent.String
		s.Timezone = tz.String
		s.LevelID = level.String
		s.PlatformCode = platform.String
		out = append(out, s)
	}
	return out, rows.Err()
}

const tripColumns = "trip_id, route_id, service_id, trip_headsign, trip_short_name, direction_id, block_id, shape_id"

// TripByID returns the trip with the given id, or nil.
func (f *Feed) TripByID(id string) (*Trip, error) {
	trips, err := f.queryTrips("SELECT "+tripColumns+" FROM trips WHERE trip_id = ?;", id)
	if err != nil || len(trips) == 0 {
		return nil, err
	}
	return &trips[0], nil
}

// TripsForRoute returns every trip on one route.
func (f *Feed) TripsForRoute(routeID string) ([]Trip, error) {
	return f.queryTrips("SELECT "+tripColumns+" FROM trips WHERE route_id = ?;", routeID)
}

// TripsInBlock returns the trips sharing one vehicle block.
func (f *Feed) TripsInBlock(blockID string) ([]Trip, error) {
	return f.queryTrips("SELECT "+tripColumns+" FROM trips WHERE block_id = ?;", blockID)
}

func (f *Feed) queryTrips(query string, args ...any) ([]Trip, error) {
	rows, err := f.store.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Trip
	for rows.Next() {
		var t Trip
		var headsign, short, block, shape sql.NullString
		var direction sql.NullInt64
		if err := rows.Scan(&t.ID, &t.RouteID, &t.ServiceID, &headsign, &short, &direction, &block, &shape); err != nil {
			return nil, err
		}
		t.Headsign = headsign.String
		t.ShortName = short.String
		if direction.Valid {
			v := direction.Int64
			t.DirectionID = &v
		}
		t.BlockID = block.String
		t.ShapeID = shape.String
		out = append(out, t)
	}
	return out, rows.Err()
}

// TripBounds returns the trip's first arrival and last departure in
// seconds into the service day.
func (f *Feed) TripBounds(tripID string) (start, end int, err error) {
	row, err := f.store.GetRowDict("SELECT min(arrival_time) AS start, max(departure_time) AS end FROM stop_times WHERE trip_id = ?;", tripID)
	if err != nil {
		return 0, 0, err
	}
	if row == nil || row["start"] == nil {
		return 0, 0, ErrNoTimepoints
	}
	if start, err = ParseTime(asText(row["start"])); err != nil {
		return 0, 0, err
	}
	if end, err = ParseTime(asText(row["end"])); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// ShapeIDs returns every shape id mentioned by the shapes table.
func (f *Feed) ShapeIDs() ([]string, error) {
	return f.idList("SELECT shape_id FROM shape_ids ORDER BY shape_id;", "shapes")
}

// FareZoneIDs returns every fare zone referenced by a stop.
func (f *Feed) FareZoneIDs() ([]string, error) {
	return f.idList("SELECT zone_id FROM fare_zones ORDER BY zone_id;", "stops")
}

// ServiceIDs returns every service id declared by calendar or
// calendar_dates.
func (f *Feed) ServiceIDs() ([]string, error) {
	if !f.tables["calendar"] && !f.tables["calendar_dates"] {
		return nil, nil
	}
	return f.idList("SELECT service_id FROM calendar_services ORDER BY service_id;", "")
}

// idList reads a single-column id query, returning nil when the table
// backing it never loaded.
func (f *Feed) idList(query, requires string) ([]string, error) {
	if requires != "" && !f.tables[requires] {
		return nil, nil
	}
	vals, err := f.store.GetResultList(query)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		out = append(out, asText(v))
	}
	return out, nil
}

// ShapePoints returns a shape's vertices in sequence order.
func (f *Feed) ShapePoints(shapeID string) ([]ShapePoint, error) {
	if !f.tables["shapes"] {
		return nil, nil
	}
	rows, err := f.store.Query("SELECT shape_pt_lat, shape_pt_lon, shape_pt_sequence, shape_dist_traveled FROM shapes WHERE shape_id = ? ORDER BY shape_pt_sequence ASC;", shapeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ShapePoint
	for rows.Next() {
		var p ShapePoint
		var dist sql.NullFloat64
		if err := rows.Scan(&p.Lat, &p.Lon, &p.Sequence, &dist); err != nil {
			return nil, err
		}
		if dist.Valid {
			v := dist.Float64
			p.Dist = &v
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// FeedInfo returns the feed_info row, or nil when the table was not
// part of the feed.
func (f *Feed) FeedInfo() (*FeedInfo, error) {
	if !f.tables["feed_info"] {
		return nil, nil
	}
	row, err := f.store.GetRowDict("SELECT * FROM feed_info LIMIT 1;")
	if err != nil || row == nil {
		return nil, err
	}
	info := &FeedInfo{
		PublisherName: asText(row["feed_publisher_name"]),
		PublisherURL:  asText(row["feed_publisher_url"]),
		Lang:          asText(row["feed_lang"]),
		DefaultLang:   asText(row["default_lang"]),
		Version:       asText(row["feed_version"]),
		ContactEmail:  asText(row["feed_contact_email"]),
		ContactURL:    asText(row["feed_contact_url"]),
	}
	if v := row["feed_start_date"]; v != nil {
		if info.StartDate, err = ParseDate(asText(v)); err != nil {
			return nil, err
		}
	}
	if v := row["feed_end_date"]; v != nil {
		if info.EndDate, err = ParseDate(asText(v)); err != nil {
			return nil, err
		}
	}
	return info, nil
}

// Conversions from the driver's dynamic values. The sqlite driver
// hands back int64, float64, string, []byte or nil.

func asText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

func asInt(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case float64:
		return int64(t)
	case string:
		n, _ := strconv.ParseInt(t, 10, 64)
		return n
	case []byte:
		n, _ := strconv.ParseInt(string(t), 10, 64)
		return n
	}
	return 0
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	case string:
		f, _ := strconv.ParseFloat(t, 64)
		return f
	case []byte:
		f, _ := strconv.ParseFloat(string(t), 64)
		return f
	}
	return 0
}
