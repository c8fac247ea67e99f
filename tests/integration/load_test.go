package integration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/gtfs-interpreter/gtfs"
	"github.com/theoremus-urban-solutions/gtfs-interpreter/tests/helpers"
)

// fullFeedFiles is a small but complete feed exercising every table the
// loader knows about.
func fullFeedFiles() helpers.FeedFiles {
	return helpers.FeedFiles{
		"agency.txt": "agency_id,agency_name,agency_url,agency_timezone,agency_lang\n" +
			"METRO,City Metro,https://metro.example.com,Europe/Sofia,bg\n",
		"levels.txt": "level_id,level_index,level_name\n" +
			"L0,0,Street\n" +
			"L-1,-1,Underground\n",
		"routes.txt": "route_id,agency_id,route_short_name,route_long_name,route_type,route_color\n" +
			"M1,METRO,M1,Airport Line,1,DA291C\n" +
			"B204,METRO,204,,3,\n",
		"stops.txt": "stop_id,stop_name,stop_lat,stop_lon,zone_id,location_type,parent_station,level_id\n" +
			"SERDIKA,Serdika,42.697,23.321,CENTER,1,,\n" +
			"SERDIKA_P1,Serdika Platform 1,42.697,23.321,CENTER,0,SERDIKA,L-1\n" +
			"SERDIKA_E,Serdika East Entrance,42.698,23.322,,2,SERDIKA,L0\n" +
			"AIRPORT,Sofia Airport,42.690,23.408,AIRPORT,0,,\n",
		"shapes.txt": "shape_id,shape_pt_lat,shape_pt_lon,shape_pt_sequence,shape_dist_traveled\n" +
			"M1_SHAPE,42.697,23.321,1,0\n" +
			"M1_SHAPE,42.693,23.360,2,4200\n" +
			"M1_SHAPE,42.690,23.408,3,8500\n",
		"calendar.txt": "service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date\n" +
			"WEEKDAY,1,1,1,1,1,0,0,20240101,20241231\n" +
			"WEEKEND,0,0,0,0,0,1,1,20240101,20241231\n",
		"calendar_dates.txt": "service_id,date,exception_type\n" +
			"WEEKDAY,20240503,2\n" +
			"WEEKEND,20240503,1\n",
		"trips.txt": "route_id,service_id,trip_id,trip_headsign,direction_id,block_id,shape_id\n" +
			"M1,WEEKDAY,M1_0600,Airport,0,BLK1,M1_SHAPE\n" +
			"M1,WEEKDAY,M1_0615,Airport,0,BLK1,M1_SHAPE\n" +
			"B204,WEEKEND,B204_0900,Downtown,1,,\n",
		"stop_times.txt": "trip_id,arrival_time,departure_time,stop_id,stop_sequence,shape_dist_traveled\n" +
			"M1_0600,06:00:00,06:00:30,SERDIKA_P1,1,0\n" +
			"M1_0600,,,SERDIKA_E,2,4200\n" +
			"M1_0600,06:14:00,06:14:00,AIRPORT,3,8500\n" +
			"M1_0615,06:15:00,06:15:00,SERDIKA_P1,1,0\n" +
			"M1_0615,06:29:00,06:29:00,AIRPORT,2,8500\n" +
			"B204_0900,09:00:00,09:00:00,AIRPORT,1,\n" +
			"B204_0900,09:30:00,09:30:00,SERDIKA_P1,2,\n",
		"fare_attributes.txt": "fare_id,price,currency_type,payment_method,transfers\n" +
			"SINGLE,1.60,BGN,1,0\n",
		"fare_rules.txt": "fare_id,route_id,origin_id,destination_id\n" +
			"SINGLE,M1,CENTER,AIRPORT\n",
		"feed_info.txt": "feed_publisher_name,feed_publisher_url,feed_lang,feed_start_date,feed_end_date,feed_version\n" +
			"City Metro Open Data,https://opendata.example.com,bg,20240101,20241231,2024.1\n",
	}
}

func TestFullFeedLoads(t *testing.T) {
	feed := helpers.LoadFeed(t, fullFeedFiles())

	for _, name := range []string{
		"agency", "levels", "routes", "stops", "shapes", "calendar",
		"calendar_dates", "trips", "stop_times", "fare_attributes",
		"fare_rules", "feed_info",
	} {
		assert.True(t, feed.HasTable(name), "table %s should have loaded", name)
	}
}

func TestFullFeedEntities(t *testing.T) {
	feed := helpers.LoadFeed(t, fullFeedFiles())

	agency, err := feed.AgencyByID("METRO")
	require.NoError(t, err)
	require.NotNil(t, agency)
	assert.Equal(t, "City Metro", agency.Name)
	assert.Equal(t, "Europe/Sofia", agency.Timezone)

	routes, err := feed.RoutesForAgency("METRO")
	require.NoError(t, err)
	assert.Len(t, routes, 2)

	route, err := feed.RouteByID("M1")
	require.NoError(t, err)
	require.NotNil(t, route)
	assert.Equal(t, "Airport Line", route.LongName)
	assert.Equal(t, "DA291C", route.Color)

	stop, err := feed.StopByID("SERDIKA_P1")
	require.NoError(t, err)
	require.NotNil(t, stop)
	assert.Equal(t, "SERDIKA", stop.ParentStation)
	require.NotNil(t, stop.LocationType)
	assert.EqualValues(t, 0, *stop.LocationType)

	children, err := feed.StopChildren("SERDIKA")
	require.NoError(t, err)
	assert.Len(t, children, 2)

	trips, err := feed.TripsForRoute("M1")
	require.NoError(t, err)
	assert.Len(t, trips, 2)

	block, err := feed.TripsInBlock("BLK1")
	require.NoError(t, err)
	assert.Len(t, block, 2)

	info, err := feed.FeedInfo()
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "City Metro Open Data", info.PublisherName)
	assert.Equal(t, "2024.1", info.Version)
}

func TestFullFeedShapesAndZones(t *testing.T) {
	feed := helpers.LoadFeed(t, fullFeedFiles())

	pts, err := feed.ShapePoints("M1_SHAPE")
	require.NoError(t, err)
	require.Len(t, pts, 3)
	assert.Equal(t, 42.697, pts[0].Lat)
	require.NotNil(t, pts[2].Dist)
	assert.Equal(t, 8500.0, *pts[2].Dist)

	zones, err := feed.FareZoneIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"AIRPORT", "CENTER"}, zones)
}

func TestFullFeedServiceResolution(t *testing.T) {
	feed := helpers.LoadFeed(t, fullFeedFiles())

	svc, err := feed.ServiceByID("WEEKDAY")
	require.NoError(t, err)
	require.NotNil(t, svc)

	// 2024-05-03 is a Friday removed from WEEKDAY and added to WEEKEND.
	holiday := time.Date(2024, time.May, 3, 0, 0, 0, 0, time.UTC)
	assert.False(t, svc.IsActive(holiday))
	assert.True(t, svc.IsActive(holiday.AddDate(0, 0, 7)))

	weekend, err := feed.ServiceByID("WEEKEND")
	require.NoError(t, err)
	require.NotNil(t, weekend)
	assert.True(t, weekend.IsActive(holiday))

	missing, err := feed.ServiceByID("NOPE")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFullFeedInterpolation(t *testing.T) {
	feed := helpers.LoadFeed(t, fullFeedFiles())

	// SERDIKA_E is untimed; its neighbors span 06:00:30 to 06:14:00
	// along 8500 distance units, and it sits at 4200. The estimate
	// inherits a proportional share of the first stop's 30s dwell.
	arr, dep, err := feed.InterpolatedTimes("M1_0600", 2)
	require.NoError(t, err)
	assert.LessOrEqual(t, arr, dep)
	assert.Equal(t, "06:06:55", gtfs.FormatTime(arr))
	assert.Equal(t, "06:07:10", gtfs.FormatTime(dep))
}

func TestFullFeedWarningsQueryable(t *testing.T) {
	feed := helpers.LoadFeed(t, fullFeedFiles())

	n, err := feed.Store().GetResult("SELECT count(*) FROM gtfs_warnings WHERE load_id = ?;", feed.LoadID())
	require.NoError(t, err)
	assert.EqualValues(t, len(feed.Warnings()), n)
}
