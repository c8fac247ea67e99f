package helpers

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/theoremus-urban-solutions/gtfs-interpreter/gtfs"
)

// FeedFiles maps file names inside a GTFS zip to their CSV content.
type FeedFiles map[string]string

// BuildZip assembles an in-memory GTFS zip archive from the given files.
func BuildZip(t *testing.T, files FeedFiles) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s in zip: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s in zip: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

// MinimalFeedFiles returns the smallest feed that loads without errors:
// every required table with one valid row each. Tests override or add
// entries before building the zip.
func MinimalFeedFiles() FeedFiles {
	return FeedFiles{
		"agency.txt": "agency_name,agency_url,agency_timezone\n" +
			"Metro,https://metro.example.com,America/New_York\n",
		"routes.txt": "route_id,route_short_name,route_type\n" +
			"R1,1,3\n",
		"stops.txt": "stop_id,stop_name,stop_lat,stop_lon\n" +
			"S1,First St,40.0,-74.0\n" +
			"S2,Second St,40.1,-74.1\n",
		"calendar.txt": "service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date\n" +
			"WEEK,1,1,1,1,1,0,0,20240101,20240131\n",
		"trips.txt": "route_id,service_id,trip_id\n" +
			"R1,WEEK,T1\n",
		"stop_times.txt": "trip_id,arrival_time,departure_time,stop_id,stop_sequence\n" +
			"T1,08:00:00,08:00:00,S1,1\n" +
			"T1,08:10:00,08:10:00,S2,2\n",
	}
}

// LoadFeed builds the zip and loads it, failing the test on error.
func LoadFeed(t *testing.T, files FeedFiles) *gtfs.Feed {
	t.Helper()
	feed, err := gtfs.LoadFromBytes(BuildZip(t, files))
	if err != nil {
		t.Fatalf("load feed: %v", err)
	}
	t.Cleanup(func() { feed.Close() })
	return feed
}
