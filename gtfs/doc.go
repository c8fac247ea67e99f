/*
Package gtfs loads a static GTFS zip archive into a validated,
queryable in-memory dataset.

# Basic Usage

	feed, err := gtfs.Load("feed.zip")
	if err != nil {
	    log.Fatal(err)
	}
	defer feed.Close()

	routes, _ := feed.RoutesForAgency("agency")
	for _, w := range feed.Warnings() {
	    log.Printf("%s/%s [%s]: %s", w.Table, w.Field, w.Record, w.Message)
	}

# Loading model

Tables load one at a time, in dependency order, each in its own
transaction. Every cell is coerced by its semantic type (color, date,
time, latitude, timezone, ...); values the coercion can fix are fixed,
values it cannot are dropped. A row missing a required value, or vetoed
by a table rule (the stop hierarchy constraints, for example), is
skipped; the rest of the table still loads. Each correction and
rejection is recorded as a Warning with table/field/record provenance,
both on the Feed and in the gtfs_warnings side table.

Problems no feed can survive end the load with an error instead: a
required table or column missing, or no agency declaring a timezone.

# Derived data

Two answers are computed from the stored rows on demand: Service
resolves a calendar's weekly pattern plus exception dates into concrete
active dates, and InterpolatedTimes estimates unset arrival/departure
times along a trip from its nearest timed stops.

# Concurrency

Loading is strictly sequential. After Load returns the feed is
read-only and safe for any number of concurrent readers until Close.
*/
package gtfs
