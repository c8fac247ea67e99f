package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/theoremus-urban-solutions/gtfs-interpreter/config"
	"github.com/theoremus-urban-solutions/gtfs-interpreter/gtfs"
	"github.com/theoremus-urban-solutions/gtfs-interpreter/internal"
)

var (
	feedName string
	feedPath string
	dump     bool
)

var rootCmd = &cobra.Command{
	Use:   "gtfs-inspect",
	Short: "Load and inspect a static GTFS feed",
	Long: `gtfs-inspect loads a GTFS zip archive into an in-memory dataset,
reporting every correction and rejection the loader applied, and lets
you query the result.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if feedPath != "" {
			return nil
		}
		// Fall back to config.yml when no --path is given.
		if err := config.LoadAppConfig(); err != nil {
			return fmt.Errorf("no --path given and config.yml could not be read: %w", err)
		}
		fc, ok := config.SelectFeed(feedName)
		if !ok {
			return fmt.Errorf("no feed named %q in config.yml", feedName)
		}
		feedPath = fc.Path
		return nil
	},
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the feed and report tables and warnings",
	RunE: func(cmd *cobra.Command, args []string) error {
		feed, err := gtfs.Load(feedPath)
		if err != nil {
			return err
		}
		defer feed.Close()

		names := feed.TableNames()
		sort.Strings(names)
		for _, name := range names {
			n, err := feed.Store().GetResult("SELECT count(*) FROM " + name + ";")
			if err != nil {
				return err
			}
			fmt.Printf("%-16s %v rows\n", name, n)
		}

		warns := feed.Warnings()
		max := config.Config.Warnings.MaxPrinted
		fmt.Printf("\n%d warnings\n", len(warns))
		for i, w := range warns {
			if max > 0 && i >= max {
				fmt.Printf("... and %d more\n", len(warns)-i)
				break
			}
			fmt.Printf("  %s/%s [%s]: %s\n", w.Table, w.Field, w.Record, w.Message)
		}

		if dump {
			info, err := feed.FeedInfo()
			if err != nil {
				return err
			}
			agencies, err := feed.Agencies()
			if err != nil {
				return err
			}
			spew.Dump(info, agencies)
		}
		return nil
	},
}

var queryCmd = &cobra.Command{
	Use:   "query <sql>",
	Short: "Run a raw SQL query against the loaded feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		feed, err := gtfs.Load(feedPath)
		if err != nil {
			return err
		}
		defer feed.Close()

		rows, err := feed.Store().Query(args[0])
		if err != nil {
			return err
		}
		defer rows.Close()

		cols, err := rows.Columns()
		if err != nil {
			return err
		}
		fmt.Println(strings.Join(cols, "\t"))
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		for rows.Next() {
			if err := rows.Scan(ptrs...); err != nil {
				return err
			}
			parts := make([]string, len(vals))
			for i, v := range vals {
				parts[i] = fmt.Sprintf("%v", v)
			}
			fmt.Println(strings.Join(parts, "\t"))
		}
		return rows.Err()
	},
}

var calendarCmd = &cobra.Command{
	Use:   "calendar <service_id>",
	Short: "List every date a service is active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		feed, err := gtfs.Load(feedPath)
		if err != nil {
			return err
		}
		defer feed.Close()

		svc, err := feed.ServiceByID(args[0])
		if err != nil {
			return err
		}
		if svc == nil {
			return fmt.Errorf("no service %q in this feed", args[0])
		}
		for _, d := range svc.AllActiveDates() {
			fmt.Println(d.Format("2006-01-02"))
		}
		return nil
	},
}

var timesCmd = &cobra.Command{
	Use:   "times <trip_id>",
	Short: "Print a trip's stop times, interpolating unset ones",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		feed, err := gtfs.Load(feedPath)
		if err != nil {
			return err
		}
		defer feed.Close()

		stopTimes, err := feed.StopTimesForTrip(args[0])
		if err != nil {
			return err
		}
		if len(stopTimes) == 0 {
			return fmt.Errorf("no trip %q in this feed", args[0])
		}
		for _, st := range stopTimes {
			mark := ""
			arr, dep := 0, 0
			if st.Arrival != nil {
				arr = *st.Arrival
				dep = arr
				if st.Departure != nil {
					dep = *st.Departure
				}
			} else {
				mark = " (interpolated)"
				if arr, dep, err = feed.InterpolatedTimes(st.TripID, st.Sequence); err != nil {
					return err
				}
			}
			fmt.Printf("%4d %-20s %s %s%s\n", st.Sequence, st.StopID, gtfs.FormatTime(arr), gtfs.FormatTime(dep), mark)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&feedPath, "path", "", "path to a GTFS zip (overrides config.yml)")
	rootCmd.PersistentFlags().StringVar(&feedName, "feed", "", "feed name from config.feeds[]")
	loadCmd.Flags().BoolVar(&dump, "dump", false, "dump feed info and agencies after loading")
	rootCmd.AddCommand(loadCmd, queryCmd, calendarCmd, timesCmd)
}

func main() {
	internal.InitLogging()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
