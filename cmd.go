package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/sadopc/habitr/internal/compare"
	"github.com/sadopc/habitr/internal/config"
	"github.com/sadopc/habitr/internal/export"
	"github.com/sadopc/habitr/internal/stats"
	"github.com/sadopc/habitr/internal/store"
	"github.com/sadopc/habitr/internal/tracker"
	"github.com/sadopc/habitr/internal/tui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	// Global flags
	configPath string
	dbPath     string
	verbose    bool

	// Flags for log command
	logDate     string
	logCount    int
	logDuration time.Duration
	logNote     string

	compareMinutes float64

	exportFormat string
	exportOut    string

	configInit bool
)

var rootCmd = &cobra.Command{
	Use:   "habitr",
	Short: "habitr - track a daily habit",
	Long: `A terminal habit tracker. Log daily counts and timed sessions, follow
streaks, and see your total time measured against real-world feats.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !verbose {
			log.SetOutput(io.Discard)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show habit statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(func(cfg *config.Config, tr *tracker.Tracker) error {
			return showStats(cmd.OutOrStdout(), cfg.Activity, tr)
		})
	},
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record the entry for a day",
	Long: `Record the entry for a day, replacing any existing entry for it.

Examples:
  habitr log -c 3                       # 3 today
  habitr log -c 1 -t 45m -n "long one"  # with duration and note
  habitr log -d 2024-03-14 -c 2         # a past day`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(func(_ *config.Config, tr *tracker.Tracker) error {
			date := time.Now()
			if logDate != "" {
				d, err := store.ParseDay(logDate)
				if err != nil {
					return fmt.Errorf("bad --date %q: want YYYY-MM-DD", logDate)
				}
				date = d
			}
			e, err := tr.LogEntry(store.Entry{
				Date:          date,
				Count:         logCount,
				TotalDuration: logDuration.Minutes(),
				Note:          logNote,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n",
				store.FormatDay(e.Date), humanize.Comma(int64(e.Count)), stats.FormatMinutes(e.TotalDuration))
			return nil
		})
	},
}

var addCmd = &cobra.Command{
	Use:   "add [n]",
	Short: "Add n (default 1) to today's count",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n := 1
		if len(args) == 1 {
			if _, err := fmt.Sscanf(args[0], "%d", &n); err != nil {
				return fmt.Errorf("bad count %q", args[0])
			}
		}
		return withTracker(func(_ *config.Config, tr *tracker.Tracker) error {
			e, err := tr.AddToday(n)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\n", e.Count)
			return nil
		})
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare your total time with real-world feats",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(func(_ *config.Config, tr *tracker.Tracker) error {
			minutes := compareMinutes
			if !cmd.Flags().Changed("minutes") {
				total, err := tr.TotalMinutes()
				if err != nil {
					return err
				}
				minutes = total
			}
			printComparisons(cmd.OutOrStdout(), minutes, tr.Comparisons(minutes), tr.State())
			return nil
		})
	},
}

var featsCmd = &cobra.Command{
	Use:   "feats [query]",
	Short: "List or fuzzy-search the feat catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(func(_ *config.Config, tr *tracker.Tracker) error {
			w := cmd.OutOrStdout()
			for _, f := range tr.Search(strings.Join(args, " ")) {
				pin := " "
				if tr.IsPinned(f.ID) {
					pin = "*"
				}
				fmt.Fprintf(w, "%s %-22s %-34s %-14s %s\n", pin, f.ID, f.Name, f.Category, stats.FormatMinutes(f.TimeValue))
			}
			return nil
		})
	},
}

var pinCmd = &cobra.Command{
	Use:   "pin <feat-id>",
	Short: "Pin a feat so it always shows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(func(_ *config.Config, tr *tracker.Tracker) error {
			return tr.Pin(args[0])
		})
	},
}

var unpinCmd = &cobra.Command{
	Use:   "unpin <feat-id>",
	Short: "Unpin a feat",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(func(_ *config.Config, tr *tracker.Tracker) error {
			return tr.Unpin(args[0])
		})
	},
}

var regenerateCmd = &cobra.Command{
	Use:   "regenerate",
	Short: "Replace every unpinned feat with a fresh catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(func(_ *config.Config, tr *tracker.Tracker) error {
			if err := tr.Regenerate(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d feats in catalog\n", len(tr.Catalog()))
			return nil
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every entry as CSV or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportFormat != "csv" && exportFormat != "json" {
			return fmt.Errorf("unknown format %q: want csv or json", exportFormat)
		}
		return withTracker(func(_ *config.Config, tr *tracker.Tracker) error {
			path := exportOut
			if path == "" {
				path = fmt.Sprintf("habitr-export-%s.%s", time.Now().Format("2006-01-02"), exportFormat)
			}
			entries, err := tr.Entries(store.EntryFilter{})
			if err != nil {
				return err
			}
			if exportFormat == "csv" {
				err = export.ToCSV(entries, path)
			} else {
				var summary stats.Result
				if summary, err = tr.Stats(); err == nil {
					err = export.ToJSON(entries, summary, path)
				}
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", len(entries), path)
			return nil
		})
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if configInit {
			path := configPath
			if path == "" {
				path = config.DefaultPath()
			}
			if err := config.Save(cfg, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		}
		return yaml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the database (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log to stderr")

	logCmd.Flags().StringVarP(&logDate, "date", "d", "", "Day to record, YYYY-MM-DD (default today)")
	logCmd.Flags().IntVarP(&logCount, "count", "c", 1, "Count for the day")
	logCmd.Flags().DurationVarP(&logDuration, "duration", "t", 0, "Total time for the day, e.g. 45m")
	logCmd.Flags().StringVarP(&logNote, "note", "n", "", "Free-form note")

	compareCmd.Flags().Float64VarP(&compareMinutes, "minutes", "m", 0, "Minutes to compare (default your total time)")

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "Export format: csv or json")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default habitr-export-DATE.FORMAT)")

	configCmd.Flags().BoolVar(&configInit, "init", false, "Write the effective config to the config path")

	rootCmd.AddCommand(statsCmd, logCmd, addCmd, compareCmd, featsCmd,
		pinCmd, unpinCmd, regenerateCmd, exportCmd, configCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg, nil
}

// withTracker opens the configured store, restores the tracker and runs fn.
func withTracker(fn func(*config.Config, *tracker.Tracker) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := store.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer s.Close()

	tr, err := tracker.New(s)
	if err != nil {
		return err
	}
	return fn(cfg, tr)
}

func runTUI() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	f, err := tea.LogToFile(cfg.LogFile, "habitr")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	s, err := store.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}
	defer s.Close()

	tr, err := tracker.New(s)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := tr.StartRefresher(ctx, cfg.RefreshSchedule); err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewApp(tr, s, cfg.Activity), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func showStats(w io.Writer, activity string, tr *tracker.Tracker) error {
	r, err := tr.Stats()
	if err != nil {
		return fmt.Errorf("failed to compute stats: %w", err)
	}

	title := activity + " Statistics"
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("─", len([]rune(title))))
	fmt.Fprintf(w, "Total:       %s (%s)  %s\n", humanize.Comma(int64(r.Total)), stats.FormatMinutes(r.TotalDuration), stats.Describe(stats.KindTotal, r))
	fmt.Fprintf(w, "Daily avg:   %.1f (%s)  %s\n", r.Avg, stats.FormatMinutes(r.AvgDuration), stats.Describe(stats.KindAvg, r))
	fmt.Fprintf(w, "Streak:      %s  %s\n", dayCount(r.Streak), stats.Describe(stats.KindStreak, r))
	fmt.Fprintf(w, "Longest:     %s  %s\n", dayCount(r.Longest), stats.Describe(stats.KindLongest, r))
	fmt.Fprintf(w, "This week:   %s (%s vs last week)\n", humanize.Comma(int64(r.ThisWeek)), stats.PercentChange(r.ThisWeek, r.LastWeek))
	fmt.Fprintf(w, "This month:  %s (%s vs last month)\n", humanize.Comma(int64(r.ThisMonth)), stats.PercentChange(r.ThisMonth, r.LastMonth))
	fmt.Fprintf(w, "Best day:    %s  %s\n", humanize.Comma(int64(r.DailyMax)), stats.Describe(stats.KindDailyMax, r))
	return nil
}

func dayCount(n int) string {
	if n == 1 {
		return "1 day"
	}
	return humanize.Comma(int64(n)) + " days"
}

func printComparisons(w io.Writer, minutes float64, cmps []compare.Comparison, st compare.State) {
	fmt.Fprintf(w, "%s is...\n", stats.FormatMinutes(minutes))
	for _, c := range cmps {
		pin := " "
		if slices.Contains(st.PinnedIDs, c.Feat.ID) {
			pin = "*"
		}
		fmt.Fprintf(w, "%s %8s× %s (%s%%)\n", pin, compare.FormatValue(c.Value), c.Feat.Name, compare.FormatValue(c.Percentage))
	}
	if !st.LastGenerated.IsZero() {
		fmt.Fprintf(w, "\ncatalog generated %s\n", humanize.Time(st.LastGenerated))
	}
}
