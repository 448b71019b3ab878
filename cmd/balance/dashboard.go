package balance

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/saadjs/kcal-balance/internal/clock"
	"github.com/saadjs/kcal-balance/internal/service"
	"github.com/saadjs/kcal-balance/internal/store"
)

var (
	dashMode     string
	dashDate     string
	dashOffset   int
	dashFrom     string
	dashTo       string
	dashWeek     string
	dashMonth    string
	dashJSON     bool
	dashNoCharts bool
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Show the energy balance for a day, a week or a date range",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentClock()
		if err != nil {
			return err
		}
		state, err := dashboardState(cfg.Location())
		if err != nil {
			return err
		}
		anchor := clock.Today(c)
		if dashDate != "" {
			if anchor, err = parseDate("--date", dashDate, cfg.Location()); err != nil {
				return err
			}
		}
		return withStore(func(s store.Store) error {
			w, report, err := buildBalance(s, state, anchor, cfg.Energy)
			if err != nil {
				return err
			}
			if dashJSON {
				return printJSON(cmd, struct {
					Window service.Window         `json:"window"`
					Report *service.BalanceReport `json:"report"`
				}{w, report})
			}
			printBalanceReport(cmd.OutOrStdout(), w, report, dashNoCharts)
			return nil
		})
	},
}

// dashboardState maps the dashboard flags onto a view state. --week, --month
// and --from/--to each select a custom range.
func dashboardState(loc *time.Location) (service.ViewState, error) {
	selectors := 0
	for _, v := range []string{dashWeek, dashMonth, dashFrom + dashTo} {
		if strings.TrimSpace(v) != "" {
			selectors++
		}
	}
	if selectors > 1 {
		return service.ViewState{}, fmt.Errorf("use only one of --week, --month or --from/--to")
	}
	switch {
	case dashWeek != "":
		start, end, err := resolveWeekRange(dashWeek, loc)
		if err != nil {
			return service.ViewState{}, err
		}
		return service.ViewState{}.WithRange(start, end), nil
	case dashMonth != "":
		start, end, err := resolveMonthRange(dashMonth, loc)
		if err != nil {
			return service.ViewState{}, err
		}
		return service.ViewState{}.WithRange(start, end), nil
	case dashFrom != "" || dashTo != "":
		if dashFrom == "" || dashTo == "" {
			return service.ViewState{}, fmt.Errorf("--from and --to are required together")
		}
		from, err := parseDate("--from", dashFrom, loc)
		if err != nil {
			return service.ViewState{}, err
		}
		to, err := parseDate("--to", dashTo, loc)
		if err != nil {
			return service.ViewState{}, err
		}
		return service.ViewState{}.WithRange(from, to), nil
	}
	mode, err := service.ParseViewMode(dashMode)
	if err != nil {
		return service.ViewState{}, err
	}
	if mode == service.ViewCustom {
		return service.ViewState{}, fmt.Errorf("--mode custom requires --from and --to")
	}
	return service.ViewState{Mode: mode, Offset: dashOffset}, nil
}

func buildBalance(s store.Store, state service.ViewState, today time.Time, settings service.Settings) (service.Window, *service.BalanceReport, error) {
	w, err := service.ResolveWindow(state, today)
	if err != nil {
		return service.Window{}, nil, err
	}
	records, err := s.LoadAll()
	if err != nil {
		return service.Window{}, nil, err
	}
	report, err := service.BalanceRange(records, w, settings)
	if err != nil {
		return service.Window{}, nil, err
	}
	return w, report, nil
}

func renderDashboard(out io.Writer, s store.Store, state service.ViewState, today time.Time, settings service.Settings, noCharts bool) error {
	w, report, err := buildBalance(s, state, today, settings)
	if err != nil {
		return err
	}
	printBalanceReport(out, w, report, noCharts)
	return nil
}

var weekPattern = regexp.MustCompile(`^\d{4}-W\d{2}$`)

func resolveWeekRange(week string, loc *time.Location) (time.Time, time.Time, error) {
	if !weekPattern.MatchString(week) {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --week value %q (expected YYYY-Www)", week)
	}
	var year, weekNum int
	if _, err := fmt.Sscanf(week, "%4d-W%2d", &year, &weekNum); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --week value %q (expected YYYY-Www)", week)
	}
	maxWeek := weeksInISOYear(year)
	if weekNum < 1 || weekNum > maxWeek {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --week value %q (week must be between 01 and %02d for %d)", week, maxWeek, year)
	}
	start := isoWeekStart(year, weekNum, loc)
	return start, start.AddDate(0, 0, 6), nil
}

func resolveMonthRange(month string, loc *time.Location) (time.Time, time.Time, error) {
	parsed, err := time.ParseInLocation("2006-01", month, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --month value %q (expected YYYY-MM)", month)
	}
	start := time.Date(parsed.Year(), parsed.Month(), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, -1), nil
}

func isoWeekStart(year, week int, loc *time.Location) time.Time {
	jan4 := time.Date(year, 1, 4, 0, 0, 0, 0, loc)
	weekday := int(jan4.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	week1Monday := jan4.AddDate(0, 0, -(weekday - 1))
	return week1Monday.AddDate(0, 0, (week-1)*7)
}

func weeksInISOYear(year int) int {
	_, wk := time.Date(year, 12, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return wk
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	f := dashboardCmd.Flags()
	f.StringVar(&dashMode, "mode", "single", "View mode: single|week")
	f.StringVar(&dashDate, "date", "", "Anchor date YYYY-MM-DD for single and week views (default: today)")
	f.IntVar(&dashOffset, "offset", 0, "Page offset from today (negative looks back)")
	f.StringVar(&dashFrom, "from", "", "Custom range start YYYY-MM-DD")
	f.StringVar(&dashTo, "to", "", "Custom range end YYYY-MM-DD")
	f.StringVar(&dashWeek, "week", "", "ISO week in format YYYY-Www")
	f.StringVar(&dashMonth, "month", "", "Month in format YYYY-MM")
	f.BoolVar(&dashJSON, "json", false, "Output as JSON")
	f.BoolVar(&dashNoCharts, "no-charts", false, "Disable ASCII charts")
}
