package balance

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/saadjs/kcal-balance/internal/clock"
	"github.com/saadjs/kcal-balance/internal/model"
	"github.com/saadjs/kcal-balance/internal/service"
	"github.com/saadjs/kcal-balance/internal/store"
)

var (
	browseMode     string
	browseNoCharts bool
	browseCacheTTL time.Duration
)

const browseHelp = `Commands:
  n, next              next page
  p, prev              previous page
  t, today             back to today
  mode single|week     switch view mode
  range FROM TO        custom range (YYYY-MM-DD)
  add TYPE KCAL DESC   log food|alcohol|exercise for today, or the last day shown
  del INDEX            delete a record by list index
  insights             history insights
  h, help              this help
  q, quit              exit`

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Page through the dashboard interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := service.ParseViewMode(browseMode)
		if err != nil {
			return err
		}
		if mode == service.ViewCustom {
			return fmt.Errorf("start browse in single or week mode; use the range command for custom ranges")
		}
		c, err := currentClock()
		if err != nil {
			return err
		}
		return withStore(func(s store.Store) error {
			cached := store.NewCached(s, browseCacheTTL)
			b := &browser{
				store:    cached,
				clock:    c,
				settings: cfg.Energy,
				state:    service.ViewState{Mode: mode},
				out:      cmd.OutOrStdout(),
			}
			return b.run(cmd.InOrStdin())
		})
	},
}

type browser struct {
	store    store.Store
	clock    clock.Clock
	settings service.Settings
	state    service.ViewState
	out      io.Writer
}

// run ends the session on a store connection failure; any other error is
// printed and the loop continues.
func (b *browser) run(in io.Reader) error {
	if err := b.report(b.render()); err != nil {
		return err
	}
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(b.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(b.out)
			return scanner.Err()
		}
		quit, err := b.handle(strings.Fields(scanner.Text()))
		if err := b.report(err); err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

func (b *browser) report(err error) error {
	if err == nil {
		return nil
	}
	fmt.Fprintf(b.out, "error: %v\n", err)
	if errors.Is(err, store.ErrConnection) {
		return err
	}
	return nil
}

// handle applies one command line. Navigation and writes re-render the
// dashboard; a failed command leaves the state untouched.
func (b *browser) handle(fields []string) (bool, error) {
	if len(fields) == 0 {
		return false, nil
	}
	next := b.state
	switch strings.ToLower(fields[0]) {
	case "q", "quit", "exit":
		return true, nil
	case "h", "help", "?":
		fmt.Fprintln(b.out, browseHelp)
		return false, nil
	case "n", "next":
		next = b.state.Next()
	case "p", "prev", "previous":
		next = b.state.Previous()
	case "t", "today":
		if next.Mode == service.ViewCustom {
			next = next.WithMode(service.ViewSingle)
		}
		next.Offset = 0
	case "mode":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: mode single|week")
		}
		mode, err := service.ParseViewMode(fields[1])
		if err != nil {
			return false, err
		}
		if mode == service.ViewCustom {
			return false, fmt.Errorf("use range FROM TO for custom ranges")
		}
		next = b.state.WithMode(mode)
	case "range":
		if len(fields) != 3 {
			return false, fmt.Errorf("usage: range FROM TO")
		}
		loc := b.clock.Location()
		from, err := parseDate("start date", fields[1], loc)
		if err != nil {
			return false, err
		}
		to, err := parseDate("end date", fields[2], loc)
		if err != nil {
			return false, err
		}
		next = b.state.WithRange(from, to)
	case "add":
		if err := b.add(fields[1:]); err != nil {
			return false, err
		}
	case "del", "delete":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: del INDEX")
		}
		index, err := parseIndexArg(fields[1])
		if err != nil {
			return false, err
		}
		if err := service.DeleteRecordAt(b.store, index); err != nil {
			return false, err
		}
		fmt.Fprintf(b.out, "Deleted record at index %d\n", index)
	case "insights":
		records, err := b.store.LoadAll()
		if err != nil {
			return false, err
		}
		printInsights(b.out, service.InsightsFromHistory(records, service.WeekdaySum))
		return false, nil
	default:
		return false, fmt.Errorf("unknown command %q (type help)", fields[0])
	}
	if _, err := service.ResolveWindow(next, clock.Today(b.clock)); err != nil {
		return false, err
	}
	b.state = next
	return false, b.render()
}

func (b *browser) add(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: add food|alcohol|exercise KCAL DESCRIPTION")
	}
	category, err := model.ParseCategory(args[0])
	if err != nil {
		return err
	}
	calories, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid calories %q", args[1])
	}
	today := clock.Today(b.clock)
	w, err := service.ResolveWindow(b.state, today)
	if err != nil {
		return err
	}
	date := w.End
	if w.ContainsKey(today.Format("2006-01-02")) {
		date = today
	}
	in := service.LogInput{
		Category:    category,
		Description: strings.Join(args[2:], " "),
		Calories:    calories,
		Date:        date,
	}
	rec, err := service.LogRecord(b.store, in, b.clock)
	if err != nil {
		return err
	}
	fmt.Fprintf(b.out, "Logged %s %q %d kcal on %s\n", rec.Category, rec.Description, rec.Calories, rec.DateKey())
	return nil
}

func (b *browser) render() error {
	fmt.Fprintln(b.out)
	return renderDashboard(b.out, b.store, b.state, clock.Today(b.clock), b.settings, browseNoCharts)
}

func init() {
	rootCmd.AddCommand(browseCmd)
	browseCmd.Flags().StringVar(&browseMode, "mode", "single", "Initial view mode: single|week")
	browseCmd.Flags().BoolVar(&browseNoCharts, "no-charts", false, "Disable ASCII charts")
	browseCmd.Flags().DurationVar(&browseCacheTTL, "cache-ttl", 5*time.Minute, "How long a loaded snapshot is reused between commands")
}
