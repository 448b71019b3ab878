package balance

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/saadjs/kcal-balance/internal/clock"
	"github.com/saadjs/kcal-balance/internal/store"
)

func storeOptions() store.Options {
	return store.Options{Location: cfg.Location(), Logger: appLog}
}

func openStore() (store.Store, error) {
	return store.Open(cfg.Store.Backend, cfg.Store.Path, storeOptions())
}

func withStore(run func(store.Store) error) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	return run(s)
}

// currentClock honors --today by pinning the clock to noon of that date.
func currentClock() (clock.Clock, error) {
	loc := cfg.Location()
	if strings.TrimSpace(todayOverride) == "" {
		return clock.System(loc), nil
	}
	d, err := parseDate("--today", todayOverride, loc)
	if err != nil {
		return nil, err
	}
	return clock.Fixed(d.Add(12 * time.Hour)), nil
}

func parseDate(name, value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q (expected YYYY-MM-DD)", name, value)
	}
	return t, nil
}

func parseTimeOfDay(value string) (*time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{"15:04:05", "15:04"} {
		t, err := time.Parse(layout, value)
		if err == nil {
			d := time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second
			return &d, nil
		}
	}
	return nil, fmt.Errorf("invalid --time %q (expected HH:MM or HH:MM:SS)", value)
}

func parseIndexArg(value string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid index %q", value)
	}
	if v < 0 {
		return 0, fmt.Errorf("index must be >= 0")
	}
	return v, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}
