package balance

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/saadjs/kcal-balance/internal/config"
	"github.com/saadjs/kcal-balance/internal/logger"
)

var (
	cfgFile       string
	storePath     string
	storeBackend  string
	timezone      string
	logLevel      string
	logFormat     string
	todayOverride string
)

var (
	cfg    *config.Config
	appLog *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "balance",
	Short: "balance tracks calories in, calories out and your net energy balance",
	Long: "balance logs food, alcohol and exercise entries and reports intake, basal and exercise burn,\n" +
		"net balance and estimated weight change over a day, a week or any date range.",
	SilenceUsage:      true,
	PersistentPreRunE: loadRuntime,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var flagKeys = map[string]string{
	"store":      "store.path",
	"backend":    "store.backend",
	"tz":         "timezone",
	"log-level":  "log.level",
	"log-format": "log.format",
}

func loadRuntime(cmd *cobra.Command, args []string) error {
	v := config.New()
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(name)); err != nil {
			return fmt.Errorf("bind --%s: %w", name, err)
		}
	}
	loaded, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	l, err := logger.New(loaded.Log.Level, loaded.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	cfg, appLog = loaded, l
	appLog.WithFields(logrus.Fields{
		"backend": cfg.Store.Backend,
		"path":    cfg.Store.Path,
		"config":  cfg.File,
	}).Debug("loaded configuration")
	return nil
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default: ./config.yaml or <user config dir>/balance/config.yaml)")
	pf.StringVar(&storePath, "store", "", "Path to the record store (.db or .xlsx)")
	pf.StringVar(&storeBackend, "backend", "", "Store backend: sqlite|xlsx (default: from --store extension)")
	pf.StringVar(&timezone, "tz", "", "IANA time zone for dates (default: local)")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug|info|warn|error")
	pf.StringVar(&logFormat, "log-format", "", "Log format: text|json")
	pf.StringVar(&todayOverride, "today", "", "Treat this date (YYYY-MM-DD) as today")
}
