// Command rtctoken issues, validates and inspects RTC tokens signed with
// daily keys derived from an application secret.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/OpsMx/rtc-auth-client/internal/config"
	"github.com/OpsMx/rtc-auth-client/internal/logger"
)

// nowLayout is ISO 8601 basic format in UTC, e.g. 20180102T030405Z
const nowLayout = "20060102T150405Z"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		cfg = config.Default()
	}

	var log *zap.Logger

	root := &cobra.Command{
		Use:           "rtctoken",
		Short:         "Issue and validate RTC tokens signed with derived daily keys",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgErr != nil {
				return cfgErr
			}
			log = logger.New(logger.Config{Env: cfg.LogEnv, Level: cfg.LogLevel, ServiceName: "rtctoken"})
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if log != nil {
				_ = log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error (env RTC_LOG_LEVEL)")

	logf := func() *zap.Logger {
		if log == nil {
			return zap.NewNop()
		}
		return log
	}

	root.AddCommand(
		newIssueCmd(&cfg),
		newAssertCmd(&cfg),
		newValidateCmd(&cfg, logf),
		newDeriveKeyCmd(&cfg),
	)
	return root
}

// parseNow parses --now, defaulting to the current time
func parseNow(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(nowLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now %q, expected format %s: %w", s, nowLayout, err)
	}
	return t, nil
}
