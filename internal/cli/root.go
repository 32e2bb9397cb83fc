// Package cli implements the lti command: signing and verifying launches, calling the outcomes
// and membership services of a Tool Consumer, and decoding content items.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ltilibrary/lti-go/internal/config"
	"github.com/ltilibrary/lti-go/internal/logger"
	"github.com/ltilibrary/lti-go/internal/version"
)

var (
	cfg       *config.ClientEnvironment
	appLogger *slog.Logger

	// flags override the environment
	flagConsumerKey     string
	flagConsumerSecret  string
	flagSignatureMethod string
	flagDebug           bool
)

var rootCmd = &cobra.Command{
	Use:               "lti",
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	SilenceUsage:      true,
	Short:             "LTI 1.x launch and outcomes tool",
	Long: `lti signs and verifies LTI 1.x launches and calls the services a Tool Consumer offers:
Basic Outcomes, Outcomes Management (line items and results) and Memberships.

Credentials are read from LTI_CONSUMER_KEY and LTI_CONSUMER_SECRET or the matching flags.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.NewClientConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		flags := cmd.Flags()
		if flags.Changed("consumer-key") {
			cfg.ConsumerKey = flagConsumerKey
		}
		if flags.Changed("consumer-secret") {
			cfg.ConsumerSecret = flagConsumerSecret
		}
		if flags.Changed("signature-method") {
			cfg.SignatureMethod = flagSignatureMethod
		}
		if flags.Changed("debug") {
			cfg.DebugExchanges = flagDebug
		}

		appLogger = logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)
		return nil
	},
}

func Execute() {
	v := version.Get()
	rootCmd.Version = fmt.Sprintf("%s (built %s, commit %s)", v.Version, v.BuildDate, v.GitCommit)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagConsumerKey, "consumer-key", "", "OAuth consumer key (LTI_CONSUMER_KEY)")
	flags.StringVar(&flagConsumerSecret, "consumer-secret", "", "OAuth consumer secret (LTI_CONSUMER_SECRET)")
	flags.StringVar(&flagSignatureMethod, "signature-method", "", "HMAC-SHA1, HMAC-SHA256, HMAC-SHA384 or HMAC-SHA512 (LTI_SIGNATURE_METHOD)")
	flags.BoolVar(&flagDebug, "debug", false, "print the raw request and response of failed service calls (DEBUG_EXCHANGES)")

	rootCmd.AddCommand(launchCmd)
	rootCmd.AddCommand(outcomesCmd)
	rootCmd.AddCommand(lineItemsCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(membershipsCmd)
	rootCmd.AddCommand(contentItemsCmd)
	rootCmd.AddCommand(versionCmd)
}
