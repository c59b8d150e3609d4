// Package cli implements the datalode command tree.
package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/datalode-hq/datalode-go/internal/config"
	"github.com/datalode-hq/datalode-go/pkg/datalode"
)

var (
	overrideServer  string
	overrideToken   string
	overrideTimeout int64
	outputFormat    string

	appConfig *config.Config
)

// Execute runs the CLI. Errors are printed to stderr and returned so
// main can exit non-zero.
func Execute() error {
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

var rootCmd = &cobra.Command{
	Use:   "datalode",
	Short: "Interact with the Datalode platform",
	Long: `datalode is the command line interface for the Datalode data platform.
Credentials come from the API_TOKEN environment variable, configs/.env,
or the --token flag.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if appConfig == nil {
			var err error
			appConfig, err = config.Load()
			if err != nil {
				return err
			}
		}
		switch strings.ToLower(outputFormat) {
		case "table", "json":
			return nil
		default:
			return fmt.Errorf("unsupported output format %q", outputFormat)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&overrideServer, "server", "", "Override API server URL")
	rootCmd.PersistentFlags().StringVar(&overrideToken, "token", "", "Override API token")
	rootCmd.PersistentFlags().Int64Var(&overrideTimeout, "timeout", 0, "Request timeout in seconds")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table|json")

	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(dataCmd)
	rootCmd.AddCommand(recordingsCmd)
	rootCmd.AddCommand(attachmentsCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(projectsCmd)
}

// mustClient builds an SDK client from config plus flag overrides.
func mustClient() (*datalode.Client, error) {
	if appConfig == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	token := overrideToken
	if token == "" {
		token = appConfig.APIToken
	}
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("no API token configured; pass --token or set API_TOKEN")
	}
	timeout := appConfig.RequestTimeout
	if overrideTimeout > 0 {
		timeout = time.Duration(overrideTimeout) * time.Second
	}
	opts := []datalode.Option{datalode.WithTimeout(timeout)}
	server := overrideServer
	if server == "" {
		server = appConfig.APIBaseURL
	}
	if server != "" {
		opts = append(opts, datalode.WithBaseURL(server))
	}
	return datalode.NewClient(token, opts...)
}

func jsonOutput() bool {
	return strings.EqualFold(outputFormat, "json")
}

// parseTimeFlag accepts RFC 3339 timestamps, bare dates, and the word
// "now". An empty value yields the zero time.
func parseTimeFlag(value, flag string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if strings.EqualFold(value, "now") {
		return time.Now().UTC(), nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --%s %q (want RFC 3339, YYYY-MM-DD, or \"now\")", flag, value)
}

// parseKeyValues splits repeated key=value flags into a map.
func parseKeyValues(pairs []string, flag string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid --%s %q (want key=value)", flag, pair)
		}
		out[strings.TrimSpace(key)] = value
	}
	return out, nil
}
