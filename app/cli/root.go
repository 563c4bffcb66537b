package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"devopsgen/app/config"
	"devopsgen/internal/domain/entity"
)

var (
	outputFormat string
	debugFlag    bool

	cfg      *config.Config
	registry *entity.Registry
	logger   *slog.Logger
)

var Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "devopsgen",
	Short: "AI DevOps configuration generator",
	Long: `devopsgen composes a DevOps prompt from a use case and a technology stack,
sends it to the configured LLM provider and writes the result to a file.

COMMANDS:
  generate                 Generate a configuration file
  prompt                   Print the prompt without calling the provider
  use-cases                List supported use cases
  version                  CLI version

CONFIGURATION:
  Read from the environment and an optional .env file in the working directory.
    LLM_PROVIDER   bedrock | openai | gemini (default: bedrock)
    LLM_MODEL      Provider model id
    LLM_TIMEOUT    Per-request deadline (default: 30s)

EXAMPLES:
  devopsgen use-cases
  devopsgen prompt --use-case Dockerfile --stack "Go 1.24, PostgreSQL"
  devopsgen generate --use-case "GitHub Actions Workflow" --stack "Node.js, Jest" --out ./build`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if debugFlag {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		registry = entity.DefaultRegistry()

		// Only generation needs provider settings.
		if cmd.Name() != "generate" {
			return nil
		}
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "devopsgen version %s\n", Version)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format (text|json)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Verbose logging")

	rootCmd.AddCommand(versionCmd)
}
