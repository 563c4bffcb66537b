package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"devopsgen/app/usecase"
	"devopsgen/internal/domain/entity"
	"devopsgen/internal/infrastructure/llm"
	"devopsgen/internal/infrastructure/validator"
)

var (
	outDirFlag     string
	showPromptFlag bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a configuration file with the configured provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		req, err := requestFromFlags()
		if err != nil {
			return err
		}

		provider, err := llm.NewProvider(ctx, cfg.LLM)
		if err != nil && !errors.Is(err, entity.ErrMissingCredentials) {
			return err
		}
		// Missing credentials surface through the session like any other failure.
		if err != nil {
			logger.Debug("llm provider has no credentials", "provider", cfg.LLM.Provider, "err", err)
			provider = nil
		}

		exporter := usecase.NewArtifactExporter(registry)
		svc := usecase.NewGenerateService(
			usecase.NewGenerationClient(provider, cfg.LLM.Timeout),
			exporter,
			validator.NewLinter(logger),
			nil,
			usecase.Pricing{
				InputPerMillion:  cfg.Pricing.InputPerMillion,
				OutputPerMillion: cfg.Pricing.OutputPerMillion,
			},
			logger,
		)
		session := usecase.NewSession(svc, registry)

		result, err := session.Submit(ctx, req)
		snap := session.Snapshot()
		if showPromptFlag && snap.Prompt != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s\n\n", snap.Prompt)
		}
		if err != nil {
			logger.Debug("generation failed", "err", err)
			return errors.New(snap.Message)
		}

		out := cmd.OutOrStdout()
		var path string
		if outDirFlag != "" {
			file := exporter.ExportFor(result.Text, req.UseCase)
			path = filepath.Join(outDirFlag, file.Filename)
			if err := os.MkdirAll(outDirFlag, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			if err := os.WriteFile(path, []byte(file.Content()), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		}

		if outputFormat == "json" {
			type generateOutput struct {
				entity.GenerationResult
				File string `json:"file,omitempty"`
			}
			return writeJSON(out, generateOutput{GenerationResult: result, File: path})
		}

		fmt.Fprintln(out, result.Text)
		if u := result.Usage; u != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "\ntokens: %d in, %d out, %d total (%s), estimated cost $%s\n",
				u.InputTokens, u.OutputTokens, u.TotalTokens, u.Source, u.EstimatedCostUSD)
		}
		for _, d := range result.Diagnostics {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s:%d: %s: %s\n", d.File, d.Line, d.Severity, d.Message)
		}
		if path != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
		}
		return nil
	},
}

func init() {
	addRequestFlags(generateCmd)
	generateCmd.Flags().StringVar(&outDirFlag, "out", "", "Directory to write the generated file to")
	generateCmd.Flags().BoolVar(&showPromptFlag, "show-prompt", false, "Print the composed prompt to stderr")
	rootCmd.AddCommand(generateCmd)
}
