package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"devopsgen/app/usecase"
	"devopsgen/internal/domain/entity"
)

// Flags shared by prompt and generate.
var (
	useCaseFlag    string
	stackFlag      string
	envFlag        string
	securityFlag   bool
	monitoringFlag bool
)

func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&useCaseFlag, "use-case", "u", "", "Use case, see `devopsgen use-cases` (required)")
	cmd.Flags().StringVarP(&stackFlag, "stack", "s", "", "Technology stack description (required)")
	cmd.Flags().StringVarP(&envFlag, "env", "e", string(entity.EnvDevelopment), "Target environment (Development|Staging|Production)")
	cmd.Flags().BoolVar(&securityFlag, "security", false, "Include security best practices")
	cmd.Flags().BoolVar(&monitoringFlag, "monitoring", false, "Add monitoring and logging")
	_ = cmd.MarkFlagRequired("use-case")
}

func requestFromFlags() (entity.GenerationRequest, error) {
	env, err := entity.ParseEnvironment(envFlag)
	if err != nil {
		return entity.GenerationRequest{}, err
	}
	return entity.GenerationRequest{
		UseCase:         useCaseFlag,
		TechStack:       stackFlag,
		Environment:     env,
		IncludeSecurity: securityFlag,
		AddMonitoring:   monitoringFlag,
	}, nil
}

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the prompt that generate would send",
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := requestFromFlags()
		if err != nil {
			return err
		}
		prompt, err := usecase.ComposePrompt(registry, req)
		if err != nil {
			return err
		}

		if outputFormat == "json" {
			return writeJSON(cmd.OutOrStdout(), map[string]string{"prompt": prompt})
		}
		fmt.Fprintln(cmd.OutOrStdout(), prompt)
		return nil
	},
}

func init() {
	addRequestFlags(promptCmd)
	rootCmd.AddCommand(promptCmd)
}
