package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/pumpdeploy/internal/adapters/progress"
	"github.com/trebuchet-org/pumpdeploy/internal/app"
	"github.com/trebuchet-org/pumpdeploy/internal/config"
	"github.com/trebuchet-org/pumpdeploy/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
	// sinkKey is the context key for the progress sink
	sinkKey contextKey = "sink"
	// cleanupKey is the context key for the func that releases the app
	cleanupKey contextKey = "cleanup"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pumpdeploy",
		Short: "Deploy and verify the PumpFun contract suite",
		Long: `pumpdeploy deploys the PumpFunFactory and PumpFun contracts, hands factory
ownership to the main contract, records the resulting addresses and verifies
both contracts on the network's block explorer.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			// Set up viper from the project root and any flags that were set
			v := config.SetupViper(config.FindProjectRoot(), cmd)
			if isNonInteractive(v, cmd) {
				v.Set("non_interactive", true)
			}

			sink := newProgressSink(v, cmd)

			// Initialize app with DI
			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			// Store app in context
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			ctx = context.WithValue(ctx, sinkKey, sink)

			// Add timeout if configured
			var cancel context.CancelFunc
			if appInstance.Config.Timeout > 0 {
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
			} else {
				ctx, cancel = context.WithCancel(ctx)
			}
			ctx = context.WithValue(ctx, cleanupKey, func() {
				cancel()
				appInstance.Close()
			})

			cmd.SetContext(ctx)

			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts and spinners")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (e.g., bsctestnet, localhost)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Abort the command after this duration (default 10m)")
	rootCmd.PersistentFlags().String("deployments-dir", "", "Directory holding deployment-<network>.json records")
	rootCmd.PersistentFlags().String("artifacts-dir", "", "Directory holding compiled contract artifacts")

	// Add command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "recovery",
		Title: "Recovery Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	// Main commands
	deployCmd := NewDeployCmd()
	deployCmd.GroupID = "main"
	rootCmd.AddCommand(deployCmd)

	showCmd := NewShowCmd()
	showCmd.GroupID = "main"
	rootCmd.AddCommand(showCmd)

	verifyCmd := NewVerifyCmd()
	verifyCmd.GroupID = "main"
	rootCmd.AddCommand(verifyCmd)

	// Recovery commands
	transferCmd := NewTransferOwnershipCmd()
	transferCmd.GroupID = "recovery"
	rootCmd.AddCommand(transferCmd)

	adoptCmd := NewAdoptCmd()
	adoptCmd.GroupID = "recovery"
	rootCmd.AddCommand(adoptCmd)

	// Management commands
	networksCmd := NewNetworksCmd()
	networksCmd.GroupID = "management"
	rootCmd.AddCommand(networksCmd)

	// Version command
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// newProgressSink picks a spinner for terminals and plain lines otherwise.
// Progress goes to stderr so stdout only carries the rendered result.
func newProgressSink(v *viper.Viper, cmd *cobra.Command) usecase.ProgressSink {
	if machineOutput(cmd) {
		return usecase.NopProgress{}
	}
	if v.GetBool("non_interactive") {
		return progress.NewPlainSink(cmd.ErrOrStderr())
	}
	return progress.NewSpinnerProgressReporter(cmd.ErrOrStderr())
}

// machineOutput reports whether the command prints JSON or YAML
func machineOutput(cmd *cobra.Command) bool {
	for _, name := range []string{"json", "yaml"} {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			return true
		}
	}
	return false
}

// isNonInteractive reports whether prompts and spinners must be avoided:
// when asked to, under CI, or when stdout or stdin is not a terminal
func isNonInteractive(v *viper.Viper, cmd *cobra.Command) bool {
	if v.GetBool("non_interactive") || os.Getenv("CI") != "" || color.NoColor {
		return true
	}
	stdin, ok := cmd.InOrStdin().(*os.File)
	if !ok {
		return true
	}
	return !isatty.IsTerminal(stdin.Fd()) && !isatty.IsCygwinTerminal(stdin.Fd())
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}

// stopProgress halts a running spinner so errors print on a clean line
func stopProgress(cmd *cobra.Command) {
	if s, ok := cmd.Context().Value(sinkKey).(interface{ Stop() }); ok {
		s.Stop()
	}
}

// Execute runs the root command and releases the app afterwards, whether or
// not the command succeeded
func Execute(ctx context.Context, root *cobra.Command) error {
	_, err := executeC(ctx, root)
	return err
}

func executeC(ctx context.Context, root *cobra.Command) (*cobra.Command, error) {
	cmd, err := root.ExecuteContextC(ctx)
	if cmd != nil && cmd.Context() != nil {
		if cleanup, ok := cmd.Context().Value(cleanupKey).(func()); ok {
			cleanup()
		}
	}
	return cmd, err
}
