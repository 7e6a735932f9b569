package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Acurioustractor/palm-island-repository-sub003/internal/client"
)

var (
	apiFlag       string
	workspaceFlag string
	debug         bool
)

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "storyctl",
		Short:         "Compose and publish immersive stories against the story service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Logger = log.Output(zerolog.ConsoleWriter{
				Out:        cmd.ErrOrStderr(),
				TimeFormat: "2006-01-02 15:04:05",
				NoColor:    true,
			})
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", getEnv("STORY_SERVICE_URL", "http://localhost:8080"), "Story service base URL")
	rootCmd.PersistentFlags().StringVarP(&workspaceFlag, "workspace", "w", getEnv("STORYCTL_WORKSPACE", ".storyctl.json"), "Local editing session file")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable verbose debug output")

	rootCmd.AddCommand(newPullCmd())
	rootCmd.AddCommand(newPushCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newMetaCmd())
	rootCmd.AddCommand(newSectionCmd())
	rootCmd.AddCommand(newEntryCmd())
	rootCmd.AddCommand(newUploadCmd())
	rootCmd.AddCommand(newKindsCmd())
	return rootCmd
}

func newClient() (*client.Client, error) {
	return client.New(apiFlag, client.WithHTTPTimeout(2*time.Minute))
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
