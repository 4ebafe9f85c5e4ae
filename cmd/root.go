package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tessera-io/tessera/pkg/config"
	"github.com/tessera-io/tessera/pkg/headless"
	"github.com/tessera-io/tessera/pkg/logger"
	"github.com/tessera-io/tessera/pkg/transport"
	"github.com/tessera-io/tessera/pkg/tui"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "tessera",
	Short: "Terminal renderer for streaming assistant replies",
	Long: `tessera renders an AI assistant's reply as it streams in from a
backend: search and fetch tool activity first, then the answer text with
its citations and referenced documents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(cfgFile); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if viper.GetBool("display.no_animate") {
			viper.Set("display.animate", false)
			if err := config.Load(); err != nil {
				return err
			}
		}
		if err := logger.Init(); err != nil {
			return fmt.Errorf("failed to init logging: %w", err)
		}
		defer logger.Close()

		if replayPath := viper.GetString("replay"); replayPath != "" {
			return runReplay(replayPath)
		}
		return runInteractive()
	},
	SilenceUsage: true,
}

func runInteractive() error {
	settings := config.Get()
	prompt := viper.GetString("prompt")
	if prompt == "" {
		return fmt.Errorf("a prompt is required (use --prompt)")
	}

	source := transport.NewClientWithTimeout(
		settings.Server.URL,
		transport.ChatRequest{Message: prompt},
		time.Duration(settings.Server.Timeout)*time.Second,
	)
	return tui.StartApp(source)
}

func runReplay(path string) error {
	delay := viper.GetDuration("replay_delay")
	runner := headless.NewRunner(transport.NewReplay(path, delay), os.Stdout)
	return runner.Run(context.Background())
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ~/.tessera/settings.yaml)")

	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level")
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().StringP("server", "s", "", "packet stream backend URL")
	viper.BindPFlag("server.url", rootCmd.PersistentFlags().Lookup("server"))

	rootCmd.PersistentFlags().StringP("prompt", "p", "", "prompt to send to the backend")
	viper.BindPFlag("prompt", rootCmd.PersistentFlags().Lookup("prompt"))

	rootCmd.PersistentFlags().Bool("no-animate", false, "disable minimum-duration smoothing of tool activity")
	viper.BindPFlag("display.no_animate", rootCmd.PersistentFlags().Lookup("no-animate"))

	rootCmd.PersistentFlags().String("replay", "", "render a recorded packet log instead of connecting to a backend")
	viper.BindPFlag("replay", rootCmd.PersistentFlags().Lookup("replay"))

	rootCmd.PersistentFlags().Duration("replay-delay", 0, "pause between replayed packets")
	viper.BindPFlag("replay_delay", rootCmd.PersistentFlags().Lookup("replay-delay"))
}
