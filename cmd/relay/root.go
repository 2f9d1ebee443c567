package main

import (
	"github.com/fwojciec/relay"
	bt "github.com/fwojciec/relay/bubbletea"
	"github.com/fwojciec/relay/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"model":         "model",
	"base-url":      "base_url",
	"system-prompt": "system_prompt",
	"speak":         "speech.enabled",
	"log-level":     "logging.level",
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		prompt  string
	)
	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Stream chat completions in the terminal",
		Long: `relay sends a conversation to an OpenAI-compatible chat completions
endpoint and renders the reply as it streams. Without --prompt it starts an
interactive session; with --prompt it answers once and exits.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			for flag, key := range flagKeys {
				if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
					return err
				}
			}
			cfg, err := config.Decode(v)
			if err != nil {
				return err
			}

			headless := prompt != ""
			logger, err := newLogger(v, headless)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			a, err := newApp(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			if headless {
				return runHeadless(cmd.Context(), a.controller, prompt, cmd.OutOrStdout())
			}
			return bt.Run(cmd.Context(), bt.New(a.controller, relay.DefaultTheme()))
		},
	}

	f := cmd.Flags()
	f.StringVarP(&cfgFile, "config", "c", "", "config file (default ./relay.yaml or ~/.config/relay/relay.yaml)")
	f.StringVarP(&prompt, "prompt", "p", "", "answer a single prompt on stdout and exit")
	f.StringP("model", "m", "", "model id")
	f.String("base-url", "", "endpoint base URL, e.g. http://localhost:11434/v1")
	f.String("system-prompt", "", "system prompt for new conversations")
	f.Bool("speak", false, "read finished replies aloud with speech.command")
	f.StringP("log-level", "l", "", "log level: debug, info, warn, error")
	return cmd
}

// newLogger builds the configured logger. The interactive UI owns the
// terminal, so without a log file it logs nothing.
func newLogger(v *viper.Viper, headless bool) (*zap.Logger, error) {
	if !headless && v.GetString("logging.file") == "" {
		return zap.NewNop(), nil
	}
	return config.NewLogger(v)
}
