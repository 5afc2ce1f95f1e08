// Package commands implements the callbridge CLI command tree.
package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "callbridge",
	Short: "Telephony bridge between phone calls and a realtime speech model",
	Long: `callbridge - bridges Twilio Media Streams calls with the OpenAI
Realtime API over websockets.

The server answers incoming calls with TwiML that opens a media stream
back to this process, then relays caller audio to the model and model
audio to the caller, handling barge-in interruptions and function-call
tools along the way.

Configuration is a YAML file passed via --config; API keys may also be
supplied through OPENAI_API_KEY and GOOGLE_MAPS_API_KEY.

Examples:
  # Run with defaults and keys from the environment
  callbridge serve

  # Run with a config file and verbose wire logging
  callbridge serve --config callbridge.yaml -v`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
}

// IsVerbose reports whether --verbose was set.
func IsVerbose() bool {
	return verbose
}
