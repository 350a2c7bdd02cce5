// Package main provides voicenav, a voice-controlled browser assistant.
// Spoken (or typed) commands such as "open youtube", "search cats" or
// "click the second result" drive a Playwright browser; anything outside the
// command grammar is planned by an OpenAI-compatible model.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const version = "0.1.0" // Version of voicenav

// options holds the command line flags.
type options struct {
	configPath string
	apiKey     string
	baseURL    string
	model      string
	startURL   string
	headless   bool
	text       bool
	noOverlay  bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start a voice session (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	root := &cobra.Command{
		Use:   "voicenav",
		Short: "Voice-controlled browser assistant",
		Long: `voicenav listens for commands and carries them out in a browser.

Commands:
  open <site>                 search <terms>          login
  type <text> in <field>      type <text>             play <title>
  click <target>              click item <target>     click #<n>
  click selector <css>        scroll up | scroll down
  summarize                   extract <topic>

Anything else is broken into steps by the language model.
Say "exit", "quit", "stop" or "bye" to finish.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCmd.RunE,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to the configuration file (default ~/.voicenav/config.yaml)")
	flags.StringVar(&opts.apiKey, "api-key", "", "OpenAI API key (or set OPENAI_API_KEY env var)")
	flags.StringVar(&opts.baseURL, "base-url", "", "OpenAI API base URL (or set OPENAI_BASE_URL env var)")
	flags.StringVar(&opts.model, "model", "", "LLM model to use")
	flags.StringVar(&opts.startURL, "start-url", "", "Page to open before listening")
	flags.BoolVar(&opts.headless, "headless", false, "Run the browser without a window")
	flags.BoolVar(&opts.text, "text", false, "Read typed commands from stdin instead of the microphone")
	flags.BoolVar(&opts.noOverlay, "no-overlay", false, "Disable the status overlay")

	scriptCmd := &cobra.Command{
		Use:   "script <file>",
		Short: "Play a YAML script of commands without listening",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd.Context(), opts, args[0])
		},
	}

	root.AddCommand(runCmd, scriptCmd, newConfigCommand(opts), newVersionCommand())
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "voicenav v%s\n", version)
		},
	}
}
