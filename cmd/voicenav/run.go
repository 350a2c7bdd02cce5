package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/entrhq/voicenav/pkg/agent"
	"github.com/entrhq/voicenav/pkg/browser"
	"github.com/entrhq/voicenav/pkg/config"
	"github.com/entrhq/voicenav/pkg/dispatch"
	"github.com/entrhq/voicenav/pkg/executor/headless"
	"github.com/entrhq/voicenav/pkg/executor/tui"
	"github.com/entrhq/voicenav/pkg/executor/voice"
	"github.com/entrhq/voicenav/pkg/feedback"
	"github.com/entrhq/voicenav/pkg/llm/openai"
	"github.com/entrhq/voicenav/pkg/logging"
	"github.com/entrhq/voicenav/pkg/speech"
	"github.com/entrhq/voicenav/pkg/synth"
)

// loadConfig resolves the configuration with precedence
// flags > file > environment > defaults.
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	cfg.ApplyFlags(opts.apiKey, opts.baseURL, opts.model)
	if opts.headless {
		cfg.Browser.Headless = true
	}
	if opts.startURL != "" {
		cfg.Browser.StartURL = opts.startURL
	}
	if opts.text {
		cfg.Speech.Listener = config.ListenerConsole
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// app holds the collaborators shared by interactive and scripted sessions.
type app struct {
	cfg        *config.Config
	logger     *logging.Logger
	manager    *browser.SessionManager
	provider   *openai.Provider
	report     *feedback.Reporter
	listener   speech.Listener
	dispatcher *dispatch.Dispatcher
	agent      *agent.Agent
}

// newApp starts logging and the browser and wires the command pipeline.
// out receives console feedback. Close must be called even when newApp fails
// partway.
func newApp(cfg *config.Config, out io.Writer) (*app, error) {
	a := &app{cfg: cfg}

	if cfg.Logging.Dir != "" {
		logging.SetDirectory(cfg.Logging.Dir)
	}
	logger, err := logging.NewLogger("voicenav")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging to stderr: %v\n", err)
	}
	logger.SetLevel(logging.ParseLevel(cfg.Logging.Level))
	logger.Infof("starting voicenav v%s, session %s", version, logger.SessionID())
	a.logger = logger

	mainProvider, describeProvider, err := config.BuildProviders(cfg, logger.With("llm"))
	if err != nil {
		return a, err
	}
	a.provider = mainProvider

	policy, err := dispatch.NewPolicy(cfg.Navigation.AllowedHosts, cfg.Navigation.DeniedHosts)
	if err != nil {
		return a, fmt.Errorf("configuration error: %w", err)
	}

	a.manager = browser.NewSessionManager(!cfg.Browser.SkipInstall)
	if err := a.manager.Initialize(); err != nil {
		return a, err
	}
	session, err := a.manager.StartSession(browser.SessionOptions{
		Headless: cfg.Browser.Headless,
		Viewport: &browser.Viewport{Width: cfg.Browser.ViewportWidth, Height: cfg.Browser.ViewportHeight},
		Timeout:  cfg.Browser.DefaultTimeout,
		StartURL: cfg.Browser.StartURL,
	})
	if err != nil {
		return a, err
	}

	speaker, err := newSpeaker(cfg, out, logger.With("speech"))
	if err != nil {
		return a, err
	}
	a.report = feedback.New(out, speaker)
	if !isTTY() {
		a.report.SetPlain(true)
	}

	a.listener, err = newListener(cfg, mainProvider, out, logger.With("speech"))
	if err != nil {
		return a, err
	}

	s := synth.New(mainProvider, describeProvider, cfg.LLM, logger.With("synth"))
	a.dispatcher = dispatch.New(session.Page, s, a.report,
		dispatch.WithConfig(cfg),
		dispatch.WithPolicy(policy),
		dispatch.WithPrompter(newPrompter(a.listener, out)),
		dispatch.WithLogger(logger.With("dispatch")),
	)
	a.agent = agent.New(a.dispatcher, s, a.report,
		agent.WithConfig(cfg),
		agent.WithLogger(logger.With("agent")),
	)
	return a, nil
}

// Close releases the browser session and the log file.
func (a *app) Close() {
	if a.manager != nil {
		if err := a.manager.Shutdown(); err != nil {
			a.logger.Warnf("browser shutdown: %v", err)
		}
	}
	if a.logger != nil {
		a.logger.Close()
	}
}

// run drives an interactive voice session until the user exits or ctx is
// canceled.
func run(ctx context.Context, opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	useOverlay := !opts.noOverlay && cfg.Speech.Listener == config.ListenerWhisper && isTTY()
	var overlay *tui.Overlay
	var out io.Writer = os.Stdout
	if useOverlay {
		overlay = tui.NewOverlay(ctx)
		out = printlnWriter(overlay.Println)
	}

	a, err := newApp(cfg, out)
	defer a.Close()
	if err != nil {
		return err
	}

	execOpts := []voice.ExecutorOption{
		voice.WithConfig(cfg),
		voice.WithResolver(a.dispatcher),
		voice.WithLogger(a.logger.With("voice")),
	}
	if !useOverlay {
		return voice.NewExecutor(a.agent, a.listener, a.report, execOpts...).Run(ctx)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := overlay.Run(); err != nil {
			a.logger.Errorf("overlay: %v", err)
		}
	}()
	execOpts = append(execOpts, voice.WithStatus(overlay), voice.WithEvents(overlay))
	runErr := voice.NewExecutor(a.agent, a.listener, a.report, execOpts...).Run(ctx)
	overlay.Quit()
	wg.Wait()
	return runErr
}

// runScript plays a headless script and prints where its artifacts went.
func runScript(ctx context.Context, opts *options, path string) error {
	script, err := headless.LoadConfig(path)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if script.StartURL != "" {
		cfg.Browser.StartURL = script.StartURL
	}

	a, err := newApp(cfg, os.Stdout)
	defer a.Close()
	if err != nil {
		return err
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	exec, err := headless.NewExecutor(a.agent, a.dispatcher, script,
		headless.WithWorkspace(wd),
		headless.WithLogger(a.logger.With("headless")),
	)
	if err != nil {
		return err
	}
	summary, err := exec.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Script %s: %s (%d/%d steps completed)\n",
		summary.Name, summary.Status, summary.Metrics.Completed, summary.Metrics.Steps)
	if summary.Status != "success" {
		return fmt.Errorf("script did not complete")
	}
	return nil
}

func newSpeaker(cfg *config.Config, out io.Writer, logger *logging.Logger) (speech.Speaker, error) {
	if cfg.Speech.Speaker == config.SpeakerCommand {
		return speech.NewCommandSpeaker(cfg.Speech.SpeakCommand, 0, logger)
	}
	return speech.NewConsoleSpeaker(out), nil
}

func newListener(cfg *config.Config, provider *openai.Provider, out io.Writer, logger *logging.Logger) (speech.Listener, error) {
	prompt := func(s string) { fmt.Fprintln(out, s) }
	if cfg.Speech.Listener == config.ListenerWhisper {
		transcriber := speech.NewOpenAITranscriber(provider.Client(), cfg.Speech.TranscriptionModel, cfg.Speech.Language)
		return speech.NewWhisperListener(cfg.Speech.RecordCommand, transcriber, logger, prompt)
	}
	return speech.NewConsoleListener(os.Stdin, prompt), nil
}

// newPrompter reads credentials from the console listener when it owns
// stdin, so typed usernames never reach the command loop.
func newPrompter(listener speech.Listener, out io.Writer) speech.CredentialPrompter {
	if console, ok := listener.(*speech.ConsoleListener); ok {
		return console.Prompter(out)
	}
	return speech.NewTerminalPrompter(os.Stdin, out)
}

// isTTY checks if the current environment has a TTY available
func isTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// printlnWriter routes writes through a line printer, such as the overlay's,
// so output lands above the status line.
type printlnWriter func(string)

func (f printlnWriter) Write(p []byte) (int, error) {
	f(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
