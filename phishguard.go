package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sla0ui/phishguard/internal/batch"
	"github.com/Sla0ui/phishguard/internal/builder"
	"github.com/Sla0ui/phishguard/internal/client"
	"github.com/Sla0ui/phishguard/internal/config"
	"github.com/Sla0ui/phishguard/internal/logging"
	"github.com/Sla0ui/phishguard/internal/models"
	"github.com/Sla0ui/phishguard/internal/repl"
	"github.com/Sla0ui/phishguard/internal/reporter"
	"github.com/Sla0ui/phishguard/internal/session"
	"github.com/Sla0ui/phishguard/internal/stubserver"
)

const (
	AppName    = "phishguard"
	AppVersion = "1.0.0"
	AppAuthor  = "Sla0ui"
	AppRepo    = "https://github.com/Sla0ui/phishguard"
)

var (
	rootCmd *cobra.Command

	green   = color.New(color.FgGreen).SprintFunc()
	red     = color.New(color.FgRed).SprintFunc()
	yellow  = color.New(color.FgYellow).SprintFunc()
	blue    = color.New(color.FgBlue).SprintFunc()
	cyan    = color.New(color.FgCyan).SprintFunc()
	magenta = color.New(color.FgMagenta).SprintFunc()

	logo = `
 ____  _     _     _      ____                     _
|  _ \| |__ (_)___| |__  / ___|_   _  __ _ _ __ __| |
| |_) | '_ \| / __| '_ \| |  _| | | |/ _' | '__/ _' |
|  __/| | | | \__ \ | | | |_| | |_| | (_| | | | (_| |
|_|   |_| |_|_|___/_| |_|\____|\__,_|\__,_|_|  \__,_|
                                 By github.com/Sla0ui
`
)

func init() {

	rootCmd = &cobra.Command{
		Use:   "phishguard [flags] [TEXT]",
		Short: "Analyze suspicious links and messages for phishing",
		Long: logo + `
PhishGuard sends a suspicious URL, email or message to a threat-analysis
service and shows the verdict: risk level, scores, the top risk indicators
and what to do next.

Examples:
  phishguard "https://bit.ly/3abcXYZ"
  pbpaste | phishguard analyze --copy
  phishguard interactive
  phishguard batch samples.txt --export report --output-format html,csv
  phishguard serve-stub --addr 127.0.0.1:5001`,
		Version:       AppVersion,
		SilenceErrors: true,
		RunE:          runAnalyze,
	}

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "YAML configuration file (default $PHISHGUARD_CONFIG)")
	pf.String("env-file", "", "dotenv file with PHISHGUARD_* variables (default .env if present)")
	pf.StringP("api-url", "a", "http://127.0.0.1:5001", "Base URL of the analysis service")
	pf.DurationP("timeout", "t", 30*time.Second, "Timeout for requests to the analysis service")
	pf.BoolP("verify-tls", "T", true, "Verify TLS certificates of the analysis service")
	pf.StringP("user-agent", "u", "phishguard-cli/1.0 (+https://github.com/Sla0ui/phishguard)", "User agent string")
	pf.StringP("platform", "p", models.PlatformOther, "Where the sample came from (email, sms, whatsapp, social, other)")
	pf.BoolP("verbose", "v", false, "Enable verbose logging")
	pf.BoolP("no-color", "n", false, "Disable colorized output")
	pf.StringP("format", "f", "text", "Output format (text, json)")
	pf.BoolP("quiet", "q", false, "Quiet mode - only print verdicts and errors")

	rootCmd.Flags().Bool("copy", false, "Copy the verdict JSON to the clipboard")
	rootCmd.Flags().Duration("copy-feedback", session.DefaultCopyFeedback, "How long the copied indicator stays on")
	rootCmd.Flags().String("export", "", "Export path for a report of the verdict")
	rootCmd.Flags().String("output-format", "json", "Report format(s) - comma separated (json,csv,html,markdown,pdf)")
	rootCmd.Flags().Duration("browser-timeout", 30*time.Second, "Timeout for PDF rendering")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [flags] [TEXT]",
		Short: "Analyze one sample",
		Long:  `Analyze one sample given as arguments, or read from stdin when no argument or "-" is given.`,
		RunE:  runAnalyze,
	}

	analyzeCmd.Flags().AddFlagSet(rootCmd.Flags())

	rootCmd.AddCommand(analyzeCmd)

	interactiveCmd := &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i", "repl"},
		Short:   "Compose and analyze samples interactively",
		Long:    `Start an interactive session. Paste a message, then :send to analyze it.`,
		Args:    cobra.NoArgs,
		RunE:    runInteractive,
	}

	interactiveCmd.Flags().Duration("copy-feedback", session.DefaultCopyFeedback, "How long the copied indicator stays on")

	rootCmd.AddCommand(interactiveCmd)

	batchCmd := &cobra.Command{
		Use:   "batch [flags] SAMPLES_FILE",
		Short: "Analyze every sample in a file",
		Long: `Analyze samples listed one per line in a file. Lines starting with # are
skipped and a literal \n inside a line stands for a line break.`,
		Args: cobra.ExactArgs(1),
		RunE: runBatch,
	}

	batchCmd.Flags().IntP("concurrency", "c", 2, "Number of samples analyzed concurrently")
	batchCmd.Flags().StringP("output-dir", "o", "results", "Directory for output files")
	batchCmd.Flags().String("export", "", "Export path for a bundled report file")
	batchCmd.Flags().String("output-format", "json", "Report format(s) - comma separated (json,csv,html,markdown,pdf)")
	batchCmd.Flags().Bool("no-progress", false, "Disable progress bar")
	batchCmd.Flags().Duration("browser-timeout", 30*time.Second, "Timeout for PDF rendering")

	rootCmd.AddCommand(batchCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the analysis service status",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}

	rootCmd.AddCommand(statusCmd)

	educationCmd := &cobra.Command{
		Use:   "education [flags] ATTACK_TYPE",
		Short: "Show prevention tips for an attack type",
		Long:  `Show the service's guidance for an attack type such as PHISHING_LINK, OTP_SCAM, LOTTERY_SCAM or JOB_SCAM.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runEducation,
	}

	rootCmd.AddCommand(educationCmd)

	samplesCmd := &cobra.Command{
		Use:   "samples",
		Short: "List the example inputs",
		Args:  cobra.NoArgs,
		RunE:  runSamples,
	}

	rootCmd.AddCommand(samplesCmd)

	stubCmd := &cobra.Command{
		Use:   "serve-stub",
		Short: "Run a local stand-in for the analysis service",
		Long:  `Serve fixture verdicts on the analysis API for offline development and demos.`,
		Args:  cobra.NoArgs,
		RunE:  runServeStub,
	}

	stubCmd.Flags().String("addr", "127.0.0.1:5001", "Listen address")
	stubCmd.Flags().String("fixture", "", "YAML or JSON fixture file (default built-in verdict)")

	rootCmd.AddCommand(stubCmd)

	compareCmd := &cobra.Command{
		Use:   "compare [flags] OLD_RESULTS NEW_RESULTS",
		Short: "Compare verdicts from two exports",
		Long:  `Compare verdicts from two JSON exports, matching samples by text.`,
		Args:  cobra.ExactArgs(2),
		RunE:  runCompare,
	}

	rootCmd.AddCommand(compareCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", red("ERROR:"), err)
		os.Exit(1)
	}
}

// setup loads the configuration for cmd and wires the shared pieces.
func setup(cmd *cobra.Command) (*models.Config, *logging.Logger, error) {
	cmd.SilenceUsage = true

	configFile, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")

	cfg, err := config.Load(config.Options{
		ConfigFile: configFile,
		EnvFile:    envFile,
		Flags:      cmd.Flags(),
	})
	if err != nil {
		return nil, nil, err
	}

	if cfg.NoColor {
		color.NoColor = true
	}

	return cfg, logging.New(os.Stderr, cfg.LogVerbose, cfg.Quiet), nil
}

func signalContext(logger *logging.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			logger.Info("Received termination signal. Shutting down gracefully...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

func printLogo(cfg *models.Config) {
	if cfg.Quiet || cfg.Format == "json" {
		return
	}
	if !cfg.NoColor {
		fmt.Fprintln(os.Stderr, cyan(logo))
	} else {
		fmt.Fprintln(os.Stderr, strings.Replace(logo, "By github.com/Sla0ui", "By github.com/Sla0ui - Version "+AppVersion, 1))
	}
}

func pdfOptions(cfg *models.Config) reporter.PDFOptions {
	return reporter.PDFOptions{
		Timeout:   cfg.BrowserTimeout,
		UserAgent: cfg.UserAgent,
	}
}

func readSample(args []string) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}
	if stat, err := os.Stdin.Stat(); err == nil && stat.Mode()&os.ModeCharDevice != 0 {
		fmt.Fprintln(os.Stderr, "Paste the suspicious message, then press Ctrl+D:")
	}
	data, err := io.ReadAll(io.LimitReader(os.Stdin, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext(logger)
	defer cancel()

	sample, err := readSample(args)
	if err != nil {
		return err
	}
	if builder.IsBlank(sample) {
		return fmt.Errorf("nothing to analyze, pass a URL or message or pipe one on stdin")
	}

	sess := session.New(client.New(cfg, logger), session.Options{
		PlatformHint: cfg.PlatformHint,
		CopyFeedback: cfg.CopyFeedback,
		Logger:       logger,
	})
	defer sess.Close()

	sess.SetInput(sample)
	logger.Info("Analyzing sample", logging.F("chars", sess.Snapshot().CharCount), logging.F("api", cfg.APIURL))

	start := time.Now()
	sess.Submit(ctx, sample)
	phase := sess.Phase()

	result, ok := phase.Result()
	if !ok {
		msg, _ := phase.Message()
		return errors.New(msg)
	}

	if cfg.Format == "json" {
		data, err := result.Canonical()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else {
		reporter.RenderText(os.Stdout, result)
	}

	if copyFlag, _ := cmd.Flags().GetBool("copy"); copyFlag {
		if sess.CopyResult() {
			logger.Success("Verdict copied to the clipboard")
		} else {
			logger.Warn("Could not copy the verdict to the clipboard")
		}
	}

	if cfg.ExportPath != "" {
		outcome := &models.Outcome{Sample: sample, Result: result, CheckedAt: start, Duration: time.Since(start)}
		if err := reporter.New([]*models.Outcome{outcome}, cfg.OutputDir).GenerateReport(ctx, cfg.ExportPath, cfg.OutputFormat, pdfOptions(cfg)); err != nil {
			return fmt.Errorf("failed to generate report: %w", err)
		}
		logger.Success("Report written", logging.F("path", cfg.ExportPath), logging.F("formats", cfg.OutputFormat))
	}
	return nil
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext(logger)
	defer cancel()

	printLogo(cfg)

	sess := session.New(client.New(cfg, logger), session.Options{
		PlatformHint: cfg.PlatformHint,
		CopyFeedback: cfg.CopyFeedback,
		Logger:       logger,
		OnChange: func(s session.Snapshot) {
			logger.Debug("session changed", logging.F("phase", s.Phase), logging.F("seq", s.Seq), logging.F("copied", s.CopyFeedbackActive))
		},
	})
	defer sess.Close()

	return repl.New(sess, os.Stdin, os.Stdout, cfg.Format == "json").Run(ctx)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext(logger)
	defer cancel()

	printLogo(cfg)

	samples, err := batch.ReadSamples(args[0])
	if err != nil {
		return fmt.Errorf("failed to read samples: %w", err)
	}
	if len(samples) == 0 {
		return fmt.Errorf("no samples found in %s", args[0])
	}

	logger.Info(fmt.Sprintf("Starting analysis of %s samples", magenta(len(samples))), logging.F("concurrency", cfg.Concurrency))

	runner, err := batch.New(client.New(cfg, logger), cfg, logger)
	if err != nil {
		return err
	}

	outcomes, err := runner.Run(ctx, samples)
	if err != nil {
		logger.Warn("Batch interrupted", logging.F("completed", len(outcomes)), logging.F("cause", err))
	}

	rep := reporter.New(outcomes, cfg.OutputDir)
	if err := rep.WriteResultsToFiles(); err != nil {
		return err
	}

	if cfg.Format == "json" {
		data, err := json.MarshalIndent(outcomes, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else if !cfg.Quiet {
		for _, o := range outcomes {
			reporter.RenderOutcome(os.Stdout, o)
		}
	}

	if cfg.ExportPath != "" {
		if err := rep.GenerateReport(ctx, cfg.ExportPath, cfg.OutputFormat, pdfOptions(cfg)); err != nil {
			return fmt.Errorf("failed to generate report: %w", err)
		}
		logger.Success("Report written", logging.F("path", cfg.ExportPath), logging.F("formats", cfg.OutputFormat))
	}

	stats := rep.GetStats()
	logger.Success(fmt.Sprintf("Analyzed %d samples: %s high, %s medium, %s low, %s failed",
		stats.Total, red(stats.High), yellow(stats.Medium), green(stats.Low), magenta(stats.Failed)),
		logging.F("output_dir", cfg.OutputDir))

	if stats.Failed == stats.Total {
		return fmt.Errorf("all %d samples failed", stats.Total)
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext(logger)
	defer cancel()

	status, err := client.New(cfg, logger).Status(ctx)
	if err != nil {
		return fmt.Errorf("service unreachable at %s: %w", cfg.APIURL, err)
	}

	if cfg.Format == "json" {
		data, _ := json.MarshalIndent(status, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Service: %s\n", cyan(status.Service))
	fmt.Printf("Status: %s\n", green(status.Status))
	fmt.Printf("Version: %s\n", status.Version)
	if status.AIEnabled {
		fmt.Printf("AI: %s\n", green(status.AIService))
	} else {
		fmt.Printf("AI: %s\n", yellow(status.AIService))
	}
	fmt.Printf("Timestamp: %s\n", status.Timestamp)
	return nil
}

func runEducation(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext(logger)
	defer cancel()

	resp, err := client.New(cfg, logger).Education(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get education content: %w", err)
	}

	if cfg.Format == "json" {
		data, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	var content models.EducationContent
	if err := json.Unmarshal(resp.Education, &content); err != nil {
		return fmt.Errorf("failed to decode education content: %w", err)
	}

	fmt.Printf("%s (%s)\n", cyan(content.Title), resp.AttackType)
	fmt.Println(content.Description)
	for _, tip := range content.PreventionTips {
		fmt.Printf("  - %s\n", tip)
	}
	return nil
}

func runSamples(cmd *cobra.Command, args []string) error {
	for i, sample := range builder.SampleInputs {
		fmt.Printf("%s %s\n", blue(fmt.Sprintf("%d.", i+1)), sample)
	}
	return nil
}

func runServeStub(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext(logger)
	defer cancel()

	fixture, err := stubserver.LoadFixture(cfg.StubFixturePath)
	if err != nil {
		return err
	}

	shutdown, baseURL, err := stubserver.New(fixture, logger).Start(cfg.StubAddr)
	if err != nil {
		return err
	}
	logger.Success(fmt.Sprintf("Stub analysis service running at %s", cyan(baseURL)))

	<-ctx.Done()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop stub server: %w", err)
	}
	return nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	_, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	previous, err := reporter.LoadOutcomes(args[0])
	if err != nil {
		return err
	}
	current, err := reporter.LoadOutcomes(args[1])
	if err != nil {
		return err
	}

	bySample := make(map[string]*models.Outcome, len(previous))
	for _, o := range previous {
		bySample[o.Sample] = o
	}

	compared := 0
	for _, o := range current {
		old, ok := bySample[o.Sample]
		if !ok || !old.Succeeded() || !o.Succeeded() {
			continue
		}
		c, err := reporter.Compare(old.Result, o.Result)
		if err != nil {
			logger.Warn("Skipping sample", logging.F("sample", o.Sample), logging.F("cause", err))
			continue
		}
		if o.Sample != "" {
			fmt.Printf("\n%s %s\n", blue("Sample:"), o.Sample)
		}
		reporter.RenderComparison(os.Stdout, c)
		compared++
	}

	if compared == 0 {
		return fmt.Errorf("no matching verdicts to compare")
	}
	logger.Success(fmt.Sprintf("Compared %d verdicts", compared))
	return nil
}
