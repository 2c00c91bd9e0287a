// Package batch analyzes many samples concurrently. Every worker owns its own
// session, so the single-flight guarantee of a session still holds per worker.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/Sla0ui/phishguard/internal/logging"
	"github.com/Sla0ui/phishguard/internal/models"
	"github.com/Sla0ui/phishguard/internal/session"
)

// Runner fans samples out to a pool of sessions
type Runner struct {
	analyzer session.Analyzer
	config   *models.Config
	logger   *logging.Logger
	progress io.Writer
}

// New creates a new Runner instance
func New(analyzer session.Analyzer, config *models.Config, logger *logging.Logger) (*Runner, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Runner{
		analyzer: analyzer,
		config:   config,
		logger:   logger.With(logging.F("component", "batch")),
		progress: os.Stderr,
	}, nil
}

type job struct {
	index  int
	sample string
}

// Run analyzes samples and returns one outcome per sample in input order. If
// ctx is cancelled the outcomes finished so far are returned with ctx.Err().
func (r *Runner) Run(ctx context.Context, samples []string) ([]*models.Outcome, error) {
	numWorkers := r.config.Concurrency
	if numWorkers > len(samples) {
		numWorkers = len(samples)
	}
	workCh := make(chan job, len(samples))
	outcomes := make([]*models.Outcome, len(samples))

	var bar *progressbar.ProgressBar
	if !r.config.Quiet && !r.config.NoProgress {
		bar = progressbar.NewOptions(len(samples),
			progressbar.OptionSetWriter(r.progress),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWidth(50),
			progressbar.OptionSetDescription("[cyan]Analyzing samples[reset]"),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}))
	}

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			sess := session.New(r.analyzer, session.Options{
				PlatformHint: r.config.PlatformHint,
				CopyFeedback: r.config.CopyFeedback,
				Logger:       r.logger.With(logging.F("worker", workerID)),
			})
			defer sess.Close()

			for {
				select {
				case j, ok := <-workCh:
					if !ok {
						return
					}
					if ctx.Err() != nil {
						return
					}

					outcomes[j.index] = analyzeOne(ctx, sess, j.sample)

					if bar != nil {
						bar.Add(1)
					}

				case <-ctx.Done():
					return
				}
			}
		}(i)
	}

	for i, sample := range samples {
		workCh <- job{index: i, sample: sample}
	}
	close(workCh)

	wg.Wait()
	if bar != nil {
		bar.Finish()
		fmt.Fprintln(r.progress)
	}

	if err := ctx.Err(); err != nil {
		done := make([]*models.Outcome, 0, len(outcomes))
		for _, o := range outcomes {
			if o != nil {
				done = append(done, o)
			}
		}
		return done, err
	}
	return outcomes, nil
}

func analyzeOne(ctx context.Context, sess *session.Session, sample string) *models.Outcome {
	outcome := &models.Outcome{
		Sample:    sample,
		CheckedAt: time.Now(),
	}

	start := time.Now()
	if !sess.Submit(ctx, sample) {
		outcome.Error = "empty sample"
		return outcome
	}
	outcome.Duration = time.Since(start)

	phase := sess.Phase()
	if result, ok := phase.Result(); ok {
		outcome.Result = result
		return outcome
	}
	if msg, ok := phase.Message(); ok {
		outcome.Error = msg
	} else {
		outcome.Error = session.GenericFailureMessage
	}
	return outcome
}

// ReadSamples reads one sample per line. Blank lines and lines starting with
// # are skipped; a literal \n inside a line becomes a newline so multi-line
// messages fit on one line.
func ReadSamples(fileName string) ([]string, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to open samples file: %w", err)
	}
	defer file.Close()
	return ParseSamples(file)
}

// ParseSamples is ReadSamples for an already open reader.
func ParseSamples(rd io.Reader) ([]string, error) {
	var samples []string
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		samples = append(samples, strings.ReplaceAll(line, `\n`, "\n"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read samples: %w", err)
	}
	return samples, nil
}
