// Package repl is a line oriented front end bound to one analysis session.
// Text lines build up the sample; a line whose first word is ':' followed by
// letters is a command. A leading '::' stands for a literal ':'.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/Sla0ui/phishguard/internal/builder"
	"github.com/Sla0ui/phishguard/internal/reporter"
	"github.com/Sla0ui/phishguard/internal/session"
)

const helpText = `Type or paste the suspicious message, then:
  :send        analyze the current input (same as Ctrl+Enter)
  :clear       clear the input
  :copy        copy the last verdict as JSON
  :samples     list the example inputs
  :sample N    load example N
  :show        show the current input
  :help        show this help
  :quit        exit
Start a line with :: to keep a literal leading colon.`

var (
	red    = color.New(color.FgRed).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
)

// REPL reads commands from in and writes to out
type REPL struct {
	sess   *session.Session
	in     io.Reader
	out    io.Writer
	prompt string
	json   bool
}

// New creates a REPL over sess. With jsonOutput set, verdicts are printed as
// canonical JSON instead of the colored text view.
func New(sess *session.Session, in io.Reader, out io.Writer, jsonOutput bool) *REPL {
	return &REPL{
		sess:   sess,
		in:     in,
		out:    out,
		prompt: "phishguard> ",
		json:   jsonOutput,
	}
}

// Run processes lines until :quit, end of input or ctx is done.
func (r *REPL) Run(ctx context.Context) error {
	fmt.Fprintln(r.out, helpText)

	lines := make(chan string)
	errc := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go func() {
		scanner := bufio.NewScanner(r.in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		errc <- scanner.Err()
	}()

	for {
		fmt.Fprint(r.out, r.prompt)
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.out)
			return nil
		case err := <-errc:
			fmt.Fprintln(r.out)
			return err
		case line := <-lines:
			if r.Handle(ctx, line) {
				return nil
			}
		}
	}
}

// Handle processes a single line and reports whether the REPL should exit.
func (r *REPL) Handle(ctx context.Context, line string) bool {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "::") {
		r.appendInput(strings.Replace(line, "::", ":", 1))
		return false
	}
	fields := strings.Fields(trimmed)
	if len(fields) == 0 || !isCommand(fields[0]) {
		r.appendInput(line)
		return false
	}

	switch fields[0] {
	case ":quit", ":q", ":exit":
		return true
	case ":send":
		r.send(ctx)
	case ":clear":
		if r.sess.Clear() {
			fmt.Fprintln(r.out, "Input cleared.")
		}
	case ":copy":
		r.copy()
	case ":samples":
		for i, sample := range builder.SampleInputs {
			fmt.Fprintf(r.out, "  %d. %s\n", i+1, sample)
		}
	case ":sample":
		r.loadSample(fields[1:])
	case ":show":
		r.show()
	case ":help", ":h":
		fmt.Fprintln(r.out, helpText)
	default:
		fmt.Fprintf(r.out, "%s unknown command %s, try :help (use :%s to add it as text)\n", yellow("WARN:"), fields[0], fields[0])
	}
	return false
}

// isCommand reports whether word looks like ":name".
func isCommand(word string) bool {
	if len(word) < 2 || word[0] != ':' {
		return false
	}
	for _, c := range word[1:] {
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}

func (r *REPL) appendInput(line string) {
	current := r.sess.Input()
	if current != "" {
		current += "\n"
	}
	if !r.sess.SetInput(current + line) {
		fmt.Fprintf(r.out, "%s an analysis is running, input not changed\n", yellow("WARN:"))
	}
}

func (r *REPL) send(ctx context.Context) {
	if !r.sess.Snapshot().CanSubmit() {
		fmt.Fprintf(r.out, "%s nothing to analyze\n", yellow("WARN:"))
		return
	}

	fmt.Fprintln(r.out, cyan("Analyzing..."))
	r.sess.HandleKey(ctx, session.KeyEvent{Key: session.KeyEnter, Ctrl: true})

	phase := r.sess.Phase()
	if result, ok := phase.Result(); ok {
		if r.json {
			data, err := result.Canonical()
			if err != nil {
				fmt.Fprintf(r.out, "%s %v\n", red("ERROR:"), err)
				return
			}
			fmt.Fprintln(r.out, string(data))
			return
		}
		reporter.RenderText(r.out, result)
		return
	}
	if msg, ok := phase.Message(); ok {
		fmt.Fprintf(r.out, "%s %s\n", red("ERROR:"), msg)
	}
}

func (r *REPL) copy() {
	if r.sess.LastResult() == nil {
		fmt.Fprintf(r.out, "%s no verdict to copy yet\n", yellow("WARN:"))
		return
	}
	if r.sess.CopyResult() {
		fmt.Fprintln(r.out, green("Copied!"))
		return
	}
	fmt.Fprintf(r.out, "%s could not copy to the clipboard\n", red("ERROR:"))
}

func (r *REPL) loadSample(args []string) {
	if len(args) != 1 {
		fmt.Fprintf(r.out, "%s usage: :sample N (1-%d)\n", yellow("WARN:"), len(builder.SampleInputs))
		return
	}
	n, err := strconv.Atoi(args[0])
	if err == nil {
		err = r.sess.LoadSample(n - 1)
	}
	if err != nil {
		fmt.Fprintf(r.out, "%s %v\n", yellow("WARN:"), err)
		return
	}
	r.show()
}

func (r *REPL) show() {
	input := r.sess.Input()
	fmt.Fprintf(r.out, "%s\n(%d characters)\n", input, utf8.RuneCountInString(input))
}
