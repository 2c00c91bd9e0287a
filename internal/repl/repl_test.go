package repl

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/Sla0ui/phishguard/internal/builder"
	"github.com/Sla0ui/phishguard/internal/models"
	"github.com/Sla0ui/phishguard/internal/session"
)

type stubAnalyzer struct {
	requests []string
	err      error
}

func (a *stubAnalyzer) Analyze(ctx context.Context, req *models.AnalysisRequest) (*models.AnalysisResult, error) {
	a.requests = append(a.requests, req.RawInput)
	if a.err != nil {
		return nil, a.err
	}
	result, _, err := models.DecodeResult([]byte(`{"risk_level":"HIGH","final_score":87,"action":"BLOCK_CLICK","attack_type":"Phishing","top_reasons":[{"reason":"Shortened URL","evidence":"bit.ly","source":"heuristic"}]}`))
	return result, err
}

type memClipboard struct {
	mu   sync.Mutex
	text string
}

func (c *memClipboard) WriteAll(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
	return nil
}

func newREPL(analyzer session.Analyzer, clip session.Clipboard, jsonOutput bool) (*REPL, *session.Session, *bytes.Buffer) {
	sess := session.New(analyzer, session.Options{Clipboard: clip})
	var out bytes.Buffer
	return New(sess, strings.NewReader(""), &out, jsonOutput), sess, &out
}

func TestHandleBuildsMultiLineInput(t *testing.T) {
	analyzer := &stubAnalyzer{}
	r, sess, out := newREPL(analyzer, &memClipboard{}, false)
	defer sess.Close()
	ctx := context.Background()

	r.Handle(ctx, "Dear customer,")
	r.Handle(ctx, "verify at https://bit.ly/3abcXYZ")
	if got := sess.Input(); got != "Dear customer,\nverify at https://bit.ly/3abcXYZ" {
		t.Fatalf("input = %q", got)
	}

	r.Handle(ctx, ":send")
	if len(analyzer.requests) != 1 || analyzer.requests[0] != sess.Input() {
		t.Fatalf("requests = %q", analyzer.requests)
	}
	if sess.Phase().Kind() != session.Succeeded {
		t.Fatalf("phase = %v", sess.Phase())
	}
	if !strings.Contains(out.String(), "Shortened URL") {
		t.Errorf("verdict was not rendered:\n%s", out.String())
	}
}

func TestHandleSendBlank(t *testing.T) {
	analyzer := &stubAnalyzer{}
	r, sess, out := newREPL(analyzer, &memClipboard{}, false)
	defer sess.Close()

	r.Handle(context.Background(), ":send")
	if len(analyzer.requests) != 0 {
		t.Error("blank input must not be sent")
	}
	if !strings.Contains(out.String(), "nothing to analyze") {
		t.Errorf("output = %q", out.String())
	}
}

func TestHandleSendFailure(t *testing.T) {
	analyzer := &stubAnalyzer{err: errors.New("dial tcp: connection refused")}
	r, sess, out := newREPL(analyzer, &memClipboard{}, false)
	defer sess.Close()
	ctx := context.Background()

	r.Handle(ctx, "hello")
	r.Handle(ctx, ":send")
	if !strings.Contains(out.String(), session.GenericFailureMessage) {
		t.Errorf("generic failure not shown:\n%s", out.String())
	}
	if strings.Contains(out.String(), "connection refused") {
		t.Error("transport error leaked to the user")
	}
}

func TestHandleJSONOutputAndCopy(t *testing.T) {
	clip := &memClipboard{}
	r, sess, out := newREPL(&stubAnalyzer{}, clip, true)
	defer sess.Close()
	ctx := context.Background()

	r.Handle(ctx, ":copy")
	if !strings.Contains(out.String(), "no verdict") {
		t.Errorf("copy without verdict output = %q", out.String())
	}

	r.Handle(ctx, "https://bit.ly/3abcXYZ")
	r.Handle(ctx, ":send")
	if !strings.Contains(out.String(), `"risk_level": "HIGH"`) {
		t.Errorf("JSON verdict not printed:\n%s", out.String())
	}

	r.Handle(ctx, ":copy")
	want, _ := sess.LastResult().Canonical()
	if clip.text != string(want) {
		t.Errorf("clipboard = %q, want %q", clip.text, want)
	}
	if !sess.Snapshot().CopyFeedbackActive {
		t.Error("copy feedback should be active")
	}
}

func TestHandleSamplesAndClear(t *testing.T) {
	r, sess, out := newREPL(&stubAnalyzer{}, &memClipboard{}, false)
	defer sess.Close()
	ctx := context.Background()

	r.Handle(ctx, ":sample 2")
	if sess.Input() != builder.SampleInputs[1] {
		t.Errorf("input = %q, want sample 2", sess.Input())
	}

	for _, bad := range []string{":sample", ":sample zero", ":sample 99"} {
		out.Reset()
		r.Handle(ctx, bad)
		if !strings.Contains(out.String(), "WARN:") {
			t.Errorf("%s: expected a warning, got %q", bad, out.String())
		}
	}

	r.Handle(ctx, ":clear")
	if sess.Input() != "" {
		t.Errorf("input after :clear = %q", sess.Input())
	}

	out.Reset()
	r.Handle(ctx, ":samples")
	if strings.Count(out.String(), "\n") != len(builder.SampleInputs) {
		t.Errorf(":samples output = %q", out.String())
	}
}

func TestHandleQuitAndUnknown(t *testing.T) {
	r, sess, out := newREPL(&stubAnalyzer{}, &memClipboard{}, false)
	defer sess.Close()
	ctx := context.Background()

	if r.Handle(ctx, ":bogus") {
		t.Error(":bogus should not quit")
	}
	if !strings.Contains(out.String(), "unknown command") {
		t.Errorf("output = %q", out.String())
	}
	if !r.Handle(ctx, "  :quit ") {
		t.Error(":quit should quit")
	}
}

func TestHandleColonText(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{":) click here to claim", ":) click here to claim"},
		{": see below", ": see below"},
		{":10am deadline", ":10am deadline"},
		{"::send money now", ":send money now"},
		{"  ::quit", "  :quit"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			analyzer := &stubAnalyzer{}
			r, sess, out := newREPL(analyzer, &memClipboard{}, false)
			defer sess.Close()

			if r.Handle(context.Background(), tt.line) {
				t.Fatal("text line must not quit")
			}
			if sess.Input() != tt.want {
				t.Errorf("input = %q, want %q", sess.Input(), tt.want)
			}
			if len(analyzer.requests) != 0 {
				t.Errorf("text line triggered a request: %q", analyzer.requests)
			}
			if strings.Contains(out.String(), "WARN:") {
				t.Errorf("unexpected warning: %q", out.String())
			}
		})
	}
}

func TestHandleCopyAfterFailedSend(t *testing.T) {
	analyzer := &stubAnalyzer{}
	clip := &memClipboard{}
	r, sess, out := newREPL(analyzer, clip, false)
	defer sess.Close()
	ctx := context.Background()

	r.Handle(ctx, "first sample")
	r.Handle(ctx, ":send")
	if sess.LastResult() == nil {
		t.Fatal("expected a verdict for the first sample")
	}

	analyzer.err = errors.New("connection reset")
	r.Handle(ctx, ":clear")
	r.Handle(ctx, "second sample")
	r.Handle(ctx, ":send")

	out.Reset()
	r.Handle(ctx, ":copy")
	if clip.text != "" {
		t.Errorf("copied a verdict that belongs to another sample: %q", clip.text)
	}
	if !strings.Contains(out.String(), "no verdict") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRun(t *testing.T) {
	analyzer := &stubAnalyzer{}
	sess := session.New(analyzer, session.Options{Clipboard: &memClipboard{}})
	defer sess.Close()
	var out bytes.Buffer

	in := strings.NewReader("https://bit.ly/3abcXYZ\n:send\n:quit\nnever read\n")
	if err := New(sess, in, &out, false).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(analyzer.requests) != 1 {
		t.Errorf("requests = %q", analyzer.requests)
	}
	if strings.Contains(sess.Input(), "never read") {
		t.Error("lines after :quit were processed")
	}

	// End of input also stops the loop.
	if err := New(sess, strings.NewReader("more text\n"), &out, false).Run(context.Background()); err != nil {
		t.Fatalf("Run at EOF: %v", err)
	}
}
