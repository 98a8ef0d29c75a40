package ui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

// confirm runs one interactive approval for outputRoot with the given typed
// answer and returns the decision and everything printed.
func confirm(t *testing.T, outputRoot string, typed io.Reader) (bool, string, error) {
	t.Helper()
	var out bytes.Buffer
	a := &InteractiveApprover{input: typed, output: &out}
	ok, err := a.RequestApproval(context.Background(), outputRoot)
	return ok, out.String(), err
}

func TestInteractiveApprover_AsksForFolderBaseName(t *testing.T) {
	tests := []struct {
		outputRoot string
		want       string
	}{
		{"/home/ana/exports/Edolo_ELAR", "Edolo_ELAR"},
		{"/home/ana/exports/Edolo_ELAR/", "Edolo_ELAR"},
		{"exports/./Edolo_ELAR//", "Edolo_ELAR"},
		{"exports/Edolo_ELAR/old/..", "Edolo_ELAR"},
		{"Edolo export 2026", "Edolo export 2026"},
	}

	for _, tt := range tests {
		t.Run(tt.outputRoot, func(t *testing.T) {
			ok, printed, err := confirm(t, tt.outputRoot, strings.NewReader(tt.want+"\n"))
			if err != nil {
				t.Fatalf("RequestApproval: %v", err)
			}
			if !ok {
				t.Fatalf("typing %q should confirm %q; output:\n%s", tt.want, tt.outputRoot, printed)
			}
			if !strings.Contains(printed, "type the folder name '"+tt.want+"'") {
				t.Errorf("prompt should ask for %q, got:\n%s", tt.want, printed)
			}
			if !strings.Contains(printed, "The output folder "+tt.outputRoot+" already contains files") {
				t.Errorf("warning should show the folder as given, got:\n%s", printed)
			}
		})
	}
}

func TestInteractiveApprover_Answers(t *testing.T) {
	const root = "/home/ana/exports/Edolo_ELAR"

	tests := []struct {
		name  string
		typed string
		want  bool
	}{
		{"base name", "Edolo_ELAR\n", true},
		{"surrounding blanks", "  Edolo_ELAR \t\n", true},
		{"windows line ending", "Edolo_ELAR\r\n", true},
		{"no trailing newline", "Edolo_ELAR", true},
		{"full path", root + "\n", false},
		{"different case", "edolo_elar\n", false},
		{"parent folder", "exports\n", false},
		{"yes", "y\n", false},
		{"empty line", "\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, printed, err := confirm(t, root, strings.NewReader(tt.typed))
			if err != nil {
				t.Fatalf("RequestApproval: %v", err)
			}
			if ok != tt.want {
				t.Fatalf("approved = %v, want %v; output:\n%s", ok, tt.want, printed)
			}
			if tt.want && !strings.Contains(printed, "✓ Confirmed.") {
				t.Errorf("missing confirmation, got:\n%s", printed)
			}
			if !tt.want && !strings.Contains(printed, "Export cancelled.") {
				t.Errorf("missing cancellation notice, got:\n%s", printed)
			}
		})
	}
}

func TestInteractiveApprover_MismatchNamesBothValues(t *testing.T) {
	_, printed, _ := confirm(t, "/data/out/ETR_bundle/", strings.NewReader("/data/out/ETR_bundle\n"))

	want := "✗ Input '/data/out/ETR_bundle' does not match 'ETR_bundle'. Export cancelled."
	if !strings.Contains(printed, want) {
		t.Errorf("output should contain %q, got:\n%s", want, printed)
	}
}

func TestInteractiveApprover_WarnsThatFolderIsCleared(t *testing.T) {
	_, printed, _ := confirm(t, "/data/out/ETR_bundle", strings.NewReader("\n"))

	if !strings.Contains(printed, "deletes everything") {
		t.Errorf("output should warn that the folder is cleared, got:\n%s", printed)
	}
}

func TestInteractiveApprover_UnreadableInput(t *testing.T) {
	closed := errors.New("stdin closed")

	ok, _, err := confirm(t, "/data/out/ETR_bundle", &errorReader{err: closed})
	if ok {
		t.Fatal("unreadable input must not approve")
	}
	if !errors.Is(err, closed) {
		t.Fatalf("error should wrap the read failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "failed to read input") {
		t.Errorf("unexpected error text: %v", err)
	}
}

func TestInteractiveApprover_CancelWhileWaiting(t *testing.T) {
	reader := newBlockingReader()
	defer reader.Close()

	var out bytes.Buffer
	a := &InteractiveApprover{input: reader, output: &out}

	ctx, cancel := context.WithCancel(context.Background())
	go cancel()

	ok, err := a.RequestApproval(ctx, "/data/out/ETR_bundle")
	if ok {
		t.Fatal("cancelled prompt must not approve")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if strings.Contains(out.String(), "Confirmed") {
		t.Errorf("cancelled prompt printed a decision:\n%s", out.String())
	}
}

func TestForcedApprover(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		cancel  bool
		want    bool
		printed string
	}{
		{name: "quiet", want: true},
		{name: "verbose names folder", verbose: true, want: true, printed: "[VERBOSE] Clearing existing output folder /data/out/ETR bundle\n"},
		{name: "cancelled before start", verbose: true, cancel: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if tt.cancel {
				cancel()
			}

			var out bytes.Buffer
			a := &ForcedApprover{verbose: tt.verbose, output: &out}
			ok, err := a.RequestApproval(ctx, "/data/out/ETR bundle")

			if ok != tt.want {
				t.Errorf("approved = %v, want %v", ok, tt.want)
			}
			if tt.cancel != errors.Is(err, context.Canceled) {
				t.Errorf("err = %v, cancelled = %v", err, tt.cancel)
			}
			if out.String() != tt.printed {
				t.Errorf("output = %q, want %q", out.String(), tt.printed)
			}
		})
	}
}

func TestConstructorsUseConsoleStreams(t *testing.T) {
	if a, ok := NewForcedApprover(true).(*ForcedApprover); !ok || !a.verbose || a.output == nil {
		t.Errorf("NewForcedApprover(true) = %#v", a)
	}
	if a, ok := NewInteractiveApprover(false).(*InteractiveApprover); !ok || a.verbose || a.input == nil || a.output == nil {
		t.Errorf("NewInteractiveApprover(false) = %#v", a)
	}
}

type errorReader struct {
	err error
}

func (r *errorReader) Read([]byte) (int, error) {
	return 0, r.err
}

// blockingReader never yields data until closed.
type blockingReader struct {
	done chan struct{}
}

func newBlockingReader() *blockingReader {
	return &blockingReader{done: make(chan struct{})}
}

func (r *blockingReader) Read([]byte) (int, error) {
	<-r.done
	return 0, io.EOF
}

func (r *blockingReader) Close() error {
	select {
	case <-r.done:
	default:
		close(r.done)
	}
	return nil
}
