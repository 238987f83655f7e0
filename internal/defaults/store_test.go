package defaults

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/kickingvegas/clocktalk/internal/prefs"
	"github.com/kickingvegas/clocktalk/internal/render"
)

// fakeRunner records calls and, for imports, snapshots the file it was given.
type fakeRunner struct {
	code   int
	err    error
	output string

	name     string
	args     []string
	imported []byte
	existed  bool
}

func (f *fakeRunner) Run(_ context.Context, name string, args []string, stdout, _ io.Writer) (int, error) {
	f.name = name
	f.args = append([]string(nil), args...)
	if len(args) == 3 && args[0] == "import" {
		b, err := os.ReadFile(args[2])
		f.existed = err == nil
		f.imported = b
	}
	_, _ = io.WriteString(stdout, f.output)
	return f.code, f.err
}

func sampleDoc(t *testing.T) prefs.Document {
	t.Helper()
	doc, err := prefs.Build(prefs.Settings{Enabled: true, Period: prefs.QuarterHour, Volume: 0.75})
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func tempFiles(t *testing.T, dir string) []string {
	t.Helper()
	m, err := filepath.Glob(filepath.Join(dir, "clocktalk_*.plist"))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestReadPassesThroughOutput(t *testing.T) {
	t.Parallel()
	r := &fakeRunner{output: "{ TimeAnnouncementPrefs = {}; }\n"}
	var out bytes.Buffer
	s := &Store{Domain: prefs.Domain, Runner: r, Stdout: &out}

	if err := s.Read(context.Background()); err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if r.name != DefaultCommand {
		t.Fatalf("command = %q, want %q", r.name, DefaultCommand)
	}
	if len(r.args) != 2 || r.args[0] != "read" || r.args[1] != prefs.Domain {
		t.Fatalf("args = %v", r.args)
	}
	if out.String() != r.output {
		t.Fatalf("stdout = %q", out.String())
	}
}

func TestReadFailureCarriesExitCode(t *testing.T) {
	t.Parallel()
	s := &Store{Command: "/opt/defaults", Domain: prefs.Domain, Runner: &fakeRunner{code: 4}}
	err := s.Read(context.Background())
	var ce *CommandError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want CommandError", err)
	}
	if ce.ExitCode != 4 || ce.Args[0] != "/opt/defaults" {
		t.Fatalf("CommandError = %+v", ce)
	}
}

func TestImportWritesPlistAndCleansUp(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	r := &fakeRunner{}
	s := &Store{Domain: prefs.Domain, Runner: r, TempDir: dir}
	doc := sampleDoc(t)

	if err := s.Import(context.Background(), doc, ImportOptions{}); err != nil {
		t.Fatalf("Import error: %v", err)
	}
	if len(r.args) != 3 || r.args[0] != "import" || r.args[1] != prefs.Domain {
		t.Fatalf("args = %v", r.args)
	}
	if !r.existed {
		t.Fatal("temp plist did not exist while defaults ran")
	}
	var got prefs.Document
	if err := render.Unmarshal(r.imported, &got); err != nil {
		t.Fatalf("imported file is not a plist: %v", err)
	}
	if got != doc {
		t.Fatalf("imported = %+v, want %+v", got, doc)
	}
	if left := tempFiles(t, dir); len(left) != 0 {
		t.Fatalf("temp files left behind: %v", left)
	}
}

func TestImportFailureStillCleansUp(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	keep := filepath.Join(t.TempDir(), "temp.plist")
	r := &fakeRunner{code: 1}
	s := &Store{Domain: prefs.Domain, Runner: r, TempDir: dir}

	err := s.Import(context.Background(), sampleDoc(t), ImportOptions{KeepCopy: keep})
	var ce *CommandError
	if !errors.As(err, &ce) || ce.ExitCode != 1 {
		t.Fatalf("err = %v, want CommandError with exit 1", err)
	}
	if left := tempFiles(t, dir); len(left) != 0 {
		t.Fatalf("temp files left behind after failure: %v", left)
	}
	if _, err := os.Stat(keep); !os.IsNotExist(err) {
		t.Fatalf("debug copy written for a failed import: %v", err)
	}
}

func TestImportKeepsCopyOnSuccess(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	keep := filepath.Join(t.TempDir(), "temp.plist")
	r := &fakeRunner{}
	s := &Store{Domain: prefs.Domain, Runner: r, TempDir: dir}

	if err := s.Import(context.Background(), sampleDoc(t), ImportOptions{KeepCopy: keep}); err != nil {
		t.Fatalf("Import error: %v", err)
	}
	b, err := os.ReadFile(keep)
	if err != nil {
		t.Fatalf("debug copy missing: %v", err)
	}
	if !bytes.Equal(b, r.imported) {
		t.Fatal("debug copy differs from imported file")
	}
	if left := tempFiles(t, dir); len(left) != 0 {
		t.Fatalf("temp files left behind: %v", left)
	}
}

func TestImportRunnerErrorCleansUp(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	boom := errors.New("exec: not found")
	s := &Store{Domain: prefs.Domain, Runner: &fakeRunner{code: -1, err: boom}, TempDir: dir}

	err := s.Import(context.Background(), sampleDoc(t), ImportOptions{})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
	if left := tempFiles(t, dir); len(left) != 0 {
		t.Fatalf("temp files left behind: %v", left)
	}
}
