package commands_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tarefa/internal/commands"
	"tarefa/internal/config"
	"tarefa/internal/exitcode"
	"tarefa/internal/logging"
	"tarefa/internal/service"
	"tarefa/internal/task"
	"tarefa/internal/testutil"
	"tarefa/internal/tui"
)

// newEnv builds a command environment over svc. svc may be nil.
func newEnv(t *testing.T, svc *testutil.FakeService, quiet bool) (*commands.Env, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer
	env := &commands.Env{
		Config: &config.Config{Dir: t.TempDir(), Quiet: quiet},
		Logger: logging.Discard(),
		Out:    &outBuf,
		ErrOut: &errBuf,
	}
	if svc != nil {
		env.Tasks = svc
	}
	return env, &outBuf, &errBuf
}

// runCommand is a helper to run a command with FakeService.
func runCommand(t *testing.T, cmd commands.Command, svc *testutil.FakeService, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	env, outBuf, errBuf := newEnv(t, svc, quiet)
	code = cmd.Run(context.Background(), env, args)
	return outBuf.String(), errBuf.String(), code
}

func texts(tasks []task.Task) []string {
	result := make([]string, len(tasks))
	for i, t := range tasks {
		result[i] = t.Text
	}
	return result
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.VersionCmd{}, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "tarefa 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.HelpCmd{}, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "help", stdout)
}

// Tests for list command
func TestListCommand_WithTasks(t *testing.T) {
	svc := testutil.NewFakeService("Buy milk", "Call mom")

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	expected := "   1  Buy milk\n   2  Call mom\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
	if svc.LoadCalls != 1 {
		t.Errorf("expected 1 Load call, got %d", svc.LoadCalls)
	}
}

func TestListCommand_WithKeys(t *testing.T) {
	svc := testutil.NewFakeService("Buy milk")

	cmd := &commands.ListCmd{}
	cmd.SetKeys(true)
	stdout, _, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "   1  Buy milk  [k1]\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_Empty(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, testutil.NewFakeService(), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "no tasks found\n" {
		t.Errorf("expected %q, got %q", "no tasks found\n", stdout)
	}
}

func TestListCommand_EmptyQuiet(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, testutil.NewFakeService(), nil, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "" {
		t.Errorf("expected empty stdout in quiet mode, got %q", stdout)
	}
}

func TestListCommand_UnreadableStorage(t *testing.T) {
	svc := testutil.NewFakeService("Buy milk")
	svc.LoadErr = errors.New("invalid character 'x'")

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	// Reading falls back to the empty list.
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "no tasks found\n" {
		t.Errorf("expected %q, got %q", "no tasks found\n", stdout)
	}
	if !strings.HasPrefix(stderr, "warning: stored tasks unreadable:") {
		t.Errorf("expected warning, got %q", stderr)
	}
}

func TestListCommand_UnexpectedArgument(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ListCmd{}, testutil.NewFakeService(), []string{"Shopping"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unexpected argument: Shopping\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for add command
func TestAddCommand(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"Buy", "milk"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected %q, got %q", "ok\n", stdout)
	}
	if got := texts(svc.Tasks()); !equalStrings(got, []string{"Buy milk"}) {
		t.Errorf("unexpected tasks %v", got)
	}
}

func TestAddCommand_AppendsInOrder(t *testing.T) {
	svc := testutil.NewFakeService("first")

	for _, text := range []string{"second", "third"} {
		if _, _, code := runCommand(t, &commands.CreateCmd{}, svc, []string{text}, true); code != exitcode.Success {
			t.Fatalf("add %q: exit code %d", text, code)
		}
	}

	if got := texts(svc.Tasks()); !equalStrings(got, []string{"first", "second", "third"}) {
		t.Errorf("unexpected order %v", got)
	}
}

func TestAddCommand_TextRequired(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no args", nil},
		{"blank", []string{"   "}},
		{"tabs", []string{"\t", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := testutil.NewFakeService()
			stdout, stderr, code := runCommand(t, &commands.AddCmd{}, svc, tt.args, false)

			if code != exitcode.UserError {
				t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
			}
			if stdout != "" {
				t.Errorf("expected no stdout, got %q", stdout)
			}
			if stderr != "error: task text required\n" {
				t.Errorf("unexpected stderr %q", stderr)
			}
			if len(svc.Tasks()) != 0 {
				t.Error("blank input must not add a task")
			}
		})
	}
}

func TestAddCommand_RefusesUnreadableStorage(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.LoadErr = errors.New("unexpected end of JSON input")

	_, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"Buy milk"}, false)

	if code != exitcode.StorageError {
		t.Errorf("expected exit code %d, got %d", exitcode.StorageError, code)
	}
	if !strings.HasPrefix(stderr, "error: stored tasks unreadable:") {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if len(svc.Tasks()) != 0 {
		t.Error("task must not be added over an unreadable list")
	}
}

func TestAddCommand_WriteFailure(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddErr = errors.New("disk full")

	_, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"Buy milk"}, false)

	if code != exitcode.StorageError {
		t.Errorf("expected exit code %d, got %d", exitcode.StorageError, code)
	}
	if !strings.Contains(stderr, "error: storage error:") || !strings.Contains(stderr, "disk full") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for rm command
func TestRmCommand_ByNumber(t *testing.T) {
	svc := testutil.NewFakeService("A", "B", "C")

	stdout, stderr, code := runCommand(t, &commands.RmCmd{}, svc, []string{"2"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected %q, got %q", "ok\n", stdout)
	}
	if got := texts(svc.Tasks()); !equalStrings(got, []string{"A", "C"}) {
		t.Errorf("unexpected tasks %v", got)
	}
}

func TestRmCommand_ByKey(t *testing.T) {
	svc := testutil.NewFakeService("A", "B")

	cmd := &commands.RmCmd{}
	cmd.SetKey("k1")
	_, _, code := runCommand(t, cmd, svc, nil, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if got := texts(svc.Tasks()); !equalStrings(got, []string{"B"}) {
		t.Errorf("unexpected tasks %v", got)
	}
}

func TestRmCommand_SharedKeyRemovesAll(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", "Buy milk")
	svc.AddTask("Buy milk", "Buy milk")
	svc.AddTask("Call mom", "Call mom")

	stdout, _, code := runCommand(t, &commands.RmCmd{}, svc, []string{"1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok (2 tasks removed)\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	if got := texts(svc.Tasks()); !equalStrings(got, []string{"Call mom"}) {
		t.Errorf("unexpected tasks %v", got)
	}
}

func TestRmCommand_KeyNotFound(t *testing.T) {
	svc := testutil.NewFakeService("A")

	cmd := &commands.RmCmd{}
	cmd.SetKey("missing")
	_, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task not found\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if len(svc.Tasks()) != 1 {
		t.Error("list must be unchanged")
	}
}

func TestRmCommand_Errors(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		args     []string
		expected string
	}{
		{"no reference", "", nil, "error: task reference required\n"},
		{"invalid reference", "", []string{"a1"}, "error: invalid task reference: a1\n"},
		{"out of range", "", []string{"5"}, "error: task number out of range: 5\n"},
		{"zero", "", []string{"0"}, "error: task number out of range: 0\n"},
		{"key and number", "k1", []string{"1"}, "error: cannot use both --key and a task number\n"},
		{"blank key", "  ", nil, "error: task reference required\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := testutil.NewFakeService("A")
			cmd := &commands.RmCmd{}
			cmd.SetKey(tt.key)

			_, stderr, code := runCommand(t, cmd, svc, tt.args, false)

			if code != exitcode.UserError {
				t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
			}
			if stderr != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, stderr)
			}
			if len(svc.Tasks()) != 1 {
				t.Error("list must be unchanged")
			}
		})
	}
}

func TestRmCommand_WriteFailure(t *testing.T) {
	svc := testutil.NewFakeService("A")
	svc.DeleteErr = errors.New("read-only file system")

	_, stderr, code := runCommand(t, &commands.RmCmd{}, svc, []string{"1"}, false)

	if code != exitcode.StorageError {
		t.Errorf("expected exit code %d, got %d", exitcode.StorageError, code)
	}
	if !strings.HasPrefix(stderr, "error: storage error:") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for export command
func TestExportCommand_JSONToStdout(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", "Buy milk")

	stdout, stderr, code := runCommand(t, &commands.ExportCmd{}, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	expected := `[{"key":"Buy milk","text":"Buy milk"}]` + "\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestExportCommand_PDFToFile(t *testing.T) {
	svc := testutil.NewFakeService("Buy milk", "Call mom")
	path := filepath.Join(t.TempDir(), "out", "tasks.pdf")

	cmd := &commands.ExportCmd{}
	cmd.SetNow(func() time.Time { return time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC) })

	env, outBuf, errBuf := newEnv(t, svc, false)
	code := runWithFlags(t, cmd, env, []string{"--format", "pdf", "--output", path})

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, errBuf.String())
	}
	expected := fmt.Sprintf("ok (2 tasks written to %s)\n", path)
	if outBuf.String() != expected {
		t.Errorf("expected %q, got %q", expected, outBuf.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("expected a PDF file")
	}
}

func TestExportCommand_UnknownFormat(t *testing.T) {
	env, _, errBuf := newEnv(t, testutil.NewFakeService(), false)
	code := runWithFlags(t, &commands.ExportCmd{}, env, []string{"--format", "csv"})

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if errBuf.String() != "error: unknown export format: csv\n" {
		t.Errorf("unexpected stderr %q", errBuf.String())
	}
}

// runWithFlags parses command flags the way the dispatcher does, then runs.
func runWithFlags(t *testing.T, cmd commands.Command, env *commands.Env, args []string) int {
	t.Helper()
	fs := newFlagSet(cmd)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return cmd.Run(context.Background(), env, fs.Args())
}

// Tests for import command
func remoteFactory(r service.Remote, err error) commands.RemoteFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Remote, error) {
		return r, err
	}
}

func TestImportCommand(t *testing.T) {
	svc := testutil.NewFakeService("local")
	env, outBuf, errBuf := newEnv(t, svc, false)
	env.Remote = remoteFactory(&testutil.FakeRemote{Items: []service.RemoteTask{
		{ID: "1", Title: "Buy milk", Status: "needsAction"},
		{ID: "2", Title: "  ", Status: "needsAction"},
		{ID: "3", Title: "Call mom", Status: "needsAction"},
	}}, nil)

	code := (&commands.ImportCmd{}).Run(context.Background(), env, nil)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, errBuf.String())
	}
	if outBuf.String() != "ok (2 tasks imported)\n" {
		t.Errorf("unexpected stdout %q", outBuf.String())
	}
	if got := texts(svc.Tasks()); !equalStrings(got, []string{"local", "Buy milk", "Call mom"}) {
		t.Errorf("unexpected tasks %v", got)
	}
}

func TestImportCommand_Errors(t *testing.T) {
	tests := []struct {
		name     string
		factory  commands.RemoteFactory
		loadErr  error
		code     int
		contains string
	}{
		{
			name:     "not available",
			factory:  nil,
			code:     exitcode.BackendError,
			contains: "error: import is not available",
		},
		{
			name:     "not logged in",
			factory:  remoteFactory(nil, fmt.Errorf("%w: not logged in (run: tarefa login)", service.ErrAuth)),
			code:     exitcode.AuthError,
			contains: "tarefa login",
		},
		{
			name:     "remote failure",
			factory:  remoteFactory(&testutil.FakeRemote{Err: errors.New("request timed out")}, nil),
			code:     exitcode.BackendError,
			contains: "error: backend error: request timed out",
		},
		{
			name:     "unreadable storage",
			factory:  remoteFactory(&testutil.FakeRemote{}, nil),
			loadErr:  errors.New("bad json"),
			code:     exitcode.StorageError,
			contains: "error: stored tasks unreadable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := testutil.NewFakeService()
			svc.LoadErr = tt.loadErr
			env, _, errBuf := newEnv(t, svc, false)
			env.Remote = tt.factory

			code := (&commands.ImportCmd{}).Run(context.Background(), env, nil)

			if code != tt.code {
				t.Errorf("expected exit code %d, got %d", tt.code, code)
			}
			if !strings.Contains(errBuf.String(), tt.contains) {
				t.Errorf("expected stderr to contain %q, got %q", tt.contains, errBuf.String())
			}
		})
	}
}

// Tests for ui command
func TestUICommand(t *testing.T) {
	svc := testutil.NewFakeService("Buy milk")

	var ran bool
	cmd := &commands.UICmd{}
	cmd.SetRunner(func(ctx context.Context, m tui.Model, out io.Writer) error {
		ran = true
		return nil
	})

	_, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !ran {
		t.Error("expected the program to run")
	}
}

func TestUICommand_RunError(t *testing.T) {
	cmd := &commands.UICmd{}
	cmd.SetRunner(func(ctx context.Context, m tui.Model, out io.Writer) error {
		return errors.New("could not open a new TTY")
	})

	_, stderr, code := runCommand(t, cmd, testutil.NewFakeService(), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: could not open a new TTY\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for registry
func TestRegistry_DuplicateName(t *testing.T) {
	r := commands.NewRegistry()
	if err := r.Register(&commands.ListCmd{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(&commands.ListCmd{}); err == nil {
		t.Error("expected error for duplicate command")
	}
}

func TestRegistry_FindByAlias(t *testing.T) {
	cmd, ok := commands.DefaultRegistry.Find("ls")
	if !ok {
		t.Fatal("expected ls alias to be registered")
	}
	if cmd.Name() != "list" {
		t.Errorf("expected list, got %s", cmd.Name())
	}
}

func TestRegistry_AllSorted(t *testing.T) {
	var names []string
	for _, cmd := range commands.DefaultRegistry.All() {
		names = append(names, cmd.Name())
	}
	expected := []string{"add", "create", "export", "help", "import", "list", "login", "logout", "rm", "ui", "version"}
	if !equalStrings(names, expected) {
		t.Errorf("expected %v, got %v", expected, names)
	}
}

func TestExportCommand_JSONGolden(t *testing.T) {
	svc := testutil.NewFakeService("Buy milk", "Call mom", "Café")

	stdout, _, code := runCommand(t, &commands.ExportCmd{}, svc, nil, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	testutil.GoldenString(t, "export_json", stdout)
}

func TestExportCommand_YAMLAlias(t *testing.T) {
	env, outBuf, errBuf := newEnv(t, testutil.NewFakeService("Buy milk"), false)
	code := runWithFlags(t, &commands.ExportCmd{}, env, []string{"-f", "yml"})

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, errBuf.String())
	}
	expected := "- key: k1\n  text: Buy milk\n"
	if outBuf.String() != expected {
		t.Errorf("expected %q, got %q", expected, outBuf.String())
	}
}

func TestRegistry_AliasConflict(t *testing.T) {
	r := commands.NewRegistry()
	if err := r.Register(&commands.RmCmd{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := r.Register(&aliasCmd{HelpCmd: commands.HelpCmd{}, alias: "delete"})
	if err == nil || err.Error() != "command alias already registered: delete" {
		t.Errorf("unexpected error %v", err)
	}
	if _, ok := r.Find("help"); ok {
		t.Error("a rejected command must not be partially registered")
	}
}

func TestRegistry_FindIgnoresCase(t *testing.T) {
	cmd, ok := commands.DefaultRegistry.Find("LIST")
	if !ok || cmd.Name() != "list" {
		t.Errorf("expected list, got %v", cmd)
	}
}

// aliasCmd is a help command with an extra alias.
type aliasCmd struct {
	commands.HelpCmd
	alias string
}

func (c *aliasCmd) Aliases() []string { return []string{c.alias} }
