package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) Frames(ctx context.Context) error {
	f.calls = append(f.calls, "frames")
	return nil
}
func (f *fakeExec) Assets(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "assets")
	f.args = append(f.args, args)
	return nil
}
func (f *fakeExec) Upload(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "upload")
	f.args = append(f.args, args)
	return nil
}
func (f *fakeExec) Export(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "export")
	f.args = append(f.args, args)
	return nil
}

func silencePrintln(t *testing.T) {
	t.Helper()
	orig := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = orig })
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"frames",
		"assets 1",
		"upload 1 photo.jpg",
		"export 1",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{loggedIn: false}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	want := []string{"login", "frames", "assets", "upload", "export"}
	if len(exec.calls) != len(want) {
		t.Fatalf("calls mismatch: got %v, want %v", exec.calls, want)
	}
	for i, c := range exec.calls {
		if c != want[i] {
			t.Fatalf("calls mismatch: got %v, want %v", exec.calls, want)
		}
	}

	wantArgs := [][]string{{"1"}, {"1", "photo.jpg"}, {"1"}}
	if len(exec.args) != len(wantArgs) {
		t.Fatalf("args mismatch: got %v, want %v", exec.args, wantArgs)
	}
	for i := range wantArgs {
		if strings.Join(exec.args[i], " ") != strings.Join(wantArgs[i], " ") {
			t.Fatalf("args mismatch: got %v, want %v", exec.args, wantArgs)
		}
	}
}

func TestRunREPL_ShortAliases(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader("f\na 2\nquit\n")
	exec := &fakeExec{loggedIn: true}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 2 || exec.calls[0] != "frames" || exec.calls[1] != "assets" {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}

func TestRunREPL_BlankLinesAndQuit(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader("\n\nquit\n")
	exec := &fakeExec{loggedIn: true}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
