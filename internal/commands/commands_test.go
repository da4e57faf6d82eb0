package commands_test

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tasker/internal/commands"
	"tasker/internal/config"
	"tasker/internal/exitcode"
	"tasker/internal/manager"
	"tasker/internal/service"
	"tasker/internal/task"
	"tasker/internal/testutil"
)

func newManager(t *testing.T) *manager.Manager {
	t.Helper()
	mgr, err := manager.New(t.TempDir())
	if err != nil {
		t.Fatalf("manager.New: %v", err)
	}
	return mgr
}

func seed(mgr *manager.Manager) {
	mgr.AddNew(task.KindPrioritized, "Write report",
		task.WithDescription("Quarterly finances"),
		task.WithDueString("2025-05-15"),
		task.WithField("High"),
		task.WithExtra("category", task.Text("Finance")),
	)
	plants := mgr.AddNew(task.KindRecurring, "Water plants",
		task.WithDueString("2025-05-01"),
		task.WithField("weekly"),
	)
	plants.ToggleDone()
	mgr.AddNew(task.KindPlain, "Call mom")
}

// runCommand parses args with the command's flags and runs it.
func runCommand(t *testing.T, cmd commands.Command, mgr *manager.Manager, svc service.Service, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()
	return runWithConfig(t, cmd, &config.Config{Dir: t.TempDir(), Quiet: quiet}, mgr, svc, args)
}

func runWithConfig(t *testing.T, cmd commands.Command, cfg *config.Config, mgr *manager.Manager, svc service.Service, args []string) (stdout, stderr string, code int) {
	t.Helper()

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags %q: %v", args, err)
	}

	var outBuf, errBuf bytes.Buffer
	code = cmd.Run(context.Background(), cfg, mgr, svc, fs.Args(), &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func expectCode(t *testing.T, got, want int, stderr string) {
	t.Helper()
	if got != want {
		t.Errorf("expected exit code %d, got %d (stderr %q)", want, got, stderr)
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.VersionCmd{}, nil, nil, nil, false)

	expectCode(t, code, exitcode.Success, stderr)
	if stdout != "tasker 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

func TestHelpCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.HelpCmd{}, nil, nil, nil, false)

	expectCode(t, code, exitcode.Success, stderr)
	if !strings.Contains(stdout, "Usage:") {
		t.Error("help output should contain 'Usage:'")
	}
	for _, name := range []string{"add", "edit", "toggle", "export", "import", "push", "pull"} {
		if !strings.Contains(stdout, "tasker "+name) {
			t.Errorf("help output should mention %s", name)
		}
	}
}

func TestListCommand(t *testing.T) {
	mgr := newManager(t)
	seed(mgr)

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, mgr, nil, nil, false)

	expectCode(t, code, exitcode.Success, stderr)
	testutil.GoldenString(t, "list", stdout)
}

func TestListCommand_Sorted(t *testing.T) {
	mgr := newManager(t)
	seed(mgr)

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, mgr, nil, []string{"--sorted"}, false)

	expectCode(t, code, exitcode.Success, stderr)
	testutil.GoldenString(t, "list_sorted", stdout)
}

func TestListCommand_Empty(t *testing.T) {
	for _, args := range [][]string{nil, {"--sorted"}} {
		stdout, stderr, code := runCommand(t, &commands.ListCmd{}, newManager(t), nil, args, false)

		expectCode(t, code, exitcode.Success, stderr)
		if stdout != "no tasks\n" {
			t.Errorf("expected 'no tasks', got %q", stdout)
		}
	}
}

func TestListCommand_UnexpectedArg(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ListCmd{}, newManager(t), nil, []string{"Work"}, false)

	expectCode(t, code, exitcode.UserError, stderr)
	if stderr != "error: unexpected argument: Work\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestAddCommand_Plain(t *testing.T) {
	mgr := newManager(t)

	args := []string{"--desc", "two litres", "--due", "15-05-2025", "--set", "store=corner", "--set", "urgent=True", "Buy", "milk"}
	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, mgr, nil, args, false)

	expectCode(t, code, exitcode.Success, stderr)
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}

	got, ok := mgr.At(1)
	if !ok {
		t.Fatal("expected a task")
	}
	want := "Title: Buy milk | Description: two litres | Due: 2025-05-15 | Done: Not done | Extra: store=corner, urgent=True"
	if got.String() != want {
		t.Errorf("expected %q, got %q", want, got.String())
	}
	if v, _ := got.Extras.Get("urgent"); !v.IsBool() {
		t.Error("urgent should be stored as a boolean")
	}
}

func TestAddCommand_Kinds(t *testing.T) {
	mgr := newManager(t)

	runCommand(t, &commands.AddCmd{}, mgr, nil, []string{"--priority", "High", "Write report"}, true)
	runCommand(t, &commands.AddCmd{}, mgr, nil, []string{"--recurrence", "weekly", "Water plants"}, true)

	tasks := mgr.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].Kind() != task.KindPrioritized || tasks[0].Field() != "High" {
		t.Errorf("unexpected first task %s", tasks[0])
	}
	if tasks[1].Kind() != task.KindRecurring || tasks[1].Field() != "weekly" {
		t.Errorf("unexpected second task %s", tasks[1])
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, newManager(t), nil, []string{"Buy milk"}, true)

	expectCode(t, code, exitcode.Success, stderr)
	if stdout != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", stdout)
	}
}

func TestAddCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no title", nil, "error: title required\n"},
		{"blank title", []string{"  "}, "error: title required\n"},
		{"both kinds", []string{"--priority", "High", "--recurrence", "daily", "x"}, "error: cannot use both --priority and --recurrence\n"},
		{"delimiter in title", []string{"a;b"}, "error: title must not contain ';' or line breaks\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr := newManager(t)
			_, stderr, code := runCommand(t, &commands.AddCmd{}, mgr, nil, tt.args, false)

			expectCode(t, code, exitcode.UserError, stderr)
			if stderr != tt.want {
				t.Errorf("expected %q, got %q", tt.want, stderr)
			}
			if mgr.Len() != 0 {
				t.Error("no task should be added on error")
			}
		})
	}
}

func TestDoneCommand(t *testing.T) {
	mgr := newManager(t)
	seed(mgr)

	stdout, stderr, code := runCommand(t, &commands.DoneCmd{}, mgr, nil, []string{"1"}, false)
	expectCode(t, code, exitcode.Success, stderr)
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}

	_, stderr, code = runCommand(t, &commands.DoneCmd{}, mgr, nil, []string{"Call", "mom"}, true)
	expectCode(t, code, exitcode.Success, stderr)

	for _, tk := range mgr.Tasks() {
		if !tk.Done {
			t.Errorf("expected %q done", tk.Title)
		}
	}
}

func TestDoneCommand_DigitTitle(t *testing.T) {
	mgr := newManager(t)
	mgr.AddNew(task.KindPlain, "Call mom")
	mgr.AddNew(task.KindPlain, "2025")

	_, stderr, code := runCommand(t, &commands.DoneCmd{}, mgr, nil, []string{"title:2025"}, true)
	expectCode(t, code, exitcode.Success, stderr)

	first, _ := mgr.At(1)
	second, _ := mgr.At(2)
	if first.Done || !second.Done {
		t.Errorf("expected only the task titled 2025 done, got %v and %v", first.Done, second.Done)
	}
}

func TestDoneCommand_BadRefs(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, "error: task reference required\n"},
		{[]string{"4"}, "error: task number out of range: 4\n"},
		{[]string{"0"}, "error: task number out of range: 0\n"},
		{[]string{"Walk", "dog"}, "error: task not found: Walk dog\n"},
	}
	for _, tt := range tests {
		mgr := newManager(t)
		seed(mgr)

		_, stderr, code := runCommand(t, &commands.DoneCmd{}, mgr, nil, tt.args, false)
		expectCode(t, code, exitcode.UserError, stderr)
		if stderr != tt.want {
			t.Errorf("args %q: expected %q, got %q", tt.args, tt.want, stderr)
		}
	}
}

func TestToggleCommand(t *testing.T) {
	mgr := newManager(t)
	seed(mgr)

	stdout, _, _ := runCommand(t, &commands.ToggleCmd{}, mgr, nil, []string{"Water plants"}, false)
	if stdout != "not done\n" {
		t.Errorf("expected 'not done', got %q", stdout)
	}
	stdout, _, _ = runCommand(t, &commands.ToggleCmd{}, mgr, nil, []string{"2"}, false)
	if stdout != "done\n" {
		t.Errorf("expected 'done', got %q", stdout)
	}
}

func TestRmCommand_FirstMatch(t *testing.T) {
	mgr := newManager(t)
	first := mgr.AddNew(task.KindPlain, "dup", task.WithDescription("first"))
	second := mgr.AddNew(task.KindPlain, "dup", task.WithDescription("second"))

	_, stderr, code := runCommand(t, &commands.RmCmd{}, mgr, nil, []string{"dup"}, true)

	expectCode(t, code, exitcode.Success, stderr)
	if mgr.Contains(first) || !mgr.Contains(second) {
		t.Error("expected only the first match to be removed")
	}
}

func TestEditCommand(t *testing.T) {
	mgr := newManager(t)
	seed(mgr)

	args := []string{"--title", "Write summary", "--due", "01-06-2025", "--set", "priority=Low", "--set", "pages=3", "1"}
	_, stderr, code := runCommand(t, &commands.EditCmd{}, mgr, nil, args, true)
	expectCode(t, code, exitcode.Success, stderr)

	got, _ := mgr.At(1)
	want := "Title: Write summary | Description: Quarterly finances | Due: 2025-06-01 | Priority: Low | Done: Not done | Extra: category=Finance, pages=3"
	if got.String() != want {
		t.Errorf("expected %q, got %q", want, got.String())
	}
}

func TestEditCommand_NothingToEdit(t *testing.T) {
	mgr := newManager(t)
	seed(mgr)

	_, stderr, code := runCommand(t, &commands.EditCmd{}, mgr, nil, []string{"1"}, false)

	expectCode(t, code, exitcode.UserError, stderr)
	if stderr != "error: nothing to edit\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestExportImport(t *testing.T) {
	src := newManager(t)
	seed(src)

	stdout, stderr, code := runCommand(t, &commands.ExportCmd{}, src, nil, []string{"backup.txt"}, false)
	expectCode(t, code, exitcode.Success, stderr)
	if stdout != "saved 3 tasks to backup.txt\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}

	dst, err := manager.New(src.BaseDir())
	if err != nil {
		t.Fatal(err)
	}
	dst.AddNew(task.KindPlain, "existing")

	stdout, stderr, code = runCommand(t, &commands.ImportCmd{}, dst, nil, []string{"backup.txt"}, false)
	expectCode(t, code, exitcode.Success, stderr)
	if stdout != "loaded 3 tasks from backup.txt\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	if dst.Len() != 4 {
		t.Errorf("import should append, expected 4 tasks, got %d", dst.Len())
	}
}

func TestExportCommand_PathTraversal(t *testing.T) {
	mgr := newManager(t)
	seed(mgr)

	_, stderr, code := runCommand(t, &commands.ExportCmd{}, mgr, nil, []string{"../../etc/passwd"}, false)

	expectCode(t, code, exitcode.DataError, stderr)
	if !strings.HasPrefix(stderr, "error: refusing path outside ") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestImportCommand_Malformed(t *testing.T) {
	mgr := newManager(t)
	if err := os.WriteFile(filepath.Join(mgr.BaseDir(), "bad.txt"), []byte("Plain;only two\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, stderr, code := runCommand(t, &commands.ImportCmd{}, mgr, nil, []string{"bad.txt"}, false)

	expectCode(t, code, exitcode.DataError, stderr)
	if !strings.HasPrefix(stderr, "error: corrupt task file: ") {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if mgr.Len() != 0 {
		t.Error("a failed import must not append tasks")
	}
}

func TestImportCommand_UnknownEncoding(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ImportCmd{}, newManager(t), nil, []string{"--encoding", "klingon", "x.txt"}, false)

	expectCode(t, code, exitcode.UserError, stderr)
}

func TestImportCommand_NoFile(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ImportCmd{}, newManager(t), nil, nil, false)

	expectCode(t, code, exitcode.UserError, stderr)
	if stderr != "error: file name required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestPushCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(testutil.DefaultListID, service.Task{Title: "Call mom"})
	mgr := newManager(t)
	seed(mgr)

	stdout, stderr, code := runCommand(t, &commands.PushCmd{}, mgr, svc, nil, false)

	expectCode(t, code, exitcode.Success, stderr)
	if stdout != "pushed 2, skipped 1 (My Tasks [default])\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}

	remote := svc.Tasks(testutil.DefaultListID)
	if len(remote) != 3 {
		t.Fatalf("expected 3 remote tasks, got %d", len(remote))
	}
	if remote[1].Title != "Write report" || remote[1].Notes != "Quarterly finances\n\ncategory=Finance\npriority=High" {
		t.Errorf("unexpected pushed task %+v", remote[1])
	}
	if remote[2].Status != service.StatusCompleted {
		t.Errorf("done task should be pushed as completed, got %s", remote[2].Status)
	}
}

func TestPushCommand_ListFromConfig(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddList("work", "Work")
	mgr := newManager(t)
	mgr.AddNew(task.KindPlain, "Ship it")

	cfg := &config.Config{Dir: t.TempDir(), GoogleList: "work", Quiet: true}
	_, stderr, code := runWithConfig(t, &commands.PushCmd{}, cfg, mgr, svc, nil)

	expectCode(t, code, exitcode.Success, stderr)
	if len(svc.Tasks("work")) != 1 {
		t.Error("expected the task in the configured list")
	}
}

func TestPushCommand_Errors(t *testing.T) {
	svc := testutil.NewFakeService()
	_, stderr, code := runCommand(t, &commands.PushCmd{}, newManager(t), svc, []string{"--list", "Garden"}, false)
	expectCode(t, code, exitcode.UserError, stderr)
	if stderr != "error: list not found: Garden\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}

	svc.ListTasksErr[testutil.DefaultListID] = errors.New("connection refused")
	_, stderr, code = runCommand(t, &commands.PushCmd{}, newManager(t), svc, nil, false)
	expectCode(t, code, exitcode.BackendError, stderr)
}

func TestPullCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddList("home", "Home")
	svc.AddTask("home", service.Task{Title: "Call mom"})
	svc.AddTask("home", service.Task{Title: "Pay rent", Notes: "landlord", Due: "2025-06-01T00:00:00.000Z", Status: service.StatusCompleted})
	mgr := newManager(t)
	seed(mgr)

	stdout, stderr, code := runCommand(t, &commands.PullCmd{}, mgr, svc, []string{"--list", "home"}, false)

	expectCode(t, code, exitcode.Success, stderr)
	if stdout != "pulled 1, skipped 1 (Home)\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	got, ok := mgr.At(4)
	if !ok {
		t.Fatal("expected pulled task to be appended")
	}
	want := "Title: Pay rent | Description: landlord | Due: 2025-06-01 | Done: Done"
	if got.String() != want {
		t.Errorf("expected %q, got %q", want, got.String())
	}
}

func TestCommands_MutatesAndStoreUse(t *testing.T) {
	mutating := map[string]bool{
		"add": true, "done": true, "toggle": true, "rm": true, "edit": true, "import": true, "pull": true,
		"list": false, "export": false, "push": false, "login": false, "logout": false, "help": false, "version": false,
	}
	for name, want := range mutating {
		cmd, ok := commands.DefaultRegistry.Find(name)
		if !ok {
			t.Errorf("command %s not registered", name)
			continue
		}
		if cmd.Mutates() != want {
			t.Errorf("%s: Mutates() = %v, want %v", name, cmd.Mutates(), want)
		}
	}

	for _, name := range []string{"help", "version", "login", "logout"} {
		cmd, _ := commands.DefaultRegistry.Find(name)
		if _, ok := cmd.(commands.Storeless); !ok {
			t.Errorf("%s should not need the task file", name)
		}
	}
}
