package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--env", filepath.Join(t.TempDir(), "missing.env")}, args...))
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func TestExecAddAndShow(t *testing.T) {
	t.Setenv("OBSION_DATA_PATH", filepath.Join(t.TempDir(), "data", "obsion.db"))
	t.Setenv("OBSION_LOG_FILE", "")

	out, err := runRoot(t, "exec", "add", "note", "Groceries", "tag:home", "--", "milk")
	if err != nil {
		t.Fatalf("exec add failed: %v", err)
	}
	if !strings.HasPrefix(out, "note created:") {
		t.Fatalf("unexpected output: %q", out)
	}

	out, err = runRoot(t, "exec", "show", "notes", "tag:home")
	if err != nil {
		t.Fatalf("exec show failed: %v", err)
	}
	if !strings.Contains(out, "Groceries #home") {
		t.Fatalf("expected stored note in listing: %q", out)
	}

	a, err := openApp(t.Context(), "")
	if err != nil {
		t.Fatalf("open app: %v", err)
	}
	defer a.Close()
	notes, err := a.facade.ListNotes(t.Context())
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if len(notes) != 1 || notes[0].Title != "Groceries" || notes[0].Content != "milk" {
		t.Fatalf("expected body after -- as content, got %+v", notes)
	}
}

func TestCommandLineRestoresDashSeparator(t *testing.T) {
	cases := []struct {
		args []string
		dash int
		want string
	}{
		{[]string{"add", "note", "Groceries", "milk"}, 3, "add note Groceries -- milk"},
		{[]string{"add", "todo", "Pay", "rent"}, -1, "add todo Pay rent"},
		{[]string{"add", "note", "Empty"}, 3, "add note Empty --"},
	}
	for _, tc := range cases {
		if got := commandLine(tc.args, tc.dash); got != tc.want {
			t.Fatalf("commandLine(%v, %d) = %q, want %q", tc.args, tc.dash, got, tc.want)
		}
	}
}

func TestExecRejectsBadCommand(t *testing.T) {
	t.Setenv("OBSION_DATA_PATH", filepath.Join(t.TempDir(), "obsion.db"))
	if _, err := runRoot(t, "exec", "fly", "away"); err == nil {
		t.Fatal("expected unknown command error")
	}
}

func TestInitCreatesDataFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "obsion.db")
	t.Setenv("OBSION_DATA_PATH", path)
	out, err := runRoot(t, "init")
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Fatalf("expected data path in output: %q", out)
	}
}
