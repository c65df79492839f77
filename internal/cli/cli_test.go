package cli

import (
	"bytes"
	"encoding/json"
	"testing"
)

func runCLI(t *testing.T, dir string, args ...string) map[string]any {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--dir", dir}, args...))
	if err := cmd.Execute(); err != nil {
		t.Fatalf("cadence %v: %v (stderr: %s)", args, err, errOut.String())
	}
	var payload map[string]any
	if err := json.Unmarshal(out.Bytes(), &payload); err != nil {
		t.Fatalf("cadence %v: bad JSON %q: %v", args, out.String(), err)
	}
	return payload
}

func runCLIExpectError(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--dir", dir}, args...))
	if err := cmd.Execute(); err == nil {
		t.Fatalf("cadence %v: expected failure, got %s", args, out.String())
	}
}

func TestCLIEndToEnd(t *testing.T) {
	dir := t.TempDir()

	runCLI(t, dir, "init")

	runCLI(t, dir, "templates", "create", "--id", "tpl-root", "--name", "Morning", "--duration", "3600000", "--kind", "timed")
	runCLI(t, dir, "templates", "create", "--id", "tpl-leaf", "--name", "Stretch", "--duration", "600000", "--var", "room=studio")
	runCLI(t, dir, "children", "add", "tpl-root", "tpl-leaf", "--offset", "300000", "--rel", "rel-1")
	runCLI(t, dir, "calendar", "add", "tpl-root", "--id", "cal-1", "--start", "1000000")

	list := runCLI(t, dir, "templates", "list")
	if n := len(list["data"].([]any)); n != 2 {
		t.Fatalf("templates list: got %d", n)
	}

	show := runCLI(t, dir, "templates", "show", "tpl-root")
	rec := show["data"].(map[string]any)
	children := rec["timedChildren"].([]any)
	if len(children) != 1 || children[0].(map[string]any)["childId"] != "tpl-leaf" {
		t.Fatalf("show lost link: %v", rec)
	}

	// 1000000 + 300000 + halfway into the leaf.
	res := runCLI(t, dir, "resolve", "--at", "1600000")
	data := res["data"].(map[string]any)
	chain := data["chain"].([]any)
	if len(chain) != 2 {
		t.Fatalf("chain length: %v", chain)
	}
	leaf := chain[1].(map[string]any)
	if leaf["id"] != "tpl-leaf" {
		t.Fatalf("leaf wrong: %v", leaf)
	}
	if got := leaf["progress"].(float64); got != 50 {
		t.Fatalf("leaf progress: %v", got)
	}
	if got := leaf["activationMs"].(float64); got != 1300000 {
		t.Fatalf("leaf activation: %v", got)
	}

	// Outside every window the chain is empty.
	res = runCLI(t, dir, "resolve", "--at", "999999")
	if chain := res["data"].(map[string]any)["chain"].([]any); len(chain) != 0 {
		t.Fatalf("expected empty chain: %v", chain)
	}

	doc := runCLI(t, dir, "doctor")
	if valid := doc["data"].(map[string]any)["valid"].(bool); !valid {
		t.Fatalf("doctor flagged a clean workspace: %v", doc)
	}

	runCLI(t, dir, "children", "remove", "--rel", "rel-1")
	show = runCLI(t, dir, "templates", "show", "tpl-leaf")
	if parents, ok := show["data"].(map[string]any)["parents"]; ok && parents != nil {
		if len(parents.([]any)) != 0 {
			t.Fatalf("relationship survived removal: %v", parents)
		}
	}

	runCLI(t, dir, "calendar", "remove", "cal-1")
	runCLI(t, dir, "templates", "delete", "tpl-root")
	list = runCLI(t, dir, "templates", "list")
	if n := len(list["data"].([]any)); n != 1 {
		t.Fatalf("templates after delete: got %d", n)
	}
}

func TestCLIRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	runCLI(t, dir, "init")
	runCLI(t, dir, "templates", "create", "--id", "tpl-a", "--kind", "timed", "--duration", "1000")
	runCLI(t, dir, "templates", "create", "--id", "tpl-b")

	// Timed parents require an offset.
	runCLIExpectError(t, dir, "children", "add", "tpl-a", "tpl-b")
	// Leaf templates never take children.
	runCLIExpectError(t, dir, "children", "add", "tpl-b", "tpl-a", "--offset", "0")
	// Unknown template in the calendar.
	runCLIExpectError(t, dir, "calendar", "add", "tpl-ghost", "--start", "0")
	// Duplicate template id.
	runCLIExpectError(t, dir, "templates", "create", "--id", "tpl-a")
	// Bad kind and bad time format.
	runCLIExpectError(t, dir, "templates", "create", "--kind", "circular")
	runCLIExpectError(t, dir, "calendar", "add", "tpl-a", "--start", "yesterday")
}

func TestCLICalendarUpdateAndList(t *testing.T) {
	dir := t.TempDir()
	runCLI(t, dir, "init")
	runCLI(t, dir, "templates", "create", "--id", "tpl-a", "--duration", "1000")
	runCLI(t, dir, "calendar", "add", "tpl-a", "--id", "cal-b", "--start", "2000")
	runCLI(t, dir, "calendar", "add", "tpl-a", "--id", "cal-a", "--start", "1000")

	upd := runCLI(t, dir, "calendar", "update", "cal-b", "--start", "500")
	if got := upd["data"].(map[string]any)["startTimeMs"].(float64); got != 500 {
		t.Fatalf("update start: %v", got)
	}

	list := runCLI(t, dir, "calendar", "list")
	entries := list["data"].([]any)
	if len(entries) != 2 {
		t.Fatalf("calendar list: %v", entries)
	}
	if entries[0].(map[string]any)["id"] != "cal-b" {
		t.Fatalf("list not ordered by start: %v", entries)
	}

	runCLIExpectError(t, dir, "calendar", "update", "cal-ghost", "--start", "1")
}
