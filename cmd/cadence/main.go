package main

import (
	"os"
	"strings"

	"cadence-cli/internal/cli"
)

func isTemplateID(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "tpl-") && len(s) > len("tpl-")
}

// rewriteDirectLookupArgs makes `cadence <template-id>` behave like
// `cadence templates show <template-id>`. Cobra treats the first
// non-flag token as a subcommand, so argv is rewritten before parsing.
// Persistent flags may precede the id, so the first positional token is
// what matters, not argv[1].
func rewriteDirectLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--dir":       true,
		"--format":    true,
		"--log-level": true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++
			}
			continue
		}
		if isTemplateID(a) {
			out := make([]string, 0, len(argv)+2)
			out = append(out, argv[:i]...)
			out = append(out, "templates", "show")
			out = append(out, argv[i:]...)
			return out
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteDirectLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
