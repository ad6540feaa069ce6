package main

import (
	"os"
	"strings"

	"seller-cli/internal/cli"

	"github.com/google/uuid"
)

func isOrderID(s string) bool {
	_, err := uuid.Parse(strings.TrimSpace(s))
	return err == nil
}

// rewriteDirectReceiptArgs turns `seller <order-id>` into
// `seller orders receipt <order-id>`. Persistent flags may come first, so the
// first positional token is what counts.
func rewriteDirectReceiptArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	// Unknown flags are skipped without their value so an id is never swallowed.
	valueFlags := map[string]bool{
		"--config-dir": true,
		"--base-url":   true,
		"--format":     true,
		"--trace":      true,
	}

	insert := func(at int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:at]...)
		out = append(out, "orders", "receipt")
		return append(out, argv[at:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		switch {
		case a == "":
			continue
		case a == "--":
			if i+1 < len(argv) && isOrderID(argv[i+1]) {
				return insert(i + 1)
			}
			return argv
		case strings.HasPrefix(a, "-"):
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		case isOrderID(a):
			return insert(i)
		default:
			return argv
		}
	}
	return argv
}

func main() {
	os.Args = rewriteDirectReceiptArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
