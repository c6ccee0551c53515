// Package cmdutil provides shared utilities for parsecctl commands.
package cmdutil

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/manifoldco/promptui"

	"github.com/parsec-io/parsec-core/internal/cli/output"
	"github.com/parsec-io/parsec-core/internal/client"
)

// NewClient returns a parsecd client dialing socketPath with the given
// per-call timeout. No authentication is attached: requests carry auth_type
// NoAuth, so parsecd serves them with an empty ApplicationName and the
// UnixPeerCredentials authenticator is not consulted.
func NewClient(socketPath string, timeout time.Duration) *client.Client {
	return client.New(socketPath, client.WithTimeout(timeout))
}

// PrintOutput prints data in formatStr (table|json|yaml|csv|jsonl). For
// table format, it prints emptyMsg if isEmpty, otherwise renders
// tableRenderer.
func PrintOutput(w io.Writer, formatStr string, data any, isEmpty bool, emptyMsg string, tableRenderer output.TableRenderer) error {
	format, err := output.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(w, data)
	case output.FormatYAML:
		return output.PrintYAML(w, data)
	case output.FormatCSV:
		if isEmpty {
			return nil
		}
		return output.PrintCSV(w, tableRenderer)
	case output.FormatJSONLines:
		if isEmpty {
			return nil
		}
		return output.PrintJSONLines(w, sliceOf(data))
	default:
		if isEmpty {
			_, _ = fmt.Fprintln(w, emptyMsg)
			return nil
		}
		return output.PrintTable(w, tableRenderer)
	}
}

// PrintSuccess prints msg in table format only; JSON/YAML callers print
// their own structured result instead.
func PrintSuccess(formatStr, msg string) {
	format, err := output.ParseFormat(formatStr)
	if err != nil || format != output.FormatTable {
		return
	}
	printer := output.NewPrinter(os.Stdout, format, true)
	printer.Success(msg)
}

// Confirm prompts the user for a yes/no answer, returning true for the
// confirmation unless force is set. A Ctrl+C or a non-affirmative answer
// both count as a decline.
func Confirm(label string, force bool) bool {
	if force {
		return true
	}
	p := promptui.Prompt{
		Label:     fmt.Sprintf("%s [y/N]", label),
		IsConfirm: true,
	}
	result, err := p.Run()
	if err != nil {
		// promptui returns ErrAbort for "n" and ErrInterrupt for Ctrl+C;
		// both mean "don't proceed".
		return false
	}
	return strings.EqualFold(result, "y") || strings.EqualFold(result, "yes")
}

// sliceOf turns a slice-typed value into a []any for PrintJSONLines, or
// wraps a non-slice value as a single-item list.
func sliceOf(data any) []any {
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Slice {
		return []any{data}
	}
	items := make([]any, v.Len())
	for i := range items {
		items[i] = v.Index(i).Interface()
	}
	return items
}

// EmptyOr returns value if non-empty, otherwise fallback. Useful for table
// cells where an empty field should render as "-".
func EmptyOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
