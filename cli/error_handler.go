package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/archive/errors"
	"github.com/grovetools/archive/tui/theme"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates a new error handler writing to stderr
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     os.Stderr,
	}
}

// Handle prints a message and hint for err based on its code and returns err.
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}

	t := theme.DefaultTheme
	fail := func(format string, args ...interface{}) {
		fmt.Fprintf(h.Out, "%s %s\n", t.Error.Render(theme.IconError), fmt.Sprintf(format, args...))
	}
	hint := func(format string, args ...interface{}) {
		fmt.Fprintln(h.Out, t.Muted.Render(fmt.Sprintf(format, args...)))
	}

	ae, _ := errors.As(err)
	detail := func(key string) interface{} {
		if ae == nil {
			return nil
		}
		return ae.Details[key]
	}

	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fail("Configuration not found: %v", detail("path"))
		hint("Create archive.yml or drop --config to use defaults.")

	case errors.ErrCodeConfigInvalid, errors.ErrCodeConfigValidation:
		fail("Invalid configuration: %v", err)
		hint("Run 'archive config validate' for details.")

	case errors.ErrCodeAPIUnavailable:
		fail("Cannot reach the archive gateway at %v", detail("endpoint"))
		hint("Check api.base_url or set ARCHIVE_API_URL.")

	case errors.ErrCodeAPIStatus:
		fail("Gateway returned status %v", detail("status"))
		if status, ok := detail("status").(int); ok && (status == 401 || status == 403) {
			hint("Check api.token or set ARCHIVE_API_TOKEN.")
		}
		if status, ok := detail("status").(int); ok && status == 429 {
			hint("Rate limited; lower api.requests_per_minute.")
		}

	case errors.ErrCodeItemNotFound:
		fail("Item '%v' not found", detail("item"))
		hint("Run 'archive items list' to see item IDs.")

	case errors.ErrCodeEmptyQuery:
		fail("Nothing to ask: the query is empty once the @field mention is removed")

	case errors.ErrCodeQueryTimeout:
		fail("The agent did not answer within %v", detail("timeout"))
		hint("Raise agent.query_timeout in archive.yml.")

	case errors.ErrCodeInvalidInput:
		if ae != nil {
			fail("%s", ae.Message)
		} else {
			fail("%v", err)
		}
		if field := detail("field"); field != nil {
			hint("Check the %v value.", field)
		}

	case errors.ErrCodeCancelled:
		fail("Cancelled")

	default:
		fail("Error: %v", err)
	}

	if h.Verbose && ae != nil {
		fmt.Fprintf(h.Out, "\nError details:\n%s\n", ae.ToJSON())
	}
	return err
}
