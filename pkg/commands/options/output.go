package options

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// OutputOptions
type OutputOptions struct {
	JSON bool

	// Out receives the JSON error object; color.Output when nil.
	Out io.Writer
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().BoolVar(&po.JSON, "json", false,
		"Output as JSON.")
}

// HandleError reports err as {"error": "..."} when JSON output is on, so
// scripts always get a parseable object. The process still exits non-zero.
func (o *OutputOptions) HandleError(err error) error {
	if o.JSON && err != nil {
		out := map[string]string{
			"error": err.Error(),
		}
		b, merr := json.Marshal(out)
		if merr != nil {
			return merr
		}
		w := o.Out
		if w == nil {
			w = color.Output
		}
		_, _ = fmt.Fprintln(w, string(b))
		return ErrReported{err}
	}
	return err
}

// ErrReported wraps an error that has already been written as JSON.
type ErrReported struct{ Err error }

func (e ErrReported) Error() string { return e.Err.Error() }
func (e ErrReported) Unwrap() error { return e.Err }
