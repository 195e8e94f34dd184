package commands

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/vsinha/factorycalc/pkg/interfaces/cli/output"
)

// writeOutput sends write's output to --output (stdout by default)
func writeOutput(cmd *cli.Command, write func(io.Writer) error) error {
	w, err := output.Open(cmd.String("output"), cmd.Root().Writer)
	if err != nil {
		return err
	}
	return writeAndClose(w, write)
}

// writeAndClose runs write against w, then closes w and returns the close
// error. Compressed outputs are finished by Close.
func writeAndClose(w io.WriteCloser, write func(io.Writer) error) error {
	if err := write(w); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	return nil
}
