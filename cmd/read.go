package cmd

import (
	"fmt"
	"strconv"

	"emperror.dev/errors"
	"github.com/spf13/cobra"

	"github.com/pterodactyl/fh/accessor"
	"github.com/pterodactyl/fh/config"
)

func newReadCommand() *cobra.Command {
	var (
		of       openFlags
		count    int
		at       int64
		noRewind bool
	)
	cmd := &cobra.Command{
		Use:   "read <file>",
		Short: "Print bytes from a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			a, err := of.open(args[0])
			if err != nil {
				return err
			}
			defer closeAccessor(a, &err)

			n := count
			if n <= 0 {
				length, err := a.Length()
				if err != nil {
					return err
				}
				n = int(length)
			}
			res, err := a.ReadFromFile(n, accessor.At(at), accessor.AutoRewind(!noRewind))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(res.Data)
			return errors.WithStack(err)
		},
	}
	of.register(cmd, "")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of bytes to read, the whole file when zero")
	cmd.Flags().Int64Var(&at, "at", accessor.NoSeek, "offset to read from")
	cmd.Flags().BoolVar(&noRewind, "no-rewind", false, "leave the cursor after the data read")
	return cmd
}

func newLineCommand() *cobra.Command {
	var (
		of    openFlags
		at    int64
		chunk int
	)
	cmd := &cobra.Command{
		Use:   "line <file> <index>",
		Short: "Print a single line from a file",
		Long:  "Print the line at the zero based index, counted from the offset given with --at. Carriage returns are stripped.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.WithMessagef(err, "invalid line index %q", args[1])
			}
			size := chunk
			if size <= 0 {
				size = config.Get().Accessor.LineChunkSize
			}

			a, err := of.open(args[0])
			if err != nil {
				return err
			}
			defer closeAccessor(a, &err)

			res, err := a.GetLine(n, accessor.At(at), accessor.ChunkSize(size))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", res.Data)
			return errors.WithStack(err)
		},
	}
	of.register(cmd, "")
	cmd.Flags().Int64Var(&at, "at", 0, "offset the line index is counted from")
	cmd.Flags().IntVar(&chunk, "chunk", 0, "growth step of the line buffer")
	return cmd
}
