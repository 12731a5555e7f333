package cmd

import (
	"io"

	"emperror.dev/errors"
	"github.com/spf13/cobra"

	"github.com/pterodactyl/fh/accessor"
)

func newWriteCommand() *cobra.Command {
	var (
		of         openFlags
		at         int64
		rewind     bool
		flushFirst bool
		flush      bool
	)
	cmd := &cobra.Command{
		Use:   "write <file> [data]",
		Short: "Write data to a file",
		Long:  "Write the given data, or standard input when no data is given, to a file. Files are appended to unless another --mode is given.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			var data []byte
			if len(args) == 2 {
				data = []byte(args[1])
			} else if data, err = io.ReadAll(cmd.InOrStdin()); err != nil {
				return errors.WithStack(err)
			}

			a, err := of.open(args[0])
			if err != nil {
				return err
			}
			defer closeAccessor(a, &err)

			opts := []accessor.TransferOption{accessor.At(at), accessor.AutoRewind(rewind)}
			if flushFirst {
				opts = append(opts, accessor.FlushFirst())
			}
			if err := a.WriteToFile(data, opts...); err != nil {
				return err
			}
			if flush {
				return a.Flush()
			}
			return nil
		},
	}
	of.register(cmd, "a")
	cmd.Flags().Int64Var(&at, "at", accessor.NoSeek, "offset to write at")
	cmd.Flags().BoolVar(&rewind, "rewind", false, "restore the cursor after writing at --at")
	cmd.Flags().BoolVar(&flushFirst, "flush-first", false, "flush buffered data before writing")
	cmd.Flags().BoolVar(&flush, "flush", false, "flush explicitly after writing")
	return cmd
}
