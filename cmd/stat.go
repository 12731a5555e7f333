package cmd

import (
	"fmt"
	"time"

	"emperror.dev/errors"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/pterodactyl/fh/accessor"
)

func newStatCommand() *cobra.Command {
	var (
		of     openFlags
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "stat <file>",
		Short: "Describe a file as seen through an accessor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			a, err := of.open(args[0])
			if err != nil {
				return err
			}
			defer closeAccessor(a, &err)

			st, err := a.State()
			if err != nil {
				return err
			}
			if !asJSON {
				_, err = fmt.Fprint(cmd.OutOrStdout(), st.String())
				return errors.WithStack(err)
			}
			b, err := json.MarshalIndent(st, "", "  ")
			if err != nil {
				return errors.WithStack(err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return errors.WithStack(err)
		},
	}
	of.register(cmd, "")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the state as JSON")
	return cmd
}

func newExistsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "exists <file>",
		Short: "Report whether a file can be opened for reading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), accessor.Exists(args[0]))
			return errors.WithStack(err)
		},
	}
}

func newMtimeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mtime <file>",
		Short: "Print the last modification time of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ok, err := accessor.LastModified(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return errors.Errorf("no modification time available for %s", args[0])
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), t.Format(time.RFC3339))
			return errors.WithStack(err)
		},
	}
}

func newRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <file>",
		Short: "Delete a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := accessor.Open(args[0], accessor.ModeRead, accessor.BufferNone, 0)
			if err != nil {
				return err
			}
			if _, err := a.Remove(); err != nil {
				return err
			}
			return nil
		},
	}
}
