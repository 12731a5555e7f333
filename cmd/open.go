package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pterodactyl/fh/accessor"
	"github.com/pterodactyl/fh/config"
	"github.com/pterodactyl/fh/filter"
)

// openFlags are the flags shared by every command that opens a file. Empty
// values fall back to the configuration file.
type openFlags struct {
	mode       string
	buffering  string
	bufferSize int
	ignore     []string
}

func (o *openFlags) register(cmd *cobra.Command, defaultMode string) {
	cmd.Flags().StringVarP(&o.mode, "mode", "m", defaultMode, "access mode, either an fopen string such as \"rb+\" or a name such as \"read_binary_update\"")
	cmd.Flags().StringVarP(&o.buffering, "buffer", "b", "", "buffering mode: none, line or full")
	cmd.Flags().IntVar(&o.bufferSize, "buffer-size", 0, "size of the I/O buffer in bytes")
	cmd.Flags().StringSliceVar(&o.ignore, "ignore", nil, "characters to strip, such as \"\\r\", \"0x00-0x1f\" or \"a-z\"")
}

// open opens path merging the flags over the configured defaults.
func (o *openFlags) open(path string) (*accessor.Accessor, error) {
	ac := config.Get().Accessor
	if o.mode != "" {
		ac.AccessMode = o.mode
	}
	if o.buffering != "" {
		ac.BufferMode = o.buffering
	}
	if o.bufferSize > 0 {
		ac.BufferSize = o.bufferSize
	}
	mode, buffering, ig, err := ac.OpenOptions()
	if err != nil {
		return nil, err
	}
	extra, err := filter.ParseIgnore(o.ignore)
	if err != nil {
		return nil, err
	}

	a, err := accessor.Open(path, mode, buffering, ac.BufferSize)
	if err != nil {
		return nil, err
	}
	a.SetIgnoring(ig)
	a.SetIgnoring(extra)
	return a, nil
}

// closeAccessor closes a and reports the close error unless an earlier error
// is already being returned.
func closeAccessor(a *accessor.Accessor, err *error) {
	if _, cerr := a.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}
