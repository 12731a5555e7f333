package config

import (
	"os"
	"sync"

	"emperror.dev/errors"
	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"

	"github.com/pterodactyl/fh/accessor"
	"github.com/pterodactyl/fh/filter"
)

const DefaultLocation = "/etc/fh/config.yml"

var (
	mu      sync.RWMutex
	_config *Configuration
)

// AccessorConfiguration holds the defaults used when the command line opens a
// file without specifying them explicitly.
type AccessorConfiguration struct {
	// The fopen style mode ("rb", "a+") or mode name ("read_binary") files are
	// opened with.
	AccessMode string `default:"rb" yaml:"access_mode"`

	// One of "none", "line" or "full".
	BufferMode string `default:"full" yaml:"buffer_mode"`

	// The size of the I/O buffer in bytes. Values outside of 128 to 16384 are
	// clamped into that range.
	BufferSize int `default:"2048" yaml:"buffer_size"`

	// The growth step used when scanning lines. Values outside of 1 to 1024
	// fall back to 16.
	LineChunkSize int `default:"16" yaml:"line_chunk_size"`

	// Characters that are stripped from everything read or written. Entries
	// are single characters, 0x prefixed hex bytes or ranges such as "a-z".
	Ignore []string `yaml:"ignore"`
}

// OpenOptions converts the configured values into the typed values the
// accessor expects.
func (ac AccessorConfiguration) OpenOptions() (accessor.AccessMode, accessor.BufferMode, filter.Ignore, error) {
	mode, err := accessor.ParseAccessMode(ac.AccessMode)
	if err != nil {
		return 0, 0, filter.Ignore{}, errors.WithMessage(err, "config: accessor.access_mode")
	}
	buffering, err := accessor.ParseBufferMode(ac.BufferMode)
	if err != nil {
		return 0, 0, filter.Ignore{}, errors.WithMessage(err, "config: accessor.buffer_mode")
	}
	ig, err := filter.ParseIgnore(ac.Ignore)
	if err != nil {
		return 0, 0, filter.Ignore{}, errors.WithMessage(err, "config: accessor.ignore")
	}
	return mode, buffering, ig, nil
}

type Configuration struct {
	// The location from which this configuration instance was instantiated.
	path string

	// Enables debug level logging. The --debug flag overrides this value.
	Debug bool `default:"false" yaml:"debug"`

	// When set, log output is also written to this file, which is reopened
	// when it receives SIGHUP so it can be rotated.
	LogFile string `yaml:"log_file"`

	Accessor AccessorConfiguration `yaml:"accessor"`
}

// NewAtPath creates a new struct and set the path where it should be stored.
// This function does not modify the currently stored global configuration.
func NewAtPath(path string) (*Configuration, error) {
	var c Configuration
	// Configures the default values for many of the configuration options present
	// in the structs. Values set in the configuration file take priority over the
	// default values.
	if err := defaults.Set(&c); err != nil {
		return nil, err
	}
	c.path = path
	return &c, nil
}

// Set the global configuration instance.
func Set(c *Configuration) {
	mu.Lock()
	_config = c
	mu.Unlock()
}

// Get returns the global configuration instance, or a default one if none
// was set yet.
func Get() *Configuration {
	mu.RLock()
	c := _config
	mu.RUnlock()
	if c == nil {
		c, _ = NewAtPath("")
	}
	return c
}

// GetPath returns the location of the configuration file.
func (c *Configuration) GetPath() string {
	return c.path
}

// ReadConfiguration reads the configuration from the provided file and
// returns it. Environment variables in the file are expanded first. A missing
// file is not an error; the defaults are returned instead.
func ReadConfiguration(path string) (*Configuration, error) {
	c, err := NewAtPath(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return nil, errors.WithStack(err)
	}
	// Replace environment variables within the configuration file with their
	// values from the host system.
	b = []byte(os.ExpandEnv(string(b)))
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, errors.Wrap(err, "config: could not parse configuration file")
	}
	return c, nil
}
