package cmd

import (
	"os"
	"path/filepath"

	"emperror.dev/errors"

	"github.com/pterodactyl/fh/config"
)

// configCandidates returns the places a configuration file is looked for, in
// order of preference, when --config is not passed.
func configCandidates() []string {
	check := []string{"fh.yml"}
	if dir, err := os.UserConfigDir(); err == nil {
		check = append(check, filepath.Join(dir, "fh", "config.yml"))
	}
	return append(check, config.DefaultLocation)
}

// findConfiguration returns the first candidate that exists and is a regular
// file. When there is none the default location is returned, which then
// yields the default configuration. Only unexpected stat errors are returned.
func findConfiguration(check []string) (string, error) {
	for _, p := range check {
		s, err := os.Stat(p)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return "", errors.WithStack(err)
			}
			continue
		}
		if !s.IsDir() {
			return p, nil
		}
	}
	return config.DefaultLocation, nil
}
