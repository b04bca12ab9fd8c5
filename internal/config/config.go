// Package config loads the optional sqlsh configuration file: a TOML document
// whose sections name database connections. Each section carries a connection
// URL and, optionally, a per-connection history file. Values may reference
// environment variables with ${VAR} syntax; unset variables expand to the
// empty string.
package config

import (
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"sqlsh/cli/internal/errors"
	"sqlsh/cli/internal/xdg"
)

// Connection is a single named connection from the configuration file.
type Connection struct {
	Name        string
	URL         string
	HistoryFile string
}

// Config represents the parsed configuration data.
type Config struct {
	path  string
	conns []Connection
}

// section mirrors one TOML table in the configuration file.
type section struct {
	URL     string `toml:"url"`
	History string `toml:"history"`
}

// Path returns the path the configuration was loaded from.
func (c *Config) Path() string { return c.path }

// Connections returns all configured connections, sorted by name.
func (c *Config) Connections() []Connection { return c.conns }

// Lookup resolves a connection spec against the configuration by
// case-insensitive name prefix. It returns every matching connection;
// an empty result means the spec is not a configured name and should be
// treated as a raw URL.
func (c *Config) Lookup(spec string) []Connection {
	if c == nil {
		return nil
	}
	var matches []Connection
	for _, conn := range c.conns {
		if strings.HasPrefix(strings.ToLower(conn.Name), strings.ToLower(spec)) {
			matches = append(matches, conn)
		}
	}
	return matches
}

// AmbiguousError builds the error reported when a spec matches more than one
// configuration section.
func (c *Config) AmbiguousError(spec string, matches []Connection) error {
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.Name
	}
	return errors.Newf(errors.AmbiguousConnection,
		"%q matches more than one section in %q: %s",
		spec, c.path, strings.Join(names, ", "))
}

// Load reads the configuration file at path. A missing url key or a TOML
// parse failure is a configuration error; the caller decides whether that is
// fatal. Environment references in url and history values are expanded, and
// a leading "~" in history paths is resolved to the home directory.
func Load(path string) (*Config, error) {
	var raw map[string]section
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid,
			"unable to read "+path, err)
	}

	expand := func(s string) string {
		return os.Expand(s, func(key string) string { return os.Getenv(key) })
	}

	conns := make([]Connection, 0, len(raw))
	for name, sec := range raw {
		if sec.URL == "" {
			return nil, errors.Newf(errors.ConfigInvalid,
				"%s: section %q has no \"url\" setting", path, name)
		}
		conn := Connection{
			Name: name,
			URL:  expand(sec.URL),
		}
		if sec.History != "" {
			conn.HistoryFile = xdg.ExpandHome(expand(sec.History))
		}
		conns = append(conns, conn)
	}

	sort.Slice(conns, func(i, j int) bool { return conns[i].Name < conns[j].Name })
	return &Config{path: path, conns: conns}, nil
}
