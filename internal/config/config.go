// Package config loads the sqlforge command configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"os"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/syssam/sqlforge/dialect"
	"github.com/syssam/sqlforge/dialect/sql"
)

// DefaultFile is the configuration file read when none is given.
const DefaultFile = "sqlforge.yaml"

// ErrInvalid is returned when a configuration fails validation.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the root of sqlforge.yaml.
type Config struct {
	Databases map[string]Database `yaml:"databases"`
	// SlowThreshold marks statements slower than it as slow. Zero uses the
	// StatsDriver default.
	SlowThreshold time.Duration `yaml:"slow_threshold"`
	// Debug logs every statement sent to the databases.
	Debug bool `yaml:"debug"`
}

// Database describes one database connection. Either DSN is set, or the
// driver is mysql and the connection is assembled from the remaining fields.
type Database struct {
	Driver   string            `yaml:"driver"`
	DSN      string            `yaml:"dsn"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	User     string            `yaml:"user"`
	Password string            `yaml:"password"`
	Database string            `yaml:"database"`
	Params   map[string]string `yaml:"params"`
}

// Dialect returns the dialect name of the database driver.
func (d Database) Dialect() (string, error) {
	dl, err := sql.Lookup(d.Driver)
	if err != nil {
		return "", err
	}
	return dl.Name(), nil
}

// DataSourceName returns the connection string passed to sql.Open.
func (d Database) DataSourceName() (string, error) {
	if d.DSN != "" {
		return d.DSN, nil
	}
	name, err := d.Dialect()
	if err != nil {
		return "", err
	}
	if name != dialect.MySQL {
		return "", fmt.Errorf("%w: driver %q requires a dsn", ErrInvalid, d.Driver)
	}
	cfg := mysql.NewConfig()
	cfg.User = d.User
	cfg.Passwd = d.Password
	cfg.DBName = d.Database
	cfg.ParseTime = true
	if d.Host != "" || d.Port != 0 {
		host, port := d.Host, d.Port
		if host == "" {
			host = "127.0.0.1"
		}
		if port == 0 {
			port = 3306
		}
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	}
	if len(d.Params) > 0 {
		cfg.Params = make(map[string]string, len(d.Params))
		for k, v := range d.Params {
			cfg.Params[k] = v
		}
	}
	return cfg.FormatDSN(), nil
}

// Default returns the configuration used when no file exists: a single
// in-memory SQLite database.
func Default() *Config {
	return &Config{
		Databases: map[string]Database{
			"memory": {Driver: "sqlite", DSN: ":memory:"},
		},
	}
}

// Load reads the configuration at path. A .env file in the working
// directory is loaded first, and ${VAR} references in the file are replaced
// by environment values. A missing file yields Default.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a configuration document. Unknown keys are
// rejected.
func Parse(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(expandEnv(data)))
	dec.KnownFields(true)
	cfg := &Config{}
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every database has a known driver and a usable
// connection string.
func (c *Config) Validate() error {
	if len(c.Databases) == 0 {
		return fmt.Errorf("%w: no databases", ErrInvalid)
	}
	if c.SlowThreshold < 0 {
		return fmt.Errorf("%w: negative slow_threshold", ErrInvalid)
	}
	var errs []error
	for _, name := range c.Names() {
		db := c.Databases[name]
		if db.Driver == "" {
			errs = append(errs, fmt.Errorf("%w: database %q: missing driver", ErrInvalid, name))
			continue
		}
		if _, err := db.Dialect(); err != nil {
			errs = append(errs, fmt.Errorf("database %q: %w", name, err))
			continue
		}
		if _, err := db.DataSourceName(); err != nil {
			errs = append(errs, fmt.Errorf("database %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Names returns the database names in sorted order.
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Databases))
	for name := range c.Databases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

func expandEnv(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(m []byte) []byte {
		return []byte(os.Getenv(string(m[2 : len(m)-1])))
	})
}
