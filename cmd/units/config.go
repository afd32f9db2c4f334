package main

import (
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds where the conversion table comes from.
type Config struct {
	Tables   []string // table files, registered in this order
	DBPath   string   // SQLite store used when no table file is given
	Revision string   // stored revision to load; empty means latest
}

// Default returns a Config with no table source configured.
func Default() *Config {
	return &Config{}
}

// AddFlags binds the config to persistent flags.
func (c *Config) AddFlags(flags *pflag.FlagSet) {
	flags.StringSliceVarP(&c.Tables, "table", "t", c.Tables, "Conversion table file (text, .yaml or .msgpack); repeatable")
	flags.StringVar(&c.DBPath, "db", c.DBPath, "SQLite conversion table store")
	flags.StringVar(&c.Revision, "revision", c.Revision, "Stored table revision to use instead of the latest")
}

// newEnv maps UNITS_TABLE and UNITS_DB onto the config keys.
func newEnv() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("units")
	v.BindEnv("table")
	v.BindEnv("db")
	return v
}

// ApplyEnv fills settings from the environment unless the matching flag was
// given explicitly. UNITS_TABLE holds a list separated like PATH.
func (c *Config) ApplyEnv(v *viper.Viper, flags *pflag.FlagSet) {
	if !flags.Changed("table") {
		if s := v.GetString("table"); s != "" {
			c.Tables = filepath.SplitList(s)
		}
	}
	if !flags.Changed("db") {
		if s := v.GetString("db"); s != "" {
			c.DBPath = s
		}
	}
}
