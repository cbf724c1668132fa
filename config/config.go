// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/cardinalhq/linecrunch/internal/filereader"
	"github.com/cardinalhq/linecrunch/internal/sorting"
	"github.com/cardinalhq/linecrunch/internal/typedvalue"
)

// Config holds the settings shared by every linecrunch command. Command
// line flags override any value loaded here.
type Config struct {
	// Separator splits input lines into columns. Escapes such as \t are
	// interpreted.
	Separator string `mapstructure:"separator" validate:"required"`
	// Algorithm names the sorting algorithm used by buffering commands.
	Algorithm string `mapstructure:"algorithm" validate:"required"`
	// DateLayouts are the time layouts tried, in order, for DateTime columns.
	// In the environment they are separated by '|'.
	DateLayouts []string `mapstructure:"date_layouts" validate:"min=1,dive,required"`
	// Timezone is applied to date values that carry no zone.
	Timezone string `mapstructure:"timezone" validate:"required"`
	Lenient  bool   `mapstructure:"lenient"`
	Quoted   bool   `mapstructure:"quoted"`
	Debug    bool   `mapstructure:"debug"`
	// DiagnosticsFile, when set, receives a JSON copy of every log record.
	DiagnosticsFile string `mapstructure:"diagnostics_file"`
	MaxLineBytes    int    `mapstructure:"max_line_bytes" validate:"gte=0"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Separator:    "\t",
		Algorithm:    sorting.Merge.String(),
		DateLayouts:  append([]string(nil), typedvalue.DefaultDateLayouts...),
		Timezone:     "UTC",
		MaxLineBytes: filereader.DefaultMaxLineBytes,
	}
}

// Load reads configuration from files and environment variables.
// The file is linecrunch.yaml (or any format viper understands) in the
// working directory or $HOME/.config/linecrunch. Environment variables use
// the prefix "LINECRUNCH" and the dot character in keys is replaced by an
// underscore. For example, "max_line_bytes" becomes
// "LINECRUNCH_MAX_LINE_BYTES".
func Load() (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("linecrunch")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/linecrunch")
	v.SetEnvPrefix("LINECRUNCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v, cfg)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if s, ok := v.Get("date_layouts").(string); ok && s != "" {
		cfg.DateLayouts = strings.Split(s, "|")
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Normalize interprets escapes in the separator and validates the result.
func (c *Config) Normalize() error {
	if sep, err := strconv.Unquote(`"` + c.Separator + `"`); err == nil {
		c.Separator = sep
	}
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := sorting.ParseAlgorithm(c.Algorithm); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// SortAlgorithm returns the configured sorting algorithm.
func (c *Config) SortAlgorithm() (sorting.Algorithm, error) {
	return sorting.ParseAlgorithm(c.Algorithm)
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Parser returns the typed value parser for the configured date layouts and
// timezone.
func (c *Config) Parser() (typedvalue.Parser, error) {
	loc, err := c.Location()
	if err != nil {
		return typedvalue.Parser{}, err
	}
	return typedvalue.Parser{DateLayouts: c.DateLayouts, Location: loc}, nil
}

// bindEnvs registers all keys within cfg so that viper will look up
// corresponding environment variables when unmarshalling.
func bindEnvs(v *viper.Viper, cfg any, parts ...string) {
	val := reflect.ValueOf(cfg)
	typ := reflect.TypeOf(cfg)
	if typ.Kind() == reflect.Ptr {
		val = val.Elem()
		typ = typ.Elem()
	}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag := f.Tag.Get("mapstructure")
		if tag == "" {
			tag = strings.ToLower(f.Name)
		}
		key := append(parts, tag)
		if f.Type.Kind() == reflect.Struct {
			bindEnvs(v, val.Field(i).Interface(), key...)
			continue
		}
		_ = v.BindEnv(strings.Join(key, "."))
	}
}
