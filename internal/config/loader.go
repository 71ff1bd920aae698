package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// fileSettings is the TOML schema for the configuration file.
type fileSettings struct {
	AutoInfo      *string `toml:"autoinfo"`
	AutoComplete  *string `toml:"autocomplete"`
	IdleTimeoutMS *int    `toml:"idle_timeout_ms"`
	HistoryMax    *int    `toml:"history_max"`
	MaxRecursion  *int    `toml:"max_recursion"`
}

// ParseError reports a problem in a configuration source.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load reads settings from a TOML file and applies MODALITY_* environment
// overrides on top. A missing file yields the defaults; a malformed file
// or environment value is an error.
func Load(path string) (Settings, error) {
	s, err := LoadFile(path)
	if err != nil {
		return s, err
	}
	return applyEnv(s)
}

// LoadFile reads settings from a TOML file without environment overrides.
// A missing file yields the defaults.
func LoadFile(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var fs fileSettings
	if err := toml.Unmarshal(data, &fs); err != nil {
		return s, &ParseError{Path: path, Message: err.Error(), Err: err}
	}

	if fs.AutoInfo != nil {
		mask, err := ParseAutoInfo(*fs.AutoInfo)
		if err != nil {
			return s, &ParseError{Path: path, Message: err.Error(), Err: err}
		}
		s.AutoInfo = mask
	}
	if fs.AutoComplete != nil {
		mask, err := ParseAutoComplete(*fs.AutoComplete)
		if err != nil {
			return s, &ParseError{Path: path, Message: err.Error(), Err: err}
		}
		s.AutoComplete = mask
	}
	if fs.IdleTimeoutMS != nil {
		s.IdleTimeout = time.Duration(*fs.IdleTimeoutMS) * time.Millisecond
	}
	if fs.HistoryMax != nil {
		s.HistoryMax = *fs.HistoryMax
	}
	if fs.MaxRecursion != nil {
		s.MaxRecursion = *fs.MaxRecursion
	}
	return s, nil
}

// Environment variables recognized by applyEnv.
const (
	envAutoInfo     = "MODALITY_AUTOINFO"
	envAutoComplete = "MODALITY_AUTOCOMPLETE"
	envIdleTimeout  = "MODALITY_IDLE_TIMEOUT_MS"
	envHistoryMax   = "MODALITY_HISTORY_MAX"
	envMaxRecursion = "MODALITY_MAX_RECURSION"
)

func applyEnv(s Settings) (Settings, error) {
	if v, ok := os.LookupEnv(envAutoInfo); ok {
		mask, err := ParseAutoInfo(v)
		if err != nil {
			return s, &ParseError{Path: envAutoInfo, Message: err.Error(), Err: err}
		}
		s.AutoInfo = mask
	}
	if v, ok := os.LookupEnv(envAutoComplete); ok {
		mask, err := ParseAutoComplete(v)
		if err != nil {
			return s, &ParseError{Path: envAutoComplete, Message: err.Error(), Err: err}
		}
		s.AutoComplete = mask
	}
	if v, ok := os.LookupEnv(envIdleTimeout); ok {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return s, &ParseError{Path: envIdleTimeout, Message: err.Error(), Err: err}
		}
		s.IdleTimeout = time.Duration(ms) * time.Millisecond
	}
	if v, ok := os.LookupEnv(envHistoryMax); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return s, &ParseError{Path: envHistoryMax, Message: err.Error(), Err: err}
		}
		s.HistoryMax = n
	}
	if v, ok := os.LookupEnv(envMaxRecursion); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return s, &ParseError{Path: envMaxRecursion, Message: err.Error(), Err: err}
		}
		s.MaxRecursion = n
	}
	return s, nil
}

// DefaultPath returns the default location of the configuration file.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config directory: %w", err)
	}
	return filepath.Join(configDir, "modality", "config.toml"), nil
}
