package core

import (
	"math"

	"github.com/pelletier/go-toml"
)

var config *toml.Tree

// LoadConfig loads the forwarder configuration from the specified TOML file.
func LoadConfig(file string) {
	var err error
	config, err = toml.LoadFile(file)
	if err != nil {
		LogFatal("Config", "unable to load configuration file: ", err)
	}
}

// LoadConfigString loads configuration from an in-memory TOML document,
// used by tests that don't want to touch the filesystem.
func LoadConfigString(doc string) error {
	t, err := toml.Load(doc)
	if err != nil {
		return err
	}
	config = t
	return nil
}

// GetConfigIntDefault returns the integer at key, or def if absent/wrong type.
func GetConfigIntDefault(key string, def int) int {
	if config == nil {
		return def
	}
	valRaw := config.Get(key)
	if valRaw == nil {
		return def
	}
	if val, ok := valRaw.(int64); ok && val >= math.MinInt32 && val <= math.MaxInt32 {
		return int(val)
	}
	return def
}

// GetConfigStringDefault returns the string at key, or def if absent/wrong type.
func GetConfigStringDefault(key string, def string) string {
	if config == nil {
		return def
	}
	valRaw := config.Get(key)
	if valRaw == nil {
		return def
	}
	if val, ok := valRaw.(string); ok {
		return val
	}
	return def
}

// GetConfigUint16Default returns the uint16 at key, or def if absent/out of range.
func GetConfigUint16Default(key string, def uint16) uint16 {
	if config == nil {
		return def
	}
	valRaw := config.Get(key)
	if valRaw == nil {
		return def
	}
	if val, ok := valRaw.(int64); ok && val > 0 && val <= math.MaxUint16 {
		return uint16(val)
	}
	return def
}

// GetConfigBoolDefault returns the bool at key, or def if absent/wrong type.
func GetConfigBoolDefault(key string, def bool) bool {
	if config == nil {
		return def
	}
	valRaw := config.Get(key)
	if valRaw == nil {
		return def
	}
	if val, ok := valRaw.(bool); ok {
		return val
	}
	return def
}

// GetConfigArrayString returns the string array at key, or nil if absent.
func GetConfigArrayString(key string) []string {
	if config == nil {
		return nil
	}
	array := config.GetArray(key)
	if array == nil {
		return nil
	}
	if val, ok := array.([]string); ok {
		return val
	}
	return nil
}
