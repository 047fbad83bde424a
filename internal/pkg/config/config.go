// Package config exposes typed, read-only access to runtime configuration.
package config

import (
	"io"
	"time"
)

// Config defines a set of methods for retrieving configuration values of various types.
//
// Missing keys yield the zero value of the requested type unless a default
// was registered by the implementation.
type Config interface {
	io.Closer

	// GetBool retrieves the value associated with key as a bool.
	GetBool(key string) bool

	// GetString retrieves the value associated with key as a string.
	GetString(key string) string

	// GetInt retrieves the value associated with key as an int.
	GetInt(key string) int

	// GetUint retrieves the value associated with key as a uint.
	GetUint(key string) uint

	// GetFloat64 retrieves the value associated with key as a float64.
	GetFloat64(key string) float64

	// GetSecond retrieves the value associated with key as a number of seconds.
	GetSecond(key string) time.Duration

	// GetMillisecond retrieves the value associated with key as a number of milliseconds.
	GetMillisecond(key string) time.Duration

	// GetArray retrieves the value associated with key as a slice of strings.
	// Values are stored either as a YAML list or as <element1>,<element2>,...
	GetArray(key string) []string
}
