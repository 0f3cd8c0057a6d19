package config

import (
	"os"
)

// Environment exposes the process state the resolver depends on.
type Environment interface {
	LookupEnv(key string) (string, bool)
	WorkingDirectory() (string, error)
}

// OSEnvironment reads the real process environment.
type OSEnvironment struct{}

// LookupEnv returns the value of an environment variable.
func (OSEnvironment) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// WorkingDirectory returns the process working directory.
func (OSEnvironment) WorkingDirectory() (string, error) {
	return os.Getwd()
}

var _ Environment = OSEnvironment{}
