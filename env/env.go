// Package env provides the environment-variable sources read during client
// configuration resolution.
package env

import (
	"fmt"
	"maps"
	"os"

	"github.com/joho/godotenv"
)

// Source looks up environment variables.
type Source interface {
	Lookup(key string) (string, bool)
}

// OS reads the process environment at lookup time.
func OS() Source { return osSource{} }

type osSource struct{}

func (osSource) Lookup(key string) (string, bool) { return os.LookupEnv(key) }

// Map is a fixed set of variables. The zero value is an empty environment.
type Map map[string]string

func (m Map) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Layered consults each source in order and returns the first hit.
type Layered []Source

func (l Layered) Lookup(key string) (string, bool) {
	for _, s := range l {
		if s == nil {
			continue
		}
		if v, ok := s.Lookup(key); ok {
			return v, true
		}
	}
	return "", false
}

// Dotenv reads variables from .env files. The process environment takes
// precedence over file values; later files override earlier ones.
// With no paths, ".env" in the working directory is read.
func Dotenv(paths ...string) (Source, error) {
	vars, err := godotenv.Read(paths...)
	if err != nil {
		return nil, fmt.Errorf("reading dotenv: %w", err)
	}
	return Layered{OS(), Map(vars)}, nil
}

// Snapshot copies the given keys from src into a Map. Keys that are absent
// from src are absent from the result.
func Snapshot(src Source, keys ...string) Map {
	out := make(Map, len(keys))
	for _, k := range keys {
		if v, ok := src.Lookup(k); ok {
			out[k] = v
		}
	}
	return out
}

// Merge returns a new Map holding the variables of all maps, later maps
// winning on conflicts.
func Merge(ms ...Map) Map {
	out := make(Map)
	for _, m := range ms {
		maps.Copy(out, m)
	}
	return out
}
