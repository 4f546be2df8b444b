package config

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/joho/godotenv"
)

// Env is an immutable snapshot of environment variables used as the only
// substitution source when rendering configuration templates.
type Env struct {
	vars map[string]string
}

// EnvFromOS snapshots the current process environment.
func EnvFromOS() Env {
	return EnvFromList(os.Environ())
}

// EnvFromList builds a snapshot from KEY=VALUE pairs. Entries without '='
// are ignored; later duplicates win.
func EnvFromList(pairs []string) Env {
	vars := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			continue
		}
		vars[key] = value
	}
	return Env{vars: vars}
}

// EnvFromMap copies vars into a new snapshot.
func EnvFromMap(vars map[string]string) Env {
	return Env{vars: maps.Clone(vars)}
}

// LoadDotEnv reads the given dotenv files into a snapshot without touching
// the process environment. Values in later files override earlier ones.
func LoadDotEnv(paths ...string) (Env, error) {
	merged := Env{vars: map[string]string{}}
	for _, path := range paths {
		vars, err := godotenv.Read(path)
		if err != nil {
			return Env{}, fmt.Errorf("read env file %s: %w", path, err)
		}
		merged = merged.Merge(Env{vars: vars})
	}
	return merged, nil
}

// Lookup returns the value of name and whether it is defined.
func (e Env) Lookup(name string) (string, bool) {
	value, ok := e.vars[name]
	return value, ok
}

// Len returns the number of variables in the snapshot.
func (e Env) Len() int {
	return len(e.vars)
}

// Names returns the variable names in sorted order.
func (e Env) Names() []string {
	return slices.Sorted(maps.Keys(e.vars))
}

// Merge returns a new snapshot containing e overlaid with overrides.
func (e Env) Merge(overrides Env) Env {
	vars := make(map[string]string, len(e.vars)+len(overrides.vars))
	maps.Copy(vars, e.vars)
	maps.Copy(vars, overrides.vars)
	return Env{vars: vars}
}
