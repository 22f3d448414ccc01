package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// localName turns "dir/config.json5" into "dir/config.local.json5".
func localName(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + ".local" + ext
}

func readLayer[T any](name string, out *T) (bool, error) {
	contents, err := os.ReadFile(name)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(contents) == 0 {
		return false, nil
	}

	var layer T
	err = json5.Unmarshal(contents, &layer)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", name, err)
	}
	err = mergo.Merge(out, layer, mergo.WithOverride)
	if err != nil {
		return false, err
	}
	return true, nil
}

// ReadConfig builds a configuration from the following layers, where a
// higher number takes priority:
//  1. <name>.<ext>
//  2. <name>.local.<ext>
//  3. environment variables named by `env` struct tags
//
// A struct field's `env` tag is a prefix for the fields below it, joined
// with "_", so `env:"OUTAGE_DB"` over `env:"URL"` reads OUTAGE_DB_URL. An
// empty tag on a struct field adds no prefix.
// Empty variables are ignored. os.ErrNotExist is returned only if no layer
// provided anything.
func ReadConfig[T any](name string) (T, error) {
	var out T

	foundDefault, err := readLayer(name, &out)
	if err != nil {
		return out, err
	}

	local := localName(name)
	foundLocal, err := readLayer(local, &out)
	if err != nil {
		return out, err
	}
	if foundLocal {
		slog.Info("merging config with local overrides", "local", local)
	}

	foundEnv, err := ApplyEnv(&out)
	if err != nil {
		return out, err
	}

	if !foundDefault && !foundLocal && !foundEnv {
		return out, os.ErrNotExist
	}
	return out, nil
}

// ApplyEnv overwrites the fields of `out` that have a non-empty environment
// variable, it reports whether any were set.
func ApplyEnv[T any](out *T) (bool, error) {
	var overlay T
	found, err := envStruct(reflect.ValueOf(&overlay).Elem(), "")
	if err != nil || !found {
		return false, err
	}
	err = mergo.Merge(out, overlay, mergo.WithOverride)
	if err != nil {
		return false, err
	}
	return true, nil
}

func envStruct(v reflect.Value, prefix string) (bool, error) {
	found := false
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag, ok := field.Tag.Lookup("env")
		if !ok || !field.IsExported() {
			continue
		}
		key := tag
		if prefix != "" && tag != "" {
			key = prefix + "_" + tag
		} else if prefix != "" {
			key = prefix
		}

		fv := v.Field(i)
		if fv.Kind() == reflect.Struct {
			set, err := envStruct(fv, key)
			if err != nil {
				return false, err
			}
			found = found || set
			continue
		}

		raw := os.Getenv(key)
		if raw == "" {
			continue
		}
		err := setField(fv, raw)
		if err != nil {
			return false, fmt.Errorf("env %s: %w", key, err)
		}
		found = true
	}
	return found, nil
}

func setField(fv reflect.Value, raw string) error {
	switch fv.Kind() {
	case reflect.String:
		fv.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		fv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetInt(n)
	default:
		return fmt.Errorf("unsupported field kind %s", fv.Kind())
	}
	return nil
}

// ReadRecursively is ReadConfig, but it walks up from the working directory
// to the filesystem root until it finds a file matching `name`.
func ReadRecursively[T any](name string) (T, error) {
	var out T

	current, err := os.Getwd()
	if err != nil {
		return out, err
	}
	for {
		path := filepath.Join(current, name)
		if fileExists(path) || fileExists(localName(path)) {
			return ReadConfig[T](path)
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	return out, os.ErrNotExist
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
