package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
)

// EnvPrefix namespaced variables win over the bare names, so VACANTES_DB_HOST
// overrides DB_HOST when both are set.
const EnvPrefix = "VACANTES_"

func lookupEnv(name string) (string, bool) {
	if v, ok := os.LookupEnv(EnvPrefix + name); ok {
		return v, true
	}
	return os.LookupEnv(name)
}

// processStructFields overrides every field carrying an env tag, descending
// into nested section structs.
func processStructFields(target interface{}) error {
	v := reflect.Indirect(reflect.ValueOf(target))
	if v.Kind() != reflect.Struct {
		return nil
	}
	return applyEnv(v)
}

func applyEnv(section reflect.Value) error {
	t := section.Type()
	for i := 0; i < t.NumField(); i++ {
		field, meta := section.Field(i), t.Field(i)

		if field.Kind() == reflect.Struct {
			if err := applyEnv(field); err != nil {
				return err
			}
			continue
		}

		name := meta.Tag.Get("env")
		if name == "" {
			continue
		}
		raw, ok := lookupEnv(name)
		if !ok {
			continue
		}
		if err := assign(field, strings.TrimSpace(raw)); err != nil {
			return fmt.Errorf("%s (%s): %w", name, meta.Name, err)
		}
	}
	return nil
}

// assign parses raw into the field's kind. Durations stay strings in Config
// and are parsed by validateConfig.
func assign(field reflect.Value, raw string) error {
	if !field.CanSet() {
		return fmt.Errorf("field is not settable")
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("want a boolean, got %q", raw)
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("want an integer, got %q", raw)
		}
		field.SetInt(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("want a number, got %q", raw)
		}
		field.SetFloat(f)
	default:
		return fmt.Errorf("unsupported kind %s", field.Kind())
	}
	return nil
}
