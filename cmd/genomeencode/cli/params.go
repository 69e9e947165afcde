// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/pflag"
)

// FlagsFromParams returns a flag set bound to the tagged fields of
// params, which must point to a struct. Invalid params are a
// programming error and panic.
//
//	var params compressParams
//	command := &cli.Command{
//	    Params: func() any { return &params },
//	    Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
//	        // params is populated here
//	    },
//	}
func FlagsFromParams(name string, params any) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	if err := BindFlags(params, flagSet); err != nil {
		panic(fmt.Sprintf("cli.FlagsFromParams(%q): %v", name, err))
	}
	return flagSet
}

// BindFlags registers a flag for every field of params tagged
// flag:"name" or flag:"name,n" (n is the shorthand). The desc tag is
// the help text. The default tag is parsed by the flag's own value
// type, so it is written exactly as on the command line. Embedded
// structs contribute their fields, which is how [JSONOutput] and the
// shared parameter groups attach to a command.
//
// Supported field types are string, bool and int.
func BindFlags(params any, flagSet *pflag.FlagSet) error {
	value := reflect.ValueOf(params)
	if value.Kind() != reflect.Pointer || value.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("params must be a pointer to a struct, got %T", params)
	}
	return bindFields(value.Elem(), flagSet)
}

func bindFields(structValue reflect.Value, flagSet *pflag.FlagSet) error {
	structType := structValue.Type()
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			if err := bindFields(structValue.Field(i), flagSet); err != nil {
				return err
			}
			continue
		}
		tag, tagged := field.Tag.Lookup("flag")
		if !tagged {
			continue
		}

		name, shorthand, _ := strings.Cut(tag, ",")
		usage := field.Tag.Get("desc")
		switch target := structValue.Field(i).Addr().Interface().(type) {
		case *string:
			flagSet.StringVarP(target, name, shorthand, "", usage)
		case *bool:
			flagSet.BoolVarP(target, name, shorthand, false, usage)
		case *int:
			flagSet.IntVarP(target, name, shorthand, 0, usage)
		default:
			return fmt.Errorf("field %s: unsupported type %s for --%s", field.Name, field.Type, name)
		}

		if defaultValue, ok := field.Tag.Lookup("default"); ok {
			flag := flagSet.Lookup(name)
			if err := flag.Value.Set(defaultValue); err != nil {
				return fmt.Errorf("field %s: default for --%s: %w", field.Name, name, err)
			}
			flag.DefValue = defaultValue
		}
	}
	return nil
}
