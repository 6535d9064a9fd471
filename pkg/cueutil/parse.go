// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Unify compiles schema and data, unifies data with the schema definition
// and validates the result. The returned value is ready to be decoded.
func Unify(schema string, data []byte, definition string, opts ...Option) (cue.Value, error) {
	o := resolveOptions(opts)
	filename := o.filename

	if err := CheckFileSize(data, o.maxFileSize, filename); err != nil {
		return cue.Value{}, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(schema)
	if schemaValue.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: compile schema: %w", schemaValue.Err())
	}

	def := schemaValue.LookupPath(cue.ParsePath(definition))
	if def.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s: %w", definition, def.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if userValue.Err() != nil {
		return cue.Value{}, FormatError(userValue.Err(), filename)
	}

	unified := def.Unify(userValue)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return cue.Value{}, FormatError(err, filename)
	}

	return unified, nil
}

// Decode runs Unify and decodes the unified value into a new T.
func Decode[T any](schema string, data []byte, definition string, opts ...Option) (*T, error) {
	unified, err := Unify(schema, data, definition, opts...)
	if err != nil {
		return nil, err
	}

	var out T
	if err := unified.Decode(&out); err != nil {
		return nil, FormatError(err, resolveOptions(opts).filename)
	}
	return &out, nil
}
