/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package schema lints stored station documents against a JSON Schema.
package schema

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed station.schema.json
var stationSchema string

// ErrInvalid wraps every schema violation.
var ErrInvalid = errors.New("document does not match the station schema")

// Validator checks raw documents against the compiled station schema.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles the embedded station schema.
func NewValidator() (*Validator, error) {
	s, err := gojsonschema.NewSchemaLoader().Compile(gojsonschema.NewStringLoader(stationSchema))
	if err != nil {
		return nil, fmt.Errorf("compile station schema: %w", err)
	}
	return &Validator{schema: s}, nil
}

// Validate returns nil when doc is valid. Otherwise the error lists one
// violation per line and wraps ErrInvalid.
func (v *Validator) Validate(doc []byte) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("cannot validate document: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var b strings.Builder
	for _, e := range result.Errors() {
		fmt.Fprintf(&b, "\n- %s", e)
	}
	return fmt.Errorf("%w:%s", ErrInvalid, b.String())
}

// ValidateValue marshals value through the Go loader and validates it.
func (v *Validator) ValidateValue(value any) error {
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(value))
	if err != nil {
		return fmt.Errorf("cannot validate value: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
	}
	return nil
}
