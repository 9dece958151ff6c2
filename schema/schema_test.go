// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddx2x/crossgate/schema"
	"github.com/ddx2x/crossgate/unstructed"
)

type widget struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

func TestValidateUnregisteredKindPasses(t *testing.T) {
	r := schema.NewRegistry()
	err := r.Validate("unknown", unstructed.New(map[string]any{"anything": true}))
	assert.NoError(t, err)
}

func TestRegisterJSONAndValidate(t *testing.T) {
	r := schema.NewRegistry()
	raw := []byte(`{
		"type": "object",
		"properties": {"age": {"type": "number"}},
		"required": ["age"]
	}`)
	require.NoError(t, r.RegisterJSON("person", raw))

	err := r.Validate("person", unstructed.New(map[string]any{"age": float64(30)}))
	assert.NoError(t, err)

	err = r.Validate("person", unstructed.New(map[string]any{"name": "bo"}))
	assert.Error(t, err)
}

func TestRegisterTypeReflectsSchema(t *testing.T) {
	r := schema.NewRegistry()
	require.NoError(t, r.RegisterType("widget", widget{}))

	err := r.Validate("widget", unstructed.New(map[string]any{"name": "gear", "level": float64(2)}))
	assert.NoError(t, err)
}

func TestRegisterYAMLAndValidate(t *testing.T) {
	r := schema.NewRegistry()
	raw := []byte(`
type: object
properties:
  age:
    type: number
required:
  - age
`)
	require.NoError(t, r.RegisterYAML("person", raw))

	err := r.Validate("person", unstructed.New(map[string]any{"age": float64(30)}))
	assert.NoError(t, err)

	err = r.Validate("person", unstructed.New(map[string]any{"name": "bo"}))
	assert.Error(t, err)
}

func TestRegisterYAMLRejectsMalformedManifest(t *testing.T) {
	r := schema.NewRegistry()
	err := r.RegisterYAML("broken", []byte("not: [valid: yaml"))
	assert.Error(t, err)
}

func TestCompiledSchemaIsMemoized(t *testing.T) {
	r := schema.NewRegistry()
	raw := []byte(`{"type": "object"}`)
	require.NoError(t, r.RegisterJSON("kind", raw))

	for i := 0; i < 3; i++ {
		assert.NoError(t, r.Validate("kind", unstructed.New(map[string]any{})))
	}
}
