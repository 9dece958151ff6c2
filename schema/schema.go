// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package schema maintains a per-entity-kind JSON Schema registry used
// to validate records before they are persisted. Each kind either
// reflects its schema from a Go struct or registers a hand-written
// JSON Schema document directly.
package schema

import (
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/samber/oops"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/ddx2x/crossgate/unstructed"
)

// Registry holds one compiled schema per entity kind. The zero value
// is usable; compilation is memoized per kind via sync.Once.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	once    sync.Once
	raw     json.RawMessage
	schema  *jschema.Schema
	compErr error
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// RegisterType reflects a JSON Schema from a Go struct (via
// invopop/jsonschema) and registers it under kind.
func (r *Registry) RegisterType(kind string, sample any) error {
	reflector := jsonschema.Reflector{DoNotReference: true}
	s := reflector.Reflect(sample)
	s.Title = kind

	data, err := json.Marshal(s)
	if err != nil {
		return oops.Code("SCHEMA_REFLECT_ERROR").With("kind", kind).Wrapf(err, "reflecting schema for kind %q", kind)
	}
	return r.RegisterJSON(kind, data)
}

// RegisterJSON registers a raw JSON Schema document under kind.
func (r *Registry) RegisterJSON(kind string, raw json.RawMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[kind] = &entry{raw: append(json.RawMessage(nil), raw...)}
	return nil
}

// RegisterYAML registers a JSON Schema document authored as a YAML
// manifest under kind. Hand-written schemas are easier to review in
// YAML than as compact JSON, so operators may keep them as .yaml
// files alongside migrations and load them at startup.
func (r *Registry) RegisterYAML(kind string, raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return oops.Code("SCHEMA_MANIFEST_ERROR").With("kind", kind).Wrapf(err, "parsing YAML schema manifest for kind %q", kind)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return oops.Code("SCHEMA_MANIFEST_ERROR").With("kind", kind).Wrapf(err, "converting YAML schema manifest for kind %q", kind)
	}
	return r.RegisterJSON(kind, data)
}

// Validate checks record against kind's registered schema. A kind
// with no registered schema passes validation unconditionally.
func (r *Registry) Validate(kind string, record unstructed.Unstructed) error {
	r.mu.Lock()
	e, ok := r.entries[kind]
	r.mu.Unlock()
	if !ok {
		return nil
	}

	sch, err := r.compiled(kind, e)
	if err != nil {
		return err
	}

	data, err := json.Marshal(map[string]any(record))
	if err != nil {
		return oops.Code("SCHEMA_MARSHAL_ERROR").With("kind", kind).Wrapf(err, "marshaling record for validation")
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return oops.Code("SCHEMA_MARSHAL_ERROR").With("kind", kind).Wrapf(err, "round-tripping record for validation")
	}

	if err := sch.Validate(doc); err != nil {
		return oops.Code("SCHEMA_VALIDATION_ERROR").With("kind", kind).Wrapf(err, "record does not satisfy schema for kind %q", kind)
	}
	return nil
}

func (r *Registry) compiled(kind string, e *entry) (*jschema.Schema, error) {
	e.once.Do(func() {
		var schemaData any
		if err := json.Unmarshal(e.raw, &schemaData); err != nil {
			e.compErr = oops.Code("SCHEMA_COMPILE_ERROR").With("kind", kind).Wrapf(err, "parsing schema JSON for kind %q", kind)
			return
		}
		c := jschema.NewCompiler()
		resourceID := kind + ".json"
		if err := c.AddResource(resourceID, schemaData); err != nil {
			e.compErr = oops.Code("SCHEMA_COMPILE_ERROR").With("kind", kind).Wrapf(err, "adding schema resource for kind %q", kind)
			return
		}
		sch, err := c.Compile(resourceID)
		if err != nil {
			e.compErr = oops.Code("SCHEMA_COMPILE_ERROR").With("kind", kind).Wrapf(err, "compiling schema for kind %q", kind)
			return
		}
		e.schema = sch
	})
	return e.schema, e.compErr
}
