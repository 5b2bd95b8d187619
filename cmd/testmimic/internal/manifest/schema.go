// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"go.chromium.org/testmimic/errors"
)

//go:embed manifest.schema.json
var schemaData []byte

const schemaURL = "manifest.schema.json"

var (
	schema     *jsonschema.Schema
	schemaOnce sync.Once
	schemaErr  error
)

// compileSchema compiles the embedded schema once.
func compileSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaData))
		if err != nil {
			schemaErr = errors.Wrap(err, "unmarshal manifest schema")
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = errors.Wrap(err, "add manifest schema resource")
			return
		}
		if schema, err = c.Compile(schemaURL); err != nil {
			schemaErr = errors.Wrap(err, "compile manifest schema")
		}
	})
	return schema, schemaErr
}

// validate checks a YAML document decoded into generic values against the
// manifest schema.
func validate(doc interface{}) error {
	sch, err := compileSchema()
	if err != nil {
		return err
	}

	// Round-trip through JSON so the validator sees JSON types rather than
	// the map[interface{}]interface{} values produced by yaml.v2.
	conv, err := jsonValue(doc)
	if err != nil {
		return err
	}
	b, err := json.Marshal(conv)
	if err != nil {
		return errors.Wrap(err, "convert manifest to JSON")
	}
	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return errors.Wrap(err, "convert manifest to JSON")
	}
	if err := sch.Validate(v); err != nil {
		return errors.Wrap(err, "manifest validation failed")
	}
	return nil
}

// jsonValue converts a value decoded by yaml.v2 into one encoding/json can
// marshal.
func jsonValue(v interface{}) (interface{}, error) {
	switch v := v.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(v))
		for k, e := range v {
			ks, ok := k.(string)
			if !ok {
				return nil, errors.Errorf("non-string key %v", k)
			}
			c, err := jsonValue(e)
			if err != nil {
				return nil, err
			}
			m[ks] = c
		}
		return m, nil
	case []interface{}:
		s := make([]interface{}, len(v))
		for i, e := range v {
			c, err := jsonValue(e)
			if err != nil {
				return nil, err
			}
			s[i] = c
		}
		return s, nil
	case nil, bool, string, int, int64, uint64, float64:
		return v, nil
	default:
		return nil, errors.Errorf("unsupported value %#v", v)
	}
}
