package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/common"
)

// Registry holds the compiled schemas. Compile once, validate many; the
// compiled schemas are immutable and safe for concurrent use.
type Registry struct {
	raw      map[constants.DocumentType]map[string]any
	compiled map[constants.DocumentType]*jsonschema.Schema
	fused    *jsonschema.Schema
}

// NewRegistry compiles every built-in schema. The schemas are authored in
// code, so a compile failure is a programming error and surfaces eagerly.
func NewRegistry() (*Registry, error) {
	r := &Registry{
		raw:      buildSchemas(),
		compiled: make(map[constants.DocumentType]*jsonschema.Schema),
	}
	for docType, m := range r.raw {
		s, err := compile(string(docType), m)
		if err != nil {
			return nil, common.NewAppError("SCHEMA_COMPILE_ERROR",
				fmt.Sprintf("compiling %s schema", docType), err)
		}
		r.compiled[docType] = s
	}
	fused, err := compile("fused_submission", BuildFusedSchema())
	if err != nil {
		return nil, common.NewAppError("SCHEMA_COMPILE_ERROR", "compiling fused submission schema", err)
	}
	r.fused = fused
	return r, nil
}

func compile(name string, m map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	url := name + ".schema.json"
	if err := compiler.AddResource(url, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return compiler.Compile(url)
}

// Has reports whether a document type has a schema.
func (r *Registry) Has(t constants.DocumentType) bool {
	_, ok := r.compiled[t]
	return ok
}

// Validate checks a typed extraction payload against the schema for its
// document type. The payload round-trips through JSON so the schema sees
// the same shape a consumer of the serialized result would.
func (r *Registry) Validate(t constants.DocumentType, data any) error {
	s, ok := r.compiled[t]
	if !ok {
		return common.NewAppError("SCHEMA_NOT_FOUND",
			fmt.Sprintf("no schema registered for document type %q", t), common.ErrNotFound)
	}
	return validate(s, data, string(t))
}

// ValidateFused checks a fused submission record.
func (r *Registry) ValidateFused(data any) error {
	return validate(r.fused, data, "fused_submission")
}

func validate(s *jsonschema.Schema, data any, name string) error {
	b, err := json.Marshal(data)
	if err != nil {
		return common.NewAppError("SCHEMA_VALIDATION_ERROR",
			fmt.Sprintf("marshaling %s payload", name), err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return common.NewAppError("SCHEMA_VALIDATION_ERROR",
			fmt.Sprintf("unmarshaling %s payload", name), err)
	}
	if err := s.Validate(v); err != nil {
		return common.NewAppError("SCHEMA_VALIDATION_FAILED",
			fmt.Sprintf("%s payload does not match schema", name), err)
	}
	return nil
}

// RequiredFields lists the dot-separated required field paths of a
// document type's schema, sorted for stable output.
func (r *Registry) RequiredFields(t constants.DocumentType) []string {
	m, ok := r.raw[t]
	if !ok {
		return nil
	}
	var fields []string
	collectRequired(m, "", &fields)
	sort.Strings(fields)
	return fields
}

func collectRequired(node map[string]any, path string, out *[]string) {
	if required, ok := node["required"].([]string); ok {
		for _, f := range required {
			if path != "" {
				f = path + "." + f
			}
			*out = append(*out, f)
		}
	}
	props, ok := node["properties"].(map[string]any)
	if !ok {
		return
	}
	for key, value := range props {
		child, ok := value.(map[string]any)
		if !ok {
			continue
		}
		childPath := key
		if path != "" {
			childPath = path + "." + key
		}
		collectRequired(child, childPath, out)
		if items, ok := child["items"].(map[string]any); ok {
			collectRequired(items, childPath+"[]", out)
		}
	}
}
