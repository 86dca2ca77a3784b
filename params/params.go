// Package params validates the server-side configuration each network adapter receives and
// reads the publisher's local extras.
package params

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/xeipuuv/gojsonschema"

	"github.com/prebid/mediation-adapters/errortypes"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

// Validator checks server params against one JSON schema per network.
type Validator interface {
	// Validate returns a BadConfig error describing every schema violation.
	Validate(network string, params map[string]string) error
	// Canonical renames keys to the spelling the network's schema uses, matching case
	// insensitively. Unknown keys are kept as they are.
	Canonical(network string, params map[string]string) map[string]string
	// Schema returns the raw schema for network.
	Schema(network string) string
	Networks() []string
}

// NewParamsValidator loads the schemas shipped with the module.
func NewParamsValidator() (Validator, error) {
	return NewParamsValidatorFS(schemaFiles, "schemas")
}

// NewParamsValidatorFS loads every <network>.json schema found in dir.
func NewParamsValidatorFS(fsys fs.FS, dir string) (Validator, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("Failed to read JSON schemas from directory %s. %v", dir, err)
	}

	v := &paramsValidator{
		schemaContents: make(map[string]string, len(entries)),
		parsedSchemas:  make(map[string]*gojsonschema.Schema, len(entries)),
		properties:     make(map[string]map[string]string, len(entries)),
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		network := strings.TrimSuffix(entry.Name(), ".json")

		fileBytes, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("Failed to read file %s/%s: %v", dir, entry.Name(), err)
		}
		loadedSchema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(fileBytes))
		if err != nil {
			return nil, fmt.Errorf("Failed to load json schema at %s/%s: %v", dir, entry.Name(), err)
		}
		props, err := schemaProperties(fileBytes)
		if err != nil {
			return nil, fmt.Errorf("Failed to read properties of %s/%s: %v", dir, entry.Name(), err)
		}

		v.schemaContents[network] = string(fileBytes)
		v.parsedSchemas[network] = loadedSchema
		v.properties[network] = props
	}
	return v, nil
}

type paramsValidator struct {
	schemaContents map[string]string
	parsedSchemas  map[string]*gojsonschema.Schema
	// properties maps a lower cased key to its schema spelling, per network.
	properties map[string]map[string]string
}

func (v *paramsValidator) Validate(network string, params map[string]string) error {
	schema, ok := v.parsedSchemas[network]
	if !ok {
		return &errortypes.BadConfig{Message: fmt.Sprintf("no params schema for network %s", network)}
	}
	doc := make(map[string]interface{}, len(params))
	for k, val := range params {
		doc[k] = val
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return &errortypes.BadConfig{Message: err.Error()}
	}
	if !result.Valid() {
		errBuilder := bytes.NewBuffer(make([]byte, 0, 300))
		for i, desc := range result.Errors() {
			if i > 0 {
				errBuilder.WriteString("; ")
			}
			errBuilder.WriteString(desc.String())
		}
		return &errortypes.BadConfig{Message: fmt.Sprintf("invalid %s params: %s", network, errBuilder.String())}
	}
	return nil
}

func (v *paramsValidator) Canonical(network string, params map[string]string) map[string]string {
	props := v.properties[network]
	out := make(map[string]string, len(params))
	for k, val := range params {
		if canonical, ok := props[strings.ToLower(k)]; ok {
			k = canonical
		}
		out[k] = val
	}
	return out
}

func (v *paramsValidator) Schema(network string) string {
	return v.schemaContents[network]
}

func (v *paramsValidator) Networks() []string {
	names := make([]string, 0, len(v.parsedSchemas))
	for name := range v.parsedSchemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func schemaProperties(schema []byte) (map[string]string, error) {
	props := make(map[string]string)
	err := jsonparser.ObjectEach(schema, func(key []byte, _ []byte, _ jsonparser.ValueType, _ int) error {
		props[strings.ToLower(string(key))] = string(key)
		return nil
	}, "properties")
	if err == jsonparser.KeyPathNotFoundError {
		return props, nil
	}
	return props, err
}
