package configx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/knadh/koanf"
	"github.com/ory/jsonschema/v3"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

func newCompiler(schema []byte) (string, *jsonschema.Compiler, error) {
	id := gjson.GetBytes(schema, "$id").String()
	if id == "" {
		id = fmt.Sprintf("%s.json", uuid.Must(uuid.NewRandom()).String())
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(id, bytes.NewBuffer(schema)); err != nil {
		return "", nil, errors.WithStack(err)
	}

	// DO NOT REMOVE THIS
	compiler.ExtractAnnotations = true

	return id, compiler, nil
}

func validate(ctx context.Context, rawSchema []byte, k *koanf.Koanf) error {
	id, compiler, err := newCompiler(rawSchema)
	if err != nil {
		return err
	}

	schema, err := compiler.Compile(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	doc, err := json.Marshal(k.Raw())
	if err != nil {
		return errors.WithStack(err)
	}

	if err := schema.Validate(bytes.NewReader(doc)); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (p *Provider) printHumanReadableValidationErrors(k *koanf.Koanf, w io.Writer, err error) {
	if err == nil {
		return
	}

	doc, _ := json.Marshal(k.Raw())

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		_, _ = fmt.Fprintf(w, "The configuration could not be validated: %s\n", err)
		return
	}

	_, _ = fmt.Fprintln(w, "The configuration contains values or keys which are invalid:")
	writeValidationError(w, doc, ve)
}

func writeValidationError(w io.Writer, doc []byte, ve *jsonschema.ValidationError) {
	if len(ve.Causes) == 0 {
		path := pointerToPath(ve.InstancePtr)
		if path == "" {
			_, _ = fmt.Fprintf(w, "- (root): %s\n", ve.Message)
			return
		}
		_, _ = fmt.Fprintf(w, "- %s: %s\n", path, ve.Message)
		if v := gjson.GetBytes(doc, path); v.Exists() {
			_, _ = fmt.Fprintf(w, "  got: %s\n", v.Raw)
		}
		return
	}

	for _, cause := range ve.Causes {
		writeValidationError(w, doc, cause)
	}
}

// pointerToPath turns "#/log/level" into the gjson path "log.level".
func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(strings.TrimPrefix(ptr, "#"), "/")
	if ptr == "" {
		return ""
	}
	parts := strings.Split(ptr, "/")
	for i, part := range parts {
		part = strings.ReplaceAll(strings.ReplaceAll(part, "~1", "/"), "~0", "~")
		parts[i] = gjson.Escape(part)
	}
	return strings.Join(parts, ".")
}
