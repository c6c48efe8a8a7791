package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const maxBodyBytes = 64 << 10

const scoreSchemaJSON = `{
	"type": "object",
	"required": ["answers"],
	"properties": {
		"answers": {
			"type": "array",
			"maxItems": 256,
			"items": {"type": ["integer", "null"]}
		}
	}
}`

const submissionSchemaJSON = `{
	"type": "object",
	"required": ["answers", "contact"],
	"properties": {
		"answers": {
			"type": "array",
			"maxItems": 256,
			"items": {"type": ["integer", "null"]}
		},
		"contact": {"$ref": "#/$defs/contact"}
	},
	"$defs": {
		"contact": {
			"type": "object",
			"required": ["email"],
			"properties": {
				"name": {"type": "string", "maxLength": 200},
				"email": {"type": "string", "minLength": 3, "maxLength": 254},
				"company": {"type": "string", "maxLength": 200},
				"phone": {"type": "string", "maxLength": 50}
			}
		}
	}
}`

var (
	scoreSchema      = mustCompile("score", scoreSchemaJSON)
	submissionSchema = mustCompile("submission", submissionSchemaJSON)
)

var errPayloadTooLarge = errors.New("payload too large")

func mustCompile(name, raw string) *jsonschema.Schema {
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		panic(fmt.Sprintf("parse %s schema: %v", name, err))
	}
	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(url, parsed); err != nil {
		panic(fmt.Sprintf("add %s schema: %v", name, err))
	}
	compiled, err := c.Compile(url)
	if err != nil {
		panic(fmt.Sprintf("compile %s schema: %v", name, err))
	}
	return compiled
}

// decodeValidated reads the request body, checks it against schema and decodes it into dst.
func decodeValidated(r *http.Request, schema *jsonschema.Schema, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return errPayloadTooLarge
	}
	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return json.Unmarshal(body, dst)
}
