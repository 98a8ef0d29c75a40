package schema

import (
	"context"
	"fmt"

	"github.com/vvka-141/imdix/pkg/imdix"
)

// Backend validates one XML document against one schema.
// Issue lines are relative to document.
type Backend interface {
	Validate(ctx context.Context, document []byte, schemaName string, schema []byte) (Result, error)
}

// SchemaSource loads schema files by name. imdix.PrivilegedIO satisfies it.
type SchemaSource interface {
	ReadSchemaFile(name string) ([]byte, error)
}

// Validator validates IMDI and OPEX documents. It holds no state between
// calls beyond its configuration.
type Validator struct {
	backend Backend
	schemas SchemaSource
	variant imdix.SchemaVariant
}

// NewValidator creates a validator for the default schema variant.
func NewValidator(backend Backend, schemas SchemaSource, variant imdix.SchemaVariant) *Validator {
	if backend == nil {
		panic("schema.NewValidator: backend cannot be nil")
	}
	if schemas == nil {
		panic("schema.NewValidator: schemas cannot be nil")
	}
	if variant.Name == "" {
		variant = imdix.VariantIMDI
	}
	return &Validator{backend: backend, schemas: schemas, variant: variant}
}

// Variant returns the default schema variant.
func (v *Validator) Variant() imdix.SchemaVariant {
	return v.variant
}

// Validate validates a document against the default variant.
func (v *Validator) Validate(ctx context.Context, document string) (Result, error) {
	return v.ValidateVariant(ctx, document, v.variant)
}

// ValidateVariant validates a document against a specific schema variant.
// An error is returned only when validation could not run (schema missing,
// backend failure); an invalid document yields a Result with Valid false.
func (v *Validator) ValidateVariant(ctx context.Context, document string, variant imdix.SchemaVariant) (Result, error) {
	imdiSchema, err := v.load(variant.IMDISchema)
	if err != nil {
		return Result{}, err
	}

	if !IsOPEX(document) {
		return v.backend.Validate(ctx, []byte(document), variant.IMDISchema, imdiSchema)
	}

	payload, sm, err := ExtractPayload(document)
	if err != nil {
		r := Result{}
		r.AddError(0, "IMDI: %v", err)
		return r, nil
	}
	inner, err := v.backend.Validate(ctx, []byte(payload), variant.IMDISchema, imdiSchema)
	if err != nil {
		return Result{}, err
	}
	for i, issue := range inner.Errors {
		if line, _, ok := sm.Resolve(issue.Line); ok {
			inner.Errors[i].Line = line
		}
	}

	opexSchema, err := v.load(variant.OPEXSchema)
	if err != nil {
		return Result{}, err
	}
	outer, err := v.backend.Validate(ctx, []byte(document), variant.OPEXSchema, opexSchema)
	if err != nil {
		return Result{}, err
	}

	return merge(inner, "IMDI", outer, "OPEX"), nil
}

func (v *Validator) load(name string) ([]byte, error) {
	data, err := v.schemas.ReadSchemaFile(name)
	if err != nil {
		return nil, fmt.Errorf("load schema %s: %v: %w", name, err, imdix.ErrSchemaNotFound)
	}
	return data, nil
}
