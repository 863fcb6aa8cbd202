package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	oapimiddleware "github.com/oapi-codegen/nethttp-middleware"
)

// NewSpecValidator parses an embedded OpenAPI document and returns request
// validation middleware so handlers only ever see payloads that match the
// contract.
func NewSpecValidator(specData []byte) (func(http.Handler) http.Handler, error) {
	loader := openapi3.NewLoader()

	spec, err := loader.LoadFromData(specData)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := spec.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}

	return oapimiddleware.OapiRequestValidatorWithOptions(spec, &oapimiddleware.Options{
		Options: openapi3filter.Options{
			AuthenticationFunc: validateBearerPresence,
		},
	}), nil
}

// validateBearerPresence enforces the presence of a bearer token for
// operations that declare bearerAuth. Verification itself happens in the
// auth middleware; operations with empty security pass through untouched.
func validateBearerPresence(ctx context.Context, input *openapi3filter.AuthenticationInput) error {
	if input == nil || input.SecuritySchemeName != "bearerAuth" {
		return nil
	}

	r := input.RequestValidationInput.Request
	if r == nil {
		return fmt.Errorf("no request in validation input")
	}

	authz := r.Header.Get("Authorization")
	if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return fmt.Errorf("missing or invalid Authorization header")
	}
	return nil
}
