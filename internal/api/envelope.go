package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is the wire format version clients check before parsing.
const envelopeVersion = 1

// successEnvelope wraps successful response bodies.
type successEnvelope struct {
	V       int  `json:"v" doc:"Envelope format version"`
	Success bool `json:"success" doc:"Always true for successful responses"`
	Data    any  `json:"data,omitempty" doc:"Response payload"`
}

// errorEnvelope wraps error response bodies. Error carries the
// human-readable message; Code and Details are present when the
// underlying error provides them.
type errorEnvelope struct {
	V       int    `json:"v" doc:"Envelope format version"`
	Success bool   `json:"success" doc:"Always false for error responses"`
	Error   string `json:"error" doc:"Human-readable error message"`
	Code    string `json:"code,omitempty" doc:"Machine-readable error code"`
	Message string `json:"message,omitempty" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// EnvelopeTransformer wraps every response body in a versioned envelope so
// clients can parse success and error payloads uniformly.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		env := &errorEnvelope{
			V:       envelopeVersion,
			Success: false,
			Error:   apiErr.Message,
		}
		if apiErr.Code != "" {
			env.Code = apiErr.Code
			env.Message = apiErr.Message
			env.Details = apiErr.Details
		}
		return env, nil
	}

	return &successEnvelope{
		V:       envelopeVersion,
		Success: true,
		Data:    v,
	}, nil
}
