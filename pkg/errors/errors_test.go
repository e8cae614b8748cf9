package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewUpstreamErrorPrefersMessageField(t *testing.T) {
	err := NewUpstreamError(500, []byte(`{"message":"template not found"}`))
	assert.Equal(t, "template not found", err.Error())
	assert.Equal(t, 500, err.Status)
}

func TestNewUpstreamErrorFallsBackToErrorField(t *testing.T) {
	err := NewUpstreamError(422, []byte(`{"error":"submitter email invalid"}`))
	assert.Equal(t, "submitter email invalid", err.Error())
}

func TestNewUpstreamErrorSynthesizesOnUnparseableBody(t *testing.T) {
	err := NewUpstreamError(502, []byte("<html>bad gateway</html>"))
	assert.Contains(t, err.Error(), "status 502")
	assert.Contains(t, err.Body, "bad gateway")
}

func TestUpstreamErrorWrapsTransportFailure(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := &UpstreamError{Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "unreachable")
}

func TestConfigurationError(t *testing.T) {
	err := &ConfigurationError{Setting: "DOCUSEAL_API_KEY"}
	assert.Equal(t, "DOCUSEAL_API_KEY is not configured", err.Error())
}
