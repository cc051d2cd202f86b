package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeEnvelope_Tagged(t *testing.T) {
	body := []byte(`{"type":"create_task","data":{"title":"hello"}}`)

	env := DecodeEnvelope(body)
	assert.Equal(t, "create_task", env.Type)
	assert.JSONEq(t, `{"title":"hello"}`, string(env.Data))
}

func TestDecodeEnvelope_MissingType(t *testing.T) {
	body := []byte(`{"data":{"title":"hello"}}`)

	env := DecodeEnvelope(body)
	assert.Equal(t, TypeUnknown, env.Type)
	assert.Equal(t, body, []byte(env.Data))
}

func TestDecodeEnvelope_NotJSON(t *testing.T) {
	body := []byte("plain text payload")

	env := DecodeEnvelope(body)
	assert.Equal(t, TypeUnknown, env.Type)
	assert.Equal(t, body, []byte(env.Data))
}
