package protocol

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_Messages(t *testing.T) {
	cases := map[Code]string{
		Fail:           "Failed to manipulate protocol factory",
		Registered:     "The scheme has been registered",
		NotRegistered:  "The scheme has not been registered",
		Intercepted:    "The scheme has been intercepted",
		NotIntercepted: "The scheme has not been intercepted",
		Code(99):       "Unexpected error",
	}
	for code, msg := range cases {
		assert.Equal(t, msg, code.Message())
	}
}

func TestCode_Err(t *testing.T) {
	assert.NoError(t, OK.Err(OpRegister, "app"))

	err := NotRegistered.Err(OpUnregister, "app")
	assert.EqualError(t, err, "The scheme has not been registered")
	assert.True(t, errors.Is(err, ErrNotRegistered))
	assert.False(t, errors.Is(err, ErrNotIntercepted))

	wrapped := fmt.Errorf("manifest: %w", err)
	var pe *Error
	assert.True(t, errors.As(wrapped, &pe))
	assert.Equal(t, "app", pe.Scheme)
	assert.Equal(t, OpUnregister, pe.Op)
}
