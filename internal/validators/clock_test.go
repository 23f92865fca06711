package validators

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsClock(t *testing.T) {
	for _, s := range []string{"00:00", "08:30", "23:59"} {
		assert.True(t, IsClock(s), s)
	}
	for _, s := range []string{"", "8:30", "24:00", "12:60", "noon", "08:30:00"} {
		assert.False(t, IsClock(s), s)
	}
}

func TestRegister(t *testing.T) {
	require.NoError(t, Register())

	type day struct {
		Start string `binding:"omitempty,hhmm"`
	}
	assert.NoError(t, binding.Validator.ValidateStruct(day{Start: "08:00"}))
	assert.NoError(t, binding.Validator.ValidateStruct(day{}))
	assert.Error(t, binding.Validator.ValidateStruct(day{Start: "8am"}))
}
