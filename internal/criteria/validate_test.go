package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_PortableSelector(t *testing.T) {
	sel := NewSelector(DefaultTargetType)
	sel.Predicate = Of(NewExpression("storageId", OpEQ, "storage0"))

	result := Validate(sel)
	assert.True(t, result.IsPortable)
	assert.Empty(t, result.Warnings)
}

func TestValidate_Warnings(t *testing.T) {
	sel := NewSelector("")
	sel.Fetch = true
	sel.Predicate = &And{Operands: []Predicate{
		&Or{},
		Of(NewExpression("x", Operator("BETWEEN"), 1)),
	}}

	result := Validate(sel)
	assert.False(t, result.IsPortable)
	assert.Len(t, result.Warnings, 4)
	assert.Contains(t, result.Warnings[0], "fetch plan")
}

func TestValidate_Nil(t *testing.T) {
	assert.False(t, Validate(nil).IsPortable)
}
