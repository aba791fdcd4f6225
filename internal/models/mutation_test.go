package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateMut(t *testing.T) {
	assert.Nil(t, UpdateMut("products", "product_id", "p-1", nil))

	m1 := UpdateMut("products", "product_id", "p-1", map[string]interface{}{"name": "a", "category": "b", "number": "c"})
	m2 := UpdateMut("products", "product_id", "p-1", map[string]interface{}{"number": "c", "name": "a", "category": "b"})
	assert.NotNil(t, m1)
	assert.Equal(t, m1, m2, "column order does not depend on map iteration")
}
