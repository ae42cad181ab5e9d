package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAsString(t *testing.T) {
	s, err := GetAsString(42)
	assert.NoError(t, err)
	assert.Equal(t, "42", s)

	s, err = GetAsString(2.5)
	assert.NoError(t, err)
	assert.Equal(t, "2.5", s)

	s, err = GetAsString("already")
	assert.NoError(t, err)
	assert.Equal(t, "already", s)

	_, err = GetAsString(nil)
	assert.Error(t, err)
}

func TestGetAsInteger(t *testing.T) {
	n, err := GetAsInteger(" 7 ")
	assert.NoError(t, err)
	assert.Equal(t, 7, n)

	n, err = GetAsInteger(3.9)
	assert.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = GetAsInteger("")
	assert.Error(t, err)
	_, err = GetAsInteger("x")
	assert.Error(t, err)
}

func TestGetAsFloat(t *testing.T) {
	f, err := GetAsFloat("0.75")
	assert.NoError(t, err)
	assert.Equal(t, 0.75, f)

	f, err = GetAsFloat(2)
	assert.NoError(t, err)
	assert.Equal(t, 2.0, f)

	_, err = GetAsFloat("not a number")
	assert.Error(t, err)
}
