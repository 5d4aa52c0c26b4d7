package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskName(t *testing.T) {
	assert.Equal(t, "A*** Y*****", maskName("Ayşe Yılmaz"))
	assert.Equal(t, "M*****", maskName("Mehmet"))
	assert.Equal(t, "", maskName(""))
	// Single-letter words stay as they are.
	assert.Equal(t, "A B**", maskName("A Bey"))
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "*********67", maskPhone("05321234567"))
	assert.Equal(t, "12", maskPhone("12"))
	assert.Equal(t, "", maskPhone(""))
}
