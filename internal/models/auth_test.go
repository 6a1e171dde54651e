package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	valid := []string{"ana@example.com", "ana+libros@colegio.edu.mx", "a.b@c.d"}
	invalid := []string{"", "ana", "ana@example", "ana perez@example.com", "@example.com", "ana@@example.com"}

	for _, s := range valid {
		assert.True(t, ValidEmail(s), s)
	}
	for _, s := range invalid {
		assert.False(t, ValidEmail(s), s)
	}
}
