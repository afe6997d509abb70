package engine

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "hello there", SanitizeInput("  hello \n\t there  "))

	long := strings.Repeat("a", 3000)
	assert.Len(t, SanitizeInput(long), maxInputLength)
}

func TestSanitizeInputCapsOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("জীবনবীমা", 400)
	got := SanitizeInput(long)
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), maxInputLength)
	assert.NotEmpty(t, got)
}

func TestProfileExtractor(t *testing.T) {
	e := NewProfileExtractor()

	p := e.Extract("I'm 35 years old and want to protect my family")
	assert.Equal(t, 35, p.Age)
	assert.Equal(t, "protect my family", p.Purpose)

	p = e.Extract("My name is Rahim Uddin")
	assert.Equal(t, "Rahim Uddin", p.Name)

	p = e.Extract("I have two kids at home")
	assert.Contains(t, p.Dependents, "two kids")

	p = e.Extract("I'm interested in signing up")
	assert.Empty(t, p.Name)

	p = e.Extract("I'm 150 years old")
	assert.Zero(t, p.Age)

	p = e.Extract("something like 500,000 in coverage would be good")
	assert.Equal(t, "500,000", p.CoverageInterest)
}
