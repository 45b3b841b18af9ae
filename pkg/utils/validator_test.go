package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("mike@expenseflow.com"))
	assert.NoError(t, ValidateEmail("first.last+tag@sub.domain.co"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("missing@tld"))
	assert.Error(t, ValidateEmail(""))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "clean text", SanitizeString("clean text"))
	assert.Equal(t, "stripped", SanitizeString("str\x00ipp\x1fed\x7f"))
	assert.Equal(t, "", SanitizeString("\x01\x02"))
}
