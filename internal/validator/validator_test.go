package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	URL   string `mapstructure:"url" validate:"required"`
	Size  int    `json:"size" validate:"gte=1,lte=10"`
	Mode  string `validate:"omitempty,oneof=a b"`
	Inner struct {
		Dir string `mapstructure:"dir" validate:"required"`
	} `mapstructure:"inner"`
}

func TestValidate_OK(t *testing.T) {
	s := sample{URL: "x", Size: 5, Mode: "a"}
	s.Inner.Dir = "/tmp"
	assert.NoError(t, Validate(s))
}

func TestValidate_ReportsConfigKeys(t *testing.T) {
	s := sample{Size: 11, Mode: "c"}
	err := Validate(s)
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "field 'sample.url' failed validation: is required")
		assert.Contains(t, err.Error(), "field 'sample.size' failed validation: must be less than or equal to 10")
		assert.Contains(t, err.Error(), "field 'sample.Mode' failed validation: must be one of: a b")
		assert.Contains(t, err.Error(), "field 'sample.inner.dir' failed validation: is required")
	}
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, ValidateVar("mysql", "oneof=mysql postgres"))
	assert.Error(t, ValidateVar("sqlite", "oneof=mysql postgres"))
}
