package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateBucketName(t *testing.T) {
	tests := []struct {
		name    string
		bucket  string
		wantErr bool
	}{
		{name: "simple", bucket: "stockscan-inventory"},
		{name: "dotted", bucket: "shop.inventory.eu"},
		{name: "empty", bucket: "", wantErr: true},
		{name: "uppercase", bucket: "Inventory", wantErr: true},
		{name: "double_dot", bucket: "shop..inventory", wantErr: true},
		{name: "too_short", bucket: "ab", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBucketName(tt.bucket)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateObjectKey(t *testing.T) {
	assert.NoError(t, ValidateObjectKey("shop/inventory.json"))
	assert.ErrorIs(t, ValidateObjectKey(""), ErrMissingRequiredConfig)
	assert.Error(t, ValidateObjectKey("/inventory.json"))
	assert.Error(t, ValidateObjectKey(strings.Repeat("k", 1025)))
}

func TestValidateURL(t *testing.T) {
	assert.NoError(t, ValidateURL("https://api.github.com"))
	assert.NoError(t, ValidateURL("http://localhost:9000/api"))
	assert.ErrorIs(t, ValidateURL(""), ErrMissingRequiredConfig)
	assert.Error(t, ValidateURL("ftp://example.com"))
	assert.Error(t, ValidateURL("https://"))
}
