package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestValidateStoreName tests store resource name validation
func TestValidateStoreName(t *testing.T) {
	tests := []struct {
		name      string
		storeName string
		wantErr   bool
	}{
		{
			name:      "well formed",
			storeName: "fileSearchStores/my-store",
			wantErr:   false,
		},
		{
			name:      "missing collection prefix",
			storeName: "my-store",
			wantErr:   true,
		},
		{
			name:      "wrong collection",
			storeName: "corpora/my-store",
			wantErr:   true,
		},
		{
			name:      "empty id",
			storeName: "fileSearchStores/",
			wantErr:   true,
		},
		{
			name:      "extra path segment",
			storeName: "fileSearchStores/my-store/documents",
			wantErr:   true,
		},
		{
			name:      "empty string",
			storeName: "",
			wantErr:   true,
		},
		{
			name:      "bare collection",
			storeName: "fileSearchStores",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStoreName(tt.storeName)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestValidateDisplayName tests the display name length constraint
func TestValidateDisplayName(t *testing.T) {
	assert.NoError(t, ValidateDisplayName(""))
	assert.NoError(t, ValidateDisplayName("Team Knowledge Base"))
	assert.NoError(t, ValidateDisplayName(strings.Repeat("a", MaxDisplayNameLength)))
	assert.ErrorIs(t, ValidateDisplayName(strings.Repeat("a", MaxDisplayNameLength+1)), ErrInvalidInput)
}
