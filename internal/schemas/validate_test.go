package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Analysis(t *testing.T) {
	tests := []struct {
		name     string
		document string
		wantErr  bool
	}{
		{
			name:     "valid",
			document: `{"score": 85, "justification": "Strong match"}`,
			wantErr:  false,
		},
		{
			name:     "score too high",
			document: `{"score": 150, "justification": "x"}`,
			wantErr:  true,
		},
		{
			name:     "negative score",
			document: `{"score": -5, "justification": "x"}`,
			wantErr:  true,
		},
		{
			name:     "non-integer score",
			document: `{"score": "eighty", "justification": "x"}`,
			wantErr:  true,
		},
		{
			name:     "missing justification",
			document: `{"score": 50}`,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(Analysis, []byte(tt.document))
			if tt.wantErr {
				var validationErr *ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.NotEmpty(t, validationErr.Errors)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_Improvements(t *testing.T) {
	t.Run("empty array is valid", func(t *testing.T) {
		assert.NoError(t, Validate(Improvements, []byte(`{"improvements": []}`)))
	})

	t.Run("full entry is valid", func(t *testing.T) {
		document := `{"improvements": [{"location": "Summary", "original": "a", "improved": "b", "impact": "High", "matchedRequirements": ["Go"]}]}`
		assert.NoError(t, Validate(Improvements, []byte(document)))
	})

	t.Run("object instead of array fails", func(t *testing.T) {
		err := Validate(Improvements, []byte(`{"improvements": {"location": "x"}}`))
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("missing improvements key fails", func(t *testing.T) {
		assert.Error(t, Validate(Improvements, []byte(`{"items": []}`)))
	})
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("no-such-schema", []byte(`{}`))
	assert.Error(t, err)
}
