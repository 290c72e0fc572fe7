package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTaxonomy_Valid(t *testing.T) {
	doc := []byte(`{
		"version": "1",
		"categories": [
			{"name": "lenguajes", "technologies": [{"name": "go", "synonyms": ["go", "golang"]}]}
		]
	}`)

	assert.NoError(t, ValidateTaxonomy(doc))
}

func TestValidateTaxonomy_MissingVersion(t *testing.T) {
	doc := []byte(`{
		"categories": [
			{"name": "lenguajes", "technologies": [{"name": "go"}]}
		]
	}`)

	err := ValidateTaxonomy(doc)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateTaxonomy_BadCategoryName(t *testing.T) {
	doc := []byte(`{
		"version": "1",
		"categories": [
			{"name": "Bases Datos", "technologies": [{"name": "mysql"}]}
		]
	}`)

	err := ValidateTaxonomy(doc)
	require.Error(t, err)
	_, ok := err.(*ValidationError)
	assert.True(t, ok)
}

func TestValidateTaxonomy_MalformedJSON(t *testing.T) {
	err := ValidateTaxonomy([]byte(`{"version": `))
	require.Error(t, err)

	_, ok := err.(*SchemaLoadError)
	assert.True(t, ok, "error should be SchemaLoadError type")
}

func TestValidateProfile_Valid(t *testing.T) {
	doc := []byte(`{
		"skills": {"lenguajes": ["python", "sql"]},
		"category_weights": {"lenguajes": 3},
		"skill_weights": {"python": 5},
		"max_score": 100
	}`)

	assert.NoError(t, ValidateProfile(doc))
}

func TestValidateProfile_NegativeWeight(t *testing.T) {
	doc := []byte(`{
		"skills": {"lenguajes": ["python"]},
		"skill_weights": {"python": -1}
	}`)

	err := ValidateProfile(doc)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateProfile_MissingSkills(t *testing.T) {
	err := ValidateProfile([]byte(`{"max_score": 100}`))
	require.Error(t, err)
	_, ok := err.(*ValidationError)
	assert.True(t, ok)
}
