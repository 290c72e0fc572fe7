package analysis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "override.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "hola mundo", NormalizeText("  Hola\t\nMundo "))
	assert.Equal(t, "c sharp y .net", NormalizeText("C# y .NET"))
	assert.Equal(t, "inyeccion de dependencias", NormalizeText("Inyección de Dependencias"))
	assert.Equal(t, "", NormalizeText("   "))
}

func TestExtract_FindsTechnologiesByCategory(t *testing.T) {
	ex := NewExtractor(DefaultTaxonomy())

	findings := ex.Extract("Usamos React y PostgreSQL en producción")

	assert.Contains(t, findings["frameworks"], "react")
	assert.Contains(t, findings["bases_datos"], "postgresql")
}

func TestExtract_SynonymsResolveToCanonicalName(t *testing.T) {
	ex := NewExtractor(DefaultTaxonomy())

	findings := ex.Extract("buscamos experiencia en vuejs y postgres")

	assert.Contains(t, findings["frameworks"], "vue.js")
	assert.Contains(t, findings["bases_datos"], "postgresql")
}

func TestExtract_CanonicalRecordedOncePerCategory(t *testing.T) {
	ex := NewExtractor(DefaultTaxonomy())

	// Two synonyms of the same technology must not produce two entries.
	findings := ex.Extract("react y react.js y reactjs")

	count := 0
	for _, tech := range findings["frameworks"] {
		if tech == "react" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestExtract_CSharpMatchesAsToken(t *testing.T) {
	ex := NewExtractor(DefaultTaxonomy())

	findings := ex.Extract("Desarrollador C# con SQL")

	assert.Contains(t, findings["lenguajes"], "c#")
	assert.Contains(t, findings["lenguajes"], "sql")
}

func TestExtract_WordBoundariesPreventPartialMatches(t *testing.T) {
	ex := NewExtractor(DefaultTaxonomy())

	// "javascript" must not match inside another word, and "c" must not
	// match every word containing the letter.
	findings := ex.Extract("conocimiento de ecmascript")

	assert.NotContains(t, findings["lenguajes"], "javascript")
	assert.NotContains(t, findings["lenguajes"], "c")
}

func TestExtract_EmptyTextYieldsAllCategoriesEmpty(t *testing.T) {
	tax := DefaultTaxonomy()
	ex := NewExtractor(tax)

	findings := ex.Extract("")

	require.Len(t, findings, len(tax.Categories))
	for _, cat := range tax.Categories {
		assert.Empty(t, findings[cat.Name])
	}
	assert.Equal(t, 0, findings.Total())
}

func TestExtract_NoMatchesIsNotAnError(t *testing.T) {
	ex := NewExtractor(DefaultTaxonomy())

	findings := ex.Extract("se busca contador con experiencia en auditoría")

	assert.Equal(t, 0, findings.Total())
}

func TestExtract_AccentInsensitive(t *testing.T) {
	ex := NewExtractor(DefaultTaxonomy())

	findings := ex.Extract("patrones como inyección de dependencias")

	assert.Contains(t, findings["arquitectura_metodologias"], "inyeccion de dependencias")
}

func TestDefaultTaxonomy_ValidatesAgainstSchema(t *testing.T) {
	tax := DefaultTaxonomy()

	assert.Equal(t, "2025.1", tax.Version)
	assert.Len(t, tax.Categories, 13)
	assert.Equal(t, "lenguajes", tax.Categories[0].Name)
}

func TestLoadTaxonomy_RejectsInvalidDocument(t *testing.T) {
	path := writeTempFile(t, `{"categories": []}`)

	_, err := LoadTaxonomy(path)
	assert.Error(t, err)
}

func TestLoadTaxonomy_AcceptsOverride(t *testing.T) {
	path := writeTempFile(t, `{
		"version": "custom-1",
		"categories": [
			{"name": "lenguajes", "technologies": [{"name": "go", "synonyms": ["go", "golang"]}]}
		]
	}`)

	tax, err := LoadTaxonomy(path)
	require.NoError(t, err)
	assert.Equal(t, "custom-1", tax.Version)

	findings := NewExtractor(tax).Extract("backend en golang")
	assert.Contains(t, findings["lenguajes"], "go")
}
