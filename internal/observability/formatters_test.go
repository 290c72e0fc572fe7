package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/camilo/empleo-radar/internal/metrics"
	"github.com/camilo/empleo-radar/internal/store"
)

func TestPrintTopOffers(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	ranked := []store.RankedOffer{
		{
			Offer: store.Offer{
				Title:     "Desarrollador Junior React",
				Location:  "Medellín, Antioquia",
				DetailURL: "https://example.com/ofertas/1",
			},
			Analysis: store.AnalysisResult{
				Compatibility: 57.5,
				LevelScore:    5,
				LevelLabel:    "Junior Alta Confianza",
				WorkMode:      "remoto",
			},
		},
	}

	p.PrintTopOffers(ranked)
	output := buf.String()

	assert.Contains(t, output, "OFERTAS MÁS COMPATIBLES")
	assert.Contains(t, output, "Desarrollador Junior React")
	assert.Contains(t, output, "57.50")
	assert.Contains(t, output, "remoto")
}

func TestPrintTopOffers_TruncatesLongTitleOnRunes(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	// 49th rune is multi-byte; a byte slice here would cut it in half.
	title := strings.Repeat("ñ", 60)
	p.PrintTopOffers([]store.RankedOffer{
		{Offer: store.Offer{Title: title, DetailURL: "https://example.com/ofertas/1"}},
	})
	output := buf.String()

	assert.True(t, utf8.ValidString(output))
	assert.Contains(t, output, strings.Repeat("ñ", 49)+"...")
	assert.NotContains(t, output, strings.Repeat("ñ", 50))
}

func TestPrintTopOffers_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintTopOffers(nil)

	assert.Contains(t, buf.String(), "No hay ofertas analizadas")
}

func TestPrintMetrics(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	snap := &metrics.Snapshot{
		TotalOffers:       20,
		AnalyzedOffers:    18,
		MeanCompatibility: 41.3,
		Technologies: []metrics.TechCount{
			{Name: "python", Category: "lenguajes", Frequency: 9, Percentage: 50.0},
		},
		WorkModes: []metrics.LabelCount{
			{Name: "remoto", Frequency: 6, Percentage: 33.33},
		},
	}

	p.PrintMetrics(snap)
	output := buf.String()

	assert.Contains(t, output, "MÉTRICAS")
	assert.Contains(t, output, "python")
	assert.Contains(t, output, "remoto")
	assert.Contains(t, output, "41.30")
}

func TestPrintMetrics_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMetrics(nil)

	assert.Contains(t, buf.String(), "No hay métricas")
}

func TestPrintRunSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	started := time.Now().Add(-90 * time.Second)
	finished := time.Now()
	p.PrintRunSummary(&store.ScrapeRun{
		SearchTerm:  "desarrollador-web",
		Status:      "completed",
		OffersFound: 80,
		OffersKept:  35,
		StartedAt:   started,
		FinishedAt:  &finished,
	})
	output := buf.String()

	assert.Contains(t, output, "RESUMEN DE EJECUCIÓN")
	assert.Contains(t, output, "desarrollador-web")
	assert.Contains(t, output, "completed")
}

func TestPrintRunSummary_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRunSummary(nil)

	assert.Empty(t, buf.String())
}
