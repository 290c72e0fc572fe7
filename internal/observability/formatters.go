// Package observability provides formatted console output for CLI reports.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/camilo/empleo-radar/internal/metrics"
	"github.com/camilo/empleo-radar/internal/store"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted report output.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines; slice runes, not bytes.
		if runes := []rune(line); len(runes) > boxWidth-4 {
			line = string(runes[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintTopOffers outputs the best-matching offers with their scores.
func (p *Printer) PrintTopOffers(ranked []store.RankedOffer) {
	if len(ranked) == 0 {
		p.printBox("OFERTAS MÁS COMPATIBLES", "No hay ofertas analizadas todavía.")
		return
	}

	var sb strings.Builder
	count := min(len(ranked), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := ranked[i]
		// Truncate on runes; Spanish titles carry multi-byte characters.
		title := r.Offer.Title
		if runes := []rune(title); len(runes) > 52 {
			title = string(runes[:49]) + "..."
		}
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, title))
		sb.WriteString(fmt.Sprintf("    Compatibilidad: %.2f | Nivel: %d (%s)\n",
			r.Analysis.Compatibility, r.Analysis.LevelScore, r.Analysis.LevelLabel))
		sb.WriteString(fmt.Sprintf("    %s | %s\n", r.Offer.Location, orDash(r.Analysis.WorkMode)))
		sb.WriteString(fmt.Sprintf("    %s\n", r.Offer.DetailURL))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(ranked) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... y %d ofertas más", len(ranked)-maxItemsToShow))
	}

	p.printBox("OFERTAS MÁS COMPATIBLES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMetrics outputs a metrics snapshot summary.
func (p *Printer) PrintMetrics(snap *metrics.Snapshot) {
	if snap == nil {
		p.printBox("MÉTRICAS", "No hay métricas calculadas todavía.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Ofertas almacenadas:  %d\n", snap.TotalOffers))
	sb.WriteString(fmt.Sprintf("Ofertas analizadas:   %d\n", snap.AnalyzedOffers))
	sb.WriteString(fmt.Sprintf("Compatibilidad media: %.2f\n", snap.MeanCompatibility))

	if len(snap.Technologies) > 0 {
		sb.WriteString("\nTecnologías más mencionadas:\n")
		count := min(len(snap.Technologies), maxItemsToShow)
		for i := 0; i < count; i++ {
			tc := snap.Technologies[i]
			sb.WriteString(fmt.Sprintf("  %-24s %3d (%.2f%%)\n", tc.Name, tc.Frequency, tc.Percentage))
		}
	}

	if len(snap.WorkModes) > 0 {
		sb.WriteString("\nModalidades:\n")
		for _, mc := range snap.WorkModes {
			sb.WriteString(fmt.Sprintf("  %-24s %3d (%.2f%%)\n", mc.Name, mc.Frequency, mc.Percentage))
		}
	}

	if len(snap.Locations) > 0 {
		sb.WriteString("\nUbicaciones:\n")
		count := min(len(snap.Locations), maxItemsToShow)
		for i := 0; i < count; i++ {
			lc := snap.Locations[i]
			sb.WriteString(fmt.Sprintf("  %-24s %3d (%.2f%%)\n", lc.Name, lc.Frequency, lc.Percentage))
		}
	}

	p.printBox("MÉTRICAS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRunSummary outputs the outcome of a harvest run.
func (p *Printer) PrintRunSummary(run *store.ScrapeRun) {
	if run == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Búsqueda:   %s\n", run.SearchTerm))
	sb.WriteString(fmt.Sprintf("Estado:     %s\n", run.Status))
	sb.WriteString(fmt.Sprintf("Encontradas: %d | Guardadas: %d\n", run.OffersFound, run.OffersKept))
	if run.LastError != "" {
		sb.WriteString(fmt.Sprintf("Último error: %s\n", run.LastError))
	}
	if run.FinishedAt != nil {
		sb.WriteString(fmt.Sprintf("Duración:   %s\n", run.FinishedAt.Sub(run.StartedAt).Round(time.Second)))
	}

	p.printBox("RESUMEN DE EJECUCIÓN", strings.TrimSuffix(sb.String(), "\n"))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
