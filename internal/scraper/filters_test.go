package scraper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testChain(threshold time.Duration, blacklist ...string) *FilterChain {
	return NewFilterChain(FilterConfig{
		RecencyThreshold: threshold,
		Blacklist:        blacklist,
	}, nil)
}

func TestFilterChain_RecencyThreshold(t *testing.T) {
	chain := testChain(3 * 24 * time.Hour)

	assert.False(t, chain.Keep(Offer{Company: "Acme", RawDatePhrase: "Hace 4 días"}))
	assert.True(t, chain.Keep(Offer{Company: "Acme", RawDatePhrase: "Hace 2 días"}))
}

func TestFilterChain_UnresolvableDateExcluded(t *testing.T) {
	chain := testChain(3 * 24 * time.Hour)

	assert.False(t, chain.Keep(Offer{Company: "Acme", RawDatePhrase: ""}))
	assert.False(t, chain.Keep(Offer{Company: "Acme", RawDatePhrase: "la semana pasada"}))
}

func TestFilterChain_BlacklistSubstring(t *testing.T) {
	chain := testChain(24*time.Hour, "bairesdev")

	// Substring semantics: spelling variants of the employer all match.
	assert.False(t, chain.Keep(Offer{Company: "BairesDev LLC", RawDatePhrase: "hoy"}))
	assert.False(t, chain.Keep(Offer{Company: "bairesdev", RawDatePhrase: "hoy"}))
	assert.True(t, chain.Keep(Offer{Company: "Acme", RawDatePhrase: "hoy"}))
}

func TestFilterChain_EmptyCompanyNotBlacklisted(t *testing.T) {
	chain := testChain(24*time.Hour, "acme")
	assert.True(t, chain.Keep(Offer{Company: "", RawDatePhrase: "hoy"}))
}

func TestFilterChain_RequireRemote(t *testing.T) {
	chain := NewFilterChain(FilterConfig{
		RecencyThreshold: 24 * time.Hour,
		RequireRemote:    true,
	}, nil)

	assert.True(t, chain.Keep(Offer{Company: "Acme", RawDatePhrase: "hoy", Description: "Trabajo 100% remoto"}))
	assert.False(t, chain.Keep(Offer{Company: "Acme", RawDatePhrase: "hoy", Description: "Trabajo en oficina"}))
}

func TestFilterChain_Apply(t *testing.T) {
	chain := testChain(24 * time.Hour)
	kept := chain.Apply([]Offer{
		{Company: "Acme", RawDatePhrase: "hoy"},
		{Company: "Acme", RawDatePhrase: "Hace 2 días"},
	})
	assert.Len(t, kept, 1)
}

func TestDetectWorkMode(t *testing.T) {
	assert.Equal(t, "remoto", DetectWorkMode("Dev", "Remoto", ""))
	assert.Equal(t, "remoto", DetectWorkMode("Remote developer", "", ""))
	assert.Equal(t, "hibrido", DetectWorkMode("Dev", "Medellín", "modalidad híbrida"))
	assert.Equal(t, "presencial", DetectWorkMode("Dev", "Medellín", "en sitio"))
}
