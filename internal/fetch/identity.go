package fetch

import "math/rand"

// userAgents holds the browser identities rotated across requests.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// baseHeaders are sent with every request, mimicking a regular browser
// session. Accept-Encoding is left to the transport so response bodies are
// decompressed transparently.
var baseHeaders = map[string]string{
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
	"Accept-Language":           "es-ES,es;q=0.9,en;q=0.8",
	"Connection":                "keep-alive",
	"DNT":                       "1",
	"Upgrade-Insecure-Requests": "1",
	"Sec-Fetch-Site":            "same-origin",
	"Sec-Fetch-Mode":            "navigate",
	"Sec-Fetch-Dest":            "document",
}

// identityHeaders returns a full header set with a randomly chosen user agent
// and the given referrer.
func identityHeaders(rng *rand.Rand, referer string) map[string]string {
	headers := make(map[string]string, len(baseHeaders)+2)
	for k, v := range baseHeaders {
		headers[k] = v
	}
	headers["User-Agent"] = userAgents[rng.Intn(len(userAgents))]
	if referer != "" {
		headers["Referer"] = referer
	}
	return headers
}
