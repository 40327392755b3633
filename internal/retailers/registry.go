// Package retailers holds one extractor per supported competitor site and
// the domain registry used to dispatch a URL to the right one.
package retailers

import (
	"regexp"
	"strings"

	"github.com/strummet/pricewatch/internal/extract"
)

type registration struct {
	domain    string
	extractor extract.Extractor
}

// registry order matters: matching is substring-based, first match wins.
var registry = []registration{
	{"andertons.co.uk", andertons{}},
	{"bonnersmusic.co.uk", bonners{}},
	{"musicmatter.co.uk", musicMatter{}},
	{"guitarguitar.co.uk", guitarGuitar{}},
	{"gak.co.uk", gak{}},
	{"pmtonline.co.uk", pmt{}},
	{"rimmersmusic.co.uk", rimmers{}},
	{"gear4music.com", gear4Music{}},
	{"thomann.co.uk", thomann{}},
}

var domainRe = regexp.MustCompile(`^https?://(?:www\.)?([^/]+)`)

// Domain extracts the hostname from a URL. Malformed URLs yield "".
func Domain(rawURL string) string {
	m := domainRe.FindStringSubmatch(rawURL)
	if m == nil {
		return ""
	}
	return m[1]
}

// Resolve maps a URL's hostname to the matching extractor. A false return
// means no scraper is available for the domain; callers must treat that as
// a normal outcome, not an error.
func Resolve(rawURL string) (extract.Extractor, bool) {
	host := Domain(rawURL)
	if host == "" {
		return nil, false
	}
	for _, r := range registry {
		if strings.Contains(host, r.domain) {
			return r.extractor, true
		}
	}
	return nil, false
}

// Supported lists the registered competitor domains in dispatch order.
func Supported() []string {
	out := make([]string, len(registry))
	for i, r := range registry {
		out[i] = r.domain
	}
	return out
}
