package sefaria

import (
	"net/url"
	"strings"
)

// RelayFormat describes how a relay expects the target URL to be embedded
// in its request path
type RelayFormat string

const (
	// FormatEncoded appends the query-escaped target URL
	FormatEncoded RelayFormat = "encoded"
	// FormatRaw appends the target URL unchanged
	FormatRaw RelayFormat = "raw"
	// FormatHost appends the target URL with its scheme prefix stripped
	FormatHost RelayFormat = "host"
)

// Relay is one HTTP forwarding endpoint used to reach the text repository
// from a restricted network context. The client walks the relay list in
// order; any one succeeding is sufficient.
type Relay struct {
	Name   string
	Prefix string
	Format RelayFormat
}

// RequestURL builds the relay request URL for the given target
func (r Relay) RequestURL(target string) string {
	switch r.Format {
	case FormatEncoded:
		return r.Prefix + url.QueryEscape(target)
	case FormatHost:
		stripped := strings.TrimPrefix(strings.TrimPrefix(target, "https://"), "http://")
		return r.Prefix + stripped
	default:
		return r.Prefix + target
	}
}

// DefaultRelays returns the ordered production relay list
func DefaultRelays() []Relay {
	return []Relay{
		{Name: "allorigins.win", Prefix: "https://api.allorigins.win/raw?url=", Format: FormatEncoded},
		{Name: "cors.eu.org", Prefix: "https://cors.eu.org/", Format: FormatHost},
		{Name: "corsproxy.io", Prefix: "https://corsproxy.io/?", Format: FormatEncoded},
		{Name: "thingproxy.freeboard.io", Prefix: "https://thingproxy.freeboard.io/fetch/", Format: FormatRaw},
	}
}
