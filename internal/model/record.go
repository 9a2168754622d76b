package model

// RawRecord is one decoded line of the input feed. Only the "ip" field is
// interpreted; everything else is carried through untouched.
type RawRecord struct {
	Line   int
	Fields map[string]any
}

// IPField is the input key holding the integer-encoded IPv4 address.
const IPField = "ip"

// IP returns the raw "ip" value and whether the key was present at all.
// A present key with a null value returns (nil, true).
func (r RawRecord) IP() (any, bool) {
	v, ok := r.Fields[IPField]
	return v, ok
}

// ProbeResult is a successful readme probe.
type ProbeResult struct {
	URL     string
	Version string
}

// ResultRecord is one entry of the output report. URL and Version are empty
// (and omitted from JSON) when the pipeline runs without probing.
type ResultRecord struct {
	Domain  string `json:"domain"`
	URL     string `json:"url,omitempty"`
	Version string `json:"version,omitempty"`
}
