package sdjwt

import (
	"strings"

	"github.com/pkg/errors"
)

const (
	// DisclosureSeparator joins the JWS and its disclosures.
	DisclosureSeparator = "~"

	// GroupSeparator joins per-credential disclosure groups in a
	// multi-credential presentation.
	GroupSeparator = "&"

	// SDKey is the payload key carrying the sorted disclosure digests.
	SDKey = "_sd"

	// SDAlgorithmKey is the payload key naming the commitment digest.
	SDAlgorithmKey = "_sd_alg"
)

// ErrNoDisclosures is returned when an input expected to be in combined
// format has no disclosure segment at all.
var ErrNoDisclosures = errors.New("no disclosures in SD-JWT")

// CombinedFormat is a parsed "<jws>~<d1>~<d2>..." string.
type CombinedFormat struct {
	JWS         string
	Disclosures []string
}

// ParseCombinedFormat splits an SD-JWT into the JWS and its disclosures.
// Empty trailing segments are preserved.
func ParseCombinedFormat(serialized string) *CombinedFormat {
	parts := strings.Split(serialized, DisclosureSeparator)

	var disclosures []string
	if len(parts) > 1 {
		disclosures = parts[1:]
	}

	return &CombinedFormat{JWS: parts[0], Disclosures: disclosures}
}

// Serialize assembles the combined format back into its wire form.
func (cf *CombinedFormat) Serialize() string {
	serialized := cf.JWS
	for _, disclosure := range cf.Disclosures {
		serialized += DisclosureSeparator + disclosure
	}
	return serialized
}

// PresentationFormat is a parsed multi-credential presentation
// "<vp-jws>~<g1>&<g2>&...&<gN>". Group K holds the disclosures for the K-th
// credential of the presentation payload; the positional correspondence is
// strict. An empty group means no claims are revealed for that credential.
type PresentationFormat struct {
	JWS    string
	Groups [][]string
}

// ParsePresentationFormat splits a multi-credential presentation string.
func ParsePresentationFormat(serialized string) (*PresentationFormat, error) {
	jws, tail, found := strings.Cut(serialized, DisclosureSeparator)
	if !found {
		return nil, ErrNoDisclosures
	}

	rawGroups := strings.Split(tail, GroupSeparator)
	groups := make([][]string, len(rawGroups))
	for i, rawGroup := range rawGroups {
		if rawGroup == "" {
			groups[i] = nil
			continue
		}
		groups[i] = strings.Split(rawGroup, DisclosureSeparator)
	}

	return &PresentationFormat{JWS: jws, Groups: groups}, nil
}

// Serialize assembles the presentation wire form. The group separator
// appears exactly len(Groups)-1 times.
func (pf *PresentationFormat) Serialize() string {
	groups := make([]string, len(pf.Groups))
	for i, group := range pf.Groups {
		groups[i] = strings.Join(group, DisclosureSeparator)
	}
	return pf.JWS + DisclosureSeparator + strings.Join(groups, GroupSeparator)
}
