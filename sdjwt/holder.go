package sdjwt

import (
	"time"

	"github.com/pkg/errors"

	"github.com/crednet/go-credential-processor/jws"
	"github.com/crednet/go-credential-processor/verifiable"
)

const vpKey = "vp"

// Disclose derives a new SD-JWT revealing only the named claims. Disclosures
// whose claim name is not in revealNames are dropped; the JWS itself is
// untouched, so the issuer signature stays valid. With an empty revealNames
// the result is the bare JWS.
func Disclose(sdJWT string, revealNames []string) (string, error) {
	cf := ParseCombinedFormat(sdJWT)
	if len(cf.Disclosures) == 0 {
		return "", ErrNoDisclosures
	}

	kept, err := filterDisclosures(cf.Disclosures, revealNames)
	if err != nil {
		return "", err
	}

	derived := &CombinedFormat{JWS: cf.JWS, Disclosures: kept}
	return derived.Serialize(), nil
}

// PresentVP assembles a multi-credential presentation. credentials[i] is an
// SD-JWT in combined format and revealSets[i] names the claims to reveal for
// it; the two slices correspond positionally. The result is a signed VP JWS
// whose vp.verifiableCredential carries the bare credential JWSs, followed
// by one disclosure group per credential:
//
//	<vp-jws>~<g1>&<g2>&...&<gN>
func PresentVP(signer jws.Signer, key jws.KeyMaterial,
	credentials []string, revealSets [][]string) (string, error) {

	if len(credentials) != len(revealSets) {
		return "", errors.Errorf("%d credentials with %d reveal sets",
			len(credentials), len(revealSets))
	}
	if len(credentials) == 0 {
		return "", errors.New("presentation needs at least one credential")
	}

	bareJWS := make([]interface{}, len(credentials))
	groups := make([][]string, len(credentials))

	for i, credential := range credentials {
		cf := ParseCombinedFormat(credential)

		kept, err := filterDisclosures(cf.Disclosures, revealSets[i])
		if err != nil {
			return "", err
		}

		bareJWS[i] = cf.JWS
		groups[i] = kept
	}

	payload := map[string]interface{}{
		"iss": key.DID,
		"iat": time.Now().Unix(),
		vpKey: map[string]interface{}{
			"@context":             []interface{}{verifiable.JSONLDSchemaW3CCredential2018},
			"type":                 []interface{}{verifiable.TypeW3CVerifiablePresentation},
			"verifiableCredential": bareJWS,
		},
	}

	vpJWS, err := signer.Sign(key, payload)
	if err != nil {
		return "", err
	}

	pf := &PresentationFormat{JWS: vpJWS, Groups: groups}
	return pf.Serialize(), nil
}

// filterDisclosures keeps the disclosures opening one of the named claims.
// Every disclosure is parsed so malformed ones are rejected rather than
// carried along.
func filterDisclosures(disclosures, revealNames []string) ([]string, error) {
	reveal := make(map[string]bool, len(revealNames))
	for _, name := range revealNames {
		reveal[name] = true
	}

	var kept []string
	for _, encoded := range disclosures {
		if encoded == "" {
			continue
		}
		disclosure, err := ParseDisclosure(encoded)
		if err != nil {
			return nil, err
		}
		if reveal[disclosure.Name] {
			kept = append(kept, encoded)
		}
	}
	return kept, nil
}
