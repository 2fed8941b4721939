package sdjwt

import (
	"context"

	"github.com/pkg/errors"

	"github.com/crednet/go-credential-processor/jws"
)

// ErrGroupCountMismatch is returned when the number of disclosure groups in
// a presentation differs from the number of credentials it carries.
var ErrGroupCountMismatch = errors.New("disclosure group count does not match credentials")

// ErrDisclosureMismatch is returned when a supplied disclosure's digest is
// not committed to by the credential's _sd array.
var ErrDisclosureMismatch = errors.New("disclosure digest not found in _sd")

// PresentationResult is the outcome of verifying a multi-credential
// presentation.
type PresentationResult struct {
	// Verified is true when the VP signature and every enclosed credential
	// checked out. Failed verifications return an error instead.
	Verified bool

	// Payload is the verified VP JWT payload.
	Payload map[string]interface{}

	// Disclosed holds the opened claims per credential, positionally
	// matching vp.verifiableCredential. A credential revealing nothing
	// contributes an empty map.
	Disclosed []map[string]interface{}
}

// CredentialResult is the outcome of verifying a single SD-JWT credential.
type CredentialResult struct {
	Verified  bool
	Payload   map[string]interface{}
	Disclosed map[string]interface{}
}

// Verifier validates SD-JWT credentials and presentations.
type Verifier struct {
	jwsVerifier *jws.Verifier
}

// NewVerifier builds a Verifier on top of a JWS verifier (and through it,
// a DID resolver).
func NewVerifier(jwsVerifier *jws.Verifier) *Verifier {
	return &Verifier{jwsVerifier: jwsVerifier}
}

// VerifyPresentation checks a multi-credential presentation end to end: the
// VP signature, each enclosed credential's signature, and every supplied
// disclosure against its credential's _sd commitments. Disclosure groups
// correspond positionally to vp.verifiableCredential; the group count must
// match exactly.
func (v *Verifier) VerifyPresentation(ctx context.Context, serialized string) (*PresentationResult, error) {
	pf, err := ParsePresentationFormat(serialized)
	if err != nil {
		return nil, err
	}

	payload, err := v.jwsVerifier.Verify(ctx, pf.JWS)
	if err != nil {
		return nil, err
	}

	credentials, err := enclosedCredentials(payload)
	if err != nil {
		return nil, err
	}

	if len(pf.Groups) != len(credentials) {
		return nil, errors.WithMessagef(ErrGroupCountMismatch,
			"%d groups for %d credentials", len(pf.Groups), len(credentials))
	}

	disclosed := make([]map[string]interface{}, len(credentials))
	for i, credentialJWS := range credentials {
		claims, err := v.verifyEnclosed(ctx, credentialJWS, pf.Groups[i])
		if err != nil {
			return nil, err
		}
		disclosed[i] = claims
	}

	return &PresentationResult{
		Verified:  true,
		Payload:   payload,
		Disclosed: disclosed,
	}, nil
}

// VerifyCredential checks a single SD-JWT in combined format: the issuer
// signature plus every attached disclosure.
func (v *Verifier) VerifyCredential(ctx context.Context, serialized string) (*CredentialResult, error) {
	cf := ParseCombinedFormat(serialized)

	disclosed, err := v.verifyEnclosed(ctx, cf.JWS, cf.Disclosures)
	if err != nil {
		return nil, err
	}

	payload, err := jws.Parse(cf.JWS)
	if err != nil {
		return nil, err
	}

	return &CredentialResult{Verified: true, Payload: payload, Disclosed: disclosed}, nil
}

// verifyEnclosed verifies one credential JWS and opens its disclosures.
func (v *Verifier) verifyEnclosed(ctx context.Context, credentialJWS string,
	disclosures []string) (map[string]interface{}, error) {

	payload, err := v.jwsVerifier.Verify(ctx, credentialJWS)
	if err != nil {
		return nil, err
	}

	subject, vc, err := credentialSubject(payload)
	if err != nil {
		return nil, err
	}

	sdAlg, ok := vc[SDAlgorithmKey].(string)
	if !ok {
		return nil, errors.Errorf("credential has no %s", SDAlgorithmKey)
	}

	committed, err := disclosureDigests(subject)
	if err != nil {
		return nil, err
	}

	disclosed := make(map[string]interface{})
	for _, encoded := range disclosures {
		if encoded == "" {
			continue
		}

		dig, err := digest(sdAlg, encoded)
		if err != nil {
			return nil, err
		}
		if !committed[dig] {
			return nil, errors.WithMessagef(ErrDisclosureMismatch, "digest %s", dig)
		}

		disclosure, err := ParseDisclosure(encoded)
		if err != nil {
			return nil, err
		}
		disclosed[disclosure.Name] = disclosure.Value
	}

	return disclosed, nil
}

func enclosedCredentials(payload map[string]interface{}) ([]string, error) {
	vp, ok := payload[vpKey].(map[string]interface{})
	if !ok {
		return nil, errors.New("payload has no vp claim")
	}
	list, ok := vp["verifiableCredential"].([]interface{})
	if !ok {
		return nil, errors.New("vp has no verifiableCredential")
	}

	credentials := make([]string, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, errors.Errorf("verifiableCredential[%d] is not a JWS", i)
		}
		credentials[i] = s
	}
	return credentials, nil
}

func disclosureDigests(subject map[string]interface{}) (map[string]bool, error) {
	raw, ok := subject[SDKey].([]interface{})
	if !ok {
		return nil, errors.Errorf("credentialSubject has no %s", SDKey)
	}

	digests := make(map[string]bool, len(raw))
	for i, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, errors.Errorf("%s[%d] is not a string", SDKey, i)
		}
		digests[s] = true
	}
	return digests, nil
}
