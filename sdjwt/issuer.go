package sdjwt

import (
	"encoding/json"
	"sort"

	"github.com/pkg/errors"

	"github.com/crednet/go-credential-processor/jws"
	"github.com/crednet/go-credential-processor/verifiable"
)

const (
	vcKey                = "vc"
	credentialSubjectKey = "credentialSubject"
)

// Issue builds an SD-JWT from a credential JWT payload. The claims named in
// claimsToHide are removed from vc.credentialSubject and replaced by a
// sorted _sd digest array; each removed claim becomes a disclosure appended
// to the signed JWS in "<jws>~<d1>~...~<dn>" form.
//
// The caller's payload is never mutated.
func Issue(signer jws.Signer, key jws.KeyMaterial, payload map[string]interface{},
	hashAlg string, claimsToHide []string) (string, error) {

	// fail before touching the payload if the digest is unknown
	if _, err := digestForAlg(hashAlg); err != nil {
		return "", err
	}

	signed, err := remarshalPayload(payload)
	if err != nil {
		return "", err
	}

	subject, vc, err := credentialSubject(signed)
	if err != nil {
		return "", err
	}

	digests := make([]string, 0, len(claimsToHide))
	disclosures := make([]string, 0, len(claimsToHide))

	for _, name := range claimsToHide {
		value, ok := subject[name]
		if !ok {
			return "", errors.Errorf("claim %q is not part of credentialSubject", name)
		}

		disclosure, err := NewDisclosure(name, value)
		if err != nil {
			return "", err
		}

		encoded, err := disclosure.Encode()
		if err != nil {
			return "", err
		}

		dig, err := digest(hashAlg, encoded)
		if err != nil {
			return "", err
		}

		delete(subject, name)
		disclosures = append(disclosures, encoded)
		digests = append(digests, dig)
	}

	sort.Strings(digests)
	subject[SDKey] = digests
	vc[SDAlgorithmKey] = hashAlg

	signedJWS, err := signer.Sign(key, signed)
	if err != nil {
		return "", err
	}

	cf := &CombinedFormat{JWS: signedJWS, Disclosures: disclosures}
	return cf.Serialize(), nil
}

// IssueCredential issues an SD-JWT over a W3C credential, deriving the
// standard iss/sub/iat envelope from the credential itself.
func IssueCredential(signer jws.Signer, key jws.KeyMaterial, vc *verifiable.W3CCredential,
	hashAlg string, claimsToHide []string) (string, error) {

	payload, err := vc.JWTClaims()
	if err != nil {
		return "", err
	}
	return Issue(signer, key, payload, hashAlg, claimsToHide)
}

// credentialSubject digs vc.credentialSubject out of a JWT payload.
func credentialSubject(payload map[string]interface{}) (subject, vc map[string]interface{}, err error) {
	vc, ok := payload[vcKey].(map[string]interface{})
	if !ok {
		return nil, nil, errors.New("payload has no vc claim")
	}
	subject, ok = vc[credentialSubjectKey].(map[string]interface{})
	if !ok {
		return nil, nil, errors.New("vc has no credentialSubject")
	}
	return subject, vc, nil
}

// remarshalPayload deep-copies a payload through JSON so callers keep an
// untouched original.
func remarshalPayload(payload map[string]interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.WithStack(err)
	}
	return out, nil
}
