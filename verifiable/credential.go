package verifiable

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// W3CCredential is a W3C Verifiable Credential document.
type W3CCredential struct {
	ID                string                 `json:"id,omitempty"`
	Context           []string               `json:"@context"`
	Type              []string               `json:"type"`
	Issuer            string                 `json:"issuer"`
	IssuanceDate      *time.Time             `json:"issuanceDate,omitempty"`
	Expiration        *time.Time             `json:"expirationDate,omitempty"`
	CredentialSubject map[string]interface{} `json:"credentialSubject"`
	CredentialStatus  *CredentialStatus      `json:"credentialStatus,omitempty"`
	CredentialSchema  *CredentialSchema      `json:"credentialSchema,omitempty"`
}

// CredentialSchema identifies the schema a credential's subject claims
// conform to. Validation itself is an external concern.
type CredentialSchema struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// VerifiablePresentation is a W3C Verifiable Presentation document. In the
// JWT form the verifiableCredential entries are compact JWS strings.
type VerifiablePresentation struct {
	ID                   string        `json:"id,omitempty"`
	Context              []string      `json:"@context"`
	Type                 []string      `json:"type"`
	Holder               string        `json:"holder,omitempty"`
	VerifiableCredential []interface{} `json:"verifiableCredential"`
}

// NewCredential assembles a credential from issuer to subject carrying the
// given claims. extraTypes extends the base VerifiableCredential type, e.g.
// ["StatusList2021"] for a status list credential.
func NewCredential(issuerDID, subjectDID string,
	claims map[string]interface{}, extraTypes []string) *W3CCredential {

	subject := make(map[string]interface{}, len(claims)+1)
	for k, v := range claims {
		subject[k] = v
	}
	if _, ok := subject["id"]; !ok && subjectDID != "" {
		subject["id"] = subjectDID
	}

	now := time.Now().UTC()

	return &W3CCredential{
		ID:                "urn:uuid:" + uuid.NewString(),
		Context:           credentialContexts(extraTypes),
		Type:              append([]string{TypeW3CVerifiableCredential}, extraTypes...),
		Issuer:            issuerDID,
		IssuanceDate:      &now,
		CredentialSubject: subject,
	}
}

func credentialContexts(extraTypes []string) []string {
	contexts := []string{JSONLDSchemaW3CCredential2018}
	for _, t := range extraTypes {
		if t == TypeStatusList2021 {
			contexts = append(contexts, JSONLDSchemaStatusList2021)
		}
	}
	return contexts
}

// JWTClaims converts the credential into a JWT payload with the standard
// iss/sub/iat envelope and the credential document under vc.
func (vc *W3CCredential) JWTClaims() (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := remarshalObj(&doc, vc); err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"iss": vc.Issuer,
		"iat": time.Now().Unix(),
		"vc":  doc,
	}
	if subjectID, ok := vc.CredentialSubject["id"].(string); ok {
		payload["sub"] = subjectID
	}
	if vc.Expiration != nil {
		payload["exp"] = vc.Expiration.Unix()
	}

	return payload, nil
}

// FromJWTClaims reconstructs a credential from a verified JWT payload.
func FromJWTClaims(payload map[string]interface{}) (*W3CCredential, error) {
	doc, ok := payload["vc"].(map[string]interface{})
	if !ok {
		return nil, errors.New("payload has no vc claim")
	}

	var vc W3CCredential
	if err := remarshalObj(&vc, doc); err != nil {
		return nil, err
	}
	return &vc, nil
}

// remarshalObj converts between representations through JSON.
func remarshalObj(dst, src any) error {
	raw, err := json.Marshal(src)
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(json.Unmarshal(raw, dst))
}
