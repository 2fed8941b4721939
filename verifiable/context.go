package verifiable

import (
	"github.com/piprate/json-gold/ld"
	"github.com/pkg/errors"
)

// ValidateLDContext expands a credential document against its @context and
// fails when the context does not resolve or the document expands to
// nothing. The revocation package's HTTPStatusListFetcher runs this check on
// fetched status list credentials when built with WithContextValidation.
func ValidateLDContext(vc *W3CCredential, loader ld.DocumentLoader) error {
	var doc map[string]interface{}
	if err := remarshalObj(&doc, vc); err != nil {
		return err
	}

	options := ld.NewJsonLdOptions("")
	if loader != nil {
		options.DocumentLoader = loader
	}

	expanded, err := ld.NewJsonLdProcessor().Expand(doc, options)
	if err != nil {
		return errors.WithMessage(err, "expand credential document")
	}
	if len(expanded) == 0 {
		return errors.New("credential document expands to nothing")
	}
	return nil
}

// EncodedList extracts the credentialSubject.encodedList value of a status
// list credential.
func (vc *W3CCredential) EncodedList() (string, error) {
	v, ok := vc.CredentialSubject["encodedList"]
	if !ok {
		return "", errors.New("credentialSubject has no encodedList")
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.New("encodedList is not a string")
	}
	return s, nil
}
