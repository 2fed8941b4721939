package jws

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/crednet/go-credential-processor/resolver"
)

// ErrSignatureInvalid reports a JWS whose signature does not verify under
// the issuer's key.
var ErrSignatureInvalid = errors.New("invalid JWS signature")

// ErrResolverFailure reports that the issuer DID could not be resolved to a
// verification key.
var ErrResolverFailure = errors.New("DID resolution failed")

// Verifier checks compact JWS tokens, resolving the verification key from
// the payload's iss claim through a DIDResolver.
type Verifier struct {
	resolver resolver.DIDResolver
	parser   *jwt.Parser
}

// NewVerifier builds a Verifier over the given resolver.
func NewVerifier(didResolver resolver.DIDResolver) *Verifier {
	return &Verifier{
		resolver: didResolver,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{string(AlgES256K), string(AlgEdDSA)}),
			// exp/nbf are enforced by callers that care about credential
			// validity windows, not by signature verification
			jwt.WithoutClaimsValidation(),
		),
	}
}

// Verify checks the token signature and returns its claims.
func (v *Verifier) Verify(ctx context.Context, token string) (map[string]interface{}, error) {
	claims := jwt.MapClaims{}

	var resolveErr error
	parsed, err := v.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		issuer, err := claims.GetIssuer()
		if err != nil || issuer == "" {
			return nil, errors.New("token has no iss claim")
		}
		key, err := v.resolver.Resolve(ctx, issuer)
		if err != nil {
			resolveErr = err
			return nil, err
		}
		return key, nil
	})
	if err != nil {
		if resolveErr != nil {
			return nil, errors.WithMessage(ErrResolverFailure, resolveErr.Error())
		}
		return nil, errors.WithMessage(ErrSignatureInvalid, err.Error())
	}
	if !parsed.Valid {
		return nil, ErrSignatureInvalid
	}

	return claims, nil
}

// Parse decodes the token payload without verifying the signature. Holders
// use it to inspect their own credentials.
func Parse(token string) (map[string]interface{}, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	_, _, err := parser.ParseUnverified(token, claims)
	if err != nil {
		return nil, errors.WithMessage(err, "parse JWS")
	}
	return claims, nil
}
