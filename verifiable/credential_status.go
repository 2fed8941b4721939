package verifiable

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// CredentialStatusType identifies the mechanism behind a credentialStatus
// entry.
type CredentialStatusType string

// CredentialStatus points at the revocation state of a credential. For
// StatusList2021Entry the ID has the form "{listURL}#{index}": the status
// list credential lives under listURL and index addresses one bit of its
// bitstring.
type CredentialStatus struct {
	ID            string               `json:"id"`
	Type          CredentialStatusType `json:"type"`
	StatusPurpose string               `json:"statusPurpose,omitempty"`
}

// ParseStatusID splits a StatusList2021Entry status ID into the list URL
// and the credential's index within the list.
func ParseStatusID(id string) (listURL string, index uint64, err error) {
	listURL, fragment, found := strings.Cut(id, "#")
	if !found || listURL == "" {
		return "", 0, errors.Errorf("status id %q has no #index fragment", id)
	}

	index, err = strconv.ParseUint(fragment, 10, 64)
	if err != nil {
		return "", 0, errors.WithMessagef(err, "status id %q", id)
	}
	return listURL, index, nil
}

// Status is the resolved revocation state of one credential.
type Status struct {
	Revoked bool
}

// CredentialStatusResolver checks the status referenced by a
// credentialStatus entry.
type CredentialStatusResolver interface {
	Resolve(ctx context.Context, credentialStatus CredentialStatus) (Status, error)
}

// CredentialStatusResolverRegistry is a registry of CredentialStatusResolver
// keyed by status type.
type CredentialStatusResolverRegistry struct {
	resolvers map[CredentialStatusType]*CredentialStatusResolver
}

func (r *CredentialStatusResolverRegistry) Register(resolverType CredentialStatusType,
	resolver CredentialStatusResolver) {
	if len(r.resolvers) == 0 {
		r.resolvers = make(map[CredentialStatusType]*CredentialStatusResolver)
	}
	r.resolvers[resolverType] = &resolver
}

func (r *CredentialStatusResolverRegistry) Get(
	resolverType CredentialStatusType) (CredentialStatusResolver, error) {
	resolver, ok := r.resolvers[resolverType]
	if !ok {
		return nil, fmt.Errorf("credential status type %s is not registered", resolverType)
	}
	return *resolver, nil
}

// Resolve dispatches a credentialStatus entry to its registered resolver.
func (r *CredentialStatusResolverRegistry) Resolve(ctx context.Context,
	credentialStatus CredentialStatus) (Status, error) {
	resolver, err := r.Get(credentialStatus.Type)
	if err != nil {
		return Status{}, err
	}
	return resolver.Resolve(ctx, credentialStatus)
}
