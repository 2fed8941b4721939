package revocation

import (
	"context"

	"github.com/pkg/errors"

	"github.com/crednet/go-credential-processor/verifiable"
)

// StatusList2021Resolver resolves StatusList2021Entry credential statuses
// by fetching the referenced list and testing the credential's bit.
type StatusList2021Resolver struct {
	fetcher StatusListFetcher
}

// NewStatusList2021Resolver builds a resolver over the given fetcher.
func NewStatusList2021Resolver(fetcher StatusListFetcher) *StatusList2021Resolver {
	return &StatusList2021Resolver{fetcher: fetcher}
}

// Register adds the resolver to a registry under StatusList2021Entry.
func (r *StatusList2021Resolver) Register(registry *verifiable.CredentialStatusResolverRegistry) {
	registry.Register(verifiable.StatusList2021Entry, r)
}

func (r *StatusList2021Resolver) Resolve(ctx context.Context,
	credentialStatus verifiable.CredentialStatus) (verifiable.Status, error) {

	if credentialStatus.Type != verifiable.StatusList2021Entry {
		return verifiable.Status{}, errors.Errorf(
			"unexpected credential status type %s", credentialStatus.Type)
	}

	listURL, index, err := verifiable.ParseStatusID(credentialStatus.ID)
	if err != nil {
		return verifiable.Status{}, err
	}

	listVC, err := r.fetcher.Get(ctx, listURL+ListDocumentPath)
	if err != nil {
		return verifiable.Status{}, errors.WithMessage(ErrFetchFailure, err.Error())
	}

	encoded, err := listVC.EncodedList()
	if err != nil {
		return verifiable.Status{}, errors.WithMessage(ErrFetchFailure, err.Error())
	}

	list, err := Parse(encoded)
	if err != nil {
		return verifiable.Status{}, errors.WithMessage(ErrFetchFailure, err.Error())
	}

	revoked, err := list.IsRevoked(index)
	if err != nil {
		return verifiable.Status{}, err
	}
	return verifiable.Status{Revoked: revoked}, nil
}
