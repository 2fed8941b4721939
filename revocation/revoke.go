package revocation

import (
	"context"

	"github.com/pkg/errors"

	"github.com/crednet/go-credential-processor/verifiable"
)

const (
	// ListDocumentPath is appended to the list URL to fetch the current
	// status list credential.
	ListDocumentPath = "/list.json"

	// PublishPath is appended to the list URL to publish an updated list.
	PublishPath = "/statusList"
)

// ErrUnsupportedStatus is returned when a credential carries no
// StatusList2021Entry status.
var ErrUnsupportedStatus = errors.New("credential has no StatusList2021Entry status")

// ErrFetchFailure is returned when the current status list cannot be
// retrieved or decoded.
var ErrFetchFailure = errors.New("status list fetch failed")

// ErrPublishFailure is returned when the updated status list cannot be
// published. The remote list is unchanged in that case; the local bit flip
// is discarded with the in-memory copy.
var ErrPublishFailure = errors.New("status list publish failed")

// RevokeCredential revokes vc on its status list: it fetches the current
// list, sets the credential's bit, wraps the updated bitstring into a fresh
// StatusList2021 credential from issuerDID to subjectDID, and publishes it.
func RevokeCredential(ctx context.Context, vc *verifiable.W3CCredential,
	issuerDID, subjectDID string, fetcher StatusListFetcher) error {

	if vc.CredentialStatus == nil ||
		vc.CredentialStatus.Type != verifiable.StatusList2021Entry {
		return ErrUnsupportedStatus
	}

	listURL, index, err := verifiable.ParseStatusID(vc.CredentialStatus.ID)
	if err != nil {
		return errors.WithMessage(ErrUnsupportedStatus, err.Error())
	}

	listVC, err := fetcher.Get(ctx, listURL+ListDocumentPath)
	if err != nil {
		return errors.WithMessage(ErrFetchFailure, err.Error())
	}

	encoded, err := listVC.EncodedList()
	if err != nil {
		return errors.WithMessage(ErrFetchFailure, err.Error())
	}

	list, err := Parse(encoded)
	if err != nil {
		return errors.WithMessage(ErrFetchFailure, err.Error())
	}

	if err := list.Revoke(index); err != nil {
		return err
	}

	updated, err := list.Serialize()
	if err != nil {
		return err
	}

	purpose := vc.CredentialStatus.StatusPurpose
	if purpose == "" {
		purpose = verifiable.StatusPurposeRevocation
	}

	updatedVC := verifiable.NewCredential(issuerDID, subjectDID,
		map[string]interface{}{
			"id":            listURL,
			"type":          verifiable.TypeStatusList2021,
			"statusPurpose": purpose,
			"encodedList":   updated,
		},
		[]string{verifiable.TypeStatusList2021})

	if err := fetcher.Post(ctx, listURL+PublishPath, updatedVC); err != nil {
		return errors.WithMessage(ErrPublishFailure, err.Error())
	}
	return nil
}
