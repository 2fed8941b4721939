package revocation

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/crednet/go-credential-processor/loaders"
	tst "github.com/crednet/go-credential-processor/testing"
	"github.com/crednet/go-credential-processor/verifiable"
)

const (
	testIssuerDID  = "did:example:issuer"
	testSubjectDID = "did:example:holder"
	testListURL    = "https://credentials.example.com/status/1"
)

func statusListJSON(t *testing.T, list *List) []byte {
	t.Helper()

	encoded, err := list.Serialize()
	require.NoError(t, err)

	vc := verifiable.NewCredential(testIssuerDID, testSubjectDID,
		map[string]interface{}{
			"id":            testListURL,
			"type":          verifiable.TypeStatusList2021,
			"statusPurpose": verifiable.StatusPurposeRevocation,
			"encodedList":   encoded,
		},
		[]string{verifiable.TypeStatusList2021})

	raw, err := json.Marshal(vc)
	require.NoError(t, err)
	return raw
}

func credentialWithStatus(id string) *verifiable.W3CCredential {
	vc := verifiable.NewCredential(testIssuerDID, testSubjectDID,
		map[string]interface{}{"fname": "John"}, nil)
	vc.CredentialStatus = &verifiable.CredentialStatus{
		ID:            id,
		Type:          verifiable.StatusList2021Entry,
		StatusPurpose: verifiable.StatusPurposeRevocation,
	}
	return vc
}

func newTestFetcher() *HTTPStatusListFetcher {
	return NewHTTPStatusListFetcher(loaders.NewDocumentLoader(""))
}

func TestRevokeCredentialFlow(t *testing.T) {
	posted, restore := tst.MockHTTPClient(t, map[string][]byte{
		testListURL + ListDocumentPath: statusListJSON(t, New()),
	})
	defer restore()

	vc := credentialWithStatus(testListURL + "#42")

	err := RevokeCredential(context.Background(), vc,
		testIssuerDID, testSubjectDID, newTestFetcher())
	require.NoError(t, err)

	bodies := posted(testListURL + PublishPath)
	require.Len(t, bodies, 1)

	var published verifiable.W3CCredential
	require.NoError(t, json.Unmarshal(bodies[0], &published))
	require.Contains(t, published.Type, verifiable.TypeStatusList2021)
	require.Equal(t, testIssuerDID, published.Issuer)

	encoded, err := published.EncodedList()
	require.NoError(t, err)

	list, err := Parse(encoded)
	require.NoError(t, err)

	for i, want := range map[uint64]bool{41: false, 42: true, 43: false} {
		revoked, err := list.IsRevoked(i)
		require.NoError(t, err)
		require.Equal(t, want, revoked, "index %d", i)
	}
}

func TestRevokeCredentialWithoutStatus(t *testing.T) {
	vc := verifiable.NewCredential(testIssuerDID, testSubjectDID,
		map[string]interface{}{"fname": "John"}, nil)

	err := RevokeCredential(context.Background(), vc,
		testIssuerDID, testSubjectDID, newTestFetcher())
	require.ErrorIs(t, err, ErrUnsupportedStatus)
}

func TestRevokeCredentialBadStatusID(t *testing.T) {
	vc := credentialWithStatus(testListURL) // no #index fragment

	err := RevokeCredential(context.Background(), vc,
		testIssuerDID, testSubjectDID, newTestFetcher())
	require.ErrorIs(t, err, ErrUnsupportedStatus)
}

func TestRevokeCredentialCorruptList(t *testing.T) {
	_, restore := tst.MockHTTPClient(t, map[string][]byte{
		testListURL + ListDocumentPath: []byte(`{"credentialSubject":{"encodedList":"garbage"}}`),
	})
	defer restore()

	vc := credentialWithStatus(testListURL + "#42")

	err := RevokeCredential(context.Background(), vc,
		testIssuerDID, testSubjectDID, newTestFetcher())
	require.ErrorIs(t, err, ErrFetchFailure)
}

func TestRevokeCredentialIndexOutOfRange(t *testing.T) {
	_, restore := tst.MockHTTPClient(t, map[string][]byte{
		testListURL + ListDocumentPath: statusListJSON(t, New()),
	})
	defer restore()

	vc := credentialWithStatus(testListURL + "#128000")

	err := RevokeCredential(context.Background(), vc,
		testIssuerDID, testSubjectDID, newTestFetcher())
	require.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestStatusList2021Resolver(t *testing.T) {
	list := New()
	require.NoError(t, list.Revoke(7))

	_, restore := tst.MockHTTPClient(t, map[string][]byte{
		testListURL + ListDocumentPath: statusListJSON(t, list),
	})
	defer restore()

	registry := &verifiable.CredentialStatusResolverRegistry{}
	NewStatusList2021Resolver(newTestFetcher()).Register(registry)

	status, err := registry.Resolve(context.Background(), verifiable.CredentialStatus{
		ID:   testListURL + "#7",
		Type: verifiable.StatusList2021Entry,
	})
	require.NoError(t, err)
	require.True(t, status.Revoked)

	status, err = registry.Resolve(context.Background(), verifiable.CredentialStatus{
		ID:   testListURL + "#8",
		Type: verifiable.StatusList2021Entry,
	})
	require.NoError(t, err)
	require.False(t, status.Revoked)

	_, err = registry.Resolve(context.Background(), verifiable.CredentialStatus{
		ID:   testListURL + "#7",
		Type: "UnknownStatusType",
	})
	require.Error(t, err)
}
