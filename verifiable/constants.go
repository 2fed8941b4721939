package verifiable

//nolint:gosec //reason: constants are identifiers, not credentials
const (
	// TypeW3CVerifiableCredential is the base w3c verifiable credential type
	TypeW3CVerifiableCredential = "VerifiableCredential"

	// TypeW3CVerifiablePresentation is the base w3c verifiable presentation type
	TypeW3CVerifiablePresentation = "VerifiablePresentation"

	// TypeStatusList2021 is the credential type carrying a status bitstring
	TypeStatusList2021 = "StatusList2021"

	// JSONLDSchemaW3CCredential2018 is the context for the w3c credentials data model
	JSONLDSchemaW3CCredential2018 = "https://www.w3.org/2018/credentials/v1"

	// JSONLDSchemaStatusList2021 is the context for StatusList2021 terms
	JSONLDSchemaStatusList2021 = "https://w3id.org/vc/status-list/2021/v1"

	// StatusList2021Entry is the CredentialStatusType for status list references
	StatusList2021Entry CredentialStatusType = "StatusList2021Entry"

	// StatusPurposeRevocation marks a status list used for revocation
	StatusPurposeRevocation = "revocation"

	// StatusPurposeSuspension marks a status list used for suspension
	StatusPurposeSuspension = "suspension"
)
