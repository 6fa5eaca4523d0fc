package auth

import "time"

const (
	// AccessTokenTTL is the lifetime of an issued JWT.
	AccessTokenTTL = 24 * time.Hour

	// ConfirmationCodeTTL is how long an emailed confirmation code stays
	// valid. The used-code ledger keeps entries at least this long.
	ConfirmationCodeTTL = 24 * time.Hour
)

// maxUsernameLen and maxEmailLen mirror the column widths in users.account.
const (
	maxUsernameLen = 150
	maxEmailLen    = 254
)
