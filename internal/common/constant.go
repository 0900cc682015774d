package common

const (
	// ProfileAdministrator is the profile indicator of the protected account.
	ProfileAdministrator int64 = 1
	// ProfileStandardUser is the profile indicator of every other account.
	ProfileStandardUser int64 = 2

	// MinCredentialLength is the minimal credential length, in characters.
	MinCredentialLength = 4
)
