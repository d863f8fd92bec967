package errmsg

import "errors"

// UnknownError is shown when there is no code to decode.
const UnknownError = "Unknown error"

// messages maps backend error codes to user-facing sentences.
var messages = map[string]string{
	"USER_DELETED":               "Your account has been deleted.",
	"USER_NOT_VERIFIED":          "The account is not verified. Please check your email.",
	"USER_ROLE_DOES_NOT_MATCH":   "The user's role does not match.",
	"NO_USER":                    "User not found.",
	"USER_ALREADY_EXISTS":        "A user with this email already exists.",
	"INCORRECT_PASSWORD":         "The password entered is incorrect.",
	"UNAUTHORIZED":               "You are not authorized to access this resource.",
	"EXPIRED_JWT":                "The session has expired. Please log in again.",
	"NO_ENTITY":                  "The requested entity was not found.",
	"INVALID_TOKEN":              "The provided token is invalid.",
	"TOKEN_EXPIRED":              "The token has expired.",
	"INVALID_PASSWORD":           "The password does not meet the security requirements.",
	"INVALID_EMAIL":              "The email address is not valid.",
	"SENDGRID_API_KEY_NOT_FOUND": "Internal error. Please try again later.",
}

// Decode maps a backend error code to an English sentence.
// PRE: none
// POST: known codes map to their sentence; other non-empty codes are returned
// verbatim; "" yields UnknownError
func Decode(code string) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	if code == "" {
		return UnknownError
	}
	return code
}

// Coded is implemented by errors that carry backend error codes.
type Coded interface {
	error
	ErrorCodes() []string
}

// FromError turns any failure of a backend call into a toast message.
// Errors carrying codes are decoded from their first code; transport
// failures and code-less responses yield fallback.
func FromError(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var coded Coded
	if errors.As(err, &coded) {
		if codes := coded.ErrorCodes(); len(codes) > 0 && codes[0] != "" {
			return Decode(codes[0])
		}
	}
	if fallback == "" {
		return UnknownError
	}
	return fallback
}
