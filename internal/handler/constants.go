package handler

// Request handling error messages
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingQueryParam     = "Missing %s query parameter"
)

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError   = "Something went wrong"
	ErrMsgUnknownError         = "Unknown error"
	ErrMsgUnavailableError     = "Server is temporarily unavailable. Please try again later."
	ErrMsgTooManyRequestsError = "Too many requests. Please try again later."

	ErrMsgInvalidWagerError   = "Invalid bet. Check the amount and your balance."
	ErrMsgInvalidColorError   = "Pick red, green or blue."
	ErrMsgWrongPhaseError     = "You can't do that right now."
	ErrMsgGameNotStartedError = "Start the game first."
	ErrMsgBetNotFoundError    = "No bet found for this round."
	ErrMsgSignInBlockedError  = "Too many sign-in attempts. Wait a few minutes and try again."
)
