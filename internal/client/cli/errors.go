package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fittrack/internal/client/api"
	"github.com/dmitrijs2005/fittrack/internal/client/session"
)

// errInvalidCredentials replaces a 401 from login or register, where there is
// no session to repair.
var errInvalidCredentials = errors.New("invalid email or password")

// describeError turns an error into the line shown to the user. A rejected
// credential only produces a hint; the session is left as it is.
func describeError(err error) string {
	var (
		se *api.ServerError
		uc unknownCommand
	)
	switch {
	case errors.Is(err, errInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, api.ErrAuthenticationRejected):
		return "The server rejected your session. Run 'logout' and log in again."
	case errors.Is(err, api.ErrNetworkUnavailable):
		return "Server unreachable. Check your connection and try again."
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "Cancelled."
	case errors.As(err, &se):
		return fmt.Sprintf("Request failed (%d): %s", se.StatusCode, se.Message)
	case errors.Is(err, session.ErrStorage):
		return "Saved on the server, but the local copy could not be updated: " + err.Error()
	case errors.As(err, &uc):
		return "Unknown command: " + string(uc)
	default:
		return "Error: " + err.Error()
	}
}
