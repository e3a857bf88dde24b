package server

import (
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-oauth-client/internal/errors"
	"github.com/jrsteele09/go-oauth-client/internal/metrics"
	"github.com/jrsteele09/go-oauth-client/oauthmodel"
)

// Outcome is what the user is shown when a step of the flow fails.
type Outcome struct {
	Status  int
	Message string
}

// OutcomeFor maps an error to its status code and user facing message.
// Errors outside the flow's taxonomy are reported as internal failures.
func OutcomeFor(err error) Outcome {
	var oe *oauthmodel.Error
	if !errors.As(err, &oe) {
		return Outcome{http.StatusInternalServerError, "Something went wrong. Please try again."}
	}

	switch oe.Kind {
	case oauthmodel.KindAuthorizationDenied:
		switch oe.Denial {
		case oauthmodel.DenialAccessDenied:
			return Outcome{http.StatusForbidden, "You declined access, so the application cannot sign you in."}
		case oauthmodel.DenialInvalidScope:
			return Outcome{http.StatusBadRequest, "The permissions requested by this application are invalid."}
		case oauthmodel.DenialServerError:
			return Outcome{http.StatusBadGateway, "The provider hit an error during authorization."}
		default:
			return Outcome{http.StatusBadRequest, "Authorization failed: " + oe.Message}
		}
	case oauthmodel.KindMalformedCallback:
		return Outcome{http.StatusBadRequest, "The sign in callback was missing its code or state."}
	case oauthmodel.KindStateMismatch:
		return Outcome{http.StatusForbidden, "Could not verify that this sign in was started here."}
	case oauthmodel.KindStaleSession:
		return Outcome{http.StatusConflict, "This sign in was superseded by a newer one. Please start again."}
	case oauthmodel.KindNetwork:
		return Outcome{http.StatusGatewayTimeout, "The provider could not be reached."}
	case oauthmodel.KindBadRequest:
		return Outcome{http.StatusBadRequest, "The provider rejected the request: " + oe.Message}
	case oauthmodel.KindAuthFailure:
		return Outcome{http.StatusBadGateway, "The provider rejected this application's credentials."}
	case oauthmodel.KindUnexpectedStatus:
		return Outcome{http.StatusBadGateway, fmt.Sprintf("The provider returned status %d.", oe.StatusCode)}
	case oauthmodel.KindMalformedTokenResponse, oauthmodel.KindMalformedResponse:
		return Outcome{http.StatusBadGateway, "The provider returned an invalid response."}
	default:
		return Outcome{http.StatusInternalServerError, "Something went wrong. Please try again."}
	}
}

// outcomeLabel is the metrics label for err.
func outcomeLabel(err error) string {
	if err == nil {
		return metrics.OutcomeSuccess
	}
	if kind := oauthmodel.KindOf(err); kind != "" {
		return string(kind)
	}
	return "error"
}
