package oauthmodel

import "net/http"

// CallbackParams holds the parameters the provider sends back to the redirect URI.
type CallbackParams struct {
	// Code is the single use authorization code. Never stored.
	Code string

	// State must match the value issued when the flow was initiated.
	State string

	// Error is set instead of Code when the provider refused the authorization.
	// Example: "access_denied"
	Error string

	ErrorDescription string
}

// CallbackParamsFromRequest reads the callback parameters from either the query
// string or a form_post body.
func CallbackParamsFromRequest(r *http.Request) CallbackParams {
	return CallbackParams{
		Code:             r.FormValue("code"),
		State:            r.FormValue("state"),
		Error:            r.FormValue("error"),
		ErrorDescription: r.FormValue("error_description"),
	}
}
