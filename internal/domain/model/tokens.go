package model

import "golang.org/x/oauth2"

// OAuth1Token is the intermediate token Garmin's SSO hands out before the
// OAuth2 exchange. It is kept in the bundle so a future exchange could be
// replayed without a full credential login.
type OAuth1Token struct {
	Token  string `json:"oauth_token"`
	Secret string `json:"oauth_token_secret"`
}

// TokenBundle is the serialized authentication state persisted by the token
// store and consumed by the Garmin client. Callers outside the garmin
// adapter treat it as opaque.
type TokenBundle struct {
	OAuth1 OAuth1Token  `json:"oauth1"`
	OAuth2 oauth2.Token `json:"oauth2"`
}
