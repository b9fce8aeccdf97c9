package client

import "errors"

// ErrSignIn wraps every failure to obtain a session token.
var ErrSignIn = errors.New("error signing in")
