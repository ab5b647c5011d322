package session

import "time"

// Sign-in attempt gate
const (
	// MaxSignInAttempts within AttemptWindow before attempts are
	// rejected without contacting the provider.
	MaxSignInAttempts = 5
	AttemptWindow     = 5 * time.Minute

	// GateCacheSize bounds how many distinct users the gate tracks
	GateCacheSize = 1024
)

// Log messages
const (
	LogMsgSignedIn          = "User signed in"
	LogMsgSignedOut         = "User signed out"
	LogMsgSignInBlocked     = "Sign-in attempt blocked by gate"
	LogMsgLoadQueued        = "Engine not attached, queueing hydrate"
	LogMsgLoadUsingDefaults = "Load failed, hydrating defaults"
)
