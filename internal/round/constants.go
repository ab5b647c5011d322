package round

import "time"

// Round timing
const (
	CountdownSeconds = 30
	TickInterval     = 1 * time.Second
	SettleDelay      = 1 * time.Second
	DisplayDelay     = 4 * time.Second
)

// Log messages
const (
	LogMsgRoundStarted    = "Round entered betting phase"
	LogMsgRoundResolved   = "Round resolved"
	LogMsgCountdownForced = "Countdown expired, forcing resolution"
	LogMsgPublishFailed   = "Failed to publish round event"
)
