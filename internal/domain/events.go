package domain

// Event type names published on the in-process event bus
const (
	EventLedgerChanged    = "ledger.changed"
	EventRoundSettled     = "round.settled"
	EventSessionSignedIn  = "session.signed_in"
	EventSessionSignedOut = "session.signed_out"
)

// LedgerChangedPayloadV1 carries a full ledger snapshot, published exactly
// once per ledger mutation so the persistence layer can save reactively.
type LedgerChangedPayloadV1 struct {
	Snapshot Snapshot `json:"snapshot"`
}

// RoundSettledPayloadV1 is published when a round resolves
type RoundSettledPayloadV1 struct {
	Result RoundResult `json:"result"`
}

// SessionPayloadV1 is published on sign-in and sign-out
type SessionPayloadV1 struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name,omitempty"`
}
