package persist

import "time"

// Persistence timing
const (
	// SaveInterval is the minimum gap between document writes. Saves
	// arriving inside the window are dropped; the next natural save
	// carries the superseding state.
	SaveInterval = 1000 * time.Millisecond

	// LoadRetryBackoff is the wait before the single load retry
	LoadRetryBackoff = 2000 * time.Millisecond
)

// Log messages
const (
	LogMsgSaveDropped      = "Save dropped"
	LogMsgSaveFailed       = "Save failed, will retry on next change"
	LogMsgLoadRetrying     = "Load failed, retrying once"
	LogMsgLoadFailed       = "Load failed after retry, using defaults"
	LogMsgDocumentCreated  = "Created default document for new user"
	LogMsgFieldsSanitized  = "Dropped malformed fields from remote document"
)
