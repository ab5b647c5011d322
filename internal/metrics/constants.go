package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Game metric names
const (
	MetricNameRoundsResolved = "rounds_resolved_total"
	MetricNameStakesPlaced   = "stakes_placed_total"
	MetricNamePointsStaked   = "points_staked_total"
	MetricNamePointsWon      = "points_won_total"
)

// Persistence metric names
const (
	MetricNameSavesPersisted = "saves_persisted_total"
	MetricNameSavesDropped   = "saves_dropped_total"
	MetricNameLoadFailures   = "load_failures_total"
)

// Session metric names
const (
	MetricNameSignInsBlocked = "sign_ins_blocked_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

const (
	HelpTextRoundsResolved = "Total number of rounds resolved, by drawn color"
	HelpTextStakesPlaced   = "Total number of stakes placed, by selected color"
	HelpTextPointsStaked   = "Total points wagered"
	HelpTextPointsWon      = "Total points paid out as winnings"
)

const (
	HelpTextSavesPersisted = "Total number of snapshots written to the document store"
	HelpTextSavesDropped   = "Total number of saves dropped, by reason"
	HelpTextLoadFailures   = "Total number of failed document loads"
)

const (
	HelpTextSignInsBlocked = "Total number of sign-in attempts rejected by the attempt gate"
)

// ============================================================================
// Metric Label Names
// ============================================================================

const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelType   = "type"
	LabelColor  = "color"
	LabelReason = "reason"
)

// Save drop reasons
const (
	DropReasonRateLimited = "rate_limited"
	DropReasonStoreError  = "store_error"
	DropReasonNoUser      = "no_user"
)

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgMetricsRecorded = "Metrics recorded for event"
)

// HTTPLatencyBuckets defines latency histogram buckets in seconds
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}
