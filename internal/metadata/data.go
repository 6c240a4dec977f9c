package metadata

/*
	ErrorCause is a closed, canonical classification used exclusively for
	observability (logging, metrics, reporting).

	Rules:
	 - ErrorCause MUST NOT influence control flow.
	 - ErrorCause values MUST have stable, package-agnostic semantics.
	 - Packages MAY map their local errors to ErrorCause,
	   but MUST NOT invent new meanings.

If a failure does not clearly match a defined cause, CauseUnknown MUST be used.
*/
type ErrorCause int

/*
Canonical ErrorCause Table

# CauseUnknown

  - The failure does not map cleanly to any known category.

# CauseNetworkFailure

  - Transport failure or remote unavailability talking to the analysis service.
  - Examples: connection refused, DNS failure, 5xx responses.

# CausePolicyDisallow

  - A request was refused by policy.
  - Examples: 4xx from the analysis service, a scan rejected because another
    scan is in flight, an input URL failing validation.

# CauseContentInvalid

  - Content was received but could not be interpreted.
  - Examples: undecodable analysis payload, corrupt cache record.

# CauseStorageFailure

  - Failure reading or writing the persistent key-value store.
  - Examples: quota exceeded, disk full, permission denied.

# CauseInvariantViolation

  - A system-level invariant was violated.
  - Example: an adapter response carrying both data and an error.
*/
const (
	CauseUnknown ErrorCause = iota
	CauseNetworkFailure
	CausePolicyDisallow
	CauseContentInvalid
	CauseStorageFailure
	CauseInvariantViolation
)

func (c ErrorCause) String() string {
	switch c {
	case CauseNetworkFailure:
		return "network_failure"
	case CausePolicyDisallow:
		return "policy_disallow"
	case CauseContentInvalid:
		return "content_invalid"
	case CauseStorageFailure:
		return "storage_failure"
	case CauseInvariantViolation:
		return "invariant_violation"
	default:
		return "unknown"
	}
}

// CacheEventKind names what happened to a single cache key.
type CacheEventKind string

const (
	CacheHit     CacheEventKind = "hit"
	CacheMiss    CacheEventKind = "miss"
	CacheExpired CacheEventKind = "expired"
	CacheCorrupt CacheEventKind = "corrupt"
	CacheWrite   CacheEventKind = "write"
	CacheClear   CacheEventKind = "clear"
)

// ScanOutcome is the terminal state of one scan, for observability only.
type ScanOutcome string

const (
	OutcomeSuccess   ScanOutcome = "success"
	OutcomeCached    ScanOutcome = "cached"
	OutcomeInvalid   ScanOutcome = "invalid"
	OutcomeFailed    ScanOutcome = "failed"
	OutcomeEmpty     ScanOutcome = "empty"
	OutcomeBusy      ScanOutcome = "busy"
	OutcomeCancelled ScanOutcome = "cancelled"
)

type Attribute struct {
	Key   AttributeKey
	Value string
}

func NewAttr(key AttributeKey, val string) Attribute {
	return Attribute{
		Key:   key,
		Value: val,
	}
}

type AttributeKey string

const (
	AttrURL        AttributeKey = "url"
	AttrHost       AttributeKey = "host"
	AttrKey        AttributeKey = "key"
	AttrScanID     AttributeKey = "scan_id"
	AttrHTTPStatus AttributeKey = "http_status"
	AttrMessage    AttributeKey = "message"
	AttrPath       AttributeKey = "path"
	AttrCount      AttributeKey = "count"
	AttrAgeMs      AttributeKey = "age_ms"
)
