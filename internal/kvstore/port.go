package kvstore

// Store defines the port interface for the persistent string key-value
// store the analysis cache sits on.
//
// Keys and values are opaque strings. Implementations are responsible for
// durability and for reporting capacity limits; callers are responsible for
// serialization. There are no transactions: concurrent writers to the same
// key follow last-writer-wins.
type Store interface {
	// Get returns the value for key and true, or "" and false when absent.
	Get(key string) (string, bool, error)

	// Set stores value under key, overwriting any previous value.
	// A write that would exceed the store's capacity fails with a
	// StoreError carrying ErrCauseQuotaExceeded and leaves the old value.
	Set(key string, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	// Keys enumerates every key currently stored, in no particular order.
	Keys() ([]string, error)
}
