package flightcache

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The dispatcher calls them on hot paths. Keys are the caller's keys (no namespace).
type Hooks interface {
	// Stored entry decoded and returned; loader not called.
	Hit(key string)
	// No usable entry; a load is about to be started or joined.
	Miss(key string)
	// The caller joined a load already in progress instead of starting one.
	Coalesced(key string)

	LoadFailed(key string, err error)
	// Stored bytes did not decode into the dispatcher's value type.
	DecodeFailed(key string, err error)
	// op ∈ {"get", "put", "remove", "clear"}
	StorageFailed(key, op string, err error)

	// A load finished after the key was invalidated; value returned, not stored.
	WriteSkipped(key string)

	// Both gen bump and remove failed during Invalidate (likely backend outage).
	InvalidateOutage(key string, bumpErr, removeErr error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) Hit(string)                            {}
func (NopHooks) Miss(string)                           {}
func (NopHooks) Coalesced(string)                      {}
func (NopHooks) LoadFailed(string, error)              {}
func (NopHooks) DecodeFailed(string, error)            {}
func (NopHooks) StorageFailed(string, string, error)   {}
func (NopHooks) WriteSkipped(string)                   {}
func (NopHooks) InvalidateOutage(string, error, error) {}
