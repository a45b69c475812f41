// Package resilience retries operations that fail with a known transient
// error.
//
// A Policy names the error to wait out, either by a substring of its message
// (compared case-insensitively) or by a target error matched with errors.Is.
// KeepRetrying calls the operation until it succeeds or fails with any other
// error, sleeping a fixed Interval between attempts.
//
// There is no attempt cap and no backoff: an error that keeps matching blocks
// the caller forever unless ctx is cancelled. Pass a context with a deadline
// when that is not acceptable.
//
// Example:
//
//	policy := resilience.Policy{Match: "database is locked", Interval: 5 * time.Second}
//	rows, err := resilience.KeepRetrying(ctx, policy, func() ([]Row, error) {
//		return store.Query(q)
//	})
package resilience
