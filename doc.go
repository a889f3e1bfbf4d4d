// Package userstore is the composition root for the user record store.
//
// A store keeps one User record per file, directly inside a base directory
// that must already exist. Entry names are validated before they reach the
// filesystem: an entry must decompose into exactly one normal path
// component, so "../secret", "/etc/passwd", "a/b" and "" are all rejected.
//
// Failures come in two tiers. Caller faults (invalid entry, entry not found)
// are *RejectError values and can be tested with IsReject or errors.Is.
// Everything else (canonicalization, I/O, encoding) is a system fault.
//
// Usage:
//
//	store, err := userstore.Open("./users")
//	if err != nil {
//		return err
//	}
//	err = store.Write(ctx, "alice", userstore.User{Name: "Alice", Age: 30})
//	u, err := store.Read(ctx, "alice")
package userstore
