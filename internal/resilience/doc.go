// Package resilience groups the fault-tolerance wrappers used around the
// pipeline's external dependencies: the object store holding the staged
// partitions and the Postgres run ledger.
//
// Subpackages:
//   - circuitbreaker: gobreaker-based breakers for storage calls and ledger
//     statements
//   - retry: exponential backoff with jitter, with retryability decided per
//     backend error class
//
// Example:
//
//	cb := circuitbreaker.New(circuitbreaker.StorageConfig())
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return store.Get(ctx, "silver/drugs_valid.json")
//	})
//
//	err := retry.WithBackoff(ctx, retry.StorageConfig(), func() error {
//	    return store.Put(ctx, key, data)
//	})
package resilience
