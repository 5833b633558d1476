package memo

// Options tunes the escape analysis and scope-pruning transform.
// It is the only configuration surface the pass accepts.
type Options struct {
	// MemoizeJsxElements forces JsxExpression/JsxFragment values to
	// level Memoized instead of the default Unmemoized.
	MemoizeJsxElements bool
	// DryRun runs the collector and solver but skips mutating the
	// function in phase 3, leaving Diagnostics to report what would
	// have been pruned.
	DryRun bool
}

// DefaultOptions returns the pass defaults: JSX is not memoized by
// default and the function is mutated in place.
func DefaultOptions() Options {
	return Options{}
}
