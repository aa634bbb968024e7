package browser

import "fmt"

// NotFoundError indicates an operation referenced an unknown or closed page,
// or a visual memory entry that has not been captured yet.
type NotFoundError struct {
	PageID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("page %q not found", e.PageID)
}

// NavigationError indicates a page load failed (network error, DNS failure,
// or timeout). The page remains at its pre-navigation URL.
type NavigationError struct {
	PageID string
	URL    string
	Cause  error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation to %s failed for page %q: %v", e.URL, e.PageID, e.Cause)
}

func (e *NavigationError) Unwrap() error {
	return e.Cause
}

// ConcurrentOperationError indicates a second mutating operation was issued
// for a page while another was still in flight.
type ConcurrentOperationError struct {
	PageID string
	Op     string
}

func (e *ConcurrentOperationError) Error() string {
	return fmt.Sprintf("operation %q rejected: another operation is in flight for page %q", e.Op, e.PageID)
}

// ResourceExhaustedError indicates the configured concurrent-page limit was hit.
type ResourceExhaustedError struct {
	Limit int
}

func (e *ResourceExhaustedError) Error() string {
	return fmt.Sprintf("maximum number of pages (%d) reached", e.Limit)
}

// AnalysisError indicates a single analysis facet failed on its input. It is
// logged and replaced with a default value inside insight generation rather
// than propagated.
type AnalysisError struct {
	Facet string
	Cause error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis facet %q failed: %v", e.Facet, e.Cause)
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}

// DependencyUnavailableError indicates an optional external dependency (the
// LLM provider) was unreachable or errored. Callers degrade to heuristic-only
// output where feasible.
type DependencyUnavailableError struct {
	Dependency string
	Cause      error
}

func (e *DependencyUnavailableError) Error() string {
	return fmt.Sprintf("dependency %q unavailable: %v", e.Dependency, e.Cause)
}

func (e *DependencyUnavailableError) Unwrap() error {
	return e.Cause
}
