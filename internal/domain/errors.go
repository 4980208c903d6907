package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy for evaluation operations. Failures are isolated to
// the query (or comparison call) that triggered them; a single query's
// failure never aborts an in-progress approach run.
var (
	// ErrInvalidInput indicates that an operation received input it
	// must reject before any computation: an empty score sequence, an
	// out-of-scale relevance score, or a malformed request.
	ErrInvalidInput = errors.New("invalid input")

	// ErrJudgeUnavailable indicates a transient judge-service failure
	// (network error, rate limit, server error). Eligible for retry
	// with backoff before being surfaced per query.
	ErrJudgeUnavailable = errors.New("judge unavailable")

	// ErrJudgeResponseInvalid indicates the judge returned a malformed
	// response or an out-of-scale score. Permanent; never retried.
	ErrJudgeResponseInvalid = errors.New("judge response invalid")

	// ErrJudgmentCountMismatch indicates the judge returned a different
	// number of judgments than hits submitted. A protocol violation,
	// fatal to that query.
	ErrJudgmentCountMismatch = errors.New("judgment count mismatch")

	// ErrQuerySetMismatch indicates that summaries handed to the
	// comparison engine do not share the same ordered query set.
	// Fatal to the comparison call.
	ErrQuerySetMismatch = errors.New("query set mismatch")
)

// Evaluation stages at which a per-query failure can occur.
const (
	// StageSearch covers failures of the caller-supplied search
	// function.
	StageSearch = "search"
	// StageJudge covers judge-service failures, after retries.
	StageJudge = "judge"
	// StageMetrics covers metric-computation failures.
	StageMetrics = "metrics"
)

// QueryError records which query failed, at which stage, and why.
// The approach runner stores these instead of aborting the run.
type QueryError struct {
	// Query is the probe whose evaluation failed.
	Query Query

	// Stage is one of StageSearch, StageJudge, StageMetrics.
	Stage string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface for QueryError.
func (e *QueryError) Error() string {
	return fmt.Sprintf("query %q failed at %s: %v", e.Query.Text, e.Stage, e.Err)
}

// Unwrap returns the underlying error for errors.Is / errors.As.
func (e *QueryError) Unwrap() error { return e.Err }

// NewQueryError creates a QueryError for the given query and stage.
func NewQueryError(q Query, stage string, err error) *QueryError {
	return &QueryError{Query: q, Stage: stage, Err: err}
}
