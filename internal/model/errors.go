package model

import "fmt"

// InvalidInputError rejects a malformed or disallowed URL before any
// network call is made. Surfaced directly to the caller, never retried.
type InvalidInputError struct {
	URL    string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.URL, e.Reason)
}

// ExtractionFailedError is a media-resolution failure. Fatal to the
// whole analysis: without metadata there is nothing to report on.
type ExtractionFailedError struct {
	URL string
	Err error
}

func (e *ExtractionFailedError) Error() string {
	return fmt.Sprintf("extraction failed for %q: %v", e.URL, e.Err)
}

func (e *ExtractionFailedError) Unwrap() error { return e.Err }

// TranscriptionFailedError is non-fatal: the orchestrator records it
// and continues with the transcript absent.
type TranscriptionFailedError struct {
	Err error
}

func (e *TranscriptionFailedError) Error() string {
	return fmt.Sprintf("transcription failed: %v", e.Err)
}

func (e *TranscriptionFailedError) Unwrap() error { return e.Err }

// VerificationFailedError marks verification failure for a claim or the
// whole content. Non-fatal; the affected entries get status "error".
type VerificationFailedError struct {
	Claim string
	Err   error
}

func (e *VerificationFailedError) Error() string {
	if e.Claim != "" {
		return fmt.Sprintf("verification failed for claim %q: %v", e.Claim, e.Err)
	}
	return fmt.Sprintf("verification failed: %v", e.Err)
}

func (e *VerificationFailedError) Unwrap() error { return e.Err }

// ConfigurationError reports a missing credential or setting required
// by a stage. Most stages degrade on it rather than abort the analysis.
type ConfigurationError struct {
	Missing string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s not set", e.Missing)
}
