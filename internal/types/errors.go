package types

import "errors"

// Error kinds of the generation pipeline. The orchestrator matches on these
// with errors.Is to decide between retry, backoff and fallback.
var (
	// ErrCatalogLoad means the place catalog could not be ingested. Fatal for
	// the request, there is no data to plan from.
	ErrCatalogLoad = errors.New("catalog load failed")

	// ErrNoCandidates means candidate selection produced an empty set.
	ErrNoCandidates = errors.New("no candidate places for request")

	// ErrCompletionService covers network/HTTP failures and empty responses
	// from the text-completion backend.
	ErrCompletionService = errors.New("completion service call failed")

	// ErrRateLimited is the rate-limit signal from the completion service.
	// Retried after a fixed backoff.
	ErrRateLimited = errors.New("completion service rate limited")

	// ErrParse means the model output contained no parseable JSON object.
	ErrParse = errors.New("model output parse failed")

	// ErrValidation means the parsed output violated the itinerary schema.
	ErrValidation = errors.New("itinerary validation failed")
)
