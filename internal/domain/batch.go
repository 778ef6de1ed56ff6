package domain

import "fmt"

// ItemResult records the outcome for one descriptor inside a batch operation.
type ItemResult struct {
	ItemID  string `json:"itemId"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// BatchOperationResult aggregates per-item outcomes of one batch invocation.
// The remote API has no transactions, so a batch can end partially applied;
// this is the accurate report of what happened.
type BatchOperationResult struct {
	Operation string       `json:"operation"`
	Items     []ItemResult `json:"items"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Summary   string       `json:"summary"`
}

// AddSuccess records a successfully applied item.
func (r *BatchOperationResult) AddSuccess(itemID string) {
	r.Items = append(r.Items, ItemResult{ItemID: itemID, Success: true})
	r.Succeeded++
}

// AddFailure records a failed item without aborting the batch.
func (r *BatchOperationResult) AddFailure(itemID string, err error) {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	r.Items = append(r.Items, ItemResult{ItemID: itemID, Error: detail})
	r.Failed++
}

// Finish fills the human-readable summary and returns the result.
func (r *BatchOperationResult) Finish() *BatchOperationResult {
	r.Summary = fmt.Sprintf("%s: %d succeeded, %d failed", r.Operation, r.Succeeded, r.Failed)
	return r
}

// AllSucceeded reports whether no item failed.
func (r *BatchOperationResult) AllSucceeded() bool {
	return r.Failed == 0
}
