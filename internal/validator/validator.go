// Package validator composes the per-code decision procedure shared by the
// single, batch and conversational entry points: format check, existence
// lookup, hierarchy resolution. Rejections are captured as data in the
// result, never as call failures.
package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/allwin107/hsn-validation-agent/internal/catalog"
	"github.com/allwin107/hsn-validation-agent/internal/extract"
	"github.com/allwin107/hsn-validation-agent/internal/hsn"
)

// Result is the outcome for one code. Exactly one of the two shapes holds:
// valid with description (and hierarchy for codes longer than 2 digits), or
// invalid with a human-readable reason.
type Result struct {
	Valid       bool             `json:"valid"`
	Description string           `json:"description,omitempty"`
	Hierarchy   []HierarchyLevel `json:"hierarchy,omitempty"`
	Reason      string           `json:"reason,omitempty"`
}

// HierarchyLevel is one ancestor entry, ascending by prefix length.
// Description is "Not found" for ancestors absent from the catalog;
// hierarchy gaps are informational and never reject the code itself.
type HierarchyLevel struct {
	Code        string `json:"code"`
	Found       bool   `json:"found"`
	Description string `json:"description"`
}

// BatchItem tags a Result with the original input it belongs to.
type BatchItem struct {
	HSNCode string `json:"hsn_code"`
	Result  Result `json:"result"`
}

type BatchSummary struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
}

// Batch preserves input order: Results[i] corresponds to the i-th input.
type Batch struct {
	Results []BatchItem  `json:"results"`
	Summary BatchSummary `json:"summary"`
}

const DefaultMaxBatchSize = 100

// BatchTooLargeError rejects a whole batch before any per-code work.
type BatchTooLargeError struct {
	Size int
	Max  int
}

func (e *BatchTooLargeError) Error() string {
	return fmt.Sprintf("batch size %d exceeds limit %d", e.Size, e.Max)
}

// AsBatchTooLarge unwraps err into a *BatchTooLargeError when it is one.
func AsBatchTooLarge(err error) (*BatchTooLargeError, bool) {
	var be *BatchTooLargeError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// Engine validates codes against an injected catalog store.
type Engine struct {
	store    *catalog.Store
	maxBatch int
}

func New(store *catalog.Store, maxBatch int) *Engine {
	if maxBatch <= 0 {
		maxBatch = DefaultMaxBatchSize
	}
	return &Engine{store: store, maxBatch: maxBatch}
}

// MaxBatchSize reports the configured batch cap.
func (e *Engine) MaxBatchSize() int { return e.maxBatch }

// ValidateOne runs one raw input through the full decision procedure.
// The catalog snapshot is pinned once so the existence check and the
// hierarchy resolution always see the same dataset.
func (e *Engine) ValidateOne(raw string) Result {
	code, err := hsn.CheckFormat(raw)
	if err != nil {
		fe, _ := hsn.AsFormatError(err)
		e.store.RecordInvalid(fe.Reason, strings.TrimSpace(raw))
		return Result{Reason: fe.Reason}
	}

	snap := e.store.Snapshot()
	if snap == nil {
		e.store.RecordInvalid(hsn.ReasonNotFound, code)
		return Result{Reason: hsn.ReasonNotFound}
	}

	desc, ok := snap.Lookup(code)
	if !ok {
		e.store.RecordInvalid(hsn.ReasonNotFound, code)
		return Result{Reason: hsn.ReasonNotFound}
	}

	return Result{
		Valid:       true,
		Description: desc,
		Hierarchy:   resolveHierarchy(snap, code),
	}
}

// resolveHierarchy resolves each proper-prefix ancestor independently
// against the pinned snapshot. A 2-digit code yields no entries.
func resolveHierarchy(snap *catalog.Snapshot, code string) []HierarchyLevel {
	prefixes := hsn.ParentPrefixes(code)
	if len(prefixes) == 0 {
		return nil
	}
	levels := make([]HierarchyLevel, 0, len(prefixes))
	for _, prefix := range prefixes {
		desc, found := snap.Lookup(prefix)
		if !found {
			desc = "Not found"
		}
		levels = append(levels, HierarchyLevel{Code: prefix, Found: found, Description: desc})
	}
	return levels
}

// ValidateMany applies the per-code state machine independently to each
// input, preserving order. No outcome affects another's.
func (e *Engine) ValidateMany(codes []string) (Batch, error) {
	if len(codes) > e.maxBatch {
		return Batch{}, &BatchTooLargeError{Size: len(codes), Max: e.maxBatch}
	}

	batch := Batch{Results: make([]BatchItem, 0, len(codes))}
	for _, raw := range codes {
		result := e.ValidateOne(raw)
		batch.Results = append(batch.Results, BatchItem{HSNCode: raw, Result: result})
		if result.Valid {
			batch.Summary.Valid++
		} else {
			batch.Summary.Invalid++
		}
	}
	batch.Summary.Total = len(codes)
	return batch, nil
}

// Chat extracts candidate codes from free text, validates each, and joins
// the outcomes into a human-readable reply.
func (e *Engine) Chat(message string) string {
	codes, rejected := extract.Candidates(message)

	lines := make([]string, 0, len(codes)+len(rejected))
	for _, code := range codes {
		result := e.ValidateOne(code)
		if !result.Valid {
			lines = append(lines, fmt.Sprintf("❌ %s is invalid: %s", code, result.Reason))
			continue
		}
		var b strings.Builder
		fmt.Fprintf(&b, "✅ %s is valid: %s", code, result.Description)
		if len(result.Hierarchy) > 0 {
			b.WriteString("\n🔗 Hierarchy:")
			for _, level := range result.Hierarchy {
				fmt.Fprintf(&b, "\n- %s: %s", level.Code, level.Description)
			}
		}
		lines = append(lines, b.String())
	}

	for _, token := range rejected {
		lines = append(lines, fmt.Sprintf("❌ `%s` is not a valid HSN code.", token))
	}

	if len(lines) == 0 {
		return "❌ I couldn't detect a valid HSN code.\n\n👉 Try: `01012100`, `Check 99999999`, or `Tell me about 1101`"
	}
	return strings.Join(lines, "\n")
}
