package dagobah

// This file holds only the input shapes of the engine's external
// collaborators — the table preprocessor and the entity lookup service.
// Their behavior lives outside this module; the engine just consumes their
// output.

// PrimitiveTyping is one (label, score) entry from the preprocessor's
// per-column primitive-typing output, ordered by score descending.
type PrimitiveTyping struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// TableInput is the preprocessed table handed to the engine: already
// oriented horizontally, with header position and per-column typing tags
// resolved.
type TableInput struct {
	TableDataRevised [][]string `json:"tableDataRevised"`
	HasHeader        bool       `json:"hasHeader"`
	HeaderRowIndex   int        `json:"headerRowIndex"`
	// PrimitiveTypings holds, per column index, the ordered typing tags the
	// preprocessor produced; the engine derives ColumnRole from these.
	PrimitiveTypings map[int][]PrimitiveTyping `json:"primitiveTypings"`
}

// LookupCandidate is one candidate entity for a mention, as returned by the
// entity lookup service.
type LookupCandidate struct {
	Entity string  `json:"entity"`
	Score  float64 `json:"score"`
}

// LookupEntry is one label's lookup result.
type LookupEntry struct {
	Label    string            `json:"label"`
	Entities []LookupCandidate `json:"entities"`
}

// LookupResponse is the entity lookup service's response envelope.
type LookupResponse struct {
	ExecutionTimeSec float64       `json:"executionTimeSec"`
	Output           []LookupEntry `json:"output"`
}

// AbnormalMention records a malformed per-label lookup entry that was
// skipped and reported rather than treated as fatal.
type AbnormalMention struct {
	Label  string `json:"label"`
	Reason string `json:"reason"`
}

// validateEntries partitions a LookupResponse's entries into well-formed
// (label -> ranked candidates, truncated to K) and abnormal ones: missing
// label or entity id, or a score outside [0,1].
func validateEntries(resp LookupResponse, k int) (valid map[string][]LookupCandidate, abnormal []AbnormalMention) {
	valid = make(map[string][]LookupCandidate)
	for _, entry := range resp.Output {
		if entry.Label == "" {
			abnormal = append(abnormal, AbnormalMention{Label: entry.Label, Reason: "missing label"})
			continue
		}
		kept := make([]LookupCandidate, 0, len(entry.Entities))
		for _, cand := range entry.Entities {
			if cand.Entity == "" {
				abnormal = append(abnormal, AbnormalMention{Label: entry.Label, Reason: "missing entity id"})
				continue
			}
			if cand.Score < 0 || cand.Score > 1 {
				abnormal = append(abnormal, AbnormalMention{Label: entry.Label, Reason: "score out of range"})
				continue
			}
			kept = append(kept, cand)
			if len(kept) == k {
				break
			}
		}
		valid[entry.Label] = kept
	}
	return valid, abnormal
}
