package domain

// ParsedTarget is the output of identifier parsing. Immutable once created;
// downstream stages read it but never mutate it.
type ParsedTarget struct {
	Mission        Mission
	NumericID      string // preserves decimal sub-identifiers, e.g. "752.01"
	OriginalTarget string
}

// CatalogRecord maps archive column names to scalar values as returned by a
// TAP query row. Values are numbers, strings, or nil. Request-scoped:
// created per resolution, discarded after feature extraction.
type CatalogRecord map[string]any

// Resolution is the outcome of catalog resolution for a parsed target.
// TargetID is the primary catalog key (TIC / KepID / EPIC) when secondary
// resolution succeeded, otherwise the parsed numeric id.
type Resolution struct {
	Mission        Mission        `json:"mission"`
	Target         string         `json:"target"`
	OriginalTarget string         `json:"original_target"`
	TargetID       string         `json:"numeric_id"`
	RA             *float64       `json:"ra,omitempty"`
	Dec            *float64       `json:"dec,omitempty"`
	Metadata       map[string]any `json:"metadata"`
}

// Classification is the binary vetting label.
type Classification string

const (
	Confirmed     Classification = "CONFIRMED"
	FalsePositive Classification = "FALSE_POSITIVE"
)

// PredictionResult is the derived, never persisted outcome of a prediction.
type PredictionResult struct {
	Mission        Mission        `json:"mission"`
	TargetID       string         `json:"target_id"`
	Probability    float64        `json:"probability"`
	Threshold      float64        `json:"threshold"`
	Classification Classification `json:"classification"`
	UsedFeatures   map[string]any `json:"used_features,omitempty"`
}
