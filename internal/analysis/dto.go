package analysis

// analyzeRequest is the JSON body accepted by every analysis endpoint.
// Count is only read by /keywords.
type analyzeRequest struct {
	Text  string `json:"text"`
	Count *int   `json:"count,omitempty"`
}
