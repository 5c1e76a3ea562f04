package types

import "encoding/json"

// SearchResponse is either a result list for Query or an error message.
// Callers branch on Error being non-empty.
type SearchResponse struct {
	Query   string          `json:"query"`
	Results []*SearchResult `json:"results"`
	Error   string          `json:"error,omitempty"`
}

// SearchResult represents a single normalized search result
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Failed reports whether the response carries an error
func (r *SearchResponse) Failed() bool {
	return r.Error != ""
}

// MarshalJSON emits exactly one of the two response shapes
func (r SearchResponse) MarshalJSON() ([]byte, error) {
	if r.Error != "" {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{r.Error})
	}
	results := r.Results
	if results == nil {
		results = []*SearchResult{}
	}
	return json.Marshal(struct {
		Query   string          `json:"query"`
		Results []*SearchResult `json:"results"`
	}{r.Query, results})
}

// ErrorResponse converts err into the error shape of a SearchResponse
func ErrorResponse(err error) *SearchResponse {
	return &SearchResponse{Error: err.Error()}
}
