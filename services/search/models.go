package search

// Query is what the search page sends to the backend.
type Query struct {
	Text  string `json:"query"`
	Limit int    `json:"limit"`
}

// Result is one ranked hit. Only Score is guaranteed by the backend.
type Result struct {
	Title      *string `json:"title,omitempty"`
	PageNumber *int    `json:"page_number,omitempty"`
	Score      float64 `json:"score"`
	Text       *string `json:"text,omitempty"`
}

type Response struct {
	Results []Result `json:"results"`
}
