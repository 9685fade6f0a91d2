package searchdb

// Passage is one chunk of a guidance document.
type Passage struct {
	ID         string `json:"id" yaml:"id"`
	Title      string `json:"title" yaml:"title"`
	PageNumber *int   `json:"page_number,omitempty" yaml:"page_number"`
	Text       string `json:"text" yaml:"text"`
}

type Result struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	PageNumber *int    `json:"page_number,omitempty"`
	Score      float64 `json:"score"`
	Text       string  `json:"text"`
}

type Response struct {
	Results    []Result `json:"results"`
	Total      uint64   `json:"total"`
	MaxScore   float64  `json:"max_score"`
	SearchTime string   `json:"search_time"`
}
