package searchdb

type DB interface {
	BuildIndex(passages []Passage) error
	Search(queryString string, limit int) (*Response, error)
	GetDocCount() (uint64, error)
	Close() error
}
