package devbackend

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/meghashyamc/docsearch/db/searchdb"
	"gopkg.in/yaml.v3"
)

//go:embed sample_corpus.yaml
var sampleCorpus []byte

type corpusFile struct {
	Passages []searchdb.Passage `yaml:"passages"`
}

// LoadCorpus reads passages from a YAML file, or the built-in sample when path is empty.
func LoadCorpus(path string) ([]searchdb.Passage, error) {
	data := sampleCorpus
	if len(path) > 0 {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("could not read corpus file: %w", err)
		}
	}

	return parseCorpus(data)
}

func parseCorpus(data []byte) ([]searchdb.Passage, error) {
	var corpus corpusFile
	if err := yaml.Unmarshal(data, &corpus); err != nil {
		return nil, fmt.Errorf("could not parse corpus: %w", err)
	}

	for i := range corpus.Passages {
		if len(corpus.Passages[i].ID) == 0 {
			corpus.Passages[i].ID = fmt.Sprintf("p%04d", i+1)
		}
	}

	return corpus.Passages, nil
}
