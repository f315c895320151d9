package domain

// SearchConfig holds the batch and paging sizes shared by the orchestrator and the CLI.
type SearchConfig struct {
	CachePageSize     int
	DisplayPageSize   int
	AnswerContextSize int
}

// DefaultSearchConfig returns the sizes used when nothing is configured:
// one 100-result batch per query, 20 results per page, and the first page
// as AI answer context.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		CachePageSize:     100,
		DisplayPageSize:   20,
		AnswerContextSize: 20,
	}
}
