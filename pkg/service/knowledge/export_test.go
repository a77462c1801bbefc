package knowledge

// Exposed for testing
var CosineSimilarityForTest = cosineSimilarity

const (
	NoKnowledgeMessageForTest = noKnowledgeMessage
	NoRelevantMessageForTest  = noRelevantMessage
)
