package model

// KnowledgeRecord is one chunk of the precomputed knowledge base: the chunk
// text, its embedding vector, and a human-readable source label such as
// "resume.txt (chunk 3)". Records are produced offline and read-only at
// request time. All embeddings in one knowledge base share the dimensionality
// of the embedding model that produced them.
type KnowledgeRecord struct {
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
	Source    string    `json:"source"`
}
