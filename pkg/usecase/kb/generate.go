package kb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jscott-dev/meetmebot/pkg/adapter"
	"github.com/jscott-dev/meetmebot/pkg/model"
	"github.com/jscott-dev/meetmebot/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// UseCase builds the knowledge base offline: it chunks source documents,
// embeds each chunk, and writes the resulting record list where the chat
// service will load it from.
type UseCase struct {
	gemini  adapter.Gemini
	storage adapter.Storage
}

// New creates a knowledge-base builder. storage may be nil when the output
// only goes to a local file.
func New(gemini adapter.Gemini, storage adapter.Storage) *UseCase {
	return &UseCase{
		gemini:  gemini,
		storage: storage,
	}
}

// GenerateInput controls a knowledge-base build
type GenerateInput struct {
	// DocsDir is the directory of source documents (.txt and .md)
	DocsDir string

	// OutputPath writes the record list to a local JSON file when set
	OutputPath string

	// ObjectKey uploads the record list to blob storage when set
	ObjectKey string
}

// Generate builds knowledge records from all documents in the input
// directory and writes them to the configured destinations.
func (uc *UseCase) Generate(ctx context.Context, input GenerateInput) ([]model.KnowledgeRecord, error) {
	logger := logging.From(ctx)

	entries, err := os.ReadDir(input.DocsDir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read docs directory", goerr.V("dir", input.DocsDir))
	}

	var records []model.KnowledgeRecord
	for _, entry := range entries {
		if entry.IsDir() || !supportedDoc(entry.Name()) {
			logger.Info("skipping unsupported file", "file", entry.Name())
			continue
		}

		path := filepath.Join(input.DocsDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read document", goerr.V("path", path))
		}

		chunks := splitChunks(string(data))
		logger.Info("processing document", "file", entry.Name(), "chunks", len(chunks))

		for i, chunk := range chunks {
			embedding, err := uc.embed(ctx, chunk)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to embed chunk",
					goerr.V("file", entry.Name()), goerr.V("chunk", i+1))
			}

			records = append(records, model.KnowledgeRecord{
				Text:      chunk,
				Embedding: embedding,
				Source:    fmt.Sprintf("%s (chunk %d)", entry.Name(), i+1),
			})
		}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode knowledge base")
	}

	if input.OutputPath != "" {
		if err := os.WriteFile(input.OutputPath, data, 0644); err != nil {
			return nil, goerr.Wrap(err, "failed to write knowledge base", goerr.V("path", input.OutputPath))
		}
		logger.Info("wrote knowledge base", "path", input.OutputPath, "records", len(records))
	}

	if input.ObjectKey != "" {
		if uc.storage == nil {
			return nil, goerr.New("bucket is not configured for upload", goerr.V("key", input.ObjectKey))
		}
		if err := uc.upload(ctx, input.ObjectKey, data); err != nil {
			return nil, err
		}
		logger.Info("uploaded knowledge base", "key", input.ObjectKey, "records", len(records))
	}

	return records, nil
}

func (uc *UseCase) embed(ctx context.Context, chunk string) ([]float32, error) {
	resp, err := uc.gemini.Embedding(ctx, scrub(chunk))
	if err != nil {
		return nil, err
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, goerr.New("embedding model returned an empty vector")
	}
	return resp.Embeddings[0].Values, nil
}

func (uc *UseCase) upload(ctx context.Context, key string, data []byte) error {
	writer, err := uc.storage.Put(ctx, key)
	if err != nil {
		return goerr.Wrap(err, "failed to open storage writer", goerr.V("key", key))
	}

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return goerr.Wrap(err, "failed to upload knowledge base", goerr.V("key", key))
	}

	if err := writer.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize upload", goerr.V("key", key))
	}

	return nil
}

func supportedDoc(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md":
		return true
	default:
		return false
	}
}
