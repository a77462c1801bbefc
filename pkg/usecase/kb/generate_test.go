package kb_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jscott-dev/meetmebot/pkg/model"
	"github.com/jscott-dev/meetmebot/pkg/usecase/kb"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"google.golang.org/genai"
)

// mockGemini embeds every text into a fixed-size vector and records inputs
type mockGemini struct {
	inputs []string
}

func (m *mockGemini) GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return nil, goerr.New("not implemented")
}

func (m *mockGemini) Embedding(ctx context.Context, text string) (*genai.EmbedContentResponse, error) {
	m.inputs = append(m.inputs, text)
	return &genai.EmbedContentResponse{
		Embeddings: []*genai.ContentEmbedding{{Values: []float32{1, 2, 3}}},
	}, nil
}

// mockStorage collects uploaded objects
type mockStorage struct {
	objects map[string][]byte
}

func newMockStorage() *mockStorage {
	return &mockStorage{objects: make(map[string][]byte)}
}

func (m *mockStorage) Put(ctx context.Context, key string) (io.WriteCloser, error) {
	return &mockWriter{storage: m, key: key}, nil
}

func (m *mockStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, goerr.New("object not found", goerr.V("key", key))
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

type mockWriter struct {
	storage *mockStorage
	key     string
	buf     bytes.Buffer
}

func (w *mockWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *mockWriter) Close() error {
	w.storage.objects[w.key] = w.buf.Bytes()
	return nil
}

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	gt.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

const resumeDoc = `EXPERIENCE: Sr. Full Stack Engineer at TechCorp, led the React migration of the flagship product.

SKILLS: React, TypeScript, AWS, Node.js, Python, and a healthy dose of patience.

short line

EDUCATION: BS Computer Science, University of Code, graduated with honors in 2018.`

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeDoc(t, dir, "resume.txt", resumeDoc)
	writeDoc(t, dir, "photo.png", "binary junk")

	gemini := &mockGemini{}
	storage := newMockStorage()
	uc := kb.New(gemini, storage)

	outputPath := filepath.Join(dir, "knowledge-base.json")
	records := gt.R1(uc.Generate(ctx, kb.GenerateInput{
		DocsDir:    dir,
		OutputPath: outputPath,
		ObjectKey:  "knowledge-base/embeddings.json",
	})).NoError(t)

	// Three paragraphs survive the length filter; the png is skipped
	gt.A(t, records).Length(3)
	gt.S(t, records[0].Text).Contains("TechCorp")
	gt.Equal(t, records[0].Source, "resume.txt (chunk 1)")
	gt.Equal(t, records[0].Embedding, []float32{1, 2, 3})
	gt.A(t, gemini.inputs).Length(3)

	// Local file and uploaded object decode back to the same records
	for _, data := range [][]byte{
		gt.R1(os.ReadFile(outputPath)).NoError(t),
		storage.objects["knowledge-base/embeddings.json"],
	} {
		var decoded []model.KnowledgeRecord
		gt.NoError(t, json.Unmarshal(data, &decoded))
		gt.A(t, decoded).Length(3)
	}
}

func TestGenerateWholeFileFallback(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	// Lines separated by single newlines form no paragraph chunks; the
	// whole document becomes one chunk.
	content := strings.Repeat("line of a resume with useful details\n", 3)
	writeDoc(t, dir, "bio.md", content)

	uc := kb.New(&mockGemini{}, nil)
	records := gt.R1(uc.Generate(ctx, kb.GenerateInput{DocsDir: dir})).NoError(t)

	gt.A(t, records).Length(1)
	gt.Equal(t, records[0].Source, "bio.md (chunk 1)")
}

func TestGenerateMissingDir(t *testing.T) {
	uc := kb.New(&mockGemini{}, nil)
	_, err := uc.Generate(context.Background(), kb.GenerateInput{DocsDir: "/no/such/dir"})
	gt.Error(t, err)
}

func TestGenerateUploadWithoutBucket(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeDoc(t, dir, "resume.txt", resumeDoc)

	uc := kb.New(&mockGemini{}, nil)
	_, err := uc.Generate(ctx, kb.GenerateInput{DocsDir: dir, ObjectKey: "kb.json"})
	gt.Error(t, err)
}
