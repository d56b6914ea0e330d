package tools

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/s2t-dev/s2t-mcp/internal/domain/catalog"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 100
)

// chunkText splits text into overlapping windows. Indexes of the resulting
// chunks start at 0; the final chunk may be shorter than size.
func chunkText(text string, size, overlap int) []string {
	if size <= 0 {
		size = defaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	if len(text) <= size {
		return []string{text}
	}

	step := size - overlap
	var chunks []string
	for start := 0; start < len(text); start += step {
		end := start + size
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])
		if end == len(text) {
			break
		}
	}
	return chunks
}

func generateEmbeddings(client Caller) catalog.Descriptor {
	return catalog.Descriptor{
		Name:        "s2t_generate_embeddings",
		Title:       "Generate Embeddings",
		Description: "Chunk a text and generate an embedding vector for each chunk via the accelerator embedding service.",
		Shape: []catalog.Field{
			{Name: "text", Type: catalog.TypeString, Required: true, Description: "Text to embed"},
			{Name: "chunk_size", Type: catalog.TypeInteger, Default: float64(defaultChunkSize), Min: catalog.Float(100), Max: catalog.Float(8000), Description: "Characters per chunk"},
			{Name: "overlap", Type: catalog.TypeInteger, Default: float64(defaultChunkOverlap), Min: catalog.Float(0), Max: catalog.Float(2000), Description: "Overlapping characters between adjacent chunks"},
		},
		Annotations: catalog.Annotations{ReadOnly: true, Idempotent: true, OpenWorld: true},
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			chunks := chunkText(argString(args, "text"), argInt(args, "chunk_size"), argInt(args, "overlap"))

			result, err := client.Call(ctx, "/embeddings/generate", http.MethodPost, map[string]interface{}{
				"chunks": chunks,
			})
			if err != nil {
				return "", err
			}

			var resp struct {
				Model      string `json:"model"`
				Embeddings []struct {
					Dimensions int `json:"dimensions"`
				} `json:"embeddings"`
			}
			if err := json.Unmarshal(result, &resp); err != nil {
				return "", err
			}

			d := &doc{}
			d.title("Embeddings Generated")
			if resp.Model != "" {
				d.field("Model", resp.Model)
			}
			d.field("Chunks", len(chunks))
			d.blank()
			for i, chunk := range chunks {
				dims := 0
				if i < len(resp.Embeddings) {
					dims = resp.Embeddings[i].Dimensions
				}
				d.line("- Chunk %d (%d dims): %s", i, dims, preview(chunk))
			}
			return d.String(), nil
		},
	}
}
