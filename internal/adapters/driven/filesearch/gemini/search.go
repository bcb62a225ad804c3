package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// Search runs grounded generation over the query's stores. The answer is
// the in-order concatenation of the first candidate's text parts; citations
// come from the grounding chunks. An answer with no grounding chunks is a
// valid zero-evidence result, not a failure.
func (c *Client) Search(ctx context.Context, query domain.SearchQuery) (*domain.SearchResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	model := query.Model
	if model == "" {
		return nil, fmt.Errorf("%w: search model must not be empty", domain.ErrInvalidInput)
	}

	req := generateContentRequest{
		Contents: []contentPayload{{
			Role:  "user",
			Parts: []partPayload{{Text: query.Query}},
		}},
		Tools: []toolPayload{{
			FileSearch: &fileSearchToolPayload{
				FileSearchStoreNames: query.StoreNames,
				MetadataFilter:       query.MetadataFilter,
			},
		}},
	}
	if query.MaxOutputTokens > 0 || query.Temperature != nil {
		req.GenerationConfig = &generationConfigPayload{
			MaxOutputTokens: query.MaxOutputTokens,
			Temperature:     query.Temperature,
		}
	}

	var resp generateContentResponse
	rawURL := c.endpoint("models/"+model+":generateContent", nil)
	if err := c.doJSON(ctx, c.http, http.MethodPost, rawURL, req, &resp); err != nil {
		return nil, err
	}

	result := &domain.SearchResult{
		Stores: query.StoreNames,
		Model:  model,
	}
	if len(resp.Candidates) == 0 {
		c.log.Debug().Str("model", model).Msg("search returned no candidates")
		return result, nil
	}

	// Only the first candidate carries the answer; further candidates are
	// alternative generations, not additional evidence.
	candidate := resp.Candidates[0]
	answer := ""
	for _, part := range candidate.Content.Parts {
		answer += part.Text
	}
	result.Answer = answer

	if len(candidate.GroundingMetadata) > 0 {
		var grounding map[string]any
		if err := json.Unmarshal(candidate.GroundingMetadata, &grounding); err == nil {
			result.Grounding = grounding
		}
		var typed groundingMetadataPayload
		if err := json.Unmarshal(candidate.GroundingMetadata, &typed); err == nil {
			result.Citations = citationsFromWire(typed.GroundingChunks)
		}
	}

	c.log.Debug().
		Int("stores", len(query.StoreNames)).
		Int("citations", len(result.Citations)).
		Int("answer_chars", len(result.Answer)).
		Msg("search completed")

	return result, nil
}
