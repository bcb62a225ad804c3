package gemini

import (
	"context"
	"net/http"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// GetOperation polls one long-running operation by resource name. Both bare
// ("operations/<id>") and store-nested names are accepted; the name is sent
// back verbatim.
func (c *Client) GetOperation(ctx context.Context, name string) (*domain.Operation, error) {
	if err := domain.ValidateOperationName(name); err != nil {
		return nil, err
	}

	var payload operationPayload
	if err := c.doJSON(ctx, c.http, http.MethodGet, c.endpoint(name, nil), nil, &payload); err != nil {
		return nil, err
	}

	op := payload.toDomain()
	return &op, nil
}
