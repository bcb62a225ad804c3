package gemini

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// CreateStore creates a file-search store with the given display name.
func (c *Client) CreateStore(ctx context.Context, displayName string) (*domain.Store, error) {
	if err := domain.ValidateDisplayName(displayName); err != nil {
		return nil, err
	}

	body := struct {
		DisplayName string `json:"displayName,omitempty"`
	}{DisplayName: displayName}

	var payload storePayload
	err := c.doJSON(ctx, c.http, http.MethodPost, c.endpoint(domain.StoreCollection, nil), body, &payload)
	if err != nil {
		return nil, err
	}

	store := payload.toDomain()
	c.log.Info().Str("store", store.Name).Str("display_name", displayName).Msg("store created")
	return &store, nil
}

// GetStore fetches one store by resource name.
func (c *Client) GetStore(ctx context.Context, name string) (*domain.Store, error) {
	if err := domain.ValidateStoreName(name); err != nil {
		return nil, err
	}

	var payload storePayload
	if err := c.doJSON(ctx, c.http, http.MethodGet, c.endpoint(name, nil), nil, &payload); err != nil {
		return nil, err
	}

	store := payload.toDomain()
	return &store, nil
}

// ListStores fetches one page of stores. The returned token is empty once
// the listing is exhausted.
func (c *Client) ListStores(ctx context.Context, pageSize int, pageToken string) ([]domain.Store, string, error) {
	query := url.Values{}
	if pageSize > 0 {
		query.Set("pageSize", strconv.Itoa(pageSize))
	}
	if pageToken != "" {
		query.Set("pageToken", pageToken)
	}

	var resp listStoresResponse
	if err := c.doJSON(ctx, c.http, http.MethodGet, c.endpoint(domain.StoreCollection, query), nil, &resp); err != nil {
		return nil, "", err
	}

	stores := make([]domain.Store, 0, len(resp.FileSearchStores))
	for _, payload := range resp.FileSearchStores {
		stores = append(stores, payload.toDomain())
	}
	return stores, resp.NextPageToken, nil
}

// DeleteStore removes a store. Without force the backend refuses to delete
// a store that still contains documents; that refusal surfaces as
// domain.ErrStoreNotEmpty.
func (c *Client) DeleteStore(ctx context.Context, name string, force bool) error {
	if err := domain.ValidateStoreName(name); err != nil {
		return err
	}

	query := url.Values{}
	if force {
		query.Set("force", "true")
	}

	if err := c.doJSON(ctx, c.http, http.MethodDelete, c.endpoint(name, query), nil, nil); err != nil {
		return err
	}

	c.log.Info().Str("store", name).Bool("force", force).Msg("store deleted")
	return nil
}
