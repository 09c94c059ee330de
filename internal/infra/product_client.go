package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront-orders/internal/domain"
	"storefront-orders/internal/repository"

	"golang.org/x/sync/errgroup"
)

// maxInflight bounds concurrent lookups against the catalogue service.
const maxInflight = 8

type productPayload struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// ProductClient resolves products through the catalogue service's REST API.
type ProductClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewProductClient(baseURL string, timeout time.Duration) *ProductClient {
	return &ProductClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetProductByID returns nil, nil when the catalogue answers 404.
func (c *ProductClient) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/products/%s", c.baseURL, url.PathEscape(id)), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("product service returned status %d", resp.StatusCode)
	}

	var p productPayload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode product %s: %w", id, err)
	}
	if p.ID == "" {
		p.ID = id
	}
	return &domain.Product{ID: p.ID, Name: p.Name, Price: p.Price}, nil
}

// FindProductsByIDs fetches every distinct id concurrently. Products the
// catalogue does not know are left out of the result.
func (c *ProductClient) FindProductsByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	unique := repository.UniqueIDs(ids)
	found := make([]*domain.Product, len(unique))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxInflight)
	for i, id := range unique {
		g.Go(func() error {
			p, err := c.GetProductByID(gctx, id)
			if err != nil {
				return err
			}
			found[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]domain.Product, 0, len(found))
	for _, p := range found {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out, nil
}
