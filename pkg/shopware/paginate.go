package shopware

import (
	"context"
	"net/http"

	"github.com/rotekhq/shopware6-client/internal/metrics"
	"github.com/rotekhq/shopware6-client/pkg/criteria"
)

// defaultPageSize is the page size used when the caller passes zero.
const defaultPageSize = 100

// GetPaginated fetches all records matching the criteria from a list
// endpoint, page by page, and returns the concatenated data records. The
// criteria's limit caps the total number of records; without one the walk
// continues until the endpoint returns an empty page. An explicit id set
// on the criteria collapses the walk into a single request, since ids act
// as an implicit limit. The caller's criteria is never mutated.
func (c *AdminClient) GetPaginated(ctx context.Context, endpoint string, crit *criteria.Criteria, pageSize int, headers map[string]string) ([]any, error) {
	return c.paginate(ctx, http.MethodGet, endpoint, crit, pageSize, headers)
}

// PostPaginated is GetPaginated for search endpoints that take the
// criteria as a POST body, like /api/search/product.
func (c *AdminClient) PostPaginated(ctx context.Context, endpoint string, crit *criteria.Criteria, pageSize int, headers map[string]string) ([]any, error) {
	return c.paginate(ctx, http.MethodPost, endpoint, crit, pageSize, headers)
}

func (c *AdminClient) paginate(ctx context.Context, method, endpoint string, crit *criteria.Criteria, pageSize int, headers map[string]string) ([]any, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if crit == nil {
		crit = criteria.New()
	}
	base := crit.ToMap()

	// An explicit id set is a single page sized to the id count.
	if len(crit.IDs()) > 0 {
		resp, err := c.Execute(ctx, method, endpoint, base, headers)
		if err != nil {
			return nil, err
		}
		metrics.PaginationPagesTotal.Inc()
		return dataRecords(resp), nil
	}

	// The caller's limit is the total record budget; each page requests at
	// most pageSize of what remains. remaining < 0 means unbounded.
	remaining := -1
	if l := crit.Limit(); l != nil {
		remaining = *l
	}

	records := []any{}
	for page := 1; ; page++ {
		if remaining == 0 {
			break
		}
		limit := pageSize
		if remaining > 0 && remaining < pageSize {
			limit = remaining
		}

		doc := make(map[string]any, len(base)+2)
		for k, v := range base {
			doc[k] = v
		}
		doc["limit"] = limit
		doc["page"] = page

		resp, err := c.Execute(ctx, method, endpoint, doc, headers)
		if err != nil {
			return nil, err
		}
		metrics.PaginationPagesTotal.Inc()

		data := dataRecords(resp)
		if len(data) == 0 {
			break
		}
		records = append(records, data...)
		if remaining > 0 {
			remaining -= len(data)
			if remaining <= 0 {
				// A page can overshoot when the endpoint ignores the limit;
				// the total budget still holds.
				if remaining < 0 {
					records = records[:len(records)+remaining]
				}
				break
			}
		}
	}
	return records, nil
}

func dataRecords(resp map[string]any) []any {
	data, ok := resp["data"].([]any)
	if !ok {
		return nil
	}
	return data
}
