package weatherapi

import (
	"encoding/json"
	"slices"

	"github.com/google/uuid"
)

// BulkQuery is one entry of a bulk request. ID is echoed back by the service
// as custom_id so results can be matched to queries.
type BulkQuery struct {
	Query string `json:"q"`
	ID    string `json:"custom_id"`
}

// BulkRequest collects queries for a single endpoint. It only builds the
// request; executing it is up to the caller.
type BulkRequest struct {
	Endpoint string
	queries  []BulkQuery
}

func NewBulkRequest(endpoint string) *BulkRequest {
	return &BulkRequest{Endpoint: endpoint}
}

// BuildBulk is NewBulkRequest followed by Add for each query.
func BuildBulk(endpoint string, queries ...BulkQuery) *BulkRequest {
	b := NewBulkRequest(endpoint)
	for _, q := range queries {
		b.Add(q.ID, q.Query)
	}
	return b
}

// Add appends a query and returns the id it was stored under. An empty id
// is replaced with a random UUID.
func (b *BulkRequest) Add(id, query string) string {
	if id == "" {
		id = uuid.NewString()
	}
	b.queries = append(b.queries, BulkQuery{ID: id, Query: query})
	return id
}

// Queries returns a copy of the queries in insertion order.
func (b *BulkRequest) Queries() []BulkQuery {
	return slices.Clone(b.queries)
}

func (b *BulkRequest) Len() int {
	return len(b.queries)
}

type bulkBody struct {
	Locations []BulkQuery `json:"locations"`
}

// Body renders the JSON body the service expects for bulk calls.
func (b *BulkRequest) Body() ([]byte, error) {
	locations := b.queries
	if locations == nil {
		locations = []BulkQuery{}
	}
	return json.Marshal(bulkBody{Locations: locations})
}
