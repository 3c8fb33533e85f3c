package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-account-service/internal/domain/entity"
	"github.com/oksasatya/go-ddd-account-service/pkg/helpers"
)

// AccountsMapping is the index mapping created on startup.
const AccountsMapping = `{
  "mappings": {
    "properties": {
      "id":                {"type": "keyword"},
      "email":             {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "name":              {"type": "text"},
      "first_name":        {"type": "text"},
      "last_name":         {"type": "text"},
      "email_verified":    {"type": "boolean"},
      "profile_photo_url": {"type": "keyword", "index": false},
      "created_at":        {"type": "date"},
      "updated_at":        {"type": "date"}
    }
  }
}`

// AccountIndex keeps a searchable copy of accounts in Elasticsearch.
// Credentials are never indexed.
type AccountIndex struct {
	ES        *elasticsearch.Client
	IndexName string
	Logger    *logrus.Logger
}

func NewAccountIndex(es *elasticsearch.Client, index string, logger *logrus.Logger) *AccountIndex {
	return &AccountIndex{ES: es, IndexName: index, Logger: logger}
}

// EnsureIndex creates the index with AccountsMapping when missing.
func (x *AccountIndex) EnsureIndex(ctx context.Context) error {
	if x.ES == nil || x.IndexName == "" {
		return nil
	}
	return helpers.EnsureIndex(ctx, x.ES, x.IndexName, AccountsMapping)
}

func document(a *entity.Account) map[string]any {
	return map[string]any{
		"id":                a.ID,
		"email":             a.Email,
		"name":              a.Name(),
		"first_name":        a.FirstName,
		"last_name":         a.LastName,
		"email_verified":    a.HasVerifiedEmail(),
		"profile_photo_url": a.ProfilePhotoURL(),
		"created_at":        a.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at":        a.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (x *AccountIndex) Index(ctx context.Context, a *entity.Account) error {
	if x.ES == nil || x.IndexName == "" {
		return nil
	}
	b, err := json.Marshal(document(a))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.IndexName, DocumentID: a.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index %s: %s", a.ID, res.Status())
	}
	return nil
}

// Search runs a multi_match over email and name. size is clamped to 1..50, default 10.
func (x *AccountIndex) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if x.ES == nil || x.IndexName == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "name", "first_name", "last_name"},
			},
		},
		"size": size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := x.ES.Search(x.ES.Search.WithContext(c), x.ES.Search.WithIndex(x.IndexName), x.ES.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		if x.Logger != nil {
			x.Logger.WithField("status", res.Status()).Warn("es search response error")
		}
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
