// internal/features/data-access/application-store/elasticsearch.go
package applicationstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"membership-portal/internal/common/database"
	"membership-portal/internal/models"
)

// listPageSize bounds one search page; List follows search_after until a short page.
var listPageSize = 1000

const listKeepAlive = "1m"

// mergeScript merges params.doc into the source unless the record is submitted.
const mergeScript = `if (ctx._source.submitted == true) { ctx.op = 'noop' } else { ctx._source.putAll(params.doc) }`

// ElasticsearchStore keeps each application as a document in one index.
type ElasticsearchStore struct {
	client  *database.ElasticsearchClient
	index   string
	timeout time.Duration
}

func NewElasticsearchStore(client *database.ElasticsearchClient, index string, timeout time.Duration) *ElasticsearchStore {
	return &ElasticsearchStore{client: client, index: index, timeout: timeout}
}

type getResponse struct {
	Found  bool               `json:"found"`
	Source models.Application `json:"_source"`
}

type updateResponse struct {
	Result string `json:"result"`
}

type pitResponse struct {
	ID string `json:"id"`
}

type searchHit struct {
	ID     string             `json:"_id"`
	Source models.Application `json:"_source"`
	Sort   []interface{}      `json:"sort"`
}

type searchResponse struct {
	PitID string `json:"pit_id"`
	Hits  struct {
		Hits []searchHit `json:"hits"`
	} `json:"hits"`
}

func (s *ElasticsearchStore) Get(ctx context.Context, id string) (*models.Application, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	es := s.client.Client
	res, err := es.Get(s.index, id, es.Get.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: get %s: %s", ErrStoreFailed, id, res.Status())
	}

	var body getResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode document %s: %v", ErrStoreFailed, id, err)
	}
	if !body.Found {
		return nil, ErrNotFound
	}
	return &body.Source, nil
}

func (s *ElasticsearchStore) Merge(ctx context.Context, id string, doc map[string]interface{}) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	payload, err := json.Marshal(map[string]interface{}{
		"script": map[string]interface{}{
			"source": mergeScript,
			"lang":   "painless",
			"params": map[string]interface{}{"doc": doc},
		},
		"upsert": doc,
	})
	if err != nil {
		return fmt.Errorf("%w: encode document: %v", ErrStoreFailed, err)
	}

	es := s.client.Client
	res, err := es.Update(s.index, id, bytes.NewReader(payload),
		es.Update.WithContext(ctx),
		es.Update.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("%w: update %s: %s", ErrStoreFailed, id, res.Status())
	}

	var body updateResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: decode update response: %v", ErrStoreFailed, err)
	}
	if body.Result == "noop" {
		return ErrAlreadySubmitted
	}
	return nil
}

func (s *ElasticsearchStore) Put(ctx context.Context, id string, app *models.Application) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	payload, err := json.Marshal(app)
	if err != nil {
		return fmt.Errorf("%w: encode document: %v", ErrStoreFailed, err)
	}

	es := s.client.Client
	res, err := es.Index(s.index, bytes.NewReader(payload),
		es.Index.WithDocumentID(id),
		es.Index.WithContext(ctx),
		es.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("%w: index %s: %s", ErrStoreFailed, id, res.Status())
	}
	return nil
}

// List pages through every document inside one point in time, so documents
// written while the export runs neither shift nor repeat pages.
func (s *ElasticsearchStore) List(ctx context.Context) ([]models.StoredApplication, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	pit, err := s.openPointInTime(ctx)
	if err != nil {
		return nil, err
	}
	if pit == "" {
		return nil, nil
	}
	defer func() { s.closePointInTime(context.WithoutCancel(ctx), pit) }()

	out := make([]models.StoredApplication, 0)
	var after []interface{}
	for {
		page, err := s.searchPage(ctx, pit, after)
		if err != nil {
			return nil, err
		}
		if page.PitID != "" {
			pit = page.PitID
		}

		hits := page.Hits.Hits
		for _, hit := range hits {
			out = append(out, models.StoredApplication{ID: hit.ID, Application: hit.Source})
		}
		if len(hits) < listPageSize || len(hits[len(hits)-1].Sort) == 0 {
			return out, nil
		}
		after = hits[len(hits)-1].Sort
	}
}

// openPointInTime returns "" when the index does not exist yet.
func (s *ElasticsearchStore) openPointInTime(ctx context.Context) (string, error) {
	es := s.client.Client
	res, err := es.OpenPointInTime([]string{s.index}, listKeepAlive, es.OpenPointInTime.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if res.IsError() {
		return "", fmt.Errorf("%w: open point in time: %s", ErrStoreFailed, res.Status())
	}

	var body pitResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: decode point in time: %v", ErrStoreFailed, err)
	}
	if body.ID == "" {
		return "", fmt.Errorf("%w: empty point in time id", ErrStoreFailed)
	}
	return body.ID, nil
}

// closePointInTime is best effort; an unclosed one expires after listKeepAlive.
func (s *ElasticsearchStore) closePointInTime(ctx context.Context, pit string) {
	payload, err := json.Marshal(map[string]string{"id": pit})
	if err != nil {
		return
	}
	es := s.client.Client
	res, err := es.ClosePointInTime(
		es.ClosePointInTime.WithContext(ctx),
		es.ClosePointInTime.WithBody(bytes.NewReader(payload)),
	)
	if err != nil {
		return
	}
	res.Body.Close()
}

func (s *ElasticsearchStore) searchPage(ctx context.Context, pit string, after []interface{}) (*searchResponse, error) {
	query := map[string]interface{}{
		"size":  listPageSize,
		"query": map[string]interface{}{"match_all": map[string]interface{}{}},
		"pit":   map[string]interface{}{"id": pit, "keep_alive": listKeepAlive},
		"sort":  []interface{}{map[string]string{"_shard_doc": "asc"}},
	}
	if after != nil {
		query["search_after"] = after
	}
	payload, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("%w: encode search: %v", ErrStoreFailed, err)
	}

	es := s.client.Client
	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithBody(bytes.NewReader(payload)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: search: %s", ErrStoreFailed, res.Status())
	}

	var body searchResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode search response: %v", ErrStoreFailed, err)
	}
	return &body, nil
}

func (s *ElasticsearchStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
