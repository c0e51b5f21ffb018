// Package search keeps a Meilisearch index of the master roster.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Jstali/employee-onboarding-sub000/internal/config"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/sanitize"

	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"
)

const RosterIndex = "master_employees"

// RosterDocument is the indexed projection of a roster record.
type RosterDocument struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Status     string `json:"status"`
}

//go:generate mockgen -source=search.go -destination=mock/search_mock.go -package=mock
type Index interface {
	Upsert(ctx context.Context, doc RosterDocument) error
	Remove(ctx context.Context, id string) error
	// Search returns matching record ids, best match first.
	Search(ctx context.Context, query string, limit int) ([]string, error)
}

type meiliIndex struct {
	client meilisearch.ServiceManager
	logger *zap.Logger
}

// New returns nil when no Meilisearch host is configured; callers fall
// back to database search.
func New(cfg config.SearchConfig, logger ...*zap.Logger) Index {
	if cfg.MeiliHost == "" {
		return nil
	}
	host := cfg.MeiliHost
	if !strings.HasPrefix(host, "http") {
		host = "http://" + host
	}
	client := meilisearch.New(host, meilisearch.WithAPIKey(cfg.MeiliKey))
	return NewMeiliIndex(client, logger...)
}

func NewMeiliIndex(client meilisearch.ServiceManager, logger ...*zap.Logger) Index {
	l := zap.L().Named("search.meili")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("search.meili")
	}
	idx := &meiliIndex{client: client, logger: l}
	idx.initIndex()
	return idx
}

func (m *meiliIndex) initIndex() {
	filterable := []any{"status", "department"}
	if _, err := m.client.Index(RosterIndex).UpdateFilterableAttributes(&filterable); err != nil {
		m.logger.Warn("update filterable attributes failed", zap.Error(err))
	}
	searchable := []string{"name", "employee_id", "email", "department"}
	if _, err := m.client.Index(RosterIndex).UpdateSearchableAttributes(&searchable); err != nil {
		m.logger.Warn("update searchable attributes failed", zap.Error(err))
	}
}

func (m *meiliIndex) Upsert(_ context.Context, doc RosterDocument) error {
	doc.Name = sanitize.Text(doc.Name)
	doc.Department = sanitize.Text(doc.Department)
	primaryKey := "id"
	task, err := m.client.Index(RosterIndex).AddDocuments([]RosterDocument{doc}, &primaryKey)
	if err != nil {
		return fmt.Errorf("index roster record %s: %w", doc.ID, err)
	}
	m.logger.Debug("roster record indexed", zap.String("id", doc.ID), zap.Int64("task_uid", task.TaskUID))
	return nil
}

func (m *meiliIndex) Remove(_ context.Context, id string) error {
	if _, err := m.client.Index(RosterIndex).DeleteDocument(id); err != nil {
		return fmt.Errorf("remove roster record %s: %w", id, err)
	}
	return nil
}

type searchHits struct {
	Hits []struct {
		ID string `json:"id"`
	} `json:"hits"`
}

func (m *meiliIndex) Search(_ context.Context, query string, limit int) ([]string, error) {
	raw, err := m.client.Index(RosterIndex).SearchRaw(query, &meilisearch.SearchRequest{
		Limit:  int64(limit),
		Filter: "status != deleted",
	})
	if err != nil {
		return nil, err
	}
	var res searchHits
	if err := json.Unmarshal(*raw, &res); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	ids := make([]string, 0, len(res.Hits))
	for _, h := range res.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}
