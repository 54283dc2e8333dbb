package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/mamadbah2/farmdesk/internal/domain/models"
)

// ListQuery carries pagination and filter parameters for list endpoints.
// Filter values that are empty after trimming are omitted from the query
// string entirely rather than sent as empty parameters.
type ListQuery struct {
	Page    int
	Size    int
	Deleted bool
	Filters map[string]string
}

func (q ListQuery) params() map[string]string {
	p := map[string]string{
		"page": strconv.Itoa(q.Page),
		"size": strconv.Itoa(q.Size),
	}
	if q.Deleted {
		p["deleted"] = "true"
	}
	for key, value := range q.Filters {
		if strings.TrimSpace(value) == "" {
			continue
		}
		p[key] = value
	}
	return p
}

// ResourceService maps the dashboard operations of one REST resource onto
// HTTP calls. T is the record type; path is the collection path, e.g.
// "/supplies". Services never swallow errors: every failure propagates to
// the calling page, which owns user-facing messaging.
type ResourceService[T models.Record] struct {
	client *Client
	path   string
}

// NewResourceService builds a service for one resource collection.
func NewResourceService[T models.Record](client *Client, path string) *ResourceService[T] {
	return &ResourceService[T]{client: client, path: path}
}

// Path returns the collection path the service is bound to.
func (s *ResourceService[T]) Path() string { return s.path }

// List fetches one page of records in the given filter context.
func (s *ResourceService[T]) List(ctx context.Context, query ListQuery) (models.Page[T], error) {
	raw, err := s.client.call(ctx, http.MethodGet, s.path, query.params(), nil)
	if err != nil {
		return models.Page[T]{}, err
	}
	return decode[models.Page[T]](raw)
}

// Create persists a new record and returns it with its server-assigned id
// and derived fields populated.
func (s *ResourceService[T]) Create(ctx context.Context, payload T) (T, error) {
	raw, err := s.client.call(ctx, http.MethodPost, s.path, nil, payload)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](raw)
}

// Update replaces the record's attributes and returns the updated record.
func (s *ResourceService[T]) Update(ctx context.Context, id string, payload T) (T, error) {
	raw, err := s.client.call(ctx, http.MethodPut, s.path+"/"+id, nil, payload)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](raw)
}

// SoftDelete moves the record to the trash. It stays recoverable until
// permanently deleted.
func (s *ResourceService[T]) SoftDelete(ctx context.Context, id string) error {
	_, err := s.client.call(ctx, http.MethodDelete, s.path+"/"+id, nil, nil)
	return err
}

// Restore brings a soft-deleted record back to the active list.
func (s *ResourceService[T]) Restore(ctx context.Context, id string) (T, error) {
	raw, err := s.client.call(ctx, http.MethodPut, s.path+"/"+id+"/restore", nil, nil)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](raw)
}

// PermanentDelete removes the record irreversibly.
func (s *ResourceService[T]) PermanentDelete(ctx context.Context, id string) error {
	_, err := s.client.call(ctx, http.MethodDelete, s.path+"/"+id+"/permanent", nil, nil)
	return err
}

// Summary fetches the aggregate counters for the dashboard cards.
func (s *ResourceService[T]) Summary(ctx context.Context) (models.Summary, error) {
	raw, err := s.client.call(ctx, http.MethodGet, s.path+"/summary", nil, nil)
	if err != nil {
		return models.Summary{}, err
	}
	return decode[models.Summary](raw)
}
