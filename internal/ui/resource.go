package ui

import (
	"context"

	"github.com/mamadbah2/farmdesk/internal/api"
	"github.com/mamadbah2/farmdesk/internal/domain/models"
)

// Column describes one list column.
type Column struct {
	Title string
	Width int
}

// FilterField is one structured filter the list page can apply.
type FilterField struct {
	Key   string
	Label string
}

// FieldKind selects the input behavior of a form field.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldNumber
	FieldCurrency
	FieldDate
	FieldSelect
)

// FormField describes one entry of a create/edit form.
type FormField struct {
	Key      string
	Label    string
	Kind     FieldKind
	Required bool
	Options  []string // FieldSelect only
}

// Row is one rendered list entry: the record id, its display cells in
// column order, and the raw form values used to seed the edit form.
type Row struct {
	ID     string
	Cells  []string
	Values map[string]string
}

// RowPage is one page of rows plus the server's pagination metadata.
type RowPage struct {
	Rows        []Row
	Page        int
	TotalPages  int
	HasNext     bool
	HasPrevious bool
}

// Meta extracts the pagination metadata of the page.
func (p RowPage) Meta() PageMeta {
	return PageMeta{
		Page:        p.Page,
		TotalPages:  p.TotalPages,
		HasNext:     p.HasNext,
		HasPrevious: p.HasPrevious,
	}
}

// PageMeta is the pagination state a list page tracks between fetches.
type PageMeta struct {
	Page        int
	TotalPages  int
	HasNext     bool
	HasPrevious bool
}

// Resource adapts one typed API service into the untyped shape the list,
// form and trash components work with.
type Resource interface {
	Name() string
	Columns() []Column
	FilterFields() []FilterField
	Fields() []FormField
	Defaults() map[string]string

	List(ctx context.Context, query api.ListQuery) (RowPage, error)
	Create(ctx context.Context, values map[string]string) (Row, error)
	Update(ctx context.Context, id string, values map[string]string) (Row, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	PermanentDelete(ctx context.Context, id string) error
	Summary(ctx context.Context) (models.Summary, error)
}

// Descriptor declares how one record type maps onto columns, form fields
// and payloads. Payload owns the string-to-number and date coercion; Cells
// owns display formatting.
type Descriptor[T models.Record] struct {
	Name     string
	Columns  []Column
	Filters  []FilterField
	Fields   []FormField
	Defaults map[string]string

	Cells   func(T) []string
	Values  func(T) map[string]string
	Payload func(map[string]string) (T, error)
}

type binding[T models.Record] struct {
	svc  *api.ResourceService[T]
	desc Descriptor[T]
}

// Bind couples a typed resource service with its descriptor.
func Bind[T models.Record](svc *api.ResourceService[T], desc Descriptor[T]) Resource {
	return &binding[T]{svc: svc, desc: desc}
}

func (b *binding[T]) Name() string                { return b.desc.Name }
func (b *binding[T]) Columns() []Column           { return b.desc.Columns }
func (b *binding[T]) FilterFields() []FilterField { return b.desc.Filters }
func (b *binding[T]) Fields() []FormField         { return b.desc.Fields }

func (b *binding[T]) Defaults() map[string]string {
	out := make(map[string]string, len(b.desc.Defaults))
	for key, value := range b.desc.Defaults {
		out[key] = value
	}
	return out
}

func (b *binding[T]) row(rec T) Row {
	return Row{ID: rec.RecordID(), Cells: b.desc.Cells(rec), Values: b.desc.Values(rec)}
}

func (b *binding[T]) List(ctx context.Context, query api.ListQuery) (RowPage, error) {
	page, err := b.svc.List(ctx, query)
	if err != nil {
		return RowPage{}, err
	}
	rows := make([]Row, len(page.Items))
	for i, rec := range page.Items {
		rows[i] = b.row(rec)
	}
	return RowPage{
		Rows:        rows,
		Page:        page.Page,
		TotalPages:  page.TotalPages,
		HasNext:     page.HasNext,
		HasPrevious: page.HasPrevious,
	}, nil
}

func (b *binding[T]) Create(ctx context.Context, values map[string]string) (Row, error) {
	payload, err := b.desc.Payload(values)
	if err != nil {
		return Row{}, err
	}
	rec, err := b.svc.Create(ctx, payload)
	if err != nil {
		return Row{}, err
	}
	return b.row(rec), nil
}

func (b *binding[T]) Update(ctx context.Context, id string, values map[string]string) (Row, error) {
	payload, err := b.desc.Payload(values)
	if err != nil {
		return Row{}, err
	}
	rec, err := b.svc.Update(ctx, id, payload)
	if err != nil {
		return Row{}, err
	}
	return b.row(rec), nil
}

func (b *binding[T]) SoftDelete(ctx context.Context, id string) error {
	return b.svc.SoftDelete(ctx, id)
}

func (b *binding[T]) Restore(ctx context.Context, id string) error {
	_, err := b.svc.Restore(ctx, id)
	return err
}

func (b *binding[T]) PermanentDelete(ctx context.Context, id string) error {
	return b.svc.PermanentDelete(ctx, id)
}

func (b *binding[T]) Summary(ctx context.Context) (models.Summary, error) {
	return b.svc.Summary(ctx)
}
