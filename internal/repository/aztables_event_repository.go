package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"events-api/internal/filter"
	"events-api/internal/model"
	apperrors "events-api/pkg/app_errors"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
)

// AzTablesPartition is the single partition every event row lives in.
const AzTablesPartition = "event"

// AzTablesAPI is the subset of *aztables.Client the repository calls.
type AzTablesAPI interface {
	GetEntity(ctx context.Context, partitionKey string, rowKey string, options *aztables.GetEntityOptions) (aztables.GetEntityResponse, error)
	UpsertEntity(ctx context.Context, entity []byte, options *aztables.UpsertEntityOptions) (aztables.UpsertEntityResponse, error)
	UpdateEntity(ctx context.Context, entity []byte, options *aztables.UpdateEntityOptions) (aztables.UpdateEntityResponse, error)
	DeleteEntity(ctx context.Context, partitionKey string, rowKey string, options *aztables.DeleteEntityOptions) (aztables.DeleteEntityResponse, error)
	NewListEntitiesPager(listOptions *aztables.ListEntitiesOptions) *runtime.Pager[aztables.ListEntitiesResponse]
}

type eventEntity struct {
	aztables.Entity
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	Capacity    int    `json:"capacity"`
	Organizer   string `json:"organizer"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

type AzTablesEventRepositoryImpl struct {
	client AzTablesAPI
}

func NewAzTablesEventRepository(client AzTablesAPI) EventRepository {
	return &AzTablesEventRepositoryImpl{client: client}
}

func (r *AzTablesEventRepositoryImpl) Get(ctx context.Context, id string) (*model.Event, error) {
	resp, err := r.client.GetEntity(ctx, AzTablesPartition, id, nil)
	if err != nil {
		return nil, classifyAzTablesError("get event", err)
	}
	return decodeEntity("get event", resp.Value)
}

func (r *AzTablesEventRepositoryImpl) Put(ctx context.Context, event *model.Event) error {
	payload, err := json.Marshal(toEntity(event))
	if err != nil {
		return apperrors.NewStoreError(apperrors.ErrInternal, "create event", err)
	}
	_, err = r.client.UpsertEntity(ctx, payload, &aztables.UpsertEntityOptions{UpdateMode: aztables.UpdateModeReplace})
	if err != nil {
		return classifyAzTablesError("create event", err)
	}
	return nil
}

// Update merges the changed properties; IfMatch "*" makes the service reject
// the write when the row is gone instead of inserting it.
func (r *AzTablesEventRepositoryImpl) Update(ctx context.Context, id string, mutation model.EventMutation) (*model.Event, error) {
	payload, err := json.Marshal(mergeProperties(id, mutation))
	if err != nil {
		return nil, apperrors.NewStoreError(apperrors.ErrInternal, "update event", err)
	}
	etag := azcore.ETagAny
	_, err = r.client.UpdateEntity(ctx, payload, &aztables.UpdateEntityOptions{IfMatch: &etag, UpdateMode: aztables.UpdateModeMerge})
	if err != nil {
		return nil, classifyAzTablesError("update event", err)
	}
	return r.Get(ctx, id)
}

func (r *AzTablesEventRepositoryImpl) Delete(ctx context.Context, id string) error {
	_, err := r.client.DeleteEntity(ctx, AzTablesPartition, id, nil)
	if err != nil {
		return classifyAzTablesError("delete event", err)
	}
	return nil
}

// Scan pushes equality conditions to the service as an OData filter; the
// table service has no substring operator, so contains conditions run here.
func (r *AzTablesEventRepositoryImpl) Scan(ctx context.Context, predicate filter.Predicate, limit int) ([]*model.Event, error) {
	server, local := predicate.Split(func(c filter.Condition) bool { return c.Operator == filter.OpEquals })
	odata := azTablesFilter(server)
	top := int32(limit)

	pager := r.client.NewListEntitiesPager(&aztables.ListEntitiesOptions{Filter: &odata, Top: &top})
	events := make([]*model.Event, 0)
	for pager.More() && len(events) < limit {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, classifyAzTablesError("list events", err)
		}
		for _, raw := range page.Entities {
			event, err := decodeEntity("list events", raw)
			if err != nil {
				return nil, err
			}
			if !local.Match(event) {
				continue
			}
			events = append(events, event)
			if len(events) == limit {
				break
			}
		}
	}
	return events, nil
}

func azTablesFilter(p filter.Predicate) string {
	clauses := []string{fmt.Sprintf("PartitionKey eq %s", odataString(AzTablesPartition))}
	for _, c := range p.Conditions() {
		clauses = append(clauses, fmt.Sprintf("%s eq %s", c.Attribute, odataString(c.Value)))
	}
	return strings.Join(clauses, " and ")
}

func odataString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func toEntity(e *model.Event) eventEntity {
	return eventEntity{
		Entity:      aztables.Entity{PartitionKey: AzTablesPartition, RowKey: e.ID},
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		Location:    e.Location,
		Capacity:    e.Capacity,
		Organizer:   e.Organizer,
		Status:      string(e.Status),
		CreatedAt:   formatTime(e.CreatedAt),
		UpdatedAt:   formatTime(e.UpdatedAt),
	}
}

func mergeProperties(id string, m model.EventMutation) map[string]any {
	props := map[string]any{
		"PartitionKey":       AzTablesPartition,
		"RowKey":             id,
		model.FieldUpdatedAt: formatTime(m.UpdatedAt),
	}
	if m.Title != nil {
		props[model.FieldTitle] = *m.Title
	}
	if m.Description != nil {
		props[model.FieldDescription] = *m.Description
	}
	if m.Date != nil {
		props[model.FieldDate] = *m.Date
	}
	if m.Location != nil {
		props[model.FieldLocation] = *m.Location
	}
	if m.Capacity != nil {
		props[model.FieldCapacity] = *m.Capacity
	}
	if m.Organizer != nil {
		props[model.FieldOrganizer] = *m.Organizer
	}
	if m.Status != nil {
		props[model.FieldStatus] = string(*m.Status)
	}
	return props
}

func decodeEntity(op string, raw []byte) (*model.Event, error) {
	var ent eventEntity
	if err := json.Unmarshal(raw, &ent); err != nil {
		return nil, apperrors.NewStoreError(apperrors.ErrInternal, op, fmt.Errorf("unmarshal entity: %w", err))
	}
	createdAt, err := time.Parse(time.RFC3339Nano, ent.CreatedAt)
	if err != nil {
		return nil, apperrors.NewStoreError(apperrors.ErrInternal, op, fmt.Errorf("invalid createdAt: %w", err))
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, ent.UpdatedAt)
	if err != nil {
		return nil, apperrors.NewStoreError(apperrors.ErrInternal, op, fmt.Errorf("invalid updatedAt: %w", err))
	}
	return &model.Event{
		ID:          ent.RowKey,
		Title:       ent.Title,
		Description: ent.Description,
		Date:        ent.Date,
		Location:    ent.Location,
		Capacity:    ent.Capacity,
		Organizer:   ent.Organizer,
		Status:      model.EventStatus(ent.Status),
		CreatedAt:   createdAt.UTC(),
		UpdatedAt:   updatedAt.UTC(),
	}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// classifyAzTablesError maps Azure Table responses onto the store error kinds.
func classifyAzTablesError(op string, err error) error {
	var respErr *azcore.ResponseError
	if !errors.As(err, &respErr) {
		return apperrors.NewStoreError(apperrors.ErrInternal, op, err)
	}
	switch {
	case respErr.ErrorCode == string(aztables.TableNotFound):
		return apperrors.NewStoreError(apperrors.ErrUnavailable, op, err)
	case respErr.StatusCode == http.StatusNotFound:
		return apperrors.ErrEventNotFound
	case respErr.StatusCode == http.StatusTooManyRequests,
		respErr.StatusCode == http.StatusServiceUnavailable,
		respErr.ErrorCode == "ServerBusy":
		return apperrors.NewStoreError(apperrors.ErrThrottled, op, err)
	case respErr.StatusCode == http.StatusBadRequest:
		return apperrors.NewStoreError(apperrors.ErrInvalidArgument, op, err)
	}
	return apperrors.NewStoreError(apperrors.ErrInternal, op, err)
}
