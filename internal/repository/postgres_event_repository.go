package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"events-api/internal/filter"
	"events-api/internal/model"
	apperrors "events-api/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresColumns = "id, title, description, event_date, location, capacity, organizer, status, created_at, updated_at"

// attribute name → column
var postgresColumnNames = map[string]string{
	model.FieldTitle:       "title",
	model.FieldDescription: "description",
	model.FieldDate:        "event_date",
	model.FieldLocation:    "location",
	model.FieldCapacity:    "capacity",
	model.FieldOrganizer:   "organizer",
	model.FieldStatus:      "status",
}

type PostgresEventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewPostgresEventRepository(pool *pgxpool.Pool) EventRepository {
	return &PostgresEventRepositoryImpl{
		pool: pool,
	}
}

func (r *PostgresEventRepositoryImpl) Get(ctx context.Context, id string) (*model.Event, error) {
	query := `SELECT ` + postgresColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, classifyPostgresError("get event", err)
	}
	return event, nil
}

func (r *PostgresEventRepositoryImpl) Put(ctx context.Context, event *model.Event) error {
	query := `
		INSERT INTO events (` + postgresColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			event_date = EXCLUDED.event_date,
			location = EXCLUDED.location,
			capacity = EXCLUDED.capacity,
			organizer = EXCLUDED.organizer,
			status = EXCLUDED.status,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.pool.Exec(ctx, query,
		event.ID, event.Title, event.Description, event.Date, event.Location,
		event.Capacity, event.Organizer, string(event.Status), event.CreatedAt, event.UpdatedAt,
	)
	if err != nil {
		return classifyPostgresError("create event", err)
	}
	return nil
}

func (r *PostgresEventRepositoryImpl) Update(ctx context.Context, id string, mutation model.EventMutation) (*model.Event, error) {
	sets, args := postgresSets(mutation)

	// add id
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE events
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), len(args), postgresColumns)

	event, err := scanEvent(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, classifyPostgresError("update event", err)
	}
	return event, nil
}

func (r *PostgresEventRepositoryImpl) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return classifyPostgresError("delete event", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

func (r *PostgresEventRepositoryImpl) Scan(ctx context.Context, predicate filter.Predicate, limit int) ([]*model.Event, error) {
	where, args, err := postgresWhere(predicate)
	if err != nil {
		return nil, apperrors.NewStoreError(apperrors.ErrInternal, "list events", err)
	}
	args = append(args, limit)

	query := `SELECT ` + postgresColumns + ` FROM events`
	if where != "" {
		query += ` WHERE ` + where
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, classifyPostgresError("list events", err)
	}
	defer rows.Close()

	events := make([]*model.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, classifyPostgresError("list events", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyPostgresError("list events", err)
	}
	return events, nil
}

// postgresSets renders the SET list; updated_at always comes first.
func postgresSets(m model.EventMutation) ([]string, []any) {
	sets := []string{"updated_at = $1"}
	args := []any{m.UpdatedAt}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if m.Title != nil {
		add("title", *m.Title)
	}
	if m.Description != nil {
		add("description", *m.Description)
	}
	if m.Date != nil {
		add("event_date", *m.Date)
	}
	if m.Location != nil {
		add("location", *m.Location)
	}
	if m.Capacity != nil {
		add("capacity", *m.Capacity)
	}
	if m.Organizer != nil {
		add("organizer", *m.Organizer)
	}
	if m.Status != nil {
		add("status", string(*m.Status))
	}
	return sets, args
}

func postgresWhere(p filter.Predicate) (string, []any, error) {
	conds := p.Conditions()
	clauses := make([]string, 0, len(conds))
	args := make([]any, 0, len(conds))
	for _, c := range conds {
		column, ok := postgresColumnNames[c.Attribute]
		if !ok {
			return "", nil, fmt.Errorf("unknown filter attribute %q", c.Attribute)
		}
		args = append(args, c.Value)
		switch c.Operator {
		case filter.OpEquals:
			clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
		case filter.OpContains:
			clauses = append(clauses, fmt.Sprintf("strpos(%s, $%d) > 0", column, len(args)))
		default:
			return "", nil, fmt.Errorf("unsupported filter operator %s", c.Operator)
		}
	}
	return strings.Join(clauses, " AND "), args, nil
}

func scanEvent(row pgx.Row) (*model.Event, error) {
	var (
		event  model.Event
		status string
	)
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Date,
		&event.Location,
		&event.Capacity,
		&event.Organizer,
		&status,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	event.Status = model.EventStatus(status)
	event.CreatedAt = event.CreatedAt.UTC()
	event.UpdatedAt = event.UpdatedAt.UTC()
	return &event, nil
}

// classifyPostgresError maps pgx failures onto the store error kinds.
func classifyPostgresError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrEventNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "42P01", pgErr.Code == "3D000", pgErr.Code == "57P03":
			// undefined_table, invalid_catalog_name, cannot_connect_now
			return apperrors.NewStoreError(apperrors.ErrUnavailable, op, err)
		case strings.HasPrefix(pgErr.Code, "53"):
			return apperrors.NewStoreError(apperrors.ErrThrottled, op, err)
		case strings.HasPrefix(pgErr.Code, "22"):
			return apperrors.NewStoreError(apperrors.ErrInvalidArgument, op, err)
		}
		return apperrors.NewStoreError(apperrors.ErrInternal, op, err)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return apperrors.NewStoreError(apperrors.ErrUnavailable, op, err)
	}
	return apperrors.NewStoreError(apperrors.ErrInternal, op, err)
}
