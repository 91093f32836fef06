package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"propcare/internal/models"
	"propcare/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TicketRepo struct{ db *pgxpool.Pool }

func NewTicketRepo(db *pgxpool.Pool) repository.TicketRepository { return &TicketRepo{db: db} }

const ticketCols = `t.id, t.property_id, t.title, t.description, t.image_url, t.status, t.priority,
	t.created_by, COALESCE(t.assigned_to::text, ''), t.comments, t.created_at, t.updated_at`

func scanTicket(row pgx.Row, t *models.Ticket) error {
	var raw []byte
	if err := row.Scan(
		&t.ID, &t.PropertyID, &t.Title, &t.Description, &t.ImageURL, &t.Status, &t.Priority,
		&t.CreatedBy, &t.AssignedTo, &raw, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return err
	}
	t.Comments = []models.Comment{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &t.Comments); err != nil {
			return fmt.Errorf("decode comments of ticket %s: %w", t.ID, err)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Listing with scope + filters + pagination + sort
// -----------------------------------------------------------------------------

// List returns a page of tickets matching f.
// - PropertyIDs: membership (manager scope, resolved by the caller)
// - AssignedTo:  exact (staff scope)
// - Q:           free-text search (title/description, ILIKE)
// - Status, Priority: exact
// - Sort:        created_at|updated_at|priority (default updated_at)
// - Order:       asc|desc (default desc)
func (r *TicketRepo) List(ctx context.Context, f repository.TicketFilter) ([]models.Ticket, error) {
	f = f.Normalize()
	if f.MatchesNothing() {
		return nil, nil
	}

	whereSQL, args := buildTicketWhere(f)
	sql := fmt.Sprintf(`
		SELECT %s
		FROM tickets t
		%s
		ORDER BY t.%s %s
		LIMIT $%d OFFSET $%d
	`, ticketCols, whereSQL, sanitizeSort(f.Sort, "updated_at"), sanitizeOrder(f.Order, "desc"), len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Ticket
	for rows.Next() {
		var t models.Ticket
		if err := scanTicket(rows, &t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Count returns the total number of tickets for the same filter set (for pagination).
func (r *TicketRepo) Count(ctx context.Context, f repository.TicketFilter) (int, error) {
	if f.MatchesNothing() {
		return 0, nil
	}
	whereSQL, args := buildTicketWhere(f)
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tickets t `+whereSQL, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CountByStatus groups the filtered tickets by status. The "high" key counts
// high-priority tickets that are not completed.
func (r *TicketRepo) CountByStatus(ctx context.Context, f repository.TicketFilter) (map[string]int, error) {
	out := map[string]int{}
	if f.MatchesNothing() {
		return out, nil
	}
	whereSQL, args := buildTicketWhere(f)
	rows, err := r.db.Query(ctx, `
		SELECT t.status, COUNT(*), COUNT(*) FILTER (WHERE t.priority = 'high')
		FROM tickets t `+whereSQL+`
		GROUP BY t.status`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n, high int
		if err := rows.Scan(&status, &n, &high); err != nil {
			return nil, err
		}
		out[status] = n
		if status != models.TicketCompleted {
			out["high"] += high
		}
	}
	return out, rows.Err()
}

func (r *TicketRepo) CountByProperty(ctx context.Context, propertyID string) (int, error) {
	if !validID(propertyID) {
		return 0, nil
	}
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tickets WHERE property_id=$1`, propertyID).Scan(&n)
	return n, err
}

// -----------------------------------------------------------------------------
// Single ticket + create/update/delete + comments
// -----------------------------------------------------------------------------
func (r *TicketRepo) Get(ctx context.Context, id string) (*models.Ticket, error) {
	if !validID(id) {
		return nil, nil
	}
	var t models.Ticket
	err := scanTicket(r.db.QueryRow(ctx, `SELECT `+ticketCols+` FROM tickets t WHERE t.id = $1`, id), &t)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TicketRepo) Create(ctx context.Context, t *models.Ticket) error {
	now := time.Now()
	err := r.db.QueryRow(ctx, `
		INSERT INTO tickets (property_id, title, description, image_url, status, priority, created_by, assigned_to, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, created_at, updated_at
	`,
		t.PropertyID, t.Title, t.Description, t.ImageURL, t.Status, t.Priority, t.CreatedBy, nullIfEmpty(t.AssignedTo), now, now,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if t.Comments == nil {
		t.Comments = []models.Comment{}
	}
	return translate(err)
}

// Update rewrites the scalar columns only, so a concurrent AddComment is never
// clobbered by a field edit.
func (r *TicketRepo) Update(ctx context.Context, t *models.Ticket) error {
	if !validID(t.ID) {
		return repository.ErrNotFound
	}
	t.UpdatedAt = time.Now()
	ct, err := r.db.Exec(ctx, `
		UPDATE tickets SET
			title=$1, description=$2, image_url=$3, status=$4, priority=$5, assigned_to=$6, updated_at=$7
		WHERE id=$8
	`,
		t.Title, t.Description, t.ImageURL, t.Status, t.Priority, nullIfEmpty(t.AssignedTo), t.UpdatedAt, t.ID,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TicketRepo) AddComment(ctx context.Context, ticketID string, c *models.Comment) error {
	if !validID(ticketID) {
		return repository.ErrNotFound
	}
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().UTC()
	stored := *c
	stored.CreatedByName = ""
	doc, err := json.Marshal(stored)
	if err != nil {
		return err
	}

	ct, err := r.db.Exec(ctx, `
		UPDATE tickets
		SET comments = comments || jsonb_build_array($2::jsonb), updated_at = now()
		WHERE id = $1
	`, ticketID, string(doc))
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TicketRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	ct, err := r.db.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

// buildTicketWhere composes WHERE clause and args for scope + filters (with aliases).
func buildTicketWhere(f repository.TicketFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	// scope
	if f.PropertyIDs != nil {
		args = append(args, validIDs(f.PropertyIDs))
		clauses = append(clauses, "t.property_id = ANY($"+itoa(len(args))+"::uuid[])")
	}
	if a := strings.TrimSpace(f.AssignedTo); a != "" {
		if !validID(a) {
			clauses = append(clauses, "false")
		} else {
			args = append(args, a)
			clauses = append(clauses, "t.assigned_to = $"+itoa(len(args))+"::uuid")
		}
	}

	// free-text search (ILIKE)
	if s := strings.TrimSpace(f.Q); s != "" {
		p := "%" + s + "%"
		args = append(args, p, p)
		clauses = append(clauses, "(t.title ILIKE $"+itoa(len(args)-1)+" OR t.description ILIKE $"+itoa(len(args))+")")
	}

	// exact filters
	if s := strings.TrimSpace(f.Status); s != "" {
		args = append(args, s)
		clauses = append(clauses, "t.status = $"+itoa(len(args)))
	}
	if p := strings.TrimSpace(f.Priority); p != "" {
		args = append(args, p)
		clauses = append(clauses, "t.priority = $"+itoa(len(args)))
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

func sanitizeSort(s, def string) string {
	switch s = strings.ToLower(strings.TrimSpace(s)); s {
	case "created_at", "updated_at", "priority":
		return s
	default:
		return def
	}
}

func sanitizeOrder(o, def string) string {
	switch o = strings.ToLower(strings.TrimSpace(o)); o {
	case "asc", "desc":
		return o
	default:
		return def
	}
}
