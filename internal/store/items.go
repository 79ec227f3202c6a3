package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erazemk/najdeno/internal/apperr"
	"github.com/erazemk/najdeno/internal/model"
)

// Items persists item records.
type Items struct {
	DB *sql.DB

	// Now returns the insert timestamp. Defaults to time.Now.
	Now func() time.Time
}

const itemColumns = `i.id, i.title, i.category, i.status, i.date, i.location, i.description,
	i.media_locator, i.contact_preference, i.owner_id, i.created_at,
	a.display_name, a.email`

const itemFrom = `FROM items i LEFT JOIN accounts a ON a.id = i.owner_id`

// Insert stores a new item, assigning its ID and creation time.
func (s *Items) Insert(ctx context.Context, item *model.Item) (*model.Item, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	result, err := s.DB.ExecContext(ctx,
		`INSERT INTO items (title, category, status, date, location, description,
		                    media_locator, contact_preference, owner_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Title, item.Category, item.Status, item.Date, item.Location,
		nullString(item.Description), nullString(item.MediaLocator), nullString(string(item.ContactPreference)),
		item.OwnerID, now().UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("media %s already attached to an item: %w", item.MediaLocator, apperr.ErrConflict)
		}
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return s.Get(ctx, id)
}

// Get returns an item by ID, with the owner's name and email joined.
func (s *Items) Get(ctx context.Context, id int64) (*model.Item, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+itemColumns+` `+itemFrom+` WHERE i.id = ?`, id,
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %d: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// Query returns items matching every non-empty field of f, newest first.
func (s *Items) Query(ctx context.Context, f model.Filter) ([]model.Item, error) {
	var where []string
	var args []any

	if f.Status != "" {
		where = append(where, "i.status = ?")
		args = append(args, f.Status)
	}
	if f.Category != "" {
		where = append(where, "i.category = ?")
		args = append(args, f.Category)
	}
	if f.OwnerID != "" {
		where = append(where, "i.owner_id = ?")
		args = append(args, f.OwnerID)
	}
	if text := strings.TrimSpace(f.Text); text != "" {
		// lower() only folds ASCII, so fold the needle the same way.
		where = append(where, "instr(lower(i.title), lower(?)) > 0")
		args = append(args, text)
	}

	query := `SELECT ` + itemColumns + ` ` + itemFrom
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY i.created_at DESC, i.id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// UpdateStatus sets an item's status and returns the updated record.
func (s *Items) UpdateStatus(ctx context.Context, id int64, status model.Status) (*model.Item, error) {
	result, err := s.DB.ExecContext(ctx,
		`UPDATE items SET status = ? WHERE id = ?`, status, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating item status: %w", err)
	}
	if err := requireAffected(result, "item", id); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes an item record permanently.
func (s *Items) Delete(ctx context.Context, id int64) error {
	result, err := s.DB.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return requireAffected(result, "item", id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*model.Item, error) {
	var item model.Item
	var description, locator, contact, ownerName, ownerEmail sql.NullString
	err := row.Scan(&item.ID, &item.Title, &item.Category, &item.Status, &item.Date, &item.Location,
		&description, &locator, &contact, &item.OwnerID, &item.CreatedAt, &ownerName, &ownerEmail)
	if err != nil {
		return nil, err
	}
	item.Description = description.String
	item.MediaLocator = locator.String
	item.ContactPreference = model.ContactPreference(contact.String)
	item.OwnerName = ownerName.String
	item.OwnerEmail = ownerEmail.String
	return &item, nil
}

func requireAffected(result sql.Result, what string, id any) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %v: %w", what, id, apperr.ErrNotFound)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
