package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hisab-app/hisab/internal/models"
	"github.com/hisab-app/hisab/internal/storage"
)

// CreateEvent persists a new event aggregate to the database.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt == 0 {
		event.CreatedAt = time.Now().Unix()
	}
	if event.Details.Title == "" {
		event.Details.Title = generateTitle(event.Participants)
	}

	report, err := json.Marshal(event.Report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO events (id, owner_id, title, location, date, report, created_at, deleted_at) VALUES (?, ?, ?, ?, ?, ?, ?, NULL)",
		event.ID, event.OwnerID, event.Details.Title, event.Details.Location, event.Details.Date, string(report), event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	if err := insertChildren(ctx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateEvent rewrites the stored aggregate: the event row is updated and all
// participant/item child rows are replaced. The report is recomputed in full
// by the caller before every update, so there is nothing to merge.
func (s *SQLiteStore) UpdateEvent(ctx context.Context, event *models.Event) error {
	report, err := json.Marshal(event.Report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE events SET title = ?, location = ?, date = ?, report = ? WHERE id = ? AND deleted_at IS NULL",
		event.Details.Title, event.Details.Location, event.Details.Date, string(report), event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("event %s: %w", event.ID, storage.ErrNotFound)
	}

	for _, stmt := range []string{
		"DELETE FROM item_payments WHERE item_id IN (SELECT id FROM items WHERE event_id = ?)",
		"DELETE FROM item_liabilities WHERE item_id IN (SELECT id FROM items WHERE event_id = ?)",
		"DELETE FROM items WHERE event_id = ?",
		"DELETE FROM event_participants WHERE event_id = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, event.ID); err != nil {
			return fmt.Errorf("failed to clear event children: %w", err)
		}
	}

	if err := insertChildren(ctx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// insertChildren writes participants and items (with payments and
// liabilities) for an event, assigning IDs where missing.
func insertChildren(ctx context.Context, tx *sql.Tx, event *models.Event) error {
	for i := range event.Participants {
		p := &event.Participants[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO event_participants (event_id, person_id, name, email, phone, position) VALUES (?, ?, ?, ?, ?, ?)",
			event.ID, p.ID, p.Name, p.Email, p.Phone, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	for i := range event.Items {
		item := &event.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO items (id, event_id, name, amount, category, payment_method, position) VALUES (?, ?, ?, ?, ?, ?, ?)",
			item.ID, event.ID, item.Name, item.Amount, string(item.Category), string(item.PaymentMethod), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}

		for j, payment := range item.Payments {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO item_payments (item_id, position, person_id, amount) VALUES (?, ?, ?, ?)",
				item.ID, j, payment.PersonID, payment.Amount,
			)
			if err != nil {
				return fmt.Errorf("failed to insert item payment: %w", err)
			}
		}

		for _, personID := range item.LiablePersons {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO item_liabilities (item_id, person_id) VALUES (?, ?)",
				item.ID, personID,
			)
			if err != nil {
				return fmt.Errorf("failed to insert item liability: %w", err)
			}
		}
	}

	return nil
}

// GetEvent retrieves a live event by ID, including all children and the
// persisted report.
func (s *SQLiteStore) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	event := &models.Event{}
	var report string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, owner_id, title, location, date, report, created_at FROM events WHERE id = ? AND deleted_at IS NULL",
		eventID,
	).Scan(&event.ID, &event.OwnerID, &event.Details.Title, &event.Details.Location, &event.Details.Date, &report, &event.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("event %s: %w", eventID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	event.Report = models.EmptyReport()
	if err := json.Unmarshal([]byte(report), &event.Report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}

	if err := s.loadChildren(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *SQLiteStore) loadChildren(ctx context.Context, event *models.Event) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT person_id, name, email, phone FROM event_participants WHERE event_id = ? ORDER BY position",
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	event.Participants = []models.Person{}
	for rows.Next() {
		var p models.Person
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Phone); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		event.Participants = append(event.Participants, p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate participants: %w", err)
	}

	itemRows, err := s.db.QueryContext(ctx,
		"SELECT id, name, amount, category, payment_method FROM items WHERE event_id = ? ORDER BY position",
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get items: %w", err)
	}
	defer itemRows.Close()

	event.Items = []models.ExpenseItem{}
	for itemRows.Next() {
		var item models.ExpenseItem
		var category, method string
		if err := itemRows.Scan(&item.ID, &item.Name, &item.Amount, &category, &method); err != nil {
			return fmt.Errorf("failed to scan item: %w", err)
		}
		item.Category = models.Category(category)
		item.PaymentMethod = models.PaymentMethod(method)
		event.Items = append(event.Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate items: %w", err)
	}

	for i := range event.Items {
		item := &event.Items[i]

		payRows, err := s.db.QueryContext(ctx,
			"SELECT person_id, amount FROM item_payments WHERE item_id = ? ORDER BY position",
			item.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to get item payments: %w", err)
		}
		item.Payments = []models.PaymentDetail{}
		for payRows.Next() {
			var payment models.PaymentDetail
			if err := payRows.Scan(&payment.PersonID, &payment.Amount); err != nil {
				payRows.Close()
				return fmt.Errorf("failed to scan payment: %w", err)
			}
			item.Payments = append(item.Payments, payment)
		}
		payRows.Close()
		if err := payRows.Err(); err != nil {
			return fmt.Errorf("failed to iterate payments: %w", err)
		}

		liableRows, err := s.db.QueryContext(ctx,
			"SELECT person_id FROM item_liabilities WHERE item_id = ? ORDER BY person_id",
			item.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to get item liabilities: %w", err)
		}
		item.LiablePersons = []string{}
		for liableRows.Next() {
			var personID string
			if err := liableRows.Scan(&personID); err != nil {
				liableRows.Close()
				return fmt.Errorf("failed to scan liability: %w", err)
			}
			item.LiablePersons = append(item.LiablePersons, personID)
		}
		liableRows.Close()
		if err := liableRows.Err(); err != nil {
			return fmt.Errorf("failed to iterate liabilities: %w", err)
		}
	}

	return nil
}

// ListEvents retrieves all live events owned by a user, newest first.
func (s *SQLiteStore) ListEvents(ctx context.Context, ownerID string) ([]*models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM events WHERE owner_id = ? AND deleted_at IS NULL ORDER BY created_at DESC, id",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan event id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	events := make([]*models.Event, 0, len(ids))
	for _, id := range ids {
		event, err := s.GetEvent(ctx, id)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

// DeleteEvent soft-deletes an event by stamping deleted_at.
func (s *SQLiteStore) DeleteEvent(ctx context.Context, eventID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE events SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL",
		time.Now().Unix(), eventID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("event %s: %w", eventID, storage.ErrNotFound)
	}
	return nil
}

// generateTitle creates an auto-generated title from participants.
func generateTitle(participants []models.Person) string {
	if len(participants) == 0 {
		return fmt.Sprintf("Hisab - %s", time.Now().Format("Jan 2, 2006"))
	}
	names := make([]string, 0, 3)
	for _, p := range participants {
		names = append(names, p.Name)
		if len(names) == 3 {
			break
		}
	}
	if len(participants) <= 3 {
		return fmt.Sprintf("Hisab with %s", strings.Join(names, ", "))
	}
	return fmt.Sprintf("Hisab with %s and %d others",
		strings.Join(names[:2], ", "),
		len(participants)-2,
	)
}
