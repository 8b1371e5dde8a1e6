package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hisab-app/hisab/internal/models"
	"github.com/hisab-app/hisab/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "hisab-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testEvent(ownerID string) *models.Event {
	return &models.Event{
		OwnerID: ownerID,
		Details: models.EventDetails{Title: "Pokhara Trip", Location: "Pokhara", Date: "2025-03-01"},
		Participants: []models.Person{
			{ID: "p1", Name: "Alice", Email: "alice@example.com"},
			{ID: "p2", Name: "Bob"},
			{ID: "p3", Name: "Charlie"},
		},
		Items: []models.ExpenseItem{
			{
				Name:          "Lunch",
				Amount:        200,
				Category:      models.CategoryFood,
				PaymentMethod: models.PaymentCombination,
				Payments: []models.PaymentDetail{
					{PersonID: "p1", Amount: 150},
					{PersonID: "p2", Amount: 50},
				},
				LiablePersons: []string{"p1", "p2"},
			},
			{
				Name:          "Snacks",
				Amount:        60,
				Category:      models.CategoryFood,
				PaymentMethod: models.PaymentSingle,
				Payments:      []models.PaymentDetail{{PersonID: models.CommonPayerID, Amount: 60}},
				LiablePersons: []string{"p1", "p2", "p3"},
			},
		},
		Report: models.EmptyReport(),
	}
}

func TestSQLiteStoreUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateUser generates ID and timestamp", func(t *testing.T) {
		user := models.NewUser("alice@example.com", "Alice", "hash")
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if user.ID == "" {
			t.Error("Expected user ID to be generated")
		}
		if user.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("GetUserByEmail round-trips", func(t *testing.T) {
		user, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if user.DisplayName != "Alice" || user.PasswordHash != "hash" {
			t.Errorf("unexpected user: %+v", user)
		}
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		err := store.CreateUser(ctx, models.NewUser("alice@example.com", "Alice Again", "hash2"))
		if err == nil {
			t.Error("Expected unique constraint violation")
		}
	})

	t.Run("missing user returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetUserByID(ctx, "nope")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestSQLiteStoreEvents(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	owner := models.NewUser("owner@example.com", "Owner", "hash")
	if err := store.CreateUser(ctx, owner); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	t.Run("CreateEvent generates IDs", func(t *testing.T) {
		event := testEvent(owner.ID)
		if err := store.CreateEvent(ctx, event); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
		if event.ID == "" {
			t.Error("Expected event ID to be generated")
		}
		if event.Items[0].ID == "" {
			t.Error("Expected item IDs to be generated")
		}
	})

	t.Run("GetEvent retrieves complete aggregate", func(t *testing.T) {
		original := testEvent(owner.ID)
		original.Report.TotalAmount = 260
		original.Report.PaidByPerson["p1"] = 170
		if err := store.CreateEvent(ctx, original); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}

		got, err := store.GetEvent(ctx, original.ID)
		if err != nil {
			t.Fatalf("GetEvent failed: %v", err)
		}
		if got.Details.Title != "Pokhara Trip" || got.OwnerID != owner.ID {
			t.Errorf("unexpected event: %+v", got)
		}
		if len(got.Participants) != 3 || got.Participants[0].Name != "Alice" {
			t.Errorf("participants = %+v", got.Participants)
		}
		if len(got.Items) != 2 {
			t.Fatalf("got %d items, want 2", len(got.Items))
		}
		if got.Items[0].Name != "Lunch" || len(got.Items[0].Payments) != 2 {
			t.Errorf("item 0 = %+v", got.Items[0])
		}
		if got.Items[1].Payments[0].PersonID != models.CommonPayerID {
			t.Errorf("expected common payment, got %+v", got.Items[1].Payments)
		}
		if got.Report.TotalAmount != 260 || got.Report.PaidByPerson["p1"] != 170 {
			t.Errorf("report did not round-trip: %+v", got.Report)
		}
	})

	t.Run("UpdateEvent replaces children", func(t *testing.T) {
		event := testEvent(owner.ID)
		if err := store.CreateEvent(ctx, event); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}

		event.Details.Title = "Renamed"
		event.Items = event.Items[:1]
		event.Participants = append(event.Participants, models.Person{ID: "p4", Name: "Dana"})
		if err := store.UpdateEvent(ctx, event); err != nil {
			t.Fatalf("UpdateEvent failed: %v", err)
		}

		got, err := store.GetEvent(ctx, event.ID)
		if err != nil {
			t.Fatalf("GetEvent failed: %v", err)
		}
		if got.Details.Title != "Renamed" {
			t.Errorf("title = %s, want Renamed", got.Details.Title)
		}
		if len(got.Items) != 1 || len(got.Participants) != 4 {
			t.Errorf("children not replaced: %d items, %d participants", len(got.Items), len(got.Participants))
		}
	})

	t.Run("DeleteEvent hides the event", func(t *testing.T) {
		event := testEvent(owner.ID)
		if err := store.CreateEvent(ctx, event); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
		if err := store.DeleteEvent(ctx, event.ID); err != nil {
			t.Fatalf("DeleteEvent failed: %v", err)
		}
		if _, err := store.GetEvent(ctx, event.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
		if err := store.UpdateEvent(ctx, event); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("update of deleted event: error = %v, want ErrNotFound", err)
		}
	})

	t.Run("ListEvents excludes deleted", func(t *testing.T) {
		events, err := store.ListEvents(ctx, owner.ID)
		if err != nil {
			t.Fatalf("ListEvents failed: %v", err)
		}
		for _, e := range events {
			if e.DeletedAt != 0 {
				t.Errorf("listed deleted event %s", e.ID)
			}
		}
		if len(events) == 0 {
			t.Error("expected live events in list")
		}
	})

	t.Run("CreateEvent auto-generates title", func(t *testing.T) {
		event := testEvent(owner.ID)
		event.Details.Title = ""
		if err := store.CreateEvent(ctx, event); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
		if event.Details.Title == "" {
			t.Error("Expected title to be generated")
		}
	})
}
