package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/xcursocr/shopkit/internal/domain/catalog"
)

func TestListDecodesPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("sort"); got != "id:DESC" {
			t.Errorf("expected sort id:DESC, got %q", got)
		}
		if got := r.URL.Query().Get("include"); got != "brands" {
			t.Errorf("expected include=brands, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "ok",
			"data": []map[string]any{
				{"id": 2, "name": "Air Max", "price": 120.5, "brands": map[string]any{"id": 1, "name": "Nike"}},
				{"id": 1, "name": "Classic", "price": 80},
			},
			"meta": map[string]any{
				"total": 42, "per_page": 2, "current_page": 1, "last_page": 21,
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	q := ListQuery{Limit: 2, Include: []string{"brands"}}.Sort("id", SortDesc)
	page, err := List[catalog.Product](context.Background(), client, CollectionProducts, q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(page.Items))
	}
	if page.Items[0].Name != "Air Max" {
		t.Errorf("expected Air Max first, got %s", page.Items[0].Name)
	}
	if page.Items[0].Brand == nil || page.Items[0].Brand.Name != "Nike" {
		t.Errorf("expected embedded brand Nike, got %+v", page.Items[0].Brand)
	}
	if page.Items[1].Brand != nil {
		t.Error("expected nil brand when the backend sent none")
	}
	if page.Meta == nil {
		t.Fatal("expected pagination meta")
	}
	if page.Meta.Total != 42 || page.Meta.LastPage != 21 {
		t.Errorf("unexpected meta %+v", page.Meta)
	}
}

func TestGetNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusNotFound, false, "product not found", nil)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	_, err := Get[catalog.Product](context.Background(), client, CollectionProducts, 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetUnsuccessfulEnvelopeMapsToNotFound(t *testing.T) {
	// Some endpoints answer 200 with success=false for an absent row.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, false, "no such product", nil)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	_, err := Get[catalog.Product](context.Background(), client, CollectionProducts, 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateReturnsCreatedRow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["name"] != "Nike" {
			t.Errorf("expected name Nike in body, got %v", body["name"])
		}
		writeEnvelope(w, http.StatusCreated, true, "created", map[string]any{"id": 7, "name": "Nike"})
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	name := "Nike"
	brand, err := Create[catalog.Brand](context.Background(), client, CollectionBrands, catalog.NamedPayload{Name: &name})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if brand.ID != 7 || brand.Name != "Nike" {
		t.Errorf("unexpected created row %+v", brand)
	}
}

func TestRemoveReferenceConflict(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		message string
	}{
		{"status 409", http.StatusConflict, "row is referenced by orders"},
		{"message marker on 400", http.StatusBadRequest, "update or delete violates foreign key constraint"},
		{"in-use marker on 500", http.StatusInternalServerError, "category is in use"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(w, tc.status, false, tc.message, nil)
			}))
			defer server.Close()

			client := NewClient(server.URL, nil)
			_, err := Remove(context.Background(), client, CollectionCategories, 3)
			var conflict *ConflictError
			if !errors.As(err, &conflict) {
				t.Fatalf("expected *ConflictError, got %T (%v)", err, err)
			}
			if !errors.Is(err, ErrConflict) {
				t.Error("expected ConflictError to match ErrConflict")
			}
			if conflict.Collection != CollectionCategories || conflict.ID != 3 {
				t.Errorf("unexpected conflict context %+v", conflict)
			}
			if conflict.Message != tc.message {
				t.Errorf("expected message %q, got %q", tc.message, conflict.Message)
			}
		})
	}
}

func TestRemovePlainErrorPassesThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusNotFound, false, "product not found", nil)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	_, err := Remove(context.Background(), client, CollectionProducts, 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		t.Error("a plain 404 must not be mapped to a conflict")
	}
}

func TestRemoveReturnsDeletedID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		writeEnvelope(w, http.StatusOK, true, "deleted", map[string]any{"id": 7})
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	deleted, err := Remove(context.Background(), client, CollectionProducts, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 7 {
		t.Errorf("expected deleted id 7, got %d", deleted)
	}
}

func TestRemoveFallsBackToRequestedID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "deleted", nil)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	deleted, err := Remove(context.Background(), client, CollectionBrands, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 12 {
		t.Errorf("expected requested id 12 when the payload omits one, got %d", deleted)
	}
}
