package remotestore

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.RemoteStore{URL: server.URL + "/", APIKey: "chave", Timeout: time.Second})
	require.NoError(t, err)
	client.http.SetRetryCount(0)
	return client
}

func TestNewClient_RequiresURL(t *testing.T) {
	_, err := NewClient(config.RemoteStore{URL: "  "})
	assert.ErrorIs(t, err, ErrMissingURL)
}

func TestUserRepository_ListUsers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/users", r.URL.Path)
		assert.Equal(t, "name.asc", r.URL.Query().Get("order"))
		assert.Equal(t, "chave", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer chave", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id":"u1","name":"Ana","email":"ana@example.com","password_hash":"hash","role_id":2,"created_at":"2024-01-01T00:00:00Z"}]`)
	})

	users, err := NewUserRepository(client).ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "u1", users[0].ID)
	assert.Equal(t, "hash", users[0].PasswordHash)
	assert.Equal(t, domain.RoleViewer, users[0].RoleID)
}

func TestUserRepository_GetUserByEmailNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "eq.x@example.com", r.URL.Query().Get("email"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[]`)
	})

	user, err := NewUserRepository(client).GetUserByEmail(context.Background(), "x@example.com")
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestSalesRecordRepository_ListRecentByUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		assert.Equal(t, "/rest/v1/sales_records", r.URL.Path)
		assert.Equal(t, "eq.u1", query.Get("user_id"))
		assert.Equal(t, "5", query.Get("limit"))
		assert.Equal(t, "date.desc,created_at.desc", query.Get("order"))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id":"s1","user_id":"u1","date":"2024-03-15","customer":"Acme","product":"Laptop","category":"Electronics","quantity":2,"unit_price":10.5,"total_amount":21,"region":"North","status":"completed"}]`)
	})

	records, err := NewSalesRecordRepository(client).ListRecentByUser(context.Background(), "u1", 5)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), records[0].Date)
	assert.Equal(t, 21.0, records[0].TotalAmount)
	assert.Equal(t, domain.SalesStatusCompleted, records[0].Status)
}

func TestSalesRecordRepository_Create(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"user_id":"u1","date":"2024-03-15","customer":"Acme","product":"Laptop","category":"","quantity":2,"unit_price":10,"total_amount":20,"region":"North","status":"pending"}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `[{"id":"s9","user_id":"u1","date":"2024-03-15","customer":"Acme","product":"Laptop","quantity":2,"unit_price":10,"total_amount":20,"region":"North","status":"pending","created_at":"2024-03-15T10:00:00Z"}]`)
	})

	record := &domain.SalesRecord{
		UserID:    "u1",
		Date:      time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Customer:  "Acme",
		Product:   "Laptop",
		Quantity:  2,
		UnitPrice: 10,
		Region:    "North",
		Status:    domain.SalesStatusPending,
	}
	record.Recalculate()

	created, err := NewSalesRecordRepository(client).Create(context.Background(), record)
	require.NoError(t, err)
	assert.Equal(t, "s9", created.ID)
	assert.Equal(t, time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC), created.CreatedAt)
}

func TestSalesRecordRepository_UpdateAndDeleteNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "eq.missing", r.URL.Query().Get("id"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[]`)
	})
	repo := NewSalesRecordRepository(client)

	_, err := repo.Update(context.Background(), &domain.SalesRecord{ID: "missing"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(context.Background(), "missing"), repository.ErrNotFound)
}

func TestClient_ErrorResponses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{
			name:   "não autorizado",
			status: http.StatusUnauthorized,
			check:  func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrUnauthorized) },
		},
		{
			name:   "limite de requisições",
			status: http.StatusTooManyRequests,
			check:  func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrRateLimited) },
		},
		{
			name:   "erro do servidor",
			status: http.StatusInternalServerError,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
				assert.Equal(t, `{"message":"falhou"}`, apiErr.Body)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, `{"message":"falhou"}`)
			})

			_, err := NewSalesRecordRepository(client).ListByUser(context.Background(), "u1")
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}
