package customer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dokon/internal/auth"
	"dokon/internal/domain"
)

type mockService struct {
	CreateFunc func(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	GetFunc    func(ctx context.Context, id int64) (*domain.Customer, error)
	ListFunc   func(ctx context.Context, search string) ([]domain.Customer, error)
	DeleteFunc func(ctx context.Context, id int64) error
}

func (m *mockService) Create(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	return m.CreateFunc(ctx, c)
}

func (m *mockService) Get(ctx context.Context, id int64) (*domain.Customer, error) {
	return m.GetFunc(ctx, id)
}

func (m *mockService) List(ctx context.Context, search string) ([]domain.Customer, error) {
	return m.ListFunc(ctx, search)
}

func (m *mockService) Delete(ctx context.Context, id int64) error {
	return m.DeleteFunc(ctx, id)
}

func TestHandleCreate_UsesAuthenticatedUser(t *testing.T) {
	svc := &mockService{
		CreateFunc: func(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
			assert.Equal(t, int64(42), c.CreatedBy)
			c.ID = 1
			return &c, nil
		},
	}
	ctrl := NewController(svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(`{"name":"Ali"}`))
	req = req.WithContext(auth.WithClaims(req.Context(), &auth.Claims{UserID: 42, Role: domain.RoleAdmin}))
	rec := httptest.NewRecorder()
	ctrl.HandleCreate(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"createdBy":42`)
}

func TestHandleCreate_Unauthenticated(t *testing.T) {
	ctrl := NewController(&mockService{}, zap.NewNop())

	rec := httptest.NewRecorder()
	ctrl.HandleCreate(rec, httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(`{"name":"Ali"}`)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleList_PassesSearch(t *testing.T) {
	svc := &mockService{
		ListFunc: func(ctx context.Context, search string) ([]domain.Customer, error) {
			assert.Equal(t, "ali", search)
			return nil, nil
		},
	}
	ctrl := NewController(svc, zap.NewNop())

	rec := httptest.NewRecorder()
	ctrl.HandleList(rec, httptest.NewRequest(http.MethodGet, "/customers?search=ali", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
