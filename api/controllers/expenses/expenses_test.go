package expenses

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gemvault/gemvault-backend/api/middleware"
	internalexpenses "github.com/gemvault/gemvault-backend/internal/expenses"
	"github.com/gemvault/gemvault-backend/pkg/enums"
	pkgerrors "github.com/gemvault/gemvault-backend/pkg/errors"
	"github.com/gemvault/gemvault-backend/pkg/logger"
	"github.com/gemvault/gemvault-backend/pkg/pagination"
)

type stubExpenseService struct {
	internalexpenses.Service

	listInput   internalexpenses.ListExpensesInput
	created     *internalexpenses.CreateExpenseInput
	deleteCatID uuid.UUID
	deleteErr   error
}

func (s *stubExpenseService) ListExpenses(_ context.Context, input internalexpenses.ListExpensesInput) (*pagination.Page[internalexpenses.ExpenseDTO], error) {
	s.listInput = input
	return &pagination.Page[internalexpenses.ExpenseDTO]{Items: []internalexpenses.ExpenseDTO{}}, nil
}

func (s *stubExpenseService) CreateExpense(_ context.Context, input internalexpenses.CreateExpenseInput) (*internalexpenses.ExpenseDTO, error) {
	s.created = &input
	return &internalexpenses.ExpenseDTO{ID: uuid.New(), Description: input.Description}, nil
}

func (s *stubExpenseService) DeleteCategory(_ context.Context, id uuid.UUID) error {
	s.deleteCatID = id
	return s.deleteErr
}

func newRouter(svc internalexpenses.Service) http.Handler {
	r := chi.NewRouter()
	logg := logger.Nop()
	r.Get("/api/admin/expenses", List(svc, logg))
	r.Post("/api/admin/expenses", Create(svc, logg))
	r.Delete("/api/admin/expense-categories/{categoryId}", DeleteCategory(svc, logg))
	return r
}

func TestListParsesFilters(t *testing.T) {
	svc := &stubExpenseService{}
	categoryID := uuid.New()
	rec := httptest.NewRecorder()
	url := "/api/admin/expenses?categoryId=" + categoryID.String() + "&from=2026-01-01&to=2026-01-31&limit=5"
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	in := svc.listInput
	if in.CategoryID == nil || *in.CategoryID != categoryID {
		t.Fatalf("unexpected category %v", in.CategoryID)
	}
	if in.From == nil || !in.From.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected from %v", in.From)
	}
	if in.To == nil || in.To.Day() != 31 || in.Pagination.Limit != 5 {
		t.Fatalf("unexpected input %+v", in)
	}
}

func TestListRejectsInvertedRange(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&stubExpenseService{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/expenses?from=2026-02-01&to=2026-01-01", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestCreateStampsAdmin(t *testing.T) {
	svc := &stubExpenseService{}
	adminID := uuid.New()
	body := `{"categoryId":"` + uuid.NewString() + `","description":"Display cases","amount":"420.50","expenseDate":"2026-03-02"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/expenses", strings.NewReader(body))
	req = req.WithContext(middleware.WithAdmin(req.Context(), adminID.String(), enums.AdminRoleAdmin, "jti"))
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.created == nil || svc.created.CreatedBy == nil || *svc.created.CreatedBy != adminID {
		t.Fatalf("expected created_by %s, got %+v", adminID, svc.created)
	}
}

func TestCreateIgnoresClientSuppliedCreator(t *testing.T) {
	svc := &stubExpenseService{}
	body := `{"categoryId":"` + uuid.NewString() + `","description":"Boxes","amount":"12","expenseDate":"2026-03-02","createdBy":"` + uuid.NewString() + `"}`
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/expenses", strings.NewReader(body)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected unknown field rejection, got %d", rec.Code)
	}
}

func TestDeleteCategoryConflict(t *testing.T) {
	svc := &stubExpenseService{deleteErr: pkgerrors.New(pkgerrors.CodeConflict, "category has expenses")}
	id := uuid.New()
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/admin/expense-categories/"+id.String(), nil))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
	if svc.deleteCatID != id {
		t.Fatalf("expected delete of %s", id)
	}
}
