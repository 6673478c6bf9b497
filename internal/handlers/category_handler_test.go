package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

const testCategoryID = "0190a3c4-5b6d-7e8f-9a0b-000000000002"

// --- mock category service ---

type mockCategoryService struct {
	createCategoryFn          func(userID string, input services.CategoryInput) (*models.Category, error)
	getUserCategoriesFn       func(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	getUserCategoriesByTypeFn func(userID string, categoryType models.CategoryType, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	getCategoryByIDFn         func(userID, categoryID string) (*models.Category, error)
	updateCategoryFn          func(userID, categoryID string, fields services.CategoryUpdateFields) (*models.Category, error)
	deleteCategoryFn          func(userID, categoryID string) error
}

func (m *mockCategoryService) CreateCategory(userID string, input services.CategoryInput) (*models.Category, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(userID, input)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) GetUserCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	if m.getUserCategoriesFn != nil {
		return m.getUserCategoriesFn(userID, page)
	}
	resp := pagination.NewPageResponse([]models.Category{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockCategoryService) GetUserCategoriesByType(userID string, categoryType models.CategoryType, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	if m.getUserCategoriesByTypeFn != nil {
		return m.getUserCategoriesByTypeFn(userID, categoryType, page)
	}
	resp := pagination.NewPageResponse([]models.Category{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockCategoryService) GetCategoryByID(userID, categoryID string) (*models.Category, error) {
	if m.getCategoryByIDFn != nil {
		return m.getCategoryByIDFn(userID, categoryID)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) UpdateCategory(userID, categoryID string, fields services.CategoryUpdateFields) (*models.Category, error) {
	if m.updateCategoryFn != nil {
		return m.updateCategoryFn(userID, categoryID, fields)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) DeleteCategory(userID, categoryID string) error {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(userID, categoryID)
	}
	return nil
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

func setupCategoryRouter(handler *CategoryHandler) *gin.Engine {
	r := newTestRouter()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/categories", handler.CreateCategory)
	auth.GET("/categories", handler.GetUserCategories)
	auth.GET("/categories/:id", handler.GetCategoryByID)
	auth.PUT("/categories/:id", handler.UpdateCategory)
	auth.DELETE("/categories/:id", handler.DeleteCategory)
	return r
}

func TestCategoryHandler_CreateCategory(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		audit := &mockAuditService{}
		svc := &mockCategoryService{
			createCategoryFn: func(userID string, input services.CategoryInput) (*models.Category, error) {
				return &models.Category{
					Base:   models.Base{ID: testCategoryID},
					UserID: userID,
					Name:   input.Name,
					Type:   input.Type,
					Color:  input.Color,
					Icon:   input.Icon,
				}, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc, audit))

		rec := doRequest(r, http.MethodPost, "/categories",
			`{"name":"Food","type":"expense","color":"#FF0000","icon":"Utensils"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		cat := parseJSON(t, rec)["category"].(map[string]interface{})
		if cat["icon"] != "Utensils" {
			t.Errorf("expected icon Utensils, got %v", cat["icon"])
		}
		if len(audit.actions) != 1 || audit.actions[0] != "CREATE_CATEGORY" {
			t.Errorf("expected CREATE_CATEGORY audit entry, got %v", audit.actions)
		}
	})

	t.Run("returns 400 on unknown icon", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/categories", `{"name":"Food","type":"expense","icon":"Rocket"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on transfer category type", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/categories", `{"name":"Moves","type":"transfer"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 409 on duplicate name", func(t *testing.T) {
		svc := &mockCategoryService{
			createCategoryFn: func(_ string, _ services.CategoryInput) (*models.Category, error) {
				return nil, apperrors.ErrDuplicateCategoryName
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/categories", `{"name":"Food","type":"expense"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_CATEGORY")
	})
}

func TestCategoryHandler_GetUserCategories(t *testing.T) {
	t.Run("lists all without type", func(t *testing.T) {
		called := false
		svc := &mockCategoryService{
			getUserCategoriesFn: func(_ string, _ pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
				called = true
				resp := pagination.NewPageResponse([]models.Category{{Name: "Food"}}, 1, 20, 1)
				return &resp, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/categories", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !called {
			t.Error("expected GetUserCategories to be called")
		}
	})

	t.Run("filters by type", func(t *testing.T) {
		var gotType models.CategoryType
		svc := &mockCategoryService{
			getUserCategoriesByTypeFn: func(_ string, categoryType models.CategoryType, _ pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
				gotType = categoryType
				resp := pagination.NewPageResponse([]models.Category{}, 1, 20, 0)
				return &resp, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/categories?type=income", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotType != models.CategoryTypeIncome {
			t.Errorf("expected income, got %q", gotType)
		}
	})
}

func TestCategoryHandler_GetCategoryByID(t *testing.T) {
	svc := &mockCategoryService{
		getCategoryByIDFn: func(_, _ string) (*models.Category, error) {
			return nil, apperrors.ErrCategoryNotFound
		},
	}
	r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))

	rec := doRequest(r, http.MethodGet, "/categories/"+testCategoryID, "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "CATEGORY_NOT_FOUND")
}

func TestCategoryHandler_UpdateCategory(t *testing.T) {
	t.Run("forwards partial fields", func(t *testing.T) {
		svc := &mockCategoryService{
			updateCategoryFn: func(_, categoryID string, fields services.CategoryUpdateFields) (*models.Category, error) {
				if fields.Color == nil || *fields.Color != "#00FF00" {
					t.Errorf("expected color #00FF00, got %v", fields.Color)
				}
				if fields.Name != nil {
					t.Error("expected name to be untouched")
				}
				return &models.Category{Base: models.Base{ID: categoryID}, Color: *fields.Color}, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodPut, "/categories/"+testCategoryID, `{"color":"#00FF00"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 400 on malformed id", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodPut, "/categories/7", `{"name":"X"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler_DeleteCategory(t *testing.T) {
	audit := &mockAuditService{}
	r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}, audit))

	rec := doRequest(r, http.MethodDelete, "/categories/"+testCategoryID, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(audit.actions) != 1 || audit.actions[0] != "DELETE_CATEGORY" {
		t.Errorf("expected DELETE_CATEGORY audit entry, got %v", audit.actions)
	}
}
