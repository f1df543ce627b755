package handler_test

import (
	"context"
	"net/http"
	"testing"

	"focushub/internal/microservices/http-api/dto"
	"focushub/internal/microservices/http-api/handler"
	"focushub/internal/microservices/http-api/models"
	"focushub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockPostService) CreatePost(ctx context.Context, authorID string, req dto.CreatePostDTO) (*dto.PostResponse, error) {
	args := m.Called(ctx, authorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PostResponse), args.Error(1)
}

func (m *MockPostService) GetPost(ctx context.Context, postID int64) (*dto.PostResponse, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PostResponse), args.Error(1)
}

func (m *MockPostService) ListPosts(ctx context.Context, q dto.ListPostsQuery) ([]dto.PostResponse, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.PostResponse), args.Error(1)
}

func (m *MockPostService) UpdatePost(ctx context.Context, postID int64, requesterID string, req dto.UpdatePostDTO) (*dto.PostResponse, error) {
	args := m.Called(ctx, postID, requesterID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PostResponse), args.Error(1)
}

func (m *MockPostService) DeletePost(ctx context.Context, postID int64, requesterID string) error {
	args := m.Called(ctx, postID, requesterID)
	return args.Error(0)
}

func setupPostRouter(svc *MockPostService) *gin.Engine {
	r, public, protected := newTestEngine()
	handler.NewPostHandler(svc).RegisterRoutes(public, protected)
	return r
}

func TestPostHandler_ListCategories(t *testing.T) {
	svc := new(MockPostService)
	router := setupPostRouter(svc)
	svc.On("ListCategories", mock.Anything).Return([]models.Category{
		{ID: 1, Name: "Architecture", Slug: "architecture"},
		{ID: 2, Name: "Nature", Slug: "nature"},
	}, nil)

	w := doJSON(router, http.MethodGet, "/api/categories", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	categories := decode(t, w)["categories"].([]any)
	assert.Len(t, categories, 2)
}

func TestPostHandler_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockPostService)
		router := setupPostRouter(svc)
		svc.On("CreatePost", mock.Anything, testUser, mock.MatchedBy(func(req dto.CreatePostDTO) bool {
			return req.CategoryID == 2 && req.ImageURL == "https://cdn.example.com/p/1.jpg"
		})).Return(&dto.PostResponse{ID: 11, AuthorID: testUser, CategoryID: 2, AllowsRatings: true}, nil)

		w := doJSON(router, http.MethodPost, "/api/posts", testUser,
			`{"category_id":2,"image_url":"https://cdn.example.com/p/1.jpg"}`)

		require.Equal(t, http.StatusCreated, w.Code)
		body := decode(t, w)
		assert.Equal(t, float64(11), body["id"])
		assert.Nil(t, body["average_rating"])
	})

	t.Run("MissingImage", func(t *testing.T) {
		svc := new(MockPostService)
		router := setupPostRouter(svc)

		w := doJSON(router, http.MethodPost, "/api/posts", testUser, `{"category_id":2}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decode(t, w)["fields"], "image_url")
		svc.AssertNotCalled(t, "CreatePost", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnknownCategory", func(t *testing.T) {
		svc := new(MockPostService)
		router := setupPostRouter(svc)
		svc.On("CreatePost", mock.Anything, testUser, mock.Anything).Return(nil, service.ErrCategoryNotFound)

		w := doJSON(router, http.MethodPost, "/api/posts", testUser,
			`{"category_id":99,"image_url":"https://cdn.example.com/p/1.jpg"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPostHandler_List(t *testing.T) {
	t.Run("FiltersBound", func(t *testing.T) {
		svc := new(MockPostService)
		router := setupPostRouter(svc)
		svc.On("ListPosts", mock.Anything, mock.MatchedBy(func(q dto.ListPostsQuery) bool {
			return q.Sort == "rating" && q.Category != nil && *q.Category == 3
		})).Return([]dto.PostResponse{{ID: 1}}, nil)

		w := doJSON(router, http.MethodGet, "/api/posts?category=3&sort=rating", testUser, nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode(t, w)["posts"].([]any), 1)
	})

	t.Run("BadSort", func(t *testing.T) {
		svc := new(MockPostService)
		router := setupPostRouter(svc)

		w := doJSON(router, http.MethodGet, "/api/posts?sort=popular", testUser, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPostHandler_UpdateDelete(t *testing.T) {
	t.Run("UpdateForbidden", func(t *testing.T) {
		svc := new(MockPostService)
		router := setupPostRouter(svc)
		svc.On("UpdatePost", mock.Anything, int64(4), testUser, mock.Anything).Return(nil, service.ErrNotPostAuthor)

		w := doJSON(router, http.MethodPut, "/api/posts/4", testUser, `{"title":"Dusk"}`)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Delete", func(t *testing.T) {
		svc := new(MockPostService)
		router := setupPostRouter(svc)
		svc.On("DeletePost", mock.Anything, int64(4), testUser).Return(nil)

		w := doJSON(router, http.MethodDelete, "/api/posts/4", testUser, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("GetMissing", func(t *testing.T) {
		svc := new(MockPostService)
		router := setupPostRouter(svc)
		svc.On("GetPost", mock.Anything, int64(404)).Return(nil, service.ErrPostNotFound)

		w := doJSON(router, http.MethodGet, "/api/posts/404", testUser, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
