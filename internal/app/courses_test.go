package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/skillforge/course-marketplace/api"
	"github.com/skillforge/course-marketplace/internal/domain"
	"github.com/skillforge/course-marketplace/internal/mocks"
	"github.com/stretchr/testify/mock"
)

func TestListCoursesHandler(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		wantPagination domain.Pagination
		setupMocks     func(*mocks.MockCourseRepo, domain.Pagination)
		wantStatus     int
		wantCount      int
		wantErrMessage string
	}{
		{
			name:           "should list courses with default pagination",
			url:            "/courses",
			wantPagination: domain.Pagination{Page: DefaultPage, PageSize: DefaultPageSize},
			setupMocks: func(repo *mocks.MockCourseRepo, pagination domain.Pagination) {
				repo.On("GetAll", mock.Anything, pagination).
					Return(testCartCourses(), domain.NewMetadata(2, pagination.Page, pagination.PageSize), nil).
					Once()
			},
			wantStatus: http.StatusOK,
			wantCount:  2,
		},
		{
			name:           "should honor explicit page and page size",
			url:            "/courses?page=3&pageSize=5",
			wantPagination: domain.Pagination{Page: 3, PageSize: 5},
			setupMocks: func(repo *mocks.MockCourseRepo, pagination domain.Pagination) {
				repo.On("GetAll", mock.Anything, pagination).
					Return([]domain.Course{}, domain.NewMetadata(0, pagination.Page, pagination.PageSize), nil).
					Once()
			},
			wantStatus: http.StatusOK,
			wantCount:  0,
		},
		{
			name:           "should fall back to defaults for an oversized page size",
			url:            "/courses?pageSize=5000",
			wantPagination: domain.Pagination{Page: DefaultPage, PageSize: DefaultPageSize},
			setupMocks: func(repo *mocks.MockCourseRepo, pagination domain.Pagination) {
				repo.On("GetAll", mock.Anything, pagination).
					Return([]domain.Course{}, domain.NewMetadata(0, pagination.Page, pagination.PageSize), nil).
					Once()
			},
			wantStatus: http.StatusOK,
			wantCount:  0,
		},
		{
			name:           "should fail when the database is unavailable",
			url:            "/courses",
			wantPagination: domain.Pagination{Page: DefaultPage, PageSize: DefaultPageSize},
			setupMocks: func(repo *mocks.MockCourseRepo, pagination domain.Pagination) {
				repo.On("GetAll", mock.Anything, pagination).
					Return(nil, nil, fmt.Errorf("database connection error")).Once()
			},
			wantStatus:     http.StatusInternalServerError,
			wantErrMessage: ErrInternalServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			courseRepo := new(mocks.MockCourseRepo)

			app := newTestApplication(func(a *Application) {
				a.courseRepo = courseRepo
			})

			if tt.setupMocks != nil {
				tt.setupMocks(courseRepo, tt.wantPagination)
			}

			defer courseRepo.AssertExpectations(t)

			w, r := executeRequest(t, http.MethodGet, tt.url, nil)

			app.ListCoursesHandler(w, r)

			if got := w.Code; got != tt.wantStatus {
				t.Errorf("ListCoursesHandler() status = %v, want %v", got, tt.wantStatus)
			}

			if tt.wantStatus == http.StatusOK {
				var response api.CoursesResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				if err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}

				if len(response.Courses) != tt.wantCount {
					t.Errorf("Expected %d courses, got %d", tt.wantCount, len(response.Courses))
				}

				if response.Metadata.CurrentPage != tt.wantPagination.Page {
					t.Errorf("Metadata.CurrentPage = %v, want %v", response.Metadata.CurrentPage, tt.wantPagination.Page)
				}
			}

			checkErrorResponse(t, w, struct {
				wantStatus     int
				wantErrMessage string
			}{
				wantStatus:     tt.wantStatus,
				wantErrMessage: tt.wantErrMessage,
			})
		})
	}
}

func TestGetCourseHandler(t *testing.T) {
	tests := []struct {
		name       string
		courseId   string
		setupMocks func(*mocks.MockCourseRepo)
		wantStatus int
	}{
		{
			name:       "should fail on a non-numeric course id",
			courseId:   "abc",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:     "should return 404 for an unknown course",
			courseId: "999",
			setupMocks: func(repo *mocks.MockCourseRepo) {
				repo.On("GetById", mock.Anything, 999).
					Return(nil, domain.ErrRecordNotFound).Once()
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:     "should return the course",
			courseId: "1",
			setupMocks: func(repo *mocks.MockCourseRepo) {
				repo.On("GetById", mock.Anything, 1).Return(&domain.Course{
					ID:    1,
					Title: "Go From Scratch",
					Slug:  "go-from-scratch",
					Price: decimal.RequireFromString("100.00"),
				}, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			courseRepo := new(mocks.MockCourseRepo)

			app := newTestApplication(func(a *Application) {
				a.courseRepo = courseRepo
			})

			if tt.setupMocks != nil {
				tt.setupMocks(courseRepo)
			}

			defer courseRepo.AssertExpectations(t)

			w, r := executeRequest(t, http.MethodGet, "/courses/"+tt.courseId, nil)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("courseId", tt.courseId)
			r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

			app.GetCourseHandler(w, r)

			if got := w.Code; got != tt.wantStatus {
				t.Errorf("GetCourseHandler() status = %v, want %v", got, tt.wantStatus)
			}

			if tt.wantStatus == http.StatusOK {
				var response api.CourseResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				if err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}

				if response.Course.Id != 1 {
					t.Errorf("Expected course id=1, got %v", response.Course.Id)
				}
			}
		})
	}
}
