package app

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/skillforge/course-marketplace/api"
	"github.com/skillforge/course-marketplace/internal/domain"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func (app *Application) ListCoursesHandler(w http.ResponseWriter, r *http.Request) {
	pagination := domain.Pagination{
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
	}

	if page := r.URL.Query().Get("page"); page != "" {
		if pageNum, err := strconv.Atoi(page); err == nil && pageNum > 0 {
			pagination.Page = pageNum
		}
	}

	if pageSize := r.URL.Query().Get("pageSize"); pageSize != "" {
		if pageSizeNum, err := strconv.Atoi(pageSize); err == nil && pageSizeNum > 0 && pageSizeNum <= MaxPageSize {
			pagination.PageSize = pageSizeNum
		}
	}

	courses, metadata, err := app.courseRepo.GetAll(r.Context(), pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.CoursesResponse{
		Courses:  toApiCourses(courses),
		Metadata: toApiMetadata(metadata),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetCourseHandler(w http.ResponseWriter, r *http.Request) {
	courseId, err := app.readIntParam(r, "courseId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	course, err := app.courseRepo.GetById(r.Context(), courseId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := api.CourseResponse{
		Course: toApiCourse(*course),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiCourses(courses []domain.Course) []api.Course {
	apiCourses := make([]api.Course, len(courses))

	for i, course := range courses {
		apiCourses[i] = toApiCourse(course)
	}

	return apiCourses
}

func toApiCourse(course domain.Course) api.Course {
	return api.Course{
		Id:            course.ID,
		Title:         course.Title,
		Slug:          course.Slug,
		Description:   course.Description,
		Price:         course.Price,
		DiscountPrice: course.DiscountPrice,
	}
}

func toApiMetadata(metadata *domain.Metadata) api.Metadata {
	return api.Metadata{
		CurrentPage:  metadata.CurrentPage,
		FirstPage:    metadata.FirstPage,
		LastPage:     metadata.LastPage,
		PageSize:     metadata.PageSize,
		TotalRecords: metadata.TotalRecords,
	}
}
