package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/skillforge/course-marketplace/api"
	"github.com/skillforge/course-marketplace/internal/domain"
)

func (app *Application) GetCartHandler(w http.ResponseWriter, r *http.Request) {
	userId := app.contextGetUserId(r)

	items, err := app.cartStore.Items(r.Context(), userId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp, err := app.buildCartResponse(r.Context(), items)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) AddCartItemHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.AddCartItemRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	userId := app.contextGetUserId(r)

	// Only published courses can be carted; GetById filters on that.
	_, err = app.courseRepo.GetById(r.Context(), input.CourseId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			logger.Warn("attempt to add unknown course to cart", "course_id", input.CourseId)
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.cartStore.Add(r.Context(), userId, input.CourseId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	items, err := app.cartStore.Items(r.Context(), userId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp, err := app.buildCartResponse(r.Context(), items)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) RemoveCartItemHandler(w http.ResponseWriter, r *http.Request) {
	courseId, err := app.readIntParam(r, "courseId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	userId := app.contextGetUserId(r)

	err = app.cartStore.Remove(r.Context(), userId, courseId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// buildCartResponse resolves live prices for the carted courses. A course
// that disappeared from the catalog since it was added is silently skipped.
func (app *Application) buildCartResponse(ctx context.Context, items []domain.CartItem) (*api.CartResponse, error) {
	resp := &api.CartResponse{
		Items:    make([]api.CartItem, 0, len(items)),
		Subtotal: decimal.Zero,
	}

	if len(items) == 0 {
		return resp, nil
	}

	courseIds := make([]int, len(items))
	for i, item := range items {
		courseIds[i] = item.CourseID
	}

	courses, err := app.courseRepo.GetByIds(ctx, courseIds)
	if err != nil {
		return nil, err
	}

	coursesById := make(map[int]domain.Course, len(courses))
	for _, course := range courses {
		coursesById[course.ID] = course
	}

	for _, item := range items {
		course, ok := coursesById[item.CourseID]
		if !ok {
			continue
		}

		price := course.EffectivePrice()

		resp.Items = append(resp.Items, api.CartItem{
			CourseId: course.ID,
			Title:    course.Title,
			Price:    price,
			AddedAt:  item.AddedAt,
		})

		resp.Subtotal = resp.Subtotal.Add(price)
	}

	return resp, nil
}
