package app

import (
	"net/http"

	"github.com/skillforge/course-marketplace/api"
	"github.com/skillforge/course-marketplace/internal/domain"
)

func (app *Application) GetMyCoursesHandler(w http.ResponseWriter, r *http.Request) {
	userId := app.contextGetUserId(r)

	entitlements, err := app.entitlementRepo.GetByUserId(r.Context(), userId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	myCourses := make([]api.MyCourse, 0, len(entitlements))

	if len(entitlements) > 0 {
		courseIds := make([]int, len(entitlements))
		for i, entitlement := range entitlements {
			courseIds[i] = entitlement.CourseID
		}

		courses, err := app.courseRepo.GetByIds(r.Context(), courseIds)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		titles := make(map[int]string, len(courses))
		for _, course := range courses {
			titles[course.ID] = course.Title
		}

		myCourses = toApiMyCourses(entitlements, titles)
	}

	resp := api.MyCoursesResponse{
		Courses: myCourses,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiMyCourses(entitlements []domain.Entitlement, titles map[int]string) []api.MyCourse {
	myCourses := make([]api.MyCourse, len(entitlements))

	for i, entitlement := range entitlements {
		myCourses[i] = api.MyCourse{
			CourseId:    entitlement.CourseID,
			Title:       titles[entitlement.CourseID],
			PricePaid:   entitlement.PricePaid,
			PurchasedAt: entitlement.CreatedAt,
		}
	}

	return myCourses
}
