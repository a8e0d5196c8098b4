package authoring

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"coursestudio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadCategories(t *testing.T) []models.Category {
	t.Helper()
	raw, err := json.Marshal(categoriesFixture())
	require.NoError(t, err)
	var out []models.Category
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestCourseForm_CreateNavigatesToCourse(t *testing.T) {
	api := newFakeAPI(t, map[string]reply{
		"POST /courses": {status: 201, data: map[string]any{"id": "new-1", "title": "Intro to Testing"}},
	})
	nav := NewHistory(CoursesPath, nil)
	toasts := &Recorder{}
	form := NewCourseForm(api.client(), nav, toasts, loadCategories(t))

	form.SetTitle("Intro to Testing")
	form.SetCategory("c1")
	form.SetSubCategory("s1")
	require.True(t, form.CanSubmit())

	course, err := form.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new-1", course.ID)

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "POST", calls[0].Method)
	assert.Equal(t, "/courses", calls[0].Path)
	assert.JSONEq(t, `{"title":"Intro to Testing","categoryId":"c1","subCategoryId":"s1"}`, calls[0].Body)

	assert.Equal(t, "/instructor/courses/new-1/basic", nav.Current())
	assert.Equal(t, []Toast{{Kind: ToastSuccess, Message: MsgCourseCreated}}, toasts.Toasts())
}

// Кнопка отправки активна тогда и только тогда, когда заполнены все поля.
func TestCourseForm_SubmitEnabledOnlyWhenValid(t *testing.T) {
	categories := loadCategories(t)
	titles := []string{"ab", "Go", "Курс", "Веб-разработка для начинающих", strings.Repeat("я", 200)}

	for _, title := range titles {
		form := NewCourseForm(nil, NewHistory("", nil), &Recorder{}, categories)
		form.SetTitle(title)
		form.SetCategory("c1")
		form.SetSubCategory("s2")
		assert.True(t, form.CanSubmit(), "title=%q", title)

		noTitle := NewCourseForm(nil, NewHistory("", nil), &Recorder{}, categories)
		noTitle.SetCategory("c1")
		noTitle.SetSubCategory("s2")
		assert.False(t, noTitle.CanSubmit())

		noCategory := NewCourseForm(nil, NewHistory("", nil), &Recorder{}, categories)
		noCategory.SetTitle(title)
		noCategory.SetSubCategory("s2")
		assert.False(t, noCategory.CanSubmit())

		noSub := NewCourseForm(nil, NewHistory("", nil), &Recorder{}, categories)
		noSub.SetTitle(title)
		noSub.SetCategory("c1")
		assert.False(t, noSub.CanSubmit())
	}

	short := NewCourseForm(nil, NewHistory("", nil), &Recorder{}, categories)
	short.SetTitle("я")
	short.SetCategory("c1")
	short.SetSubCategory("s1")
	errs := short.Validate()
	assert.Equal(t, "Название обязательно и должно содержать минимум 2 символа.", errs["title"])
	assert.False(t, short.CanSubmit())
}

func TestCourseForm_SubCategoryDependsOnCategory(t *testing.T) {
	form := NewCourseForm(nil, NewHistory("", nil), &Recorder{}, loadCategories(t))

	assert.Empty(t, form.SubCategoryOptions())

	form.SetCategory("c1")
	opts := form.SubCategoryOptions()
	require.Len(t, opts, 2)
	for _, o := range opts {
		assert.Equal(t, "c1", o.CategoryID)
	}

	form.SetSubCategory("s1")
	form.SetCategory("c1")
	assert.Equal(t, "s1", form.Values().SubCategoryID, "та же категория не сбрасывает подкатегорию")

	form.SetCategory("c2")
	assert.Empty(t, form.Values().SubCategoryID)
	assert.Equal(t, []string{"s3"}, []string{form.SubCategoryOptions()[0].ID})
}

func TestCourseForm_MismatchedPairBlocksSubmit(t *testing.T) {
	api := newFakeAPI(t, nil)
	toasts := &Recorder{}
	form := NewCourseForm(api.client(), NewHistory("", nil), toasts, loadCategories(t))
	form.SetTitle("Курс")
	form.SetCategory("c1")
	form.SetSubCategory("s3")

	errs := form.Validate()
	assert.Equal(t, msgSubCategoryMismatch, errs["subCategoryId"])
	assert.False(t, form.CanSubmit())

	_, err := form.Submit(context.Background())
	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Empty(t, api.Calls())
	assert.Empty(t, toasts.Toasts())
}

func TestCourseForm_FailureKeepsValues(t *testing.T) {
	api := newFakeAPI(t, map[string]reply{"POST /courses": {status: 500}})
	nav := NewHistory(CoursesPath, nil)
	toasts := &Recorder{}
	form := NewCourseForm(api.client(), nav, toasts, loadCategories(t))
	form.SetTitle("Курс")
	form.SetCategory("c2")
	form.SetSubCategory("s3")

	_, err := form.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, CourseValues{Title: "Курс", CategoryID: "c2", SubCategoryID: "s3"}, form.Values())
	assert.Equal(t, CoursesPath, nav.Current())
	assert.Equal(t, []Toast{{Kind: ToastError, Message: MsgSomethingWrong}}, toasts.Toasts())
	assert.False(t, form.Submitting())
}

// 2xx без data: форма не падает и не уходит со страницы.
func TestCreateForms_EmptyDataIsFailure(t *testing.T) {
	api := newFakeAPI(t, map[string]reply{
		"POST /courses":             {status: 201},
		"POST /courses/c1/sections": {status: 201},
	})
	nav := NewHistory(CoursesPath, nil)
	toasts := &Recorder{}

	course := NewCourseForm(api.client(), nav, toasts, loadCategories(t))
	course.SetTitle("Курс")
	course.SetCategory("c1")
	course.SetSubCategory("s1")
	_, err := course.Submit(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)

	section := NewSectionCreateForm(api.client(), nav, toasts, "c1")
	section.SetTitle("Введение")
	_, err = section.Submit(context.Background())
	require.ErrorAs(t, err, &apiErr)

	assert.Equal(t, CoursesPath, nav.Current())
	assert.Equal(t, []Toast{
		{Kind: ToastError, Message: MsgSomethingWrong},
		{Kind: ToastError, Message: MsgSomethingWrong},
	}, toasts.Toasts())
}

func TestCourseEditForm_CategoryChangeResetsSub(t *testing.T) {
	price := 1200.0
	course := &models.Course{ID: "c-1", Title: "Курс", CategoryID: "c1", SubCategoryID: "s2", Price: &price}
	form := NewCourseEditForm(nil, NewHistory("", nil), &Recorder{}, loadCategories(t), course)
	require.True(t, form.CanSubmit())

	form.Update(func(v *CourseEditValues) { v.Title = "Новое название" })
	assert.Equal(t, "s2", form.Values().SubCategoryID)

	form.Update(func(v *CourseEditValues) { v.CategoryID = "c2" })
	assert.Empty(t, form.Values().SubCategoryID)
	assert.False(t, form.CanSubmit())

	neg := -1.0
	form.Update(func(v *CourseEditValues) { v.SubCategoryID = "s3"; v.Price = &neg })
	assert.Equal(t, "Цена не может быть отрицательной", form.Validate()["price"])
}

func TestCourseEditForm_SubmitRefreshesThenToasts(t *testing.T) {
	api := newFakeAPI(t, map[string]reply{"PATCH /courses/c-1": {data: map[string]any{"id": "c-1"}}})
	log := &eventLog{}
	course := &models.Course{ID: "c-1", Title: "Курс", CategoryID: "c1", SubCategoryID: "s1"}
	form := NewCourseEditForm(api.client(), log, log, loadCategories(t), course)
	form.Update(func(v *CourseEditValues) { v.Description = "<p>Описание</p>" })

	require.NoError(t, form.Submit(context.Background()))
	assert.Equal(t, 1, api.countCalls("PATCH", "/courses/c-1"))
	assert.Equal(t, []string{"refresh", "success " + MsgCourseUpdated}, log.Events())
}

func TestSectionCreateForm_OpensNewSection(t *testing.T) {
	api := newFakeAPI(t, map[string]reply{
		"POST /courses/c1/sections": {status: 201, data: map[string]any{"id": "sec-9", "courseId": "c1", "title": "Введение"}},
	})
	nav := NewHistory(SectionsPath("c1"), nil)
	toasts := &Recorder{}
	form := NewSectionCreateForm(api.client(), nav, toasts, "c1")

	form.SetTitle("В")
	assert.False(t, form.CanSubmit())

	form.SetTitle("Введение")
	sec, err := form.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sec-9", sec.ID)
	assert.Equal(t, SectionPath("c1", "sec-9"), nav.Current())
	assert.Equal(t, []Toast{{Kind: ToastSuccess, Message: MsgSectionCreated}}, toasts.Toasts())
}

func TestSectionEditForm_Submit(t *testing.T) {
	api := newFakeAPI(t, map[string]reply{"POST /courses/c1/sections/s1": {data: map[string]any{"id": "s1"}}})
	nav := NewHistory(SectionPath("c1", "s1"), nil)
	toasts := &Recorder{}
	form := NewSectionEditForm(api.client(), nav, toasts, &models.Section{ID: "s1", CourseID: "c1", Title: "Введение"})

	form.Update(func(v *SectionEditValues) {
		v.VideoURL = "https://cdn.example.com/intro.mp4"
		v.IsFree = true
	})
	require.NoError(t, form.Submit(context.Background()))

	calls := api.Calls()
	require.Len(t, calls, 1)
	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(calls[0].Body), &body))
	assert.Equal(t, "https://cdn.example.com/intro.mp4", body["videoUrl"])
	assert.Equal(t, true, body["isFree"])
	assert.Equal(t, 1, nav.Refreshes())
	assert.Equal(t, []Toast{{Kind: ToastSuccess, Message: MsgSectionUpdated}}, toasts.Toasts())
}

func TestResourceForm_SubmitAndDelete(t *testing.T) {
	api := newFakeAPI(t, map[string]reply{
		"POST /courses/c1/sections/s1/resources": {status: 201, data: map[string]any{"id": "r1", "name": "Слайды"}},
	})
	log := &eventLog{}
	form := NewResourceForm(api.client(), log, log, "c1", "s1")

	form.Set("С", "")
	errs := form.Validate()
	assert.Equal(t, "Имя обязательно и должно быть длиной не менее 2 символов", errs["name"])
	assert.Equal(t, "Файл обязателен", errs["fileUrl"])

	form.Set("Слайды", " https://cdn.example.com/slides.pdf ")
	res, err := form.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "r1", res.ID)
	assert.Equal(t, ResourceValues{}, form.Values(), "форма очищается после успеха")

	require.NoError(t, form.Delete(context.Background(), "r1"))
	assert.Equal(t, 1, api.countCalls("POST", "/courses/c1/sections/s1/resources/r1"))
	assert.Equal(t, []string{
		"refresh", "success " + MsgResourceUploaded,
		"refresh", "success " + MsgResourceDeleted,
	}, log.Events())
}
