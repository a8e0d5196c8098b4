package authoring

import (
	"context"
	"strings"
	"sync"

	"coursestudio/internal/models"
)

// categoryPicker: пара зависимых полей: допустимые подкатегории определяются выбранной категорией.
type categoryPicker struct {
	categories []models.Category
}

func (p categoryPicker) find(categoryID string) (models.Category, bool) {
	for _, c := range p.categories {
		if c.ID == categoryID {
			return c, true
		}
	}
	return models.Category{}, false
}

func (p categoryPicker) subOptions(categoryID string) []models.SubCategory {
	c, ok := p.find(categoryID)
	if !ok {
		return nil
	}
	return append([]models.SubCategory(nil), c.SubCategories...)
}

// keepSub возвращает subID, если он допустим для новой категории, иначе "".
func (p categoryPicker) keepSub(categoryID, subID string) string {
	if c, ok := p.find(categoryID); ok && c.HasSubCategory(subID) {
		return subID
	}
	return ""
}

// checkPair: производная проверка пары категория/подкатегория, запускается при каждой валидации.
func (p categoryPicker) checkPair(errs FieldErrors, categoryID, subID string) FieldErrors {
	if categoryID == "" || subID == "" {
		return errs
	}
	c, ok := p.find(categoryID)
	if ok && c.HasSubCategory(subID) {
		return errs
	}
	if errs == nil {
		errs = FieldErrors{}
	}
	if _, exists := errs["subCategoryId"]; !exists {
		errs["subCategoryId"] = msgSubCategoryMismatch
	}
	return errs
}

// ----- Создание курса -----

type CourseValues struct {
	Title         string `json:"title" validate:"required,min=2"`
	CategoryID    string `json:"categoryId" validate:"required"`
	SubCategoryID string `json:"subCategoryId" validate:"required"`
}

type CourseForm struct {
	client *Client
	nav    Navigator
	notify Notifier
	picker categoryPicker

	mu     sync.Mutex
	values CourseValues
	act    action
}

func NewCourseForm(client *Client, nav Navigator, notify Notifier, categories []models.Category) *CourseForm {
	return &CourseForm{client: client, nav: nav, notify: notify, picker: categoryPicker{categories: categories}}
}

func (f *CourseForm) Values() CourseValues {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

func (f *CourseForm) SetTitle(title string) {
	f.mu.Lock()
	f.values.Title = title
	f.mu.Unlock()
}

// SetCategory меняет категорию и сбрасывает подкатегорию, которая ей не принадлежит.
func (f *CourseForm) SetCategory(categoryID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values.CategoryID = categoryID
	f.values.SubCategoryID = f.picker.keepSub(categoryID, f.values.SubCategoryID)
}

func (f *CourseForm) SetSubCategory(subCategoryID string) {
	f.mu.Lock()
	f.values.SubCategoryID = subCategoryID
	f.mu.Unlock()
}

func (f *CourseForm) Categories() []models.Category {
	return append([]models.Category(nil), f.picker.categories...)
}

// SubCategoryOptions: только подкатегории выбранной категории.
func (f *CourseForm) SubCategoryOptions() []models.SubCategory {
	return f.picker.subOptions(f.Values().CategoryID)
}

func (f *CourseForm) Validate() FieldErrors {
	v := f.Values()
	return f.picker.checkPair(validateStruct(v), v.CategoryID, v.SubCategoryID)
}

func (f *CourseForm) Submitting() bool { return f.act.loading() }

func (f *CourseForm) CanSubmit() bool { return len(f.Validate()) == 0 && !f.Submitting() }

// Submit создаёт курс и открывает его карточку. При ошибке значения формы сохраняются.
func (f *CourseForm) Submit(ctx context.Context) (*models.Course, error) {
	if errs := f.Validate(); len(errs) > 0 {
		return nil, errs
	}
	if !f.act.begin() {
		return nil, ErrBusy
	}
	defer f.act.end()

	v := f.Values()
	course, err := f.client.CreateCourse(ctx, models.CreateCourseRequest{
		Title:         v.Title,
		CategoryID:    v.CategoryID,
		SubCategoryID: v.SubCategoryID,
	})
	if err != nil {
		return nil, failed(f.notify, "Не удалось создать курс", err)
	}

	f.nav.Push(CourseBasicPath(course.ID))
	f.notify.Success(MsgCourseCreated)
	return course, nil
}

// ----- Редактирование курса -----

type CourseEditValues struct {
	Title         string   `json:"title" validate:"required,min=2"`
	Subtitle      string   `json:"subtitle"`
	Description   string   `json:"description"`
	CategoryID    string   `json:"categoryId" validate:"required"`
	SubCategoryID string   `json:"subCategoryId" validate:"required"`
	ImageURL      string   `json:"imageUrl"`
	Price         *float64 `json:"price" validate:"omitempty,gte=0"`
}

type CourseEditForm struct {
	client   *Client
	nav      Navigator
	notify   Notifier
	picker   categoryPicker
	courseID string

	mu     sync.Mutex
	values CourseEditValues
	act    action
}

func NewCourseEditForm(client *Client, nav Navigator, notify Notifier, categories []models.Category, course *models.Course) *CourseEditForm {
	return &CourseEditForm{
		client:   client,
		nav:      nav,
		notify:   notify,
		picker:   categoryPicker{categories: categories},
		courseID: course.ID,
		values: CourseEditValues{
			Title:         course.Title,
			Subtitle:      course.Subtitle,
			Description:   course.Description,
			CategoryID:    course.CategoryID,
			SubCategoryID: course.SubCategoryID,
			ImageURL:      course.ImageURL,
			Price:         course.Price,
		},
	}
}

func (f *CourseEditForm) Values() CourseEditValues {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Update меняет значения формы. Подкатегория, не подходящая к новой категории, сбрасывается.
func (f *CourseEditForm) Update(fn func(v *CourseEditValues)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prevCategory := f.values.CategoryID
	fn(&f.values)
	if f.values.CategoryID != prevCategory {
		f.values.SubCategoryID = f.picker.keepSub(f.values.CategoryID, f.values.SubCategoryID)
	}
}

func (f *CourseEditForm) SubCategoryOptions() []models.SubCategory {
	return f.picker.subOptions(f.Values().CategoryID)
}

func (f *CourseEditForm) Validate() FieldErrors {
	v := f.Values()
	return f.picker.checkPair(validateStruct(v), v.CategoryID, v.SubCategoryID)
}

func (f *CourseEditForm) CanSubmit() bool { return len(f.Validate()) == 0 && !f.act.loading() }

func (f *CourseEditForm) Submit(ctx context.Context) error {
	if errs := f.Validate(); len(errs) > 0 {
		return errs
	}
	if !f.act.begin() {
		return ErrBusy
	}
	defer f.act.end()

	v := f.Values()
	_, err := f.client.UpdateCourse(ctx, f.courseID, models.UpdateCourseRequest{
		Title:         &v.Title,
		Subtitle:      &v.Subtitle,
		Description:   &v.Description,
		CategoryID:    &v.CategoryID,
		SubCategoryID: &v.SubCategoryID,
		ImageURL:      &v.ImageURL,
		Price:         v.Price,
	})
	if err != nil {
		return failed(f.notify, "Не удалось обновить курс", err)
	}
	refreshThenNotify(ctx, f.nav, f.notify, MsgCourseUpdated)
	return nil
}

// ----- Создание раздела -----

type SectionCreateValues struct {
	Title string `json:"title" validate:"required,min=2"`
}

type SectionCreateForm struct {
	client   *Client
	nav      Navigator
	notify   Notifier
	courseID string

	mu     sync.Mutex
	values SectionCreateValues
	act    action
}

func NewSectionCreateForm(client *Client, nav Navigator, notify Notifier, courseID string) *SectionCreateForm {
	return &SectionCreateForm{client: client, nav: nav, notify: notify, courseID: courseID}
}

func (f *SectionCreateForm) SetTitle(title string) {
	f.mu.Lock()
	f.values.Title = title
	f.mu.Unlock()
}

func (f *SectionCreateForm) Values() SectionCreateValues {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

func (f *SectionCreateForm) Validate() FieldErrors { return validateStruct(f.Values()) }

func (f *SectionCreateForm) CanSubmit() bool { return len(f.Validate()) == 0 && !f.act.loading() }

// Submit создаёт раздел (он встаёт в конец курса) и открывает его редактирование.
func (f *SectionCreateForm) Submit(ctx context.Context) (*models.Section, error) {
	if errs := f.Validate(); len(errs) > 0 {
		return nil, errs
	}
	if !f.act.begin() {
		return nil, ErrBusy
	}
	defer f.act.end()

	section, err := f.client.CreateSection(ctx, f.courseID, models.CreateSectionRequest{Title: f.Values().Title})
	if err != nil {
		return nil, failed(f.notify, "Не удалось создать раздел", err)
	}

	f.nav.Push(SectionPath(f.courseID, section.ID))
	f.notify.Success(MsgSectionCreated)
	return section, nil
}

// ----- Редактирование раздела -----

type SectionEditValues struct {
	Title       string `json:"title" validate:"required,min=2"`
	Description string `json:"description"`
	VideoURL    string `json:"videoUrl"`
	IsFree      bool   `json:"isFree"`
}

type SectionEditForm struct {
	client    *Client
	nav       Navigator
	notify    Notifier
	courseID  string
	sectionID string

	mu     sync.Mutex
	values SectionEditValues
	act    action
}

func NewSectionEditForm(client *Client, nav Navigator, notify Notifier, section *models.Section) *SectionEditForm {
	return &SectionEditForm{
		client:    client,
		nav:       nav,
		notify:    notify,
		courseID:  section.CourseID,
		sectionID: section.ID,
		values: SectionEditValues{
			Title:       section.Title,
			Description: section.Description,
			VideoURL:    section.VideoURL,
			IsFree:      section.IsFree,
		},
	}
}

func (f *SectionEditForm) Values() SectionEditValues {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

func (f *SectionEditForm) Update(fn func(v *SectionEditValues)) {
	f.mu.Lock()
	fn(&f.values)
	f.mu.Unlock()
}

func (f *SectionEditForm) Validate() FieldErrors { return validateStruct(f.Values()) }

func (f *SectionEditForm) CanSubmit() bool { return len(f.Validate()) == 0 && !f.act.loading() }

func (f *SectionEditForm) Submit(ctx context.Context) error {
	if errs := f.Validate(); len(errs) > 0 {
		return errs
	}
	if !f.act.begin() {
		return ErrBusy
	}
	defer f.act.end()

	v := f.Values()
	_, err := f.client.UpdateSection(ctx, f.courseID, f.sectionID, models.UpdateSectionRequest{
		Title:       v.Title,
		Description: &v.Description,
		VideoURL:    &v.VideoURL,
		IsFree:      &v.IsFree,
	})
	if err != nil {
		return failed(f.notify, "Не удалось обновить раздел", err)
	}
	refreshThenNotify(ctx, f.nav, f.notify, MsgSectionUpdated)
	return nil
}

// ----- Материалы раздела -----

type ResourceValues struct {
	Name    string `json:"name" validate:"required,min=2"`
	FileURL string `json:"fileUrl" validate:"required"`
}

type ResourceForm struct {
	client    *Client
	nav       Navigator
	notify    Notifier
	courseID  string
	sectionID string

	mu     sync.Mutex
	values ResourceValues
	act    action
}

func NewResourceForm(client *Client, nav Navigator, notify Notifier, courseID, sectionID string) *ResourceForm {
	return &ResourceForm{client: client, nav: nav, notify: notify, courseID: courseID, sectionID: sectionID}
}

func (f *ResourceForm) Set(name, fileURL string) {
	f.mu.Lock()
	f.values = ResourceValues{Name: name, FileURL: strings.TrimSpace(fileURL)}
	f.mu.Unlock()
}

func (f *ResourceForm) Values() ResourceValues {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

func (f *ResourceForm) Validate() FieldErrors { return validateStruct(f.Values()) }

func (f *ResourceForm) CanSubmit() bool { return len(f.Validate()) == 0 && !f.act.loading() }

// Submit прикрепляет материал, очищает форму и перечитывает экран.
func (f *ResourceForm) Submit(ctx context.Context) (*models.Resource, error) {
	if errs := f.Validate(); len(errs) > 0 {
		return nil, errs
	}
	if !f.act.begin() {
		return nil, ErrBusy
	}
	defer f.act.end()

	v := f.Values()
	res, err := f.client.CreateResource(ctx, f.courseID, f.sectionID, models.CreateResourceRequest{Name: v.Name, FileURL: v.FileURL})
	if err != nil {
		return nil, failed(f.notify, "Не удалось добавить материал", err)
	}

	f.mu.Lock()
	f.values = ResourceValues{}
	f.mu.Unlock()

	refreshThenNotify(ctx, f.nav, f.notify, MsgResourceUploaded)
	return res, nil
}

// Delete удаляет прикреплённый материал.
func (f *ResourceForm) Delete(ctx context.Context, resourceID string) error {
	if !f.act.begin() {
		return ErrBusy
	}
	defer f.act.end()

	if err := f.client.DeleteResource(ctx, f.courseID, f.sectionID, resourceID); err != nil {
		return failed(f.notify, "Не удалось удалить материал", err)
	}
	refreshThenNotify(ctx, f.nav, f.notify, MsgResourceDeleted)
	return nil
}
