package authoring

import (
	"context"
	"errors"

	"coursestudio/internal/logger"
	"coursestudio/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Session: текущий пользователь. Передаётся явно в каждый экран.
type Session struct {
	UserID string
	Token  string
}

// SessionFromToken берёт пользователя из claim "sub" bearer-токена.
// Подпись здесь не проверяется: это делает сервер на каждом запросе.
func SessionFromToken(token string) (Session, error) {
	s := Session{Token: token}
	if token == "" {
		return s, nil
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return s, err
	}
	s.UserID = claims.Subject
	return s, nil
}

// RedirectError: экран недоступен, нужно перейти на Path.
type RedirectError struct {
	Path string
}

func (e *RedirectError) Error() string { return "требуется переход на " + e.Path }

// Guard пускает на экраны преподавателя только вошедшего пользователя.
func Guard(s Session) error {
	if s.UserID == "" {
		return &RedirectError{Path: SignInPath}
	}
	return nil
}

// IsRedirect возвращает путь, если err требует перехода.
func IsRedirect(err error) (string, bool) {
	var re *RedirectError
	if errors.As(err, &re) {
		return re.Path, true
	}
	return "", false
}

// Deps: общие зависимости экранов.
type Deps struct {
	Client *Client
	Nav    Navigator
	Notify Notifier
}

// ----- Список курсов -----

type CoursesPage struct {
	Courses []models.Course
	Create  *CourseForm
}

func LoadCoursesPage(ctx context.Context, d Deps, s Session) (*CoursesPage, error) {
	if err := Guard(s); err != nil {
		return nil, err
	}
	var (
		courses    []models.Course
		categories []models.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { courses, err = d.Client.Courses(gctx); return })
	g.Go(func() (err error) { categories, err = d.Client.Categories(gctx); return })
	if err := g.Wait(); err != nil {
		logger.Log.Error("Не удалось загрузить список курсов", zap.Error(err))
		return nil, err
	}
	return &CoursesPage{
		Courses: courses,
		Create:  NewCourseForm(d.Client, d.Nav, d.Notify, categories),
	}, nil
}

// ----- Карточка курса -----

type CoursePage struct {
	Course     *models.Course
	Completion models.Completion
	Banner     Banner
	Edit       *CourseEditForm
	Publish    *PublishControl
	Delete     *DeleteControl
}

func LoadCoursePage(ctx context.Context, d Deps, s Session, courseID string) (*CoursePage, error) {
	if err := Guard(s); err != nil {
		return nil, err
	}
	var (
		course     *models.Course
		categories []models.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { course, err = d.Client.Course(gctx, courseID); return })
	g.Go(func() (err error) { categories, err = d.Client.Categories(gctx); return })
	if err := g.Wait(); err != nil {
		logger.Log.Error("Не удалось загрузить курс", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	published := 0
	for _, sec := range course.Sections {
		if sec.IsPublished {
			published++
		}
	}
	comp := models.CourseCompletion(course, published)
	target := Target{CourseID: course.ID}

	return &CoursePage{
		Course:     course,
		Completion: comp,
		Banner:     NewBanner(comp),
		Edit:       NewCourseEditForm(d.Client, d.Nav, d.Notify, categories, course),
		Publish:    NewPublishControl(d.Client, d.Nav, d.Notify, target, !comp.IsComplete(), course.IsPublished),
		Delete:     NewDeleteControl(d.Client, d.Nav, d.Notify, target),
	}, nil
}

// ----- Разделы курса -----

type SectionsPage struct {
	Course *models.Course
	List   *SectionList
	Create *SectionCreateForm
}

// LoadSectionsPage собирает список разделов: перестановка сохраняется на сервере,
// клик по разделу открывает его редактирование.
func LoadSectionsPage(ctx context.Context, d Deps, s Session, courseID string, opts ...ListOption) (*SectionsPage, error) {
	if err := Guard(s); err != nil {
		return nil, err
	}
	course, err := d.Client.Course(ctx, courseID)
	if err != nil {
		logger.Log.Error("Не удалось загрузить разделы курса", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	onReorder := func(ctx context.Context, list []models.PositionUpdate) error {
		if err := d.Client.ReorderSections(ctx, courseID, list); err != nil {
			return failed(d.Notify, "Не удалось переупорядочить разделы", err)
		}
		d.Notify.Success(MsgSectionsReordered)
		return nil
	}
	onEdit := func(id string) { d.Nav.Push(SectionPath(courseID, id)) }

	return &SectionsPage{
		Course: course,
		List:   NewSectionList(ItemsFromSections(course.Sections), onReorder, onEdit, opts...),
		Create: NewSectionCreateForm(d.Client, d.Nav, d.Notify, courseID),
	}, nil
}

// ----- Редактирование раздела -----

type SectionEditPage struct {
	Course     *models.Course
	Section    *models.SectionDetail
	Completion models.Completion
	Banner     Banner
	Edit       *SectionEditForm
	Publish    *PublishControl
	Delete     *DeleteControl
	Resources  *ResourceForm
	Progress   *ProgressControl
}

func LoadSectionEditPage(ctx context.Context, d Deps, s Session, courseID, sectionID string) (*SectionEditPage, error) {
	if err := Guard(s); err != nil {
		return nil, err
	}
	var (
		course *models.Course
		detail *models.SectionDetail
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { course, err = d.Client.Course(gctx, courseID); return })
	g.Go(func() (err error) { detail, err = d.Client.Section(gctx, courseID, sectionID); return })
	if err := g.Wait(); err != nil {
		logger.Log.Error("Не удалось загрузить раздел", zap.String("section_id", sectionID), zap.Error(err))
		return nil, err
	}

	sec := &detail.Section
	comp := models.SectionCompletion(sec)
	target := Target{CourseID: courseID, SectionID: sectionID}

	return &SectionEditPage{
		Course:     course,
		Section:    detail,
		Completion: comp,
		Banner:     NewBanner(comp),
		Edit:       NewSectionEditForm(d.Client, d.Nav, d.Notify, sec),
		Publish:    NewPublishControl(d.Client, d.Nav, d.Notify, target, !comp.IsComplete(), sec.IsPublished),
		Delete:     NewDeleteControl(d.Client, d.Nav, d.Notify, target),
		Resources:  NewResourceForm(d.Client, d.Nav, d.Notify, courseID, sectionID),
		Progress:   NewProgressControl(d.Client, d.Nav, d.Notify, courseID, sectionID, detail.IsCompleted),
	}, nil
}

// ----- Продажи -----

type PerformancePage struct {
	Chart ChartSeries
}

func LoadPerformancePage(ctx context.Context, d Deps, s Session) (*PerformancePage, error) {
	if err := Guard(s); err != nil {
		return nil, err
	}
	report, err := d.Client.Performance(ctx)
	if err != nil {
		logger.Log.Error("Не удалось загрузить отчёт о продажах", zap.Error(err))
		return nil, err
	}
	return &PerformancePage{Chart: NewChartSeries(report)}, nil
}
