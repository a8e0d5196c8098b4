package authoring

import (
	"context"
	"errors"

	"coursestudio/internal/logger"

	"go.uber.org/zap"
)

// Target: курс или раздел курса, над которым работает контрол.
type Target struct {
	CourseID  string
	SectionID string
}

func (t Target) IsSection() bool { return t.SectionID != "" }

func (t Target) itemName() string {
	if t.IsSection() {
		return "Раздел"
	}
	return "Курс"
}

// parentPath: список, куда возвращаемся после удаления.
func (t Target) parentPath() string {
	if t.IsSection() {
		return SectionsPath(t.CourseID)
	}
	return CoursesPath
}

// refreshThenNotify перечитывает экран и показывает уведомление об успехе.
func refreshThenNotify(ctx context.Context, nav Navigator, notify Notifier, msg string) {
	if err := nav.Refresh(ctx); err != nil {
		logger.Log.Warn("Не удалось обновить экран", zap.Error(err))
	}
	notify.Success(msg)
}

// failed логирует ошибку запроса и показывает общее уведомление.
func failed(notify Notifier, what string, err error) error {
	logger.Log.Error(what, zap.Error(err))
	notify.Error(MsgSomethingWrong)
	return err
}

// PublishControl: кнопка "Опубликовать"/"Снять с публикации".
// Показываемое состояние не меняется до перечитывания экрана.
type PublishControl struct {
	client    *Client
	nav       Navigator
	notify    Notifier
	target    Target
	disabled  bool
	published bool
	act       action
}

func NewPublishControl(client *Client, nav Navigator, notify Notifier, target Target, disabled, published bool) *PublishControl {
	return &PublishControl{
		client:    client,
		nav:       nav,
		notify:    notify,
		target:    target,
		disabled:  disabled,
		published: published,
	}
}

func (p *PublishControl) IsPublished() bool { return p.published }
func (p *PublishControl) Disabled() bool    { return p.disabled }
func (p *PublishControl) Loading() bool     { return p.act.loading() }

// Enabled: disabled важнее состояния загрузки.
func (p *PublishControl) Enabled() bool { return !p.disabled && !p.Loading() }

// Label: надпись на кнопке.
func (p *PublishControl) Label() string {
	if p.published {
		return "Снять с публикации"
	}
	return "Опубликовать"
}

func (p *PublishControl) Click(ctx context.Context) error {
	if p.disabled {
		return ErrDisabled
	}
	if !p.act.begin() {
		return ErrBusy
	}
	defer p.act.end()

	var err error
	switch {
	case p.target.IsSection() && p.published:
		err = p.client.UnpublishSection(ctx, p.target.CourseID, p.target.SectionID)
	case p.target.IsSection():
		err = p.client.PublishSection(ctx, p.target.CourseID, p.target.SectionID)
	case p.published:
		err = p.client.UnpublishCourse(ctx, p.target.CourseID)
	default:
		err = p.client.PublishCourse(ctx, p.target.CourseID)
	}
	if err != nil {
		return failed(p.notify, "Не удалось изменить статус публикации", err)
	}

	refreshThenNotify(ctx, p.nav, p.notify, publishedMessage(p.target, p.published))
	return nil
}

// ErrCanceled: пользователь отказался в диалоге подтверждения.
var ErrCanceled = errors.New("действие отменено")

// Confirmer задаёт пользователю вопрос да/нет.
type Confirmer interface {
	Confirm(ctx context.Context, question string) bool
}

type ConfirmFunc func(ctx context.Context, question string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, question string) bool { return f(ctx, question) }

// DeleteControl удаляет курс или раздел после подтверждения и уводит на родительский список.
type DeleteControl struct {
	client *Client
	nav    Navigator
	notify Notifier
	target Target
	act    action
}

func NewDeleteControl(client *Client, nav Navigator, notify Notifier, target Target) *DeleteControl {
	return &DeleteControl{client: client, nav: nav, notify: notify, target: target}
}

func (d *DeleteControl) Loading() bool { return d.act.loading() }

func (d *DeleteControl) Click(ctx context.Context, confirm Confirmer) error {
	if d.Loading() {
		return ErrBusy
	}
	if !confirm.Confirm(ctx, MsgConfirmDelete) {
		return ErrCanceled
	}
	if !d.act.begin() {
		return ErrBusy
	}
	defer d.act.end()

	var err error
	if d.target.IsSection() {
		err = d.client.DeleteSection(ctx, d.target.CourseID, d.target.SectionID)
	} else {
		err = d.client.DeleteCourse(ctx, d.target.CourseID)
	}
	if err != nil {
		return failed(d.notify, "Не удалось удалить", err)
	}

	d.nav.Push(d.target.parentPath())
	refreshThenNotify(ctx, d.nav, d.notify, deletedMessage(d.target))
	return nil
}

// ProgressControl отмечает раздел пройденным для текущего зрителя или снимает отметку.
type ProgressControl struct {
	client    *Client
	nav       Navigator
	notify    Notifier
	target    Target
	completed bool
	act       action
}

func NewProgressControl(client *Client, nav Navigator, notify Notifier, courseID, sectionID string, completed bool) *ProgressControl {
	return &ProgressControl{
		client:    client,
		nav:       nav,
		notify:    notify,
		target:    Target{CourseID: courseID, SectionID: sectionID},
		completed: completed,
	}
}

func (p *ProgressControl) IsCompleted() bool { return p.completed }
func (p *ProgressControl) Loading() bool     { return p.act.loading() }

func (p *ProgressControl) Label() string {
	if p.completed {
		return "Не пройдено"
	}
	return "Пройдено"
}

func (p *ProgressControl) Click(ctx context.Context) error {
	if !p.act.begin() {
		return ErrBusy
	}
	defer p.act.end()

	if err := p.client.SetProgress(ctx, p.target.CourseID, p.target.SectionID, !p.completed); err != nil {
		return failed(p.notify, "Не удалось обновить прогресс", err)
	}
	refreshThenNotify(ctx, p.nav, p.notify, MsgProgressUpdated)
	return nil
}
