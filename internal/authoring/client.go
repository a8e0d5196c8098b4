// Package authoring содержит клиентскую часть авторинга курсов: HTTP-клиент, формы,
// контролы публикации, удаления и прогресса, список разделов с перестановкой и экраны.
package authoring

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"coursestudio/internal/models"

	"github.com/go-resty/resty/v2"
)

// APIError: любой ответ не из 2xx. Статус и тело не различаются для пользователя.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: статус %d", e.Status)
	}
	return fmt.Sprintf("api: статус %d: %s", e.Status, e.Message)
}

type envelope[T any] struct {
	Data  T      `json:"data"`
	Error string `json:"error"`
}

type Client struct {
	http *resty.Client
}

// NewClient: baseURL указывает на корень API ("http://host/api"), token: bearer провайдера авторизации.
func NewClient(baseURL, token string) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(30 * time.Second)
	if token != "" {
		c.SetAuthToken(token)
	}
	return &Client{http: c}
}

func call[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var (
		res  envelope[T]
		fail envelope[any]
		zero T
	)
	req := c.http.R().
		SetContext(ctx).
		SetResult(&res).
		SetError(&fail)
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return zero, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		return zero, &APIError{Status: resp.StatusCode(), Message: fail.Error}
	}
	return res.Data, nil
}

// msgEmptyResponse: сервер ответил 2xx, но без сущности в data.
const msgEmptyResponse = "пустой ответ сервера"

// callEntity как call, но пустой data считается отказом: экраны разыменовывают результат.
func callEntity[T any](ctx context.Context, c *Client, method, path string, body any) (*T, error) {
	v, err := call[*T](ctx, c, method, path, body)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, &APIError{Status: http.StatusNoContent, Message: msgEmptyResponse}
	}
	return v, nil
}

func coursePath(courseID string) string { return "/courses/" + courseID }

func sectionPath(courseID, sectionID string) string {
	return coursePath(courseID) + "/sections/" + sectionID
}

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	return call[[]models.Category](ctx, c, http.MethodGet, "/categories", nil)
}

func (c *Client) Courses(ctx context.Context) ([]models.Course, error) {
	return call[[]models.Course](ctx, c, http.MethodGet, "/courses", nil)
}

func (c *Client) Course(ctx context.Context, courseID string) (*models.Course, error) {
	return callEntity[models.Course](ctx, c, http.MethodGet, coursePath(courseID), nil)
}

func (c *Client) CreateCourse(ctx context.Context, req models.CreateCourseRequest) (*models.Course, error) {
	return callEntity[models.Course](ctx, c, http.MethodPost, "/courses", req)
}

func (c *Client) UpdateCourse(ctx context.Context, courseID string, req models.UpdateCourseRequest) (*models.Course, error) {
	return callEntity[models.Course](ctx, c, http.MethodPatch, coursePath(courseID), req)
}

func (c *Client) PublishCourse(ctx context.Context, courseID string) error {
	_, err := call[any](ctx, c, http.MethodPost, coursePath(courseID)+"/publish", nil)
	return err
}

func (c *Client) UnpublishCourse(ctx context.Context, courseID string) error {
	_, err := call[any](ctx, c, http.MethodPost, coursePath(courseID)+"/unpublish", nil)
	return err
}

func (c *Client) DeleteCourse(ctx context.Context, courseID string) error {
	_, err := call[any](ctx, c, http.MethodDelete, coursePath(courseID), nil)
	return err
}

func (c *Client) CreateSection(ctx context.Context, courseID string, req models.CreateSectionRequest) (*models.Section, error) {
	return callEntity[models.Section](ctx, c, http.MethodPost, coursePath(courseID)+"/sections", req)
}

func (c *Client) Section(ctx context.Context, courseID, sectionID string) (*models.SectionDetail, error) {
	return callEntity[models.SectionDetail](ctx, c, http.MethodGet, sectionPath(courseID, sectionID), nil)
}

func (c *Client) UpdateSection(ctx context.Context, courseID, sectionID string, req models.UpdateSectionRequest) (*models.Section, error) {
	return callEntity[models.Section](ctx, c, http.MethodPost, sectionPath(courseID, sectionID), req)
}

func (c *Client) PublishSection(ctx context.Context, courseID, sectionID string) error {
	_, err := call[any](ctx, c, http.MethodPost, sectionPath(courseID, sectionID)+"/publish", nil)
	return err
}

func (c *Client) UnpublishSection(ctx context.Context, courseID, sectionID string) error {
	_, err := call[any](ctx, c, http.MethodPost, sectionPath(courseID, sectionID)+"/unpublish", nil)
	return err
}

func (c *Client) DeleteSection(ctx context.Context, courseID, sectionID string) error {
	_, err := call[any](ctx, c, http.MethodDelete, sectionPath(courseID, sectionID), nil)
	return err
}

// ReorderSections отправляет полную перестановку: все разделы курса с позициями 0..N-1.
func (c *Client) ReorderSections(ctx context.Context, courseID string, list []models.PositionUpdate) error {
	_, err := call[any](ctx, c, http.MethodPut, coursePath(courseID)+"/sections/reorder", models.ReorderRequest{List: list})
	return err
}

func (c *Client) CreateResource(ctx context.Context, courseID, sectionID string, req models.CreateResourceRequest) (*models.Resource, error) {
	return callEntity[models.Resource](ctx, c, http.MethodPost, sectionPath(courseID, sectionID)+"/resources", req)
}

// DeleteResource удаляет материал через POST: так устроен контракт API.
func (c *Client) DeleteResource(ctx context.Context, courseID, sectionID, resourceID string) error {
	_, err := call[any](ctx, c, http.MethodPost, sectionPath(courseID, sectionID)+"/resources/"+resourceID, nil)
	return err
}

func (c *Client) SetProgress(ctx context.Context, courseID, sectionID string, completed bool) error {
	_, err := call[any](ctx, c, http.MethodPost, sectionPath(courseID, sectionID)+"/progress",
		models.ProgressRequest{IsCompleted: completed})
	return err
}

func (c *Client) Performance(ctx context.Context) (*models.PerformanceReport, error) {
	return callEntity[models.PerformanceReport](ctx, c, http.MethodGet, "/performance", nil)
}

// Upload загружает локальный файл и возвращает его публичный URL.
func (c *Client) Upload(ctx context.Context, kind, filePath string) (string, error) {
	var (
		res  envelope[map[string]string]
		fail envelope[any]
	)
	resp, err := c.http.R().
		SetContext(ctx).
		SetFile("file", filePath).
		SetFormData(map[string]string{"kind": kind}).
		SetResult(&res).
		SetError(&fail).
		Post("/uploads")
	if err != nil {
		return "", fmt.Errorf("POST /uploads: %w", err)
	}
	if resp.IsError() {
		return "", &APIError{Status: resp.StatusCode(), Message: fail.Error}
	}
	return res.Data["url"], nil
}
