package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/hubfolio/hubfolio"
	"github.com/hubfolio/hubfolio/internal/domain"
	"github.com/hubfolio/hubfolio/internal/present/rest/presenter"
	"github.com/hubfolio/hubfolio/internal/service"
	"github.com/hubfolio/hubfolio/internal/usecase"
)

type Handler struct {
	config   domain.Config
	document *usecase.DocumentUsecase
	group    *usecase.GroupUsecase
	app      *usecase.AppUsecase
	variable *usecase.VariableUsecase
	report   *usecase.ReportUsecase
	signal   *service.SignalService
	counter  *service.CounterService
	redirect *service.RedirectService
	vcard    *service.VCardService
}

func NewHandler(
	config domain.Config,
	document *usecase.DocumentUsecase,
	group *usecase.GroupUsecase,
	app *usecase.AppUsecase,
	variable *usecase.VariableUsecase,
	report *usecase.ReportUsecase,
	signal *service.SignalService,
	counter *service.CounterService,
	redirect *service.RedirectService,
	vcard *service.VCardService,
) *Handler {
	return &Handler{
		config:   config,
		document: document,
		group:    group,
		app:      app,
		variable: variable,
		report:   report,
		signal:   signal,
		counter:  counter,
		redirect: redirect,
		vcard:    vcard,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/document", h.handleSaveDocument)
	e.GET("/api/v1/document/*", h.handleGetDocument)
	e.POST("/api/v1/publish/*", h.handlePublishDocument)

	e.POST("/api/v1/apps", h.handleCreateApp)
	e.GET("/api/v1/apps", h.handleListApps)
	e.DELETE("/api/v1/apps/:id", h.handleDeleteApp)
	e.POST("/api/v1/apps/:id/sync", h.handleSyncApp)

	e.PUT("/api/v1/groups", h.handleUpsertGroup)
	e.GET("/api/v1/groups", h.handleListOwnedGroups)
	e.GET("/api/v1/groups/public", h.handleListPublicGroups)
	e.GET("/api/v1/groups/:id/subtree", h.handleGroupSubtree)
	e.POST("/api/v1/groups/:id/accept", h.handleAcceptGroup)
	e.DELETE("/api/v1/groups/:id", h.handleDeleteGroup)

	e.PUT("/api/v1/variables", h.handleUpsertVariable)
	e.GET("/api/v1/variables", h.handleListVariables)
	e.DELETE("/api/v1/variables/:key", h.handleDeleteVariable)

	e.POST("/api/v1/redirects", h.handleCreateRedirect)
	e.GET("/api/v1/redirects", h.handleListRedirects)
	e.DELETE("/api/v1/redirects/:id", h.handleDeleteRedirect)

	e.GET("/api/v1/admin/report", h.handleAdminReport)

	e.GET("/p/:owner", h.handlePublicPage)
	e.GET("/p/:owner/*", h.handlePublicPage)
	e.GET("/v/:owner", h.handleVCard)
	e.GET("/r/:code", h.handleRedirect)
	e.GET("/realtime", h.handleRealtime)
}

func requesterKey(c echo.Context) (string, bool) {
	key, ok := c.Request().Context().Value(domain.RequesterKeyCtxKey).(string)
	return key, ok && key != ""
}

func requesterIsAdmin(c echo.Context) bool {
	isAdmin, ok := c.Request().Context().Value(domain.RequesterIsAdminCtxKey).(bool)
	return ok && isAdmin
}

type saveDocumentRequest struct {
	Slug   string  `json:"slug"`
	Tree   any     `json:"tree"`
	Status *string `json:"status,omitempty"`
}

func (h *Handler) handleSaveDocument(c echo.Context) error {
	ctx := c.Request().Context()

	owner, ok := requesterKey(c)
	if !ok {
		return presenter.Unauthorized(c)
	}

	var req saveDocumentRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	var status *domain.DocumentStatus
	if req.Status != nil {
		s := domain.DocumentStatus(*req.Status)
		status = &s
	}

	doc, outcome, err := h.document.Save(ctx, usecase.SaveInput{
		OwnerKey: owner,
		Slug:     req.Slug,
		Tree:     req.Tree,
		Status:   status,
	})
	if err != nil {
		return presenter.Error(c, err)
	}

	h.publishEvent(ctx, "save", owner, req.Slug)
	if doc.Status == domain.DocumentStatusPublished && status != nil {
		h.publishEvent(ctx, "publish", owner, req.Slug)
	}

	if outcome == domain.UpsertCreated {
		return presenter.Created(c, doc)
	}
	return presenter.OK(c, doc)
}

func (h *Handler) handleGetDocument(c echo.Context) error {
	ctx := c.Request().Context()

	owner, ok := requesterKey(c)
	if !ok {
		return presenter.Unauthorized(c)
	}

	doc, err := h.document.Get(ctx, owner, c.Param("*"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, doc)
}

func (h *Handler) handlePublishDocument(c echo.Context) error {
	ctx := c.Request().Context()

	owner, ok := requesterKey(c)
	if !ok {
		return presenter.Unauthorized(c)
	}

	slug := c.Param("*")
	doc, err := h.document.Publish(ctx, owner, slug)
	if err != nil {
		return presenter.Error(c, err)
	}

	h.publishEvent(ctx, "publish", owner, slug)
	return presenter.OK(c, doc)
}

type createAppRequest struct {
	Name           string  `json:"name"`
	Slug           string  `json:"slug"`
	IsTemplate     bool    `json:"isTemplate"`
	Visibility     string  `json:"visibility"`
	TemplateSource *string `json:"templateSource,omitempty"`
}

func (h *Handler) handleCreateApp(c echo.Context) error {
	ctx := c.Request().Context()

	owner, ok := requesterKey(c)
	if !ok {
		return presenter.Unauthorized(c)
	}

	var req createAppRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	app, err := h.app.Create(ctx, usecase.CreateAppInput{
		OwnerKey:       owner,
		Name:           req.Name,
		Slug:           req.Slug,
		IsTemplate:     req.IsTemplate,
		Visibility:     domain.AppVisibility(req.Visibility),
		TemplateSource: req.TemplateSource,
	})
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.Created(c, app)
}

func (h *Handler) handleListApps(c echo.Context) error {
	ctx := c.Request().Context()

	owner, ok := requesterKey(c)
	if !ok {
		return presenter.Unauthorized(c)
	}

	apps, err := h.app.List(ctx, owner)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, apps)
}

func (h *Handler) handleDeleteApp(c echo.Context) error {
	ctx := c.Request().Context()

	owner, ok := requesterKey(c)
	if !ok {
		return presenter.Unauthorized(c)
	}

	err := h.app.Delete(ctx, owner, c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleSyncApp(c echo.Context) error {
	ctx := c.Request().Context()

	owner, ok := requesterKey(c)
	if !ok {
		return presenter.Unauthorized(c)
	}

	overwrite := c.QueryParam("overwrite") == "true"

	report, err := h.app.Sync(ctx, owner, c.Param("id"), overwrite)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, report)
}

type upsertGroupRequest struct {
	Name        string `json:"name"`
	Tree        any    `json:"tree"`
	Public      bool   `json:"public"`
	AutoInclude bool   `json:"autoInclude"`
	Description string `json:"description"`
}

func (h *Handler) handleUpsertGroup(c echo.Context) error {
	ctx := c.Request().Context()

	owner, ok := requesterKey(c)
	if !ok {
		return presenter.Unauthorized(c)
	}

	var req upsertGroupRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	group, outcome, err := h.group.Upsert(ctx, usecase.GroupUpsertInput{
		OwnerKey:    &owner,
		Name:        req.Name,
		Tree:        req.Tree,
		Public:      req.Public,
		AutoInclude: req.AutoInclude,
		Description: req.Description,
	})
	if err != nil {
		return presenter.Error(c, err)
	}

	if outcome == domain.UpsertCreated {
		return presenter.Created(c, group)
	}
	return presenter.OK(c, group)
}

func (h *Handler) handleListOwnedGroups(c echo.Context) error {
	ctx := c.Request().Context()

	owner, ok := requesterKey(c)
	if !ok {
		return presenter.Unauthorized(c)
	}

	groups, err := h.group.ListOwned(ctx, owner)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, groups)
}

func (h *Handler) handleListPublicGroups(c echo.Context) error {
	groups, err := h.group.ListPublic(c.Request().Context())
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, groups)
}

func (h *Handler) handleGroupSubtree(c echo.Context) error {
	ctx := c.Request().Context()

	owner, ok := requesterKey(c)
	if !ok {
		return presenter.Unauthorized(c)
	}

	subtree, err := h.group.Subtree(ctx, owner, c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, echo.Map{"tree": subtree})
}

func (h *Handler) handleAcceptGroup(c echo.Context) error {
	ctx := c.Request().Context()

	owner, ok := requesterKey(c)
	if !ok {
		return presenter.Unauthorized(c)
	}

	clone, err := h.group.Accept(ctx, owner, c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, clone)
}

func (h *Handler) handleDeleteGroup(c echo.Context) error {
	ctx := c.Request().Context()

	owner, ok := requesterKey(c)
	if !ok {
		return presenter.Unauthorized(c)
	}

	err := h.group.Delete(ctx, owner, c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "ok"})
}

type upsertVariableRequest struct {
	Key         string  `json:"key"`
	Value       string  `json:"value"`
	Label       string  `json:"label"`
	Category    string  `json:"category"`
	Description *string `json:"description,omitempty"`
}

func (h *Handler) handleUpsertVariable(c echo.Context) error {
	ctx := c.Request().Context()

	owner, ok := requesterKey(c)
	if !ok {
		return presenter.Unauthorized(c)
	}

	var req upsertVariableRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	outcome, err := h.variable.Upsert(ctx, domain.Variable{
		UserKey:     owner,
		Key:         req.Key,
		Value:       req.Value,
		Label:       req.Label,
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		return presenter.Error(c, err)
	}

	if outcome == domain.UpsertCreated {
		return presenter.Created(c, echo.Map{"status": "ok"})
	}
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleListVariables(c echo.Context) error {
	ctx := c.Request().Context()

	owner, ok := requesterKey(c)
	if !ok {
		return presenter.Unauthorized(c)
	}

	vars, err := h.variable.List(ctx, owner)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, vars)
}

func (h *Handler) handleDeleteVariable(c echo.Context) error {
	ctx := c.Request().Context()

	owner, ok := requesterKey(c)
	if !ok {
		return presenter.Unauthorized(c)
	}

	err := h.variable.Delete(ctx, owner, c.Param("key"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "ok"})
}

type createRedirectRequest struct {
	Code      string `json:"code"`
	TargetURL string `json:"targetUrl"`
}

func (h *Handler) handleCreateRedirect(c echo.Context) error {
	ctx := c.Request().Context()

	owner, ok := requesterKey(c)
	if !ok {
		return presenter.Unauthorized(c)
	}

	var req createRedirectRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, err)
	}
	if req.Code == "" || req.TargetURL == "" {
		return presenter.BadRequestMessage(c, "code and targetUrl are required")
	}

	redirect, err := h.redirect.Create(ctx, domain.Redirect{
		ID:        uuid.NewString(),
		OwnerKey:  owner,
		Code:      req.Code,
		TargetURL: req.TargetURL,
	})
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.Created(c, redirect)
}

func (h *Handler) handleListRedirects(c echo.Context) error {
	ctx := c.Request().Context()

	owner, ok := requesterKey(c)
	if !ok {
		return presenter.Unauthorized(c)
	}

	redirects, err := h.redirect.List(ctx, owner)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, redirects)
}

func (h *Handler) handleDeleteRedirect(c echo.Context) error {
	ctx := c.Request().Context()

	owner, ok := requesterKey(c)
	if !ok {
		return presenter.Unauthorized(c)
	}

	err := h.redirect.Delete(ctx, owner, c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleAdminReport(c echo.Context) error {
	if _, ok := requesterKey(c); !ok {
		return presenter.Unauthorized(c)
	}
	if !requesterIsAdmin(c) {
		return presenter.Forbidden(c)
	}

	report, err := h.report.OwnerReport(c.Request().Context())
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, report)
}

// handlePublicPage serves the published snapshot of a page. Missing or
// unpublished pages render as the empty root rather than an error so a
// fresh profile link never 404s.
func (h *Handler) handlePublicPage(c echo.Context) error {
	ctx := c.Request().Context()

	owner := c.Param("owner")
	slug := c.Param("*")
	if slug == "" {
		slug = hubfolio.HomeSegment
	}

	tree, digest, err := h.document.GetPublic(ctx, owner, slug)
	if err != nil {
		return presenter.InternalError(c, err)
	}

	if digest != "" {
		etag := `"` + digest + `"`
		if c.Request().Header.Get("If-None-Match") == etag {
			return c.NoContent(http.StatusNotModified)
		}
		c.Response().Header().Set("ETag", etag)
	}

	h.counter.CountView(ctx, owner, slug, c.RealIP())

	return presenter.OK(c, echo.Map{"content": tree})
}

func (h *Handler) handleVCard(c echo.Context) error {
	card, err := h.vcard.Render(c.Request().Context(), c.Param("owner"))
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return c.Blob(http.StatusOK, "text/vcard; charset=utf-8", []byte(card))
}

func (h *Handler) handleRedirect(c echo.Context) error {
	ctx := c.Request().Context()

	code := c.Param("code")
	redirect, err := h.redirect.Resolve(ctx, code)
	if err != nil {
		return presenter.Error(c, err)
	}

	h.counter.CountClick(ctx, code)

	return c.Redirect(http.StatusFound, redirect.TargetURL)
}

func (h *Handler) publishEvent(ctx context.Context, eventType, owner, slug string) {
	err := h.signal.Publish(ctx, service.DocumentChannel(owner, slug), domain.Event{
		Type:      eventType,
		OwnerKey:  owner,
		Slug:      slug,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		slog.WarnContext(ctx, "Failed to publish event",
			slog.String("error", err.Error()),
			slog.String("module", "rest"),
		)
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type realtimeRequest struct {
	Type     string   `json:"type"`
	Channels []string `json:"channels"`
}

func (h *Handler) handleRealtime(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}
	defer func() {
		ws.Close()
	}()

	ctx := c.Request().Context()

	input := make(chan []string)
	defer close(input)
	output := make(chan domain.Event)
	defer close(output)

	go h.signal.Realtime(ctx, input, output)

	quit := make(chan struct{})

	go func() {
		for {
			var req realtimeRequest
			err := ws.ReadJSON(&req)
			if err != nil {

				wsErr, ok := err.(*websocket.CloseError)
				if ok {
					if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
						slog.DebugContext(
							ctx, "WebSocket closed",
							slog.String("error", wsErr.Error()),
							slog.String("module", "socket"),
						)
					}
				} else {
					slog.ErrorContext(
						ctx, "Error reading message",
						slog.String("error", err.Error()),
						slog.String("module", "socket"),
					)
				}

				quit <- struct{}{}
				break
			}

			switch req.Type {
			case "listen":
				input <- req.Channels
			case "h": // heartbeat
				// do nothing
			default:
				slog.InfoContext(
					ctx, "Unknown request type",
					slog.String("type", req.Type),
					slog.String("module", "socket"),
				)
			}
		}
	}()

	for {
		select {
		case <-quit:
			return nil
		case event := <-output:
			err := ws.WriteJSON(event)
			if err != nil {
				slog.ErrorContext(
					ctx, "Error writing message",
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
				return nil
			}
		}
	}
}
