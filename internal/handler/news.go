package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/msomdec/edunews/internal/domain"
	"github.com/msomdec/edunews/internal/service"
)

// NewsHandler serves the public article listing and admin article creation.
type NewsHandler struct {
	articles *service.ArticleService
}

func NewNewsHandler(articles *service.ArticleService) *NewsHandler {
	return &NewsHandler{articles: articles}
}

// HandleList returns one page of articles, newest first.
// GET /api/news?page=1&page_size=20&tag=exam&q=board
func (h *NewsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, ok := intParam(q.Get("page"), 1)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "page must be an integer.")
		return
	}
	pageSize, ok := intParam(q.Get("page_size"), service.DefaultPageSize)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "page_size must be an integer.")
		return
	}

	filter := domain.ArticleFilter{
		Tag:    strings.TrimSpace(q.Get("tag")),
		Search: strings.TrimSpace(q.Get("q")),
	}

	result, err := h.articles.List(r.Context(), filter, page, pageSize)
	if err != nil {
		writeServiceError(w, "list articles", err)
		return
	}

	writeJSON(w, http.StatusOK, toArticlePageDTO(result))
}

// HandleGet returns a single article.
// GET /api/news/{id}
func (h *NewsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Not found.")
		return
	}

	article, err := h.articles.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, "get article", err)
		return
	}

	writeJSON(w, http.StatusOK, toArticleDTO(*article))
}

// HandleCreate stores an article supplied by an administrator.
// POST /api/news
func (h *NewsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateArticleRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	article := &domain.Article{
		Title:       req.Title,
		Content:     req.Content,
		SourceURL:   req.SourceURL,
		Summary:     req.Summary,
		Tags:        req.Tags,
		PublishedAt: req.PublishedAt,
	}
	if err := h.articles.Create(r.Context(), article); err != nil {
		writeServiceError(w, "create article", err)
		return
	}

	writeJSON(w, http.StatusCreated, toArticleDTO(*article))
}

func intParam(raw string, def int) (int, bool) {
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	return n, err == nil
}
