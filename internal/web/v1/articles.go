package v1

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/duynhne/newsroom-service/internal/core/domain"
	logicv1 "github.com/duynhne/newsroom-service/internal/logic/v1"
	pkgzerolog "github.com/duynhne/pkg/logger/zerolog"
	"github.com/gin-gonic/gin"
)

// ListArticles serves one page of the public feed.
// GET /api/v1/articles?limit=10&offset=0&category=3
func (h *Handler) ListArticles(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := parsePage(c)
	if err != nil {
		writeError(c, err)
		return
	}

	items, err := h.articles.List(ctx, req)
	if err != nil {
		logger := pkgzerolog.FromContext(ctx)
		logger.Error().Err(err).Msg("List articles failed")
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetArticle returns a single published article with its body.
func (h *Handler) GetArticle(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	a, err := h.articles.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// Breaking returns the whole current breaking-news set.
// GET /api/v1/breaking?window=6h
func (h *Handler) Breaking(c *gin.Context) {
	var window time.Duration
	if v := c.Query("window"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			writeError(c, fmt.Errorf("window %q: %w", v, logicv1.ErrInvalidRequest))
			return
		}
		window = d
	}

	items, err := h.articles.Breaking(c.Request.Context(), window)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// ListCategories lists browseable categories.
func (h *Handler) ListCategories(c *gin.Context) {
	cats, err := h.articles.Categories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

func parsePage(c *gin.Context) (domain.PageRequest, error) {
	var req domain.PageRequest
	var err error

	if v := c.Query("limit"); v != "" {
		if req.Limit, err = strconv.Atoi(v); err != nil {
			return req, fmt.Errorf("limit %q: %w", v, logicv1.ErrInvalidRequest)
		}
	}
	if v := c.Query("offset"); v != "" {
		if req.Offset, err = strconv.Atoi(v); err != nil {
			return req, fmt.Errorf("offset %q: %w", v, logicv1.ErrInvalidRequest)
		}
	}
	if v := c.Query("category"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return req, fmt.Errorf("category %q: %w", v, logicv1.ErrInvalidRequest)
		}
		req.CategoryID = &id
	}
	return logicv1.ValidatePage(req)
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("id %q: %w", c.Param("id"), logicv1.ErrInvalidRequest)
	}
	return id, nil
}
