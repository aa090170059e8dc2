package v1

import (
	"net/http"

	pkgzerolog "github.com/duynhne/pkg/logger/zerolog"
	"github.com/gin-gonic/gin"
)

// Admin handlers run only behind Require, so a NotFound here is never a
// hint to an unauthorized caller.

func (h *Handler) Dashboard(c *gin.Context) {
	st, err := h.articles.Dashboard(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) AdminListArticles(c *gin.Context) {
	req, err := parsePage(c)
	if err != nil {
		writeError(c, err)
		return
	}
	items, err := h.articles.AdminList(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) PublishArticle(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := parseID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.articles.Publish(ctx, id); err != nil {
		writeError(c, err)
		return
	}

	logger := pkgzerolog.FromContext(ctx)
	logger.Info().Int64("article_id", id).Int("actor_id", principalFrom(c).ID).Msg("Article published")
	c.Status(http.StatusNoContent)
}

func (h *Handler) DeleteArticle(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := parseID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.articles.Delete(ctx, id); err != nil {
		writeError(c, err)
		return
	}

	logger := pkgzerolog.FromContext(ctx)
	logger.Info().Int64("article_id", id).Int("actor_id", principalFrom(c).ID).Msg("Article deleted")
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListUsers(c *gin.Context) {
	staff, err := h.articles.Staff(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}

func (h *Handler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.settings)
}
