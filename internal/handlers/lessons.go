package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coinsim/internal/content"
)

// ListLessons handles GET /api/lessons
func (a *API) ListLessons(c *gin.Context) {
	lessons := content.Lessons()
	c.JSON(http.StatusOK, gin.H{
		"lessons": lessons,
		"count":   len(lessons),
	})
}

// GetLesson handles GET /api/lessons/:id
func (a *API) GetLesson(c *gin.Context) {
	lesson, ok := content.LessonByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "lesson not found"})
		return
	}
	c.JSON(http.StatusOK, lesson)
}
