package stub

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const maxUploadBytes = 5 << 20

var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".docx": {},
}

func (s *server) uploadResume(c *gin.Context) {
	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "title is required"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "file is required"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Security: Invalid file format. Only PDF and DOCX permitted."})
		return
	}
	if file.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"detail": "Security: Document too large (Limit 5MB)."})
		return
	}

	r := s.store.createResume(currentUserID(c), title, strings.TrimPrefix(ext, "."))
	c.JSON(http.StatusOK, r)
}

func (s *server) listResumes(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.listResumes(currentUserID(c)))
}

func (s *server) getResume(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid resume id"})
		return
	}
	r, ok := s.store.getResume(currentUserID(c), id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Resume not found"})
		return
	}
	c.JSON(http.StatusOK, r)
}
