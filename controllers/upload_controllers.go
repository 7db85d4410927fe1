package controllers

import (
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/durumcu/durumcu-app/utils"
)

const maxUploadSize = 5 << 20 // 5MB

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type UploadController struct {
	Dir string
}

func NewUploadController(dir string) *UploadController {
	return &UploadController{Dir: dir}
}

// UploadImage stores a menu image and returns its relative URL. The rest of
// the system treats that URL as an opaque string on the menu item.
func (uc *UploadController) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("no file uploaded"))
		return
	}

	if file.Size > maxUploadSize {
		utils.RespondError(c, http.StatusBadRequest, errors.New("file larger than 5MB"))
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		utils.RespondError(c, http.StatusBadRequest, errors.New("only JPEG, PNG, GIF and WebP files are allowed"))
		return
	}

	if err := os.MkdirAll(uc.Dir, 0o755); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("error creating upload directory"))
		return
	}

	filename := fmt.Sprintf("%d-%d%s", time.Now().UnixNano(), rand.Intn(1_000_000_000), ext)
	if err := c.SaveUploadedFile(file, filepath.Join(uc.Dir, filename)); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("error saving file"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, gin.H{"url": "/uploads/" + filename})
}
