package Controllers_test

import (
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/durumcu/durumcu-app/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}
