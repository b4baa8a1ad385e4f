package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"solven/internal/handler"
	"solven/utils"
)

// InitRouter builds API routes.
func InitRouter() *gin.Engine {
	r := gin.Default()
	r.Use(utils.CORSMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.POST("/register", handler.Register)
		api.GET("/activate", handler.Activate)
		api.POST("/login", handler.Login)

		// upload endpoints accept anonymous actors
		upload := api.Group("/upload")
		upload.Use(utils.OptionalAuthMiddleware())
		{
			upload.POST("/presign", handler.PresignUpload)
			upload.POST("/confirm", handler.ConfirmUpload)
		}

		// public views: anyone holding an id may look
		api.GET("/file/:fileID/url", handler.FileURL)
		api.GET("/folder/:folderID", handler.ViewFolder)

		auth := api.Group("")
		auth.Use(utils.AuthMiddleware())

		auth.POST("/user/setup", handler.SetupUser)

		file := auth.Group("/file")
		{
			file.GET("/list", handler.ListDashboard)
			file.POST("/delete", handler.DeleteFile)
			file.POST("/delete-all", handler.DeleteAll)
			file.POST("/download", handler.DownloadFile)
		}

		folder := auth.Group("/folder")
		{
			folder.POST("/create", handler.CreateFolder)
			folder.POST("/create-empty", handler.CreateEmptyFolder)
			folder.POST("/delete", handler.DeleteFolder)
			folder.POST("/soft-delete", handler.SoftDeleteFolder)
		}
	}
	return r
}
