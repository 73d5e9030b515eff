package echo

import e "github.com/labstack/echo/v4"

func RegisterRoutes(server *e.Echo, importHandler *ImportHandler, runHandler *RunHandler) {
	api := server.Group("/api/v1/imports")
	api.POST("/students", importHandler.ImportStudents)
	api.POST("/students/preview", importHandler.PreviewStudents)
	api.GET("/:id", runHandler.GetImportRun)
}
