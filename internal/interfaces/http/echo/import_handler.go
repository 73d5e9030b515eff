package echo

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	app "github.com/mohammadpnp/student-import/internal/application/student"
	domain "github.com/mohammadpnp/student-import/internal/domain/student"
	"go.uber.org/zap"
)

const uploadField = "file"

type ImportHandler struct {
	importStudents app.ImportStudentsFromCSV
	preview        app.PreviewStudentsImport
	logger         *zap.Logger
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type apiResponse struct {
	Data  any        `json:"data,omitempty"`
	Error *errorBody `json:"error,omitempty"`
}

func NewImportHandler(importStudents app.ImportStudentsFromCSV, preview app.PreviewStudentsImport, logger *zap.Logger) *ImportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportHandler{importStudents: importStudents, preview: preview, logger: logger}
}

func (h *ImportHandler) ImportStudents(c echo.Context) error {
	data, source, err := readUpload(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "bad_request",
			Message: err.Error(),
		}})
	}

	out, err := h.importStudents.Execute(c.Request().Context(), app.ImportStudentsFromCSVInput{
		CSV:      data,
		Strategy: c.QueryParam("strategy"),
		Source:   source,
	})
	if err != nil {
		return h.importError(c, err)
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *ImportHandler) PreviewStudents(c echo.Context) error {
	data, _, err := readUpload(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "bad_request",
			Message: err.Error(),
		}})
	}

	out, err := h.preview.Execute(c.Request().Context(), app.PreviewStudentsImportInput{CSV: data})
	if err != nil {
		return h.importError(c, err)
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *ImportHandler) importError(c echo.Context, err error) error {
	var dupErr *app.InternalDuplicatesError

	switch {
	case errors.Is(err, domain.ErrInvalidStrategy):
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "invalid_strategy",
			Message: "strategy must be one of skip, update, suffix",
		}})
	case errors.Is(err, app.ErrInvalidCSV):
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "invalid_csv",
			Message: err.Error(),
		}})
	case errors.As(err, &dupErr):
		return c.JSON(http.StatusConflict, apiResponse{Error: &errorBody{
			Code:    "internal_duplicates",
			Message: dupErr.Error(),
			Details: dupErr.Duplicates,
		}})
	}

	h.logger.Error("student import request failed", zap.String("path", c.Path()), zap.Error(err))
	return c.JSON(http.StatusInternalServerError, apiResponse{Error: &errorBody{
		Code:    "internal_error",
		Message: "failed to process import",
	}})
}

// readUpload accepts either a multipart form with a "file" field or the raw
// CSV as the request body.
func readUpload(c echo.Context) ([]byte, string, error) {
	req := c.Request()
	if strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		header, err := c.FormFile(uploadField)
		if err != nil {
			return nil, "", fmt.Errorf("multipart field %q is required", uploadField)
		}
		f, err := header.Open()
		if err != nil {
			return nil, "", fmt.Errorf("open upload: %w", err)
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return nil, "", fmt.Errorf("read upload: %w", err)
		}
		return data, header.Filename, nil
	}

	data, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read request body: %w", err)
	}
	return data, "request body", nil
}
