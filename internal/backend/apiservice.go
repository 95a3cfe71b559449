package backend

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/jo-hoe/gobeautify/internal/backend/database"
	"github.com/jo-hoe/gobeautify/internal/core"
	"github.com/labstack/echo/v4"
)

const (
	uploadSuccessMessage   = "Image uploaded to MongoDB!"
	beautifySuccessMessage = "Beautified images"

	uploadFailedMessage   = "Failed to upload image"
	imageNotFoundMessage  = "Image not found"
	retrieveFailedMessage = "Failed to retrieve image"
	beautifyFailedMessage = "Failed to beautify image"

	// used when the multipart part carries no Content-Type header
	fallbackContentType = "application/octet-stream"
)

type APIService struct {
	coreService *core.CoreService
}

type imageIDRequest struct {
	ID string `param:"id" validate:"required,len=24,hexadecimal"`
}

type uploadResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type beautifyResponse struct {
	Message string   `json:"message"`
	Images  []string `json:"images"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewAPIService(coreService *core.CoreService) *APIService {
	return &APIService{
		coreService: coreService,
	}
}

func (s *APIService) SetRoutes(e *echo.Echo) {
	e.GET(ProbePath, func(c echo.Context) error {
		return c.String(http.StatusOK, "API Service is running")
	})

	e.POST("/upload", s.uploadImageHandler)
	e.GET("/image/:id", s.getImageHandler)
	e.POST("/beautify/:id", s.beautifyImageHandler)
}

func (s *APIService) uploadImageHandler(ctx echo.Context) error {
	file, err := ctx.FormFile("image")
	if err != nil {
		slog.Error("uploadImageHandler: failed to get uploaded file",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.JSON(http.StatusInternalServerError, errorResponse{Error: uploadFailedMessage})
	}

	src, err := file.Open()
	if err != nil {
		slog.Error("uploadImageHandler: failed to open uploaded file",
			"status", http.StatusInternalServerError, "error", err, "filename", file.Filename)
		return ctx.JSON(http.StatusInternalServerError, errorResponse{Error: uploadFailedMessage})
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			slog.Error("uploadImageHandler: failed to close uploaded file reader", "error", cerr, "filename", file.Filename)
		}
	}()

	data, err := io.ReadAll(src)
	if err != nil {
		slog.Error("uploadImageHandler: failed to read uploaded file",
			"status", http.StatusInternalServerError, "error", err, "filename", file.Filename)
		return ctx.JSON(http.StatusInternalServerError, errorResponse{Error: uploadFailedMessage})
	}

	contentType := file.Header.Get(echo.HeaderContentType)
	if contentType == "" {
		contentType = fallbackContentType
	}

	id, err := s.coreService.AddImage(ctx.Request().Context(), file.Filename, data, contentType)
	if err != nil {
		slog.Error("uploadImageHandler: failed to store uploaded image",
			"status", http.StatusInternalServerError, "error", err, "filename", file.Filename)
		return ctx.JSON(http.StatusInternalServerError, errorResponse{Error: uploadFailedMessage})
	}

	return ctx.JSON(http.StatusOK, uploadResponse{Message: uploadSuccessMessage, ID: id})
}

func (s *APIService) getImageHandler(ctx echo.Context) error {
	id, ok := s.bindImageID(ctx, "getImageHandler")
	if !ok {
		return ctx.JSON(http.StatusNotFound, errorResponse{Error: imageNotFoundMessage})
	}

	record, err := s.coreService.GetImageByID(ctx.Request().Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		slog.Warn("getImageHandler: image not found", "status", http.StatusNotFound, "image_id", id)
		return ctx.JSON(http.StatusNotFound, errorResponse{Error: imageNotFoundMessage})
	}
	if err != nil {
		slog.Error("getImageHandler: failed to retrieve image",
			"status", http.StatusInternalServerError, "image_id", id, "error", err)
		return ctx.JSON(http.StatusInternalServerError, errorResponse{Error: retrieveFailedMessage})
	}

	return ctx.Blob(http.StatusOK, record.ContentType, record.Data)
}

func (s *APIService) beautifyImageHandler(ctx echo.Context) error {
	id, ok := s.bindImageID(ctx, "beautifyImageHandler")
	if !ok {
		return ctx.JSON(http.StatusNotFound, errorResponse{Error: imageNotFoundMessage})
	}

	outputs, err := s.coreService.BeautifyImage(ctx.Request().Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		slog.Warn("beautifyImageHandler: image not found", "status", http.StatusNotFound, "image_id", id)
		return ctx.JSON(http.StatusNotFound, errorResponse{Error: imageNotFoundMessage})
	}
	if err != nil {
		slog.Error("beautifyImageHandler: failed to beautify image",
			"status", http.StatusInternalServerError, "image_id", id, "error", err)
		return ctx.JSON(http.StatusInternalServerError, errorResponse{Error: beautifyFailedMessage})
	}

	images := make([]string, 0, len(outputs))
	for _, output := range outputs {
		images = append(images, core.ToDataURI(output))
	}
	return ctx.JSON(http.StatusOK, beautifyResponse{Message: beautifySuccessMessage, Images: images})
}

// bindImageID reads the :id path parameter. A malformed id can never resolve, so callers answer it like an unknown one.
func (s *APIService) bindImageID(ctx echo.Context, handlerName string) (string, bool) {
	var request imageIDRequest
	if err := (&echo.DefaultBinder{}).BindPathParams(ctx, &request); err != nil {
		slog.Warn(handlerName+": failed to bind image id", "status", http.StatusNotFound, "error", err)
		return "", false
	}
	if err := ctx.Validate(&request); err != nil {
		slog.Warn(handlerName+": invalid image id", "status", http.StatusNotFound, "image_id", request.ID, "error", err)
		return "", false
	}
	return request.ID, true
}
