package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/socialchef/snapchef/internal/config"
	apperrors "github.com/socialchef/snapchef/internal/errors"
	"github.com/socialchef/snapchef/internal/logger"
	"github.com/socialchef/snapchef/internal/middleware"
	"github.com/socialchef/snapchef/internal/sentry"
	"github.com/socialchef/snapchef/internal/services/ai"
	"github.com/socialchef/snapchef/internal/services/recipe"
	"github.com/socialchef/snapchef/internal/validation"
)

const (
	// maxFormOverhead leaves room for the text fields next to the image.
	maxFormOverhead    = 1 << 20
	maxAllergiesLength = 500
)

// RecipeGenerator is implemented by *recipe.Orchestrator.
type RecipeGenerator interface {
	Generate(ctx context.Context, req recipe.GenerationRequest) (*recipe.Recipe, error)
}

type Server struct {
	cfg       *config.Config
	generator RecipeGenerator
}

func NewServer(cfg *config.Config, generator RecipeGenerator) *Server {
	return &Server{
		cfg:       cfg,
		generator: generator,
	}
}

type GenerateRecipeResponse struct {
	RequestID string `json:"request_id"`
	Recipe    string `json:"recipe"`
	Model     string `json:"model"`
	Attempts  int    `json:"attempts"`
}

// HandleGenerateRecipe accepts a multipart form with an "image" file and the
// optional "diet", "difficulty" and "allergies" fields.
func (s *Server) HandleGenerateRecipe(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()
	w.Header().Set("X-Request-ID", requestID)
	ctx := r.Context()

	req, appErr := s.parseGenerationRequest(w, r)
	if appErr != nil {
		slog.InfoContext(ctx, "Rejected recipe request",
			"request_id", requestID,
			"error_code", appErr.ErrorCode,
			"error", appErr.Message,
		)
		apperrors.WriteJSON(w, appErr)
		return
	}

	userID, _ := middleware.GetUserID(ctx)
	slog.InfoContext(ctx, "Generating recipe",
		"request_id", requestID,
		"user_id", userID,
		"diet", req.Diet,
		"difficulty", req.Difficulty,
		"image_mime", req.Image.MIMEType,
		"image_bytes", len(req.Image.Data),
		logger.WithTraceContext(ctx),
	)

	rec, err := s.generator.Generate(ctx, req)
	if err != nil {
		errType := apperrors.TypeOf(err)
		slog.ErrorContext(ctx, "Recipe generation failed",
			"request_id", requestID,
			"error_type", errType,
			"error", err,
			logger.WithTraceContext(ctx),
		)
		if errType == apperrors.ErrorTypeSystemFailure {
			sentry.CaptureError(ctx, err, map[string]string{"request_id": requestID})
		}
		apperrors.WriteJSON(w, err)
		return
	}

	writeJSON(w, http.StatusOK, GenerateRecipeResponse{
		RequestID: requestID,
		Recipe:    rec.Markdown,
		Model:     rec.Model,
		Attempts:  rec.Attempts,
	})
}

func (s *Server) parseGenerationRequest(w http.ResponseWriter, r *http.Request) (recipe.GenerationRequest, *apperrors.AppError) {
	r.Body = http.MaxBytesReader(w, r.Body, validation.MaxImageSize+maxFormOverhead)
	if err := r.ParseMultipartForm(validation.MaxImageSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return recipe.GenerationRequest{}, apperrors.NewValidationError(
				"Upload is too large", "IMAGE_TOO_LARGE", "Upload an image smaller than 10 MB.")
		}
		return recipe.GenerationRequest{}, apperrors.NewValidationError(
			"Failed to parse form", "INVALID_FORM", "Send the image as multipart/form-data.")
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			slog.Warn("Failed to remove multipart temp files", "error", err)
		}
	}()

	file, _, err := r.FormFile("image")
	if err != nil {
		return recipe.GenerationRequest{}, apperrors.NewValidationError(
			"Image file required", "IMAGE_REQUIRED", "Attach a JPG or PNG photo in the \"image\" field.")
	}
	defer closeWithLog(file, "upload file")

	data, err := io.ReadAll(io.LimitReader(file, validation.MaxImageSize+1))
	if err != nil {
		return recipe.GenerationRequest{}, apperrors.NewValidationError(
			"Failed to read image", "IMAGE_UNREADABLE", "Try uploading the photo again.")
	}

	info, err := validation.ValidateImage(data)
	if err != nil {
		return recipe.GenerationRequest{}, imageError(err)
	}

	diet, err := ai.ParseDietType(r.FormValue("diet"))
	if err != nil {
		return recipe.GenerationRequest{}, apperrors.NewValidationError(
			err.Error(), "INVALID_DIET", "See GET /api/options for accepted diet types.")
	}
	difficulty, err := ai.ParseDifficulty(r.FormValue("difficulty"))
	if err != nil {
		return recipe.GenerationRequest{}, apperrors.NewValidationError(
			err.Error(), "INVALID_DIFFICULTY", "See GET /api/options for accepted difficulty levels.")
	}

	allergies := strings.TrimSpace(r.FormValue("allergies"))
	if len(allergies) > maxAllergiesLength {
		return recipe.GenerationRequest{}, apperrors.NewValidationError(
			"Allergies text is too long", "ALLERGIES_TOO_LONG", "Keep the allergy list under 500 characters.")
	}

	return recipe.GenerationRequest{
		Image:      recipe.Image{Data: data, MIMEType: info.MIMEType},
		Diet:       diet,
		Difficulty: difficulty,
		Allergies:  allergies,
	}, nil
}

func imageError(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, validation.ErrEmptyImage):
		return apperrors.NewValidationError("Image is empty", "IMAGE_EMPTY", "Attach a JPG or PNG photo.")
	case errors.Is(err, validation.ErrImageTooLarge):
		return apperrors.NewValidationError("Image is too large", "IMAGE_TOO_LARGE", "Upload an image smaller than 10 MB.")
	case errors.Is(err, validation.ErrUnsupportedImage):
		return apperrors.NewValidationError("Unsupported image format", "IMAGE_UNSUPPORTED", "Upload a JPG, PNG or GIF photo.")
	default:
		return apperrors.NewValidationError("Image could not be decoded", "IMAGE_CORRUPT", "The file looks damaged. Try another photo.")
	}
}

type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type OptionsResponse struct {
	Diets        []Option          `json:"diets"`
	Difficulties []Option          `json:"difficulties"`
	Defaults     map[string]string `json:"defaults"`
}

// HandleOptions lists the accepted preference values for UI widgets.
func (s *Server) HandleOptions(w http.ResponseWriter, r *http.Request) {
	resp := OptionsResponse{
		Diets:        make([]Option, 0, len(ai.DietTypes)),
		Difficulties: make([]Option, 0, len(ai.Difficulties)),
		Defaults: map[string]string{
			"diet":       string(ai.DefaultDiet),
			"difficulty": string(ai.DefaultDifficulty),
		},
	}
	for _, d := range ai.DietTypes {
		resp.Diets = append(resp.Diets, Option{ID: string(d), Label: d.Label()})
	}
	for _, d := range ai.Difficulties {
		resp.Difficulties = append(resp.Difficulties, Option{ID: string(d), Label: d.Label()})
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func closeWithLog(c io.Closer, label string) {
	if err := c.Close(); err != nil {
		slog.Warn("close failed", "resource", label, "error", err)
	}
}
