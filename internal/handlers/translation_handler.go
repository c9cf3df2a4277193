package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xpanvictor/vietrans/internal/domains/translation"
	"github.com/xpanvictor/vietrans/internal/types"
	"github.com/xpanvictor/vietrans/pkg/Logger"
)

// multipart framing allowance on top of the file limit
const multipartOverhead = 1 << 20

// TranslationHandler handles the audio and text translation endpoints
type TranslationHandler struct {
	service        translation.Service
	maxUploadBytes int64
	logger         *Logger.Logger
}

// NewTranslationHandler creates a new translation handler
func NewTranslationHandler(service translation.Service, maxUploadBytes int64, logger *Logger.Logger) *TranslationHandler {
	return &TranslationHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// UploadAudio handles audio transcription and translation
// @Summary Transcribe and translate Vietnamese audio
// @Description Accepts a wav or mp3 recording, transcribes it to Vietnamese and translates the transcript to English
// @Tags Translation
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Audio file (.wav or .mp3)"
// @Success 200 {object} translation.Result "Transcription and translation"
// @Failure 400 {object} ErrorResponse "Missing file or unsupported format"
// @Failure 413 {object} ErrorResponse "File too large"
// @Failure 500 {object} ErrorResponse "Decoding or inference failed"
// @Router /api/audio/upload [post]
func (h *TranslationHandler) UploadAudio(c *gin.Context) {
	limit := h.maxUploadBytes + multipartOverhead
	if c.Request.ContentLength > limit {
		respondError(c, h.logger, types.TooLarge(h.maxUploadBytes))
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	header, err := c.FormFile("file")
	if err != nil {
		respondError(c, h.logger, h.formFileError(c, err))
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, h.logger, types.Decode(err))
		return
	}
	defer file.Close()

	result, err := h.service.ProcessAudio(c.Request.Context(), header.Filename, file)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// formFileError classifies why the "file" part could not be read.
func (h *TranslationHandler) formFileError(c *gin.Context, err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
		return types.TooLarge(h.maxUploadBytes)
	}

	// a file input submitted with nothing selected arrives as an empty
	// filename, which multipart parsing files under plain values
	if errors.Is(err, http.ErrMissingFile) && c.Request.MultipartForm != nil {
		if _, ok := c.Request.MultipartForm.Value["file"]; ok {
			return types.Validation(translation.MsgNoFileSelected)
		}
	}
	return types.Validation(translation.MsgNoFile)
}

// TranslateText handles text translation
// @Summary Translate Vietnamese text to English
// @Description Translates the given Vietnamese text; the input is echoed back unchanged as text_vi
// @Tags Translation
// @Accept json
// @Produce json
// @Param request body translation.TranslateTextRequest true "Text to translate"
// @Success 200 {object} translation.Result "Translation"
// @Failure 400 {object} ErrorResponse "Missing or empty text"
// @Failure 500 {object} ErrorResponse "Inference failed"
// @Router /api/text/translate [post]
func (h *TranslationHandler) TranslateText(c *gin.Context) {
	var req translation.TranslateTextRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == nil {
		respondError(c, h.logger, types.Validation(translation.MsgTextRequired))
		return
	}

	result, err := h.service.TranslateText(c.Request.Context(), *req.Text)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
