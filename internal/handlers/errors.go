package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xpanvictor/vietrans/internal/domains/translation"
	"github.com/xpanvictor/vietrans/internal/types"
	"github.com/xpanvictor/vietrans/pkg/Logger"
)

const msgFileTooLarge = "file too large"

// Vietnamese wording shown by the web client, carried in details.
var vietnameseDetails = map[string]string{
	translation.MsgNoFile:            "Không tìm thấy file audio",
	translation.MsgNoFileSelected:    "Không có file được chọn",
	translation.MsgUnsupportedFormat: "Định dạng file không được hỗ trợ",
	translation.MsgTextRequired:      "Không tìm thấy văn bản cần dịch",
	translation.MsgTextEmpty:         "Văn bản không được để trống",
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(err error) int {
	switch types.KindOf(err) {
	case types.KindValidation:
		return http.StatusBadRequest
	case types.KindTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// respondError is the single place errors become HTTP responses.
func respondError(c *gin.Context, logger *Logger.Logger, err error) {
	status := StatusFor(err)
	resp := ErrorResponse{Error: err.Error()}

	switch types.KindOf(err) {
	case types.KindValidation:
		resp.Details = vietnameseDetails[resp.Error]
		logger.Debugw("request rejected", "request_id", requestID(c), "path", c.FullPath(), "error", err)
	case types.KindTooLarge:
		resp = ErrorResponse{Error: msgFileTooLarge, Details: err.Error()}
		logger.Warnw("request rejected", "request_id", requestID(c), "path", c.FullPath(), "error", err)
	default:
		logger.Errorw("request failed", "request_id", requestID(c), "path", c.FullPath(), "kind", types.KindOf(err), "error", err)
	}

	c.AbortWithStatusJSON(status, resp)
}
