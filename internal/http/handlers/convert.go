package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/subflow/internal/audio"
	"github.com/nguyentantai21042004/subflow/internal/converter"
	"github.com/nguyentantai21042004/subflow/internal/docx"
	"github.com/nguyentantai21042004/subflow/internal/http/response"
	"github.com/nguyentantai21042004/subflow/internal/logger"
	"github.com/nguyentantai21042004/subflow/internal/speech"
	"github.com/nguyentantai21042004/subflow/internal/subtitle"
)

const maxLineWidthLimit = 200

type ConvertHandler struct {
	converter converter.Converter
	logger    logger.Logger
	tempDir   string
}

func NewConvertHandler(conv converter.Converter, log logger.Logger, tempDir string) *ConvertHandler {
	return &ConvertHandler{converter: conv, logger: log, tempDir: tempDir}
}

// POST /api/convert (multipart/form-data)
// fields: "docx_file", optional "format" and "max_line_width"
func (h *ConvertHandler) Convert(c *gin.Context) {
	fh, ok := uploadedFile(c, "docx_file", ".docx")
	if !ok {
		return
	}
	req, ok := parseRequest(c)
	if !ok {
		return
	}

	data, err := readUpload(fh)
	if err != nil {
		respondUploadError(c, err)
		return
	}

	res, err := h.converter.ConvertDocument(c.Request.Context(), data, req)
	if err != nil {
		h.respondConvertError(c, fh.Filename, err)
		return
	}

	response.RespondAttachment(c, attachmentName(fh.Filename, res.Format.Ext()), res.Format.ContentType(), []byte(res.Content))
}

// POST /api/transcribe (multipart/form-data)
// fields: "audio_file", optional "format", "max_line_width" and "language"
func (h *ConvertHandler) Transcribe(c *gin.Context) {
	fh, ok := uploadedFile(c, "audio_file", "")
	if !ok {
		return
	}
	if !audio.IsSupported(fh.Filename) {
		response.RespondError(c, http.StatusBadRequest, "invalid_file_type",
			fmt.Errorf("unsupported audio file: %s", fh.Filename))
		return
	}
	req, ok := parseRequest(c)
	if !ok {
		return
	}
	req.LanguageCode = strings.TrimSpace(c.PostForm("language"))

	path, err := h.saveUpload(c, fh)
	if err != nil {
		respondUploadError(c, err)
		return
	}
	defer os.Remove(path)

	res, err := h.converter.TranscribeAudio(c.Request.Context(), path, req)
	if err != nil {
		h.respondConvertError(c, fh.Filename, err)
		return
	}

	response.RespondAttachment(c, attachmentName(fh.Filename, res.Format.Ext()), res.Format.ContentType(), []byte(res.Content))
}

// POST /api/export (multipart/form-data)
// field: "srt_file"
func (h *ConvertHandler) Export(c *gin.Context) {
	fh, ok := uploadedFile(c, "srt_file", ".srt")
	if !ok {
		return
	}

	data, err := readUpload(fh)
	if err != nil {
		respondUploadError(c, err)
		return
	}

	title := strings.TrimSuffix(filepath.Base(fh.Filename), filepath.Ext(fh.Filename))
	out, err := h.converter.ExportTranscript(c.Request.Context(), data, title)
	if err != nil {
		h.respondConvertError(c, fh.Filename, err)
		return
	}

	response.RespondAttachment(c, attachmentName(fh.Filename, ".docx"),
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document", out)
}

// uploadedFile returns the named multipart file, enforcing ext when set.
func uploadedFile(c *gin.Context, field, ext string) (*multipart.FileHeader, bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		if isTooLarge(err) {
			response.RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large", err)
			return nil, false
		}
		response.RespondError(c, http.StatusBadRequest, "missing_file", fmt.Errorf("no %s in request", field))
		return nil, false
	}
	if strings.TrimSpace(fh.Filename) == "" {
		response.RespondError(c, http.StatusBadRequest, "empty_filename", fmt.Errorf("no file selected"))
		return nil, false
	}
	if ext != "" && !strings.EqualFold(filepath.Ext(fh.Filename), ext) {
		response.RespondError(c, http.StatusBadRequest, "invalid_file_type", fmt.Errorf("only %s files are accepted", ext))
		return nil, false
	}
	return fh, true
}

func parseRequest(c *gin.Context) (converter.Request, bool) {
	var req converter.Request

	if v := c.PostForm("format"); v != "" {
		format, err := subtitle.ParseFormat(v)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_format", err)
			return req, false
		}
		req.Format = format
	}

	if v := strings.TrimSpace(c.PostForm("max_line_width")); v != "" {
		width, err := strconv.Atoi(v)
		if err != nil || width < 1 || width > maxLineWidthLimit {
			response.RespondError(c, http.StatusBadRequest, "invalid_options",
				fmt.Errorf("max_line_width must be between 1 and %d", maxLineWidthLimit))
			return req, false
		}
		req.MaxLineWidth = width
	}
	return req, true
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (h *ConvertHandler) saveUpload(c *gin.Context, fh *multipart.FileHeader) (string, error) {
	dir := h.tempDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(dir, "upload-*"+strings.ToLower(filepath.Ext(fh.Filename)))
	if err != nil {
		return "", err
	}
	path := tmp.Name()
	tmp.Close()

	if err := c.SaveUploadedFile(fh, path); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func respondUploadError(c *gin.Context, err error) {
	if isTooLarge(err) {
		response.RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large", err)
		return
	}
	response.RespondError(c, http.StatusBadRequest, "read_file_failed", err)
}

func (h *ConvertHandler) respondConvertError(c *gin.Context, filename string, err error) {
	ctx := c.Request.Context()
	var empty *subtitle.EmptyInputError

	switch {
	case errors.As(err, &empty):
		response.RespondError(c, http.StatusUnprocessableEntity, "empty_document", err)
	case errors.Is(err, docx.ErrNotDocx):
		response.RespondError(c, http.StatusBadRequest, "invalid_docx", err)
	case errors.Is(err, subtitle.ErrMalformedSRT):
		response.RespondError(c, http.StatusBadRequest, "invalid_srt", err)
	case errors.Is(err, subtitle.ErrInvalidOptions):
		response.RespondError(c, http.StatusBadRequest, "invalid_options", err)
	case errors.Is(err, speech.ErrNoBackend):
		response.RespondError(c, http.StatusServiceUnavailable, "speech_unavailable", err)
	case errors.Is(err, context.DeadlineExceeded):
		h.logger.Error(ctx, "Conversion of %s timed out: %v", filename, err)
		response.RespondError(c, http.StatusGatewayTimeout, "timeout", err)
	default:
		h.logger.Error(ctx, "Conversion of %s failed: %v", filename, err)
		response.RespondError(c, http.StatusInternalServerError, "conversion_failed", errors.New("conversion failed"))
	}
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// attachmentName swaps the upload's extension for ext.
func attachmentName(upload, ext string) string {
	base := filepath.Base(upload)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." {
		stem = "subtitles"
	}
	return stem + ext
}
