package ez

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"gp-immo/internal/core/storage"
	resp "gp-immo/internal/transport/http/response"
)

// FormFiles 取 multipart 中同名的多个文件；非 multipart 请求视为空批次
func FormFiles(c *gin.Context, field string) ([]storage.File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, invalidUpload("invalid multipart form", err)
	}
	hs := form.File[field]
	out := make([]storage.File, 0, len(hs))
	for _, h := range hs {
		out = append(out, fromHeader(h))
	}
	return out, nil
}

// FormFile 可选的单个附件；没有则返回 nil
func FormFile(c *gin.Context, field string) (*storage.File, error) {
	h, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, invalidUpload("invalid attachment", err)
	}
	f := fromHeader(h)
	return &f, nil
}

// invalidUpload 超出 body 上限的保留原错误，由 Classify 映射成 413
func invalidUpload(msg string, err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return &AErr{Code: resp.CodeBadRequest, Msg: msg + ": " + err.Error(), Err: err}
}

func fromHeader(h *multipart.FileHeader) storage.File {
	return storage.File{
		Filename:    h.Filename,
		ContentType: h.Header.Get("Content-Type"),
		Size:        h.Size,
		Open:        func() (io.ReadCloser, error) { return h.Open() },
	}
}
