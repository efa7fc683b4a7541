package api

import (
	"io"
	"mime/multipart"
	"strings"

	"github.com/Lllllllleong/passscan/internal/models"
)

// multipartFile adapts a multipart part carrying a filename.
type multipartFile struct {
	header *multipart.FileHeader
}

func (f multipartFile) Name() string {
	return f.header.Filename
}

func (f multipartFile) Open() (io.ReadCloser, error) {
	return f.header.Open()
}

// blankFile is a "files" part sent without a filename. The multipart reader
// files it under form values, so it is carried here with an empty name.
type blankFile struct {
	value string
}

func (blankFile) Name() string {
	return ""
}

func (f blankFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(f.value)), nil
}

// uploadedFiles returns the parts of field in form, or nil if it is absent.
func uploadedFiles(form *multipart.Form, field string) []models.UploadedFile {
	var files []models.UploadedFile
	for _, header := range form.File[field] {
		files = append(files, multipartFile{header: header})
	}
	for _, value := range form.Value[field] {
		files = append(files, blankFile{value: value})
	}
	return files
}
