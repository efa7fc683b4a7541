package models

import "io"

// UploadedFile is one part of a multipart scan request.
type UploadedFile interface {
	// Name is the client-supplied filename. It may be empty.
	Name() string
	Open() (io.ReadCloser, error)
}
