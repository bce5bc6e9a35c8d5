package api

import (
	"bytes"
	"fmt"
	"mime/multipart"
)

// File is an attachment uploaded with a multipart request.
type File struct {
	Name string
	Data []byte
}

// Form collects fields and files for endpoints that accept multipart bodies
// (maintenance photos). It encodes to a byte slice up front so a 401 replay
// re-sends the exact same payload.
type Form struct {
	fields [][2]string
	files  []formFile
}

type formFile struct {
	field string
	file  File
}

func NewForm() *Form { return &Form{} }

func (f *Form) Set(key, value string) *Form {
	f.fields = append(f.fields, [2]string{key, value})
	return f
}

func (f *Form) AddFile(field string, file File) *Form {
	f.files = append(f.files, formFile{field: field, file: file})
	return f
}

func (f *Form) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, kv := range f.fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", fmt.Errorf("encode form field %s: %w", kv[0], err)
		}
	}
	for _, ff := range f.files {
		part, err := w.CreateFormFile(ff.field, ff.file.Name)
		if err != nil {
			return nil, "", fmt.Errorf("encode form file %s: %w", ff.file.Name, err)
		}
		if _, err := part.Write(ff.file.Data); err != nil {
			return nil, "", fmt.Errorf("write form file %s: %w", ff.file.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize form: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
