package usecase

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"lupain/internal/domain/service"
	"lupain/pkg/errors"
	"lupain/pkg/logger"
)

const maxFileSize = 5 * 1024 * 1024

const presignTTL = 15 * time.Minute

var allowedContentTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

var allowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".webp": true,
}

// UploadFile is one decoded image payload, from either a multipart part or a
// base64 JSON entry.
type UploadFile struct {
	Data        []byte
	FileName    string
	ContentType string
}

type Base64Image struct {
	Data        string `json:"data"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
}

// UploadUseCase orchestrates image ingestion: parse, validate, process,
// store. Results are storage keys under the property's prefix, never URLs.
type UploadUseCase struct {
	storage   service.ObjectStorage
	processor service.ImageProcessor
	enabled   bool
}

func NewUploadUseCase(storage service.ObjectStorage, processor service.ImageProcessor, processingEnabled bool) *UploadUseCase {
	return &UploadUseCase{
		storage:   storage,
		processor: processor,
		enabled:   processingEnabled,
	}
}

// ParseMultipartForm splits an already-parsed multipart form into image files
// (parts named "images" carrying a filename) and the remaining form fields.
// Field values are JSON-decoded where possible, falling back to the raw
// string.
func (uc *UploadUseCase) ParseMultipartForm(form *multipart.Form) ([]UploadFile, map[string]interface{}, error) {
	var files []UploadFile
	for _, header := range form.File["images"] {
		if header.Filename == "" {
			continue
		}
		src, err := header.Open()
		if err != nil {
			return nil, nil, errors.BadRequest(fmt.Sprintf("Unable to read file %s", header.Filename), err)
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return nil, nil, errors.BadRequest(fmt.Sprintf("Unable to read file %s", header.Filename), err)
		}
		files = append(files, UploadFile{
			Data:        data,
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
		})
	}

	fields := make(map[string]interface{})
	for name, values := range form.Value {
		if len(values) == 0 {
			continue
		}
		var decoded interface{}
		if err := json.Unmarshal([]byte(values[0]), &decoded); err != nil {
			fields[name] = values[0]
		} else {
			fields[name] = decoded
		}
	}

	return files, fields, nil
}

// DecodeBase64Images converts JSON payload entries into upload files. A data
// URL prefix on the payload is tolerated and stripped.
func (uc *UploadUseCase) DecodeBase64Images(entries []Base64Image) ([]UploadFile, error) {
	var files []UploadFile
	for _, entry := range entries {
		raw := entry.Data
		if idx := strings.Index(raw, ";base64,"); idx >= 0 {
			raw = raw[idx+len(";base64,"):]
		}
		data, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, errors.BadRequest(fmt.Sprintf("Invalid base64 payload for %s", entry.FileName), err)
		}
		files = append(files, UploadFile{
			Data:        data,
			FileName:    entry.FileName,
			ContentType: entry.ContentType,
		})
	}
	return files, nil
}

// ValidateFile checks content type, extension and size, in that order.
func (uc *UploadUseCase) ValidateFile(file UploadFile) error {
	if _, ok := allowedContentTypes[strings.ToLower(file.ContentType)]; !ok {
		return errors.BadRequest(fmt.Sprintf("Unsupported content type %q for %s", file.ContentType, file.FileName), nil)
	}
	ext := strings.ToLower(filepath.Ext(file.FileName))
	if !allowedExtensions[ext] {
		return errors.BadRequest(fmt.Sprintf("Unsupported file extension %q for %s", ext, file.FileName), nil)
	}
	if len(file.Data) > maxFileSize {
		return errors.BadRequest(fmt.Sprintf("%s exceeds the 5MB size limit", file.FileName), nil)
	}
	return nil
}

// UploadPropertyImages validates and processes the whole batch before the
// first write, then stores each file under properties/{propertyID}/images/.
// One bad file fails the entire batch; nothing is left in the bucket in that
// case. The property record does not exist yet at upload time, so any object
// stored here and then abandoned would be unreachable by the delete sweep.
func (uc *UploadUseCase) UploadPropertyImages(ctx context.Context, propertyID string, files []UploadFile, skipProcessing bool) ([]string, error) {
	for _, file := range files {
		if err := uc.ValidateFile(file); err != nil {
			return nil, err
		}
	}

	type stagedFile struct {
		data        []byte
		contentType string
	}

	staged := make([]stagedFile, 0, len(files))
	for _, file := range files {
		data := file.Data
		contentType := file.ContentType

		if uc.enabled && !skipProcessing {
			if err := uc.processor.Validate(data); err != nil {
				return nil, err
			}
			processed, processedType, err := uc.processor.Process(data, service.ResizeSpec{})
			if err != nil {
				return nil, err
			}
			data = processed
			contentType = processedType
		}

		staged = append(staged, stagedFile{data: data, contentType: contentType})
	}

	var keys []string
	for _, file := range staged {
		ext, ok := allowedContentTypes[strings.ToLower(file.contentType)]
		if !ok {
			ext = "jpg"
		}
		key := imageKey(propertyID, ext)

		stored, err := uc.storage.PutObject(ctx, key, file.data, file.contentType)
		if err != nil {
			uc.rollback(ctx, keys)
			return nil, errors.Dependency("Failed to store image", err)
		}
		keys = append(keys, stored)
	}

	return keys, nil
}

// rollback removes objects stored earlier in a failed batch.
func (uc *UploadUseCase) rollback(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := uc.storage.DeleteObject(ctx, key); err != nil {
			logger.Warn("Failed to roll back stored image %s: %v", key, err)
		}
	}
}

// RemoveImages deletes the given keys best-effort and returns the surviving
// subset of the property's image list. Keys outside the property's prefix are
// rejected.
func (uc *UploadUseCase) RemoveImages(ctx context.Context, prefix string, current, remove []string) ([]string, error) {
	for _, key := range remove {
		if !strings.HasPrefix(key, prefix) {
			return nil, errors.BadRequest(fmt.Sprintf("Key %s does not belong to this property", key), nil)
		}
	}

	removed := make(map[string]bool, len(remove))
	for _, key := range remove {
		removed[key] = true
		if err := uc.storage.DeleteObject(ctx, key); err != nil {
			// Cleanup is best-effort; the key is still pruned from the list.
			continue
		}
	}

	var kept []string
	for _, key := range current {
		if !removed[key] {
			kept = append(kept, key)
		}
	}
	return kept, nil
}

// UploadURL issues a presigned PUT for a fresh key under the property's
// prefix.
func (uc *UploadUseCase) UploadURL(ctx context.Context, propertyID, fileName, contentType string) (string, string, error) {
	ext, ok := allowedContentTypes[strings.ToLower(contentType)]
	if !ok {
		return "", "", errors.BadRequest(fmt.Sprintf("Unsupported content type %q", contentType), nil)
	}
	if fileName != "" && !allowedExtensions[strings.ToLower(filepath.Ext(fileName))] {
		return "", "", errors.BadRequest(fmt.Sprintf("Unsupported file extension for %s", fileName), nil)
	}

	key := imageKey(propertyID, ext)
	url, err := uc.storage.PresignPut(ctx, key, contentType, presignTTL)
	if err != nil {
		return "", "", errors.Dependency("Failed to presign upload", err)
	}
	return url, key, nil
}

// ViewURL issues a presigned GET for a key that must live under the
// property's prefix.
func (uc *UploadUseCase) ViewURL(ctx context.Context, prefix, key string) (string, error) {
	if !strings.HasPrefix(key, prefix) {
		return "", errors.BadRequest("Key does not belong to this property", nil)
	}
	url, err := uc.storage.PresignGet(ctx, key, presignTTL)
	if err != nil {
		return "", errors.Dependency("Failed to presign view", err)
	}
	return url, nil
}

func imageKey(propertyID, ext string) string {
	return fmt.Sprintf("properties/%s/images/%s.%s", propertyID, uuid.New().String(), ext)
}
