package usecase

import (
	"bytes"
	"context"
	"encoding/base64"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lupain/pkg/errors"
)

func jpegFile(name string, size int) UploadFile {
	return UploadFile{
		Data:        bytes.Repeat([]byte{0xFF}, size),
		FileName:    name,
		ContentType: "image/jpeg",
	}
}

func TestValidateFile(t *testing.T) {
	uc := NewUploadUseCase(newFakeStorage(), &fakeProcessor{}, false)

	tests := []struct {
		name    string
		file    UploadFile
		wantErr bool
	}{
		{"valid jpeg", jpegFile("photo.jpg", 1024), false},
		{"valid at size limit", jpegFile("photo.jpg", 5*1024*1024), false},
		{"one byte over limit", jpegFile("photo.jpg", 5*1024*1024+1), true},
		{"gif content type", UploadFile{Data: []byte("x"), FileName: "photo.gif", ContentType: "image/gif"}, true},
		{"gif content type with jpg name", UploadFile{Data: []byte("x"), FileName: "photo.jpg", ContentType: "image/gif"}, true},
		{"bad extension", UploadFile{Data: []byte("x"), FileName: "photo.bmp", ContentType: "image/jpeg"}, true},
		{"webp ok", UploadFile{Data: []byte("x"), FileName: "photo.webp", ContentType: "image/webp"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := uc.ValidateFile(tt.file)
			if tt.wantErr {
				require.Error(t, err)
				appErr, ok := err.(*errors.AppError)
				require.True(t, ok)
				assert.Equal(t, 400, appErr.Status)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUploadPropertyImagesKeysAndPrefix(t *testing.T) {
	storage := newFakeStorage()
	uc := NewUploadUseCase(storage, &fakeProcessor{}, true)

	keys, err := uc.UploadPropertyImages(context.Background(), "prop-1", []UploadFile{
		jpegFile("a.jpg", 100),
		jpegFile("b.jpg", 100),
	}, false)
	require.NoError(t, err)
	require.Len(t, keys, 2)

	for _, key := range keys {
		assert.True(t, strings.HasPrefix(key, "properties/prop-1/images/"), key)
		assert.True(t, strings.HasSuffix(key, ".jpg"), key)
	}
	assert.NotEqual(t, keys[0], keys[1])

	stored, err := storage.ListObjects(context.Background(), "properties/prop-1/images/")
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestUploadPropertyImagesBatchFailsAsAWhole(t *testing.T) {
	storage := newFakeStorage()
	uc := NewUploadUseCase(storage, &fakeProcessor{}, true)

	_, err := uc.UploadPropertyImages(context.Background(), "prop-1", []UploadFile{
		jpegFile("good.jpg", 100),
		{Data: []byte("x"), FileName: "bad.gif", ContentType: "image/gif"},
	}, false)
	require.Error(t, err)

	// The valid file must not have been stored either.
	stored, err := storage.ListObjects(context.Background(), "properties/")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestUploadPropertyImagesProcessingFailureStoresNothing(t *testing.T) {
	storage := newFakeStorage()
	uc := NewUploadUseCase(storage, &fakeProcessor{failOnCall: 2}, true)

	// Both files pass MIME validation; the pipeline rejects the second one.
	// The first must not have reached the bucket.
	_, err := uc.UploadPropertyImages(context.Background(), "prop-1", []UploadFile{
		jpegFile("first.jpg", 100),
		jpegFile("second.jpg", 100),
	}, false)
	require.Error(t, err)

	stored, err := storage.ListObjects(context.Background(), "properties/prop-1/images/")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestUploadPropertyImagesStorageFailureRollsBack(t *testing.T) {
	storage := newFakeStorage()
	storage.failPutOn = 2
	uc := NewUploadUseCase(storage, &fakeProcessor{}, true)

	_, err := uc.UploadPropertyImages(context.Background(), "prop-1", []UploadFile{
		jpegFile("first.jpg", 100),
		jpegFile("second.jpg", 100),
	}, false)
	require.Error(t, err)

	// The object stored before the failure was swept back out.
	stored, err := storage.ListObjects(context.Background(), "properties/prop-1/images/")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestUploadPropertyImagesSkipProcessing(t *testing.T) {
	storage := newFakeStorage()
	processor := &fakeProcessor{validateErr: errors.BadRequest("not an image", nil)}
	uc := NewUploadUseCase(storage, processor, true)

	// With processing skipped, the failing processor never runs.
	keys, err := uc.UploadPropertyImages(context.Background(), "prop-1", []UploadFile{
		jpegFile("a.jpg", 100),
	}, true)
	require.NoError(t, err)
	assert.Len(t, keys, 1)

	_, err = uc.UploadPropertyImages(context.Background(), "prop-1", []UploadFile{
		jpegFile("b.jpg", 100),
	}, false)
	require.Error(t, err)
}

func TestParseMultipartForm(t *testing.T) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("images", "photo.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake image bytes"))
	require.NoError(t, err)

	require.NoError(t, writer.WriteField("title", "Modern Office Space"))
	require.NoError(t, writer.WriteField("price", "45000"))
	require.NoError(t, writer.WriteField("location", `{"address":"12 Ayala Ave","city":"Makati"}`))
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	defer form.RemoveAll()

	uc := NewUploadUseCase(newFakeStorage(), &fakeProcessor{}, false)
	files, fields, err := uc.ParseMultipartForm(form)
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, "photo.jpg", files[0].FileName)
	assert.Equal(t, []byte("fake image bytes"), files[0].Data)

	// Plain strings stay strings, JSON values are decoded.
	assert.Equal(t, "Modern Office Space", fields["title"])
	assert.Equal(t, float64(45000), fields["price"])
	location, ok := fields["location"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Makati", location["city"])
}

func TestDecodeBase64Images(t *testing.T) {
	uc := NewUploadUseCase(newFakeStorage(), &fakeProcessor{}, false)

	payload := base64.StdEncoding.EncodeToString([]byte("image bytes"))

	files, err := uc.DecodeBase64Images([]Base64Image{
		{Data: payload, FileName: "plain.jpg", ContentType: "image/jpeg"},
		{Data: "data:image/png;base64," + payload, FileName: "dataurl.png", ContentType: "image/png"},
	})
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, []byte("image bytes"), files[0].Data)
	assert.Equal(t, []byte("image bytes"), files[1].Data)

	_, err = uc.DecodeBase64Images([]Base64Image{
		{Data: "not base64 at all!!!", FileName: "bad.jpg"},
	})
	require.Error(t, err)
}

func TestRemoveImages(t *testing.T) {
	storage := newFakeStorage()
	uc := NewUploadUseCase(storage, &fakeProcessor{}, false)

	prefix := "properties/prop-1/images/"
	keyA := prefix + "a.jpg"
	keyB := prefix + "b.jpg"
	_, err := storage.PutObject(context.Background(), keyA, []byte("a"), "image/jpeg")
	require.NoError(t, err)
	_, err = storage.PutObject(context.Background(), keyB, []byte("b"), "image/jpeg")
	require.NoError(t, err)

	kept, err := uc.RemoveImages(context.Background(), prefix, []string{keyA, keyB}, []string{keyA})
	require.NoError(t, err)
	assert.Equal(t, []string{keyB}, kept)

	_, err = storage.GetObject(context.Background(), keyA)
	assert.Error(t, err)
	_, err = storage.GetObject(context.Background(), keyB)
	assert.NoError(t, err)

	// A key outside the property's namespace is rejected outright.
	_, err = uc.RemoveImages(context.Background(), prefix, []string{keyB}, []string{"properties/other/images/x.jpg"})
	require.Error(t, err)
}

func TestUploadAndViewURLs(t *testing.T) {
	uc := NewUploadUseCase(newFakeStorage(), &fakeProcessor{}, false)

	url, key, err := uc.UploadURL(context.Background(), "prop-1", "photo.png", "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "properties/prop-1/images/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.NotEmpty(t, url)

	_, _, err = uc.UploadURL(context.Background(), "prop-1", "clip.mp4", "video/mp4")
	require.Error(t, err)

	viewURL, err := uc.ViewURL(context.Background(), "properties/prop-1/images/", key)
	require.NoError(t, err)
	assert.NotEmpty(t, viewURL)

	_, err = uc.ViewURL(context.Background(), "properties/prop-1/images/", "properties/other/images/x.jpg")
	require.Error(t, err)
}
