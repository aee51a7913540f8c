package controller

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
	"github.com/pastvault/asset-service/entity"
	"github.com/pastvault/asset-service/utils"
	"gorm.io/datatypes"
)

type UploadFailureKind int

const (
	FailureMissingFile UploadFailureKind = iota
	FailureMissingTitle
	FailureUnsupportedFormat
	FailureSizeExceeded
	FailureRemoteWrite
	FailurePersist
)

// UploadError is a classified upload-pipeline failure. When Kind is
// FailurePersist, a remote object was already written: PublicID names it and
// CompensationErr records whether the compensating delete succeeded (nil) or
// failed (non-nil, object orphaned until the cleanup consumer retries).
type UploadError struct {
	Kind            UploadFailureKind
	Message         string
	Err             error
	PublicID        string
	CompensationErr error
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// Status maps the failure kind to an HTTP status: validation failures are 400,
// storage and persistence failures are 500.
func (e *UploadError) Status() int {
	switch e.Kind {
	case FailureRemoteWrite, FailurePersist:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// objectStore is the slice of the object-store client the pipeline needs.
type objectStore interface {
	PutAsset(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	RemoveAsset(ctx context.Context, key string) error
}

// assetStore is the slice of the repository the pipeline needs.
type assetStore interface {
	Create(asset *entity.Asset) error
}

type uploadInput struct {
	OwnerID     uuid.UUID
	Title       string
	Description string
	Tags        []string
	IsPublic    bool
	ContentType string
	Size        int64
	Data        []byte
}

type uploadLimits struct {
	MaxFileSize int64
	Folder      string
}

// runUploadPipeline validates the input, streams the bytes to the object
// store, then persists the metadata record. The two writes are not atomic:
// when persistence fails after a successful remote write, the pipeline
// attempts a compensating remote delete and reports its outcome on the
// returned error, but the persistence failure is what the caller surfaces.
func runUploadPipeline(ctx context.Context, store objectStore, records assetStore, limits uploadLimits, in uploadInput) (*entity.Asset, *UploadError) {
	// A present-but-empty file part is rejected the same way as an absent one.
	if len(in.Data) == 0 {
		return nil, &UploadError{Kind: FailureMissingFile, Message: "Please upload a file"}
	}

	if strings.TrimSpace(in.Title) == "" {
		return nil, &UploadError{Kind: FailureMissingTitle, Message: "Please provide a title"}
	}

	if !utils.MediaTypeAllowed(in.ContentType) {
		return nil, &UploadError{
			Kind:    FailureUnsupportedFormat,
			Message: "Unsupported file format. Please upload PDF, Word, PowerPoint, image, or text files",
		}
	}

	if in.Size > limits.MaxFileSize {
		return nil, &UploadError{
			Kind:    FailureSizeExceeded,
			Message: fmt.Sprintf("File exceeds the maximum size of %s", entity.FormatBytes(limits.MaxFileSize)),
		}
	}

	var width, height int
	if utils.IsImageMediaType(in.ContentType) {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(in.Data))
		if err != nil {
			return nil, &UploadError{
				Kind:    FailureUnsupportedFormat,
				Message: "File does not decode as the declared image type",
				Err:     err,
			}
		}
		width, height = cfg.Width, cfg.Height
	}

	ext := utils.ExtensionForMediaType(in.ContentType)
	id := uuid.New()
	key := fmt.Sprintf("%s/%s/%s.%s", limits.Folder, utils.ResourceClass(in.ContentType), id, ext)

	secureURL, err := store.PutAsset(ctx, key, bytes.NewReader(in.Data), int64(len(in.Data)), in.ContentType)
	if err != nil {
		return nil, &UploadError{
			Kind:    FailureRemoteWrite,
			Message: "Failed to store the uploaded file",
			Err:     err,
		}
	}

	asset := &entity.Asset{
		ID:          id,
		PublicID:    key,
		SecureURL:   secureURL,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Tags:        datatypes.NewJSONSlice(in.Tags),
		Format:      ext,
		Width:       width,
		Height:      height,
		Size:        int64(len(in.Data)),
		OwnerID:     in.OwnerID,
		IsPublic:    in.IsPublic,
	}

	if err := records.Create(asset); err != nil {
		uploadErr := &UploadError{
			Kind:     FailurePersist,
			Message:  "Failed to save the uploaded file",
			Err:      err,
			PublicID: key,
		}
		// Best-effort compensation: the persistence error is returned either way.
		uploadErr.CompensationErr = store.RemoveAsset(ctx, key)
		return nil, uploadErr
	}

	return asset, nil
}
