package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/Adeel3330/agile-next-sub002/internal/config"
	"github.com/Adeel3330/agile-next-sub002/internal/models"
	"github.com/Adeel3330/agile-next-sub002/internal/schema"
	"github.com/Adeel3330/agile-next-sub002/internal/storage"
	"github.com/Adeel3330/agile-next-sub002/pkg/logger"
	"github.com/Adeel3330/agile-next-sub002/pkg/response"
	"gorm.io/gorm"
)

// FileKinds lists the accepted sniffed content types per upload purpose.
type FileKinds map[string]bool

var (
	ImageKinds = FileKinds{
		"image/jpeg": true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	}
	DocumentKinds = FileKinds{
		"application/pdf": true,
		"application/msword": true,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	}
	MediaKinds = merge(ImageKinds, DocumentKinds)
)

// office formats are not recognised by content sniffing, so they are typed by
// extension when the sniffed type is a generic container.
var officeExtensions = map[string]string{
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

func merge(sets ...FileKinds) FileKinds {
	out := FileKinds{}
	for _, s := range sets {
		for k := range s {
			out[k] = true
		}
	}
	return out
}

var mediaMapper = schema.New(
	schema.Text("altText", "", "max=255"),
	schema.Text("folder", "", "max=100"),
	schema.Text("originalName", "", "max=255"),
)

// UploadInput describes one incoming file.
type UploadInput struct {
	Filename   string
	Size       int64
	Body       io.Reader
	AltText    string
	Folder     string
	UploadedBy *uint
}

// StoredFile is a file accepted by the store plus its detected type.
type StoredFile struct {
	storage.StoredObject
	MimeType string
}

type MediaService struct {
	*ResourceService[models.Media]
	store    storage.MediaStore
	maxBytes int64
	timeout  time.Duration
}

func NewMediaService(db *gorm.DB, store storage.MediaStore, cfg config.UploadConfig) *MediaService {
	return &MediaService{
		ResourceService: NewResourceService(db, ResourceOptions[models.Media]{
			Name:          "media",
			Mapper:        mediaMapper,
			SearchColumns: []string{"original_name", "alt_text", "folder"},
		}),
		store:    store,
		maxBytes: cfg.MaxBytes(),
		timeout:  cfg.Timeout(),
	}
}

// StoreFile checks size and type and hands the bytes to the media store.
func (s *MediaService) StoreFile(ctx context.Context, in UploadInput, kinds FileKinds) (*StoredFile, error) {
	if in.Size > s.maxBytes {
		return nil, response.NewBadRequest(fmt.Sprintf("file exceeds the %d MB upload limit", s.maxBytes>>20))
	}

	br := bufio.NewReaderSize(in.Body, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, response.NewBadRequest("could not read uploaded file")
	}
	if len(head) == 0 {
		return nil, response.NewBadRequest("uploaded file is empty")
	}

	mimeType := detectType(head, in.Filename)
	if !kinds[mimeType] {
		return nil, response.NewBadRequest(fmt.Sprintf("file type %s is not allowed", mimeType))
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	obj, err := s.store.Save(ctx, in.Filename, mimeType, br)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return nil, response.NewBadRequest(fmt.Sprintf("file exceeds the %d MB upload limit", s.maxBytes>>20))
		}
		return nil, response.NewServerError("failed to store file", err)
	}
	return &StoredFile{StoredObject: obj, MimeType: mimeType}, nil
}

// DiscardFile removes a stored object that ended up unreferenced.
func (s *MediaService) DiscardFile(publicID string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.store.Delete(ctx, publicID); err != nil {
		logger.Warn().Err(err).Str("public_id", publicID).Msg("[Media] failed to delete stored object")
	}
}

// Upload stores a file and records it in the media library.
func (s *MediaService) Upload(ctx context.Context, in UploadInput) (*models.Media, error) {
	stored, err := s.StoreFile(ctx, in, MediaKinds)
	if err != nil {
		return nil, err
	}

	folder := strings.TrimSpace(in.Folder)
	if folder == "" {
		folder = "general"
	}
	media := &models.Media{
		Filename:     stored.PublicID,
		OriginalName: filepath.Base(in.Filename),
		URL:          stored.URL,
		PublicID:     stored.PublicID,
		MimeType:     stored.MimeType,
		Size:         stored.Size,
		AltText:      strings.TrimSpace(in.AltText),
		Folder:       folder,
		UploadedBy:   in.UploadedBy,
	}
	if err := s.db.Create(media).Error; err != nil {
		s.DiscardFile(stored.PublicID)
		return nil, translateError(err, "media")
	}
	return media, nil
}

// Remove soft-deletes the row, then deletes the stored object. A store failure
// is logged; the row stays deleted.
func (s *MediaService) Remove(id uint) error {
	media, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.Delete(id); err != nil {
		return err
	}
	s.DiscardFile(media.PublicID)
	return nil
}

func detectType(head []byte, filename string) string {
	sniffed := http.DetectContentType(head)
	if i := strings.IndexByte(sniffed, ';'); i >= 0 {
		sniffed = sniffed[:i]
	}
	switch sniffed {
	case "application/zip", "application/octet-stream":
		if t, ok := officeExtensions[strings.ToLower(filepath.Ext(filename))]; ok {
			return t
		}
	}
	return sniffed
}
