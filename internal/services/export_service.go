package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

// ExportService archives generated CSV/KML exports to object storage, keyed
// by request ID. Archiving is best-effort; the handler logs failures and
// still returns the download.
type ExportService struct {
	Minio      *minio.Client
	BucketName string
}

// NewExportService creates a new ExportService with the given storage client.
func NewExportService(minioClient *minio.Client, bucketName string) *ExportService {
	return &ExportService{Minio: minioClient, BucketName: bucketName}
}

// Archive stores one formatted export under <request-id>/<filename>.
func (s *ExportService) Archive(id uuid.UUID, filename, contentType string, data []byte) error {
	key := fmt.Sprintf("%s/%s", id, filename)
	_, err := s.Minio.PutObject(
		context.Background(),
		s.BucketName,
		key,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return errors.Wrap(err, "failed to upload export to MinIO")
	}
	return nil
}
