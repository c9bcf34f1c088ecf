package archive

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/contracts"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/models"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/pkg/constvars"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/pkg/exceptions"

	"github.com/minio/minio-go/v7"
)

type minioArchive struct {
	MinioClient *minio.Client
	BucketName  string
}

func NewMinioArchive(minioClient *minio.Client, bucketName string) contracts.TransmissionArchive {
	return &minioArchive{
		MinioClient: minioClient,
		BucketName:  bucketName,
	}
}

// ArchiveTransmission stores the serialized transmission payload under
// <case_id>/<transmission_id>.json so every outbound message can be replayed
// during an audit.
func (m *minioArchive) ArchiveTransmission(ctx context.Context, unit models.TransmissionUnit, payload []byte) error {
	objectName := fmt.Sprintf("%s/%s.json", unit.CaseID, unit.ID)
	_, err := m.MinioClient.PutObject(
		ctx,
		m.BucketName,
		objectName,
		bytes.NewReader(payload),
		int64(len(payload)),
		minio.PutObjectOptions{
			ContentType: constvars.MIMEApplicationJSON,
		},
	)
	if err != nil {
		return exceptions.ErrMinioCreateObject(err, m.BucketName)
	}
	return nil
}
