package storage

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"scout/config"
	"scout/utils/types"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOClient archives scrape bundles and converted document pages.
type MinIOClient struct {
	client *minio.Client
	bucket string
}

func NewMinIOClient(cfg config.Config) (*MinIOClient, error) {
	bucket := cfg.MinIOBucket
	client, err := minio.New(
		cfg.MinIOEndpoint,
		&minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
			Secure: false,
		},
	)
	if err != nil {
		return nil, err
	}
	exists, err := client.BucketExists(context.Background(), bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}
	return &MinIOClient{client: client, bucket: bucket}, nil
}

// BundleKey derives the archive key for a scraped target URL.
func BundleKey(url string) string {
	return filepath.Join("bundles", fmt.Sprintf("%x.json", md5.Sum([]byte(url))))
}

// UploadBundle archives a scrape result bundle as JSON.
func (m *MinIOClient) UploadBundle(ctx context.Context, bundle types.ResultBundle) (string, error) {
	key := BundleKey(bundle.URL)
	if err := m.putJSON(ctx, key, bundle); err != nil {
		return "", err
	}
	return key, nil
}

// UploadDocumentSummary stores the vision analysis output for a record.
func (m *MinIOClient) UploadDocumentSummary(ctx context.Context, recordID string, summary any) (string, error) {
	key := filepath.Join("documents", recordID, "summary.json")
	if err := m.putJSON(ctx, key, summary); err != nil {
		return "", err
	}
	return key, nil
}

// UploadPageImage stores one converted document page.
func (m *MinIOClient) UploadPageImage(ctx context.Context, recordID string, page int, data []byte, contentType string) (string, error) {
	key := filepath.Join("documents", recordID, fmt.Sprintf("page-%03d.png", page))
	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return key, nil
}

// GetObject reads a stored object back.
func (m *MinIOClient) GetObject(ctx context.Context, key string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	return io.ReadAll(obj)
}

func (m *MinIOClient) putJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	return err
}
