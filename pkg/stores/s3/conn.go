package s3

import (
	"bytes"
	"context"
	"io"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/theapemachine/contract-search/pkg/errors"
)

/*
Conn reads extracted agreement documents from an S3-compatible bucket.
*/
type Conn struct {
	client *minio.Client
}

type Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Region    string `mapstructure:"region"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

func NewConn(cfg Config) (*Conn, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       cfg.UseSSL,
		Region:       cfg.Region,
		BucketLookup: minio.BucketLookupPath,
	})

	if err != nil {
		return nil, errors.ErrConnectivity.Wrap(err)
	}

	return &Conn{client: client}, nil
}

/*
List returns the object keys under prefix, sorted.
*/
func (conn *Conn) List(
	ctx context.Context, bucketName, prefix string,
) ([]string, error) {
	var keys []string

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for object := range conn.client.ListObjects(ctx, bucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			log.Error("failed to list objects", "bucket", bucketName, "error", object.Err)
			return nil, errors.ErrConnectivity.Wrap(object.Err)
		}

		keys = append(keys, object.Key)
	}

	sort.Strings(keys)

	return keys, nil
}

func (conn *Conn) Get(
	ctx context.Context, bucketName, objectKey string,
) (*bytes.Buffer, error) {
	obj, err := conn.client.GetObject(ctx, bucketName, objectKey, minio.GetObjectOptions{})

	if err != nil {
		return nil, errors.ErrConnectivity.Wrap(err)
	}

	defer obj.Close()

	buf := bytes.NewBuffer([]byte{})

	if _, err := io.Copy(buf, obj); err != nil {
		return nil, errors.ErrConnectivity.Wrap(err)
	}

	return buf, nil
}
