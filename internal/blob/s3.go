// s3.go — реализация Store поверх S3-совместимого хранилища
// (AWS S3, MinIO). Подписанные ссылки — presigned GET.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Store — blob-хранилище поверх S3 API.
type S3Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// S3Options — параметры подключения к S3.
type S3Options struct {
	// Bucket — имя bucket для содержимого файлов
	Bucket string
	// Region — AWS-регион
	Region string
	// Endpoint — кастомный endpoint (MinIO, LocalStack); пустой = AWS
	Endpoint string
	// AccessKey, SecretKey — статические креды (пустые = цепочка AWS по умолчанию)
	AccessKey string
	SecretKey string
	// PathStyle — path-style адресация (требуется для MinIO)
	PathStyle bool
}

// NewS3Store создаёт blob-хранилище с новым S3-клиентом.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("загрузка AWS-конфигурации: %w", err)
	}

	s3Opts := []func(*s3.Options){}
	if opts.Endpoint != "" {
		endpoint := opts.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = &endpoint
			o.UsePathStyle = opts.PathStyle
		})
	}

	client := s3.NewFromConfig(cfg, s3Opts...)
	return NewS3StoreWithClient(client, opts.Bucket), nil
}

// NewS3StoreWithClient создаёт хранилище поверх готового клиента
// (используется в тестах).
func NewS3StoreWithClient(client *s3.Client, bucket string) *S3Store {
	return &S3Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
	}
}

// Put записывает содержимое по ключу.
func (s *S3Store) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("запись объекта %q: %w", key, err)
	}
	return nil
}

// Remove удаляет объект по ключу. Отсутствующий объект — не ошибка
// (S3 DeleteObject идемпотентен).
func (s *S3Store) Remove(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("удаление объекта %q: %w", key, err)
	}
	return nil
}

// SignedURL выдаёт presigned GET-ссылку со сроком действия ttl.
func (s *S3Store) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("подпись ссылки для %q: %w", key, err)
	}
	return req.URL, nil
}

// EnsureBucket создаёт bucket, если он ещё не существует.
// Ответы BucketAlreadyOwnedByYou/BucketAlreadyExists считаются успехом.
func (s *S3Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.BucketExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		var taken *types.BucketAlreadyExists
		if errors.As(err, &owned) || errors.As(err, &taken) {
			return nil
		}
		return fmt.Errorf("создание bucket %q: %w", s.bucket, err)
	}
	return nil
}

// BucketExists проверяет существование bucket через HeadBucket.
func (s *S3Store) BucketExists(ctx context.Context) (bool, error) {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return false, nil
		}
		return false, fmt.Errorf("проверка bucket %q: %w", s.bucket, err)
	}
	return true, nil
}

// Bucket возвращает имя настроенного bucket.
func (s *S3Store) Bucket() string {
	return s.bucket
}

// Проверка на этапе компиляции
var _ Store = (*S3Store)(nil)
