package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"missioncore/internal/adapter/archive"
	"missioncore/internal/app/ports"
	"missioncore/internal/domain/ledger"
)

// ObjectAPI is the slice of the S3 client the archive needs.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type Config struct {
	Bucket          string
	Region          string
	Endpoint        string // optional; MinIO or another S3-compatible endpoint
	Prefix          string
	AccessKeyID     string // optional; falls back to the default credentials chain
	SecretAccessKey string
	PathStyle       bool
}

// Archive writes ledger chains as JSON objects under <prefix>/<ledger>/<unix-ms>.json.
type Archive struct {
	client ObjectAPI
	bucket string
	prefix string
	now    func() time.Time
}

func New(ctx context.Context, cfg Config) (*Archive, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

func NewWithClient(client ObjectAPI, bucket, prefix string) *Archive {
	return &Archive{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/"), now: time.Now}
}

func (a *Archive) Put(ctx context.Context, ledgerID string, entries []ledger.Entry) (ports.ArchiveReceipt, error) {
	at := a.now().UTC()
	doc := archive.NewDocument(ledgerID, entries, at)
	body, err := doc.Encode()
	if err != nil {
		return ports.ArchiveReceipt{}, err
	}
	key := a.key(ledgerID, at)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"ledger-id": ledgerID,
			"head":      doc.Head,
		},
	})
	if err != nil {
		return ports.ArchiveReceipt{}, fmt.Errorf("put s3://%s/%s: %w", a.bucket, key, err)
	}
	return ports.ArchiveReceipt{
		Location:   "s3://" + a.bucket + "/" + key,
		Entries:    len(entries),
		Head:       doc.Head,
		ArchivedAt: at,
	}, nil
}

// Fetch reads back an archived document by object key.
func (a *Archive) Fetch(ctx context.Context, key string) (archive.Document, error) {
	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(a.bucket), Key: aws.String(key)})
	if err != nil {
		return archive.Document{}, fmt.Errorf("get s3://%s/%s: %w", a.bucket, key, err)
	}
	defer func() { _ = out.Body.Close() }()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(out.Body); err != nil {
		return archive.Document{}, fmt.Errorf("read s3://%s/%s: %w", a.bucket, key, err)
	}
	return archive.Decode(buf.Bytes())
}

func (a *Archive) key(ledgerID string, at time.Time) string {
	name := fmt.Sprintf("%d.json", at.UnixMilli())
	if a.prefix == "" {
		return path.Join(ledgerID, name)
	}
	return path.Join(a.prefix, ledgerID, name)
}
