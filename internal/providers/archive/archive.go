// Package archive copies issued quotations to S3-compatible object storage.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/smallbiznis/quoteflow/internal/config"
	"github.com/smallbiznis/quoteflow/internal/providers/pdf"
	quotationdomain "github.com/smallbiznis/quoteflow/internal/quotation/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Provider interface {
	Store(ctx context.Context, q quotationdomain.Quotation, document []byte) error
}

type NoOpProvider struct{}

func (p *NoOpProvider) Store(ctx context.Context, q quotationdomain.Quotation, document []byte) error {
	return nil
}

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Provider struct {
	client objectPutter
	bucket string
	prefix string
	log    *zap.Logger
}

type Params struct {
	fx.In

	Config config.Config
	Log    *zap.Logger
}

func NewFromConfig(p Params) (Provider, error) {
	cfg := p.Config.Archive
	if !cfg.Enabled() {
		return &NoOpProvider{}, nil
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			o.UsePathStyle = true
		}
	})

	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("archive.s3")
	log.Info("quotation archive enabled", zap.String("bucket", cfg.Bucket))
	return newS3Provider(client, cfg.Bucket, cfg.Prefix, log), nil
}

func newS3Provider(client objectPutter, bucket, prefix string, log *zap.Logger) *S3Provider {
	return &S3Provider{client: client, bucket: bucket, prefix: prefix, log: log}
}

// ObjectKeys returns the keys of the JSON snapshot and the PDF document,
// grouped by issue month.
func ObjectKeys(prefix string, q quotationdomain.Quotation) (string, string) {
	dir := path.Join(prefix, q.IssuedAt.UTC().Format("2006/01"))
	return path.Join(dir, q.ID+".json"), path.Join(dir, pdf.FileName(q))
}

func (p *S3Provider) Store(ctx context.Context, q quotationdomain.Quotation, document []byte) error {
	snapshot, err := json.Marshal(q)
	if err != nil {
		return err
	}
	jsonKey, pdfKey := ObjectKeys(p.prefix, q)

	if err := p.put(ctx, jsonKey, "application/json", snapshot); err != nil {
		return err
	}
	if len(document) > 0 {
		if err := p.put(ctx, pdfKey, "application/pdf", document); err != nil {
			return err
		}
	}
	p.log.Debug("quotation archived",
		zap.String("quotation_id", q.ID),
		zap.String("key", jsonKey),
	)
	return nil
}

func (p *S3Provider) put(ctx context.Context, key, contentType string, body []byte) error {
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

var Module = fx.Module("providers.archive",
	fx.Provide(NewFromConfig),
)
