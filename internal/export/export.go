// ABOUTME: Exports a user's notes as a JSON document to S3-compatible storage
// ABOUTME: Returns a presigned GET URL so the owner can download the export

package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/2389/notes-gateway/internal/store"
)

// DefaultURLExpiry is how long a presigned download link stays valid
const DefaultURLExpiry = 15 * time.Minute

// loadAWSConfig is a seam for testing config.LoadDefaultConfig
var loadAWSConfig = awsconfig.LoadDefaultConfig

// Config holds the object storage settings
type Config struct {
	Bucket          string
	Region          string
	Endpoint        string // optional, for MinIO and other S3-compatible stores
	AccessKeyID     string // optional, falls back to the default credential chain
	SecretAccessKey string
	UsePathStyle    bool
	URLExpiry       time.Duration
}

// ObjectPutter uploads objects
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// GetPresigner produces presigned download requests
type GetPresigner interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// NoteLister returns a single owner's notes in display order
type NoteLister interface {
	List(ctx context.Context, ownerID string) ([]*store.Note, error)
}

// Result describes a completed export
type Result struct {
	Key       string
	URL       string
	Count     int
	ExpiresAt time.Time
}

// Exporter writes note exports to a bucket
type Exporter struct {
	bucket    string
	urlExpiry time.Duration
	putter    ObjectPutter
	presigner GetPresigner
	notes     NoteLister
	now       func() time.Time
	logger    *slog.Logger
}

// New builds an Exporter backed by an S3 client created from cfg
func New(ctx context.Context, cfg Config, notes NoteLister, logger *slog.Logger) (*Exporter, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("export bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := loadAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return NewWithClients(cfg, client, s3.NewPresignClient(client), notes, logger), nil
}

// NewWithClients builds an Exporter from explicit clients
func NewWithClients(cfg Config, putter ObjectPutter, presigner GetPresigner, notes NoteLister, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = DefaultURLExpiry
	}
	return &Exporter{
		bucket:    cfg.Bucket,
		urlExpiry: expiry,
		putter:    putter,
		presigner: presigner,
		notes:     notes,
		now:       time.Now,
		logger:    logger.With("component", "export"),
	}
}

type document struct {
	UserID     string       `json:"userId"`
	ExportedAt time.Time    `json:"exportedAt"`
	Notes      []exportNote `json:"notes"`
}

type exportNote struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	IsPinned  bool      `json:"isPinned"`
	CreatedOn time.Time `json:"createdOn"`
}

// ObjectKey returns the storage key for an export taken at t
func ObjectKey(ownerID string, t time.Time) string {
	return fmt.Sprintf("exports/%s/%d.json", ownerID, t.UnixNano())
}

// Export uploads every note owned by ownerID and returns a download link
func (e *Exporter) Export(ctx context.Context, ownerID string) (*Result, error) {
	notes, err := e.notes.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}

	now := e.now().UTC()
	doc := document{UserID: ownerID, ExportedAt: now, Notes: make([]exportNote, 0, len(notes))}
	for _, n := range notes {
		doc.Notes = append(doc.Notes, exportNote{
			ID:        n.ID,
			Title:     n.Title,
			Content:   n.Content,
			Tags:      n.Tags,
			IsPinned:  n.IsPinned,
			CreatedOn: n.CreatedAt,
		})
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}

	key := ObjectKey(ownerID, now)
	if _, err := e.putter.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return nil, fmt.Errorf("uploading export: %w", err)
	}

	req, err := e.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(e.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(e.urlExpiry))
	if err != nil {
		return nil, fmt.Errorf("presigning export: %w", err)
	}

	e.logger.Info("notes exported", "user_id", ownerID, "key", key, "count", len(notes))
	return &Result{
		Key:       key,
		URL:       req.URL,
		Count:     len(notes),
		ExpiresAt: now.Add(e.urlExpiry),
	}, nil
}
