// ABOUTME: Tests for the S3 note exporter
// ABOUTME: Uses fake put/presign clients so no object store is required

package export

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/notes-gateway/internal/store"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

type fakePresigner struct {
	input   *s3.GetObjectInput
	expires time.Duration
	err     error
}

func (f *fakePresigner) PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = in
	opts := &s3.PresignOptions{}
	for _, fn := range optFns {
		fn(opts)
	}
	f.expires = opts.Expires
	return &v4.PresignedHTTPRequest{URL: "https://bucket.example/" + aws.ToString(in.Key) + "?sig=1", Method: "GET"}, nil
}

type fakeLister struct {
	notes map[string][]*store.Note
	err   error
}

func (f *fakeLister) List(ctx context.Context, ownerID string) ([]*store.Note, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.notes[ownerID], nil
}

func TestExport(t *testing.T) {
	putter := &fakePutter{}
	presigner := &fakePresigner{}
	lister := &fakeLister{notes: map[string][]*store.Note{
		"alice": {
			{ID: "n1", UserID: "alice", Title: "pinned", Content: "c1", Tags: []string{"x"}, IsPinned: true},
			{ID: "n2", UserID: "alice", Title: "plain", Content: "c2", Tags: []string{}},
		},
		"bob": {{ID: "n3", UserID: "bob", Title: "bob's", Content: "c3"}},
	}}

	exp := NewWithClients(Config{Bucket: "notes", URLExpiry: 10 * time.Minute}, putter, presigner, lister, nil)
	fixed := time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC)
	exp.now = func() time.Time { return fixed }

	res, err := exp.Export(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, ObjectKey("alice", fixed), res.Key)
	assert.Equal(t, 2, res.Count)
	assert.Contains(t, res.URL, res.Key)
	assert.Equal(t, fixed.Add(10*time.Minute), res.ExpiresAt)

	assert.Equal(t, "notes", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "application/json", aws.ToString(putter.input.ContentType))
	assert.Equal(t, res.Key, aws.ToString(presigner.input.Key))
	assert.Equal(t, 10*time.Minute, presigner.expires)

	var doc document
	require.NoError(t, json.Unmarshal(putter.body, &doc))
	assert.Equal(t, "alice", doc.UserID)
	require.Len(t, doc.Notes, 2)
	assert.Equal(t, "pinned", doc.Notes[0].Title)
	assert.True(t, doc.Notes[0].IsPinned)
	for _, n := range doc.Notes {
		assert.NotEqual(t, "n3", n.ID, "another owner's note leaked into the export")
	}
}

func TestExport_DefaultExpiry(t *testing.T) {
	presigner := &fakePresigner{}
	exp := NewWithClients(Config{Bucket: "notes"}, &fakePutter{}, presigner, &fakeLister{}, nil)

	_, err := exp.Export(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, DefaultURLExpiry, presigner.expires)
}

func TestExport_Errors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name      string
		putter    *fakePutter
		presigner *fakePresigner
		lister    *fakeLister
		wantMsg   string
	}{
		{"list fails", &fakePutter{}, &fakePresigner{}, &fakeLister{err: boom}, "listing notes"},
		{"upload fails", &fakePutter{err: boom}, &fakePresigner{}, &fakeLister{}, "uploading export"},
		{"presign fails", &fakePutter{}, &fakePresigner{err: boom}, &fakeLister{}, "presigning export"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := NewWithClients(Config{Bucket: "notes"}, tt.putter, tt.presigner, tt.lister, nil)
			_, err := exp.Export(context.Background(), "alice")
			require.ErrorIs(t, err, boom)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{}, &fakeLister{}, nil)
	assert.Error(t, err)
}

func TestNew_ConfigLoadError(t *testing.T) {
	orig := loadAWSConfig
	t.Cleanup(func() { loadAWSConfig = orig })

	loadAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no credentials")
	}

	_, err := New(context.Background(), Config{Bucket: "notes", Region: "us-east-1"}, &fakeLister{}, nil)
	assert.ErrorContains(t, err, "loading AWS config")
}

func TestNew_StaticCredentials(t *testing.T) {
	orig := loadAWSConfig
	t.Cleanup(func() { loadAWSConfig = orig })

	var applied awsconfig.LoadOptions
	loadAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		for _, fn := range optFns {
			require.NoError(t, fn(&applied))
		}
		return aws.Config{Region: applied.Region, Credentials: applied.Credentials}, nil
	}

	exp, err := New(context.Background(), Config{
		Bucket:          "notes",
		Region:          "us-east-1",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
		UsePathStyle:    true,
	}, &fakeLister{}, nil)
	require.NoError(t, err)
	assert.NotNil(t, exp)
	assert.Equal(t, "us-east-1", applied.Region)

	creds, err := applied.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "minio", creds.AccessKeyID)
}
