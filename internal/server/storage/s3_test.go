package storage

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Region:       "us-east-1",
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		BaseEndpoint: "http://127.0.0.1:9000",
		Bucket:       "vocab-audio",
	}
}

func TestNewS3Presigner_AppliesOptions(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		require.NotNil(t, lo.Credentials)
		return aws.Config{Region: lo.Region, Credentials: lo.Credentials}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return s3.NewFromConfig(cfg, optFns...)
	}

	p, err := NewS3Presigner(context.Background(), testConfig())
	require.NoError(t, err)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
	assert.Equal(t, DefaultExpiry, p.expiry)
}

func TestNewS3Presigner_LoadError(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = origLoad })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}

	_, err := NewS3Presigner(context.Background(), testConfig())
	require.EqualError(t, err, "load-fail")
}

func TestPresign_SignsLocally(t *testing.T) {
	p, err := NewS3Presigner(context.Background(), testConfig())
	require.NoError(t, err)

	put, err := p.PresignPut(context.Background(), "audio/u1/key")
	require.NoError(t, err)
	u, err := url.Parse(put)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", u.Host)
	assert.Equal(t, "/vocab-audio/audio/u1/key", u.Path)
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))

	get, err := p.PresignGet(context.Background(), "audio/u1/key")
	require.NoError(t, err)
	assert.Contains(t, get, "/vocab-audio/audio/u1/key")
}

func TestPresign_WrapsErrors(t *testing.T) {
	origPut, origGet := presignPutObject, presignGetObject
	t.Cleanup(func() {
		presignPutObject = origPut
		presignGetObject = origGet
	})

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("put-fail")
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("get-fail")
	}

	p := &S3Presigner{bucket: "b", expiry: DefaultExpiry}

	_, err := p.PresignPut(context.Background(), "k")
	assert.EqualError(t, err, "presign put: put-fail")
	_, err = p.PresignGet(context.Background(), "k")
	assert.EqualError(t, err, "presign get: get-fail")
}

func TestNewAudioKey(t *testing.T) {
	a := NewAudioKey("u1")
	b := NewAudioKey("u1")
	assert.True(t, strings.HasPrefix(a, "audio/u1/"))
	assert.NotEqual(t, a, b)
}
