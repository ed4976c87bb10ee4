// Package storage uploads asset bytes to the vendor's S3 bucket using
// credentials obtained through a Cognito identity pool, the same
// handshake the mobile client performs.
package storage

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentity"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/auragophers/aurago/internal/logging"
)

// Test seams, following the pattern used for AWS wiring elsewhere in
// this codebase: package-level constructors that tests can swap.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newCognitoClient = func(cfg aws.Config) cognitoAPI {
		return cognitoidentity.NewFromConfig(cfg)
	}

	newS3Client = func(cfg aws.Config) s3API {
		return s3.NewFromConfig(cfg)
	}
)

type cognitoAPI interface {
	GetId(ctx context.Context, params *cognitoidentity.GetIdInput, optFns ...func(*cognitoidentity.Options)) (*cognitoidentity.GetIdOutput, error)
	GetCredentialsForIdentity(ctx context.Context, params *cognitoidentity.GetCredentialsForIdentityInput, optFns ...func(*cognitoidentity.Options)) (*cognitoidentity.GetCredentialsForIdentityOutput, error)
}

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// MD5Base64 returns the base64-encoded MD5 digest of data, the checksum
// format the vendor backend stores in md5_hash.
func MD5Base64(data []byte) string {
	sum := md5.Sum(data)
	return base64.StdEncoding.EncodeToString(sum[:])
}

// Uploader puts asset bytes into the vendor bucket. Credentials are
// established lazily on the first call and are immutable afterwards;
// the zero of the upload path never mutates them.
type Uploader struct {
	region         string
	identityPoolID string
	bucket         string
	log            logging.Logger

	mu sync.Mutex
	s3 s3API
}

// NewUploader builds an uploader for the given region, identity pool and
// bucket. No network calls happen until the first upload.
func NewUploader(region, identityPoolID, bucket string, log logging.Logger) *Uploader {
	return &Uploader{
		region:         region,
		identityPoolID: identityPoolID,
		bucket:         bucket,
		log:            log,
	}
}

// ensureClient performs the Cognito identity-pool handshake on first use:
// GetId resolves an anonymous identity, GetCredentialsForIdentity issues
// scoped credentials, and the S3 client is built from those.
func (u *Uploader) ensureClient(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.s3 != nil {
		return nil
	}

	anonCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(u.region),
		awsconfig.WithCredentialsProvider(aws.AnonymousCredentials{}),
	)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}

	cognito := newCognitoClient(anonCfg)

	identity, err := cognito.GetId(ctx, &cognitoidentity.GetIdInput{
		IdentityPoolId: aws.String(u.identityPoolID),
	})
	if err != nil {
		return fmt.Errorf("cognito get id: %w", err)
	}

	creds, err := cognito.GetCredentialsForIdentity(ctx, &cognitoidentity.GetCredentialsForIdentityInput{
		IdentityId: identity.IdentityId,
	})
	if err != nil {
		return fmt.Errorf("cognito get credentials: %w", err)
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(u.region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			aws.ToString(creds.Credentials.AccessKeyId),
			aws.ToString(creds.Credentials.SecretKey),
			aws.ToString(creds.Credentials.SessionToken),
		)),
	)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}

	u.s3 = newS3Client(cfg)
	u.log.Info(ctx, "object store credentials established", "region", u.region)
	return nil
}

// UploadFile puts data into the bucket under a fresh uuid-based key with
// the given extension (e.g. ".jpg") and returns the key together with
// the base64 MD5 checksum of the uploaded bytes. Callers compare the
// checksum against a digest computed before the upload.
func (u *Uploader) UploadFile(ctx context.Context, data []byte, extension string) (string, string, error) {
	if err := u.ensureClient(ctx); err != nil {
		return "", "", err
	}

	key := uuid.NewString() + extension

	_, err := u.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", "", fmt.Errorf("put object %s: %w", key, err)
	}

	u.log.Debug(ctx, "uploaded object", "key", key, "size", len(data))
	return key, MD5Base64(data), nil
}

// StatFile returns object metadata for a previously uploaded key.
func (u *Uploader) StatFile(ctx context.Context, key string) (*s3.HeadObjectOutput, error) {
	if err := u.ensureClient(ctx); err != nil {
		return nil, err
	}

	out, err := u.s3.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("head object %s: %w", key, err)
	}
	return out, nil
}
