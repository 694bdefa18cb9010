package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dpsmushkipur/bine/internal/netx"
)

// ObjectPutter is the subset of *s3.Client used by S3Transport.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var loadDefaultAWSConfig = config.LoadDefaultConfig

// S3Options configures NewS3Transport. AccessKey/SecretKey are optional;
// without them the default AWS credential chain is used.
type S3Options struct {
	Bucket    string
	Region    string
	Endpoint  string
	Prefix    string
	AccessKey string
	SecretKey string
}

// S3Transport stores files in an S3-compatible bucket. The result is built
// locally: FilePath is the object key.
type S3Transport struct {
	Client ObjectPutter
	Bucket string
	Prefix string
	Now    func() time.Time
}

// NewS3Transport builds an S3Transport from opts. A custom Endpoint switches
// on path-style addressing, which MinIO and most self-hosted stores need.
func NewS3Transport(ctx context.Context, opts S3Options) (*S3Transport, error) {
	loaders := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKey != "" {
		loaders = append(loaders, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loaders...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Transport{Client: client, Bucket: opts.Bucket, Prefix: opts.Prefix}, nil
}

// ObjectKey returns prefix/yyyy/mm/dd/<uuid>-<name>.
func ObjectKey(prefix string, now time.Time, name string) string {
	base := strings.ReplaceAll(path.Base(strings.ReplaceAll(name, "\\", "/")), " ", "_")
	return path.Join(prefix,
		fmt.Sprintf("%04d/%02d/%02d", now.Year(), now.Month(), now.Day()),
		fmt.Sprintf("%s-%s", uuid.NewString(), base))
}

func (t *S3Transport) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

func (t *S3Transport) Upload(ctx context.Context, f SelectedFile, progress netx.ProgressFunc) (Result, error) {
	src, err := os.Open(LocalPath(f.URI))
	if err != nil {
		return Result{}, newError(KindPickerFailed, "Could not read the selected file", err)
	}
	defer src.Close()

	st, err := src.Stat()
	if err != nil {
		return Result{}, newError(KindPickerFailed, "Could not read the selected file", err)
	}

	key := ObjectKey(t.Prefix, t.now(), f.Name)
	contentType := f.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = t.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(t.Bucket),
		Key:           aws.String(key),
		Body:          netx.NewProgressReadSeeker(src, st.Size(), progress),
		ContentLength: aws.Int64(st.Size()),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, cancelledError(ctx.Err())
		}
		var re *awshttp.ResponseError
		if errors.As(err, &re) {
			code := re.HTTPStatusCode()
			return Result{}, newError(KindBadStatus, fmt.Sprintf("HTTP error: %d", code), err)
		}
		return Result{}, newError(KindNetwork, "Network error: "+rootCause(err).Error(), err)
	}

	return Result{
		Success:       true,
		FileName:      f.Name,
		FilePath:      key,
		FileType:      contentType,
		FileSizeLabel: HumanSize(st.Size()),
	}, nil
}
