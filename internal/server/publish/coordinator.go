// Package publish pushes rendered pages to the S3 origin and purges the
// edge cache index so CDN nodes re-fetch the new copy.
package publish

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pagesmith/pagesmith/internal/logging"
	sc "github.com/pagesmith/pagesmith/internal/server/config"
	"github.com/pagesmith/pagesmith/internal/server/models"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
)

// Coordinator uploads a rendered version to the origin bucket and then
// drops the per-node cache markers in Redis. The upload is the durable
// step: an upload failure fails the deploy, while purge failures are
// reported per node and left to the next deploy to retry.
type Coordinator struct {
	config *sc.Config
	redis  *redis.Client
	logger logging.Logger
}

func NewCoordinator(config *sc.Config, redis *redis.Client, logger logging.Logger) *Coordinator {
	return &Coordinator{
		config: config,
		redis:  redis,
		logger: logger,
	}
}

func (c *Coordinator) getClient() (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(c.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.config.S3RootUser,
			c.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(c.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return client, nil
}

// ObjectKey maps a public URL path to its object key inside the bucket.
func (c *Coordinator) ObjectKey(urlPath string) string {
	return path.Join(c.config.S3KeyPrefix, strings.TrimPrefix(urlPath, "/"), "index.html")
}

// Deploy renders the version, uploads it to the origin and purges the
// edge cache markers. One CdnResult is returned per configured node.
func (c *Coordinator) Deploy(ctx context.Context, v *models.ContentVersion) ([]models.CdnResult, error) {
	client, err := c.getClient()
	if err != nil {
		return nil, fmt.Errorf("building s3 client: %w", err)
	}

	key := c.ObjectKey(v.URLPath)
	page := RenderPage(v)

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &c.config.S3Bucket,
		Key:         &key,
		Body:        strings.NewReader(page),
		ContentType: aws.String("text/html; charset=utf-8"),
	})
	if err != nil {
		return nil, fmt.Errorf("uploading %s: %w", key, err)
	}

	c.logger.Info(ctx, "page uploaded", "content_number", v.ContentNumber,
		"version_number", v.VersionNumber, "key", key)

	results := make([]models.CdnResult, 0, len(c.config.EdgeNodes))
	for _, node := range c.config.EdgeNodes {
		result := models.CdnResult{Node: node, Path: v.URLPath, Status: models.CdnStatusPurged}
		if err := c.redis.Del(ctx, cacheKey(node, v.URLPath)).Err(); err != nil {
			c.logger.Error(ctx, "edge purge failed", "node", node, "path", v.URLPath, "error", err)
			result.Status = models.CdnStatusFailed
			result.Error = err.Error()
		}
		results = append(results, result)
	}
	return results, nil
}

// cacheKey is the Redis marker an edge node checks before serving a
// cached copy of the path.
func cacheKey(node, urlPath string) string {
	return fmt.Sprintf("cdn:%s:%s", node, urlPath)
}
