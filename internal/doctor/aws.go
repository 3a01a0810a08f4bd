package doctor

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/systmms/dupcomp/internal/backup"
)

// DefaultRegion is used for AWS hosts that carry no region.
const DefaultRegion = "us-east-1"

// IdentityClient is the part of the STS API used to verify keys.
type IdentityClient interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// ClientFactory creates an identity client for static keys.
type ClientFactory func(ctx context.Context, region, accessKey, secretKey string) (IdentityClient, error)

// NewSTSClient creates an STS client that authenticates with the given
// static keys only, ignoring profiles and the instance role.
func NewSTSClient(ctx context.Context, region, accessKey, secretKey string) (IdentityClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return sts.NewFromConfig(cfg), nil
}

// RegionFromURL extracts the region of an s3:// URL whose host is an AWS
// endpoint. The second result is false for other hosts.
//
//	s3://s3.eu-west-1.amazonaws.com/bucket -> eu-west-1
//	s3://s3-eu-west-1.amazonaws.com/bucket -> eu-west-1
//	s3://bucket.s3.us-west-2.amazonaws.com -> us-west-2
//	s3://s3.amazonaws.com/bucket           -> us-east-1
func RegionFromURL(url string) (string, bool) {
	rest := strings.TrimPrefix(url, "s3://")
	host := rest
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		host = rest[:i]
	}
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	host = strings.ToLower(host)

	const suffix = ".amazonaws.com"
	if !strings.HasSuffix(host, suffix) {
		return "", false
	}

	labels := strings.Split(strings.TrimSuffix(host, suffix), ".")
	for i, label := range labels {
		if label == "s3" || label == "s3-external-1" {
			if i+1 < len(labels) {
				return labels[i+1], true
			}
			break
		}
		if strings.HasPrefix(label, "s3-") {
			return strings.TrimPrefix(label, "s3-"), true
		}
	}
	return DefaultRegion, true
}

func (d *Doctor) verifyS3(ctx context.Context, region string, p *backup.S3Provider) (string, error) {
	accessKey, secretKey, err := p.Credentials()
	if err != nil {
		return "", err
	}

	client, err := d.NewClient(ctx, region, accessKey, secretKey)
	if err != nil {
		return "", err
	}

	out, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("AWS rejected the S3 keys: %w", err)
	}
	return aws.ToString(out.Arn), nil
}
