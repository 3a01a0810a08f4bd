package doctor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/dupcomp/internal/config"
	"github.com/systmms/dupcomp/internal/logging"
	"github.com/systmms/dupcomp/internal/runner"
)

type fakeEngine struct {
	version runner.Version
	err     error
}

func (f fakeEngine) CheckVersion(context.Context) (runner.Version, error) {
	return f.version, f.err
}

type fakeSTS struct {
	arn string
	err error
}

func (f *fakeSTS) GetCallerIdentity(_ context.Context, _ *sts.GetCallerIdentityInput, _ ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &sts.GetCallerIdentityOutput{Arn: aws.String(f.arn)}, nil
}

type clientCall struct {
	region, accessKey, secretKey string
}

func recordingFactory(client IdentityClient, calls *[]clientCall) ClientFactory {
	return func(_ context.Context, region, accessKey, secretKey string) (IdentityClient, error) {
		*calls = append(*calls, clientCall{region, accessKey, secretKey})
		return client, nil
	}
}

const s3Config = `
backup_groups:
  aws:
    volume_size: 100
    encryption: {enabled: false}
    backup_provider:
      url: s3://s3.eu-west-1.amazonaws.com/backups
      aws_access_key: AKIAEXAMPLE
      aws_secret_key: wJalrXUtnFEMI
    sources:
      /etc: {backup_path: etc}
  minio:
    volume_size: 100
    encryption: {enabled: false}
    backup_provider:
      url: s3://minio.internal:9000/backups
      aws_access_key: minio
      aws_secret_key: minio123
    sources:
      /etc: {backup_path: etc}
  local:
    volume_size: 100
    encryption: {enabled: false}
    backup_provider: {url: "file://"}
    sources:
      /etc: {backup_path: /srv/etc}
`

func loadConfig(t *testing.T, content string) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dupcomposer-config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	cfg := &config.Config{Path: path}
	require.NoError(t, cfg.Load())
	return cfg
}

func newDoctor(engine VersionChecker, factory ClientFactory) *Doctor {
	d := New(logging.NewWithWriter(&bytes.Buffer{}, false, true), engine)
	d.NewClient = factory
	return d
}

func TestDoctor_AllGood(t *testing.T) {
	t.Parallel()

	var calls []clientCall
	d := newDoctor(
		fakeEngine{version: runner.Version{Major: 0, Minor: 8, Patch: 21}},
		recordingFactory(&fakeSTS{arn: "arn:aws:iam::123456789012:user/backup"}, &calls),
	)

	report := d.Run(context.Background(), loadConfig(t, s3Config), nil)
	assert.False(t, report.Failed())
	require.Len(t, report.Checks, 4)

	assert.Equal(t, Check{Name: "duplicity", Status: StatusOK, Message: "version 0.8.21"}, report.Checks[0])
	assert.Equal(t, StatusOK, report.Checks[1].Status)
	assert.Equal(t, "s3 credentials (aws)", report.Checks[2].Name)
	assert.Contains(t, report.Checks[2].Message, "user/backup")
	assert.Equal(t, StatusSkip, report.Checks[3].Status)

	assert.Equal(t, []clientCall{{"eu-west-1", "AKIAEXAMPLE", "wJalrXUtnFEMI"}}, calls)

	var out bytes.Buffer
	report.Print(&out)
	assert.Contains(t, out.String(), "[OK] duplicity: version 0.8.21\n")
	assert.Contains(t, out.String(), "[SKIP] s3 credentials (minio)")
}

func TestDoctor_Failures(t *testing.T) {
	t.Parallel()

	var calls []clientCall
	d := newDoctor(
		fakeEngine{err: errors.New("duplicity executable not found")},
		recordingFactory(&fakeSTS{err: errors.New("InvalidClientTokenId")}, &calls),
	)

	report := d.Run(context.Background(), loadConfig(t, s3Config), nil)
	assert.True(t, report.Failed())
	assert.Equal(t, StatusFail, report.Checks[0].Status)
	assert.Equal(t, StatusFail, report.Checks[2].Status)
	assert.Contains(t, report.Checks[2].Message, "InvalidClientTokenId")
}

func TestDoctor_InvalidConfiguration(t *testing.T) {
	t.Parallel()

	d := newDoctor(fakeEngine{version: runner.Version{Major: 1}}, nil)
	report := d.Run(context.Background(), loadConfig(t, "backup_groups:\n  web: {volume_size: 1}\n"), nil)

	assert.True(t, report.Failed())
	require.Len(t, report.Checks, 2)
	assert.Equal(t, "configuration", report.Checks[1].Name)
	assert.Contains(t, report.Checks[1].Message, "encryption")
}

func TestRegionFromURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url       string
		region    string
		isAWSHost bool
	}{
		{"s3://s3.eu-west-1.amazonaws.com/bucket", "eu-west-1", true},
		{"s3://s3-eu-west-1.amazonaws.com/bucket", "eu-west-1", true},
		{"s3://bucket.s3.us-west-2.amazonaws.com/prefix", "us-west-2", true},
		{"s3://s3.amazonaws.com/bucket", DefaultRegion, true},
		{"s3://s3-external-1.amazonaws.com/bucket", DefaultRegion, true},
		{"s3://S3.AP-SOUTHEAST-2.AMAZONAWS.COM/bucket", "ap-southeast-2", true},
		{"s3://minio.internal:9000/bucket", "", false},
		{"s3://storage.example.org/bucket", "", false},
	}

	for _, tt := range tests {
		region, ok := RegionFromURL(tt.url)
		assert.Equal(t, tt.isAWSHost, ok, tt.url)
		assert.Equal(t, tt.region, region, tt.url)
	}
}
