package backup

import (
	"strings"

	"github.com/systmms/dupcomp/internal/secure"
)

// Environment variables read by the backup engine.
const (
	EnvPassphrase   = "PASSPHRASE"
	EnvAWSAccessKey = "AWS_ACCESS_KEY"
	EnvAWSSecretKey = "AWS_SECRET_KEY"
	EnvFTPPassword  = "FTP_PASSWORD"
)

const (
	schemeLocal = "file://"
	schemeS3    = "s3://"
	schemeSCP   = "scp://"
)

// Provider is the storage backend receiving the backup volumes.
type Provider interface {
	// URL returns the base URL from the configuration.
	URL() string
	// Cmd returns the engine locator for path below the base URL.
	Cmd(path string) string
	// Env returns the credentials the engine needs for this backend.
	Env() (map[string]string, error)
}

// NewProvider selects the provider variant from the scheme of data["url"].
func NewProvider(data map[string]interface{}, secrets SecretResolver) (Provider, error) {
	raw, ok := data["url"]
	if !ok {
		return nil, &MissingFieldError{Scope: "backup_provider", Field: "url"}
	}
	url, ok := raw.(string)
	if !ok {
		return nil, &InvalidValueError{Field: "backup_provider.url", Value: raw, Reason: "expected a string"}
	}

	switch {
	case strings.HasPrefix(url, schemeLocal):
		return &LocalProvider{url: url}, nil
	case strings.HasPrefix(url, schemeS3):
		return newS3Provider(url, data, secrets)
	case strings.HasPrefix(url, schemeSCP):
		return newSCPProvider(url, data, secrets)
	default:
		return nil, &UnrecognizedProviderError{URL: url}
	}
}

// LocalProvider writes to the local filesystem.
type LocalProvider struct {
	url string
}

func (p *LocalProvider) URL() string {
	return p.url
}

// Cmd concatenates url and path verbatim, so "file://" + "/abs" gives the
// canonical "file:///abs" while a relative path stays relative.
func (p *LocalProvider) Cmd(path string) string {
	return p.url + path
}

func (p *LocalProvider) Env() (map[string]string, error) {
	return map[string]string{}, nil
}

// S3Provider writes to an S3 compatible bucket.
type S3Provider struct {
	url       string
	accessKey *secure.SecureBuffer
	secretKey *secure.SecureBuffer
}

func newS3Provider(url string, data map[string]interface{}, secrets SecretResolver) (*S3Provider, error) {
	for _, field := range []string{"aws_access_key", "aws_secret_key"} {
		if _, ok := data[field]; !ok {
			return nil, &MissingFieldError{Scope: "backup_provider", Field: field}
		}
	}

	accessKey, err := loadCredential("backup_provider.aws_access_key", data["aws_access_key"], secrets)
	if err != nil {
		return nil, err
	}
	secretKey, err := loadCredential("backup_provider.aws_secret_key", data["aws_secret_key"], secrets)
	if err != nil {
		accessKey.Destroy()
		return nil, err
	}
	return &S3Provider{url: url, accessKey: accessKey, secretKey: secretKey}, nil
}

func (p *S3Provider) URL() string {
	return p.url
}

// Cmd joins url and path with exactly one slash.
func (p *S3Provider) Cmd(path string) string {
	return strings.TrimRight(p.url, "/") + "/" + strings.TrimLeft(path, "/")
}

func (p *S3Provider) Env() (map[string]string, error) {
	env := make(map[string]string, 2)
	if err := revealInto(env, EnvAWSAccessKey, p.accessKey); err != nil {
		return nil, err
	}
	if err := revealInto(env, EnvAWSSecretKey, p.secretKey); err != nil {
		return nil, err
	}
	return env, nil
}

// Credentials returns the access and secret key.
func (p *S3Provider) Credentials() (accessKey, secretKey string, err error) {
	env, err := p.Env()
	if err != nil {
		return "", "", err
	}
	return env[EnvAWSAccessKey], env[EnvAWSSecretKey], nil
}

// SCPProvider writes to a host reachable over scp/ssh.
type SCPProvider struct {
	url      string
	password *secure.SecureBuffer
}

func newSCPProvider(url string, data map[string]interface{}, secrets SecretResolver) (*SCPProvider, error) {
	p := &SCPProvider{url: url}

	raw, ok := data["password"]
	if !ok || raw == nil {
		return p, nil
	}
	if s, isString := raw.(string); isString && s == "" {
		return p, nil
	}

	password, err := loadCredential("backup_provider.password", raw, secrets)
	if err != nil {
		return nil, err
	}
	p.password = password
	return p, nil
}

func (p *SCPProvider) URL() string {
	return p.url
}

// Cmd concatenates url and path verbatim. "scp://host/" + "/abs" yields
// "scp://host//abs", an absolute remote path; "scp://host/" + "rel" is
// relative to the login directory.
func (p *SCPProvider) Cmd(path string) string {
	return p.url + path
}

func (p *SCPProvider) Env() (map[string]string, error) {
	env := map[string]string{}
	if p.password == nil {
		return env, nil
	}
	if err := revealInto(env, EnvFTPPassword, p.password); err != nil {
		return nil, err
	}
	return env, nil
}

var (
	_ Provider = (*LocalProvider)(nil)
	_ Provider = (*S3Provider)(nil)
	_ Provider = (*SCPProvider)(nil)
)
