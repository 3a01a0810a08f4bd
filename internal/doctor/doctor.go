// Package doctor checks that the host can run the configured backups.
package doctor

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/systmms/dupcomp/internal/backup"
	"github.com/systmms/dupcomp/internal/config"
	"github.com/systmms/dupcomp/internal/logging"
	"github.com/systmms/dupcomp/internal/runner"
)

// Status is the outcome of one check.
type Status string

const (
	StatusOK   Status = "ok"
	StatusSkip Status = "skip"
	StatusFail Status = "fail"
)

// Check is one line of the report.
type Check struct {
	Name    string
	Status  Status
	Message string
}

// Report collects the checks in the order they ran.
type Report struct {
	Checks []Check
}

// Failed reports whether any check failed.
func (r *Report) Failed() bool {
	for _, c := range r.Checks {
		if c.Status == StatusFail {
			return true
		}
	}
	return false
}

// Print writes one line per check.
func (r *Report) Print(w io.Writer) {
	for _, c := range r.Checks {
		fmt.Fprintf(w, "[%s] %s: %s\n", strings.ToUpper(string(c.Status)), c.Name, c.Message)
	}
}

func (r *Report) add(name string, status Status, format string, args ...interface{}) {
	r.Checks = append(r.Checks, Check{Name: name, Status: status, Message: fmt.Sprintf(format, args...)})
}

// VersionChecker is satisfied by *runner.Runner.
type VersionChecker interface {
	CheckVersion(ctx context.Context) (runner.Version, error)
}

// Doctor runs the environment checks.
type Doctor struct {
	Engine    VersionChecker
	NewClient ClientFactory

	logger *logging.Logger
}

// New creates a doctor that checks engine and verifies S3 keys against AWS.
func New(logger *logging.Logger, engine VersionChecker) *Doctor {
	return &Doctor{
		Engine:    engine,
		NewClient: NewSTSClient,
		logger:    logger,
	}
}

// Run checks the backup engine, builds cfg and verifies the credentials of
// every S3 group hosted on AWS. It keeps going after a failure so the
// report is complete.
func (d *Doctor) Run(ctx context.Context, cfg *config.Config, secrets backup.SecretResolver) *Report {
	report := &Report{}

	if v, err := d.Engine.CheckVersion(ctx); err != nil {
		report.add("duplicity", StatusFail, "%v", err)
	} else {
		report.add("duplicity", StatusOK, "version %s", v)
	}

	bc, err := cfg.Build(secrets)
	if err != nil {
		report.add("configuration", StatusFail, "%v", err)
		return report
	}
	report.add("configuration", StatusOK, "%d group(s) valid", len(bc.Names()))

	for _, g := range bc.Groups() {
		s3, ok := g.Provider().(*backup.S3Provider)
		if !ok {
			continue
		}
		name := "s3 credentials (" + g.Name() + ")"

		region, isAWS := RegionFromURL(s3.URL())
		if !isAWS {
			report.add(name, StatusSkip, "%s is not an AWS endpoint", s3.URL())
			continue
		}

		arn, err := d.verifyS3(ctx, region, s3)
		if err != nil {
			report.add(name, StatusFail, "%v", err)
			continue
		}
		report.add(name, StatusOK, "authenticated as %s in %s", arn, region)
	}

	d.logger.Debug("Doctor ran %d checks", len(report.Checks))
	return report
}
