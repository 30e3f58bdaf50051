package mainconfig

import (
	"context"
	"testing"

	appconfig "github.com/wolfman30/trades-booking-api/internal/config"
)

func TestLoadAWSConfigStaticCredentials(t *testing.T) {
	cfg := &appconfig.Config{
		AWSRegion:          "ap-southeast-2",
		AWSAccessKeyID:     "test",
		AWSSecretAccessKey: "secret",
	}
	awsCfg, err := LoadAWSConfig(context.Background(), cfg)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if awsCfg.Region != "ap-southeast-2" {
		t.Fatalf("expected region, got %q", awsCfg.Region)
	}
	creds, err := awsCfg.Credentials.Retrieve(context.Background())
	if err != nil {
		t.Fatalf("retrieve credentials: %v", err)
	}
	if creds.AccessKeyID != "test" {
		t.Fatalf("expected static credentials, got %q", creds.AccessKeyID)
	}
}

func TestClientsHonourEndpointOverride(t *testing.T) {
	cfg := &appconfig.Config{
		AWSRegion:           "ap-southeast-2",
		AWSAccessKeyID:      "test",
		AWSSecretAccessKey:  "secret",
		AWSEndpointOverride: "http://localhost:4566",
	}
	awsCfg, err := LoadAWSConfig(context.Background(), cfg)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	s3Opts := NewS3Client(awsCfg, cfg).Options()
	if s3Opts.BaseEndpoint == nil || *s3Opts.BaseEndpoint != "http://localhost:4566" || !s3Opts.UsePathStyle {
		t.Fatalf("expected s3 endpoint override with path style")
	}
	sesOpts := NewSESClient(awsCfg, cfg).Options()
	if sesOpts.BaseEndpoint == nil || *sesOpts.BaseEndpoint != "http://localhost:4566" {
		t.Fatalf("expected ses endpoint override")
	}
}
