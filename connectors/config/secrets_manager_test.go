// Copyright 2025 AxonFlow
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

type fakeSecretsAPI struct {
	values map[string]*string
	err    error
	calls  int
}

func (f *fakeSecretsAPI) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.values[aws.ToString(params.SecretId)]
	if !ok {
		return nil, errors.New("ResourceNotFoundException")
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: v}, nil
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestMaskARN(t *testing.T) {
	tests := []struct {
		name string
		arn  string
		want string
	}{
		{"full ARN", "arn:aws:secretsmanager:us-east-1:123456789012:secret:my-secret-abc123", "...t-abc123"},
		{"short string", "short", "***"},
		{"exact 12 chars", "123456789012", "***"},
		{"13 chars", "1234567890123", "...67890123"},
		{"empty string", "", "***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := maskARN(tt.arn); got != tt.want {
				t.Errorf("maskARN(%q) = %q, want %q", tt.arn, got, tt.want)
			}
		})
	}
}

func TestAWSSecretsManager_GetSecretCaches(t *testing.T) {
	api := &fakeSecretsAPI{values: map[string]*string{
		"sp-app": aws.String(`{"client_secret":"s3cr3t","tenant_id":"t"}`),
	}}
	sm := newAWSSecretsManager(api, AWSSecretsManagerOptions{CacheTTL: time.Hour, Logger: quietLogger()})

	for i := 0; i < 3; i++ {
		got, err := sm.GetSecret(context.Background(), "sp-app")
		if err != nil {
			t.Fatalf("GetSecret failed: %v", err)
		}
		if got["client_secret"] != "s3cr3t" || got["tenant_id"] != "t" {
			t.Errorf("unexpected secret %v", got)
		}
	}
	if api.calls != 1 {
		t.Errorf("expected 1 API call, got %d", api.calls)
	}

	sm.InvalidateSecret("sp-app")
	if _, err := sm.GetSecret(context.Background(), "sp-app"); err != nil {
		t.Fatalf("GetSecret failed: %v", err)
	}
	if api.calls != 2 {
		t.Errorf("expected refetch after invalidation, got %d calls", api.calls)
	}
}

func TestAWSSecretsManager_PlainString(t *testing.T) {
	api := &fakeSecretsAPI{values: map[string]*string{"raw": aws.String("just-the-secret")}}
	sm := newAWSSecretsManager(api, AWSSecretsManagerOptions{Logger: quietLogger()})

	got, err := sm.GetSecret(context.Background(), "raw")
	if err != nil {
		t.Fatalf("GetSecret failed: %v", err)
	}
	if got["value"] != "just-the-secret" {
		t.Errorf("expected value key, got %v", got)
	}
	if sm.ttl != 5*time.Minute {
		t.Errorf("expected default ttl, got %v", sm.ttl)
	}
}

func TestAWSSecretsManager_Errors(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		api := &fakeSecretsAPI{err: errors.New("AccessDeniedException")}
		sm := newAWSSecretsManager(api, AWSSecretsManagerOptions{Logger: quietLogger()})
		if _, err := sm.GetSecret(context.Background(), "arn:aws:secretsmanager:us-east-1:1:secret:x"); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("binary secret", func(t *testing.T) {
		api := &fakeSecretsAPI{values: map[string]*string{"bin": nil}}
		sm := newAWSSecretsManager(api, AWSSecretsManagerOptions{Logger: quietLogger()})
		if _, err := sm.GetSecret(context.Background(), "bin"); err == nil {
			t.Error("expected error for secret without string value")
		}
	})
}

func TestStaticSecrets(t *testing.T) {
	s := StaticSecrets{"a": {"value": "1"}}
	if v, err := s.GetSecret(context.Background(), "a"); err != nil || v["value"] != "1" {
		t.Errorf("unexpected result %v, %v", v, err)
	}
	if _, err := s.GetSecret(context.Background(), "b"); err == nil {
		t.Error("expected error for unknown secret")
	}
}
