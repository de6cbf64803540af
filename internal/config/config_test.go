package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestValidate_Defaults(t *testing.T) {
	var cfg Config
	validate(&cfg)

	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.CallTimeout() != 10*time.Second {
		t.Errorf("call timeout = %v, want 10s", cfg.CallTimeout())
	}
	if cfg.Clone.CodePollAttempts != 10 {
		t.Errorf("poll attempts = %d, want 10", cfg.Clone.CodePollAttempts)
	}
	if cfg.CodePollDelay() != time.Second {
		t.Errorf("poll delay = %v, want 1s", cfg.CodePollDelay())
	}
	if cfg.Clone.CodePageSize != 1000 {
		t.Errorf("page size = %d, want 1000", cfg.Clone.CodePageSize)
	}
}

func TestLoadEnvironments(t *testing.T) {
	seed := `environments:
  - name: staging
    kind: promotions-engine
    base_url: https://staging.example.com
    api_key: k1
  - name: cms
    kind: cms
    base_url: https://cms.example.com
    api_key: k2
    insecure: true
`
	path := filepath.Join(t.TempDir(), "environments.yaml")
	if err := os.WriteFile(path, []byte(seed), 0o600); err != nil {
		t.Fatal(err)
	}

	var cfg Config
	cfg.EnvironmentsFile = path
	envs, err := cfg.LoadEnvironments()
	if err != nil {
		t.Fatalf("LoadEnvironments: %v", err)
	}
	if len(envs) != 2 {
		t.Fatalf("got %d environments, want 2", len(envs))
	}
	if envs[0].Name != "staging" || envs[0].BaseURL != "https://staging.example.com" {
		t.Errorf("envs[0] = %+v", envs[0])
	}
	if !envs[1].Insecure || envs[1].Kind != "cms" {
		t.Errorf("envs[1] = %+v", envs[1])
	}
}

func TestLoadEnvironments_Unset(t *testing.T) {
	var cfg Config
	envs, err := cfg.LoadEnvironments()
	if err != nil || envs != nil {
		t.Errorf("unset file should yield nil, nil; got %v, %v", envs, err)
	}
}
