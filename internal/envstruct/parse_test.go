package envstruct_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/fitcycle/internal/envstruct"
)

type serverConfig struct {
	Addr       string `env:"ADDR" envDefault:"localhost:8081"`
	RandomSeed int    `env:"RANDOM_SEED" envDefault:"0"`
	Verbose    bool   `env:"VERBOSE" envDefault:"false"`
	Untagged   string
}

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestPopulate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    serverConfig
		wantErr error
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			want: serverConfig{Addr: "localhost:8081", RandomSeed: 0, Verbose: false, Untagged: ""},
		},
		{
			name: "overrides",
			env:  map[string]string{"ADDR": "localhost:0", "RANDOM_SEED": "42", "VERBOSE": "true"},
			want: serverConfig{Addr: "localhost:0", RandomSeed: 42, Verbose: true, Untagged: ""},
		},
		{
			name:    "bad integer",
			env:     map[string]string{"RANDOM_SEED": "forty-two"},
			wantErr: envstruct.ErrParse,
		},
		{
			name:    "bad boolean",
			env:     map[string]string{"VERBOSE": "sometimes"},
			wantErr: envstruct.ErrParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got serverConfig
			err := envstruct.Populate(&got, lookupFrom(tt.env))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Populate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Populate() unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Populate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPopulate_MissingWithoutDefault(t *testing.T) {
	var cfg struct {
		Required string `env:"REQUIRED"`
		Other    string `env:"OTHER"`
	}
	err := envstruct.Populate(&cfg, lookupFrom(map[string]string{}))
	if !errors.Is(err, envstruct.ErrEnvNotSet) {
		t.Fatalf("Populate() error = %v, want %v", err, envstruct.ErrEnvNotSet)
	}
}

func TestPopulate_InvalidValue(t *testing.T) {
	for name, v := range map[string]any{
		"nil":         nil,
		"not pointer": serverConfig{},
		"not struct":  new(int),
	} {
		t.Run(name, func(t *testing.T) {
			if err := envstruct.Populate(v, lookupFrom(nil)); !errors.Is(err, envstruct.ErrInvalidValue) {
				t.Errorf("Populate() error = %v, want %v", err, envstruct.ErrInvalidValue)
			}
		})
	}
}

func TestPopulate_UnsupportedKind(t *testing.T) {
	var cfg struct {
		Ratio float64 `env:"RATIO" envDefault:"0.5"`
	}
	if err := envstruct.Populate(&cfg, lookupFrom(nil)); !errors.Is(err, envstruct.ErrInvalidValue) {
		t.Errorf("Populate() error = %v, want %v", err, envstruct.ErrInvalidValue)
	}
}
