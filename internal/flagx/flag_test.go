package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	configOnly := []string{"-c", "-config"}

	tests := map[string]struct {
		args    []string
		allowed []string
		want    []string
	}{
		"separate value": {
			args:    []string{"-c", "gophcal.jsonc", "-a", ":8080"},
			allowed: configOnly,
			want:    []string{"-c", "gophcal.jsonc"},
		},
		"equals form": {
			args:    []string{"-config=/etc/gophcal.jsonc", "-b", "s3"},
			allowed: configOnly,
			want:    []string{"-config=/etc/gophcal.jsonc"},
		},
		"equals value starting with dash": {
			args:    []string{"-s=-x-"},
			allowed: []string{"-s"},
			want:    []string{"-s=-x-"},
		},
		"order of mixed forms kept": {
			args:    []string{"-config=a.jsonc", "-f", "/var/lib/gophcal", "-c", "b.jsonc"},
			allowed: configOnly,
			want:    []string{"-config=a.jsonc", "-c", "b.jsonc"},
		},
		"several allowed flags": {
			args:    []string{"-b", "postgres", "-v", "-d", "postgres://localhost/cal", "-a", ":9000"},
			allowed: []string{"-b", "-d"},
			want:    []string{"-b", "postgres", "-d", "postgres://localhost/cal"},
		},
		"repeated flag": {
			args:    []string{"-q", "k1:9092", "-q", "k2:9092"},
			allowed: []string{"-q"},
			want:    []string{"-q", "k1:9092", "-q", "k2:9092"},
		},
		"missing trailing value": {
			args:    []string{"-a", ":8080", "-c"},
			allowed: configOnly,
			want:    []string{"-c"},
		},
		"next flag is not a value": {
			args:    []string{"-c", "-a", ":8080"},
			allowed: configOnly,
			want:    []string{"-c"},
		},
		"nothing allowed matches": {
			args:    []string{"-a", ":8080", "serve"},
			allowed: configOnly,
			want:    []string{},
		},
		"no args": {
			args:    nil,
			allowed: configOnly,
			want:    []string{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestFilterArgsWithBools(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "bool flag does not swallow next flag",
			args: []string{"-o", "-a", ":8080"},
			want: []string{"-o", "-a", ":8080"},
		},
		{
			name: "bool flag does not swallow positional",
			args: []string{"-o", "positional", "-a", ":8080"},
			want: []string{"-o", "-a", ":8080"},
		},
		{
			name: "bool flag with explicit value",
			args: []string{"-o=false", "-a", ":9090"},
			want: []string{"-o=false", "-a", ":9090"},
		},
		{
			name: "bool flag absent",
			args: []string{"-x", "1", "-a", ":9090"},
			want: []string{"-a", ":9090"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgsWithBools(tt.args, []string{"-a"}, []string{"-o"})
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_jsonConfigFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short -c with value", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", "/path/short.json"}
		assert.Equal(t, "/path/short.json", JsonConfigFlags())
	})

	t.Run("long -config with value", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", "/path/long.json"}
		assert.Equal(t, "/path/long.json", JsonConfigFlags())
	})

	t.Run("unknown flags are ignored", func(t *testing.T) {
		os.Args = []string{"testbin", "-x", "1", "-y", "2"}
		assert.Empty(t, JsonConfigFlags())
	})

	t.Run("multiple flags, last wins", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", "/path/1.json", "-config", "/path/2.json"}
		assert.Equal(t, "/path/2.json", JsonConfigFlags())
	})
}
