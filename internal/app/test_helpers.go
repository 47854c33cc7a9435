package app

import (
	"bytes"
	"os"
	"testing"

	"github.com/specialistvlad/funwith/internal/hcl"
	"github.com/stretchr/testify/require"
)

// SetupAppTest creates a new app instance for system testing. The report and
// the debug log are captured in the returned buffers.
func SetupAppTest(t *testing.T, appConfig *Config, deps Deps) (*App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	var out, logs bytes.Buffer
	appConfig.LogLevel = "debug"
	if deps.Loader == nil {
		deps.Loader = hcl.NewLoader()
	}
	cfg, err := NewConfig(*appConfig)
	require.NoError(t, err)

	testApp, err := NewApp(&out, &logs, cfg, deps)
	require.NoError(t, err)

	t.Cleanup(func() {
		if os.Getenv("FUNWITH_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})

	return testApp, &out, &logs
}
