package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/tadpole/internal/client/config"
	"github.com/dmitrijs2005/tadpole/internal/cryptox"
	"github.com/dmitrijs2005/tadpole/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubHasher(t *testing.T) {
	t.Helper()
	orig := newHasher
	newHasher = func() *cryptox.Hasher { return fastHasher }
	t.Cleanup(func() { newHasher = orig })
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return cfg
}

func TestStart_MemoryBackend(t *testing.T) {
	stubHasher(t)
	stubNoTerminal(t)
	captureREPL(t)

	var out bytes.Buffer
	in := strings.NewReader("login\nadmin\nadmin123\nwhoami\nexit\n")

	require.NoError(t, Start(context.Background(), testConfig(), in, &out, logging.Discard()))
	assert.Contains(t, out.String(), "Welcome, administrator.")
	assert.Contains(t, out.String(), "Login:      admin")
}

func TestStart_SQLitePersistsAcrossRuns(t *testing.T) {
	stubHasher(t)
	stubNoTerminal(t)
	captureREPL(t)

	cfg := testConfig()
	cfg.StoreBackend = "sqlite"
	cfg.SQLitePath = filepath.Join(t.TempDir(), "data", "tadpole.db")

	script := append([]string{"login", "admin", "admin123", "add"}, bobForm...)
	script = append(script, "exit")
	require.NoError(t, Start(context.Background(), cfg, strings.NewReader(strings.Join(script, "\n")+"\n"), &bytes.Buffer{}, logging.Discard()))

	var out bytes.Buffer
	in := strings.NewReader("login\nbob\npass1\nwhoami\nexit\n")
	require.NoError(t, Start(context.Background(), cfg, in, &out, logging.Discard()))
	assert.Contains(t, out.String(), "Welcome, bob.")
	assert.Contains(t, out.String(), "Identifier: 2 - 7")
}

func TestStart_CustomAdminSeed(t *testing.T) {
	stubHasher(t)
	stubNoTerminal(t)
	captureREPL(t)

	cfg := testConfig()
	cfg.AdminID = 12345678
	cfg.AdminLogin = "root"
	cfg.AdminCredential = "s3cret"

	var out bytes.Buffer
	in := strings.NewReader("login\nroot\ns3cret\nwhoami\nexit\n")
	require.NoError(t, Start(context.Background(), cfg, in, &out, logging.Discard()))
	assert.Contains(t, out.String(), "Identifier: 12345678 - 5")
}

func TestStart_Errors(t *testing.T) {
	stubHasher(t)

	cfg := testConfig()
	cfg.StoreBackend = "redis"
	err := Start(context.Background(), cfg, strings.NewReader(""), &bytes.Buffer{}, logging.Discard())
	assert.ErrorContains(t, err, "unknown store backend")

	cfg = testConfig()
	cfg.AdminCredential = "ab"
	err = Start(context.Background(), cfg, strings.NewReader(""), &bytes.Buffer{}, logging.Discard())
	assert.ErrorContains(t, err, "seed administrator")
}

func TestStart_SeedIdentifierTakenByStandardUser(t *testing.T) {
	stubHasher(t)
	stubNoTerminal(t)
	captureREPL(t)

	cfg := testConfig()
	cfg.StoreBackend = "sqlite"
	cfg.SQLitePath = filepath.Join(t.TempDir(), "tadpole.db")

	script := append([]string{"login", "admin", "admin123", "add"}, bobForm...)
	script = append(script, "exit")
	require.NoError(t, Start(context.Background(), cfg, strings.NewReader(strings.Join(script, "\n")+"\n"), &bytes.Buffer{}, logging.Discard()))

	// bob holds identifier 2
	cfg.AdminID = 2
	cfg.AdminLogin = "root"
	err := Start(context.Background(), cfg, strings.NewReader(""), &bytes.Buffer{}, logging.Discard())
	assert.ErrorContains(t, err, "belongs to standard user")
}
