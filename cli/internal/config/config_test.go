package config

import (
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/clauseql/query/sqlgen"
)

func useMemFs(t *testing.T) afero.Fs {
	t.Helper()
	prev := AppFs
	AppFs = afero.NewMemMapFs()
	t.Cleanup(func() { AppFs = prev })
	return AppFs
}

func TestLoadConfig_Defaults(t *testing.T) {
	useMemFs(t)
	t.Setenv("DATABASE_URL", "")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Dialect)
	assert.True(t, cfg.Parameterize)
	assert.Equal(t, 128, cfg.CacheSize)

	profile, err := cfg.Profile()
	require.NoError(t, err)
	assert.Equal(t, sqlgen.DefaultProfile(), profile)
}

func TestLoadConfig_File(t *testing.T) {
	fs := useMemFs(t)
	t.Setenv("DATABASE_URL", "")
	require.NoError(t, afero.WriteFile(fs, "/project/.clauseql.yaml", []byte(`
dialect: mysql
parameterize: false
quote_identifiers: true
keyword_case: lower
table_prefix: app_
cache_size: 16
`), 0644))

	cfg, err := LoadConfig("/project/.clauseql.yaml")
	require.NoError(t, err)

	profile, err := cfg.Profile()
	require.NoError(t, err)
	assert.Equal(t, sqlgen.Profile{
		Dialect:          sqlgen.MySQL,
		Inline:           true,
		QuoteIdentifiers: true,
		KeywordCase:      sqlgen.KeywordLower,
		TablePrefix:      "app_",
	}, profile)
	assert.Equal(t, 16, cfg.CacheSize)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	useMemFs(t)
	_, err := LoadConfig("/nowhere/.clauseql.yaml")
	assert.ErrorContains(t, err, "failed to read config")
}

func TestLoadConfig_Environment(t *testing.T) {
	useMemFs(t)
	t.Setenv("CLAUSEQL_DIALECT", "sqlite")
	t.Setenv("CLAUSEQL_PRETTY", "true")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Dialect)
	assert.True(t, cfg.Pretty)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	fs := useMemFs(t)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CLAUSEQL_TEST_KEEP", "from-env")

	require.NoError(t, afero.WriteFile(fs, ".env", []byte(
		"DATABASE_URL=postgres://base/db\nCLAUSEQL_TEST_KEEP=from-file\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, ".env.local", []byte(
		`DATABASE_URL="postgres://local/db"`+"\n"), 0644))

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://local/db", cfg.DatabaseURL)
	assert.Equal(t, "from-env", os.Getenv("CLAUSEQL_TEST_KEEP"))
}

func TestProfile_Errors(t *testing.T) {
	cfg := &Config{Dialect: "oracle"}
	_, err := cfg.Profile()
	assert.EqualError(t, err, `unknown dialect "oracle"`)

	cfg = &Config{Dialect: "pg", Placeholder: "colon"}
	_, err = cfg.Profile()
	assert.EqualError(t, err, `unknown placeholder style "colon"`)

	cfg = &Config{Dialect: "pg", KeywordCase: "title"}
	_, err = cfg.Profile()
	assert.EqualError(t, err, `unknown keyword case "title"`)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	fs := useMemFs(t)
	t.Setenv("DATABASE_URL", "")

	want := &Config{
		Dialect:      "sqlite",
		Parameterize: true,
		Placeholder:  "auto",
		KeywordCase:  "upper",
		TablePrefix:  "t_",
		CacheSize:    32,
		MinVersion:   ">= 0.1.0",
		DatabaseURL:  "secret",
	}
	require.NoError(t, SaveConfig(want, "/home/me/.config/clauseql/.clauseql.yaml"))

	data, err := afero.ReadFile(fs, "/home/me/.config/clauseql/.clauseql.yaml")
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")

	got, err := LoadConfig("/home/me/.config/clauseql/.clauseql.yaml")
	require.NoError(t, err)
	want.DatabaseURL = ""
	assert.Equal(t, want, got)
}
