package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbanmetrics/walkability/internal/config"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	// Collect subcommand names.
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	// Verify expected subcommands are registered.
	expected := []string{"analyze", "per-area", "per-locality", "inspect"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "walkability", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestAnalyzeCommand_Flags(t *testing.T) {
	for _, name := range []string{"roads", "cadastre", "srid"} {
		require.NotNil(t, analyzeCmd.Flags().Lookup(name), "analyze should have --%s flag", name)
	}
	assert.Equal(t, "-1", analyzeCmd.Flags().Lookup("srid").DefValue)
}

func TestPerAreaCommand_Flags(t *testing.T) {
	flag := perAreaCmd.Flags().Lookup("field")
	require.NotNil(t, flag, "per-area should have --field flag")
	assert.Equal(t, "sa4", flag.DefValue)

	require.NotNil(t, perAreaCmd.Flags().Lookup("output"))
}

func TestPerLocalityCommand_Flags(t *testing.T) {
	for _, name := range []string{"field", "buffer", "min-points", "gnaf", "output"} {
		require.NotNil(t, perLocalityCmd.Flags().Lookup(name), "per-locality should have --%s flag", name)
	}

	// Flag defaults defer to config values.
	assert.Equal(t, "", perLocalityCmd.Flags().Lookup("field").DefValue)
	assert.Equal(t, "-1", perLocalityCmd.Flags().Lookup("buffer").DefValue)
	assert.Equal(t, "-1", perLocalityCmd.Flags().Lookup("min-points").DefValue)
}

func TestInspectCommand_RequiresPath(t *testing.T) {
	require.NotNil(t, inspectCmd.Args)
	assert.Error(t, inspectCmd.Args(inspectCmd, nil))
	assert.NoError(t, inspectCmd.Args(inspectCmd, []string{"data/roads.shp"}))
}

func TestDataPath(t *testing.T) {
	cfg = &config.Config{Data: config.DataConfig{Dir: "data"}}

	assert.Equal(t, "data/roads.shp", dataPath(analyzeCmd, "roads", "roads.shp"))

	require.NoError(t, analyzeCmd.Flags().Set("roads", "/tmp/other.shp"))
	t.Cleanup(func() { _ = analyzeCmd.Flags().Set("roads", "") })
	assert.Equal(t, "/tmp/other.shp", dataPath(analyzeCmd, "roads", "roads.shp"))
}

func TestResolveSRID(t *testing.T) {
	cfg = &config.Config{Data: config.DataConfig{SRID: 3857}}

	assert.Equal(t, 3857, resolveSRID(analyzeCmd))

	require.NoError(t, analyzeCmd.Flags().Set("srid", "4326"))
	t.Cleanup(func() { _ = analyzeCmd.Flags().Set("srid", "-1") })
	assert.Equal(t, 4326, resolveSRID(analyzeCmd))

	// 0 is a valid override meaning unknown coordinate system.
	require.NoError(t, analyzeCmd.Flags().Set("srid", "0"))
	assert.Equal(t, 0, resolveSRID(analyzeCmd))
}
