package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestListTasks_YAML(t *testing.T) {
	out := saveAndRestoreFactories(t)
	writeEnvFile(t, "/work/.env", testEnv+"POSTGRES_ENABLED=true\n")

	require.NoError(t, ListTasks(GlobalOptions{EnvFile: "/work/.env"}, OutputYAML))

	var infos []TaskInfo
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &infos))
	require.Len(t, infos, 10)
	assert.Equal(t, "packages", infos[0].Name)
	assert.Equal(t, "database", infos[4].Name)
	assert.True(t, infos[4].Enabled)
	assert.Equal(t, []string{"packages", "user"}, infos[4].DependsOn)
}

func TestListTasks_TextWithoutEnvFile(t *testing.T) {
	out := saveAndRestoreFactories(t)

	require.NoError(t, ListTasks(GlobalOptions{EnvFile: "/missing/.env"}, OutputText))

	text := out.String()
	assert.Contains(t, text, "Available tasks")
	assert.Contains(t, text, "nginx_www")
	assert.Contains(t, text, "depends on: nginx_basic")
	assert.Contains(t, text, "(disabled)")
}

func TestListTasks_UnknownFormat(t *testing.T) {
	saveAndRestoreFactories(t)

	err := ListTasks(GlobalOptions{}, "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestTaskNames(t *testing.T) {
	assert.Contains(t, TaskNames(), "firewall")
}
