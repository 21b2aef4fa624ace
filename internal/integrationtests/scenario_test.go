package integrationtests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/bakeplan/internal/testutil"
)

const releaseBake = `
variable "GIT_REV" {
  default = "unknown"
}

variable "REGISTRY" {
  default = "registry"
}

function "generate_tags" {
  params = [target]
  result = ["${REGISTRY}/${target}:dev_${GIT_REV}"]
}

group "default" {
  targets = ["validator"]
}

target "base" {
  dockerfile = "docker/Dockerfile"
  context    = "."
  target     = "release"
  args = {
    IMAGE_TARGETS = "release"
  }
}

target "validator" {
  inherits = ["base"]
  tags     = generate_tags("validator")
}
`

func TestOverriddenVariableFlowsThroughFunctionIntoTags(t *testing.T) {
	result := testutil.ResolvePlan(t,
		map[string]string{"docker-bake.hcl": releaseBake},
		[]string{"validator"},
		map[string]string{"GIT_REV": "abc123"},
	)
	require.NoError(t, result.Err)
	require.Len(t, result.Plan, 1)

	validator := result.Plan[0]
	assert.Equal(t, "validator", validator.Name)
	assert.Equal(t, []string{"registry/validator:dev_abc123"}, validator.Tags)
	assert.Equal(t, "docker/Dockerfile", validator.Dockerfile)
	assert.Equal(t, ".", validator.Context)
	assert.Equal(t, "release", validator.Stage)
	assert.Equal(t, map[string]string{"IMAGE_TARGETS": "release"}, validator.Args)
}

func TestDefaultUsedWithoutOverride(t *testing.T) {
	result := testutil.ResolvePlan(t,
		map[string]string{"docker-bake.hcl": releaseBake},
		[]string{"validator"}, nil,
	)
	require.NoError(t, result.Err)
	require.Len(t, result.Plan, 1)
	assert.Equal(t, []string{"registry/validator:dev_unknown"}, result.Plan[0].Tags)
}

func TestEnvironmentOverridesDefault(t *testing.T) {
	t.Setenv("GIT_REV", "env789")

	result := testutil.ResolvePlan(t,
		map[string]string{"docker-bake.hcl": releaseBake},
		[]string{"validator"}, nil,
	)
	require.NoError(t, result.Err)
	require.Len(t, result.Plan, 1)
	assert.Equal(t, []string{"registry/validator:dev_env789"}, result.Plan[0].Tags)
}

func TestExplicitOverrideBeatsEnvironment(t *testing.T) {
	t.Setenv("GIT_REV", "env789")

	result := testutil.ResolvePlan(t,
		map[string]string{"docker-bake.hcl": releaseBake},
		[]string{"validator"},
		map[string]string{"GIT_REV": "abc123"},
	)
	require.NoError(t, result.Err)
	require.Len(t, result.Plan, 1)
	assert.Equal(t, []string{"registry/validator:dev_abc123"}, result.Plan[0].Tags)
}

func TestEmptyRequestResolvesDefaultGroup(t *testing.T) {
	result := testutil.ResolvePlan(t,
		map[string]string{"docker-bake.hcl": releaseBake},
		nil,
		map[string]string{"GIT_REV": "abc123"},
	)
	require.NoError(t, result.Err)
	assert.Equal(t, []string{"validator"}, testutil.TargetNames(result.Plan))
}

func TestResolutionIsDeterministic(t *testing.T) {
	files := map[string]string{"docker-bake.hcl": releaseBake}
	overrides := map[string]string{"GIT_REV": "abc123"}

	first := testutil.ResolvePlan(t, files, []string{"validator"}, overrides)
	second := testutil.ResolvePlan(t, files, []string{"validator"}, overrides)
	require.NoError(t, first.Err)
	require.NoError(t, second.Err)
	assert.Equal(t, first.Plan, second.Plan)
}
