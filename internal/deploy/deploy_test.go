package deploy

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "promptsmith_server/pkg/errors"
)

func TestDeploy_InjectsPrompt(t *testing.T) {
	d := NewDeployer(zap.NewNop())

	dep, err := d.Deploy("chatgpt", "Write a haiku & a limerick about 100% rain?")
	require.NoError(t, err)
	assert.True(t, dep.PromptInjected)
	assert.Equal(t, "ChatGPT", dep.Platform)
	assert.Equal(t, "https://chatgpt.com/?q=Write%20a%20haiku%20%26%20a%20limerick%20about%20100%25%20rain%3F", dep.URL)

	u, err := url.Parse(dep.URL)
	require.NoError(t, err)
	assert.Equal(t, "Write a haiku & a limerick about 100% rain?", u.Query().Get("q"))
}

func TestDeploy_StaticLink(t *testing.T) {
	dep, err := NewDeployer(nil).Deploy("Claude", "x")
	require.NoError(t, err)
	assert.False(t, dep.PromptInjected)
	assert.Equal(t, "https://claude.ai/new", dep.URL)
}

func TestDeploy_NoLinkFallsBackToCopy(t *testing.T) {
	d := NewDeployer(nil)

	for _, platform := range []string{"Sora", "Stable Diffusion", "Photoshop"} {
		dep, err := d.Deploy(platform, "x")
		require.NoError(t, err)
		assert.Empty(t, dep.URL, platform)
		assert.False(t, dep.PromptInjected)
	}
}

func TestDeploy_RequiresPrompt(t *testing.T) {
	_, err := NewDeployer(nil).Deploy("ChatGPT", "  ")
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeInvalidParam, appErr.Code)
}
