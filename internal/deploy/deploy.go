// Package deploy hands a finished master prompt off to its target platform
// through the platform's deep link.
package deploy

import (
	"net/url"
	"strings"

	"go.uber.org/zap"

	"promptsmith_server/internal/catalog"
	apperrors "promptsmith_server/pkg/errors"
)

const promptPlaceholder = "{prompt}"

// Deployment tells the client where to send the user. An empty URL means the
// platform has no deep link and the client should fall back to copying.
type Deployment struct {
	Platform       string `json:"platform"`
	URL            string `json:"url"`
	PromptInjected bool   `json:"promptInjected"`
}

type Deployer struct {
	logger *zap.Logger
}

func NewDeployer(logger *zap.Logger) *Deployer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Deployer{logger: logger.With(zap.String("component", "deployer"))}
}

// Deploy resolves platform in the tool catalog and builds its launch URL,
// injecting the prompt where the URL template has a {prompt} slot.
func (d *Deployer) Deploy(platform, masterPrompt string) (Deployment, error) {
	if strings.TrimSpace(masterPrompt) == "" {
		return Deployment{}, apperrors.New(apperrors.CodeInvalidParam, "masterPrompt is required")
	}

	tool, ok := catalog.FindTool(platform)
	if !ok || tool.DeployURL == "" {
		d.logger.Info("no deep link for platform, client should copy", zap.String("platform", platform))
		return Deployment{Platform: platform}, nil
	}

	dep := Deployment{Platform: tool.Name, URL: tool.DeployURL}
	if strings.Contains(tool.DeployURL, promptPlaceholder) {
		dep.URL = strings.Replace(tool.DeployURL, promptPlaceholder, encodeURIComponent(masterPrompt), 1)
		dep.PromptInjected = true
	}
	d.logger.Info("deploy link built",
		zap.String("platform", dep.Platform),
		zap.Bool("prompt_injected", dep.PromptInjected))
	return dep, nil
}

// encodeURIComponent escapes s for a query value with spaces as %20.
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
