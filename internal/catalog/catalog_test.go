package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTools(t *testing.T) {
	assert.Len(t, Tools(""), 10)
	assert.Len(t, Tools("All"), 10)

	visual := Tools("visual")
	require.Len(t, visual, 3)
	for _, tool := range visual {
		assert.Equal(t, CategoryVisual, tool.Category)
	}
	assert.Empty(t, Tools("Smell"))
}

func TestFindTool(t *testing.T) {
	byID, ok := FindTool("stable diffusion")
	require.True(t, ok)
	assert.Equal(t, "SDXL", byID.Name)

	byName, ok := FindTool("SDXL")
	require.True(t, ok)
	assert.Equal(t, byID, byName)

	_, ok = FindTool("Photoshop")
	assert.False(t, ok)
}

func TestTemplates(t *testing.T) {
	assert.Len(t, Templates("", ""), 9)
	assert.Len(t, Templates("Video", ""), 2)

	runway := Templates("video", "Runway")
	require.Len(t, runway, 1)
	assert.Equal(t, "tmpl-9", runway[0].ID)

	tmpl, ok := FindTemplate("tmpl-3")
	require.True(t, ok)
	assert.Equal(t, "SaaS Hero Visuals", tmpl.Title)

	_, ok = FindTemplate("tmpl-99")
	assert.False(t, ok)
}

func TestToolsReturnsCopy(t *testing.T) {
	list := Tools("")
	list[0].Name = "changed"
	again, _ := FindTool("ChatGPT")
	assert.Equal(t, "ChatGPT", again.Name)
}
