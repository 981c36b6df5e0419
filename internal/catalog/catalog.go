// Package catalog holds the static data the workspace offers: supported
// tools, marketplace templates, prompt categories and power-ups.
package catalog

import (
	"strings"

	"promptsmith_server/internal/types"
)

// ToolCategory groups tools by the kind of output they produce.
type ToolCategory string

const (
	CategoryLogic  ToolCategory = "Logic"
	CategoryVisual ToolCategory = "Visual"
	CategoryAudio  ToolCategory = "Audio"
	CategoryVideo  ToolCategory = "Video"
)

// Tool is a target platform. DeployURL may contain a {prompt} placeholder;
// an empty DeployURL means the platform has no deep link.
type Tool struct {
	ID        types.AITool `json:"id"`
	Name      string       `json:"name"`
	Category  ToolCategory `json:"category"`
	DeployURL string       `json:"deployUrl,omitempty"`
}

// Template is a curated marketplace pattern.
type Template struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Intent      string       `json:"intent"`
	Category    string       `json:"category"`
	Complexity  string       `json:"complexity"` // Beginner | Pro | Elite
	Tool        types.AITool `json:"tool"`
	Popularity  string       `json:"popularity"`
	Rating      float64      `json:"rating"`
	OutputImage string       `json:"outputImage,omitempty"`
}

// Categories are the prompt categories a vault item can be filed under.
var Categories = []string{
	"General", "Image", "Video", "Code", "Marketing", "UI/UX", "Social Media", "Business", "Voice", "Logo",
}

// PowerUps are the modifiers the workspace offers for a generation.
var PowerUps = []string{"Deep Analysis", "Strict Logic", "Creative Burst"}

var tools = []Tool{
	{ID: "ChatGPT", Name: "ChatGPT", Category: CategoryLogic, DeployURL: "https://chatgpt.com/?q={prompt}"},
	{ID: "Gemini", Name: "Gemini", Category: CategoryLogic, DeployURL: "https://gemini.google.com/app?q={prompt}"},
	{ID: "Claude", Name: "Claude", Category: CategoryLogic, DeployURL: "https://claude.ai/new"},
	{ID: "Midjourney", Name: "Midjourney", Category: CategoryVisual, DeployURL: "https://www.midjourney.com/explore"},
	{ID: "ElevenLabs", Name: "ElevenLabs", Category: CategoryAudio, DeployURL: "https://elevenlabs.io/app/speech-synthesis"},
	{ID: "Sunno", Name: "Sunno", Category: CategoryAudio, DeployURL: "https://suno.com/create"},
	{ID: "DALL-E", Name: "DALL-E", Category: CategoryVisual, DeployURL: "https://labs.openai.com/"},
	{ID: "Sora", Name: "Sora", Category: CategoryVideo},
	{ID: "Runway", Name: "Runway", Category: CategoryVideo, DeployURL: "https://app.runwayml.com/"},
	{ID: "Stable Diffusion", Name: "SDXL", Category: CategoryVisual},
}

var templates = []Template{
	{
		ID: "tmpl-1", Title: "Cinematic Narrator",
		Intent:   "High-fidelity script for a sci-fi documentary with deep emotional resonance. Needs pacing markers and breathing notes.",
		Category: "Voice", Complexity: "Pro", Tool: "ElevenLabs", Popularity: "4.8k", Rating: 4.9,
		OutputImage: "https://images.unsplash.com/photo-1478720568477-152d9b164e26?auto=format&fit=crop&q=80&w=800",
	},
	{
		ID: "tmpl-2", Title: "Lo-Fi Study Beats",
		Intent:   "Generate a custom lofi track prompt for study sessions. Focus on chill vibes, vinyl crackle, and soft piano melodies.",
		Category: "Audio", Complexity: "Beginner", Tool: "Sunno", Popularity: "2.1k", Rating: 4.7,
		OutputImage: "https://images.unsplash.com/photo-1516280440614-37939bbacd81?auto=format&fit=crop&q=80&w=800",
	},
	{
		ID: "tmpl-3", Title: "SaaS Hero Visuals",
		Intent:   "Minimalist 3D isometric illustration of a cloud server network with glassmorphism and soft shadows. 4k, studio lighting.",
		Category: "UI/UX", Complexity: "Elite", Tool: "Midjourney", Popularity: "12.4k", Rating: 5.0,
		OutputImage: "https://images.unsplash.com/photo-1633356122544-f134324a6cee?auto=format&fit=crop&q=80&w=800",
	},
	{
		ID: "tmpl-4", Title: "Atomic Code Refactor",
		Intent:   "Analyze this React component for anti-patterns and suggest a performance-optimized refactor using memoization.",
		Category: "Code", Complexity: "Pro", Tool: "Claude", Popularity: "8.9k", Rating: 4.8,
		OutputImage: "https://images.unsplash.com/photo-1555066931-4365d14bab8c?auto=format&fit=crop&q=80&w=800",
	},
	{
		ID: "tmpl-5", Title: "Startup Brand Voice",
		Intent:   "Define a comprehensive brand voice and tone guide for a sustainable fashion startup targeting Gen-Z consumers.",
		Category: "Marketing", Complexity: "Pro", Tool: "ChatGPT", Popularity: "5.5k", Rating: 4.6,
		OutputImage: "https://images.unsplash.com/photo-1557804506-669a67965ba0?auto=format&fit=crop&q=80&w=800",
	},
	{
		ID: "tmpl-6", Title: "Neural Network Logo",
		Intent:   "Abstract geometric logo representing connectivity and intelligence. Use cyber-lime and deep obsidian colors.",
		Category: "Logo", Complexity: "Beginner", Tool: "DALL-E", Popularity: "3.2k", Rating: 4.5,
		OutputImage: "https://images.unsplash.com/photo-1620641788421-7a1c342ea42e?auto=format&fit=crop&q=80&w=800",
	},
	{
		ID: "tmpl-7", Title: "Sora Film Sequence",
		Intent:   "A continuous one-shot take flying through a cyberpunk Tokyo at night, neon reflections on wet asphalt.",
		Category: "Video", Complexity: "Elite", Tool: "Sora", Popularity: "1.1k", Rating: 4.9,
		OutputImage: "https://images.unsplash.com/photo-1545641203-7d072a14e3b2?auto=format&fit=crop&q=80&w=800",
	},
	{
		ID: "tmpl-8", Title: "Professional Cold Outreach",
		Intent:   "Personalized cold email strategy for B2B sales targeting high-level executives in the fintech sector.",
		Category: "Business", Complexity: "Beginner", Tool: "Gemini", Popularity: "7.6k", Rating: 4.4,
		OutputImage: "https://images.unsplash.com/photo-1552664730-d307ca884978?auto=format&fit=crop&q=80&w=800",
	},
	{
		ID: "tmpl-9", Title: "Runway Gen-3 Motion",
		Intent:   "Slow-motion cinematic sequence of a phoenix rising from the ashes, volcanic landscape backdrop.",
		Category: "Video", Complexity: "Pro", Tool: "Runway", Popularity: "2.4k", Rating: 4.7,
		OutputImage: "https://images.unsplash.com/photo-1536440136628-849c177e76a1?auto=format&fit=crop&q=80&w=800",
	},
}

// Tools lists the catalog, optionally narrowed to one category. An empty or
// "All" category returns every tool.
func Tools(category string) []Tool {
	out := make([]Tool, 0, len(tools))
	for _, t := range tools {
		if matches(category, string(t.Category)) {
			out = append(out, t)
		}
	}
	return out
}

// FindTool matches a tool by ID or display name, case-insensitively.
func FindTool(name string) (Tool, bool) {
	name = strings.TrimSpace(name)
	for _, t := range tools {
		if strings.EqualFold(string(t.ID), name) || strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return Tool{}, false
}

// Templates lists marketplace templates filtered by category and tool.
func Templates(category, tool string) []Template {
	out := make([]Template, 0, len(templates))
	for _, t := range templates {
		if matches(category, t.Category) && matches(tool, string(t.Tool)) {
			out = append(out, t)
		}
	}
	return out
}

func FindTemplate(id string) (Template, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

func matches(filter, value string) bool {
	filter = strings.TrimSpace(filter)
	return filter == "" || strings.EqualFold(filter, "All") || strings.EqualFold(filter, value)
}
