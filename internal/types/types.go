package types

// AITool is the platform a generated prompt is tailored to, e.g. "ChatGPT" or "Midjourney".
type AITool string

const DefaultTool AITool = "ChatGPT"

// PromptSettings is the SETTINGS block the model recommends for its prompt.
type PromptSettings struct {
	Tone     string `json:"tone"`
	Style    string `json:"style"`
	Length   string `json:"length"`
	Platform string `json:"platform"`
	Model    string `json:"model"`
}

type QualityMetrics struct {
	LogicFidelity     int `json:"logicFidelity"`
	PlatformAlignment int `json:"platformAlignment"`
	ConstraintDensity int `json:"constraintDensity"`
}

// PromptMetadata is the model's self-assessment of the prompt, all scores 0-100.
type PromptMetadata struct {
	HealthScore   int            `json:"healthScore"`
	Metrics       QualityMetrics `json:"metrics"`
	Optimizations []string       `json:"optimizations"`
}

// ParsedPromptResult is what the workspace renders. Every field is always set.
type ParsedPromptResult struct {
	MasterPrompt string         `json:"masterPrompt"`
	Settings     PromptSettings `json:"settings"`
	UsageTip     string         `json:"usageTip"`
	Metadata     PromptMetadata `json:"metadata"`
}

// Preferences are the per-user generation defaults. Empty fields are unset.
type Preferences struct {
	Tone                    string `json:"tone,omitempty"`
	Style                   string `json:"style,omitempty"`
	Length                  string `json:"length,omitempty"`
	Model                   string `json:"model,omitempty"`
	Provider                string `json:"provider,omitempty"`
	CustomSystemInstruction string `json:"customSystemInstruction,omitempty"`
}

// IsZero reports whether no preference is set.
func (p Preferences) IsZero() bool {
	return p == Preferences{}
}

// GeneratedPrompt is one vault (history) entry.
type GeneratedPrompt struct {
	ID            string         `json:"id"`
	OriginalInput string         `json:"originalInput"`
	MasterPrompt  string         `json:"masterPrompt"`
	Settings      PromptSettings `json:"settings"`
	Metadata      PromptMetadata `json:"metadata"`
	UsageTip      string         `json:"usageTip"`
	IsFrozen      bool           `json:"isFrozen"`
	Timestamp     int64          `json:"timestamp"` // unix millis
	Category      string         `json:"category"`
	Provider      string         `json:"provider,omitempty"`
}

// UserTemplate is a pattern the user saved to reuse later.
type UserTemplate struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Intent     string `json:"intent"`
	TargetTool AITool `json:"targetTool"`
	Category   string `json:"category"`
	Tone       string `json:"tone"`
	Timestamp  int64  `json:"timestamp"`
}

type TonePreset struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UserSettings are the account preferences; the tone/style/length/model
// fields and CustomSystemInstruction feed prompt generation.
type UserSettings struct {
	Name                    string       `json:"name"`
	Email                   string       `json:"email"`
	Theme                   string       `json:"theme"` // light | dark
	DefaultTone             string       `json:"defaultTone"`
	DefaultStyle            string       `json:"defaultStyle"`
	DefaultLength           string       `json:"defaultLength"`
	PreferredModel          string       `json:"preferredModel"`
	PreferredProvider       string       `json:"preferredProvider"` // auto | gemini | openai; empty uses the server default
	NotificationsEnabled    bool         `json:"notificationsEnabled"`
	NotifyPatternUpdates    bool         `json:"notifyPatternUpdates"`
	NotifyAccountActivity   bool         `json:"notifyAccountActivity"`
	NotifyPromptPerformance bool         `json:"notifyPromptPerformance"`
	NotifyMarketingStrategy bool         `json:"notifyMarketingStrategy"`
	CustomSystemInstruction string       `json:"customSystemInstruction"`
	TonePresets             []TonePreset `json:"tonePresets"`
	HasSeenTutorial         bool         `json:"hasSeenTutorial"`
}

// Preferences extracts the fields that feed prompt generation.
func (s UserSettings) Preferences() Preferences {
	return Preferences{
		Tone:                    s.DefaultTone,
		Style:                   s.DefaultStyle,
		Length:                  s.DefaultLength,
		Model:                   s.PreferredModel,
		Provider:                s.PreferredProvider,
		CustomSystemInstruction: s.CustomSystemInstruction,
	}
}

// DefaultUserSettings is what a workspace starts with before the user saves anything.
func DefaultUserSettings() UserSettings {
	return UserSettings{
		Name:                 "Guest",
		Theme:                "dark",
		DefaultTone:          "Professional",
		DefaultStyle:         "Modern",
		DefaultLength:        "Optimized",
		PreferredModel:       "Auto",
		NotificationsEnabled: true,
		NotifyPatternUpdates: true,
		TonePresets:          []TonePreset{},
	}
}
