package prompts

import (
	"fmt"
	"strings"
)

// GetSystemInstruction is the base instruction that fixes the reply format
// the parser expects.
func GetSystemInstruction() string {
	return `You are PromptGenieX, a world-class AI Prompt Engineer and Product Designer.
Your job is to transform simple, unclear, or non-technical user ideas into world-class, production-ready prompts specifically optimized for a target AI platform.

Your Engineering Philosophy:
- Platform Optimization: If a target tool is specified (e.g., ChatGPT, ElevenLabs), you MUST use that tool's specific syntax, strengths, and limitations.
- Voice & Audio Logic: For voice tools (ElevenLabs, etc.), the output must be a script that includes explicit performance markers. Use brackets like [Excitedly], [Whispering with urgency], or [Slow and steady pace] to guide the AI's emotion and delivery.
- Use Role-Play: Define a specific, high-level expert role for the AI.
- Visual Precision: For visual requests, provide specific instructions on style, color palette, lighting, and composition.
- Task Clarity: Break down the objective into actionable steps.
- Constraints: Add negative constraints (what NOT to do) to improve quality.
- Formatting: Use Markdown headers and lists for readability.

Structure output strictly as follows:

## MASTER PROMPT
[The full detailed prompt or script optimized for the selected platform, including emotional cues for voice tools.]

## SETTINGS
- Tone: [Tone]
- Style: [Style]
- Length: [Length]
- Platform: [Target Tool Name]
- Model: [Specific version recommended, e.g., Eleven Multi-lingual v2]

## USAGE TIP
[One short, actionable sentence on how to get the most out of this prompt on the specific platform]

Do not include extra conversational filler.`
}

// GetMetadataAddendum asks for the self-assessment block that closes the reply.
func GetMetadataAddendum() string {
	return `Additionally, at the very end of your response, after the USAGE TIP, include a section exactly like this:
## METADATA
- Health Score: [Number 0-100]
- Logic Fidelity: [Number 0-100]
- Platform Alignment: [Number 0-100]
- Constraint Density: [Number 0-100]
- Optimization: [Short comma-separated list of improvements made]`
}

// GetTargetToolBlock pins the reply to one platform.
func GetTargetToolBlock(targetTool string) string {
	return fmt.Sprintf(`CRITICAL: The user wants a prompt specifically for: %[1]s.
Tailor all syntax, parameters, and style strictly to how %[1]s functions best.`, targetTool)
}

// GetCustomContextBlock wraps the user's own system text. It goes ahead of
// everything else.
func GetCustomContextBlock(custom string) string {
	return "USER'S CUSTOM SYSTEM CONTEXT:\n" + strings.TrimSpace(custom)
}

// GetPreferencesBlock lists the user's defaults. Empty values print as None.
func GetPreferencesBlock(tone, style, length, model string) string {
	return fmt.Sprintf(`USER PREFERENCES:
- Default Tone: %s
- Default Style: %s
- Preferred Length: %s
- Target Model Strategy: %s`, orNone(tone), orNone(style), orNone(length), orNone(model))
}

// GetImageAnalysisPrompt is the user turn sent alongside an image.
func GetImageAnalysisPrompt(intent, targetTool string) string {
	return fmt.Sprintf(`ANALYSIS TASK: Analyze the attached image and the following user intent: "%s".

YOUR GOAL: Generate a world-class, professional AI prompt for %s.

STEPS:
1. Extract visual characteristics from the image (composition, lighting, textures, camera angle, style).
2. Synthesize these visual elements with the user's intent to create an enhanced, highly detailed prompt.
3. Follow the strict structural rules of the system instruction.`, intent, targetTool)
}

// GetRefinePrompt asks for a one-sentence clarified restatement of intent.
func GetRefinePrompt(intent string) string {
	return fmt.Sprintf(`Refine and autocorrect this vague AI prompt intent into a clear, professional, and detailed descriptive sentence. Do not change the core meaning, just improve clarity and add professional keywords. Return ONLY the refined text.

Intent: "%s"`, intent)
}

// GetPowerUpSuffix is appended to the intent when modifiers are selected.
func GetPowerUpSuffix(powerUps []string) string {
	if len(powerUps) == 0 {
		return ""
	}
	return fmt.Sprintf("\n\nApply these specialized engineering modifiers: %s.", strings.Join(powerUps, ", "))
}

func orNone(v string) string {
	if strings.TrimSpace(v) == "" {
		return "None"
	}
	return v
}
