package ai

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"promptsmith_server/internal/types"
)

// Section headers in the order the system instruction asks for them.
const (
	SectionMasterPrompt = "MASTER PROMPT"
	SectionSettings     = "SETTINGS"
	SectionUsageTip     = "USAGE TIP"
	SectionMetadata     = "METADATA"
)

var canonicalSections = []string{SectionMasterPrompt, SectionSettings, SectionUsageTip, SectionMetadata}

// Fallbacks used when the reply omits a field or it does not parse.
const (
	DefaultTone              = "Professional"
	DefaultStyle             = "Modern"
	DefaultLength            = "Optimized"
	DefaultModel             = "Any"
	DefaultHealthScore       = 85
	DefaultLogicFidelity     = 80
	DefaultPlatformAlignment = 90
	DefaultConstraintDensity = 75
)

var headerRe = regexp.MustCompile(`(?mi)^[ \t]*#{2,}[ \t]*(MASTER PROMPT|SETTINGS|USAGE TIP|METADATA)[ \t]*:?[ \t]*$`)

var leadingInt = regexp.MustCompile(`^\d+`)

type headerPos struct {
	section int // index into canonicalSections
	start   int // offset of the header line
	end     int // offset just past the header line
}

// ParseResponse turns a model reply into a fully populated result. It never
// fails: anything missing or malformed is replaced by its default, and with no
// MASTER PROMPT section the whole reply becomes the master prompt.
func ParseResponse(raw, targetTool, usedModel string) types.ParsedPromptResult {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	sections := splitSections(text)

	if targetTool = strings.TrimSpace(targetTool); targetTool == "" {
		targetTool = string(types.DefaultTool)
	}
	if usedModel = strings.TrimSpace(usedModel); usedModel == "" {
		usedModel = DefaultModel
	}

	masterPrompt := sections[SectionMasterPrompt]
	if masterPrompt == "" {
		masterPrompt = raw
	}

	settingsBody := sections[SectionSettings]
	settings := types.PromptSettings{
		Tone:     fieldOr(settingsBody, "Tone", DefaultTone),
		Style:    fieldOr(settingsBody, "Style", DefaultStyle),
		Length:   fieldOr(settingsBody, "Length", DefaultLength),
		Platform: fieldOr(settingsBody, "Platform", targetTool),
		Model:    fieldOr(settingsBody, "Model", usedModel),
	}

	usageTip := sections[SectionUsageTip]
	if usageTip == "" {
		usageTip = DefaultUsageTip(settings.Platform)
	}

	metaBody := sections[SectionMetadata]
	metadata := types.PromptMetadata{
		HealthScore: scoreOr(metaBody, "Health Score", DefaultHealthScore),
		Metrics: types.QualityMetrics{
			LogicFidelity:     scoreOr(metaBody, "Logic Fidelity", DefaultLogicFidelity),
			PlatformAlignment: scoreOr(metaBody, "Platform Alignment", DefaultPlatformAlignment),
			ConstraintDensity: scoreOr(metaBody, "Constraint Density", DefaultConstraintDensity),
		},
		Optimizations: splitList(field(metaBody, "Optimizations?")),
	}

	return types.ParsedPromptResult{
		MasterPrompt: masterPrompt,
		Settings:     settings,
		UsageTip:     usageTip,
		Metadata:     metadata,
	}
}

// DefaultUsageTip is the tip shown when the reply has no USAGE TIP section.
func DefaultUsageTip(platform string) string {
	return fmt.Sprintf("Copy this prompt into %s and iterate on the output for best results.", platform)
}

// splitSections returns the trimmed body of each section found. A body stops
// at the next header that comes later in canonical order; a header that
// appears out of order stays inside the preceding body.
func splitSections(text string) map[string]string {
	var headers []headerPos
	for _, m := range headerRe.FindAllStringSubmatchIndex(text, -1) {
		name := strings.ToUpper(text[m[2]:m[3]])
		for i, s := range canonicalSections {
			if s == name {
				headers = append(headers, headerPos{section: i, start: m[0], end: m[1]})
				break
			}
		}
	}

	out := make(map[string]string, len(canonicalSections))
	for i, name := range canonicalSections {
		first := -1
		for j, h := range headers {
			if h.section == i {
				first = j
				break
			}
		}
		if first < 0 {
			continue
		}

		from := headers[first].end
		to := len(text)
		for _, h := range headers[first+1:] {
			if h.section > i {
				to = h.start
				break
			}
		}
		out[name] = strings.TrimSpace(text[from:to])
	}
	return out
}

// field finds a "- Key: value" line in body. key is a regexp fragment.
func field(body, key string) string {
	if body == "" {
		return ""
	}
	re := regexp.MustCompile(`(?mi)^[ \t]*(?:[-*][ \t]*)?(?:\*\*)?` + key + `(?:\*\*)?[ \t]*:(?:\*\*)?(.*)$`)
	m := re.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func fieldOr(body, key, def string) string {
	if v := field(body, regexp.QuoteMeta(key)); v != "" {
		return v
	}
	return def
}

// scoreOr parses the leading integer of a metadata value, tolerating an
// opening bracket or bold markers and any trailing text. Results are clamped
// to 0-100.
func scoreOr(body, key string, def int) int {
	v := strings.TrimLeft(field(body, regexp.QuoteMeta(key)), "[* \t")
	raw := leadingInt.FindString(v)
	if raw == "" {
		return def
	}
	// leading zeros do not count toward the length check
	if digits := strings.TrimLeft(raw, "0"); len(digits) > 3 {
		return 100
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	if n > 100 {
		return 100
	}
	return n
}

func splitList(v string) []string {
	out := []string{}
	v = strings.TrimSpace(v)
	v = strings.TrimSuffix(strings.TrimPrefix(v, "["), "]")
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
