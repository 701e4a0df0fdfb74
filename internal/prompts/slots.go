// Package prompts builds the image-model prompt for each photoshoot slot.
// Every slot is a table entry pairing a vision-model customization step with
// a deterministic fallback, so prompt composition can never fail a campaign.
package prompts

import (
	"regexp"
	"strings"

	"admaker/internal/domain"
)

// SlotKind distinguishes how a slot's prompt gets built.
type SlotKind int

const (
	// KindTemplate substitutes a short vision-derived phrase into a fixed template.
	KindTemplate SlotKind = iota
	// KindGenerated asks the vision model to author the whole prompt from a meta-prompt.
	KindGenerated
)

// SlotDef describes one photoshoot concept. For template slots the vision
// output replaces Placeholder inside Template, with DefaultFill used when the
// output fails Validate. For generated slots the vision output is the whole
// prompt and Fallback is used instead.
type SlotDef struct {
	Type         domain.AdType
	Kind         SlotKind
	Template     string
	Placeholder  string
	DefaultFill  string
	VisionPrompt string
	Validate     func(string) bool
	Fallback     string
}

const backdropPlaceholder = "(off-white, light gray, beige, blush, or neutral tone)"

const studioTemplate = `Ultra-realistic professional product photoshoot.

The product must remain EXACTLY identical to the reference image:
same shape, proportions, colors, buttons, dials, textures, logos.
Do NOT alter, redraw, stylize, or regenerate the product.

Scene:
High-end studio product photography with cinematic realism.
The product is placed naturally on a studio surface with correct perspective.
No real-world environment, no interior, no lifestyle context.
This is a controlled studio setup, not a real location.

Background:
Single-color or very soft gradient studio backdrop ` + backdropPlaceholder + `.
Subtle physical studio texture visible (paper backdrop, painted wall, matte seamless, or fine grain).
Background must look photographed, not generated.
No objects, no scenery, no room elements, no horizon line.

Lighting:
Professional studio lighting setup.
Soft key light from the side, gentle fill light, subtle rim light to separate the product from the background.
Realistic light falloff and natural shadow gradients.
Accurate shadow grounding under the product (contact shadow + soft cast shadow).
No flat lighting, no overexposure, no artificial glow.

Camera:
Shot with a professional DSLR or mirrorless camera.
85mm lens look, realistic perspective compression.
Shallow but natural depth of field, sharp focus on the product.
Real lens behavior, no distortion.

Style:
Premium e-commerce studio photography.
Photorealistic, natural, believable.
No illustration style, no CGI look, no plastic smoothing.

Constraints:
No extra objects.
No warping.
No melting edges.
No fake reflections.
No stylized or cartoon elements.
Ultra-realistic result indistinguishable from a real studio photoshoot.`

const interiorPlaceholder = "realistic modern loft interior background"

const studio2Template = `Ultra-realistic professional product photoshoot in a styled interior.

The product must remain EXACTLY identical to the reference image:
same shape, proportions, colors, buttons, dials, textures, logos.
Do NOT alter, redraw, stylize, or regenerate the product.

Scene:
The product stands on a clean surface in front of a ` + interiorPlaceholder + `.
The interior is softly blurred, only suggesting depth and atmosphere.
The product is the unmistakable hero of the frame.

Lighting:
Natural window light mixed with soft studio fill.
Gentle directional shadows, realistic light falloff.
No overexposure, no artificial glow.

Camera:
Shot with a professional mirrorless camera.
50mm lens look, eye-level framing, shallow depth of field.
Sharp focus on the product, background softly out of focus.

Style:
Premium lifestyle-adjacent product photography.
Photorealistic, natural, believable.
No illustration style, no CGI look.

Constraints:
No people.
No extra products.
No warping or melting edges.
No text overlays.
Ultra-realistic result indistinguishable from a real photoshoot.`

var interiorPattern = regexp.MustCompile(`(?i)^realistic modern .+ background$`)

const visionSuggestionPreamble = "You are a senior art director preparing an AI product photoshoot. Look at the product in the reference image.\n\n"

func generatedPromptValid(markers ...string) func(string) bool {
	return func(s string) bool {
		if len(s) < 160 {
			return false
		}
		lower := strings.ToLower(s)
		if !strings.Contains(lower, "ultra-realistic") {
			return false
		}
		if !strings.Contains(lower, "reference image") && !strings.Contains(lower, "product") {
			return false
		}
		for _, m := range markers {
			if !strings.Contains(lower, strings.ToLower(m)) {
				return false
			}
		}
		return true
	}
}

var slotDefs = []SlotDef{
	{
		Type:        domain.AdTypeStudio,
		Kind:        KindTemplate,
		Template:    studioTemplate,
		Placeholder: backdropPlaceholder,
		DefaultFill: backdropPlaceholder,
		VisionPrompt: visionSuggestionPreamble +
			"Suggest a studio backdrop color palette that flatters this product. " +
			"Answer with ONLY a short parenthetical list of 2-4 color names, for example: (warm sand, ivory, pale terracotta). " +
			"No other text.",
		Validate: func(s string) bool {
			return len(s) >= 3 && strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
		},
	},
	{
		Type:        domain.AdTypeStudio2,
		Kind:        KindTemplate,
		Template:    studio2Template,
		Placeholder: interiorPlaceholder,
		DefaultFill: interiorPlaceholder,
		VisionPrompt: visionSuggestionPreamble +
			"Suggest one interior setting that suits this product. " +
			"Answer with ONLY a phrase of the exact form \"realistic modern <interior type> background\", for example: " +
			"\"realistic modern scandinavian kitchen background\". No other text.",
		Validate: func(s string) bool {
			return len(s) >= 10 && len(s) <= 100 && interiorPattern.MatchString(s)
		},
	},
	{
		Type: domain.AdTypeContextual,
		Kind: KindGenerated,
		VisionPrompt: visionSuggestionPreamble +
			"Write a complete image-generation prompt showing this product in its natural context of use, mid-action. " +
			"The prompt must include these sections: a product-identity preservation instruction (the product must remain " +
			"EXACTLY identical to the reference image), Scene, Lighting, Camera, Style, Constraints. " +
			"It must demand an ultra-realistic photographic result and forbid fantasy or surreal elements. " +
			"Return ONLY the prompt text.",
		Validate: generatedPromptValid(),
		Fallback: `Ultra-realistic photograph of the product from the reference image in its natural context of use.

The product must remain EXACTLY identical to the reference image:
same shape, proportions, colors, textures, logos.
Do NOT alter, redraw, stylize, or regenerate the product.

Scene:
The product is shown mid-use in the environment it was designed for, surrounded by the believable props of that activity.
The composition tells a small story of the product doing its job.

Lighting:
Natural light appropriate to the scene, realistic shadows, accurate light falloff.

Camera:
Professional mirrorless camera, 35mm reportage framing, sharp focus on the product.

Style:
Editorial product-in-context photography. Photorealistic, natural, believable.

Constraints:
No fantasy or surreal elements.
No warping, no melting edges, no extra logos.
Ultra-realistic result indistinguishable from a real photograph.`,
	},
	{
		Type: domain.AdTypeLifestyle,
		Kind: KindGenerated,
		VisionPrompt: visionSuggestionPreamble +
			"Write a complete image-generation prompt showing a person naturally using or enjoying this product in an aspirational everyday moment. " +
			"The prompt must include these sections: a product-identity preservation instruction (the product must remain " +
			"EXACTLY identical to the reference image), Scene, Lighting, Camera, Style, Constraints. " +
			"It must demand an ultra-realistic photographic result and forbid fantasy or surreal elements. " +
			"Return ONLY the prompt text.",
		Validate: generatedPromptValid(),
		Fallback: `Ultra-realistic lifestyle photograph of the product from the reference image being enjoyed in an everyday moment.

The product must remain EXACTLY identical to the reference image:
same shape, proportions, colors, textures, logos.
Do NOT alter, redraw, stylize, or regenerate the product.

Scene:
A person naturally interacts with the product in a warm, aspirational everyday setting.
The person's hands and posture are anatomically correct; the product stays the visual anchor.

Lighting:
Soft golden-hour or window light, realistic skin tones, natural shadows.

Camera:
Professional mirrorless camera, 50mm lens, candid framing, shallow depth of field.

Style:
Premium lifestyle brand photography. Photorealistic, natural, believable.

Constraints:
No fantasy or surreal elements.
No distorted anatomy, no warping, no extra logos.
Ultra-realistic result indistinguishable from a real photograph.`,
	},
	{
		Type: domain.AdTypeCreative,
		Kind: KindGenerated,
		VisionPrompt: visionSuggestionPreamble +
			"Write a complete image-generation prompt placing this product in a surprising but physically plausible setting a viewer would not expect, to stop the scroll. " +
			"The prompt must include these sections: a product-identity preservation instruction (the product must remain " +
			"EXACTLY identical to the reference image), Scene, Lighting, Camera, Style, Constraints. " +
			"It must demand an ultra-realistic photographic result and forbid fantasy or surreal elements. " +
			"Return ONLY the prompt text.",
		Validate: generatedPromptValid(),
		Fallback: `Ultra-realistic photograph of the product from the reference image in an unexpected yet physically plausible setting.

The product must remain EXACTLY identical to the reference image:
same shape, proportions, colors, textures, logos.
Do NOT alter, redraw, stylize, or regenerate the product.

Scene:
The product appears in a striking, conversation-starting location that still obeys real-world physics, scale, and materials.
The surprise comes from the setting, never from distorting the product.

Lighting:
Dramatic but realistic natural or practical light, true shadows, accurate reflections.

Camera:
Professional camera, bold composition, sharp focus on the product.

Style:
High-concept advertising photography. Photorealistic, natural, believable.

Constraints:
No fantasy or surreal elements.
No floating objects, no impossible physics, no warping.
Ultra-realistic result indistinguishable from a real photograph.`,
	},
	{
		Type: domain.AdTypeUGCStyler,
		Kind: KindGenerated,
		VisionPrompt: visionSuggestionPreamble +
			"Write a complete image-generation prompt for a casual UGC-style smartphone photo of this product, the kind a happy customer would post. " +
			"The prompt must include these sections: a product-identity preservation instruction (the product must remain " +
			"EXACTLY identical to the reference image), Scene, Lighting, Camera, Style, Constraints. " +
			"It must demand an ultra-realistic result, mention UGC, and forbid fantasy or surreal elements. " +
			"Return ONLY the prompt text.",
		Validate: generatedPromptValid("ugc"),
		Fallback: `Ultra-realistic UGC-style smartphone photo of the product from the reference image, as a happy customer would post it.

The product must remain EXACTLY identical to the reference image:
same shape, proportions, colors, textures, logos.
Do NOT alter, redraw, stylize, or regenerate the product.

Scene:
Casual at-home setting with lived-in, slightly imperfect styling.
The product sits where a real customer would actually put it.

Lighting:
Ambient indoor light or daylight from a window, slightly uneven, authentic.

Camera:
Modern smartphone camera look: handheld framing, mild wide-angle, natural grain.

Style:
Authentic user-generated content. Photorealistic, unpolished, believable.

Constraints:
No studio-perfect lighting, no fantasy or surreal elements.
No warping, no extra logos, no text overlays.
Ultra-realistic result indistinguishable from a real customer photo.`,
	},
	{
		Type: domain.AdTypeCinematic,
		Kind: KindGenerated,
		VisionPrompt: visionSuggestionPreamble +
			"Write a complete image-generation prompt for a cinematic hero shot of this product, like a frame from a high-budget commercial. " +
			"The prompt must include these sections: a product-identity preservation instruction (the product must remain " +
			"EXACTLY identical to the reference image), Scene, Lighting, Camera, Style, Constraints. " +
			"It must demand an ultra-realistic result, mention cinematic framing, and forbid fantasy or surreal elements. " +
			"Return ONLY the prompt text.",
		Validate: generatedPromptValid("cinematic"),
		Fallback: `Ultra-realistic cinematic hero shot of the product from the reference image, like a frame from a high-budget commercial.

The product must remain EXACTLY identical to the reference image:
same shape, proportions, colors, textures, logos.
Do NOT alter, redraw, stylize, or regenerate the product.

Scene:
The product dominates a moody, atmospheric set with depth and haze, framed like a film still.

Lighting:
Cinematic three-point lighting with strong key, deep shadows, and a colored practical accent.
Realistic volumetric light, no artificial glow.

Camera:
Anamorphic lens look, 2.39:1 style framing within the canvas, shallow depth of field, sharp focus on the product.

Style:
Premium commercial film photography. Photorealistic, dramatic, believable.

Constraints:
No fantasy or surreal elements.
No warping, no melting edges, no lens flare clichés.
Ultra-realistic result indistinguishable from a real film frame.`,
	},
}

// SlotsForCount maps a shot count to its fixed ordered slot subset. Counts
// outside the closed set return false.
func SlotsForCount(n int) ([]SlotDef, bool) {
	switch n {
	case 3:
		return slotDefs[:3], true
	case 5:
		return slotDefs[:5], true
	case 7:
		return slotDefs[:7], true
	default:
		return nil, false
	}
}
