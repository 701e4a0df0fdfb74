package prompts

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// VisionBackend is the text-capable model used to customize prompts per product.
type VisionBackend interface {
	Complete(ctx context.Context, image []byte, mimeType, prompt string) (string, error)
}

// Composer turns a slot definition plus a product photo into the final prompt
// for the image model. The vision backend is untrusted: its output is
// validated against the slot's contract and replaced by the slot's fallback
// on any failure, so Compose never errors.
type Composer struct {
	vision VisionBackend
	logger zerolog.Logger
}

// NewComposer builds a Composer. A nil vision backend is allowed and simply
// forces every slot onto its fallback.
func NewComposer(vision VisionBackend, logger *zerolog.Logger) *Composer {
	l := zerolog.Nop()
	if logger != nil {
		l = *logger
	}
	return &Composer{vision: vision, logger: l}
}

// Compose returns the prompt for one slot. Vision failures degrade to the
// deterministic fallback and are logged at warn level.
func (c *Composer) Compose(ctx context.Context, slot SlotDef, image []byte, mimeType string) string {
	suggestion, ok := c.suggest(ctx, slot, image, mimeType)

	switch slot.Kind {
	case KindTemplate:
		fill := slot.DefaultFill
		if ok {
			fill = suggestion
		}
		return strings.Replace(slot.Template, slot.Placeholder, fill, 1)
	default:
		if ok {
			return suggestion
		}
		return slot.Fallback
	}
}

func (c *Composer) suggest(ctx context.Context, slot SlotDef, image []byte, mimeType string) (string, bool) {
	if c.vision == nil {
		return "", false
	}

	raw, err := c.vision.Complete(ctx, image, mimeType, slot.VisionPrompt)
	if err != nil {
		c.logger.Warn().
			Str("ad_type", string(slot.Type)).
			Err(err).
			Msg("vision suggestion failed, using fallback")
		return "", false
	}

	cleaned := strings.TrimSpace(raw)
	if slot.Validate != nil && !slot.Validate(cleaned) {
		c.logger.Warn().
			Str("ad_type", string(slot.Type)).
			Int("response_len", len(cleaned)).
			Msg("vision suggestion rejected by validator, using fallback")
		return "", false
	}

	return cleaned, true
}
