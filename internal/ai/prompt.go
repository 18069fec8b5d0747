// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"fmt"
	"strings"
)

// Mode selects which of the two fixed edit instructions is built.
type Mode string

const (
	// ModeGrounded keeps the original room and scene and changes only the
	// sofa's upholstery (Italian UI name: "ambientato").
	ModeGrounded Mode = "ambientato"

	// ModeIsolated removes the background entirely and places the sofa on
	// a neutral studio backdrop (Italian UI name: "scontornato").
	ModeIsolated Mode = "scontornato"
)

// ParseMode maps the wire-level outputMode value to a Mode. Only the exact
// value "scontornato" selects isolated mode; everything else, including an
// empty string, is grounded.
func ParseMode(outputMode string) Mode {
	if outputMode == string(ModeIsolated) {
		return ModeIsolated
	}
	return ModeGrounded
}

// DualImageDescription is the fabric description used for the two-image
// request shape, where the second image is the fabric sample to apply.
const DualImageDescription = "Replace the sofa upholstery with the exact fabric shown in the " +
	"second image (the fabric sample). Match its color, texture, weave and sheen precisely."

const groundedTemplate = `You are an expert interior designer and professional photo editor.

I have an image of a sofa/couch. EDIT this image to change ONLY the upholstery/fabric of the sofa.

%s

CRITICAL REQUIREMENTS:
- Keep the EXACT same sofa shape, design and dimensions
- Keep the EXACT same room/background and camera angle
- Keep all other furniture and objects unchanged
- Only change the fabric texture and color of the sofa
- OUTPUT MUST BE HIGH RESOLUTION and photorealistic quality
- Maintain proper lighting, shadows and reflections on the new fabric
- The fabric should have realistic texture detail
- Match the lighting conditions of the original photo
- Keep all fine details sharp and clear

Generate the edited image at the highest possible quality.`

const isolatedTemplate = `You are an expert photo editor and product photographer.

I have an image of a sofa/couch. I need you to:
1. ISOLATE the sofa from the background (remove the background completely)
2. Place the sofa on a clean, neutral LIGHT GRAY studio background (#E5E5E5 or similar)
3. Change the sofa upholstery: %s

CRITICAL REQUIREMENTS:
- Remove ALL background elements - room, walls, floor, other furniture
- Place sofa on a clean, seamless light gray gradient studio background
- Keep the EXACT same sofa shape, design and proportions
- Change only the fabric texture and color as specified
- Add soft, professional studio lighting
- Add subtle soft shadow under the sofa for realism
- OUTPUT MUST BE HIGH RESOLUTION and photorealistic quality
- The result should look like a professional product photo for e-commerce

Generate the edited image at the highest possible quality.`

// BuildInstruction produces the full edit instruction sent to the provider.
// It is a pure function: the same mode and description always yield the same
// string. An empty description still produces a syntactically valid
// instruction; rejecting it is the caller's concern.
func BuildInstruction(mode Mode, description string) string {
	if mode == ModeIsolated {
		return fmt.Sprintf(isolatedTemplate, description)
	}
	return fmt.Sprintf(groundedTemplate, description)
}

// FabricDescription builds the upholstery description from a selected color
// and fabric. When the fabric carries a texture-prompt fragment from the
// catalog, it is appended to enrich the material rendering.
func FabricDescription(colorName, fabricName, texturePrompt string) string {
	desc := fmt.Sprintf("Change the sofa upholstery to %s %s.", colorName, fabricName)
	if tp := strings.TrimSpace(texturePrompt); tp != "" {
		desc += " " + tp
	}
	return desc + " Keep the exact same sofa shape and background."
}
