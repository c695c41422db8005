package service

import (
	"fmt"
	"strings"

	"github.com/pageza/pantry-chef/backend/internal/types"
)

const (
	languageEnglish = "English"
	languageSerbian = "Serbian"
	codeSerbian     = "sr"
)

var languageNames = map[string]string{
	"en": languageEnglish,
	"sr": languageSerbian,
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"ru": "Russian",
	"zh": "Chinese",
	"ja": "Japanese",
	"ko": "Korean",
}

// serbianIndicators are characters that only show up in Serbian text among
// the supported languages.
const serbianIndicators = "ćčđšžњљџ"

// LanguageName resolves a language code to the name used in the prompt.
// Unknown codes resolve to English.
func LanguageName(code string) string {
	if name, ok := languageNames[strings.ToLower(strings.TrimSpace(code))]; ok {
		return name
	}
	return languageEnglish
}

// DetectLanguageOverride returns the language code the prompt should use.
// Serbian input is detected only when the caller left the language at the
// default; an explicit choice is never overridden.
func DetectLanguageOverride(ingredients []string, notes, requested string) string {
	if requested == "" {
		requested = types.DefaultLanguage
	}
	if requested != types.DefaultLanguage {
		return requested
	}
	text := strings.ToLower(strings.Join(ingredients, ", ") + " " + notes)
	if strings.ContainsAny(text, serbianIndicators) {
		return codeSerbian
	}
	return requested
}

func languageInstruction(language string) string {
	if language == languageEnglish {
		return ""
	}
	return fmt.Sprintf(
		"IMPORTANT: Respond entirely in %[1]s language. All text fields (title, description, ingredient names, "+
			"instructions, shopping_list) must be in %[1]s. Only numeric values (servings, prep_time_minutes, "+
			"cook_time_minutes, nutrition values) should remain as numbers. ",
		language,
	)
}

func joinOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ", ")
}

// BuildPrompt renders the single instruction string sent to the model.
func BuildPrompt(req *types.SuggestionRequest) string {
	ingredients := strings.Join(req.Ingredients, ", ")
	diet := joinOr(req.DietPreferences, "no specific diet")
	exclude := joinOr(req.ExcludeIngredients, "none")
	cuisine := req.Cuisine
	if cuisine == "" {
		cuisine = "chef's choice"
	}

	language := LanguageName(DetectLanguageOverride(req.Ingredients, req.Notes, req.LanguageCode()))

	var b strings.Builder
	b.WriteString("You are an experienced private chef and nutritionist. ")
	b.WriteString(languageInstruction(language))
	b.WriteString("Generate a JSON response with keys: title, description, servings, prep_time_minutes, " +
		"cook_time_minutes, ingredients (list of {name, quantity}), instructions (list of {step, description}), " +
		"nutrition (calories, protein_g, carbs_g, fats_g), shopping_list (list of strings) and image_prompt. " +
		"Use the following context:\n")
	fmt.Fprintf(&b, "- Ingredients available: %s\n", ingredients)
	fmt.Fprintf(&b, "- Dietary preferences: %s\n", diet)
	fmt.Fprintf(&b, "- Exclude ingredients: %s\n", exclude)
	fmt.Fprintf(&b, "- Cuisine inspiration: %s\n", cuisine)
	fmt.Fprintf(&b, "- Desired servings: %d\n", req.DesiredServings())
	b.WriteString("Ensure the JSON is valid and concise. Return ONLY the JSON object with no commentary or code fences.")
	return b.String()
}
