package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pageza/pantry-chef/backend/internal/logger"
	"github.com/pageza/pantry-chef/backend/internal/types"
)

// ReasonLLMUnavailable tags fallback recipes produced without a model.
const ReasonLLMUnavailable = "llm-unavailable"

// Defaults applied to fields the model leaves out
const (
	defaultTitle        = "AI Crafted Dish"
	defaultPrepMinutes  = 15
	defaultCookMinutes  = 20
	defaultModelVersion = "openai"
)

const (
	fallbackDescription = "A comforting dish generated offline because the AI model is unavailable."
	fallbackTitle       = "AI Pantry Bowl"
	fallbackQuantity    = "as needed"
)

var fallbackSteps = []string{
	"Prep all ingredients by chopping into bite-sized pieces.",
	"Sauté aromatics, add remaining ingredients, and cook until tender.",
	"Season to taste, plate, and garnish with herbs or seeds.",
}

// pantry staples left off the fallback shopping list
var pantryStaples = map[string]struct{}{"salt": {}, "pepper": {}}

var errNotObject = errors.New("model returned non-object JSON")

// RecipeGenerator turns a suggestion request into a recipe. It never fails:
// any problem with the model degrades to a labeled fallback recipe.
type RecipeGenerator struct {
	client ModelClient
}

var _ IRecipeGenerator = (*RecipeGenerator)(nil)

// NewRecipeGenerator creates a generator. A nil client means no model is
// configured and every call returns the fallback recipe.
func NewRecipeGenerator(client ModelClient) *RecipeGenerator {
	return &RecipeGenerator{client: client}
}

// Available reports whether a model client is configured.
func (g *RecipeGenerator) Available() bool {
	return g.client != nil
}

// Generate produces a recipe for req.
func (g *RecipeGenerator) Generate(ctx context.Context, req *types.SuggestionRequest) *types.GeneratedRecipe {
	if g.client == nil {
		return FallbackRecipe(req, ReasonLLMUnavailable)
	}

	recipe, err := g.fromModel(ctx, req)
	if err != nil {
		logger.Warn("recipe generation fell back", zap.Error(err))
		return FallbackRecipe(req, err.Error())
	}
	return recipe
}

func (g *RecipeGenerator) fromModel(ctx context.Context, req *types.SuggestionRequest) (*types.GeneratedRecipe, error) {
	resp, err := g.client.Invoke(ctx, BuildPrompt(req))
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(NormalizeModelOutput(resp.Text()))))
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("model output has trailing data after JSON value")
	}
	data, ok := payload.(map[string]any)
	if !ok {
		return nil, errNotObject
	}
	return recipeFromPayload(data), nil
}

func recipeFromPayload(data map[string]any) *types.GeneratedRecipe {
	recipe := &types.GeneratedRecipe{
		Title:           stringOr(data["title"], defaultTitle),
		Description:     stringOr(data["description"], ""),
		Servings:        intOr(data["servings"], types.DefaultServings),
		PrepTimeMinutes: intOr(data["prep_time_minutes"], defaultPrepMinutes),
		CookTimeMinutes: intOr(data["cook_time_minutes"], defaultCookMinutes),
		Ingredients:     ingredientsFrom(data["ingredients"]),
		Instructions:    instructionsFrom(data["instructions"]),
		Nutrition:       nutritionFrom(data["nutrition"]),
		ShoppingList:    stringsFrom(data["shopping_list"]),
		ImagePrompt:     stringOr(data["image_prompt"], ""),
		Source:          types.SourceAI,
		ModelVersion:    stringOr(data["model_version"], defaultModelVersion),
	}
	if url, ok := data["image_url"].(string); ok && url != "" {
		recipe.ImageURL = &url
	}
	return recipe
}

// FallbackRecipe synthesizes a structurally complete recipe from the request
// alone. reason is recorded as both source and model version.
func FallbackRecipe(req *types.SuggestionRequest, reason string) *types.GeneratedRecipe {
	title := fallbackTitle
	if len(req.Ingredients) > 0 {
		head := req.Ingredients
		if len(head) > 2 {
			head = head[:2]
		}
		title = fmt.Sprintf("Creative %s Bowl", strings.Join(head, ", "))
	}

	ingredients := make([]types.Ingredient, 0, len(req.Ingredients))
	shopping := make([]string, 0, len(req.Ingredients))
	for _, item := range req.Ingredients {
		ingredients = append(ingredients, types.Ingredient{Name: item, Quantity: fallbackQuantity})
		if _, staple := pantryStaples[strings.ToLower(item)]; !staple {
			shopping = append(shopping, item)
		}
	}

	steps := make([]types.Instruction, len(fallbackSteps))
	for i, description := range fallbackSteps {
		steps[i] = types.Instruction{Step: i + 1, Description: description}
	}

	return &types.GeneratedRecipe{
		Title:           title,
		Description:     fallbackDescription,
		Servings:        req.DesiredServings(),
		PrepTimeMinutes: defaultPrepMinutes,
		CookTimeMinutes: defaultCookMinutes,
		Ingredients:     ingredients,
		Instructions:    steps,
		Nutrition: map[string]float64{
			"calories":  450,
			"protein_g": 24,
			"carbs_g":   40,
			"fats_g":    18,
		},
		ShoppingList: shopping,
		ImagePrompt:  fmt.Sprintf("Studio photo of %s, vibrant lighting", title),
		Source:       reason,
		ModelVersion: reason,
	}
}

func stringOr(v any, fallback string) string {
	switch s := v.(type) {
	case nil:
		return fallback
	case string:
		return s
	case json.Number:
		return s.String()
	default:
		return fmt.Sprint(s)
	}
}

func numberFrom(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func intOr(v any, fallback int) int {
	f, ok := numberFrom(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	return int(f)
}

func ingredientsFrom(v any) []types.Ingredient {
	items, _ := v.([]any)
	out := make([]types.Ingredient, 0, len(items))
	for _, item := range items {
		switch entry := item.(type) {
		case map[string]any:
			out = append(out, types.Ingredient{
				Name:     stringOr(entry["name"], ""),
				Quantity: stringOr(entry["quantity"], ""),
			})
		case string:
			out = append(out, types.Ingredient{Name: entry})
		}
	}
	return out
}

// instructionsFrom passes model step numbers through unchanged. Bare string
// steps are numbered by position.
func instructionsFrom(v any) []types.Instruction {
	items, _ := v.([]any)
	out := make([]types.Instruction, 0, len(items))
	for i, item := range items {
		switch entry := item.(type) {
		case map[string]any:
			out = append(out, types.Instruction{
				Step:        intOr(entry["step"], i+1),
				Description: stringOr(entry["description"], ""),
			})
		case string:
			out = append(out, types.Instruction{Step: i + 1, Description: entry})
		}
	}
	return out
}

func nutritionFrom(v any) map[string]float64 {
	values, _ := v.(map[string]any)
	out := make(map[string]float64, len(values))
	for key, raw := range values {
		if f, ok := numberFrom(raw); ok {
			out[key] = f
		}
	}
	return out
}

func stringsFrom(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		out = append(out, stringOr(item, ""))
	}
	return out
}
