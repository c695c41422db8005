package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/pantry-chef/backend/internal/mocks"
	"github.com/pageza/pantry-chef/backend/internal/service"
	"github.com/pageza/pantry-chef/backend/internal/types"
)

func strPtr(s string) *string { return &s }

func TestRecipeGeneratorWithoutModel(t *testing.T) {
	gen := service.NewRecipeGenerator(nil)
	assert.False(t, gen.Available())

	recipe := gen.Generate(context.Background(), &types.SuggestionRequest{
		Ingredients: []string{"tofu", "Salt", "broccoli", "PEPPER", "garlic"},
	})

	require.NotNil(t, recipe)
	assert.Equal(t, service.ReasonLLMUnavailable, recipe.ModelVersion)
	assert.Equal(t, service.ReasonLLMUnavailable, recipe.Source)
	assert.Equal(t, "Creative tofu, Salt Bowl", recipe.Title)
	assert.Equal(t, []string{"tofu", "broccoli", "garlic"}, recipe.ShoppingList)
	assert.Len(t, recipe.Ingredients, 5)
	for _, ing := range recipe.Ingredients {
		assert.Equal(t, "as needed", ing.Quantity)
	}
}

func TestFallbackRecipe(t *testing.T) {
	t.Run("title from first two ingredients", func(t *testing.T) {
		recipe := service.FallbackRecipe(&types.SuggestionRequest{Ingredients: []string{"tofu", "broccoli"}}, "x")
		assert.Equal(t, "Creative tofu, broccoli Bowl", recipe.Title)
		assert.Equal(t, "Studio photo of Creative tofu, broccoli Bowl, vibrant lighting", recipe.ImagePrompt)
	})

	t.Run("single ingredient", func(t *testing.T) {
		recipe := service.FallbackRecipe(&types.SuggestionRequest{Ingredients: []string{"rice"}}, "x")
		assert.Equal(t, "Creative rice Bowl", recipe.Title)
	})

	t.Run("no ingredients", func(t *testing.T) {
		recipe := service.FallbackRecipe(&types.SuggestionRequest{}, "x")
		assert.Equal(t, "AI Pantry Bowl", recipe.Title)
		assert.Empty(t, recipe.Ingredients)
		assert.Empty(t, recipe.ShoppingList)
		assert.NotNil(t, recipe.ShoppingList)
	})

	t.Run("fixed fields", func(t *testing.T) {
		servings := 5
		recipe := service.FallbackRecipe(&types.SuggestionRequest{Ingredients: []string{"egg"}, Servings: &servings}, "boom")

		assert.Equal(t, 5, recipe.Servings)
		assert.Equal(t, 15, recipe.PrepTimeMinutes)
		assert.Equal(t, 20, recipe.CookTimeMinutes)
		assert.Equal(t, "boom", recipe.ModelVersion)
		assert.NotEmpty(t, recipe.Description)
		assert.Nil(t, recipe.ImageURL)
		assert.Equal(t, map[string]float64{"calories": 450, "protein_g": 24, "carbs_g": 40, "fats_g": 18}, recipe.Nutrition)
		require.Len(t, recipe.Instructions, 3)
		for i, step := range recipe.Instructions {
			assert.Equal(t, i+1, step.Step)
		}
	})

	t.Run("default servings", func(t *testing.T) {
		recipe := service.FallbackRecipe(&types.SuggestionRequest{Ingredients: []string{"egg"}}, "x")
		assert.Equal(t, types.DefaultServings, recipe.Servings)
	})
}

func TestRecipeGeneratorFromModel(t *testing.T) {
	req := &types.SuggestionRequest{Ingredients: []string{"tofu", "broccoli"}}

	t.Run("fenced json is parsed", func(t *testing.T) {
		client := new(mocks.MockModelClient)
		client.On("Invoke", mock.Anything, mock.MatchedBy(func(prompt string) bool {
			return strings.Contains(prompt, "tofu, broccoli")
		})).Return(&service.ModelResponse{Content: "```json\n" + `{
			"title": "Tofu Stir Fry",
			"description": "Quick and crisp",
			"servings": 3,
			"prep_time_minutes": 10,
			"cook_time_minutes": 12,
			"ingredients": [{"name": "tofu", "quantity": "200 g"}],
			"instructions": [{"step": 3, "description": "Fry"}, {"step": 7, "description": "Serve"}],
			"nutrition": {"calories": 380, "protein_g": 21.5},
			"shopping_list": ["tofu"],
			"image_prompt": "stir fry",
			"image_url": "https://img.example/tofu.png",
			"model_version": "gpt-4o-mini"
		}` + "\n```"}, nil)

		recipe := service.NewRecipeGenerator(client).Generate(context.Background(), req)

		assert.Equal(t, "Tofu Stir Fry", recipe.Title)
		assert.Equal(t, "Quick and crisp", recipe.Description)
		assert.Equal(t, 3, recipe.Servings)
		assert.Equal(t, 10, recipe.PrepTimeMinutes)
		assert.Equal(t, 12, recipe.CookTimeMinutes)
		assert.Equal(t, []types.Ingredient{{Name: "tofu", Quantity: "200 g"}}, recipe.Ingredients)
		assert.Equal(t, []types.Instruction{{Step: 3, Description: "Fry"}, {Step: 7, Description: "Serve"}}, recipe.Instructions)
		assert.Equal(t, 21.5, recipe.Nutrition["protein_g"])
		assert.Equal(t, []string{"tofu"}, recipe.ShoppingList)
		require.NotNil(t, recipe.ImageURL)
		assert.Equal(t, "https://img.example/tofu.png", *recipe.ImageURL)
		assert.Equal(t, types.SourceAI, recipe.Source)
		assert.Equal(t, "gpt-4o-mini", recipe.ModelVersion)
		client.AssertExpectations(t)
	})

	t.Run("missing fields take defaults", func(t *testing.T) {
		client := new(mocks.MockModelClient)
		client.On("Invoke", mock.Anything, mock.Anything).Return(&service.ModelResponse{Content: "{}"}, nil)

		recipe := service.NewRecipeGenerator(client).Generate(context.Background(), req)

		assert.Equal(t, "AI Crafted Dish", recipe.Title)
		assert.Equal(t, "", recipe.Description)
		assert.Equal(t, 2, recipe.Servings)
		assert.Equal(t, 15, recipe.PrepTimeMinutes)
		assert.Equal(t, 20, recipe.CookTimeMinutes)
		assert.Empty(t, recipe.Ingredients)
		assert.Empty(t, recipe.Instructions)
		assert.Empty(t, recipe.Nutrition)
		assert.Empty(t, recipe.ShoppingList)
		assert.Nil(t, recipe.ImageURL)
		assert.Equal(t, "openai", recipe.ModelVersion)
		assert.Equal(t, types.SourceAI, recipe.Source)
	})

	t.Run("chunked content is concatenated", func(t *testing.T) {
		client := new(mocks.MockModelClient)
		client.On("Invoke", mock.Anything, mock.Anything).Return(&service.ModelResponse{Chunks: []service.ContentChunk{
			{Type: "text", Text: strPtr(`{"title": "Chunked`)},
			{Type: "image"},
			{Type: "text", Text: strPtr(` Soup"}`)},
		}}, nil)

		recipe := service.NewRecipeGenerator(client).Generate(context.Background(), req)

		assert.Equal(t, "Chunked Soup", recipe.Title)
		assert.Equal(t, types.SourceAI, recipe.Source)
	})

	t.Run("bare string steps are numbered by position", func(t *testing.T) {
		client := new(mocks.MockModelClient)
		client.On("Invoke", mock.Anything, mock.Anything).
			Return(&service.ModelResponse{Content: `{"instructions": ["Chop", "Cook"]}`}, nil)

		recipe := service.NewRecipeGenerator(client).Generate(context.Background(), req)

		assert.Equal(t, []types.Instruction{{Step: 1, Description: "Chop"}, {Step: 2, Description: "Cook"}}, recipe.Instructions)
	})

	t.Run("model error falls back with the error text", func(t *testing.T) {
		client := new(mocks.MockModelClient)
		client.On("Invoke", mock.Anything, mock.Anything).Return(nil, errors.New("upstream timeout"))

		recipe := service.NewRecipeGenerator(client).Generate(context.Background(), req)

		assert.Equal(t, "Creative tofu, broccoli Bowl", recipe.Title)
		assert.Equal(t, "upstream timeout", recipe.ModelVersion)
		assert.Equal(t, "upstream timeout", recipe.Source)
	})

	t.Run("invalid json falls back", func(t *testing.T) {
		client := new(mocks.MockModelClient)
		client.On("Invoke", mock.Anything, mock.Anything).Return(&service.ModelResponse{Content: "Sorry, I cannot help."}, nil)

		recipe := service.NewRecipeGenerator(client).Generate(context.Background(), req)

		assert.Equal(t, "Creative tofu, broccoli Bowl", recipe.Title)
		assert.NotEqual(t, types.SourceAI, recipe.Source)
		assert.NotEmpty(t, recipe.ModelVersion)
	})

	t.Run("non-object json falls back", func(t *testing.T) {
		client := new(mocks.MockModelClient)
		client.On("Invoke", mock.Anything, mock.Anything).Return(&service.ModelResponse{Content: `["a","b"]`}, nil)

		recipe := service.NewRecipeGenerator(client).Generate(context.Background(), req)

		assert.Equal(t, "model returned non-object JSON", recipe.ModelVersion)
	})

	t.Run("trailing data falls back", func(t *testing.T) {
		client := new(mocks.MockModelClient)
		client.On("Invoke", mock.Anything, mock.Anything).Return(&service.ModelResponse{Content: `{"title":"a"} {"title":"b"}`}, nil)

		recipe := service.NewRecipeGenerator(client).Generate(context.Background(), req)

		assert.Equal(t, "Creative tofu, broccoli Bowl", recipe.Title)
	})
}
