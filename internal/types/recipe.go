package types

// DefaultServings is used when a suggestion request omits servings.
const DefaultServings = 2

// DefaultLanguage is the language code assumed when a request omits one.
const DefaultLanguage = "en"

// SuggestionRequest is the input to recipe generation
type SuggestionRequest struct {
	Ingredients        []string `json:"ingredients" binding:"required,min=1,dive,required"`
	DietPreferences    []string `json:"diet_preferences"`
	ExcludeIngredients []string `json:"exclude_ingredients"`
	Cuisine            string   `json:"cuisine"`
	Servings           *int     `json:"servings" binding:"omitempty,min=1"`
	Notes              string   `json:"notes"`
	Language           string   `json:"language"`
}

// DesiredServings returns the requested servings or DefaultServings.
func (r *SuggestionRequest) DesiredServings() int {
	if r.Servings == nil || *r.Servings < 1 {
		return DefaultServings
	}
	return *r.Servings
}

// LanguageCode returns the requested language code or DefaultLanguage.
func (r *SuggestionRequest) LanguageCode() string {
	if r.Language == "" {
		return DefaultLanguage
	}
	return r.Language
}

// Ingredient is one line of a generated recipe's ingredient list
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// Instruction is one numbered preparation step
type Instruction struct {
	Step        int    `json:"step"`
	Description string `json:"description"`
}

// GeneratedRecipe is the output of recipe generation, either parsed from the
// model or synthesized by the offline fallback.
type GeneratedRecipe struct {
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Servings        int                `json:"servings"`
	PrepTimeMinutes int                `json:"prep_time_minutes"`
	CookTimeMinutes int                `json:"cook_time_minutes"`
	Ingredients     []Ingredient       `json:"ingredients"`
	Instructions    []Instruction      `json:"instructions"`
	Nutrition       map[string]float64 `json:"nutrition"`
	ShoppingList    []string           `json:"shopping_list"`
	ImagePrompt     string             `json:"image_prompt"`
	ImageURL        *string            `json:"image_url"`
	Source          string             `json:"source"`
	ModelVersion    string             `json:"model_version"`
}

// SourceAI marks a recipe parsed from model output.
const SourceAI = "ai"
