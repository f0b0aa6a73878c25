package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/pantryapp/pantry-server/internal/domain"
	"github.com/pantryapp/pantry-server/internal/service"
)

func (s *Server) registerRecipeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listRecipes",
		Method:      http.MethodGet,
		Path:        "/api/v1/recipes",
		Summary:     "List recipes",
		Description: "Returns the current user's recipes, newest first",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListRecipes)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createRecipe",
		Method:        http.MethodPost,
		Path:          "/api/v1/recipes",
		Summary:       "Create recipe",
		Description:   "Creates a recipe for the current user, attaching tags by name",
		Tags:          []string{"Recipes"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRecipe",
		Method:      http.MethodGet,
		Path:        "/api/v1/recipes/{id}",
		Summary:     "Get recipe",
		Description: "Returns a recipe by ID",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "replaceRecipe",
		Method:      http.MethodPut,
		Path:        "/api/v1/recipes/{id}",
		Summary:     "Replace recipe",
		Description: "Replaces every field of a recipe. Omitting tags keeps the current associations.",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReplaceRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateRecipe",
		Method:      http.MethodPatch,
		Path:        "/api/v1/recipes/{id}",
		Summary:     "Update recipe",
		Description: "Updates a recipe. Only provided fields are changed; providing tags replaces the tag set.",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteRecipe",
		Method:        http.MethodDelete,
		Path:          "/api/v1/recipes/{id}",
		Summary:       "Delete recipe",
		Description:   "Deletes a recipe. Tags that were attached to it are kept.",
		Tags:          []string{"Recipes"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteRecipe)
}

// === DTOs ===

// TagRef references a tag by name in recipe payloads.
type TagRef struct {
	Name string `json:"name" minLength:"1" maxLength:"255" doc:"Tag name"`
}

// RecipeSummary is the projection used by the list endpoint.
type RecipeSummary struct {
	ID          string        `json:"id" doc:"Recipe ID"`
	Title       string        `json:"title" doc:"Recipe title"`
	TimeMinutes int           `json:"time_minutes" doc:"Preparation time in minutes"`
	Price       string        `json:"price" doc:"Price as a fixed-point decimal string"`
	Link        string        `json:"link,omitempty" doc:"External link"`
	Tags        []TagResponse `json:"tags" doc:"Attached tags"`
}

// RecipeDetail is the projection used by single-recipe endpoints.
type RecipeDetail struct {
	RecipeSummary
	Description string    `json:"description" doc:"Recipe description"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

// ListRecipesInput contains parameters for listing recipes.
type ListRecipesInput struct {
	Authorization string `header:"Authorization"`
}

// ListRecipesResponse contains a list of recipe summaries.
type ListRecipesResponse struct {
	Recipes []RecipeSummary `json:"recipes" doc:"List of recipes, newest first"`
}

// ListRecipesOutput wraps the list recipes response for Huma.
type ListRecipesOutput struct {
	Body ListRecipesResponse
}

// CreateRecipeRequest is the request body for creating a recipe.
// The user field is accepted but ignored; ownership always comes from
// the access token.
type CreateRecipeRequest struct {
	Title       string   `json:"title" minLength:"1" maxLength:"255" doc:"Recipe title"`
	Description string   `json:"description,omitempty" doc:"Recipe description"`
	TimeMinutes int      `json:"time_minutes" minimum:"0" doc:"Preparation time in minutes"`
	Price       string   `json:"price" doc:"Price as a fixed-point decimal string"`
	Link        string   `json:"link,omitempty" maxLength:"255" doc:"External link"`
	Tags        []TagRef `json:"tags,omitempty" doc:"Tags to attach, by name"`
	User        string   `json:"user,omitempty" doc:"Ignored; ownership comes from the access token"`
}

// CreateRecipeInput wraps the create recipe request for Huma.
type CreateRecipeInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateRecipeRequest
}

// RecipeOutput wraps the recipe detail response for Huma.
type RecipeOutput struct {
	Body RecipeDetail
}

// GetRecipeInput contains parameters for getting a recipe.
type GetRecipeInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Recipe ID"`
}

// ReplaceRecipeRequest is the request body for fully replacing a recipe.
// Every scalar field must be supplied; link is cleared by sending an
// explicit empty string, never by omission.
type ReplaceRecipeRequest struct {
	Title       string    `json:"title" minLength:"1" maxLength:"255" doc:"Recipe title"`
	Description string    `json:"description" doc:"Recipe description"`
	TimeMinutes int       `json:"time_minutes" minimum:"0" doc:"Preparation time in minutes"`
	Price       string    `json:"price" doc:"Price as a fixed-point decimal string"`
	Link        string    `json:"link" maxLength:"255" doc:"External link; empty string clears it"`
	Tags        *[]TagRef `json:"tags,omitempty" doc:"Tags to attach, by name; omit to keep current"`
	User        string    `json:"user,omitempty" doc:"Ignored; ownership comes from the access token"`
}

// ReplaceRecipeInput wraps the replace recipe request for Huma.
type ReplaceRecipeInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Recipe ID"`
	Body          ReplaceRecipeRequest
}

// UpdateRecipeRequest is the request body for partially updating a recipe.
type UpdateRecipeRequest struct {
	Title       *string   `json:"title,omitempty" minLength:"1" maxLength:"255" doc:"Recipe title"`
	Description *string   `json:"description,omitempty" doc:"Recipe description"`
	TimeMinutes *int      `json:"time_minutes,omitempty" minimum:"0" doc:"Preparation time in minutes"`
	Price       *string   `json:"price,omitempty" doc:"Price as a fixed-point decimal string"`
	Link        *string   `json:"link,omitempty" maxLength:"255" doc:"External link"`
	Tags        *[]TagRef `json:"tags,omitempty" doc:"Replacement tag set, by name; empty list detaches all"`
	User        string    `json:"user,omitempty" doc:"Ignored; ownership comes from the access token"`
}

// UpdateRecipeInput wraps the update recipe request for Huma.
type UpdateRecipeInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Recipe ID"`
	Body          UpdateRecipeRequest
}

// DeleteRecipeInput contains parameters for deleting a recipe.
type DeleteRecipeInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Recipe ID"`
}

// DeleteRecipeOutput is the empty response for a successful delete.
type DeleteRecipeOutput struct{}

// === Handlers ===

func (s *Server) handleListRecipes(ctx context.Context, input *ListRecipesInput) (*ListRecipesOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	recipes, err := s.services.Recipe.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]RecipeSummary, len(recipes))
	for i, r := range recipes {
		resp[i] = mapRecipeSummary(r)
	}

	return &ListRecipesOutput{Body: ListRecipesResponse{Recipes: resp}}, nil
}

func (s *Server) handleCreateRecipe(ctx context.Context, input *CreateRecipeInput) (*RecipeOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	recipe, err := s.services.Recipe.Create(ctx, userID, service.CreateRecipeRequest{
		Title:       input.Body.Title,
		Description: input.Body.Description,
		Minutes:     input.Body.TimeMinutes,
		Price:       input.Body.Price,
		Link:        input.Body.Link,
		Tags:        tagRefNames(input.Body.Tags),
	})
	if err != nil {
		return nil, err
	}

	return &RecipeOutput{Body: mapRecipeDetail(recipe)}, nil
}

func (s *Server) handleGetRecipe(ctx context.Context, input *GetRecipeInput) (*RecipeOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	recipe, err := s.services.Recipe.Get(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}

	return &RecipeOutput{Body: mapRecipeDetail(recipe)}, nil
}

func (s *Server) handleReplaceRecipe(ctx context.Context, input *ReplaceRecipeInput) (*RecipeOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	recipe, err := s.services.Recipe.Replace(ctx, input.ID, userID, service.ReplaceRecipeRequest{
		Title:       input.Body.Title,
		Description: input.Body.Description,
		Minutes:     input.Body.TimeMinutes,
		Price:       input.Body.Price,
		Link:        input.Body.Link,
		Tags:        tagRefNamesPtr(input.Body.Tags),
	})
	if err != nil {
		return nil, err
	}

	return &RecipeOutput{Body: mapRecipeDetail(recipe)}, nil
}

func (s *Server) handleUpdateRecipe(ctx context.Context, input *UpdateRecipeInput) (*RecipeOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	recipe, err := s.services.Recipe.Update(ctx, input.ID, userID, service.UpdateRecipeRequest{
		Title:       input.Body.Title,
		Description: input.Body.Description,
		Minutes:     input.Body.TimeMinutes,
		Price:       input.Body.Price,
		Link:        input.Body.Link,
		Tags:        tagRefNamesPtr(input.Body.Tags),
	})
	if err != nil {
		return nil, err
	}

	return &RecipeOutput{Body: mapRecipeDetail(recipe)}, nil
}

func (s *Server) handleDeleteRecipe(ctx context.Context, input *DeleteRecipeInput) (*DeleteRecipeOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Recipe.Delete(ctx, input.ID, userID); err != nil {
		return nil, err
	}

	return &DeleteRecipeOutput{}, nil
}

// === Helpers ===

func tagRefNames(refs []TagRef) []string {
	if refs == nil {
		return nil
	}
	names := make([]string, len(refs))
	for i, ref := range refs {
		names[i] = ref.Name
	}
	return names
}

func tagRefNamesPtr(refs *[]TagRef) *[]string {
	if refs == nil {
		return nil
	}
	names := tagRefNames(*refs)
	if names == nil {
		names = []string{}
	}
	return &names
}

func mapRecipeSummary(r *domain.Recipe) RecipeSummary {
	tags := make([]TagResponse, len(r.Tags))
	for i, t := range r.Tags {
		tags[i] = mapTagResponse(&t)
	}

	return RecipeSummary{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.Minutes,
		Price:       r.Price.StringFixed(2),
		Link:        r.Link,
		Tags:        tags,
	}
}

func mapRecipeDetail(r *domain.Recipe) RecipeDetail {
	return RecipeDetail{
		RecipeSummary: mapRecipeSummary(r),
		Description:   r.Description,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
