package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ramadanhub/backend/internal/domain"
	"github.com/ramadanhub/backend/internal/repository"
	"github.com/ramadanhub/backend/pkg/llm"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Provider is the slice of the LLM client the generation service needs.
type Provider interface {
	ChatCompletion(ctx context.Context, system, user string) (string, error)
	ChatJSON(ctx context.Context, system, user string) (json.RawMessage, error)
	GenerateImage(ctx context.Context, prompt string) (*llm.ImageResult, error)
	ChatModel() string
}

// GenerationService validates feature requests, invokes the LLM provider and
// records an audit row per call. It runs strictly after the entitlement gate
// has allowed the request.
type GenerationService struct {
	provider  Provider
	templates *repository.TemplateRepository
	log       *repository.GenerationRepository
	validate  *validator.Validate
}

// NewGenerationService creates a new GenerationService.
func NewGenerationService(
	provider Provider,
	templates *repository.TemplateRepository,
	genLog *repository.GenerationRepository,
) *GenerationService {
	return &GenerationService{
		provider:  provider,
		templates: templates,
		log:       genLog,
		validate:  validator.New(),
	}
}

// TestGate issues a minimal provider round trip. It backs the diagnostic
// gate endpoint: cheap, but a real provider call so the full allow path is
// exercised end to end.
func (s *GenerationService) TestGate(ctx context.Context, userID string) (map[string]any, error) {
	start := time.Now()
	reply, err := s.provider.ChatCompletion(ctx, "You are a connectivity check.", "Reply with the single word: ok")
	s.record(ctx, userID, domain.FeatureTestGate, err, start)
	if err != nil {
		return nil, fmt.Errorf("provider: %w", err)
	}
	return map[string]any{"message": strings.TrimSpace(reply)}, nil
}

// FamilyPhoto renders a family photo composite from a costume/party template
// and the caller's photo references.
func (s *GenerationService) FamilyPhoto(ctx context.Context, userID string, req *domain.FamilyPhotoRequest) (*domain.FamilyPhotoResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.ErrValidation(formatValidationErrors(err))
	}

	tmpl, err := s.templates.FindByID(ctx, req.TemplateID)
	if err != nil {
		return nil, domain.ErrInternal("failed to load template", err)
	}
	if tmpl == nil {
		return nil, domain.ErrBadRequest("unknown template")
	}

	attire := "wearing festive Ramadan attire"
	setting := "a festive Ramadan home with lanterns and crescent decorations"
	switch tmpl.Kind {
	case domain.TemplateCostume:
		attire = tmpl.Prompt
	case domain.TemplateParty:
		setting = tmpl.Prompt
	}

	prompt := fmt.Sprintf(
		"A joyful family portrait of %d people, %s, set in %s. Photorealistic, warm Ramadan atmosphere, consistent faces matching the reference photos.",
		len(req.PhotoURLs), attire, setting,
	)
	if req.Note != "" {
		prompt += " " + req.Note
	}

	start := time.Now()
	img, err := s.provider.GenerateImage(ctx, prompt)
	s.record(ctx, userID, domain.FeatureFamilyPhoto, err, start)
	if err != nil {
		return nil, fmt.Errorf("provider: %w", err)
	}

	return &domain.FamilyPhotoResult{
		ImageBase64: img.Base64,
		MimeType:    img.MimeType,
		Prompt:      prompt,
	}, nil
}

// MealPlan generates a structured suhoor/iftar plan via JSON-mode completion.
func (s *GenerationService) MealPlan(ctx context.Context, userID string, req *domain.MealPlanRequest) (*domain.MealPlanResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.ErrValidation(formatValidationErrors(err))
	}

	system := `You are a Ramadan meal planner. Respond with a JSON object of the form
{"days":[{"day":1,"suhoor":"...","iftar":"...","notes":"...","grocery":["..."]}]}.
No text outside the JSON object.`

	user := fmt.Sprintf("Plan %d days for a household of %d.", req.Days, req.HouseholdSize)
	if len(req.Dietary) > 0 {
		user += " Dietary requirements: " + strings.Join(req.Dietary, ", ") + "."
	}
	if req.Cuisine != "" {
		user += " Preferred cuisine: " + req.Cuisine + "."
	}

	start := time.Now()
	raw, err := s.provider.ChatJSON(ctx, system, user)
	s.record(ctx, userID, domain.FeatureMealPlan, err, start)
	if err != nil {
		return nil, fmt.Errorf("provider: %w", err)
	}

	var result domain.MealPlanResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("provider: malformed meal plan: %w", err)
	}
	return &result, nil
}

// GiftIdeas generates gift recommendations from recipient attributes.
func (s *GenerationService) GiftIdeas(ctx context.Context, userID string, req *domain.GiftIdeasRequest) (*domain.GiftIdeasResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.ErrValidation(formatValidationErrors(err))
	}

	system := `You are an Eid gift adviser. Respond with a JSON object of the form
{"ideas":[{"title":"...","why":"...","budget":"..."}]} with 3 to 6 ideas.
No text outside the JSON object.`

	user := fmt.Sprintf("Recipient: %s.", req.Recipient)
	if req.Age > 0 {
		user += fmt.Sprintf(" Age: %d.", req.Age)
	}
	if len(req.Interests) > 0 {
		user += " Interests: " + strings.Join(req.Interests, ", ") + "."
	}
	if req.BudgetUSD > 0 {
		user += fmt.Sprintf(" Budget: about $%d.", req.BudgetUSD)
	}

	start := time.Now()
	raw, err := s.provider.ChatJSON(ctx, system, user)
	s.record(ctx, userID, domain.FeatureGiftIdeas, err, start)
	if err != nil {
		return nil, fmt.Errorf("provider: %w", err)
	}

	var result domain.GiftIdeasResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("provider: malformed gift ideas: %w", err)
	}
	return &result, nil
}

// record writes the audit row; failures are logged, never surfaced.
func (s *GenerationService) record(ctx context.Context, userID string, feature domain.FeatureKey, provErr error, start time.Time) {
	if s.log == nil {
		return
	}
	status := domain.GenerationSucceeded
	if provErr != nil {
		status = domain.GenerationFailed
	}
	gen := &domain.Generation{
		ID:         uuid.New().String(),
		UserID:     userID,
		Feature:    feature,
		Model:      s.provider.ChatModel(),
		Status:     status,
		DurationMS: time.Since(start).Milliseconds(),
		CreatedAt:  time.Now(),
	}
	if err := s.log.Record(ctx, gen); err != nil {
		log.Printf("failed to record generation: %v", err)
	}
}

// formatValidationErrors flattens validator errors into a short message.
func formatValidationErrors(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return "invalid request"
	}
	var parts []string
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
