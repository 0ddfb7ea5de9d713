package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/whoami669/my-bot/ai"
	"github.com/whoami669/my-bot/models"

	log "github.com/sirupsen/logrus"
)

const (
	promotionMaxTokens   = 1000
	promotionTemperature = 0.8
)

// PromotionPlatforms and PromotionContentTypes are the accepted /promote choices
var (
	PromotionPlatforms    = []string{"reddit", "tiktok", "twitter", "instagram"}
	PromotionContentTypes = []string{"general", "event", "milestone", "feature"}
)

type promotionResponse struct {
	Caption       string   `json:"caption"`
	Hashtags      []string `json:"hashtags"`
	ImagePrompt   string   `json:"image_prompt"`
	CallToAction  string   `json:"call_to_action"`
	PlatformNotes string   `json:"platform_notes"`
}

type promotionService struct {
	uowFactory UnitOfWorkFactory
	llm        LLM
}

// NewPromotionService creates a new promotion service
func NewPromotionService(uowFactory UnitOfWorkFactory, llm LLM) PromotionService {
	return &promotionService{uowFactory: uowFactory, llm: llm}
}

// Generate writes and stores a promotional post. A failed image generation
// does not fail the request.
func (s *promotionService) Generate(ctx context.Context, req models.PromotionRequest) (*models.GeneratedContent, error) {
	platform := strings.ToLower(req.Platform)
	if !slices.Contains(PromotionPlatforms, platform) {
		return nil, fmt.Errorf("%w: platform %q", ErrUnknownOption, req.Platform)
	}
	contentType := strings.ToLower(req.ContentType)
	if contentType == "" {
		contentType = "general"
	}
	if !slices.Contains(PromotionContentTypes, contentType) {
		return nil, fmt.Errorf("%w: content type %q", ErrUnknownOption, req.ContentType)
	}

	var resp promotionResponse
	if err := s.llm.CompleteJSON(ctx, ai.CompletionRequest{
		System:      ai.PromotionSystem(platform),
		Messages:    []ai.Message{{Role: ai.RoleUser, Content: ai.PromotionPrompt(req.Server, platform, contentType)}},
		MaxTokens:   promotionMaxTokens,
		Temperature: promotionTemperature,
		Kind:        "promotion",
	}, &resp); err != nil {
		return nil, err
	}
	if resp.Caption == "" {
		return nil, ai.ErrEmptyResponse
	}

	content := &models.GeneratedContent{
		GuildID:       req.GuildID,
		RequestedBy:   req.RequestedBy,
		Platform:      platform,
		ContentType:   contentType,
		Caption:       resp.Caption,
		Hashtags:      normalizeHashtags(resp.Hashtags),
		ImagePrompt:   resp.ImagePrompt,
		CallToAction:  resp.CallToAction,
		PlatformNotes: resp.PlatformNotes,
	}

	if req.WithImage && resp.ImagePrompt != "" {
		url, err := s.llm.GenerateImage(ctx, resp.ImagePrompt)
		switch {
		case err == nil:
			content.ImageURL = &url
		case errors.Is(err, context.Canceled):
			return nil, err
		default:
			log.WithFields(log.Fields{
				"guild":    req.GuildID,
				"platform": platform,
				"error":    err,
			}).Warn("Promotional image generation failed")
		}
	}

	uow := s.uowFactory.CreateForGuild(req.GuildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.ContentRepository().Create(ctx, content); err != nil {
		return nil, fmt.Errorf("failed to store generated content: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return content, nil
}

// normalizeHashtags drops empty tags and ensures each starts with '#'
func normalizeHashtags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || tag == "#" {
			continue
		}
		if !strings.HasPrefix(tag, "#") {
			tag = "#" + tag
		}
		out = append(out, tag)
	}
	return out
}
