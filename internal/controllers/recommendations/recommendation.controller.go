package recommendationController

import (
	"context"
	"errors"
	"fmt"

	. "lunchlog/internal/models"
	"lunchlog/internal/services"
	"lunchlog/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/go-playground/validator/v10"
)

var ErrValidation = errors.New("validation error")

var validate = validator.New()

// RecommendationQuery holds the optional query parameters. Nil means default.
type RecommendationQuery struct {
	Limit                  *int `validate:"omitempty,min=1,max=50"`
	Radius                 *int `validate:"omitempty,min=100,max=50000"`
	PerLocationSearchLimit *int `validate:"omitempty,min=1,max=60"`
}

type RecommendationControllerInterface interface {
	GetRecommendations(
		ctx context.Context,
		user *User,
		kind string,
		query RecommendationQuery,
	) (*types.RecommendationResponse, error)
	GetAllRecommendations(
		ctx context.Context,
		user *User,
		query RecommendationQuery,
	) (*types.AllRecommendationsResponse, error)
}

type RecommendationController struct {
	recommendationService *services.RecommendationService
	log                   logger.Logger
}

func New(services services.Service) RecommendationControllerInterface {
	return &RecommendationController{
		recommendationService: services.Recommendation,
		log:                   logger.New("recommendationController"),
	}
}

func (c *RecommendationController) GetRecommendations(
	ctx context.Context,
	user *User,
	kindParam string,
	query RecommendationQuery,
) (*types.RecommendationResponse, error) {
	log := c.log.Function("GetRecommendations").TraceFromContext(ctx)

	kind, err := types.ParseRecommendationKind(kindParam)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	options, err := buildOptions(query, types.DefaultRecommendationLimit)
	if err != nil {
		return nil, err
	}

	recommendations, err := c.recommendationService.GetRecommendations(ctx, user.ID, kind, options)
	if err != nil {
		return nil, log.Err("failed to get recommendations", err, "userID", user.ID, "kind", kind.String())
	}

	userContext, err := c.recommendationService.GetUserContext(ctx, user.ID)
	if err != nil {
		return nil, log.Err("failed to get user context", err, "userID", user.ID)
	}

	return &types.RecommendationResponse{
		RecommendationType: kind,
		Count:              len(recommendations),
		Recommendations:    recommendations,
		UserContext:        userContext,
	}, nil
}

func (c *RecommendationController) GetAllRecommendations(
	ctx context.Context,
	user *User,
	query RecommendationQuery,
) (*types.AllRecommendationsResponse, error) {
	log := c.log.Function("GetAllRecommendations").TraceFromContext(ctx)

	options, err := buildOptions(query, types.DefaultCombinedLimit)
	if err != nil {
		return nil, err
	}

	bundle, err := c.recommendationService.GetAllRecommendations(ctx, user.ID, options)
	if err != nil {
		return nil, log.Err("failed to get all recommendations", err, "userID", user.ID)
	}

	userContext, err := c.recommendationService.GetUserContext(ctx, user.ID)
	if err != nil {
		return nil, log.Err("failed to get user context", err, "userID", user.ID)
	}

	return &types.AllRecommendationsResponse{
		Recommendations: bundle,
		UserContext:     userContext,
	}, nil
}

func buildOptions(query RecommendationQuery, defaultLimit int) (types.RecommendationOptions, error) {
	if err := validate.Struct(query); err != nil {
		return types.RecommendationOptions{}, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	options := types.DefaultRecommendationOptions()
	options.Limit = defaultLimit
	if query.Limit != nil {
		options.Limit = *query.Limit
	}
	if query.Radius != nil {
		options.Radius = *query.Radius
	}
	if query.PerLocationSearchLimit != nil {
		options.PerLocationLimit = *query.PerLocationSearchLimit
	}

	return options, nil
}
