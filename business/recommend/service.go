package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"paperScout/business/bandit"
	"paperScout/business/scoring"
	"paperScout/domain"
	"paperScout/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ---- Repository interfaces ----

type PaperRepository interface {
	GetByExternalID(ctx context.Context, externalID string) (*domain.Paper, error)
	GetByCategories(ctx context.Context, categories []string, limit int) ([]domain.Paper, error)
	GetRecent(ctx context.Context, limit int) ([]domain.Paper, error)
}

type ProfileRepository interface {
	BuildUserProfile(ctx context.Context, userID uint) (domain.UserProfile, error)
}

// ProfileCache is optional; a nil miss (nil, nil) means "not cached".
type ProfileCache interface {
	Get(ctx context.Context, userID uint) (*domain.UserProfile, error)
	Set(ctx context.Context, profile domain.UserProfile, ttl time.Duration) error
}

type ExposureRepository interface {
	SaveExposure(ctx context.Context, event domain.RecommendationEvent) error
}

type InteractionRepository interface {
	SaveInteraction(ctx context.Context, in *domain.Interaction) error
}

// Policy is the scoring side of the bandit; satisfied by *bandit.Policy.
type Policy interface {
	Predict(X [][]float64) []float64
	ModelVersion() string
}

// ---- Usecase / Service ----

type Config struct {
	DefaultTopK       int
	DefaultCandidateK int
	ProfileCacheTTL   time.Duration
}

type Service struct {
	papers       PaperRepository
	profiles     ProfileRepository
	cache        ProfileCache
	exposures    ExposureRepository
	interactions InteractionRepository
	policy       Policy
	cfg          Config

	now func() time.Time
}

func NewService(
	papers PaperRepository,
	profiles ProfileRepository,
	cache ProfileCache,
	exposures ExposureRepository,
	interactions InteractionRepository,
	policy Policy,
	cfg Config,
) *Service {
	if cfg.DefaultTopK <= 0 {
		cfg.DefaultTopK = 6
	}
	if cfg.DefaultCandidateK <= 0 {
		cfg.DefaultCandidateK = 100
	}

	return &Service{
		papers:       papers,
		profiles:     profiles,
		cache:        cache,
		exposures:    exposures,
		interactions: interactions,
		policy:       policy,
		cfg:          cfg,
		now:          time.Now,
	}
}

// Options shape a single recommendation request.
type Options struct {
	TopK        int
	CandidateK  int
	BasePaperID string // "more like this" context; excluded from results
	RuleOnly    bool   // skip the bandit rerank
	SkipLog     bool   // do not record an exposure (debug traffic)
}

// Result is one served batch. RecommendationID ties later interactions back
// to this exposure.
type Result struct {
	RecommendationID string
	Mode             string
	Papers           []domain.ScoredPaper
}

// RecommendForUser runs the full pipeline: rule-based candidates, optional
// similarity bonus against a base paper, bandit rerank, exposure log. An
// empty candidate pool yields an empty result without touching the policy.
func (s *Service) RecommendForUser(ctx context.Context, userID uint, opts Options) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("context error: %w", err)
	}

	opts = s.withDefaults(opts)

	profile, err := s.userProfile(ctx, userID)
	if err != nil {
		return Result{}, err
	}

	var base *domain.Paper
	if opts.BasePaperID != "" {
		base, err = s.papers.GetByExternalID(ctx, opts.BasePaperID)
		if err != nil {
			return Result{}, fmt.Errorf("load base paper: %w", err)
		}
	}

	pool, err := s.candidatePool(ctx, profile, opts.BasePaperID)
	if err != nil {
		return Result{}, err
	}

	return s.rank(ctx, userID, profile, pool, base, opts)
}

// RecommendSimilar substitutes a synthetic profile built from the target
// paper's own categories and keywords, then runs the same pipeline against
// papers from those categories.
func (s *Service) RecommendSimilar(ctx context.Context, paperID string, topK int) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("context error: %w", err)
	}

	base, err := s.papers.GetByExternalID(ctx, paperID)
	if err != nil {
		return Result{}, fmt.Errorf("load base paper: %w", err)
	}
	if base == nil {
		return Result{Mode: domain.ModeHybrid, Papers: []domain.ScoredPaper{}}, nil
	}

	profile := domain.UserProfile{
		InterestsKeywords:   base.Keywords,
		InterestsCategories: base.Categories,
	}

	pool := []domain.Paper{}
	if len(base.Categories) > 0 {
		byCategory, err := s.papers.GetByCategories(ctx, base.Categories, 300)
		if err != nil {
			return Result{}, fmt.Errorf("load similar candidates: %w", err)
		}
		for _, p := range byCategory {
			if p.ExternalID() == base.ExternalID() {
				continue
			}
			pool = append(pool, p)
		}
	}

	opts := s.withDefaults(Options{TopK: topK, SkipLog: true})
	return s.rank(ctx, 0, profile, pool, base, opts)
}

// LogInteraction computes the reward for a user action, persists the record,
// and returns it with the reward filled in.
func (s *Service) LogInteraction(ctx context.Context, in domain.Interaction) (domain.Interaction, error) {
	if err := ctx.Err(); err != nil {
		return domain.Interaction{}, fmt.Errorf("context error: %w", err)
	}

	in.Reward = bandit.ComputeReward(in)

	if err := s.interactions.SaveInteraction(ctx, &in); err != nil {
		return domain.Interaction{}, fmt.Errorf("save interaction: %w", err)
	}

	InteractionEventsTotal.WithLabelValues(in.ActionType).Inc()

	logger.Debug("interaction logged",
		"trace_id", TraceIDFromContext(ctx),
		"user_id", in.UserID,
		"paper_id", in.PaperID,
		"action_type", in.ActionType,
		"reward", in.Reward,
	)

	return in, nil
}

// ---- pipeline internals ----

func (s *Service) withDefaults(opts Options) Options {
	if opts.TopK <= 0 {
		opts.TopK = s.cfg.DefaultTopK
	}
	if opts.CandidateK <= 0 {
		opts.CandidateK = s.cfg.DefaultCandidateK
	}
	return opts
}

func (s *Service) userProfile(ctx context.Context, userID uint) (domain.UserProfile, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, userID)
		if err != nil {
			logger.Warn("profile cache read failed", "user_id", userID, "error", err)
		} else if cached != nil {
			return *cached, nil
		}
	}

	profile, err := s.profiles.BuildUserProfile(ctx, userID)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("build user profile: %w", err)
	}

	if s.cache != nil && s.cfg.ProfileCacheTTL > 0 {
		if err := s.cache.Set(ctx, profile, s.cfg.ProfileCacheTTL); err != nil {
			logger.Warn("profile cache write failed", "user_id", userID, "error", err)
		}
	}

	return profile, nil
}

func (s *Service) rank(
	ctx context.Context,
	userID uint,
	profile domain.UserProfile,
	pool []domain.Paper,
	base *domain.Paper,
	opts Options,
) (Result, error) {

	mode := domain.ModeHybrid
	if opts.RuleOnly {
		mode = domain.ModeRuleBased
	}

	if len(pool) == 0 {
		return Result{Mode: mode, Papers: []domain.ScoredPaper{}}, nil
	}

	now := s.now()

	// 1) rule-score the pool and keep the best candidateK
	candidates := make([]domain.ScoredPaper, 0, len(pool))
	for _, p := range pool {
		total, subs := scoring.Score(p, profile, now)

		c := domain.ScoredPaper{Paper: p}
		c = c.Append(domain.ScoreKeyword, subs.Keyword)
		c = c.Append(domain.ScoreCategory, subs.Category)
		c = c.Append(domain.ScorePopularity, subs.Popularity)
		c = c.Append(domain.ScoreRecency, subs.Recency)
		c = c.Rescored(domain.ScoreRuleTotal, total)

		candidates = append(candidates, c)
	}

	sortByScore(candidates)
	if len(candidates) > opts.CandidateK {
		candidates = candidates[:opts.CandidateK]
	}

	// 2) similarity bonus against the base paper, folded into the rule score
	if base != nil {
		for i, c := range candidates {
			bonus := similarityBonus(*base, c.Paper)
			c = c.Append(domain.ScoreSimilarityBonus, bonus)
			c.Score += bonus
			candidates[i] = c
		}
	}

	// 3) features; the last column carries the bonus-adjusted rule score so
	// the fallback predictor ranks exactly like the rule pipeline would
	papers := make([]domain.Paper, len(candidates))
	for i, c := range candidates {
		papers[i] = c.Paper
	}

	X, ids, _ := bandit.BuildFeatures(profile, papers, now)
	for i := range X {
		X[i][bandit.ColRuleTotal] = candidates[i].Score
	}

	// 4) bandit rerank
	if !opts.RuleOnly {
		scores := s.policy.Predict(X)
		for i, c := range candidates {
			candidates[i] = c.Rescored(domain.ScoreBandit, scores[i])
		}
	}

	sortByScore(candidates)
	if len(candidates) > opts.TopK {
		candidates = candidates[:opts.TopK]
	}

	result := Result{Mode: mode, Papers: candidates}

	if !opts.SkipLog {
		result.RecommendationID = s.logExposure(ctx, userID, mode, candidates, X, ids)
	}

	logger.Debug("recommendation served",
		"trace_id", TraceIDFromContext(ctx),
		"user_id", userID,
		"mode", mode,
		"count", len(candidates),
		"recommendation_id", result.RecommendationID,
	)

	return result, nil
}

// logExposure records the served batch for later reward attribution. Failure
// here degrades training data, not the user's response.
func (s *Service) logExposure(
	ctx context.Context,
	userID uint,
	mode string,
	served []domain.ScoredPaper,
	X [][]float64,
	ids []string,
) string {

	rowByID := make(map[string]int, len(ids))
	for i, id := range ids {
		rowByID[id] = i
	}

	event := domain.RecommendationEvent{
		ID:     uuid.NewString(),
		UserID: userID,
		Mode:   mode,
		Items:  make([]domain.RecommendationEventItem, 0, len(served)),
	}

	for pos, c := range served {
		item := domain.RecommendationEventItem{
			EventID:  event.ID,
			PaperID:  c.Paper.ExternalID(),
			Position: pos,
			Score:    c.Score,
		}
		if row, ok := rowByID[item.PaperID]; ok {
			item.Features = datatypes.NewJSONSlice(X[row])
		}
		event.Items = append(event.Items, item)
	}

	if err := s.exposures.SaveExposure(ctx, event); err != nil {
		logger.Warn("exposure log failed", "user_id", userID, "error", err)
		return ""
	}

	return event.ID
}

// sortByScore orders descending; ties keep the incoming order so results
// stay deterministic.
func sortByScore(candidates []domain.ScoredPaper) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
}
