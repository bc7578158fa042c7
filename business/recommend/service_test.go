package recommend

import (
	"context"
	"testing"
	"time"

	"paperScout/business/bandit"
	"paperScout/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// ---- fakes ----

type fakePaperRepo struct {
	byExternal map[string]*domain.Paper
	byCategory []domain.Paper
	recent     []domain.Paper
}

func (f *fakePaperRepo) GetByExternalID(ctx context.Context, externalID string) (*domain.Paper, error) {
	return f.byExternal[externalID], nil
}

func (f *fakePaperRepo) GetByCategories(ctx context.Context, categories []string, limit int) ([]domain.Paper, error) {
	return f.byCategory, nil
}

func (f *fakePaperRepo) GetRecent(ctx context.Context, limit int) ([]domain.Paper, error) {
	return f.recent, nil
}

type fakeProfileRepo struct {
	profile domain.UserProfile
}

func (f *fakeProfileRepo) BuildUserProfile(ctx context.Context, userID uint) (domain.UserProfile, error) {
	return f.profile, nil
}

type fakeExposureRepo struct {
	events []domain.RecommendationEvent
}

func (f *fakeExposureRepo) SaveExposure(ctx context.Context, event domain.RecommendationEvent) error {
	f.events = append(f.events, event)
	return nil
}

type fakeInteractionRepo struct {
	saved []domain.Interaction
}

func (f *fakeInteractionRepo) SaveInteraction(ctx context.Context, in *domain.Interaction) error {
	in.ID = uint(len(f.saved) + 1)
	f.saved = append(f.saved, *in)
	return nil
}

// fallbackPolicy mirrors the unloaded bandit: scores are the last feature
// column.
type fallbackPolicy struct {
	calls int
}

func (p *fallbackPolicy) Predict(X [][]float64) []float64 {
	p.calls++
	scores := make([]float64, len(X))
	for i, row := range X {
		scores[i] = row[len(row)-1]
	}
	return scores
}

func (p *fallbackPolicy) ModelVersion() string { return "" }

// reversePolicy inverts the rule ordering so reranking is observable.
type reversePolicy struct{}

func (reversePolicy) Predict(X [][]float64) []float64 {
	scores := make([]float64, len(X))
	for i, row := range X {
		scores[i] = -row[len(row)-1]
	}
	return scores
}

func (reversePolicy) ModelVersion() string { return "v1" }

// ---- fixtures ----

var serviceNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func paperFixture(id uint, arxivID string, cats, kws []string) domain.Paper {
	updated := serviceNow.AddDate(0, 0, -10)
	return domain.Paper{
		ID:         id,
		ArxivID:    arxivID,
		Title:      "paper " + arxivID,
		Categories: datatypes.NewJSONSlice(cats),
		Keywords:   datatypes.NewJSONSlice(kws),
		UpdateDate: &updated,
	}
}

func newTestService(papers *fakePaperRepo, profile domain.UserProfile, policy Policy) (*Service, *fakeExposureRepo, *fakeInteractionRepo) {
	exposures := &fakeExposureRepo{}
	interactions := &fakeInteractionRepo{}

	svc := NewService(
		papers,
		&fakeProfileRepo{profile: profile},
		nil,
		exposures,
		interactions,
		policy,
		Config{DefaultTopK: 6, DefaultCandidateK: 100},
	)
	svc.now = func() time.Time { return serviceNow }

	return svc, exposures, interactions
}

// ---- tests ----

func TestRecommendForUserEmptyPool(t *testing.T) {
	policy := &fallbackPolicy{}
	svc, exposures, _ := newTestService(&fakePaperRepo{}, domain.UserProfile{}, policy)

	res, err := svc.RecommendForUser(context.Background(), 1, Options{})
	require.NoError(t, err)

	assert.Empty(t, res.Papers)
	assert.Empty(t, res.RecommendationID)
	assert.Equal(t, domain.ModeHybrid, res.Mode)
	assert.Zero(t, policy.calls)
	assert.Empty(t, exposures.events)
}

func TestRecommendForUserRanksByRuleScore(t *testing.T) {
	profile := domain.UserProfile{
		InterestsKeywords:   []string{"bandits"},
		InterestsCategories: []string{"cs.LG"},
	}
	papers := &fakePaperRepo{
		byCategory: []domain.Paper{
			paperFixture(1, "a1", []string{"cs.NI"}, nil),                 // no overlap
			paperFixture(2, "a2", []string{"cs.LG"}, []string{"bandits"}), // full overlap
			paperFixture(3, "a3", []string{"cs.LG"}, nil),                 // category only
		},
	}

	svc, exposures, _ := newTestService(papers, profile, &fallbackPolicy{})

	res, err := svc.RecommendForUser(context.Background(), 1, Options{})
	require.NoError(t, err)

	require.Len(t, res.Papers, 3)
	assert.Equal(t, "a2", res.Papers[0].Paper.ArxivID)
	assert.Equal(t, "a3", res.Papers[1].Paper.ArxivID)
	assert.Equal(t, "a1", res.Papers[2].Paper.ArxivID)

	// exposure was logged with the features actually served
	require.Len(t, exposures.events, 1)
	event := exposures.events[0]
	assert.Equal(t, res.RecommendationID, event.ID)
	assert.NotEmpty(t, event.ID)
	require.Len(t, event.Items, 3)
	for pos, item := range event.Items {
		assert.Equal(t, pos, item.Position)
		assert.Len(t, item.Features, bandit.FeatureDim)
		assert.Equal(t, res.Papers[pos].Paper.ArxivID, item.PaperID)
	}
}

func TestRecommendForUserFallbackMatchesRuleOrder(t *testing.T) {
	profile := domain.UserProfile{
		InterestsKeywords:   []string{"bandits", "rewards"},
		InterestsCategories: []string{"cs.LG", "cs.IR"},
	}
	papers := &fakePaperRepo{
		byCategory: []domain.Paper{
			paperFixture(1, "a1", []string{"cs.LG"}, []string{"bandits"}),
			paperFixture(2, "a2", []string{"cs.IR"}, []string{"rewards"}),
			paperFixture(3, "a3", []string{"cs.LG", "cs.IR"}, []string{"bandits", "rewards"}),
			paperFixture(4, "a4", nil, nil),
		},
	}

	svcHybrid, _, _ := newTestService(papers, profile, &fallbackPolicy{})
	svcRule, _, _ := newTestService(papers, profile, &fallbackPolicy{})

	hybrid, err := svcHybrid.RecommendForUser(context.Background(), 1, Options{})
	require.NoError(t, err)
	rule, err := svcRule.RecommendForUser(context.Background(), 1, Options{RuleOnly: true})
	require.NoError(t, err)

	require.Len(t, hybrid.Papers, len(rule.Papers))
	for i := range rule.Papers {
		assert.Equal(t, rule.Papers[i].Paper.ArxivID, hybrid.Papers[i].Paper.ArxivID, "rank %d", i)
	}

	assert.Equal(t, domain.ModeRuleBased, rule.Mode)
	assert.Equal(t, domain.ModeHybrid, hybrid.Mode)
}

func TestRecommendForUserBanditReranks(t *testing.T) {
	profile := domain.UserProfile{
		InterestsKeywords:   []string{"bandits"},
		InterestsCategories: []string{"cs.LG"},
	}
	papers := &fakePaperRepo{
		byCategory: []domain.Paper{
			paperFixture(1, "a1", []string{"cs.LG"}, []string{"bandits"}),
			paperFixture(2, "a2", []string{"cs.LG"}, nil),
		},
	}

	svc, _, _ := newTestService(papers, profile, reversePolicy{})

	res, err := svc.RecommendForUser(context.Background(), 1, Options{})
	require.NoError(t, err)

	// the reversing policy flips the rule order
	require.Len(t, res.Papers, 2)
	assert.Equal(t, "a2", res.Papers[0].Paper.ArxivID)
	assert.Equal(t, "a1", res.Papers[1].Paper.ArxivID)

	// rule components survive the rerank
	top := res.Papers[0]
	_, ok := top.Component(domain.ScoreRuleTotal)
	assert.True(t, ok)
	banditScore, ok := top.Component(domain.ScoreBandit)
	assert.True(t, ok)
	assert.Equal(t, banditScore, top.Score)
}

func TestRecommendForUserTopKTruncation(t *testing.T) {
	profile := domain.UserProfile{InterestsCategories: []string{"cs.LG"}}

	var pool []domain.Paper
	for i := uint(1); i <= 10; i++ {
		pool = append(pool, paperFixture(i, "", []string{"cs.LG"}, nil))
	}
	papers := &fakePaperRepo{byCategory: pool}

	svc, _, _ := newTestService(papers, profile, &fallbackPolicy{})

	res, err := svc.RecommendForUser(context.Background(), 1, Options{TopK: 3})
	require.NoError(t, err)
	assert.Len(t, res.Papers, 3)
}

func TestRecommendForUserExcludesBookmarked(t *testing.T) {
	profile := domain.UserProfile{
		InterestsCategories: []string{"cs.LG"},
		BookmarkedPaperIDs:  []uint{2},
	}
	papers := &fakePaperRepo{
		byCategory: []domain.Paper{
			paperFixture(1, "a1", []string{"cs.LG"}, nil),
			paperFixture(2, "a2", []string{"cs.LG"}, nil),
		},
	}

	svc, _, _ := newTestService(papers, profile, &fallbackPolicy{})

	res, err := svc.RecommendForUser(context.Background(), 1, Options{})
	require.NoError(t, err)

	require.Len(t, res.Papers, 1)
	assert.Equal(t, "a1", res.Papers[0].Paper.ArxivID)
}

func TestRecommendForUserSimilarityBonus(t *testing.T) {
	base := paperFixture(100, "base", []string{"cs.LG", "cs.IR", "stat.ML"}, []string{"bandits"})
	profile := domain.UserProfile{InterestsCategories: []string{"cs.LG"}}

	papers := &fakePaperRepo{
		byExternal: map[string]*domain.Paper{"base": &base},
		byCategory: []domain.Paper{
			paperFixture(1, "a1", []string{"cs.LG", "cs.IR", "stat.ML"}, []string{"bandits"}), // 3 cats + 1 kw
			paperFixture(2, "a2", []string{"cs.LG"}, nil),                                     // 1 cat
		},
	}

	svc, _, _ := newTestService(papers, profile, &fallbackPolicy{})

	res, err := svc.RecommendForUser(context.Background(), 1, Options{BasePaperID: "base"})
	require.NoError(t, err)

	require.Len(t, res.Papers, 2)

	b1, ok := res.Papers[0].Component(domain.ScoreSimilarityBonus)
	require.True(t, ok)
	assert.InDelta(t, 0.35, b1, 1e-9) // 0.30 + 0.05

	b2, ok := res.Papers[1].Component(domain.ScoreSimilarityBonus)
	require.True(t, ok)
	assert.InDelta(t, 0.10, b2, 1e-9)
}

func TestRecommendForUserExcludesBasePaper(t *testing.T) {
	base := paperFixture(100, "base", []string{"cs.LG"}, nil)
	profile := domain.UserProfile{InterestsCategories: []string{"cs.LG"}}

	papers := &fakePaperRepo{
		byExternal: map[string]*domain.Paper{"base": &base},
		byCategory: []domain.Paper{
			base,
			paperFixture(1, "a1", []string{"cs.LG"}, nil),
		},
	}

	svc, _, _ := newTestService(papers, profile, &fallbackPolicy{})

	res, err := svc.RecommendForUser(context.Background(), 1, Options{BasePaperID: "base"})
	require.NoError(t, err)

	require.Len(t, res.Papers, 1)
	assert.Equal(t, "a1", res.Papers[0].Paper.ArxivID)
}

func TestRecommendForUserSkipLog(t *testing.T) {
	profile := domain.UserProfile{InterestsCategories: []string{"cs.LG"}}
	papers := &fakePaperRepo{
		byCategory: []domain.Paper{paperFixture(1, "a1", []string{"cs.LG"}, nil)},
	}

	svc, exposures, _ := newTestService(papers, profile, &fallbackPolicy{})

	res, err := svc.RecommendForUser(context.Background(), 1, Options{SkipLog: true})
	require.NoError(t, err)

	assert.Empty(t, res.RecommendationID)
	assert.Empty(t, exposures.events)
}

func TestRecommendSimilar(t *testing.T) {
	base := paperFixture(100, "base", []string{"cs.LG"}, []string{"bandits"})
	papers := &fakePaperRepo{
		byExternal: map[string]*domain.Paper{"base": &base},
		byCategory: []domain.Paper{
			base, // must be excluded
			paperFixture(1, "a1", []string{"cs.LG"}, []string{"bandits"}),
			paperFixture(2, "a2", []string{"cs.LG"}, nil),
		},
	}

	svc, exposures, _ := newTestService(papers, domain.UserProfile{}, &fallbackPolicy{})

	res, err := svc.RecommendSimilar(context.Background(), "base", 5)
	require.NoError(t, err)

	require.Len(t, res.Papers, 2)
	assert.Equal(t, "a1", res.Papers[0].Paper.ArxivID)
	// similar-papers traffic never logs exposures
	assert.Empty(t, exposures.events)
}

func TestRecommendSimilarUnknownBase(t *testing.T) {
	svc, _, _ := newTestService(&fakePaperRepo{}, domain.UserProfile{}, &fallbackPolicy{})

	res, err := svc.RecommendSimilar(context.Background(), "nope", 5)
	require.NoError(t, err)
	assert.Empty(t, res.Papers)
}

func TestLogInteraction(t *testing.T) {
	svc, _, interactions := newTestService(&fakePaperRepo{}, domain.UserProfile{}, &fallbackPolicy{})

	d := 5.0
	saved, err := svc.LogInteraction(context.Background(), domain.Interaction{
		UserID:     1,
		PaperID:    "a1",
		ActionType: domain.ActionClick,
		DwellTime:  &d,
	})
	require.NoError(t, err)

	assert.InDelta(t, 1.3, saved.Reward, 1e-9)
	require.Len(t, interactions.saved, 1)
	assert.InDelta(t, 1.3, interactions.saved[0].Reward, 1e-9)
}

func TestLogInteractionUnknownActionAccepted(t *testing.T) {
	svc, _, interactions := newTestService(&fakePaperRepo{}, domain.UserProfile{}, &fallbackPolicy{})

	saved, err := svc.LogInteraction(context.Background(), domain.Interaction{
		UserID:     1,
		PaperID:    "a1",
		ActionType: "share",
	})
	require.NoError(t, err)

	assert.Zero(t, saved.Reward)
	assert.Len(t, interactions.saved, 1)
}

func TestSimilarityBonusTiers(t *testing.T) {
	mk := func(cats, kws []string) domain.Paper {
		return domain.Paper{
			Categories: datatypes.NewJSONSlice(cats),
			Keywords:   datatypes.NewJSONSlice(kws),
		}
	}

	base := mk([]string{"cs.LG", "cs.IR", "stat.ML"}, []string{"bandits", "rewards", "policies"})

	cases := []struct {
		name      string
		candidate domain.Paper
		want      float64
	}{
		{"nothing shared", mk([]string{"cs.NI"}, []string{"routing"}), 0.0},
		{"one category", mk([]string{"cs.LG"}, nil), 0.10},
		{"two categories", mk([]string{"cs.LG", "cs.IR"}, nil), 0.20},
		{"three categories", mk([]string{"cs.LG", "cs.IR", "stat.ML"}, nil), 0.30},
		{"one keyword", mk(nil, []string{"bandits"}), 0.05},
		{"two keywords", mk(nil, []string{"bandits", "rewards"}), 0.10},
		{"three keywords", mk(nil, []string{"bandits", "rewards", "policies"}), 0.15},
		{"max everything", base, 0.45},
		{"case insensitive", mk([]string{"CS.LG"}, []string{"Bandits"}), 0.15},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, similarityBonus(base, tc.candidate), 1e-9)
		})
	}
}
