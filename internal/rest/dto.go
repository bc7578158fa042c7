package rest

import (
	"paperScout/domain"
)

type ResponseError struct {
	Message string `json:"message"`
}

// PaperRecommendation is the outward shape of one recommended paper.
type PaperRecommendation struct {
	PaperID     string             `json:"paper_id"`
	Title       string             `json:"title,omitempty"`
	Authors     string             `json:"authors,omitempty"`
	Abstract    string             `json:"abstract,omitempty"`
	Categories  []string           `json:"categories"`
	Keywords    []string           `json:"keywords,omitempty"`
	Year        int                `json:"year,omitempty"`
	ExternalURL string             `json:"external_url,omitempty"`
	Score       float64            `json:"score"`
	Breakdown   map[string]float64 `json:"breakdown"`
}

type RecommendationResponse struct {
	UserID           uint                  `json:"user_id,omitempty"`
	RecommendationID string                `json:"recommendation_id,omitempty"`
	Mode             string                `json:"mode"`
	Count            int                   `json:"count"`
	Results          []PaperRecommendation `json:"results"`
}

func toPaperRecommendation(c domain.ScoredPaper) PaperRecommendation {
	p := c.Paper

	out := PaperRecommendation{
		PaperID:    p.ExternalID(),
		Title:      p.Title,
		Authors:    p.Authors,
		Abstract:   p.Abstract,
		Categories: p.Categories,
		Keywords:   p.Keywords,
		Score:      c.Score,
		Breakdown:  c.ComponentMap(),
	}

	if p.UpdateDate != nil {
		out.Year = p.UpdateDate.Year()
	}
	if p.ArxivID != "" {
		out.ExternalURL = "https://arxiv.org/pdf/" + p.ArxivID + ".pdf"
	}

	return out
}

func toRecommendationResponse(userID uint, recommendationID, mode string, papers []domain.ScoredPaper) RecommendationResponse {
	results := make([]PaperRecommendation, 0, len(papers))
	for _, c := range papers {
		results = append(results, toPaperRecommendation(c))
	}

	return RecommendationResponse{
		UserID:           userID,
		RecommendationID: recommendationID,
		Mode:             mode,
		Count:            len(results),
		Results:          results,
	}
}
