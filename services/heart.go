package services

import (
	"finance-gamification/models"
)

// AdjustHeart moves the heart score by delta with saturating arithmetic;
// the result always stays inside [0,100]. Never fails.
func AdjustHeart(p *models.GamificationProfile, delta int) {
	h := p.HeartLevel + delta
	if h > 100 {
		h = 100
	}
	if h < 0 {
		h = 0
	}
	p.HeartLevel = h
}
