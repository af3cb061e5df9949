package server

import (
	"codeberg.org/tslocum/bgmatch"
	"github.com/jlouis/glicko2"
)

// Ratings are stored multiplied by 100.
const initialRating = 150000

const (
	ratingDeviation         = 50
	opponentRatingDeviation = 30
	ratingVolatility        = 0.06
	ratingTau               = 0.6
)

type ratingPlayer struct {
	r       float64
	rd      float64
	sigma   float64
	outcome float64
}

func (p ratingPlayer) R() float64 {
	return p.r
}

func (p ratingPlayer) RD() float64 {
	return p.rd
}

func (p ratingPlayer) Sigma() float64 {
	return p.sigma
}

func (p ratingPlayer) SJ() float64 {
	return p.outcome
}

// rateMatch returns the ratings of white and black after a match won by
// winner.
func rateMatch(white int, black int, winner bgmatch.Color) (int, int) {
	whiteRating, blackRating := float64(white)/100, float64(black)/100

	whiteOutcome, blackOutcome := 1.0, 0.0
	if winner == bgmatch.Black {
		whiteOutcome, blackOutcome = 0.0, 1.0
	}
	whiteNew, _, _ := glicko2.Rank(whiteRating, ratingDeviation, ratingVolatility, []glicko2.Opponent{ratingPlayer{blackRating, opponentRatingDeviation, ratingVolatility, whiteOutcome}}, ratingTau)
	blackNew, _, _ := glicko2.Rank(blackRating, ratingDeviation, ratingVolatility, []glicko2.Opponent{ratingPlayer{whiteRating, opponentRatingDeviation, ratingVolatility, blackOutcome}}, ratingTau)
	return int(whiteNew * 100), int(blackNew * 100)
}
