package scoring

import (
	"github.com/guessroom/guessroom/internal/dependencies/random"
	"github.com/guessroom/guessroom/internal/model"
)

// Service scores guesses against a room's hidden target
type Service struct{}

// New creates a new scoring Service
func New() *Service {
	return &Service{}
}

// Score computes the match counts for a guess against a target of equal
// length. correctPositionCount is the number of indices where the digits
// agree. correctCount is the size of the multiset intersection of the two
// digit strings, so every positional match is also counted and
// correctPositionCount <= correctCount <= len(target). Both strings must
// be the same length; callers validate before scoring.
func (s *Service) Score(guess, target string) (correctCount, correctPositionCount int) {
	var guessCounts, targetCounts [10]int

	for i := 0; i < len(guess); i++ {
		if guess[i] == target[i] {
			correctPositionCount++
		}
		guessCounts[guess[i]-'0']++
		targetCounts[target[i]-'0']++
	}

	// Multiset intersection over digits 0-9. A naive remove-matched scan
	// undercounts when the guess repeats digits; min() per digit does not.
	for d := 0; d < 10; d++ {
		if guessCounts[d] < targetCounts[d] {
			correctCount += guessCounts[d]
		} else {
			correctCount += targetCounts[d]
		}
	}

	return correctCount, correctPositionCount
}

// IsWinning reports whether a scored guess is a full-position match
func (s *Service) IsWinning(guess model.Guess, targetDigits int) bool {
	return guess.CorrectPositionCount == targetDigits
}

// GenerateTarget produces a target of the given length using the injected
// randomness source. Digits are independent: duplicates and leading zeros
// are allowed.
func (s *Service) GenerateTarget(rnd random.Random, digits int) string {
	return rnd.Digits(digits)
}

// ValidateGuess checks a submitted guess against the room's target length.
// It returns model.ErrInvalidGuessFormat when the length differs or any
// character is not a decimal digit.
func (s *Service) ValidateGuess(number string, targetDigits int) error {
	if len(number) != targetDigits {
		return model.ErrInvalidGuessFormat
	}
	for i := 0; i < len(number); i++ {
		if number[i] < '0' || number[i] > '9' {
			return model.ErrInvalidGuessFormat
		}
	}
	return nil
}

// ValidateTarget checks a creator-supplied target number
func (s *Service) ValidateTarget(target string, targetDigits int) error {
	if err := s.ValidateGuess(target, targetDigits); err != nil {
		return model.ErrInvalidTargetNumber
	}
	return nil
}
