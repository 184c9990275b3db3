// Package numerator generates sequential document numbers such as
// ASN-2026-00001. Sequences are scoped per prefix and year; the strict
// strategy never skips or reuses a value, at the cost of serializing
// concurrent creators on the counter row.
package numerator

import (
	"context"
	"fmt"
	"time"
)

// Config describes one number sequence.
type Config struct {
	// Prefix names the sequence and leads the formatted number
	Prefix string

	// Width is the zero-padded width of the counter part
	Width int
}

// DefaultConfig returns the standard sequence settings for a prefix.
func DefaultConfig(prefix string) Config {
	return Config{Prefix: prefix, Width: 5}
}

// Repository holds the counters. NextValue must atomically increment and
// return the counter for (sequence, period); concurrent callers inside
// transactions serialize on the counter row.
type Repository interface {
	NextValue(ctx context.Context, sequence string, period int) (int64, error)
}

// Service formats sequential document numbers.
type Service struct {
	repo Repository
}

// NewService creates the numerator service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetNextNumber returns the next number of the sequence for the period
// containing the given time, formatted as PREFIX-YYYY-NNNNN.
func (s *Service) GetNextNumber(ctx context.Context, cfg Config, at time.Time) (string, error) {
	period := at.UTC().Year()

	value, err := s.repo.NextValue(ctx, cfg.Prefix, period)
	if err != nil {
		return "", fmt.Errorf("next value for %s/%d: %w", cfg.Prefix, period, err)
	}

	width := cfg.Width
	if width <= 0 {
		width = 5
	}
	return fmt.Sprintf("%s-%d-%0*d", cfg.Prefix, period, width, value), nil
}
