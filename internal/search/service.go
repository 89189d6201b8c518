// Package search exposes the query-to-recommendation flow: extract
// preferences from free text, rank the catalog and record the interaction.
package search

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/campmatch/backend/internal/querylog"
	"github.com/campmatch/backend/internal/recommend"
	"github.com/campmatch/backend/internal/storage"
)

var (
	// ErrEmptyQuery is returned when the query text is blank.
	ErrEmptyQuery = errors.New("query text is empty")
	// ErrMissingDates is returned when a dated search omits either date.
	ErrMissingDates = errors.New("both from and to dates are required")
	// ErrDateOrder is returned when the end date precedes the start date.
	ErrDateOrder = errors.New("to date is before from date")
	// ErrNothingUnderstood is returned when no preference could be extracted
	// from the query text.
	ErrNothingUnderstood = errors.New("no preferences recognized in query")
)

// Service runs searches against the catalog.
type Service struct {
	extractor   *recommend.Extractor
	campRepo    *storage.CampgroundRepository
	bookingRepo *storage.BookingRepository
	userRepo    *storage.UserRepository
	queryLog    *querylog.Logger
	options     recommend.Options
	logger      *zap.Logger
}

// NewService creates a search service. The query logger may be nil, in which
// case interactions are not recorded to disk.
func NewService(
	extractor *recommend.Extractor,
	campRepo *storage.CampgroundRepository,
	bookingRepo *storage.BookingRepository,
	userRepo *storage.UserRepository,
	queryLog *querylog.Logger,
	options recommend.Options,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		extractor:   extractor,
		campRepo:    campRepo,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		queryLog:    queryLog,
		options:     options,
		logger:      logger,
	}
}

// Search ranks the catalog against a free-text query for an inclusive date
// range. The query is appended to the user's search history and recorded in
// the daily interaction log.
func (s *Service) Search(ctx context.Context, username, query, fromDate, toDate string) ([]recommend.MatchResult, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if fromDate == "" || toDate == "" {
		return nil, ErrMissingDates
	}

	from, err := recommend.ParseDate(fromDate)
	if err != nil {
		return nil, err
	}
	to, err := recommend.ParseDate(toDate)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, ErrDateOrder
	}

	prefs := s.extractor.Extract(query)
	if prefs.Empty() {
		return nil, ErrNothingUnderstood
	}

	camps, err := s.campRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookingRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	results, err := recommend.MatchForDates(prefs, camps, fromDate, toDate, bookings, s.options)
	if err != nil {
		return nil, err
	}

	s.appendHistory(ctx, username, query)
	s.record(username, query, results)
	return results, nil
}

// Recommend ranks the catalog against a free-text query without dates. The
// query is appended to the user's search history.
func (s *Service) Recommend(ctx context.Context, username, query string) ([]recommend.MatchResult, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}

	prefs := s.extractor.Extract(query)
	if prefs.Empty() {
		return nil, ErrNothingUnderstood
	}

	camps, err := s.campRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	results := recommend.Match(prefs, camps, s.options)

	s.appendHistory(ctx, username, query)
	s.record(username, query, results)
	return results, nil
}

func (s *Service) appendHistory(ctx context.Context, username, query string) {
	if err := s.userRepo.AppendHistory(ctx, username, query); err != nil {
		s.logger.Warn("recording search history", zap.Error(err), zap.String("username", username))
	}
}

func (s *Service) record(username, query string, results []recommend.MatchResult) {
	if s.queryLog == nil {
		return
	}
	if err := s.queryLog.LogInteraction(username, query, results); err != nil {
		s.logger.Warn("writing query log", zap.Error(err))
	}
}
