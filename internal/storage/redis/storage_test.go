package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/casuskim/casus/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.HistoryTTL = time.Hour
	cfg.MaxSummariesPerRoom = 3

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Word pack tests

func (s *StorageSuite) TestGetCategoriesEmpty() {
	_, err := s.storage.GetCategories(s.ctx)
	s.ErrorIs(err, model.ErrNoCategories)
}

func (s *StorageSuite) TestSaveAndGetCategories() {
	categories := []model.Category{
		{Name: "Hayvanlar", Words: []string{"Aslan", "Kaplan", "Fil"}},
		{Name: "Eşyalar", Words: []string{"Masa", "Sandalye"}},
	}

	err := s.storage.SaveCategories(s.ctx, categories)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetCategories(s.ctx)
	s.Require().NoError(err)
	s.Equal(categories, retrieved)
}

func (s *StorageSuite) TestSaveCategoriesReplacesPreviousPack() {
	s.Require().NoError(s.storage.SaveCategories(s.ctx, []model.Category{
		{Name: "Hayvanlar", Words: []string{"Aslan"}},
		{Name: "Meslekler", Words: []string{"Doktor"}},
	}))
	s.Require().NoError(s.storage.SaveCategories(s.ctx, []model.Category{
		{Name: "Yiyecekler", Words: []string{"Pizza", "Döner"}},
	}))

	retrieved, err := s.storage.GetCategories(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(retrieved, 1)
	s.Equal("Yiyecekler", retrieved[0].Name)
	s.False(s.mini.Exists(categoryKey("Hayvanlar")))
	s.False(s.mini.Exists(categoryKey("Meslekler")))
}

func (s *StorageSuite) TestSaveCategoriesSkipsEmptyCategory() {
	s.Require().NoError(s.storage.SaveCategories(s.ctx, []model.Category{
		{Name: "Boş"},
		{Name: "Hayvanlar", Words: []string{"Aslan"}},
	}))

	retrieved, err := s.storage.GetCategories(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(retrieved, 1)
	s.Equal("Hayvanlar", retrieved[0].Name)
}

// Game history tests

func (s *StorageSuite) TestSaveAndListGameSummaries() {
	finished := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	summary := &model.GameSummary{
		ID:         "game-1",
		RoomCode:   "123456",
		Category:   "Hayvanlar",
		Word:       "Aslan",
		Winner:     model.SideCivilians,
		Spies:      []string{"Ali"},
		Suspect:    "Ali",
		Rounds:     1,
		VoteCounts: []model.VoteCount{{PlayerID: "p2", Name: "Ali", Count: 2, Voters: []string{"Ayşe", "Can"}}},
		FinishedAt: finished,
	}

	err := s.storage.SaveGameSummary(s.ctx, summary)
	s.Require().NoError(err)

	summaries, err := s.storage.ListGameSummaries(s.ctx, "123456", 10)
	s.Require().NoError(err)
	s.Require().Len(summaries, 1)
	s.Equal(summary.Word, summaries[0].Word)
	s.Equal(summary.Winner, summaries[0].Winner)
	s.Equal(summary.VoteCounts, summaries[0].VoteCounts)
	s.True(summaries[0].FinishedAt.Equal(finished))
}

func (s *StorageSuite) TestGameSummaryHistoryHasTTL() {
	err := s.storage.SaveGameSummary(s.ctx, &model.GameSummary{ID: "game-1", RoomCode: "123456"})
	s.Require().NoError(err)

	ttl := s.mini.TTL(historyKey("123456"))
	s.True(ttl > 0 && ttl <= time.Hour, "history key should expire, got %v", ttl)

	s.mini.FastForward(2 * time.Hour)
	summaries, err := s.storage.ListGameSummaries(s.ctx, "123456", 0)
	s.Require().NoError(err)
	s.Empty(summaries)
}

func (s *StorageSuite) TestGameSummaryHistoryIsTrimmed() {
	for i := range 5 {
		err := s.storage.SaveGameSummary(s.ctx, &model.GameSummary{ID: fmt.Sprintf("game-%d", i), RoomCode: "123456"})
		s.Require().NoError(err)
	}

	summaries, err := s.storage.ListGameSummaries(s.ctx, "123456", 0)
	s.Require().NoError(err)
	s.Require().Len(summaries, 3)
	s.Equal("game-4", summaries[0].ID)
	s.Equal("game-2", summaries[2].ID)
}

func (s *StorageSuite) TestListGameSummariesLimit() {
	for i := range 3 {
		s.Require().NoError(s.storage.SaveGameSummary(s.ctx, &model.GameSummary{ID: fmt.Sprintf("game-%d", i), RoomCode: "654321"}))
	}

	summaries, err := s.storage.ListGameSummaries(s.ctx, "654321", 1)
	s.Require().NoError(err)
	s.Require().Len(summaries, 1)
	s.Equal("game-2", summaries[0].ID)
}

func (s *StorageSuite) TestListGameSummariesUnknownRoom() {
	summaries, err := s.storage.ListGameSummaries(s.ctx, "000000", 0)
	s.Require().NoError(err)
	s.Empty(summaries)
}
