package words

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/casuskim/casus/internal/model"
	"github.com/casuskim/casus/internal/storage/memory"
	"github.com/casuskim/casus/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.service = New(s.storage, "", testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) writePack(content string) string {
	path := filepath.Join(s.T().TempDir(), "words.yaml")
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (s *ServiceSuite) TestLoadFallsBackToBuiltInPack() {
	err := s.service.Load(s.ctx, "")
	s.Require().NoError(err)

	s.True(s.service.IsLoaded())
	s.Len(s.service.Categories(), 4)
	s.Equal("Hayvanlar", s.service.DefaultCategory())

	// The built-in pack is saved for later loads
	stored, err := s.storage.GetCategories(s.ctx)
	s.Require().NoError(err)
	s.Equal(DefaultCategories(), stored)
}

func (s *ServiceSuite) TestLoadPrefersStoredPack() {
	s.Require().NoError(s.storage.SaveCategories(s.ctx, []model.Category{
		{Name: "Hayvanlar", Words: []string{"Aslan"}},
	}))

	s.Require().NoError(s.service.Load(s.ctx, ""))

	name, words := s.service.WordsFor("Hayvanlar")
	s.Equal("Hayvanlar", name)
	s.Equal([]string{"Aslan"}, words)
}

func (s *ServiceSuite) TestLoadFromFile() {
	path := s.writePack(`
defaultCategory: Meslekler
categories:
  - name: Hayvanlar
    words: [Aslan, Kedi]
  - name: Meslekler
    words: [Doktor, " Pilot ", "", Doktor]
`)

	s.Require().NoError(s.service.Load(s.ctx, path))

	s.Equal("Meslekler", s.service.DefaultCategory())
	name, words := s.service.WordsFor("nope")
	s.Equal("Meslekler", name)
	s.Equal([]string{"Doktor", "Pilot"}, words)

	infos := s.service.Categories()
	s.Require().Len(infos, 2)
	s.Equal(CategoryInfo{Name: "Hayvanlar", WordCount: 2}, infos[0])
	s.Equal(CategoryInfo{Name: "Meslekler", WordCount: 2, IsDefault: true}, infos[1])
}

func (s *ServiceSuite) TestLoadFromFileRejectsEmptyCategory() {
	path := s.writePack(`
categories:
  - name: Hayvanlar
    words: []
`)

	err := s.service.Load(s.ctx, path)
	s.ErrorIs(err, model.ErrEmptyCategory)
	s.False(s.service.IsLoaded())
}

func (s *ServiceSuite) TestLoadFromFileMissing() {
	err := s.service.Load(s.ctx, filepath.Join(s.T().TempDir(), "missing.yaml"))
	s.Error(err)
}

func (s *ServiceSuite) TestLoadFromFileInvalidYAML() {
	path := s.writePack("categories: [this is: not: valid")

	err := s.service.Load(s.ctx, path)
	s.Error(err)
}

func (s *ServiceSuite) TestWordsForIsCaseInsensitive() {
	s.Require().NoError(s.service.LoadCategories(s.ctx, DefaultCategories()))

	name, words := s.service.WordsFor("yiyecekler")
	s.Equal("Yiyecekler", name)
	s.Contains(words, "Lahmacun")
}

func (s *ServiceSuite) TestWordsForUnknownUsesDefault() {
	s.Require().NoError(s.service.LoadCategories(s.ctx, DefaultCategories()))

	name, words := s.service.WordsFor("Uzay")
	s.Equal("Hayvanlar", name)
	s.Contains(words, "Aslan")

	name, _ = s.service.WordsFor("")
	s.Equal("Hayvanlar", name)
}

func (s *ServiceSuite) TestWordsForReturnsCopy() {
	s.Require().NoError(s.service.LoadCategories(s.ctx, DefaultCategories()))

	_, words := s.service.WordsFor("Hayvanlar")
	words[0] = "Ejderha"

	_, again := s.service.WordsFor("Hayvanlar")
	s.Equal("Aslan", again[0])
}

func (s *ServiceSuite) TestMissingDefaultFallsBackToFirstCategory() {
	service := New(s.storage, "Uzay", testutil.NopLogger())
	s.Require().NoError(service.LoadCategories(s.ctx, []model.Category{
		{Name: "Eşyalar", Words: []string{"Masa"}},
	}))

	s.Equal("Eşyalar", service.DefaultCategory())
	name, _ := service.WordsFor("whatever")
	s.Equal("Eşyalar", name)
}

func (s *ServiceSuite) TestShippedWordPackLoads() {
	s.Require().NoError(s.service.Load(s.ctx, filepath.Join("..", "..", "..", "data", "words.yaml")))

	for _, info := range s.service.Categories() {
		s.Positive(info.WordCount, info.Name)
	}
	s.Equal("Hayvanlar", s.service.DefaultCategory())
}
