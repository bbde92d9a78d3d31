package words

import "github.com/casuskim/casus/internal/model"

// DefaultCategory is used when a game is started with an unknown category
const DefaultCategory = "Hayvanlar"

// DefaultCategories is the built-in word pack
func DefaultCategories() []model.Category {
	return []model.Category{
		{Name: "Hayvanlar", Words: []string{"Aslan", "Kaplan", "Fil", "Zürafa", "Kartal", "Balık", "Kedi", "Köpek", "At", "İnek"}},
		{Name: "Yiyecekler", Words: []string{"Pizza", "Hamburger", "Döner", "Lahmacun", "Kebap", "Pasta", "Dondurma", "Çikolata", "Elma", "Muz"}},
		{Name: "Meslekler", Words: []string{"Doktor", "Öğretmen", "Mühendis", "Avukat", "Hemşire", "Polis", "İtfaiyeci", "Pilot", "Şoför", "Aşçı"}},
		{Name: "Eşyalar", Words: []string{"Masa", "Sandalye", "Telefon", "Bilgisayar", "Kitap", "Kalem", "Çanta", "Saat", "Ayna", "Lamba"}},
	}
}
