package models

// FavoriteRequest карточка драмы, которую клиент отмечает избранной.
type FavoriteRequest struct {
	BookID       string   `json:"bookId" validate:"required,max=64"`
	BookName     string   `json:"bookName" validate:"max=256"`
	CoverWap     string   `json:"coverWap" validate:"max=2048"`
	PlayCount    string   `json:"playCount" validate:"max=32"`
	Tags         []string `json:"tags" validate:"max=32"`
	Introduction string   `json:"introduction" validate:"max=4096"`
}

// Drama снимок карточки для хранения.
func (r FavoriteRequest) Drama() Drama {
	return Drama{
		BookID:       r.BookID,
		BookName:     r.BookName,
		CoverWap:     r.CoverWap,
		PlayCount:    r.PlayCount,
		Tags:         r.Tags,
		Introduction: r.Introduction,
	}
}
